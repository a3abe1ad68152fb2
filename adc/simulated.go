// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package adc

import (
	"errors"
	"math"
	"math/rand"
	"sync"

	"github.com/schmidtw/thermoprobe/probe"
	"github.com/schmidtw/thermoprobe/units"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
)

// SimulatedConfig describes a thermistor divider that exists only in software.
type SimulatedConfig struct {
	Temperature         units.Temperature `mapstructure:"temperature"`
	ReferenceResistance units.Resistance  `mapstructure:"reference_resistance"`
	Beta                float64           `mapstructure:"beta"`
	SeriesResistor      units.Resistance  `mapstructure:"series_resistor"`

	// Noise is the largest random error, in counts, added to each reading.
	Noise int `mapstructure:"noise"`

	// SpikeEvery makes every Nth reading jump to a rail.  0 disables spikes.
	SpikeEvery int `mapstructure:"spike_every"`

	Seed int64 `mapstructure:"seed"`
}

// Simulated produces the readings a thermistor at a set temperature would.
type Simulated struct {
	m     sync.Mutex
	cfg   SimulatedConfig
	rng   *rand.Rand
	reads int
}

// NewSimulated makes a new simulated source.
func NewSimulated(cfg SimulatedConfig) (*Simulated, error) {
	if cfg.SeriesResistor == 0 {
		cfg.SeriesResistor = probe.DefaultSeriesResistor
	}
	if cfg.ReferenceResistance <= 0 || cfg.Beta <= 0 || cfg.SeriesResistor < 0 || cfg.Noise < 0 || cfg.SpikeEvery < 0 {
		return nil, ErrInvalidParameter
	}

	return &Simulated{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// SetTemperature changes the temperature being simulated.
func (s *Simulated) SetTemperature(t units.Temperature) {
	s.m.Lock()
	defer s.m.Unlock()

	s.cfg.Temperature = t
}

// Read returns the next raw reading.
func (s *Simulated) Read() (int, error) {
	s.m.Lock()
	defer s.m.Unlock()

	s.reads++
	if s.cfg.SpikeEvery > 0 && s.reads%s.cfg.SpikeEvery == 0 {
		if (s.reads/s.cfg.SpikeEvery)%2 == 0 {
			return 0, nil
		}
		return probe.FullScale, nil
	}

	raw := int(math.Round(probe.RawForTemperature(s.cfg.Temperature,
		s.cfg.ReferenceResistance, s.cfg.Beta, s.cfg.SeriesResistor)))

	if s.cfg.Noise > 0 {
		raw += s.rng.Intn(2*s.cfg.Noise+1) - s.cfg.Noise
	}

	return min(max(raw, 0), probe.FullScale), nil
}
