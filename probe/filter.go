// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

// Package probe turns a noisy stream of raw thermistor readings into a smoothed
// temperature.
//
// A Filter keeps the last BatchSize raw samples in a ring.  Every time the ring
// wraps the samples are sorted, the highest and lowest are dropped and the rest
// are averaged.  The average is converted to a resistance through the divider
// formed with the series resistor and then to a temperature with the beta
// equation.
package probe

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/schmidtw/thermoprobe/units"
)

const (
	// BatchSize is the number of raw samples in each recomputation.
	BatchSize = 5

	// DefaultSamplePeriod is the minimum time between accepted samples.
	DefaultSamplePeriod = 100 * time.Millisecond

	// DefaultSeriesResistor is the resistor paired with the thermistor.
	DefaultSeriesResistor = units.Resistance(100000)
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
)

// AnalogSource provides raw ADC samples in the range 0 to FullScale.
type AnalogSource interface {
	Read() (int, error)
}

// Config provides the calibration of one thermistor.
type Config struct {
	// Channel identifies the analog input the probe is attached to.
	Channel string

	// ReferenceResistance is the resistance of the thermistor at
	// NominalTemperature.
	ReferenceResistance units.Resistance

	// Beta is the beta coefficient of the thermistor.
	Beta float64

	// SeriesResistor is the fixed resistor of the divider.  Defaults to
	// DefaultSeriesResistor.
	SeriesResistor units.Resistance
}

type Option interface {
	apply(f *Filter)
}

// Filter is the sampling, filtering and conversion pipeline for one probe.
// It is not safe for concurrent use.
type Filter struct {
	channel   string
	reference units.Resistance
	beta      float64
	series    units.Resistance
	period    time.Duration
	clock     clock.Clock

	samples [BatchSize]int
	index   int
	last    time.Time

	rawAverage int
	celsius    units.Temperature
	fault      bool
	batches    uint64
	computedAt time.Time
}

// New makes a new Filter.  No I/O is performed.
func New(cfg Config, opts ...Option) (*Filter, error) {
	if cfg.SeriesResistor == 0 {
		cfg.SeriesResistor = DefaultSeriesResistor
	}
	if cfg.ReferenceResistance <= 0 {
		return nil, fmt.Errorf("%w: reference resistance must be positive", ErrInvalidParameter)
	}
	if cfg.Beta <= 0 {
		return nil, fmt.Errorf("%w: beta must be positive", ErrInvalidParameter)
	}
	if cfg.SeriesResistor < 0 {
		return nil, fmt.Errorf("%w: series resistor must be positive", ErrInvalidParameter)
	}

	f := Filter{
		channel:   cfg.Channel,
		reference: cfg.ReferenceResistance,
		beta:      cfg.Beta,
		series:    cfg.SeriesResistor,
		period:    DefaultSamplePeriod,
		clock:     clock.New(),
	}

	for _, opt := range opts {
		opt.apply(&f)
	}

	return &f, nil
}

// Tick offers the filter a chance to take a sample.  sample is only called if
// at least the sample period has passed since the last accepted sample.
func (f *Filter) Tick(now time.Time, sample func() int) {
	if !f.due(now) {
		return
	}
	f.accept(now, sample())
}

// Poll is Tick driven by the filter's clock and an AnalogSource.  A failed
// read stores nothing and leaves the filter due for a sample.
func (f *Filter) Poll(src AnalogSource) error {
	now := f.clock.Now()
	if !f.due(now) {
		return nil
	}

	raw, err := src.Read()
	if err != nil {
		return err
	}

	f.accept(now, raw)
	return nil
}

func (f *Filter) due(now time.Time) bool {
	return now.Sub(f.last) >= f.period
}

func (f *Filter) accept(now time.Time, raw int) {
	f.last = now
	f.samples[f.index] = raw
	f.index = (f.index + 1) % BatchSize

	if f.index == 0 {
		f.recompute(now)
	}
}

func (f *Filter) recompute(now time.Time) {
	batch := f.samples
	slices.SortFunc(batch[:], func(a, b int) int {
		return cmp.Compare(b, a)
	})

	var sum float64
	for _, v := range batch[1 : BatchSize-1] {
		sum += float64(v)
	}
	avg := sum / (BatchSize - 2)

	f.rawAverage = int(avg)
	f.batches++
	f.computedAt = now

	r, ok := DividerResistance(avg, f.series)
	if !ok {
		f.fault = true
		return
	}

	c := BetaCelsius(r, f.reference, f.beta)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		f.fault = true
		return
	}

	f.fault = false
	f.celsius = units.Temperature(max(c, 0))
}

// Channel returns the channel the filter was built for.
func (f *Filter) Channel() string {
	return f.channel
}

// Celsius returns the last computed temperature, never below 0.
func (f *Filter) Celsius() units.Temperature {
	return f.celsius
}

// RawAverage returns the last trimmed average of the raw samples, truncated.
func (f *Filter) RawAverage() int {
	return f.rawAverage
}

// Fault reports whether the last batch averaged to a rail of the ADC, which
// means the probe is open or shorted.  Celsius keeps the previous value while
// faulted.
func (f *Filter) Fault() bool {
	return f.fault
}

// Batches returns how many recomputations have happened.
func (f *Filter) Batches() uint64 {
	return f.batches
}

// Settled reports whether the last accepted sample completed a batch.
func (f *Filter) Settled() bool {
	return f.batches > 0 && f.index == 0
}

// Reading returns a snapshot of the last computed values.
func (f *Filter) Reading() Reading {
	return Reading{
		Channel:    f.channel,
		Celsius:    f.celsius,
		RawAverage: f.rawAverage,
		Fault:      f.fault,
		Batch:      f.batches,
		Time:       f.computedAt,
	}
}

// UseClock provides a way to set the clock used by Poll.  This is used for
// testing.
func UseClock(c clock.Clock) Option {
	return &clockOption{clk: c}
}

type clockOption struct {
	clk clock.Clock
}

func (c clockOption) apply(f *Filter) {
	if c.clk != nil {
		f.clock = c.clk
	}
}

// WithSamplePeriod changes the minimum time between accepted samples.
func WithSamplePeriod(d time.Duration) Option {
	return periodOption(d)
}

type periodOption time.Duration

func (p periodOption) apply(f *Filter) {
	if p > 0 {
		f.period = time.Duration(p)
	}
}
