// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package adc

import (
	"testing"
	"time"

	"github.com/schmidtw/thermoprobe/probe"
	"github.com/schmidtw/thermoprobe/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSimulated(t *testing.T) {
	tests := []struct {
		description string
		cfg         SimulatedConfig
		expectErr   error
	}{
		{
			description: "basic test",
			cfg: SimulatedConfig{
				Temperature:         units.Temperature(100),
				ReferenceResistance: units.Resistance(100000),
				Beta:                3950,
			},
		}, {
			description: "missing beta",
			cfg: SimulatedConfig{
				ReferenceResistance: units.Resistance(100000),
			},
			expectErr: ErrInvalidParameter,
		}, {
			description: "negative noise",
			cfg: SimulatedConfig{
				ReferenceResistance: units.Resistance(100000),
				Beta:                3950,
				Noise:               -1,
			},
			expectErr: ErrInvalidParameter,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert := assert.New(t)

			s, err := NewSimulated(tc.cfg)

			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				assert.Nil(s)
				return
			}

			assert.NoError(err)
			assert.NotNil(s)
		})
	}
}

// The filter recovers the simulated temperature even with noise and spikes.
func TestSimulatedThroughFilter(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	sim, err := NewSimulated(SimulatedConfig{
		Temperature:         units.Temperature(110),
		ReferenceResistance: units.Resistance(100000),
		Beta:                3950,
		Noise:               2,
		SpikeEvery:          5,
		Seed:                42,
	})
	require.NoError(err)

	f, err := probe.New(probe.Config{
		Channel:             "sim",
		ReferenceResistance: units.Resistance(100000),
		Beta:                3950,
	})
	require.NoError(err)

	now := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		now = now.Add(probe.DefaultSamplePeriod)
		raw, err := sim.Read()
		require.NoError(err)
		f.Tick(now, func() int { return raw })
	}

	assert.Equal(uint64(10), f.Batches())
	assert.False(f.Fault())
	assert.InDelta(110.0, f.Celsius().Celsius(), 3.0)

	sim.SetTemperature(units.Temperature(60))
	for i := 0; i < 5; i++ {
		now = now.Add(probe.DefaultSamplePeriod)
		raw, err := sim.Read()
		require.NoError(err)
		f.Tick(now, func() int { return raw })
	}
	assert.InDelta(60.0, f.Celsius().Celsius(), 1.0)
}

func TestSimulatedSpikes(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	sim, err := NewSimulated(SimulatedConfig{
		Temperature:         units.Temperature(25),
		ReferenceResistance: units.Resistance(100000),
		Beta:                3950,
		SpikeEvery:          2,
	})
	require.NoError(err)

	var got []int
	for i := 0; i < 4; i++ {
		raw, err := sim.Read()
		require.NoError(err)
		got = append(got, raw)
	}

	assert.Equal([]int{512, probe.FullScale, 512, 0}, got)
}
