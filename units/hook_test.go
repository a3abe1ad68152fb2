// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package units

import (
	"testing"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

type hookTarget struct {
	Temp      Temperature              `mapstructure:"temp"`
	Reference Resistance               `mapstructure:"reference"`
	Period    time.Duration            `mapstructure:"period"`
	Rate      physic.Frequency         `mapstructure:"rate"`
	Max       physic.ElectricPotential `mapstructure:"max"`
	Beta      float64                  `mapstructure:"beta"`
}

func decode(in map[string]any) (hookTarget, error) {
	var out hookTarget
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       DecodeHook(),
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	err = d.Decode(in)
	return out, err
}

func TestDecodeHook(t *testing.T) {
	tests := []struct {
		description string
		in          map[string]any
		expect      hookTarget
		expectErr   error
	}{
		{
			description: "all strings",
			in: map[string]any{
				"temp":      "77F",
				"reference": "100k",
				"period":    "100ms",
				"rate":      "128Hz",
				"max":       "3.3V",
				"beta":      "3950",
			},
			expect: hookTarget{
				Temp:      Temperature(25),
				Reference: Resistance(100000),
				Period:    100 * time.Millisecond,
				Rate:      128 * physic.Hertz,
				Max:       3300 * physic.MilliVolt,
				Beta:      3950,
			},
		}, {
			description: "plain numbers pass through",
			in: map[string]any{
				"temp":      30.5,
				"reference": 10000,
			},
			expect: hookTarget{
				Temp:      Temperature(30.5),
				Reference: Resistance(10000),
			},
		}, {
			description: "bad resistance",
			in: map[string]any{
				"reference": "lots",
			},
			expectErr: ErrInvalidUnit,
		}, {
			description: "bad frequency",
			in: map[string]any{
				"rate": "fast",
			},
			expectErr: ErrInvalidUnit,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			got, err := decode(tc.in)

			if tc.expectErr != nil {
				assert.ErrorContains(err, tc.expectErr.Error())
				return
			}

			require.NoError(err)
			assert.InDelta(float64(tc.expect.Temp), float64(got.Temp), 1e-9)
			assert.Equal(tc.expect.Reference, got.Reference)
			assert.Equal(tc.expect.Period, got.Period)
			assert.Equal(tc.expect.Rate, got.Rate)
			assert.Equal(tc.expect.Max, got.Max)
			assert.Equal(tc.expect.Beta, got.Beta)
		})
	}
}
