// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"math"

	"github.com/schmidtw/thermoprobe/units"
)

const (
	// FullScale is the largest reading of the 10-bit ADC the filter expects.
	FullScale = 1023

	// NominalTemperature is the temperature at which the reference resistance
	// of a thermistor is specified.
	NominalTemperature = units.Temperature(25.0)
)

// DividerResistance converts an averaged ADC reading into the resistance of
// the thermistor sitting in a divider with the series resistor.  The second
// return is false when the reading is at either rail, where the divider has
// no solution.
func DividerResistance(avg float64, series units.Resistance) (units.Resistance, bool) {
	if avg <= 0 || avg >= FullScale {
		return 0, false
	}

	return units.Resistance(float64(series) / (FullScale/avg - 1.0)), true
}

// BetaCelsius applies the beta form of the Steinhart-Hart equation.  The
// result is not clamped.
func BetaCelsius(r, reference units.Resistance, beta float64) float64 {
	inv := 1.0/NominalTemperature.Kelvin() + math.Log(float64(r)/float64(reference))/beta
	return 1.0/inv - units.KelvinOffset
}

// RawForTemperature returns the (fractional) ADC reading a thermistor at the
// given temperature produces.  It is the inverse of DividerResistance
// followed by BetaCelsius.
func RawForTemperature(t units.Temperature, reference units.Resistance, beta float64, series units.Resistance) float64 {
	r := float64(reference) * math.Exp(beta*(1.0/t.Kelvin()-1.0/NominalTemperature.Kelvin()))
	return FullScale / (float64(series)/r + 1.0)
}
