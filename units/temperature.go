// SPDX-FileCopyrightText: 2022 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package units

import (
	"fmt"
	"strconv"
	"strings"
)

// KelvinOffset is the offset between the Celsius and Kelvin scales.
const KelvinOffset = 273.15

// Temperature is a measurement of temperature stored as a float64 in Celsius.
type Temperature float64

// ParseTemperature sets the temperature based on the string provided.  Both a
// number and units are required.
func ParseTemperature(s string) (Temperature, error) {
	list := []struct {
		suffix string
		conv   func(float64) float64
	}{
		{suffix: "°c", conv: func(n float64) float64 { return n }},
		{suffix: "°f", conv: func(n float64) float64 { return (n - 32.0) * 5.0 / 9.0 }},
		{suffix: "c", conv: func(n float64) float64 { return n }},
		{suffix: "f", conv: func(n float64) float64 { return (n - 32.0) * 5.0 / 9.0 }},
		{suffix: "k", conv: func(n float64) float64 { return n - KelvinOffset }},
	}

	known := make([]string, 0, len(list))

	lower := strings.ToLower(strings.TrimSpace(s))
	for _, unit := range list {
		if strings.HasSuffix(lower, unit.suffix) {
			num := strings.TrimSpace(lower[:len(lower)-len(unit.suffix)])

			n, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0.0, fmt.Errorf("%w: '%s' %v", ErrInvalidUnit, s, err)
			}
			return Temperature(unit.conv(n)), nil
		}
		known = append(known, unit.suffix)
	}

	return 0.0, fmt.Errorf("%w: unknown unit for '%s' valid: %s", ErrInvalidUnit, s, strings.Join(known, ", "))
}

// Celsius returns the temperature as a floating point in Celsius.
func (t Temperature) Celsius() float64 {
	return float64(t)
}

// Fahrenheit returns the temperature as a floating point in Fahrenheit.
func (t Temperature) Fahrenheit() float64 {
	return float64(t)*9.0/5.0 + 32.0
}

// Kelvin returns the temperature as a floating point in Kelvin.
func (t Temperature) Kelvin() float64 {
	return float64(t) + KelvinOffset
}

// String returns the temperature formatted as a string in C.
func (t Temperature) String() string {
	return fmt.Sprintf("%.2fC", float64(t))
}
