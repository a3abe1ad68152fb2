// SPDX-FileCopyrightText: 2022 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Resistance is a measurement of electrical resistance stored as a float64 in
// ohms.
type Resistance float64

// ParseResistance sets the resistance based on the string provided.  A bare
// number is taken as ohms, and the usual k/M multipliers are accepted with or
// without a trailing ohm, ohms or Ω.
func ParseResistance(s string) (Resistance, error) {
	lower := strings.TrimSpace(s)
	for _, suffix := range []string{"Ω", "ohms", "ohm", "Ohms", "Ohm"} {
		if strings.HasSuffix(lower, suffix) {
			lower = strings.TrimSpace(lower[:len(lower)-len(suffix)])
			break
		}
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(lower, "k"), strings.HasSuffix(lower, "K"):
		mult = 1000.0
		lower = lower[:len(lower)-1]
	case strings.HasSuffix(lower, "M"):
		mult = 1000000.0
		lower = lower[:len(lower)-1]
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(lower), 64)
	if err != nil {
		return 0.0, fmt.Errorf("%w: '%s' %v", ErrInvalidUnit, s, err)
	}

	return Resistance(n * mult), nil
}

// Ohms returns the resistance as a floating point in ohms.
func (r Resistance) Ohms() float64 {
	return float64(r)
}

// String returns the resistance formatted as a string with an SI multiplier.
func (r Resistance) String() string {
	switch {
	case r >= 1000000.0:
		return fmt.Sprintf("%.3fMΩ", float64(r)/1000000.0)
	case r >= 1000.0:
		return fmt.Sprintf("%.3fkΩ", float64(r)/1000.0)
	}
	return fmt.Sprintf("%.3fΩ", float64(r))
}
