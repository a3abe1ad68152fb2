// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"fmt"
	"time"

	"github.com/schmidtw/thermoprobe/units"
)

// Reading is a snapshot of the last computed values of a Filter.
type Reading struct {
	Channel    string            `json:"channel"`
	Celsius    units.Temperature `json:"celsius"`
	RawAverage int               `json:"raw_average"`
	Fault      bool              `json:"fault"`
	Batch      uint64            `json:"batch"`
	Time       time.Time         `json:"time"`
}

// String returns the diagnostic line for the reading.
func (r Reading) String() string {
	if r.Fault {
		return fmt.Sprintf("[PROBE %s] -> FAULT", r.Channel)
	}
	return fmt.Sprintf("[PROBE %s] -> %.2f", r.Channel, float64(r.Celsius))
}
