// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package units

import "errors"

// ErrInvalidUnit is returned when a temperature or resistance string cannot
// be parsed.
var ErrInvalidUnit = errors.New("invalid temperature or resistance")
