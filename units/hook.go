// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package units

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

type setter interface {
	Set(string) error
}

var (
	temperatureType = reflect.TypeOf(Temperature(0))
	resistanceType  = reflect.TypeOf(Resistance(0))
)

// DecodeHook converts strings found in configuration into the typed values
// this package provides, durations, and any type implementing Set(string)
// (the periph physic types do).
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToUnitHook,
	)
}

func stringToUnitHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	s, _ := data.(string)

	switch to {
	case temperatureType:
		return ParseTemperature(s)
	case resistanceType:
		return ParseResistance(s)
	}

	ptr := reflect.New(to)
	if v, ok := ptr.Interface().(setter); ok {
		if err := v.Set(s); err != nil {
			return nil, fmt.Errorf("%w: '%s' %v", ErrInvalidUnit, s, err)
		}
		return ptr.Elem().Interface(), nil
	}

	return data, nil
}
