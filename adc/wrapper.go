// SPDX-FileCopyrightText: 2022 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package adc

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

var channels = []ads1x15.Channel{
	ads1x15.Channel0,
	ads1x15.Channel1,
	ads1x15.Channel2,
	ads1x15.Channel3,
}

type hwWrapper struct {
	m    sync.Mutex
	bus  i2c.BusCloser
	devs map[uint16]*ads1x15.Dev
}

func (h *hwWrapper) Open(file string) (err error) {
	h.m.Lock()
	defer h.m.Unlock()

	if h.bus != nil {
		return ErrAlreadyStarted
	}

	if _, err = host.Init(); err != nil {
		return err
	}

	h.bus, err = i2creg.Open(file)
	if err != nil {
		h.bus = nil
	}
	h.devs = make(map[uint16]*ads1x15.Dev)
	return err
}

func (h *hwWrapper) Close() (err error) {
	h.m.Lock()
	defer h.m.Unlock()

	for _, dev := range h.devs {
		e := dev.Halt()
		if e != nil && err == nil {
			err = e
		}
	}
	h.devs = nil

	if h.bus != nil {
		e := h.bus.Close()
		if e != nil && err == nil {
			err = e
		}
		h.bus = nil
	}

	return err
}

func (h *hwWrapper) Connect(addr uint16, input int, max physic.ElectricPotential, f physic.Frequency) (analog.PinADC, error) {
	h.m.Lock()
	defer h.m.Unlock()

	if h.bus == nil {
		return nil, fmt.Errorf("invalid state")
	}
	if input < 0 || input >= len(channels) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidInput, input)
	}

	dev, ok := h.devs[addr]
	if !ok {
		var err error
		dev, err = ads1x15.NewADS1115(h.bus, &ads1x15.Opts{I2cAddress: addr})
		if err != nil {
			return nil, err
		}
		h.devs[addr] = dev
	}

	pin, err := dev.PinForChannel(channels[input], max, f, ads1x15.BestQuality)
	if err != nil {
		return nil, err
	}
	return pin, nil
}
