// SPDX-FileCopyrightText: 2022 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package adc

import (
	"github.com/stretchr/testify/mock"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

type mockWrapper struct {
	mock.Mock
}

func (m *mockWrapper) Open(file string) (err error) {
	a := m.Called(file)
	return a.Error(0)
}

func (m *mockWrapper) Close() (err error) {
	a := m.Called()
	return a.Error(0)
}

func (m *mockWrapper) Connect(addr uint16, input int, max physic.ElectricPotential, f physic.Frequency) (analog.PinADC, error) {
	a := m.Called(addr, input, max, f)
	pin, _ := a.Get(0).(analog.PinADC)
	return pin, a.Error(1)
}

// Mocking analog.PinADC

type mockPinADC struct {
	mock.Mock
}

func (m *mockPinADC) String() string {
	a := m.Called()
	return a.String(0)
}

func (m *mockPinADC) Halt() error {
	a := m.Called()
	return a.Error(0)
}

func (m *mockPinADC) Name() string {
	a := m.Called()
	return a.String(0)
}

func (m *mockPinADC) Number() int {
	a := m.Called()
	return a.Int(0)
}

func (m *mockPinADC) Function() string {
	a := m.Called()
	return a.String(0)
}

func (m *mockPinADC) Range() (analog.Sample, analog.Sample) {
	a := m.Called()
	return a.Get(0).(analog.Sample), a.Get(1).(analog.Sample)
}

func (m *mockPinADC) Read() (analog.Sample, error) {
	a := m.Called()
	return a.Get(0).(analog.Sample), a.Error(1)
}
