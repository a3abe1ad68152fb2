// SPDX-FileCopyrightText: 2022 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package adc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/schmidtw/thermoprobe/probe"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

var (
	ErrSampleRateTooFast = errors.New("sample rate too fast")
	ErrAlreadyStarted    = errors.New("already started")
	ErrNotStarted        = errors.New("not started")
	ErrInvalidInput      = errors.New("invalid input")
)

const (
	maxSampleRate       = 860 * physic.Hertz
	defaultAddress      = 0x48
	defaultMaxVoltage   = 3300 * physic.MilliVolt
	defaultSampleRate   = 128 * physic.Hertz
	defaultOpenAttempts = 3
	defaultRetryDelay   = time.Second
)

// Config is the configuration of an ADS1115 on an I2C bus.
type Config struct {
	// I2cFile is the bus to open.  Empty means the first bus found.
	I2cFile string `mapstructure:"i2c_file"`

	// Address of the ADS1115 on the bus.  Defaults to 0x48.
	Address uint16 `mapstructure:"address"`

	// Inputs are the single ended inputs (0-3) to connect.
	Inputs []int `mapstructure:"inputs"`

	// MaxVoltage is the voltage that reads as full scale.  This should be the
	// supply of the divider.
	MaxVoltage physic.ElectricPotential `mapstructure:"max_voltage"`

	// SampleRate is the conversion rate requested of the ADS1115.
	SampleRate physic.Frequency `mapstructure:"sample_rate"`

	// OpenAttempts is how many times to try opening the bus.
	OpenAttempts int `mapstructure:"open_attempts"`

	// RetryDelay is the delay between attempts to open the bus.
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

type Option interface {
	apply(a *ADC)
}

// ADC reads thermistor dividers attached to an ADS1115.
type ADC struct {
	m         sync.Mutex
	config    Config
	logger    *zap.Logger
	ioWrapper adcWrapper
	pins      map[int]analog.PinADC
}

type adcWrapper interface {
	Open(string) error
	Close() error
	Connect(addr uint16, input int, max physic.ElectricPotential, f physic.Frequency) (analog.PinADC, error)
}

// New validates the configuration and makes a new ADC.  Nothing is opened
// until Start.
func New(c Config, opts ...Option) (*ADC, error) {
	if c.SampleRate == 0 {
		c.SampleRate = defaultSampleRate
	}
	if c.SampleRate > maxSampleRate {
		return nil, ErrSampleRateTooFast
	}
	for _, in := range c.Inputs {
		if in < 0 || in > 3 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidInput, in)
		}
	}
	if c.Address == 0 {
		c.Address = defaultAddress
	}
	if c.MaxVoltage <= 0 {
		c.MaxVoltage = defaultMaxVoltage
	}
	if c.OpenAttempts < 1 {
		c.OpenAttempts = defaultOpenAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}

	a := ADC{
		config:    c,
		logger:    zap.NewNop(),
		ioWrapper: &hwWrapper{},
	}

	for _, opt := range opts {
		opt.apply(&a)
	}

	return &a, nil
}

// Start opens the bus and connects each configured input.
func (a *ADC) Start(ctx context.Context) error {
	a.m.Lock()
	defer a.m.Unlock()

	if a.pins != nil {
		return ErrAlreadyStarted
	}

	retry := retrypolicy.Builder[any]().
		WithMaxAttempts(a.config.OpenAttempts).
		WithDelay(a.config.RetryDelay).
		Build()

	attempt := 0
	err := failsafe.NewExecutor[any](retry).WithContext(ctx).Run(func() error {
		attempt++
		err := a.ioWrapper.Open(a.config.I2cFile)
		if err != nil {
			a.logger.Warn("unable to open i2c bus",
				zap.String("bus", a.config.I2cFile),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		return err
	})
	if err != nil {
		return err
	}

	pins := make(map[int]analog.PinADC, len(a.config.Inputs))
	for _, in := range a.config.Inputs {
		pin, err := a.ioWrapper.Connect(a.config.Address, in, a.config.MaxVoltage, a.config.SampleRate)
		if err != nil {
			_ = a.ioWrapper.Close()
			return err
		}
		pins[in] = pin
	}

	a.pins = pins
	a.logger.Info("adc started",
		zap.String("bus", a.config.I2cFile),
		zap.Uint16("address", a.config.Address),
		zap.Ints("inputs", a.config.Inputs))

	return nil
}

// Stop closes the bus, halting every converter on it.
func (a *ADC) Stop(ctx context.Context) {
	a.m.Lock()
	defer a.m.Unlock()

	if a.pins == nil {
		return
	}

	a.pins = nil

	_ = a.ioWrapper.Close()
}

// Source returns the AnalogSource for the input.
func (a *ADC) Source(input int) probe.AnalogSource {
	return &source{adc: a, input: input}
}

func (a *ADC) read(input int) (int, error) {
	a.m.Lock()
	defer a.m.Unlock()

	pin, ok := a.pins[input]
	if !ok {
		return 0, fmt.Errorf("%w: input %d", ErrNotStarted, input)
	}

	s, err := pin.Read()
	if err != nil {
		return 0, err
	}

	_, hi := pin.Range()
	return scale(s.Raw, hi.Raw), nil
}

// scale maps a raw reading onto the 10-bit range the probe filter expects.
func scale(raw, max int32) int {
	if max <= 0 || raw <= 0 {
		return 0
	}
	if raw >= max {
		return probe.FullScale
	}
	return int(int64(raw) * probe.FullScale / int64(max))
}

type source struct {
	adc   *ADC
	input int
}

func (s *source) Read() (int, error) {
	return s.adc.read(s.input)
}

// WithLogger sets the logger used.
func WithLogger(l *zap.Logger) Option {
	return &loggerOption{l: l}
}

type loggerOption struct {
	l *zap.Logger
}

func (o loggerOption) apply(a *ADC) {
	if o.l != nil {
		a.logger = o.l
	}
}
