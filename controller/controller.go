// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schmidtw/thermoprobe/probe"
	"go.uber.org/zap"
)

var (
	ErrAlreadyStarted   = errors.New("already started")
	ErrInvalidParameter = errors.New("invalid parameter")
)

const (
	defaultNamespace      = "thermoprobe"
	defaultPeriod         = 10 * time.Millisecond
	defaultReportInterval = time.Second
)

// Printer receives the diagnostic readings.
type Printer interface {
	Print(probe.Reading) error
}

type Config struct {
	// The Namespace of the metrics.
	Namespace string `mapstructure:"namespace"`

	// Period is how often every probe is offered a sample.  This is the
	// control loop rate, not the sample rate.
	Period time.Duration `mapstructure:"period"`

	// ReportInterval is how often readings are printed.
	ReportInterval time.Duration `mapstructure:"report_interval"`
}

// Probe pairs a filter with the source of its samples.
type Probe struct {
	Filter *probe.Filter
	Source probe.AnalogSource
}

type Option interface {
	apply(c *Controller)
}

// Controller is the control loop that drives the probe filters.
type Controller struct {
	m      sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	config     Config
	probes     []Probe
	clock      clock.Clock
	logger     *zap.Logger
	registerer prometheus.Registerer
	console    Printer
	metrics    *metrics

	// Only touched by the loop.
	batches    []uint64
	faulted    []bool
	lastReport time.Time

	rm       sync.RWMutex
	readings []probe.Reading
}

// New makes a new Controller.  The metrics are registered here.
func New(cfg Config, probes []Probe, opts ...Option) (*Controller, error) {
	if cfg.Namespace == "" {
		cfg.Namespace = defaultNamespace
	}
	if cfg.Period <= 0 {
		cfg.Period = defaultPeriod
	}
	if cfg.ReportInterval <= 0 {
		cfg.ReportInterval = defaultReportInterval
	}

	for _, p := range probes {
		if p.Filter == nil || p.Source == nil {
			return nil, ErrInvalidParameter
		}
	}

	c := Controller{
		config:     cfg,
		probes:     probes,
		clock:      clock.New(),
		logger:     zap.NewNop(),
		registerer: prometheus.DefaultRegisterer,
		batches:    make([]uint64, len(probes)),
		faulted:    make([]bool, len(probes)),
		readings:   make([]probe.Reading, len(probes)),
	}

	for _, opt := range opts {
		opt.apply(&c)
	}

	for i, p := range probes {
		c.readings[i] = p.Filter.Reading()
		c.batches[i] = p.Filter.Batches()
	}

	var err error
	c.metrics, err = newMetrics(cfg.Namespace, c.registerer)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// Start runs the loop until Stop is called.
func (c *Controller) Start(ctx context.Context) error {
	c.m.Lock()
	defer c.m.Unlock()

	if c.cancel != nil {
		return ErrAlreadyStarted
	}

	ctx, c.cancel = context.WithCancel(context.WithoutCancel(ctx))
	ticker := c.clock.Ticker(c.config.Period)

	c.wg.Add(1)
	go c.loop(ctx, ticker)

	c.logger.Info("control loop started",
		zap.Int("probes", len(c.probes)),
		zap.Duration("period", c.config.Period))

	return nil
}

// Stop stops the loop and waits for it to finish.
func (c *Controller) Stop(ctx context.Context) {
	c.m.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.m.Unlock()

	if cancel != nil {
		cancel()
		c.wg.Wait()
		c.logger.Info("control loop stopped")
	}
}

func (c *Controller) loop(ctx context.Context, ticker *clock.Ticker) {
	defer c.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.step()
		case <-ctx.Done():
			return
		}
	}
}

func (c *Controller) step() {
	now := c.clock.Now()

	for i, p := range c.probes {
		ch := p.Filter.Channel()

		if err := p.Filter.Poll(p.Source); err != nil {
			c.metrics.readErrors.WithLabelValues(ch).Inc()
			c.logger.Debug("probe read failed", zap.String("probe", ch), zap.Error(err))
			continue
		}

		if p.Filter.Batches() == c.batches[i] {
			continue
		}
		c.batches[i] = p.Filter.Batches()

		c.record(i, p.Filter.Reading())
	}

	if now.Sub(c.lastReport) >= c.config.ReportInterval {
		c.lastReport = now
		c.report()
	}
}

func (c *Controller) record(i int, r probe.Reading) {
	c.rm.Lock()
	c.readings[i] = r
	c.rm.Unlock()

	c.metrics.batches.WithLabelValues(r.Channel).Inc()
	c.metrics.rawAverage.WithLabelValues(r.Channel).Set(float64(r.RawAverage))

	if r.Fault {
		c.metrics.fault.WithLabelValues(r.Channel).Set(1.0)
		if !c.faulted[i] {
			c.logger.Warn("probe fault, open or shorted",
				zap.String("probe", r.Channel),
				zap.Int("raw_average", r.RawAverage))
		}
	} else {
		c.metrics.fault.WithLabelValues(r.Channel).Set(0.0)
		c.metrics.celsius.WithLabelValues(r.Channel).Set(r.Celsius.Celsius())
		if c.faulted[i] {
			c.logger.Info("probe recovered", zap.String("probe", r.Channel))
		}
	}
	c.faulted[i] = r.Fault

	c.logger.Debug("probe reading",
		zap.String("probe", r.Channel),
		zap.Float64("celsius", r.Celsius.Celsius()),
		zap.Int("raw_average", r.RawAverage),
		zap.Bool("fault", r.Fault))
}

func (c *Controller) report() {
	if c.console == nil {
		return
	}

	for _, r := range c.Readings() {
		if r.Batch == 0 {
			continue
		}
		if err := c.console.Print(r); err != nil {
			c.logger.Warn("unable to print reading", zap.Error(err))
			return
		}
	}
}

// Readings returns the latest reading of every probe.
func (c *Controller) Readings() []probe.Reading {
	c.rm.RLock()
	defer c.rm.RUnlock()

	out := make([]probe.Reading, len(c.readings))
	copy(out, c.readings)
	return out
}

// ServeHTTP renders the latest readings as JSON.
func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	buf, err := json.Marshal(c.Readings())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf)
}

// UseClock provides a way to set the clock used.  This is used for testing.
func UseClock(clk clock.Clock) Option {
	return optionFunc(func(c *Controller) {
		if clk != nil {
			c.clock = clk
		}
	})
}

// WithLogger sets the logger used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithRegisterer sets where the metrics are registered.
func WithRegisterer(reg prometheus.Registerer) Option {
	return optionFunc(func(c *Controller) {
		if reg != nil {
			c.registerer = reg
		}
	})
}

// WithConsole sets where readings are printed every report interval.
func WithConsole(p Printer) Option {
	return optionFunc(func(c *Controller) {
		c.console = p
	})
}

type optionFunc func(*Controller)

func (f optionFunc) apply(c *Controller) {
	f(c)
}
