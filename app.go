// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schmidtw/thermoprobe/adc"
	"github.com/schmidtw/thermoprobe/console"
	"github.com/schmidtw/thermoprobe/controller"
	"github.com/schmidtw/thermoprobe/httpserver"
	"github.com/schmidtw/thermoprobe/probe"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func options(cli *CLI, cfg Config) []fx.Option {
	return []fx.Option{
		fx.Supply(cli, cfg, cfg.HTTP, cfg.Console, cfg.Controller),
		fx.Provide(
			func(cfg Config) (*zap.Logger, error) {
				return cfg.Logger.Build()
			},
			func() clock.Clock {
				return clock.New()
			},
			provideProbes,
			provideConsole,
			provideController,
			provideRoutes,
			httpserver.New,
		),
		fx.Invoke(func(*http.Server) {}),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l}
		}),
	}
}

// buildProbes makes a filter and a source for every configured probe.  The
// returned ADC is nil when simulating.
func buildProbes(simulate bool, cfg Config, clk clock.Clock, log *zap.Logger) ([]controller.Probe, *adc.ADC, error) {
	var dev *adc.ADC
	if !simulate {
		acfg := cfg.ADC
		acfg.Inputs = make([]int, 0, len(cfg.Probes))
		for _, p := range cfg.Probes {
			acfg.Inputs = append(acfg.Inputs, p.Input)
		}

		var err error
		dev, err = adc.New(acfg, adc.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
	}

	probes := make([]controller.Probe, 0, len(cfg.Probes))
	for _, p := range cfg.Probes {
		f, err := probe.New(probe.Config{
			Channel:             p.Channel,
			ReferenceResistance: p.ReferenceResistance,
			Beta:                p.Beta,
			SeriesResistor:      p.SeriesResistor,
		},
			probe.UseClock(clk),
			probe.WithSamplePeriod(p.SamplePeriod),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("probe '%s': %w", p.Channel, err)
		}

		var src probe.AnalogSource
		if simulate {
			scfg := p.Simulated
			scfg.ReferenceResistance = p.ReferenceResistance
			scfg.Beta = p.Beta
			scfg.SeriesResistor = p.SeriesResistor
			src, err = adc.NewSimulated(scfg)
			if err != nil {
				return nil, nil, fmt.Errorf("probe '%s': %w", p.Channel, err)
			}
		} else {
			src = dev.Source(p.Input)
		}

		probes = append(probes, controller.Probe{Filter: f, Source: src})
	}

	return probes, dev, nil
}

func provideProbes(lc fx.Lifecycle, cli *CLI, cfg Config, clk clock.Clock, log *zap.Logger) ([]controller.Probe, error) {
	probes, dev, err := buildProbes(cli.Simulate, cfg, clk, log)
	if err != nil {
		return nil, err
	}

	if dev != nil {
		lc.Append(fx.Hook{
			OnStart: dev.Start,
			OnStop: func(ctx context.Context) error {
				dev.Stop(ctx)
				return nil
			},
		})
	}

	return probes, nil
}

func provideConsole(lc fx.Lifecycle, cfg console.Config) (*console.Console, error) {
	c, err := console.Open(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})
	return c, nil
}

func provideController(lc fx.Lifecycle, cfg controller.Config, probes []controller.Probe,
	clk clock.Clock, log *zap.Logger, out *console.Console) (*controller.Controller, error) {
	c, err := controller.New(cfg, probes,
		controller.UseClock(clk),
		controller.WithLogger(log),
		controller.WithConsole(out),
	)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: c.Start,
		OnStop: func(ctx context.Context) error {
			c.Stop(ctx)
			return nil
		},
	})
	return c, nil
}

func provideRoutes(c *controller.Controller) httpserver.Routes {
	return httpserver.Routes{
		"/metrics": promhttp.Handler(),
		"/probes":  c,
	}
}
