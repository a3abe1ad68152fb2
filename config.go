// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goschtalt/goschtalt"
	_ "github.com/goschtalt/yaml-decoder"
	"github.com/mitchellh/mapstructure"
	"github.com/schmidtw/thermoprobe/adc"
	"github.com/schmidtw/thermoprobe/console"
	"github.com/schmidtw/thermoprobe/controller"
	"github.com/schmidtw/thermoprobe/httpserver"
	"github.com/schmidtw/thermoprobe/probe"
	"github.com/schmidtw/thermoprobe/units"
	"github.com/xmidt-org/sallust"
)

// Config is the whole application configuration.
type Config struct {
	Logger     sallust.Config    `mapstructure:"logger" yaml:"logger"`
	HTTP       httpserver.Config `mapstructure:"http" yaml:"http"`
	Console    console.Config    `mapstructure:"console" yaml:"console"`
	Controller controller.Config `mapstructure:"controller" yaml:"controller"`
	ADC        adc.Config        `mapstructure:"adc" yaml:"adc"`
	Probes     []ProbeConfig     `mapstructure:"probes" yaml:"probes"`
}

// ProbeConfig is the calibration and wiring of one thermistor.
type ProbeConfig struct {
	Channel             string           `mapstructure:"channel" yaml:"channel"`
	Input               int              `mapstructure:"input" yaml:"input"`
	ReferenceResistance units.Resistance `mapstructure:"reference_resistance" yaml:"reference_resistance"`
	Beta                float64          `mapstructure:"beta" yaml:"beta"`
	SeriesResistor      units.Resistance `mapstructure:"series_resistor" yaml:"series_resistor"`
	SamplePeriod        time.Duration    `mapstructure:"sample_period" yaml:"sample_period"`

	// Only used with --simulate.
	Simulated adc.SimulatedConfig `mapstructure:"simulated" yaml:"simulated"`
}

func defaultConfig() Config {
	return Config{
		HTTP: httpserver.Config{
			Address:           "127.0.0.1:8001",
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       time.Minute,
		},
		Controller: controller.Config{
			Namespace:      applicationName,
			Period:         10 * time.Millisecond,
			ReportInterval: time.Second,
		},
		ADC: adc.Config{
			I2cFile: "/dev/i2c-1",
		},
		Probes: []ProbeConfig{
			{
				Channel:             "A0",
				Input:               0,
				ReferenceResistance: units.Resistance(100000),
				Beta:                3950,
				SeriesResistor:      probe.DefaultSeriesResistor,
				SamplePeriod:        probe.DefaultSamplePeriod,
				Simulated: adc.SimulatedConfig{
					Temperature: units.Temperature(110),
					Noise:       3,
					SpikeEvery:  7,
				},
			},
		},
	}
}

// loadConfig gathers the configuration files and decodes them over the
// defaults.  Directories are examined for files with a known extension but
// are not walked recursively.
func loadConfig(files []string) (Config, error) {
	paths, err := rootPaths(files)
	if err != nil {
		return Config{}, err
	}

	gs, err := goschtalt.New(
		goschtalt.AutoCompile(),
		goschtalt.AddDirs(os.DirFS("/"), paths...),
	)
	if err != nil {
		return Config{}, err
	}

	raw, err := goschtalt.Unmarshal[map[string]any](gs, goschtalt.Root)
	if err != nil {
		return Config{}, err
	}

	cfg := defaultConfig()
	if err := decodeConfig(raw, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// rootPaths converts the files into paths that are valid within an fs.FS
// rooted at "/".
func rootPaths(files []string) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, err
		}
		paths = append(paths, strings.TrimPrefix(filepath.ToSlash(abs), "/"))
	}

	return paths, nil
}

func decodeConfig(raw map[string]any, cfg *Config) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       units.DecodeHook(),
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}

	return d.Decode(raw)
}
