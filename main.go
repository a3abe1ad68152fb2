// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

const applicationName = "thermoprobe"

// CLI is the structure that is used to capture the command line arguments.
type CLI struct {
	Files      []string `optional:"" short:"f" help:"Specific configuration files or directories."`
	ShowConfig bool     `optional:"" short:"s" help:"Show the configuration and exit."`
	Simulate   bool     `optional:"" help:"Use simulated probes instead of the ADC."`
}

func parseCLI(args []string) (*CLI, error) {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name(applicationName),
		kong.Description("Thermistor probe sampler.\n"),
		kong.UsageOnError(),
	)
	if err != nil {
		return nil, err
	}

	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}

	return &cli, nil
}

func run(args []string, out io.Writer) error {
	cli, err := parseCLI(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cli.Files)
	if err != nil {
		return err
	}

	if cli.ShowConfig {
		buf, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, string(buf))
		return err
	}

	app := fx.New(options(cli, cfg)...)
	if err := app.Err(); err != nil {
		return err
	}

	app.Run()
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
