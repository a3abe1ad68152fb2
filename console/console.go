// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schmidtw/thermoprobe/probe"
	"github.com/tarm/serial"
)

const defaultBaud = 115200

// Config selects where diagnostic lines are written.
type Config struct {
	// Port is the serial device to write to.  Empty means stdout.
	Port string `mapstructure:"port"`

	// Baud defaults to 115200.
	Baud int `mapstructure:"baud"`
}

// Console writes one line per reading.
type Console struct {
	m      sync.Mutex
	w      io.Writer
	closer io.Closer
}

// Open opens the configured output.
func Open(c Config) (*Console, error) {
	if c.Port == "" {
		return New(os.Stdout), nil
	}

	if c.Baud <= 0 {
		c.Baud = defaultBaud
	}

	port, err := serial.OpenPort(&serial.Config{
		Name: c.Port,
		Baud: c.Baud,
	})
	if err != nil {
		return nil, fmt.Errorf("console '%s': %w", c.Port, err)
	}

	return &Console{
		w:      port,
		closer: port,
	}, nil
}

// New makes a console writing to w.  The caller keeps ownership of w.
func New(w io.Writer) *Console {
	return &Console{w: w}
}

// Print writes the diagnostic line for the reading.
func (c *Console) Print(r probe.Reading) error {
	c.m.Lock()
	defer c.m.Unlock()

	_, err := fmt.Fprintln(c.w, r.String())
	return err
}

// Close closes the output if the console opened it.
func (c *Console) Close() error {
	c.m.Lock()
	defer c.m.Unlock()

	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}
