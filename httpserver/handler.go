// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/xmidt-org/arrange/arrangetls"
	"github.com/xmidt-org/httpaux"
	serveraux "github.com/xmidt-org/httpaux/server"
)

var (
	ErrNoRoutes = errors.New("no routes")
)

// Routes maps url paths to the handlers serving them.
type Routes map[string]http.Handler

type Config struct {
	// Address corresponds to http.Server.Addr
	Address string `mapstructure:"address"`

	// ReadTimeout corresponds to http.Server.ReadTimeout
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// ReadHeaderTimeout corresponds to http.Server.ReadHeaderTimeout
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`

	// WriteTime corresponds to http.Server.WriteTimeout
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// IdleTimeout corresponds to http.Server.IdleTimeout
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// MaxHeaderBytes corresponds to http.Server.MaxHeaderBytes
	MaxHeaderBytes int `mapstructure:"max_header_bytes"`

	// KeepAlive corresponds to net.ListenConfig.KeepAlive.  This value is
	// only used for listeners created via Listen.
	KeepAlive time.Duration `mapstructure:"keep_alive"`

	// Header supplies HTTP headers to emit on every response from this server
	Headers http.Header `mapstructure:"headers"`

	// TLS is the optional unmarshaled TLS configuration.  If set, the resulting
	// server will use HTTPS.
	TLS *arrangetls.Config `mapstructure:"tls"`
}

// Handler builds the server for the routes.
func (c Config) Handler(routes Routes) (server *http.Server, err error) {
	if len(routes) == 0 {
		return nil, ErrNoRoutes
	}

	// This bit converts the headers into the httpaux.Header list then decorates
	// the outgoing headers via a chained http.Handler
	headers := httpaux.NewHeader(c.Headers)
	decorate := serveraux.Header(headers.SetTo)

	mux := http.NewServeMux()
	for path, h := range routes {
		mux.Handle(path, decorate(h))
	}

	server = &http.Server{
		Addr:              c.Address,
		Handler:           mux,
		ReadTimeout:       c.ReadTimeout,
		ReadHeaderTimeout: c.ReadHeaderTimeout,
		WriteTimeout:      c.WriteTimeout,
		IdleTimeout:       c.IdleTimeout,
		MaxHeaderBytes:    c.MaxHeaderBytes,
	}

	server.TLSConfig, err = c.TLS.New()
	if err != nil {
		return nil, err
	}

	return server, nil
}
