// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// New builds the server and ties it to the application lifecycle.
func New(lc fx.Lifecycle, routes Routes, cfg Config, log *zap.Logger) (*http.Server, error) {
	srv, err := cfg.Handler(routes)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(routes))
	for path := range routes {
		paths = append(paths, path)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lc := net.ListenConfig{
				KeepAlive: cfg.KeepAlive,
			}
			ln, err := lc.Listen(ctx, "tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("Starting HTTP server",
				zap.String("addr", ln.Addr().String()),
				zap.Strings("paths", paths),
				zap.Bool("tls", srv.TLSConfig != nil))
			go func() {
				var err error
				if srv.TLSConfig != nil {
					err = srv.ServeTLS(ln, "", "")
				} else {
					err = srv.Serve(ln)
				}
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server", zap.String("addr", srv.Addr))
			return srv.Shutdown(ctx)
		},
	})
	return srv, nil
}
