// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/undernetirc/otpgen/internal/config"
	"github.com/undernetirc/otpgen/internal/telemetry"
	"github.com/undernetirc/otpgen/routes"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Usage: "listen address, defaults to service.host",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "listen port, defaults to service.port",
		},
	}
}

func (o *otpgen) serveAction(c *cli.Context) error {
	if c.IsSet("host") {
		config.ServiceHost.Set(c.String("host"))
	}
	if c.IsSet("port") {
		config.ServicePort.Set(c.Int("port"))
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.Initialize(ctx, o.logger)
	if err != nil {
		return err
	}
	defer func() { _ = telemetry.Shutdown(provider, o.logger) }()

	e := routes.NewEcho()
	if err := routes.LoadRoutes(routes.NewRouteService(e, o.logger, provider)); err != nil {
		return err
	}

	addr := config.GetServerAddress()
	errCh := make(chan error, 1)
	go func() {
		o.logger.Info("HTTP server listening", "address", addr, "version", c.App.Version)
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	o.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return e.Shutdown(shutdownCtx)
}
