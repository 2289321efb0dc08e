// SPDX-License-Identifier: MIT
// SPDX-FileCopyRightText: Copyright (c) 2023 UnderNET

// Package routes defines the routes for the echo server.
package routes

import (
	"log/slog"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/undernetirc/otpgen/internal/config"
	"github.com/undernetirc/otpgen/internal/helper"
	"github.com/undernetirc/otpgen/internal/metrics"
	"github.com/undernetirc/otpgen/internal/telemetry"
	"github.com/undernetirc/otpgen/middlewares"
)

// RouteService is a struct that holds the echo instance, the echo group,
// the logger and the telemetry provider
type RouteService struct {
	e                 *echo.Echo
	routerGroup       *echo.Group
	logger            *slog.Logger
	telemetryProvider *telemetry.Provider
	otpMetrics        *metrics.OTPMetrics
}

// NewRouteService creates a new RouteService. telemetryProvider may be nil.
func NewRouteService(e *echo.Echo, logger *slog.Logger, telemetryProvider *telemetry.Provider) *RouteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RouteService{
		e:                 e,
		logger:            logger,
		telemetryProvider: telemetryProvider,
	}
}

// NewEcho returns an echo instance with the validator and base middlewares
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if config.ServiceDevMode.GetBool() {
		e.Debug = true
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.WARN)
	}
	e.Validator = helper.NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	return e
}

// LoadRoutes registers middlewares and routes on the echo instance
func LoadRoutes(r *RouteService) error {
	if r.telemetryProvider != nil && r.telemetryProvider.IsEnabled() {
		cfg, err := telemetry.LoadConfigFromViper()
		if err != nil {
			return err
		}

		if r.telemetryProvider.TracingEnabled() {
			r.e.Use(middlewares.HTTPTracing(nil, cfg.ServiceName))
		}

		if cfg.MetricsEnabled {
			r.e.Use(middlewares.HTTPInstrumentationWithConfig(middlewares.HTTPInstrumentationConfig{
				Meter:   r.telemetryProvider.GetMeter("otpgen-http"),
				Skipper: skipPaths("/health-check", r.telemetryProvider.MetricsEndpoint()),
			}))

			m, err := metrics.NewOTPMetrics(metrics.OTPMetricsConfig{
				Meter: r.telemetryProvider.GetMeter("otpgen-otp"),
			})
			if err != nil {
				return err
			}
			r.otpMetrics = m
		}

		if handler := r.telemetryProvider.MetricsHandler(); handler != nil {
			r.e.GET(r.telemetryProvider.MetricsEndpoint(), echo.WrapHandler(handler))
			r.logger.Info("Prometheus metrics endpoint registered", "path", r.telemetryProvider.MetricsEndpoint())
		}
	}

	r.e.Use(middlewares.LogCorrelation(r.logger))

	prefixV1 := strings.Join([]string{"", config.ServiceAPIPrefix.GetString(), "v1"}, "/")
	r.routerGroup = r.e.Group(prefixV1)

	// Load routes using reflection by looking for methods ending in "Routes"
	reflType := reflect.TypeOf(r)
	for i := 0; i < reflType.NumMethod(); i++ {
		method := reflType.Method(i)
		if strings.HasSuffix(method.Name, "Routes") {
			reflect.ValueOf(r).MethodByName(method.Name).Call(nil)
		}
	}

	return nil
}

func skipPaths(paths ...string) func(echo.Context) bool {
	return func(c echo.Context) bool {
		for _, p := range paths {
			if c.Path() == p {
				return true
			}
		}
		return false
	}
}
