// SPDX-License-Identifier: MIT
// SPDX-FileCopyRightText: Copyright (c) 2023 UnderNET

package routes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undernetirc/otpgen/internal/config"
	"github.com/undernetirc/otpgen/internal/telemetry"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRoutes(t *testing.T) {
	viper.Reset()
	config.DefaultConfig()
	config.ServiceAPIPrefix.Set("api")

	e := NewEcho()
	r := NewRouteService(e, quietLogger(), nil)
	require.NoError(t, LoadRoutes(r))

	testCases := []struct {
		path   string
		method string
	}{
		{"/health-check", http.MethodGet},
		{"/api/v1/otp/hotp", http.MethodPost},
		{"/api/v1/otp/totp", http.MethodPost},
		{"/api/v1/otp/totp/verify", http.MethodPost},
	}

	routeMap := make(map[string]string)
	for _, v := range e.Routes() {
		routeMap[fmt.Sprintf("%s:%s", v.Path, v.Method)] = "1"
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			if _, ok := routeMap[fmt.Sprintf("%s:%s", tc.path, tc.method)]; !ok {
				t.Errorf("expected to find path %s with method %s, but did not", tc.path, tc.method)
			}
		})
	}

	// no telemetry, no metrics route
	_, ok := routeMap["/metrics:GET"]
	assert.False(t, ok)
}

func TestNewEcho(t *testing.T) {
	viper.Reset()
	config.DefaultConfig()

	e := NewEcho()
	assert.NotNil(t, e)
	assert.True(t, e.HideBanner)
	assert.Equal(t, log.WARN, e.Logger.Level())
	assert.NotNil(t, e.Validator)

	config.ServiceDevMode.Set(true)
	e = NewEcho()
	assert.Equal(t, log.DEBUG, e.Logger.Level())
	assert.True(t, e.Debug)
}

func TestHOTPEndToEnd(t *testing.T) {
	viper.Reset()
	config.DefaultConfig()

	e := NewEcho()
	require.NoError(t, LoadRoutes(NewRouteService(e, quietLogger(), nil)))

	body := `{"secret":"GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ","counter":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/otp/hotp", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"code":"287082","counter":1}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestConfiguredDefaultsApply(t *testing.T) {
	viper.Reset()
	config.DefaultConfig()
	config.OTPDigits.Set(8)

	e := NewEcho()
	require.NoError(t, LoadRoutes(NewRouteService(e, quietLogger(), nil)))

	body := `{"secret":"GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ","time":59}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/otp/totp", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"code":"94287082","counter":1}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	viper.Reset()
	config.DefaultConfig()
	config.TelemetryEnabled.Set(true)

	cfg, err := telemetry.LoadConfigFromViper()
	require.NoError(t, err)
	provider, err := telemetry.NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	e := NewEcho()
	require.NoError(t, LoadRoutes(NewRouteService(e, quietLogger(), provider)))

	body := `{"secret":"GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ","counter":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/otp/hotp", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	e.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "otp_generated_total")
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
