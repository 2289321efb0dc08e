// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024 UnderNET

package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undernetirc/otpgen/internal/auth/oath"
	"github.com/undernetirc/otpgen/internal/auth/oath/totp"
)

// setupTestContext creates a test echo context with proper headers
func setupTestContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Response().Header().Set(echo.HeaderXRequestID, "test-request-id")

	return c, rec
}

// captureLogOutput captures slog output for testing
func captureLogOutput(t *testing.T, fn func()) string {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	fn()

	return buf.String()
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleValidationError(t *testing.T) {
	c, rec := setupTestContext(http.MethodPost, "/test")

	logs := captureLogOutput(t, func() {
		err := HandleValidationError(c, errors.New("secret is a required field"))
		require.NoError(t, err)
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "secret is a required field", resp.Error.Message)
	assert.Contains(t, logs, "test-request-id")
}

func TestHandleBadRequestError(t *testing.T) {
	c, rec := setupTestContext(http.MethodPost, "/test")

	captureLogOutput(t, func() {
		require.NoError(t, HandleBadRequestError(c, ""))
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "Invalid request", resp.Error.Message)
}

func TestHandleOTPError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid key", fmt.Errorf("%w: too short", oath.ErrInvalidKey), http.StatusBadRequest, ErrCodeInvalidKey},
		{"invalid encoding", oath.ErrInvalidEncoding, http.StatusBadRequest, ErrCodeInvalidEncoding},
		{"unsupported algorithm", oath.ErrUnsupportedAlgorithm, http.StatusBadRequest, ErrCodeUnsupportedAlgorithm},
		{"invalid digits", oath.ErrInvalidDigits, http.StatusBadRequest, ErrCodeInvalidDigits},
		{"invalid time period", totp.ErrInvalidTimePeriod, http.StatusBadRequest, ErrCodeInvalidTimePeriod},
		{"not configured", oath.ErrNotConfigured, http.StatusBadRequest, ErrCodeNotConfigured},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := setupTestContext(http.MethodPost, "/test")

			captureLogOutput(t, func() {
				require.NoError(t, HandleOTPError(c, tt.err))
			})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeResponse(t, rec).Error.Code)
		})
	}
}

func TestHandleInternalErrorHidesCause(t *testing.T) {
	c, rec := setupTestContext(http.MethodGet, "/test")

	logs := captureLogOutput(t, func() {
		require.NoError(t, HandleInternalError(c, errors.New("database exploded"), ""))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "Internal server error", resp.Error.Message)
	assert.NotContains(t, rec.Body.String(), "database exploded")
	assert.Contains(t, logs, "database exploded")
}

func TestGetRequestID(t *testing.T) {
	c, _ := setupTestContext(http.MethodGet, "/")
	assert.Equal(t, "test-request-id", getRequestID(c))

	e := echo.New()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "unknown", getRequestID(c))
}
