// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024 UnderNET

package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/undernetirc/otpgen/internal/auth/oath"
	"github.com/undernetirc/otpgen/internal/auth/oath/totp"
)

// getRequestID extracts request ID from context for logging
func getRequestID(c echo.Context) string {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = "unknown"
	}
	return requestID
}

// HandleValidationError handles request validation failures
func HandleValidationError(c echo.Context, err error) error {
	slog.Warn("Validation error",
		"requestID", getRequestID(c),
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err)

	return c.JSON(http.StatusBadRequest, NewErrorResponse(ErrCodeValidation, err.Error()))
}

// HandleBadRequestError handles malformed requests
func HandleBadRequestError(c echo.Context, message string) error {
	if message == "" {
		message = "Invalid request"
	}

	slog.Warn("Bad request",
		"requestID", getRequestID(c),
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"message", message)

	return c.JSON(http.StatusBadRequest, NewErrorResponse(ErrCodeBadRequest, message))
}

// HandleOTPError maps a generator error to a 400 response with a stable code.
// Errors outside the generator's set are internal errors.
func HandleOTPError(c echo.Context, err error) error {
	code := OTPErrorCode(err)
	if code == ErrCodeInternal {
		return HandleInternalError(c, err, "")
	}

	slog.Warn("OTP request rejected",
		"requestID", getRequestID(c),
		"path", c.Request().URL.Path,
		"errorCode", code,
		"error", err)

	return c.JSON(http.StatusBadRequest, NewErrorResponse(code, err.Error()))
}

// OTPErrorCode returns the response code for a generator error
func OTPErrorCode(err error) string {
	switch {
	case errors.Is(err, oath.ErrInvalidKey):
		return ErrCodeInvalidKey
	case errors.Is(err, oath.ErrInvalidEncoding):
		return ErrCodeInvalidEncoding
	case errors.Is(err, oath.ErrUnsupportedAlgorithm):
		return ErrCodeUnsupportedAlgorithm
	case errors.Is(err, oath.ErrInvalidDigits):
		return ErrCodeInvalidDigits
	case errors.Is(err, totp.ErrInvalidTimePeriod):
		return ErrCodeInvalidTimePeriod
	case errors.Is(err, oath.ErrNotConfigured):
		return ErrCodeNotConfigured
	default:
		return ErrCodeInternal
	}
}

// HandleInternalError handles unexpected internal server errors
func HandleInternalError(c echo.Context, err error, message string) error {
	if message == "" {
		message = "Internal server error"
	}

	slog.Error("Internal server error",
		"requestID", getRequestID(c),
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err,
		"publicMessage", message)

	return c.JSON(http.StatusInternalServerError, NewErrorResponse(ErrCodeInternal, message))
}
