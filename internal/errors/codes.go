// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024 UnderNET

// Package errors provides consistent error handling and response formatting for the API
package errors

// Error codes for consistent error identification
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeInternal             = "INTERNAL_ERROR"
	ErrCodeInvalidKey           = "INVALID_KEY"
	ErrCodeInvalidEncoding      = "INVALID_ENCODING"
	ErrCodeUnsupportedAlgorithm = "UNSUPPORTED_ALGORITHM"
	ErrCodeInvalidDigits        = "INVALID_DIGITS"
	ErrCodeInvalidTimePeriod    = "INVALID_TIME_PERIOD"
	ErrCodeNotConfigured        = "NOT_CONFIGURED"
)
