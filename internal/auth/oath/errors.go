// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

package oath

import (
	"errors"

	"github.com/undernetirc/otpgen/internal/auth/oath/base32"
)

// Errors returned by the OTP core. They are configuration or programmer errors and
// are never retried.
var (
	// ErrInvalidKey indicates the secret is too short or not base32.
	ErrInvalidKey = errors.New("oath: invalid key")
	// ErrUnsupportedAlgorithm indicates the requested HMAC hash is not available.
	ErrUnsupportedAlgorithm = errors.New("oath: unsupported algorithm")
	// ErrInvalidDigits indicates a code length outside [MinDigits, MaxDigits].
	ErrInvalidDigits = errors.New("oath: invalid digit length")
	// ErrNotConfigured indicates Generate was called on a Config without a key.
	ErrNotConfigured = errors.New("oath: not configured")
	// ErrInvalidEncoding is the codec error surfaced by key decoding.
	ErrInvalidEncoding = base32.ErrInvalidEncoding
)
