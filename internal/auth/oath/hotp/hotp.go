// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// Package hotp provides a counter-based one-time password (HOTP) generator.
package hotp

import (
	"crypto/subtle"

	"github.com/undernetirc/otpgen/internal/auth/oath"
)

// HOTP holds a configuration and the current counter. It is not safe for concurrent
// mutation.
type HOTP struct {
	oath.Config
	counter uint64
}

// New creates a HOTP generator starting at counter.
func New(cfg oath.Config, counter uint64) *HOTP {
	return &HOTP{Config: cfg, counter: counter}
}

// SetCounter stores the counter verbatim. Incrementing is up to the caller.
func (h *HOTP) SetCounter(counter uint64) *HOTP {
	h.counter = counter
	return h
}

// Counter returns the current counter.
func (h *HOTP) Counter() uint64 {
	return h.counter
}

// Generate returns the code for the current counter.
func (h *HOTP) Generate() (string, error) {
	return oath.Generate(h.Config, h.counter)
}

// GenerateAt returns the code for counter without touching the stored one.
func (h *HOTP) GenerateAt(counter uint64) (string, error) {
	return oath.Generate(h.Config, counter)
}

// Validate reports whether otp is the code for counter.
func (h *HOTP) Validate(otp string, counter uint64) bool {
	code, err := h.GenerateAt(counter)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(otp), []byte(code)) == 1
}
