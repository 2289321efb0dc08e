// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package hotp

import (
	"encoding/base32"
	"testing"

	"github.com/undernetirc/otpgen/internal/auth/oath"
	"gopkg.in/go-playground/assert.v1"
)

// Interop tests taken from http://tools.ietf.org/html/rfc4226#appendix-D

var seed = base32.StdEncoding.EncodeToString([]byte("12345678901234567890"))

func newHOTP(t *testing.T, opts ...oath.Option) *HOTP {
	cfg, err := oath.NewConfig(seed, opts...)
	if err != nil {
		t.Fatalf("failed to create config: %v", err)
	}
	return New(cfg, 0)
}

func generate(t *testing.T, h *HOTP) string {
	code, err := h.Generate()
	if err != nil {
		t.Fatalf("failed to generate code: %v", err)
	}
	return code
}

func TestGenerateHotp(t *testing.T) {
	hotp := newHOTP(t)

	assert.Equal(t, "755224", generate(t, hotp.SetCounter(0)))
	assert.Equal(t, "287082", generate(t, hotp.SetCounter(1)))
	assert.Equal(t, "359152", generate(t, hotp.SetCounter(2)))
	assert.Equal(t, "969429", generate(t, hotp.SetCounter(3)))
	assert.Equal(t, "338314", generate(t, hotp.SetCounter(4)))
	assert.Equal(t, "254676", generate(t, hotp.SetCounter(5)))
	assert.Equal(t, "287922", generate(t, hotp.SetCounter(6)))
	assert.Equal(t, "162583", generate(t, hotp.SetCounter(7)))
	assert.Equal(t, "399871", generate(t, hotp.SetCounter(8)))
	assert.Equal(t, "520489", generate(t, hotp.SetCounter(9)))
}

func TestGenerateDoesNotAdvanceCounter(t *testing.T) {
	hotp := newHOTP(t)
	hotp.SetCounter(3)

	assert.Equal(t, "969429", generate(t, hotp))
	assert.Equal(t, "969429", generate(t, hotp))
	assert.Equal(t, uint64(3), hotp.Counter())
}

func TestGenerateAt(t *testing.T) {
	hotp := newHOTP(t)

	code, err := hotp.GenerateAt(9)
	assert.Equal(t, nil, err)
	assert.Equal(t, "520489", code)
	assert.Equal(t, uint64(0), hotp.Counter())
}

func TestValidateHotp(t *testing.T) {
	hotp := newHOTP(t)

	assert.Equal(t, true, hotp.Validate("755224", 0))
	assert.Equal(t, false, hotp.Validate("755224", 1))
	assert.Equal(t, false, hotp.Validate("75522", 0))
	assert.Equal(t, true, hotp.Validate("287082", 1))
}

func TestGenerateUnconfigured(t *testing.T) {
	hotp := New(oath.Config{}, 0)

	_, err := hotp.Generate()
	assert.Equal(t, oath.ErrNotConfigured, err)
	assert.Equal(t, false, hotp.Validate("755224", 0))
}

func TestGenerateEightDigits(t *testing.T) {
	hotp := newHOTP(t, oath.WithDigits(8))

	// truncated value for counter 1 is 0x41397eea = 1094287082
	assert.Equal(t, "94287082", generate(t, hotp.SetCounter(1)))
}
