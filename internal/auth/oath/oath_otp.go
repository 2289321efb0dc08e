// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

// Package oath implements the HMAC-based one-time password algorithm shared by HOTP
// (RFC 4226) and TOTP (RFC 6238).
package oath

import (
	"crypto/hmac"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/undernetirc/otpgen/internal/auth/oath/base32"
)

const (
	// MinDigits is the shortest supported code.
	MinDigits = 6
	// MaxDigits is the longest supported code. A 31-bit truncated value has at most 10 digits.
	MaxDigits = 10
	// DefaultDigits is used when no digit length is configured.
	DefaultDigits = 6
	// MinSecretLength is the minimum number of base32 characters in a secret.
	MinSecretLength = 16
)

var pow10 = [MaxDigits + 1]uint64{
	1, 10, 100, 1000, 10000, 100000, 1000000,
	10000000, 100000000, 1000000000, 10000000000,
}

// Config is an immutable OTP configuration. Build it with NewConfig; the zero value
// is not configured and cannot generate codes.
type Config struct {
	key       []byte
	algorithm Algorithm
	digits    int
}

// Option customises a Config built by NewConfig.
type Option func(*Config) error

// WithAlgorithm selects the HMAC hash by name, see ParseAlgorithm.
func WithAlgorithm(name string) Option {
	return func(c *Config) error {
		a, err := ParseAlgorithm(name)
		if err != nil {
			return err
		}
		c.algorithm = a
		return nil
	}
}

// WithDigits sets the code length. It must be within [MinDigits, MaxDigits].
func WithDigits(n int) Option {
	return func(c *Config) error {
		if n < MinDigits || n > MaxDigits {
			return fmt.Errorf("%w: %d is not between %d and %d", ErrInvalidDigits, n, MinDigits, MaxDigits)
		}
		c.digits = n
		return nil
	}
}

// NewConfig validates secret and the options and returns a ready to use Config.
func NewConfig(secret string, opts ...Option) (Config, error) {
	key, err := ParseKey(secret)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		key:       key,
		algorithm: DefaultAlgorithm,
		digits:    DefaultDigits,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// ParseKey validates a base32 secret and returns the raw key bytes. Trailing
// base32.TrailingCutset characters are ignored, the same set Decode strips.
func ParseKey(secret string) ([]byte, error) {
	s := strings.TrimRight(secret, base32.TrailingCutset)
	if len(s) < MinSecretLength {
		return nil, fmt.Errorf("%w: secret must be at least %d characters, got %d", ErrInvalidKey, MinSecretLength, len(s))
	}
	for i := 0; i < len(s); i++ {
		if !isBase32(s[i]) {
			return nil, fmt.Errorf("%w: secret must be base32 encoded", ErrInvalidKey)
		}
	}

	key, err := base32.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return key, nil
}

func isBase32(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '2' && c <= '7')
}

// Key returns a copy of the raw key.
func (c Config) Key() []byte {
	return append([]byte(nil), c.key...)
}

// Algorithm returns the configured hash algorithm.
func (c Config) Algorithm() Algorithm {
	return c.algorithm
}

// Digits returns the configured code length.
func (c Config) Digits() int {
	return c.digits
}

// IsConfigured reports whether c holds a key.
func (c Config) IsConfigured() bool {
	return len(c.key) > 0
}

// Generate returns the code for counter. It has no side effects and returns the same
// code for the same configuration and counter.
func Generate(cfg Config, counter uint64) (string, error) {
	if !cfg.IsConfigured() {
		return "", ErrNotConfigured
	}
	newHash := cfg.algorithm.Hash()
	if newHash == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, cfg.algorithm)
	}

	h := hmac.New(newHash, cfg.key)
	h.Write(itob(counter))

	return format(truncate(h.Sum(nil)), cfg.digits), nil
}

// GenerateOTP is Generate bound to c.
func (c Config) GenerateOTP(counter uint64) (string, error) {
	return Generate(c, counter)
}

// truncate applies the RFC 4226 dynamic truncation to an HMAC digest.
func truncate(sum []byte) uint32 {
	o := sum[len(sum)-1] & 0xf
	v := binary.BigEndian.Uint32(sum[o : o+4])
	return v & 0x7fffffff
}

func format(v uint32, digits int) string {
	code := strconv.FormatUint(uint64(v)%pow10[digits], 10)
	if n := digits - len(code); n > 0 {
		code = strings.Repeat("0", n) + code
	}
	return code
}

func itob(input uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, input)
	return buf
}
