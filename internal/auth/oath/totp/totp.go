// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

// Package totp provides a time-based one-time password (TOTP) implementation.
//
// The generator never samples the system clock. Callers supply the current time,
// which keeps codes reproducible and leaves drift policy to the caller.
package totp

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/undernetirc/otpgen/internal/auth/oath"
)

// DefaultTimePeriod is the RFC 6238 default time step in seconds.
const DefaultTimePeriod uint64 = 30

// ErrInvalidTimePeriod is returned for a zero time step.
var ErrInvalidTimePeriod = errors.New("totp: time period must be positive")

// TOTP represents a Time-based One-Time Password generator. The counter is derived
// from the time fields and recomputed on every change. It is not safe for concurrent
// mutation.
type TOTP struct {
	oath.Config
	timePeriod  uint64
	startTime   int64
	currentTime int64
	counter     uint64
}

// Option customises a TOTP built by New.
type Option func(*TOTP) error

// WithTimePeriod sets the time step in seconds.
func WithTimePeriod(period uint64) Option {
	return func(t *TOTP) error {
		if period == 0 {
			return ErrInvalidTimePeriod
		}
		t.timePeriod = period
		return nil
	}
}

// WithStartTime sets T0, the Unix time the first step starts at.
func WithStartTime(start int64) Option {
	return func(t *TOTP) error {
		t.startTime = start
		return nil
	}
}

// WithCurrentTime sets the Unix time codes are generated for.
func WithCurrentTime(now int64) Option {
	return func(t *TOTP) error {
		t.currentTime = now
		return nil
	}
}

// New creates a new TOTP instance.
func New(cfg oath.Config, opts ...Option) (*TOTP, error) {
	t := &TOTP{Config: cfg, timePeriod: DefaultTimePeriod}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	t.recomputeCounter()
	return t, nil
}

// CounterAt returns floor((current - start) / period), or 0 when current is before start.
func CounterAt(current, start int64, period uint64) uint64 {
	if period == 0 || current <= start {
		return 0
	}
	// current > start, so the difference fits in a uint64 even across the int64 range
	elapsed := uint64(current) - uint64(start) // nolint:gosec // wraps to the exact difference
	return elapsed / period
}

func (t *TOTP) recomputeCounter() {
	t.counter = CounterAt(t.currentTime, t.startTime, t.timePeriod)
}

// SetCurrentTime stores the Unix time codes are generated for.
func (t *TOTP) SetCurrentTime(now int64) *TOTP {
	t.currentTime = now
	t.recomputeCounter()
	return t
}

// SetStartTime stores T0.
func (t *TOTP) SetStartTime(start int64) *TOTP {
	t.startTime = start
	t.recomputeCounter()
	return t
}

// SetTimePeriod stores the time step in seconds.
func (t *TOTP) SetTimePeriod(period uint64) error {
	if period == 0 {
		return ErrInvalidTimePeriod
	}
	t.timePeriod = period
	t.recomputeCounter()
	return nil
}

// TimePeriod returns the time step in seconds.
func (t *TOTP) TimePeriod() uint64 {
	return t.timePeriod
}

// StartTime returns T0.
func (t *TOTP) StartTime() int64 {
	return t.startTime
}

// CurrentTime returns the Unix time codes are generated for.
func (t *TOTP) CurrentTime() int64 {
	return t.currentTime
}

// Counter returns the derived time step counter.
func (t *TOTP) Counter() uint64 {
	return t.counter
}

// Generate returns the code for the current time step.
func (t *TOTP) Generate() (string, error) {
	return oath.Generate(t.Config, t.counter)
}

// GenerateCustom sets the current time to tm and returns its code.
func (t *TOTP) GenerateCustom(tm time.Time) (string, error) {
	return t.SetCurrentTime(tm.Unix()).Generate()
}

// ValidateCustom checks otp against the time step of tm and skew steps either side.
// The stored current time is left unchanged.
func (t *TOTP) ValidateCustom(otp string, tm time.Time, skew uint8) bool {
	counter := CounterAt(tm.Unix(), t.startTime, t.timePeriod)

	// Pre-allocate slice to avoid reallocations
	counters := make([]uint64, 0, 2*int(skew)+1)
	counters = append(counters, counter)

	for i := uint8(1); i <= skew && i != 0; i++ {
		delta := uint64(i)

		if counter >= delta { // Prevent underflow
			counters = append(counters, counter-delta)
		}
		if delta <= math.MaxUint64-counter { // Prevent overflow
			counters = append(counters, counter+delta)
		}
	}

	match := 0
	for _, c := range counters {
		code, err := oath.Generate(t.Config, c)
		if err != nil {
			return false
		}
		match |= subtle.ConstantTimeCompare([]byte(otp), []byte(code))
	}
	return match == 1
}

func (t *TOTP) String() string {
	return fmt.Sprintf("totp(period=%d start=%d time=%d counter=%d)", t.timePeriod, t.startTime, t.currentTime, t.counter)
}
