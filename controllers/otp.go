// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2024 UnderNET

// Package controllers provides the HTTP handlers for the API
package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/undernetirc/otpgen/internal/auth/oath"
	"github.com/undernetirc/otpgen/internal/auth/oath/hotp"
	"github.com/undernetirc/otpgen/internal/auth/oath/totp"
	"github.com/undernetirc/otpgen/internal/config"
	apierrors "github.com/undernetirc/otpgen/internal/errors"
	"github.com/undernetirc/otpgen/internal/metrics"
	"github.com/undernetirc/otpgen/internal/tracing"
	"github.com/undernetirc/otpgen/middlewares"
)

// OTPDefaults are applied to requests that omit the corresponding field
type OTPDefaults struct {
	Algorithm string
	Digits    int
	Period    uint64
	StartTime int64
	Skew      uint8
}

// DefaultsFromConfig reads the otp.* configuration keys
func DefaultsFromConfig() OTPDefaults {
	return OTPDefaults{
		Algorithm: config.OTPAlgorithm.GetString(),
		Digits:    config.OTPDigits.GetInt(),
		Period:    config.OTPPeriod.GetUint64(),
		StartTime: config.OTPStartTime.GetInt64(),
		Skew:      config.OTPSkew.GetUint8(),
	}
}

// OTPController generates and verifies one-time passwords. Generators are built per
// request, nothing is kept between calls.
type OTPController struct {
	defaults OTPDefaults
	metrics  *metrics.OTPMetrics
}

// NewOTPController returns a new OTPController. m may be nil.
func NewOTPController(defaults OTPDefaults, m *metrics.OTPMetrics) *OTPController {
	return &OTPController{defaults: defaults, metrics: m}
}

// OTPParams are the fields shared by all OTP requests
type OTPParams struct {
	Secret    string `json:"secret" validate:"required,base32secret"`
	Algorithm string `json:"algorithm,omitempty" validate:"omitempty,otpalgorithm"`
	Digits    int    `json:"digits,omitempty" validate:"omitempty,min=6,max=10"`
}

// HOTPRequest is the body of a counter based generation request
type HOTPRequest struct {
	OTPParams
	Counter *uint64 `json:"counter" validate:"required"`
}

// TOTPRequest is the body of a time based generation request. Time is the Unix time
// the code is generated for.
type TOTPRequest struct {
	OTPParams
	Period    uint64 `json:"period,omitempty" validate:"omitempty,gt=0"`
	StartTime *int64 `json:"start_time,omitempty"`
	Time      *int64 `json:"time" validate:"required"`
}

// VerifyTOTPRequest is the body of a TOTP verification request
type VerifyTOTPRequest struct {
	TOTPRequest
	Code string `json:"code" validate:"required,numeric,min=6,max=10"`
	Skew *uint8 `json:"skew,omitempty"`
}

// OTPResponse is returned by the generation endpoints
type OTPResponse struct {
	Code    string `json:"code"`
	Counter uint64 `json:"counter"`
}

// VerifyResponse is returned by the verification endpoint
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// GenerateHOTP godoc
// @Summary Generate an HOTP code
// @Description Generates the RFC 4226 code for a base32 secret and counter
// @Tags otp
// @Accept json
// @Produce json
// @Param data body HOTPRequest true "HOTP parameters"
// @Success 200 {object} OTPResponse
// @Failure 400 {object} apierrors.ErrorResponse "Invalid request"
// @Router /otp/hotp [post]
func (ctr *OTPController) GenerateHOTP(c echo.Context) error {
	req := new(HOTPRequest)
	if err := c.Bind(req); err != nil {
		return apierrors.HandleBadRequestError(c, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apierrors.HandleValidationError(c, err)
	}

	cfg, err := ctr.newConfig(req.OTPParams)
	if err != nil {
		ctr.metrics.RecordGeneration(c.Request().Context(), "hotp", ctr.requestedAlgorithm(req.OTPParams), 0, err)
		return apierrors.HandleOTPError(c, err)
	}

	start := time.Now()
	generator := hotp.New(cfg, *req.Counter)
	code, err := traceGenerate(c, "otp.hotp.generate", cfg, generator.Counter(), generator.Generate)
	ctr.metrics.RecordGeneration(c.Request().Context(), "hotp", cfg.Algorithm(), time.Since(start), err)
	if err != nil {
		return apierrors.HandleOTPError(c, err)
	}

	middlewares.GetLoggerFromContext(c).Debug("Generated HOTP code",
		"algorithm", cfg.Algorithm(),
		"digits", cfg.Digits(),
		"counter", generator.Counter())

	return c.JSON(http.StatusOK, &OTPResponse{Code: code, Counter: generator.Counter()})
}

// GenerateTOTP godoc
// @Summary Generate a TOTP code
// @Description Generates the RFC 6238 code for a base32 secret at the given Unix time
// @Tags otp
// @Accept json
// @Produce json
// @Param data body TOTPRequest true "TOTP parameters"
// @Success 200 {object} OTPResponse
// @Failure 400 {object} apierrors.ErrorResponse "Invalid request"
// @Router /otp/totp [post]
func (ctr *OTPController) GenerateTOTP(c echo.Context) error {
	req := new(TOTPRequest)
	if err := c.Bind(req); err != nil {
		return apierrors.HandleBadRequestError(c, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apierrors.HandleValidationError(c, err)
	}

	start := time.Now()
	generator, err := ctr.newTOTP(req)
	if err != nil {
		ctr.metrics.RecordGeneration(c.Request().Context(), "totp", ctr.requestedAlgorithm(req.OTPParams), 0, err)
		return apierrors.HandleOTPError(c, err)
	}

	code, err := traceGenerate(c, "otp.totp.generate", generator.Config, generator.Counter(), generator.Generate)
	ctr.metrics.RecordGeneration(c.Request().Context(), "totp", generator.Algorithm(), time.Since(start), err)
	if err != nil {
		return apierrors.HandleOTPError(c, err)
	}

	middlewares.GetLoggerFromContext(c).Debug("Generated TOTP code",
		"algorithm", generator.Algorithm(),
		"period", generator.TimePeriod(),
		"counter", generator.Counter())

	return c.JSON(http.StatusOK, &OTPResponse{Code: code, Counter: generator.Counter()})
}

// VerifyTOTP godoc
// @Summary Verify a TOTP code
// @Description Checks a code against the time step of the given Unix time and skew steps either side
// @Tags otp
// @Accept json
// @Produce json
// @Param data body VerifyTOTPRequest true "Verification parameters"
// @Success 200 {object} VerifyResponse
// @Failure 400 {object} apierrors.ErrorResponse "Invalid request"
// @Router /otp/totp/verify [post]
func (ctr *OTPController) VerifyTOTP(c echo.Context) error {
	req := new(VerifyTOTPRequest)
	if err := c.Bind(req); err != nil {
		return apierrors.HandleBadRequestError(c, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apierrors.HandleValidationError(c, err)
	}

	generator, err := ctr.newTOTP(&req.TOTPRequest)
	if err != nil {
		ctr.metrics.RecordVerificationFailure(c.Request().Context(), ctr.requestedAlgorithm(req.OTPParams), err)
		return apierrors.HandleOTPError(c, err)
	}

	skew := ctr.defaults.Skew
	if req.Skew != nil {
		skew = *req.Skew
	}

	var valid bool
	_ = tracing.Trace(c.Request().Context(), "otp.totp.verify", map[string]interface{}{
		"otp.algorithm": generator.Algorithm(),
		"otp.digits":    generator.Digits(),
		"otp.counter":   generator.Counter(),
		"otp.skew":      skew,
	}, func(tc *tracing.TracedContext) error {
		valid = generator.ValidateCustom(req.Code, time.Unix(*req.Time, 0), skew)
		tc.AddAttr("otp.valid", valid)
		return nil
	})
	ctr.metrics.RecordVerification(c.Request().Context(), generator.Algorithm(), valid)

	return c.JSON(http.StatusOK, &VerifyResponse{Valid: valid})
}

func traceGenerate(c echo.Context, name string, cfg oath.Config, counter uint64, generate func() (string, error)) (string, error) {
	var code string
	err := tracing.Trace(c.Request().Context(), name, map[string]interface{}{
		"otp.algorithm": cfg.Algorithm(),
		"otp.digits":    cfg.Digits(),
		"otp.counter":   counter,
	}, func(_ *tracing.TracedContext) error {
		var err error
		code, err = generate()
		return err
	})
	return code, err
}

// unknownAlgorithm labels metrics when the configured algorithm does not parse
const unknownAlgorithm oath.Algorithm = "unknown"

// requestedAlgorithm resolves the algorithm a request asked for, falling back to the
// default, for labelling requests that failed before a Config existed.
func (ctr *OTPController) requestedAlgorithm(p OTPParams) oath.Algorithm {
	name := p.Algorithm
	if name == "" {
		name = ctr.defaults.Algorithm
	}
	a, err := oath.ParseAlgorithm(name)
	if err != nil {
		return unknownAlgorithm
	}
	return a
}

func (ctr *OTPController) newConfig(p OTPParams) (oath.Config, error) {
	algorithm := p.Algorithm
	if algorithm == "" {
		algorithm = ctr.defaults.Algorithm
	}
	digits := p.Digits
	if digits == 0 {
		digits = ctr.defaults.Digits
	}

	return oath.NewConfig(p.Secret, oath.WithAlgorithm(algorithm), oath.WithDigits(digits))
}

func (ctr *OTPController) newTOTP(req *TOTPRequest) (*totp.TOTP, error) {
	cfg, err := ctr.newConfig(req.OTPParams)
	if err != nil {
		return nil, err
	}

	period := req.Period
	if period == 0 {
		period = ctr.defaults.Period
	}
	startTime := ctr.defaults.StartTime
	if req.StartTime != nil {
		startTime = *req.StartTime
	}

	return totp.New(cfg,
		totp.WithTimePeriod(period),
		totp.WithStartTime(startTime),
		totp.WithCurrentTime(*req.Time),
	)
}
