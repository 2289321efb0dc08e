// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// Package helper provides helper functions
package helper

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en_US"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"
	"github.com/undernetirc/otpgen/internal/auth/oath"
)

// Validator is a wrapper around the validator package
type Validator struct {
	validator *validator.Validate
	transEN   ut.Translator
}

// NewValidator returns a new Validator
func NewValidator() *Validator {
	english := en_US.New()
	uni := ut.New(english, english)
	transEN, found := uni.GetTranslator("en_US")
	if !found {
		log.Fatal("translator not found")
	}
	validate := validator.New()

	// Override the default tag name by using the json tag
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register default translations
	if err := enTranslation.RegisterDefaultTranslations(validate, transEN); err != nil {
		log.Fatal(err)
	}

	// Register custom validators
	registerCustomValidators(validate, transEN)

	return &Validator{
		validator: validate,
		transEN:   transEN,
	}
}

// Validate validates a struct based on the tags
func (v *Validator) Validate(i interface{}) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Handle non-ValidationErrors (like InvalidValidationError)
		return fmt.Errorf("validation error: %s", err.Error())
	}
	var errs []string
	for _, e := range validationErrors {
		errs = append(errs, e.Translate(v.transEN))
	}
	return fmt.Errorf("%s", strings.Join(errs, ", "))
}

type customValidation struct {
	tag     string
	fn      validator.Func
	message string
}

// registerCustomValidators registers custom validation rules
func registerCustomValidators(validate *validator.Validate, trans ut.Translator) {
	validations := []customValidation{
		{
			tag:     "base32secret",
			fn:      validateBase32Secret,
			message: "{0} must be a base32 secret of at least 16 characters",
		},
		{
			tag:     "otpalgorithm",
			fn:      validateOTPAlgorithm,
			message: "{0} must be one of SHA1, SHA256, SHA512, SHA3-256, SHA3-512",
		},
	}

	for _, cv := range validations {
		if err := validate.RegisterValidation(cv.tag, cv.fn); err != nil {
			log.Fatal(err)
		}
		tag, message := cv.tag, cv.message
		if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		}); err != nil {
			log.Fatal(err)
		}
	}
}

// validateBase32Secret checks a secret the same way the OTP core does
func validateBase32Secret(fl validator.FieldLevel) bool {
	secret := fl.Field().String()

	// Let required validator handle empty strings
	if secret == "" {
		return true
	}

	_, err := oath.ParseKey(secret)
	return err == nil
}

// validateOTPAlgorithm checks the algorithm name is supported
func validateOTPAlgorithm(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return true // omitted means the default algorithm
	}

	_, err := oath.ParseAlgorithm(name)
	return err == nil
}
