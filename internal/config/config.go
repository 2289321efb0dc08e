// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

// Package config provides typed access to the viper configuration.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// K is a configuration key
type K string

const (
	// ServiceHost is the address the HTTP server listens on
	ServiceHost K = `service.host`
	// ServicePort is the port the HTTP server listens on
	ServicePort K = `service.port`
	// ServiceAPIPrefix is the prefix of all API routes
	ServiceAPIPrefix K = `service.api_prefix`
	// ServiceDevMode enables debug logging on the echo instance
	ServiceDevMode K = `service.dev_mode`

	// OTPAlgorithm is the default HMAC algorithm
	OTPAlgorithm K = `otp.algorithm`
	// OTPDigits is the default code length
	OTPDigits K = `otp.digits`
	// OTPPeriod is the default TOTP time step in seconds
	OTPPeriod K = `otp.period`
	// OTPStartTime is the default TOTP T0 in Unix seconds
	OTPStartTime K = `otp.start_time`
	// OTPSkew is the default number of time steps accepted either side when verifying
	OTPSkew K = `otp.skew`

	// LogLevel is one of debug, info, warn, error
	LogLevel K = `log.level`
	// LogFormat is text or json
	LogFormat K = `log.format`

	// TelemetryEnabled enables OpenTelemetry
	TelemetryEnabled K = `telemetry.enabled`
	// TelemetryServiceName is reported as service.name
	TelemetryServiceName K = `telemetry.service_name`
	// TelemetryServiceVersion is reported as service.version
	TelemetryServiceVersion K = `telemetry.service_version`
	// TelemetryOTLPEndpoint is the OTLP/HTTP trace collector host:port
	TelemetryOTLPEndpoint K = `telemetry.otlp_endpoint`
	// TelemetryOTLPInsecure disables TLS towards the collector
	TelemetryOTLPInsecure K = `telemetry.otlp_insecure`
	// TelemetryPrometheusEnabled exposes metrics on the prometheus endpoint
	TelemetryPrometheusEnabled K = `telemetry.prometheus_enabled`
	// TelemetryPrometheusEndpoint is the route metrics are served on
	TelemetryPrometheusEndpoint K = `telemetry.prometheus_endpoint`
	// TelemetryTracingEnabled enables tracing
	TelemetryTracingEnabled K = `telemetry.tracing_enabled`
	// TelemetryTracingSampleRate is the ratio of sampled traces
	TelemetryTracingSampleRate K = `telemetry.tracing_sample_rate`
	// TelemetryMetricsEnabled enables metrics
	TelemetryMetricsEnabled K = `telemetry.metrics_enabled`
)

// DefaultConfig sets the default configuration values
func DefaultConfig() {
	ServiceHost.setDefault("127.0.0.1")
	ServicePort.setDefault(8080)
	ServiceAPIPrefix.setDefault("api")
	ServiceDevMode.setDefault(false)

	OTPAlgorithm.setDefault("SHA1")
	OTPDigits.setDefault(6)
	OTPPeriod.setDefault(30)
	OTPStartTime.setDefault(0)
	OTPSkew.setDefault(1)

	LogLevel.setDefault("info")
	LogFormat.setDefault("text")

	TelemetryEnabled.setDefault(false)
	TelemetryServiceName.setDefault("otpgen")
	TelemetryServiceVersion.setDefault("0.0.1-dev")
	TelemetryOTLPEndpoint.setDefault("")
	TelemetryOTLPInsecure.setDefault(false)
	TelemetryPrometheusEnabled.setDefault(true)
	TelemetryPrometheusEndpoint.setDefault("/metrics")
	TelemetryTracingEnabled.setDefault(false)
	TelemetryTracingSampleRate.setDefault(0.1)
	TelemetryMetricsEnabled.setDefault(true)
}

// InitConfig reads the configuration file at configPath, or config.yaml in the
// working directory or /etc/otpgen when configPath is empty, and binds OTPGEN_*
// environment variables. A missing default config file is not an error.
func InitConfig(configPath string) error {
	DefaultConfig()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join("/etc", "otpgen"))
	}

	viper.SetEnvPrefix("OTPGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return nil
}

// GetServerAddress returns host:port of the HTTP server
func GetServerAddress() string {
	return fmt.Sprintf("%s:%s", ServiceHost.GetString(), ServicePort.GetString())
}

// IsSet reports whether a value for k exists in any source
func (k K) IsSet() bool {
	return viper.IsSet(string(k))
}

// Get returns the raw value of k
func (k K) Get() interface{} {
	return viper.Get(string(k))
}

// GetString returns the value of k as a string
func (k K) GetString() string {
	return viper.GetString(string(k))
}

// GetStringSlice returns the value of k as a string slice
func (k K) GetStringSlice() []string {
	return viper.GetStringSlice(string(k))
}

// GetBool returns the value of k as a bool
func (k K) GetBool() bool {
	return viper.GetBool(string(k))
}

// GetInt returns the value of k as an int
func (k K) GetInt() int {
	return viper.GetInt(string(k))
}

// GetInt64 returns the value of k as an int64
func (k K) GetInt64() int64 {
	return viper.GetInt64(string(k))
}

// GetUint returns the value of k as a uint
func (k K) GetUint() uint {
	return viper.GetUint(string(k))
}

// GetUint8 returns the value of k as a uint8
func (k K) GetUint8() uint8 {
	return uint8(viper.GetUint(string(k))) // nolint:gosec // config values are validated by callers
}

// GetUint64 returns the value of k as a uint64
func (k K) GetUint64() uint64 {
	return viper.GetUint64(string(k))
}

// GetFloat64 returns the value of k as a float64
func (k K) GetFloat64() float64 {
	return viper.GetFloat64(string(k))
}

// Set overrides the value of k
func (k K) Set(value interface{}) {
	viper.Set(string(k), value)
}

func (k K) setDefault(value interface{}) {
	viper.SetDefault(string(k), value)
}
