// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

package helper

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	slogformatter "github.com/samber/slog-formatter"
)

// RedactedValue replaces sensitive attribute values in log output
const RedactedValue = "[REDACTED]"

// sensitiveKeys are attribute keys whose values never reach a log sink
var sensitiveKeys = []string{"secret", "key", "code", "otp"}

// ParseLogLevel maps debug, info, warn and error to a slog.Level
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// NewLogger returns a slog.Logger writing text or json to w. Sensitive attributes are
// redacted and error attributes are expanded.
func NewLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}

	var sink slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		sink = slog.NewTextHandler(w, opts)
	case "json":
		sink = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	formatters := []slogformatter.Formatter{
		slogformatter.ErrorFormatter("error"),
	}
	for _, key := range sensitiveKeys {
		formatters = append(formatters, slogformatter.FormatByKey(key, func(_ slog.Value) slog.Value {
			return slog.StringValue(RedactedValue)
		}))
	}

	return slog.New(slogformatter.NewFormatterHandler(formatters...)(sink)), nil
}

// GetRequestID extracts the request ID from the Echo context.
// Returns "unknown" if no request ID is found.
func GetRequestID(c echo.Context) string {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = "unknown"
	}
	return requestID
}
