// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

// Command otpgen generates HOTP and TOTP codes and serves them over HTTP.
package main

import (
	"os"
	"time"

	"github.com/undernetirc/otpgen/internal/globals"
)

var (
	Version     = "0.0.1-dev"
	BuildDate   string
	BuildCommit string
)

func main() {
	app := newApp(os.Stdout, os.Stderr, time.Now)
	if err := app.Run(os.Args); err != nil {
		globals.LogAndExit(err.Error(), 1)
	}
}
