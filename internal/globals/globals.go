// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

// Package globals contains global variables and functions
package globals

import (
	"fmt"
	"io"
	"os"
)

// exit is replaced in tests
var exit = os.Exit

// LogAndExit prints message and exits with code. Messages for a non-zero code go to
// stderr.
func LogAndExit(message string, code int) {
	logAndExit(os.Stdout, os.Stderr, message, code)
}

func logAndExit(stdout, stderr io.Writer, message string, code int) {
	w := stdout
	if code != 0 {
		w = stderr
	}
	if message != "" {
		fmt.Fprintln(w, message)
	}
	exit(code)
}
