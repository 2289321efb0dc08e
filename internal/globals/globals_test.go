// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package globals

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogAndExit(t *testing.T) {
	var got int
	prev := exit
	exit = func(code int) { got = code }
	t.Cleanup(func() { exit = prev })

	tests := []struct {
		name       string
		message    string
		code       int
		wantStdout string
		wantStderr string
	}{
		{"success goes to stdout", "done", 0, "done\n", ""},
		{"failure goes to stderr", "oath: invalid key", 1, "", "oath: invalid key\n"},
		{"empty message", "", 1, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			logAndExit(&stdout, &stderr, tt.message, tt.code)

			assert.Equal(t, tt.code, got)
			assert.Equal(t, tt.wantStdout, stdout.String())
			assert.Equal(t, tt.wantStderr, stderr.String())
		})
	}
}
