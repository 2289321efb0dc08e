// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

package base32

import (
	stdbase32 "encoding/base32"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test vectors from https://tools.ietf.org/html/rfc4648#section-10
var rfcVectors = []struct {
	decoded string
	encoded string
}{
	{"", ""},
	{"f", "MY======"},
	{"fo", "MZXQ===="},
	{"foo", "MZXW6==="},
	{"foob", "MZXW6YQ="},
	{"fooba", "MZXW6YTB"},
	{"foobar", "MZXW6YTBOI======"},
}

func TestEncode(t *testing.T) {
	for _, v := range rfcVectors {
		t.Run(v.decoded, func(t *testing.T) {
			assert.Equal(t, v.encoded, Encode([]byte(v.decoded), true))
			assert.Equal(t, strings.TrimRight(v.encoded, "="), Encode([]byte(v.decoded), false))
		})
	}
}

func TestDecode(t *testing.T) {
	for _, v := range rfcVectors {
		t.Run(v.encoded, func(t *testing.T) {
			got, err := Decode(v.encoded)
			require.NoError(t, err)
			assert.Equal(t, v.decoded, string(got))
		})
	}
}

func TestEncodeSecret(t *testing.T) {
	assert.Equal(t, "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", Encode([]byte("12345678901234567890"), true))
}

func TestEncodeSingleLeftoverBit(t *testing.T) {
	// 6 bytes = 48 bits = 9 full groups + 3 bits
	assert.Len(t, Encode(make([]byte, 6), false), 10)
	// 0x80 leaves 3 bits after the first group: 10000 000 -> "Q" "A"
	assert.Equal(t, "QA", Encode([]byte{0x80}, false))
	assert.Equal(t, "74", Encode([]byte{0xff}, false))
}

func TestEncodedLen(t *testing.T) {
	for n := 0; n <= 64; n++ {
		assert.Equal(t, (n*8+4)/5, EncodedLen(n))
		assert.Len(t, Encode(make([]byte, n), false), EncodedLen(n))
		assert.Zero(t, len(Encode(make([]byte, n), true))%8)
	}
}

func TestRoundTrip(t *testing.T) {
	for n := 0; n <= 64; n++ {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(i*37 + n*11 + 0x5a)
		}

		got, err := Decode(Encode(b, true))
		require.NoError(t, err)
		assert.Equal(t, b, got, "length %d", n)

		got, err = Decode(Encode(b, false))
		require.NoError(t, err)
		assert.Equal(t, b, got, "unpadded length %d", n)
	}
}

func TestMatchesStandardLibrary(t *testing.T) {
	for n := 0; n <= 64; n++ {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(255 - i*13)
		}
		assert.Equal(t, stdbase32.StdEncoding.EncodeToString(b), Encode(b, true))
	}
}

func TestDecodeCaseInsensitive(t *testing.T) {
	for _, s := range []string{"JBSWY3DPEHPK3PXP", "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", "MZXW6YTBOI"} {
		upper, err := Decode(s)
		require.NoError(t, err)
		lower, err := Decode(strings.ToLower(s))
		require.NoError(t, err)
		assert.Equal(t, upper, lower)
	}
}

func TestDecodeTrimsTrailing(t *testing.T) {
	got, err := Decode("MZXW6YTBOI======\n \t\x00")
	require.NoError(t, err)
	assert.Equal(t, "foobar", string(got))

	for _, c := range TrailingCutset {
		got, err := Decode("MZXW6YTBOI" + string(c))
		require.NoError(t, err, "trailing %q", c)
		assert.Equal(t, "foobar", string(got))
	}
}

func TestDecodeInvalidEncoding(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"digit one", "MZXW1YTB"},
		{"digit eight", "MZXW8YTB"},
		{"punctuation", "TOOSHORT1!"},
		{"inner padding", "MY==MY=="},
		{"inner space", "MZXW 6YTB"},
		{"non ascii", "MZXWé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			assert.ErrorIs(t, err, ErrInvalidEncoding)
		})
	}
}
