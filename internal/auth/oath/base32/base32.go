// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

// Package base32 implements the RFC 4648 Base32 alphabet used for OTP shared secrets.
package base32

import (
	"errors"
	"fmt"
	"strings"
)

// Alphabet is the RFC 4648 Base32 alphabet.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// ErrInvalidEncoding is returned when decode input contains characters outside the alphabet.
var ErrInvalidEncoding = errors.New("base32: invalid encoding")

// TrailingCutset holds the characters stripped from the end of input before decoding:
// padding, space, tab, newline, carriage return, vertical tab and NUL.
const TrailingCutset = "= \t\n\r\x00\x0b"

const invalid = 0xff

var decodeMap [256]byte

// padding by input length mod 5
var padTable = [5]int{0, 6, 4, 3, 1}

func init() {
	for i := range decodeMap {
		decodeMap[i] = invalid
	}
	for i := 0; i < len(Alphabet); i++ {
		decodeMap[Alphabet[i]] = byte(i)
		decodeMap[Alphabet[i]|0x20] = byte(i) // lower case
	}
}

// EncodedLen returns the unpadded length of the encoding of n bytes.
func EncodedLen(n int) int {
	return (n*8 + 4) / 5
}

// Encode packs data into 5-bit groups, most significant bits first. When padRight is set
// the result is padded with '=' to a multiple of 8 characters.
func Encode(data []byte, padRight bool) string {
	var sb strings.Builder
	sb.Grow(EncodedLen(len(data)) + 6)

	var buf uint32
	var bits uint

	for _, b := range data {
		buf = buf<<8 | uint32(b)
		bits += 8
		for bits > 4 {
			bits -= 5
			sb.WriteByte(Alphabet[(buf>>bits)&0x1f])
		}
		buf &= 1<<bits - 1
	}

	// one more group for the 1-4 leftover bits
	if bits > 0 {
		sb.WriteByte(Alphabet[(buf<<(5-bits))&0x1f])
	}

	if padRight {
		sb.WriteString(strings.Repeat("=", padTable[len(data)%5]))
	}

	return sb.String()
}

// Decode reverses Encode. Trailing TrailingCutset characters are ignored and lookup is
// case-insensitive. Bits that do not fill a whole byte at the end are discarded.
func Decode(text string) ([]byte, error) {
	s := strings.TrimRight(text, TrailingCutset)
	out := make([]byte, 0, len(s)*5/8)

	var buf uint32
	var bits uint

	for i := 0; i < len(s); i++ {
		v := decodeMap[s[i]]
		if v == invalid {
			return nil, fmt.Errorf("%w: illegal character %q at position %d", ErrInvalidEncoding, s[i], i)
		}
		buf = buf<<5 | uint32(v)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buf>>bits))
			buf &= 1<<bits - 1
		}
	}

	return out, nil
}
