// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

package oath

import (
	// SHA1 is required by RFC 4226 (HOTP) and RFC 6238 (TOTP)
	// nolint:gosec // SHA1 is used as part of HMAC-SHA1 which is still secure for this use case
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Algorithm identifies the hash used inside the HMAC.
type Algorithm string

const (
	AlgorithmSHA1     Algorithm = "SHA1"
	AlgorithmSHA256   Algorithm = "SHA256"
	AlgorithmSHA512   Algorithm = "SHA512"
	AlgorithmSHA3_256 Algorithm = "SHA3-256"
	AlgorithmSHA3_512 Algorithm = "SHA3-512"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = AlgorithmSHA1

var hashes = map[Algorithm]func() hash.Hash{
	AlgorithmSHA1:     sha1.New,
	AlgorithmSHA256:   sha256.New,
	AlgorithmSHA512:   sha512.New,
	AlgorithmSHA3_256: sha3.New256,
	AlgorithmSHA3_512: sha3.New512,
}

// Algorithms returns the supported algorithms in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmSHA1, AlgorithmSHA256, AlgorithmSHA512, AlgorithmSHA3_256, AlgorithmSHA3_512}
}

// ParseAlgorithm maps a user supplied name like "sha256", "SHA-256" or "hmac-sha1" to
// a supported Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "HMAC-")
	if strings.HasPrefix(n, "SHA-") {
		n = "SHA" + n[len("SHA-"):]
	}
	if strings.HasPrefix(n, "SHA3") && !strings.HasPrefix(n, "SHA3-") {
		n = "SHA3-" + n[len("SHA3"):]
	}

	a := Algorithm(n)
	if _, ok := hashes[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
	return a, nil
}

// Hash returns the hash constructor for a, or nil when a is not supported.
func (a Algorithm) Hash() func() hash.Hash {
	return hashes[a]
}

// Size returns the digest size in bytes, or 0 when a is not supported.
func (a Algorithm) Size() int {
	h := a.Hash()
	if h == nil {
		return 0
	}
	return h().Size()
}

func (a Algorithm) String() string {
	return string(a)
}
