// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023-2024 UnderNET

package hotp

import (
	"fmt"
	"testing"

	"github.com/pquerna/otp"
	pqhotp "github.com/pquerna/otp/hotp"
	"github.com/stretchr/testify/require"
	"github.com/undernetirc/otpgen/internal/auth/oath"
)

// Codes must match an independent implementation for every shared algorithm and width.
func TestMatchesPquernaOTP(t *testing.T) {
	const secret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

	algorithms := map[string]otp.Algorithm{
		"SHA1":   otp.AlgorithmSHA1,
		"SHA256": otp.AlgorithmSHA256,
		"SHA512": otp.AlgorithmSHA512,
	}

	for name, pqAlgorithm := range algorithms {
		for _, digits := range []int{6, 8} {
			t.Run(fmt.Sprintf("%s/%d", name, digits), func(t *testing.T) {
				cfg, err := oath.NewConfig(secret, oath.WithAlgorithm(name), oath.WithDigits(digits))
				require.NoError(t, err)
				h := New(cfg, 0)

				for counter := uint64(0); counter < 100; counter++ {
					want, err := pqhotp.GenerateCodeCustom(secret, counter, pqhotp.ValidateOpts{
						Digits:    otp.Digits(digits),
						Algorithm: pqAlgorithm,
					})
					require.NoError(t, err)

					got, err := h.GenerateAt(counter)
					require.NoError(t, err)
					require.Equal(t, want, got, "counter %d", counter)
				}
			})
		}
	}
}
