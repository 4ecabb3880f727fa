package service

import (
	"crypto/rand"
	"math/big"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randomCode(length int) string {
	out := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err) // crypto/rand failure is not recoverable
		}
		out[i] = codeAlphabet[n.Int64()]
	}
	return string(out)
}

// NewClaimCode mints the one-time token bound to an unclaimed profile.
func NewClaimCode() string {
	return randomCode(8)
}

// NewVerificationCode mints the token a creator must include in a public
// post to prove account ownership.
func NewVerificationCode() string {
	return "TX-" + randomCode(6)
}
