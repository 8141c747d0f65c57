package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// randomString returns n characters drawn from tokenAlphabet using crypto/rand.
func randomString(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range out {
		idx, _ := rand.Int(rand.Reader, max)
		out[i] = tokenAlphabet[idx.Int64()]
	}
	return string(out)
}

// NewInviteToken64 returns a 64-character invitation bearer token.
func NewInviteToken64() string {
	return randomString(64)
}

// NewQRToken returns an opaque QR token of the form QR_<32 random>_<unix ts>.
// The timestamp suffix keeps tokens trivially distinguishable in logs without
// weakening the random part.
func NewQRToken(now time.Time) string {
	return fmt.Sprintf("QR_%s_%d", randomString(32), now.Unix())
}
