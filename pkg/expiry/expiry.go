package expiry

import "time"

// IsExpired reports whether expiresAt has passed at the given instant.
// A zero expiresAt is treated as already expired so records without a
// deadline can never be mistaken for valid ones.
//
// QR tokens and guarantor invitations both defer to this check at read time;
// background sweeps only relabel rows for reporting and are never load-bearing.
func IsExpired(expiresAt, now time.Time) bool {
	if expiresAt.IsZero() {
		return true
	}
	return !expiresAt.After(now)
}
