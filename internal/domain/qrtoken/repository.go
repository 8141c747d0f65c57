package qrtoken

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, t *QRToken) error
	GetByToken(ctx context.Context, token string) (*QRToken, error)
	ListByLoanID(ctx context.Context, loanID uint64) ([]QRToken, error)

	// RevokeActiveByLoanID flips every active token for the loan to revoked.
	// Run inside the same transaction that inserts the replacement token so
	// the one-active-token-per-loan invariant holds at every instant.
	RevokeActiveByLoanID(ctx context.Context, loanID uint64) (int64, error)

	// ConsumeActive atomically marks the token used iff it is still active:
	// UPDATE ... SET status='used', scanned_by=?, scanned_at=? WHERE id=? AND
	// status='active'. Returns ErrAlreadyProcessed when no row was affected,
	// which is how the second of two concurrent scans loses the race.
	ConsumeActive(ctx context.Context, id uint64, scannedBy uint64, now time.Time) error

	// Revoke unconditionally sets status=revoked. Idempotent on terminal rows.
	Revoke(ctx context.Context, id uint64) error

	// MarkExpired relabels active rows past their deadline; reporting only,
	// validity is always recomputed live.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}
