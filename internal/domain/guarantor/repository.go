package guarantor

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, g *Guarantor) error
	Save(ctx context.Context, g *Guarantor) error
	GetByID(ctx context.Context, id uint64) (*Guarantor, error)
	// GetByToken resolves a guarantor by its secret token where the token has
	// not yet expired; expired tokens are indistinguishable from missing ones.
	GetByToken(ctx context.Context, token string, now time.Time) (*Guarantor, error)
	// GetForLoanAndUser finds the guarantor row binding a user to a loan.
	GetForLoanAndUser(ctx context.Context, loanID, userID uint64) (*Guarantor, error)
	ListByLoanID(ctx context.Context, loanID uint64) ([]Guarantor, error)
	ListByGuarantorUserID(ctx context.Context, userID uint64) ([]Guarantor, error)
	// CountActiveByLoanID counts guarantors that are accepted AND verified.
	CountActiveByLoanID(ctx context.Context, loanID uint64) (int64, error)
	SoftDelete(ctx context.Context, id uint64) error
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	Save(ctx context.Context, inv *Invitation) error
	// GetPendingByLoanAndEmail returns an unexpired pending invitation for the
	// (loan, email) pair, or gorm.ErrRecordNotFound.
	GetPendingByLoanAndEmail(ctx context.Context, loanID uint64, email string, now time.Time) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	ListByLoanID(ctx context.Context, loanID uint64) ([]Invitation, error)
	// ListPendingByEmail returns unexpired pending invitations addressed to the
	// email, newest first.
	ListPendingByEmail(ctx context.Context, email string, now time.Time) ([]Invitation, error)
	// MarkExpired flips pending invitations past their deadline to expired,
	// returning the number of rows touched. Bookkeeping only.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}
