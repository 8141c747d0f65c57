package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// KYCChecker is the identity/KYC provider boundary consumed by the
// application eligibility check.
type KYCChecker interface {
	IsKYCVerified(ctx context.Context, userID uint64) (bool, error)
}
