package application

import "context"

type Repository interface {
	Create(ctx context.Context, a *LoanApplication) error
	Save(ctx context.Context, a *LoanApplication) error
	GetByApplicationID(ctx context.Context, applicationID string) (*LoanApplication, error)
	// GetByApplicationIDForUpdate locks the row for the surrounding transaction.
	GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*LoanApplication, error)
	ListByUserID(ctx context.Context, userID uint64) ([]LoanApplication, error)
	ListByStatus(ctx context.Context, statuses ...Status) ([]LoanApplication, error)
}
