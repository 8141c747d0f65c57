package loantype

import "context"

type Repository interface {
	Create(ctx context.Context, t *LoanType) error
	Save(ctx context.Context, t *LoanType) error
	GetByID(ctx context.Context, id uint64) (*LoanType, error)
	GetByKey(ctx context.Context, key string) (*LoanType, error)
	ListActive(ctx context.Context) ([]LoanType, error)
	// SoftDelete retires a product without breaking loans referencing it.
	SoftDelete(ctx context.Context, id uint64) error
}
