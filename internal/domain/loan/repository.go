package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row for the surrounding transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	ListByUserID(ctx context.Context, userID uint64) ([]Loan, error)
	ListByStatus(ctx context.Context, status Status) ([]Loan, error)
}

// PaymentRepository appends and reads the immutable repayment ledger.
type PaymentRepository interface {
	Create(ctx context.Context, p *LoanPayment) error
	ListByLoanID(ctx context.Context, loanID uint64) ([]LoanPayment, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, t *Transaction) error
	ListByLoanID(ctx context.Context, loanID uint64) ([]Transaction, error)
}
