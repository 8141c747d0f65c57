package uow

import (
	"context"

	"coopvest-backend/internal/domain/application"
	"coopvest-backend/internal/domain/guarantor"
	"coopvest-backend/internal/domain/loan"
	"coopvest-backend/internal/domain/loantype"
	"coopvest-backend/internal/domain/qrtoken"
	"coopvest-backend/internal/domain/user"
)

type Repos struct {
	Loans        loan.Repository
	Payments     loan.PaymentRepository
	Transactions loan.TransactionRepository
	Applications application.Repository
	LoanTypes    loantype.Repository
	Guarantors   guarantor.Repository
	Invitations  guarantor.InvitationRepository
	QRTokens     qrtoken.Repository
	Users        user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
