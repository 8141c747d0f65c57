package mysql

import (
	"context"

	"gorm.io/gorm"

	"coopvest-backend/internal/domain/loan"
	"coopvest-backend/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:        &LoanRepository{db: tx},
		Payments:     &PaymentRepository{db: tx},
		Transactions: &TransactionRepository{db: tx},
		Applications: &ApplicationRepository{db: tx},
		LoanTypes:    &LoanTypeRepository{db: tx},
		Guarantors:   &GuarantorRepository{db: tx},
		Invitations:  &InvitationRepository{db: tx},
		QRTokens:     &QRTokenRepository{db: tx},
		Users:        &UserRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
