package guarantormock

import (
	"context"
	"time"

	domain "coopvest-backend/internal/domain/guarantor"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn              func(ctx context.Context, g *domain.Guarantor) error
	SaveFn                func(ctx context.Context, g *domain.Guarantor) error
	GetByIDFn             func(ctx context.Context, id uint64) (*domain.Guarantor, error)
	GetByTokenFn          func(ctx context.Context, token string, now time.Time) (*domain.Guarantor, error)
	GetForLoanAndUserFn   func(ctx context.Context, loanID, userID uint64) (*domain.Guarantor, error)
	ListByLoanIDFn        func(ctx context.Context, loanID uint64) ([]domain.Guarantor, error)
	ListByGuarantorUserIDFn func(ctx context.Context, userID uint64) ([]domain.Guarantor, error)
	CountActiveByLoanIDFn func(ctx context.Context, loanID uint64) (int64, error)
	SoftDeleteFn          func(ctx context.Context, id uint64) error
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, g *domain.Guarantor) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, g)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, g *domain.Guarantor) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, g)
	}
	return nil
}
func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Guarantor, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByToken(ctx context.Context, token string, now time.Time) (*domain.Guarantor, error) {
	if m.GetByTokenFn != nil {
		return m.GetByTokenFn(ctx, token, now)
	}
	return nil, context.Canceled
}
func (m *Repo) GetForLoanAndUser(ctx context.Context, loanID, userID uint64) (*domain.Guarantor, error) {
	if m.GetForLoanAndUserFn != nil {
		return m.GetForLoanAndUserFn(ctx, loanID, userID)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Guarantor, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}
func (m *Repo) ListByGuarantorUserID(ctx context.Context, userID uint64) ([]domain.Guarantor, error) {
	if m.ListByGuarantorUserIDFn != nil {
		return m.ListByGuarantorUserIDFn(ctx, userID)
	}
	return nil, nil
}
func (m *Repo) CountActiveByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	if m.CountActiveByLoanIDFn != nil {
		return m.CountActiveByLoanIDFn(ctx, loanID)
	}
	return 0, nil
}
func (m *Repo) SoftDelete(ctx context.Context, id uint64) error {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, id)
	}
	return nil
}

// InvitationRepo mocks domain.InvitationRepository.
type InvitationRepo struct {
	CreateFn                  func(ctx context.Context, inv *domain.Invitation) error
	SaveFn                    func(ctx context.Context, inv *domain.Invitation) error
	GetPendingByLoanAndEmailFn func(ctx context.Context, loanID uint64, email string, now time.Time) (*domain.Invitation, error)
	GetByTokenFn              func(ctx context.Context, token string) (*domain.Invitation, error)
	ListByLoanIDFn            func(ctx context.Context, loanID uint64) ([]domain.Invitation, error)
	ListPendingByEmailFn      func(ctx context.Context, email string, now time.Time) ([]domain.Invitation, error)
	MarkExpiredFn             func(ctx context.Context, now time.Time) (int64, error)
}

var _ domain.InvitationRepository = (*InvitationRepo)(nil)

func (m *InvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, inv)
	}
	return nil
}
func (m *InvitationRepo) Save(ctx context.Context, inv *domain.Invitation) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, inv)
	}
	return nil
}
func (m *InvitationRepo) GetPendingByLoanAndEmail(ctx context.Context, loanID uint64, email string, now time.Time) (*domain.Invitation, error) {
	if m.GetPendingByLoanAndEmailFn != nil {
		return m.GetPendingByLoanAndEmailFn(ctx, loanID, email, now)
	}
	return nil, context.Canceled
}
func (m *InvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	if m.GetByTokenFn != nil {
		return m.GetByTokenFn(ctx, token)
	}
	return nil, context.Canceled
}
func (m *InvitationRepo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Invitation, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}
func (m *InvitationRepo) ListPendingByEmail(ctx context.Context, email string, now time.Time) ([]domain.Invitation, error) {
	if m.ListPendingByEmailFn != nil {
		return m.ListPendingByEmailFn(ctx, email, now)
	}
	return nil, nil
}
func (m *InvitationRepo) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.MarkExpiredFn != nil {
		return m.MarkExpiredFn(ctx, now)
	}
	return 0, nil
}
