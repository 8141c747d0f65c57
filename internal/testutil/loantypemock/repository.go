package loantypemock

import (
	"context"

	domain "coopvest-backend/internal/domain/loantype"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn     func(ctx context.Context, t *domain.LoanType) error
	SaveFn       func(ctx context.Context, t *domain.LoanType) error
	GetByIDFn    func(ctx context.Context, id uint64) (*domain.LoanType, error)
	GetByKeyFn   func(ctx context.Context, key string) (*domain.LoanType, error)
	ListActiveFn func(ctx context.Context) ([]domain.LoanType, error)
	SoftDeleteFn func(ctx context.Context, id uint64) error
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, t *domain.LoanType) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, t *domain.LoanType) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}
func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.LoanType, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByKey(ctx context.Context, key string) (*domain.LoanType, error) {
	if m.GetByKeyFn != nil {
		return m.GetByKeyFn(ctx, key)
	}
	return nil, context.Canceled
}
func (m *Repo) ListActive(ctx context.Context) ([]domain.LoanType, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	return nil, nil
}
func (m *Repo) SoftDelete(ctx context.Context, id uint64) error {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, id)
	}
	return nil
}
