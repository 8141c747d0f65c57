package qrtokenmock

import (
	"context"
	"time"

	domain "coopvest-backend/internal/domain/qrtoken"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn               func(ctx context.Context, t *domain.QRToken) error
	GetByTokenFn           func(ctx context.Context, token string) (*domain.QRToken, error)
	ListByLoanIDFn         func(ctx context.Context, loanID uint64) ([]domain.QRToken, error)
	RevokeActiveByLoanIDFn func(ctx context.Context, loanID uint64) (int64, error)
	ConsumeActiveFn        func(ctx context.Context, id uint64, scannedBy uint64, now time.Time) error
	RevokeFn               func(ctx context.Context, id uint64) error
	MarkExpiredFn          func(ctx context.Context, now time.Time) (int64, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, t *domain.QRToken) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}
func (m *Repo) GetByToken(ctx context.Context, token string) (*domain.QRToken, error) {
	if m.GetByTokenFn != nil {
		return m.GetByTokenFn(ctx, token)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.QRToken, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}
func (m *Repo) RevokeActiveByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	if m.RevokeActiveByLoanIDFn != nil {
		return m.RevokeActiveByLoanIDFn(ctx, loanID)
	}
	return 0, nil
}
func (m *Repo) ConsumeActive(ctx context.Context, id uint64, scannedBy uint64, now time.Time) error {
	if m.ConsumeActiveFn != nil {
		return m.ConsumeActiveFn(ctx, id, scannedBy, now)
	}
	return nil
}
func (m *Repo) Revoke(ctx context.Context, id uint64) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, id)
	}
	return nil
}
func (m *Repo) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.MarkExpiredFn != nil {
		return m.MarkExpiredFn(ctx, now)
	}
	return 0, nil
}
