package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	qrDomain "coopvest-backend/internal/domain/qrtoken"
)

type QRTokenRepository struct{ db *gorm.DB }

func NewQRTokenRepository(db *gorm.DB) *QRTokenRepository { return &QRTokenRepository{db: db} }

func (r *QRTokenRepository) Create(ctx context.Context, t *qrDomain.QRToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *QRTokenRepository) GetByToken(ctx context.Context, token string) (*qrDomain.QRToken, error) {
	var out qrDomain.QRToken
	res := r.db.WithContext(ctx).Where("token = ?", token).First(&out)
	return &out, res.Error
}

func (r *QRTokenRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]qrDomain.QRToken, error) {
	var out []qrDomain.QRToken
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at DESC").
		Find(&out)
	return out, res.Error
}

func (r *QRTokenRepository) RevokeActiveByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&qrDomain.QRToken{}).
		Where("loan_id = ? AND status = ?", loanID, qrDomain.StatusActive).
		Update("status", qrDomain.StatusRevoked)
	return res.RowsAffected, res.Error
}

// ConsumeActive is the single atomic conditional write that closes the race
// between two simultaneous scans: the condition rides in the WHERE clause,
// and a zero row count means someone else got there first.
func (r *QRTokenRepository) ConsumeActive(ctx context.Context, id uint64, scannedBy uint64, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&qrDomain.QRToken{}).
		Where("id = ? AND status = ?", id, qrDomain.StatusActive).
		Updates(map[string]any{
			"status":     qrDomain.StatusUsed,
			"scanned_by": scannedBy,
			"scanned_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return qrDomain.ErrAlreadyProcessed
	}
	return nil
}

func (r *QRTokenRepository) Revoke(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&qrDomain.QRToken{}).
		Where("id = ?", id).
		Update("status", qrDomain.StatusRevoked).Error
}

func (r *QRTokenRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&qrDomain.QRToken{}).
		Where("status = ? AND expires_at <= ?", qrDomain.StatusActive, now).
		Update("status", qrDomain.StatusExpired)
	return res.RowsAffected, res.Error
}

var _ qrDomain.Repository = (*QRTokenRepository)(nil)
