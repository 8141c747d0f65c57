package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	guarantorDomain "coopvest-backend/internal/domain/guarantor"
)

type GuarantorRepository struct{ db *gorm.DB }

func NewGuarantorRepository(db *gorm.DB) *GuarantorRepository {
	return &GuarantorRepository{db: db}
}

func (r *GuarantorRepository) Create(ctx context.Context, g *guarantorDomain.Guarantor) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GuarantorRepository) Save(ctx context.Context, g *guarantorDomain.Guarantor) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *GuarantorRepository) GetByID(ctx context.Context, id uint64) (*guarantorDomain.Guarantor, error) {
	var out guarantorDomain.Guarantor
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

// GetByToken only matches unexpired tokens: an expired token is a missing
// token as far as callers can tell.
func (r *GuarantorRepository) GetByToken(ctx context.Context, token string, now time.Time) (*guarantorDomain.Guarantor, error) {
	var out guarantorDomain.Guarantor
	res := r.db.WithContext(ctx).
		Where("qr_code_token = ? AND qr_code_expires_at > ?", token, now).
		First(&out)
	return &out, res.Error
}

func (r *GuarantorRepository) GetForLoanAndUser(ctx context.Context, loanID, userID uint64) (*guarantorDomain.Guarantor, error) {
	var out guarantorDomain.Guarantor
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND guarantor_user_id = ?", loanID, userID).
		First(&out)
	return &out, res.Error
}

func (r *GuarantorRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]guarantorDomain.Guarantor, error) {
	var out []guarantorDomain.Guarantor
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at ASC").
		Find(&out)
	return out, res.Error
}

func (r *GuarantorRepository) ListByGuarantorUserID(ctx context.Context, userID uint64) ([]guarantorDomain.Guarantor, error) {
	var out []guarantorDomain.Guarantor
	res := r.db.WithContext(ctx).
		Where("guarantor_user_id = ?", userID).
		Order("created_at DESC").
		Find(&out)
	return out, res.Error
}

func (r *GuarantorRepository) CountActiveByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&guarantorDomain.Guarantor{}).
		Where("loan_id = ? AND confirmation_status = ? AND verification_status = ?",
			loanID, guarantorDomain.ConfirmationAccepted, guarantorDomain.VerificationVerified).
		Count(&n)
	return n, res.Error
}

func (r *GuarantorRepository) SoftDelete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&guarantorDomain.Guarantor{}, id).Error
}

type InvitationRepository struct{ db *gorm.DB }

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, inv *guarantorDomain.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvitationRepository) Save(ctx context.Context, inv *guarantorDomain.Invitation) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *InvitationRepository) GetPendingByLoanAndEmail(ctx context.Context, loanID uint64, email string, now time.Time) (*guarantorDomain.Invitation, error) {
	var out guarantorDomain.Invitation
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND guarantor_email = ? AND status = ? AND expires_at > ?",
			loanID, email, guarantorDomain.InvitationPending, now).
		First(&out)
	return &out, res.Error
}

func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (*guarantorDomain.Invitation, error) {
	var out guarantorDomain.Invitation
	res := r.db.WithContext(ctx).Where("invitation_token = ?", token).First(&out)
	return &out, res.Error
}

func (r *InvitationRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]guarantorDomain.Invitation, error) {
	var out []guarantorDomain.Invitation
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("sent_at DESC").
		Find(&out)
	return out, res.Error
}

func (r *InvitationRepository) ListPendingByEmail(ctx context.Context, email string, now time.Time) ([]guarantorDomain.Invitation, error) {
	var out []guarantorDomain.Invitation
	res := r.db.WithContext(ctx).
		Where("guarantor_email = ? AND status = ? AND expires_at > ?",
			email, guarantorDomain.InvitationPending, now).
		Order("created_at DESC").
		Find(&out)
	return out, res.Error
}

func (r *InvitationRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&guarantorDomain.Invitation{}).
		Where("status = ? AND expires_at <= ?", guarantorDomain.InvitationPending, now).
		Update("status", guarantorDomain.InvitationExpired)
	return res.RowsAffected, res.Error
}
