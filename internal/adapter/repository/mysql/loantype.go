package mysql

import (
	"context"

	"gorm.io/gorm"

	typeDomain "coopvest-backend/internal/domain/loantype"
)

type LoanTypeRepository struct{ db *gorm.DB }

func NewLoanTypeRepository(db *gorm.DB) *LoanTypeRepository { return &LoanTypeRepository{db: db} }

func (r *LoanTypeRepository) Create(ctx context.Context, t *typeDomain.LoanType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *LoanTypeRepository) Save(ctx context.Context, t *typeDomain.LoanType) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *LoanTypeRepository) GetByID(ctx context.Context, id uint64) (*typeDomain.LoanType, error) {
	var out typeDomain.LoanType
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LoanTypeRepository) GetByKey(ctx context.Context, key string) (*typeDomain.LoanType, error) {
	var out typeDomain.LoanType
	res := r.db.WithContext(ctx).Where("`key` = ?", key).First(&out)
	return &out, res.Error
}

func (r *LoanTypeRepository) ListActive(ctx context.Context) ([]typeDomain.LoanType, error) {
	var out []typeDomain.LoanType
	res := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("minimum_amount ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanTypeRepository) SoftDelete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&typeDomain.LoanType{}, id).Error
}
