package mysql

import (
	"context"

	"gorm.io/gorm"

	featureDomain "coopvest-backend/internal/domain/feature"
)

type FeatureRepository struct{ db *gorm.DB }

func NewFeatureRepository(db *gorm.DB) *FeatureRepository { return &FeatureRepository{db: db} }

func (r *FeatureRepository) GetBySlug(ctx context.Context, slug string) (*featureDomain.Feature, error) {
	var out featureDomain.Feature
	res := r.db.WithContext(ctx).Where("slug = ?", slug).First(&out)
	return &out, res.Error
}

func (r *FeatureRepository) ListEnabled(ctx context.Context, platform featureDomain.Platform) ([]featureDomain.Feature, error) {
	q := r.db.WithContext(ctx).Where("enabled = ?", true)
	switch platform {
	case featureDomain.PlatformWeb:
		q = q.Where("enabled_web = ?", true)
	case featureDomain.PlatformMobile:
		q = q.Where("enabled_mobile = ?", true)
	}
	var out []featureDomain.Feature
	res := q.Order("slug ASC").Find(&out)
	return out, res.Error
}

func (r *FeatureRepository) Save(ctx context.Context, f *featureDomain.Feature) error {
	return r.db.WithContext(ctx).Save(f).Error
}
