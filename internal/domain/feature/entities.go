package feature

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("feature not found")

type Platform string

const (
	PlatformWeb    Platform = "web"
	PlatformMobile Platform = "mobile"
)

// Feature is a flag row gating optional surfaces (e.g. the guarantor system).
type Feature struct {
	ID            uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Slug          string         `gorm:"column:slug;size:100;uniqueIndex" json:"slug"`
	Name          string         `gorm:"column:name;size:255" json:"name"`
	Enabled       bool           `gorm:"column:enabled;default:false" json:"enabled"`
	EnabledWeb    bool           `gorm:"column:enabled_web;default:true" json:"enabled_web"`
	EnabledMobile bool           `gorm:"column:enabled_mobile;default:true" json:"enabled_mobile"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Feature) TableName() string { return "features" }

func (f *Feature) EnabledForPlatform(p Platform) bool {
	if !f.Enabled {
		return false
	}
	switch p {
	case PlatformWeb:
		return f.EnabledWeb
	case PlatformMobile:
		return f.EnabledMobile
	}
	return false
}

type Repository interface {
	GetBySlug(ctx context.Context, slug string) (*Feature, error)
	ListEnabled(ctx context.Context, platform Platform) ([]Feature, error)
	Save(ctx context.Context, f *Feature) error
}
