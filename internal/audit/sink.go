package audit

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	auditDomain "coopvest-backend/internal/domain/audit"
)

// GormSink persists audit entries. Failures are logged and swallowed: an
// audit write must never block or roll back the mutation it describes.
type GormSink struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewGormSink(db *gorm.DB, log *logrus.Logger) *GormSink {
	return &GormSink{db: db, log: log}
}

func (s *GormSink) Record(ctx context.Context, e auditDomain.Entry) {
	if err := s.db.WithContext(ctx).Create(&e).Error; err != nil {
		s.log.WithFields(logrus.Fields{
			"action":      e.Action,
			"entity_type": e.EntityType,
			"entity_id":   e.EntityID,
			"error":       err.Error(),
		}).Warn("audit record failed")
	}
}

var _ auditDomain.Sink = (*GormSink)(nil)

// NopSink discards entries; used when auditing is disabled and in tests.
type NopSink struct{}

func (NopSink) Record(context.Context, auditDomain.Entry) {}

var _ auditDomain.Sink = NopSink{}
