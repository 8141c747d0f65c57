package audit

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

// Entry records a privileged mutation: approve/reject/disburse/verify.
type Entry struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ActorID    uint64         `gorm:"column:actor_id;index" json:"actor_id"`
	Action     string         `gorm:"column:action;size:50" json:"action"`
	EntityType string         `gorm:"column:entity_type;size:50" json:"entity_type"`
	EntityID   uint64         `gorm:"column:entity_id;index" json:"entity_id"`
	Before     datatypes.JSON `gorm:"column:before" json:"before,omitempty"`
	After      datatypes.JSON `gorm:"column:after" json:"after,omitempty"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "audit_logs" }

// Sink accepts audit entries fire-and-forget: implementations must never
// surface a failure to the calling mutation.
type Sink interface {
	Record(ctx context.Context, e Entry)
}
