package qrtoken

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"coopvest-backend/pkg/expiry"
)

var (
	ErrNotFound         = errors.New("qr token not found")
	ErrTokenExpired     = errors.New("qr token is expired")
	ErrTokenNotActive   = errors.New("qr token has invalid_status")
	ErrInvalidLoanState = errors.New("loan status does not allow qr generation")
	ErrAlreadyProcessed = errors.New("qr token already processed")
	ErrDurationOutOfRange = errors.New("qr duration must be between 5 and 1440 minutes")
)

type Status string

const (
	StatusActive  Status = "active"
	StatusUsed    Status = "used"
	StatusRevoked Status = "revoked"
	StatusExpired Status = "expired"
)

func StatusLabel(s Status) string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusUsed:
		return "Used"
	case StatusRevoked:
		return "Revoked"
	case StatusExpired:
		return "Expired"
	}
	return string(s)
}

// Duration bounds for generated tokens, in minutes.
const (
	MinDurationMinutes     = 5
	MaxDurationMinutes     = 1440
	DefaultDurationMinutes = 15
)

// QRToken is a single-use, time-bounded credential binding a loan to a
// guarantor-verification scan. The token value is a secret bearer value,
// returned exactly once at creation.
type QRToken struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanID uint64 `gorm:"column:loan_id;not null;index" json:"loan_id"`
	Token  string `gorm:"column:token;size:64;uniqueIndex" json:"-"`

	// QRData is a snapshot of loan metadata frozen at issuance time.
	QRData   datatypes.JSON `gorm:"column:qr_data" json:"qr_data"`
	Metadata datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedBy uint64  `gorm:"column:created_by;not null" json:"created_by"`
	Status    Status  `gorm:"column:status;size:20;default:'active'" json:"status"`
	ScannedBy *uint64 `gorm:"column:scanned_by" json:"scanned_by"`

	ExpiresAt time.Time  `gorm:"column:expires_at;index" json:"expires_at"`
	ScannedAt *time.Time `gorm:"column:scanned_at" json:"scanned_at"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (QRToken) TableName() string { return "qr_tokens" }

func (t *QRToken) IsExpired(now time.Time) bool {
	return expiry.IsExpired(t.ExpiresAt, now)
}

// IsValidForScanning recomputes validity at read time; the stored status may
// lag behind the clock until the cleanup sweep relabels it.
func (t *QRToken) IsValidForScanning(now time.Time) bool {
	return t.Status == StatusActive && !t.IsExpired(now)
}

// TimeRemaining returns whole seconds until expiry, floored at zero.
func (t *QRToken) TimeRemaining(now time.Time) int64 {
	if t.IsExpired(now) {
		return 0
	}
	return int64(t.ExpiresAt.Sub(now).Seconds())
}

// InvalidReason distinguishes why a token cannot be scanned without mutating
// it: expired wins over status so a stale-but-past-due row reads as expired.
func (t *QRToken) InvalidReason(now time.Time) error {
	if t.IsExpired(now) {
		return ErrTokenExpired
	}
	if t.Status != StatusActive {
		return ErrTokenNotActive
	}
	return nil
}
