package qr

import (
	"encoding/json"
	"time"

	domain "coopvest-backend/internal/domain/qrtoken"
)

type GenerateInput struct {
	DurationMinutes int `json:"duration_minutes"`
}

// TokenDTO is the listing/status view of a token. The secret value is absent;
// it only ever travels in GenerateResult.
type TokenDTO struct {
	ID            uint64        `json:"id"`
	LoanID        uint64        `json:"loan_id"`
	Status        domain.Status `json:"status"`
	StatusLabel   string        `json:"status_label"`
	CreatedBy     uint64        `json:"created_by"`
	ScannedBy     *uint64       `json:"scanned_by,omitempty"`
	ScannedAt     *time.Time    `json:"scanned_at,omitempty"`
	ExpiresAt     time.Time     `json:"expires_at"`
	TimeRemaining int64         `json:"time_remaining_seconds"`
	CreatedAt     time.Time     `json:"created_at"`
}

func toDTO(t *domain.QRToken, now time.Time) TokenDTO {
	return TokenDTO{
		ID:            t.ID,
		LoanID:        t.LoanID,
		Status:        t.Status,
		StatusLabel:   domain.StatusLabel(t.Status),
		CreatedBy:     t.CreatedBy,
		ScannedBy:     t.ScannedBy,
		ScannedAt:     t.ScannedAt,
		ExpiresAt:     t.ExpiresAt,
		TimeRemaining: t.TimeRemaining(now),
		CreatedAt:     t.CreatedAt,
	}
}

// GenerateResult carries the bearer value and the data to render into the QR
// image. Returned exactly once at creation.
type GenerateResult struct {
	TokenDTO
	Token  string          `json:"token"`
	QRData json.RawMessage `json:"qr_data"`
}

// ValidateResult is what the scanner sees after a successful consume: the
// frozen loan snapshot plus their updated guarantor standing.
type ValidateResult struct {
	TokenID            uint64          `json:"token_id"`
	LoanPublicID       string          `json:"loan_id"`
	QRData             json.RawMessage `json:"qr_data"`
	GuarantorID        uint64          `json:"guarantor_id"`
	VerificationStatus string          `json:"verification_status"`
	ScannedAt          time.Time       `json:"scanned_at"`
}

// StatusResult reports validity without consuming the token.
type StatusResult struct {
	TokenDTO
	Valid         bool   `json:"valid"`
	InvalidReason string `json:"invalid_reason,omitempty"`
}
