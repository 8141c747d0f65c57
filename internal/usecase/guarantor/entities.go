package guarantor

import (
	"time"

	domain "coopvest-backend/internal/domain/guarantor"
)

type InviteInput struct {
	GuarantorEmail  string              `json:"guarantor_email"`
	Relationship    domain.Relationship `json:"relationship"`
	LiabilityAmount *float64            `json:"liability_amount"`
}

// InviteResult carries the secret token and link exactly once, at creation.
// Subsequent reads only ever see the GuarantorDTO.
type InviteResult struct {
	Guarantor      GuarantorDTO `json:"guarantor"`
	InvitationLink string       `json:"invitation_link"`
	Token          string       `json:"token"`
	ExpiresAt      time.Time    `json:"expires_at"`
}

type GuarantorDTO struct {
	ID                      uint64                    `json:"id"`
	LoanID                  uint64                    `json:"loan_id"`
	GuarantorUserID         *uint64                   `json:"guarantor_user_id"`
	Relationship            domain.Relationship       `json:"relationship"`
	RelationshipLabel       string                    `json:"relationship_label"`
	VerificationStatus      domain.VerificationStatus `json:"verification_status"`
	VerificationStatusLabel string                    `json:"verification_status_label"`
	VerificationBadgeColor  string                    `json:"verification_badge_color"`
	ConfirmationStatus      domain.ConfirmationStatus `json:"confirmation_status"`
	ConfirmationStatusLabel string                    `json:"confirmation_status_label"`
	ConfirmationBadgeColor  string                    `json:"confirmation_badge_color"`
	IsActive                bool                      `json:"is_active"`
	LiabilityAmount         float64                   `json:"liability_amount"`
	InvitationSentAt        *time.Time                `json:"invitation_sent_at,omitempty"`
	InvitationAcceptedAt    *time.Time                `json:"invitation_accepted_at,omitempty"`
	QRCodeExpiresAt         *time.Time                `json:"qr_code_expires_at,omitempty"`
	CreatedAt               time.Time                 `json:"created_at"`
}

func toDTO(g *domain.Guarantor) GuarantorDTO {
	return GuarantorDTO{
		ID:                      g.ID,
		LoanID:                  g.LoanID,
		GuarantorUserID:         g.GuarantorUserID,
		Relationship:            g.Relationship,
		RelationshipLabel:       domain.RelationshipLabel(g.Relationship),
		VerificationStatus:      g.VerificationStatus,
		VerificationStatusLabel: domain.VerificationStatusLabel(g.VerificationStatus),
		VerificationBadgeColor:  domain.VerificationBadgeColor(g.VerificationStatus),
		ConfirmationStatus:      g.ConfirmationStatus,
		ConfirmationStatusLabel: domain.ConfirmationStatusLabel(g.ConfirmationStatus),
		ConfirmationBadgeColor:  domain.ConfirmationBadgeColor(g.ConfirmationStatus),
		IsActive:                g.IsActive(),
		LiabilityAmount:         g.LiabilityAmount,
		InvitationSentAt:        g.InvitationSentAt,
		InvitationAcceptedAt:    g.InvitationAcceptedAt,
		QRCodeExpiresAt:         g.QRCodeExpiresAt,
		CreatedAt:               g.CreatedAt,
	}
}

// InvitationDTO is what an invitee sees in their pending-requests inbox.
// The invitation token is a bearer secret delivered once at creation; it
// never rides along in listings, so responding goes through the link the
// invitee already holds.
type InvitationDTO struct {
	ID           uint64              `json:"id"`
	LoanPublicID string              `json:"loan_id"`
	LoanAmount   float64             `json:"loan_amount"`
	LoanPurpose  string              `json:"loan_purpose"`
	BorrowerID   uint64              `json:"borrower_id"`
	Relationship domain.Relationship `json:"relationship"`
	SentAt       *time.Time          `json:"sent_at,omitempty"`
	ExpiresAt    time.Time           `json:"expires_at"`
}

// ObligationDTO is a guarantor row joined with a summary of its loan,
// returned from the my-obligations listing.
type ObligationDTO struct {
	Guarantor      GuarantorDTO `json:"guarantor"`
	LoanPublicID   string       `json:"loan_public_id"`
	LoanAmount     float64      `json:"loan_amount"`
	LoanTenure     int          `json:"loan_tenure"`
	LoanStatus     string       `json:"loan_status"`
	CurrentBalance float64      `json:"current_balance"`
}
