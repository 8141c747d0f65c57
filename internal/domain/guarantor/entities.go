package guarantor

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"coopvest-backend/pkg/expiry"
)

var (
	ErrNotFound             = errors.New("guarantor not found")
	ErrInvitationNotFound   = errors.New("guarantor invitation not found")
	ErrDuplicateInvitation  = errors.New("pending invitation already exists for this email")
	ErrAlreadyResponded     = errors.New("invitation has already been responded to")
	ErrNotLoanGuarantor     = errors.New("user is not a guarantor for this loan")
	ErrRejectionNeedsReason = errors.New("guarantor rejection requires a reason")
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
	VerificationExpired  VerificationStatus = "expired"
)

type ConfirmationStatus string

const (
	ConfirmationPending  ConfirmationStatus = "pending"
	ConfirmationAccepted ConfirmationStatus = "accepted"
	ConfirmationDeclined ConfirmationStatus = "declined"
	ConfirmationRevoked  ConfirmationStatus = "revoked"
)

type Relationship string

const (
	RelationshipFriend          Relationship = "friend"
	RelationshipFamily          Relationship = "family"
	RelationshipColleague       Relationship = "colleague"
	RelationshipBusinessPartner Relationship = "business_partner"
)

func ValidRelationship(r Relationship) bool {
	switch r {
	case RelationshipFriend, RelationshipFamily, RelationshipColleague, RelationshipBusinessPartner:
		return true
	}
	return false
}

func RelationshipLabel(r Relationship) string {
	switch r {
	case RelationshipFriend:
		return "Friend"
	case RelationshipFamily:
		return "Family Member"
	case RelationshipColleague:
		return "Colleague"
	case RelationshipBusinessPartner:
		return "Business Partner"
	}
	return string(r)
}

func VerificationStatusLabel(s VerificationStatus) string {
	switch s {
	case VerificationPending:
		return "Pending Review"
	case VerificationVerified:
		return "Verified"
	case VerificationRejected:
		return "Rejected"
	case VerificationExpired:
		return "Verification Expired"
	}
	return string(s)
}

func VerificationBadgeColor(s VerificationStatus) string {
	switch s {
	case VerificationVerified:
		return "success"
	case VerificationRejected:
		return "danger"
	case VerificationExpired:
		return "warning"
	case VerificationPending:
		return "info"
	}
	return "secondary"
}

func ConfirmationStatusLabel(s ConfirmationStatus) string {
	switch s {
	case ConfirmationPending:
		return "Awaiting Response"
	case ConfirmationAccepted:
		return "Accepted"
	case ConfirmationDeclined:
		return "Declined"
	case ConfirmationRevoked:
		return "Revoked"
	}
	return string(s)
}

func ConfirmationBadgeColor(s ConfirmationStatus) string {
	switch s {
	case ConfirmationAccepted:
		return "success"
	case ConfirmationDeclined:
		return "danger"
	case ConfirmationPending:
		return "warning"
	case ConfirmationRevoked:
		return "secondary"
	}
	return "info"
}

// Guarantor is one row per (loan, prospective guarantor). It starts as a
// placeholder created together with the invitation; the user identity is
// bound on acceptance.
type Guarantor struct {
	ID              uint64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanID          uint64       `gorm:"column:loan_id;not null;index" json:"loan_id"`
	GuarantorUserID *uint64      `gorm:"column:guarantor_user_id;index" json:"guarantor_user_id"`
	Relationship    Relationship `gorm:"column:relationship;size:30" json:"relationship"`

	VerificationStatus VerificationStatus `gorm:"column:verification_status;size:20;default:'pending'" json:"verification_status"`
	ConfirmationStatus ConfirmationStatus `gorm:"column:confirmation_status;size:20;default:'pending'" json:"confirmation_status"`
	RejectionReason    string             `gorm:"column:rejection_reason;size:500" json:"rejection_reason,omitempty"`

	// QRCodeToken is a secret bearer value shared with the paired invitation.
	// Never exposed in listing responses.
	QRCodeToken     *string    `gorm:"column:qr_code_token;size:64;uniqueIndex" json:"-"`
	QRCodeExpiresAt *time.Time `gorm:"column:qr_code_expires_at" json:"qr_code_expires_at"`

	InvitationSentAt     *time.Time `gorm:"column:invitation_sent_at" json:"invitation_sent_at"`
	InvitationAcceptedAt *time.Time `gorm:"column:invitation_accepted_at" json:"invitation_accepted_at"`
	InvitationDeclinedAt *time.Time `gorm:"column:invitation_declined_at" json:"invitation_declined_at"`
	VerifiedAt           *time.Time `gorm:"column:verified_at" json:"verified_at"`

	LiabilityAmount float64 `gorm:"column:liability_amount;type:decimal(18,2)" json:"liability_amount"`
	Notes           string  `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Guarantor) TableName() string { return "guarantors" }

func (g *Guarantor) IsConfirmed() bool { return g.ConfirmationStatus == ConfirmationAccepted }
func (g *Guarantor) IsVerified() bool  { return g.VerificationStatus == VerificationVerified }

// IsActive reports whether the guarantor counts toward the loan's
// requirement: accepted AND verified.
func (g *Guarantor) IsActive() bool { return g.IsConfirmed() && g.IsVerified() }

func (g *Guarantor) QRCodeValid(now time.Time) bool {
	if g.QRCodeExpiresAt == nil {
		return false
	}
	return !expiry.IsExpired(*g.QRCodeExpiresAt, now)
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation is the append-mostly record of an email-addressed invite.
// It shares its token with the paired Guarantor row but evolves
// independently of it.
type Invitation struct {
	ID             uint64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanID         uint64           `gorm:"column:loan_id;not null;index" json:"loan_id"`
	GuarantorEmail string           `gorm:"column:guarantor_email;size:255;index" json:"guarantor_email"`
	InvitationToken string          `gorm:"column:invitation_token;size:64;uniqueIndex" json:"-"`
	InvitationLink  string          `gorm:"column:invitation_link;size:500" json:"-"`
	Status         InvitationStatus `gorm:"column:status;size:20;default:'pending'" json:"status"`
	SentAt         *time.Time       `gorm:"column:sent_at" json:"sent_at"`
	AcceptedAt     *time.Time       `gorm:"column:accepted_at" json:"accepted_at"`
	DeclinedAt     *time.Time       `gorm:"column:declined_at" json:"declined_at"`
	ExpiresAt      time.Time        `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"column:deleted_at;index" json:"-"`
}

func (Invitation) TableName() string { return "guarantor_invitations" }

func (i *Invitation) IsExpired(now time.Time) bool {
	return expiry.IsExpired(i.ExpiresAt, now)
}

func (i *Invitation) IsValid(now time.Time) bool {
	return i.Status == InvitationPending && !i.IsExpired(now)
}

func InvitationStatusLabel(s InvitationStatus) string {
	switch s {
	case InvitationPending:
		return "Pending"
	case InvitationAccepted:
		return "Accepted"
	case InvitationDeclined:
		return "Declined"
	case InvitationExpired:
		return "Expired"
	}
	return string(s)
}
