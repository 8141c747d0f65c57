package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound                   = errors.New("loan not found")
	ErrInvalidTransition          = errors.New("invalid loan state transition")
	ErrAlreadyApproved            = errors.New("loan already approved")
	ErrAlreadyDisbursed           = errors.New("loan already disbursed")
	ErrNotActive                  = errors.New("loan is not active")
	ErrGuarantorRequirementNotMet = errors.New("loan guarantor requirement not met")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
	StatusSuspended Status = "suspended"
)

// StatusLabel maps each status to its display label. Exhaustive on purpose:
// adding a status without a label is a compile-visible gap here, not a
// scattered string match.
func StatusLabel(s Status) string {
	switch s {
	case StatusPending:
		return "Pending Approval"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusActive:
		return "Active"
	case StatusCompleted:
		return "Completed"
	case StatusDefaulted:
		return "Defaulted"
	case StatusSuspended:
		return "Suspended"
	}
	return string(s)
}

// StatusBadgeColor maps each status to a frontend badge color.
func StatusBadgeColor(s Status) string {
	switch s {
	case StatusPending:
		return "warning"
	case StatusApproved, StatusActive:
		return "success"
	case StatusRejected, StatusDefaulted:
		return "danger"
	case StatusCompleted:
		return "info"
	case StatusSuspended:
		return "secondary"
	}
	return "secondary"
}

type Loan struct {
	ID         uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID     string `gorm:"column:loan_id;type:char(32);not null;uniqueIndex" json:"loan_id"`
	UserID     uint64 `gorm:"column:user_id;not null;index" json:"user_id"`
	LoanTypeID uint64 `gorm:"column:loan_type_id;not null;index" json:"loan_type_id"`

	Amount         float64 `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	InterestRate   float64 `gorm:"column:interest_rate;type:decimal(6,2)" json:"interest_rate"`
	Tenure         int     `gorm:"column:tenure" json:"tenure"`
	LoanPurpose    string  `gorm:"column:loan_purpose;size:500" json:"loan_purpose"`
	MonthlyPayment float64 `gorm:"column:monthly_payment;type:decimal(18,2)" json:"monthly_payment"`

	Status          Status `gorm:"column:status;size:20;default:'pending'" json:"status"`
	RejectionReason string `gorm:"column:rejection_reason;size:500" json:"rejection_reason,omitempty"`

	OutstandingBalance float64 `gorm:"column:outstanding_balance;type:decimal(18,2)" json:"outstanding_balance"`
	TotalPaid          float64 `gorm:"column:total_paid;type:decimal(18,2)" json:"total_paid"`
	PaymentsMade       int     `gorm:"column:payments_made" json:"payments_made"`
	MissedPayments     int     `gorm:"column:missed_payments" json:"missed_payments"`

	ApprovedBy      *uint64    `gorm:"column:approved_by" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approved_at"`
	DisbursedAt     *time.Time `gorm:"column:disbursed_at" json:"disbursed_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at"`
	NextPaymentDate *time.Time `gorm:"column:next_payment_date" json:"next_payment_date"`
	LastPaymentDate *time.Time `gorm:"column:last_payment_date" json:"last_payment_date"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

func (l *Loan) IsPending() bool   { return l.Status == StatusPending }
func (l *Loan) IsApproved() bool  { return l.Status == StatusApproved }
func (l *Loan) IsActive() bool    { return l.Status == StatusActive }
func (l *Loan) IsCompleted() bool { return l.Status == StatusCompleted }

// TotalInterest computes flat interest over the loan's tenure.
func (l *Loan) TotalInterest() float64 {
	return (l.Amount * l.InterestRate * float64(l.Tenure)) / 100 / 12
}

// LoanPayment is an immutable ledger entry, appended by the payment ledger
// and never mutated afterwards.
type LoanPayment struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanID      uint64    `gorm:"column:loan_id;not null;index" json:"loan_id"`
	Amount      float64   `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	PaymentDate time.Time `gorm:"column:payment_date" json:"payment_date"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (LoanPayment) TableName() string { return "loan_payments" }

type TransactionType string

const (
	TxnLoanDisbursement TransactionType = "loan_disbursement"
	TxnLoanPayment      TransactionType = "loan_payment"
)

// Transaction is the ledger record written alongside disbursements and
// repayments.
type Transaction struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID      uint64          `gorm:"column:user_id;not null;index" json:"user_id"`
	LoanID      uint64          `gorm:"column:loan_id;not null;index" json:"loan_id"`
	Type        TransactionType `gorm:"column:type;size:30" json:"type"`
	Amount      float64         `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	Description string          `gorm:"column:description;size:255" json:"description"`
	Status      string          `gorm:"column:status;size:20;default:'completed'" json:"status"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }
