package application

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("loan application not found")
	ErrImmutableState = errors.New("application is no longer editable")
	ErrInvalidState   = errors.New("operation not allowed in current application status")
	ErrNotEligible    = errors.New("application does not meet eligibility requirements")
)

type Status string

const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusWithdrawn   Status = "withdrawn"
	StatusCompleted   Status = "completed"
)

type Stage string

const (
	StagePersonalInfo Stage = "personal_info"
	StageEmployment   Stage = "employment"
	StageFinancial    Stage = "financial"
	StageGuarantors   Stage = "guarantors"
	StageDocuments    Stage = "documents"
	StageReview       Stage = "review"
)

// stageOrder fixes the forward-only stage sequence.
var stageOrder = []Stage{
	StagePersonalInfo,
	StageEmployment,
	StageFinancial,
	StageGuarantors,
	StageDocuments,
	StageReview,
}

// NextStage returns the stage after s, or s itself when already at the
// terminal review stage (advancing past review is an idempotent no-op).
func NextStage(s Stage) Stage {
	for i, st := range stageOrder {
		if st == s {
			if i == len(stageOrder)-1 {
				return s
			}
			return stageOrder[i+1]
		}
	}
	return s
}

// StageIndex returns the position of s in the fixed sequence, or -1.
func StageIndex(s Stage) int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

type LoanApplication struct {
	ID            uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ApplicationID string `gorm:"column:application_id;type:char(32);not null;uniqueIndex" json:"application_id"`
	UserID        uint64 `gorm:"column:user_id;not null;index" json:"user_id"`
	LoanTypeID    uint64 `gorm:"column:loan_type_id;not null;index" json:"loan_type_id"`

	RequestedAmount float64 `gorm:"column:requested_amount;type:decimal(18,2)" json:"requested_amount"`
	RequestedTenure int     `gorm:"column:requested_tenure" json:"requested_tenure"`
	LoanPurpose     string  `gorm:"column:loan_purpose;size:500" json:"loan_purpose"`

	EmploymentStatus    string     `gorm:"column:employment_status;size:30" json:"employment_status"`
	EmployerName        string     `gorm:"column:employer_name;size:255" json:"employer_name"`
	JobTitle            string     `gorm:"column:job_title;size:255" json:"job_title"`
	EmploymentStartDate *time.Time `gorm:"column:employment_start_date" json:"employment_start_date"`
	MonthlySalary       float64    `gorm:"column:monthly_salary;type:decimal(18,2)" json:"monthly_salary"`
	MonthlyExpenses     float64    `gorm:"column:monthly_expenses;type:decimal(18,2)" json:"monthly_expenses"`
	ExistingLoans       int        `gorm:"column:existing_loans" json:"existing_loans"`
	ExistingLoanBalance float64    `gorm:"column:existing_loan_balance;type:decimal(18,2)" json:"existing_loan_balance"`
	SavingsBalance      float64    `gorm:"column:savings_balance;type:decimal(18,2)" json:"savings_balance"`
	BusinessRevenue     float64    `gorm:"column:business_revenue;type:decimal(18,2)" json:"business_revenue"`

	Status          Status     `gorm:"column:status;size:20;default:'draft'" json:"status"`
	Stage           Stage      `gorm:"column:stage;size:20;default:'personal_info'" json:"stage"`
	RejectionReason string     `gorm:"column:rejection_reason;size:500" json:"rejection_reason,omitempty"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approved_at"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (LoanApplication) TableName() string { return "loan_applications" }

func (a *LoanApplication) IsDraft() bool { return a.Status == StatusDraft }

// DebtToIncome returns existing loan balance over monthly salary. A zero or
// negative salary yields 0 so the ratio check is skipped rather than
// dividing by zero.
func (a *LoanApplication) DebtToIncome() float64 {
	if a.MonthlySalary <= 0 {
		return 0
	}
	return a.ExistingLoanBalance / a.MonthlySalary
}
