package loantype

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("loan type not found")

// LoanType is an immutable product definition. Rows are only ever
// soft-deleted because loans and applications keep referencing them by id.
type LoanType struct {
	ID                      uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Key                     string         `gorm:"column:key;size:50;uniqueIndex" json:"key"`
	Name                    string         `gorm:"column:name;size:100" json:"name"`
	Description             string         `gorm:"column:description;type:text" json:"description"`
	MinimumAmount           float64        `gorm:"column:minimum_amount;type:decimal(18,2)" json:"minimum_amount"`
	MaximumAmount           float64        `gorm:"column:maximum_amount;type:decimal(18,2)" json:"maximum_amount"`
	InterestRate            float64        `gorm:"column:interest_rate;type:decimal(6,2)" json:"interest_rate"`
	DurationMonths          int            `gorm:"column:duration_months" json:"duration_months"`
	ProcessingFeePercentage float64        `gorm:"column:processing_fee_percentage;type:decimal(6,2)" json:"processing_fee_percentage"`
	RequiresGuarantor       bool           `gorm:"column:requires_guarantor;default:false" json:"requires_guarantor"`
	RequiredGuarantorCount  int            `gorm:"column:required_guarantor_count;default:0" json:"required_guarantor_count"`
	MinimumEmploymentMonths int            `gorm:"column:minimum_employment_months" json:"minimum_employment_months"`
	MinimumSalary           float64        `gorm:"column:minimum_salary;type:decimal(18,2)" json:"minimum_salary"`
	MaxRolloverTimes        int            `gorm:"column:max_rollover_times" json:"max_rollover_times"`
	IsActive                bool           `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt               time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (LoanType) TableName() string { return "loan_types" }

// AmountInRange reports whether amount falls within [minimum, maximum].
func (t *LoanType) AmountInRange(amount float64) bool {
	return amount >= t.MinimumAmount && amount <= t.MaximumAmount
}

// ApplicantProfile is the caller-supplied snapshot evaluated by eligibility.
type ApplicantProfile struct {
	MonthlySalary  float64
	MonthsEmployed int
}

// IsUserEligible evaluates the product's salary and employment thresholds
// against the supplied profile. Pure; a zero threshold disables its check.
func (t *LoanType) IsUserEligible(p ApplicantProfile) bool {
	if t.MinimumSalary > 0 && p.MonthlySalary < t.MinimumSalary {
		return false
	}
	if t.MinimumEmploymentMonths > 0 && p.MonthsEmployed < t.MinimumEmploymentMonths {
		return false
	}
	return true
}

// TotalInterest computes flat interest for an amount borrowed over months at
// this product's annual rate (percent).
func (t *LoanType) TotalInterest(amount float64, months int) float64 {
	return (amount * t.InterestRate * float64(months)) / 100 / 12
}

// MonthlyPayment computes the level monthly installment for an amount over months.
func (t *LoanType) MonthlyPayment(amount float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	return (amount + t.TotalInterest(amount, months)) / float64(months)
}
