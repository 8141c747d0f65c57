package application

import (
	"time"

	domain "coopvest-backend/internal/domain/application"
)

type CreateInput struct {
	LoanTypeID          uint64     `json:"loan_type_id"`
	RequestedAmount     float64    `json:"requested_amount"`
	RequestedTenure     int        `json:"requested_tenure"`
	LoanPurpose         string     `json:"loan_purpose"`
	EmploymentStatus    string     `json:"employment_status"`
	EmployerName        string     `json:"employer_name"`
	JobTitle            string     `json:"job_title"`
	EmploymentStartDate *time.Time `json:"employment_start_date"`
	MonthlySalary       float64    `json:"monthly_salary"`
	MonthlyExpenses     float64    `json:"monthly_expenses"`
	ExistingLoans       int        `json:"existing_loans"`
	ExistingLoanBalance float64    `json:"existing_loan_balance"`
	SavingsBalance      float64    `json:"savings_balance"`
	BusinessRevenue     float64    `json:"business_revenue"`
}

// UpdateInput carries optional field updates for a draft application.
type UpdateInput struct {
	RequestedAmount     *float64   `json:"requested_amount"`
	RequestedTenure     *int       `json:"requested_tenure"`
	LoanPurpose         *string    `json:"loan_purpose"`
	EmploymentStatus    *string    `json:"employment_status"`
	EmployerName        *string    `json:"employer_name"`
	JobTitle            *string    `json:"job_title"`
	EmploymentStartDate *time.Time `json:"employment_start_date"`
	MonthlySalary       *float64   `json:"monthly_salary"`
	MonthlyExpenses     *float64   `json:"monthly_expenses"`
	ExistingLoans       *int       `json:"existing_loans"`
	ExistingLoanBalance *float64   `json:"existing_loan_balance"`
	SavingsBalance      *float64   `json:"savings_balance"`
	BusinessRevenue     *float64   `json:"business_revenue"`
}

type ApplicationDTO struct {
	ApplicationID   string        `json:"application_id"`
	UserID          uint64        `json:"user_id"`
	LoanTypeID      uint64        `json:"loan_type_id"`
	RequestedAmount float64       `json:"requested_amount"`
	RequestedTenure int           `json:"requested_tenure"`
	LoanPurpose     string        `json:"loan_purpose"`
	Status          domain.Status `json:"status"`
	Stage           domain.Stage  `json:"stage"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	SubmittedAt     *time.Time    `json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`
	ApprovedAt      *time.Time    `json:"approved_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

func toDTO(a *domain.LoanApplication) *ApplicationDTO {
	return &ApplicationDTO{
		ApplicationID:   a.ApplicationID,
		UserID:          a.UserID,
		LoanTypeID:      a.LoanTypeID,
		RequestedAmount: a.RequestedAmount,
		RequestedTenure: a.RequestedTenure,
		LoanPurpose:     a.LoanPurpose,
		Status:          a.Status,
		Stage:           a.Stage,
		RejectionReason: a.RejectionReason,
		SubmittedAt:     a.SubmittedAt,
		ReviewedAt:      a.ReviewedAt,
		ApprovedAt:      a.ApprovedAt,
		CreatedAt:       a.CreatedAt,
	}
}
