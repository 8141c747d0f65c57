package loan

import (
	"time"

	domain "coopvest-backend/internal/domain/loan"
)

type ApplyInput struct {
	LoanTypeID uint64  `json:"loan_type_id"`
	Amount     float64 `json:"amount"`
	Tenure     int     `json:"tenure"`
	Purpose    string  `json:"purpose"`
}

type LoanDTO struct {
	LoanID             string        `json:"loan_id"`
	UserID             uint64        `json:"user_id"`
	LoanTypeID         uint64        `json:"loan_type_id"`
	Amount             float64       `json:"amount"`
	InterestRate       float64       `json:"interest_rate"`
	Tenure             int           `json:"tenure"`
	Purpose            string        `json:"purpose"`
	Status             domain.Status `json:"status"`
	StatusLabel        string        `json:"status_label"`
	MonthlyPayment     float64       `json:"monthly_payment"`
	OutstandingBalance float64       `json:"outstanding_balance"`
	TotalPaid          float64       `json:"total_paid"`
	NextPaymentDate    *time.Time    `json:"next_payment_date,omitempty"`
	DisbursedAt        *time.Time    `json:"disbursed_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:             l.LoanID,
		UserID:             l.UserID,
		LoanTypeID:         l.LoanTypeID,
		Amount:             l.Amount,
		InterestRate:       l.InterestRate,
		Tenure:             l.Tenure,
		Purpose:            l.LoanPurpose,
		Status:             l.Status,
		StatusLabel:        domain.StatusLabel(l.Status),
		MonthlyPayment:     l.MonthlyPayment,
		OutstandingBalance: l.OutstandingBalance,
		TotalPaid:          l.TotalPaid,
		NextPaymentDate:    l.NextPaymentDate,
		DisbursedAt:        l.DisbursedAt,
		CreatedAt:          l.CreatedAt,
	}
}

type PaymentDTO struct {
	ID          uint64    `json:"id"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
}

type TransactionDTO struct {
	ID          uint64                 `json:"id"`
	Type        domain.TransactionType `json:"type"`
	Amount      float64                `json:"amount"`
	Description string                 `json:"description"`
	Status      string                 `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
}
