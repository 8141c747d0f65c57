package loantype

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "coopvest-backend/internal/domain/loantype"
)

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

func (u *Usecase) Get(ctx context.Context, id uint64) (*domain.LoanType, error) {
	t, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (u *Usecase) ListActive(ctx context.Context) ([]domain.LoanType, error) {
	return u.repo.ListActive(ctx)
}

// IsUserEligible evaluates the product thresholds against a caller-supplied
// profile. No side effects.
func (u *Usecase) IsUserEligible(ctx context.Context, id uint64, p domain.ApplicantProfile) (bool, error) {
	t, err := u.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return t.IsUserEligible(p), nil
}

type UpsertInput struct {
	Key                     string  `json:"key"`
	Name                    string  `json:"name"`
	Description             string  `json:"description"`
	MinimumAmount           float64 `json:"minimum_amount"`
	MaximumAmount           float64 `json:"maximum_amount"`
	InterestRate            float64 `json:"interest_rate"`
	DurationMonths          int     `json:"duration_months"`
	ProcessingFeePercentage float64 `json:"processing_fee_percentage"`
	RequiresGuarantor       bool    `json:"requires_guarantor"`
	RequiredGuarantorCount  int     `json:"required_guarantor_count"`
	MinimumEmploymentMonths int     `json:"minimum_employment_months"`
	MinimumSalary           float64 `json:"minimum_salary"`
	MaxRolloverTimes        int     `json:"max_rollover_times"`
}

var errInvalidRange = errors.New("minimum_amount must be positive and not exceed maximum_amount")

func (in UpsertInput) validate() error {
	if in.MinimumAmount < 0 || in.MaximumAmount < in.MinimumAmount {
		return errInvalidRange
	}
	return nil
}

// requiredCount derives the guarantor count: a product that requires
// guarantors defaults to one unless configured higher.
func (in UpsertInput) requiredCount() int {
	if !in.RequiresGuarantor {
		return 0
	}
	if in.RequiredGuarantorCount > 0 {
		return in.RequiredGuarantorCount
	}
	return 1
}

func (u *Usecase) Create(ctx context.Context, in UpsertInput) (*domain.LoanType, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t := &domain.LoanType{
		Key:                     in.Key,
		Name:                    in.Name,
		Description:             in.Description,
		MinimumAmount:           in.MinimumAmount,
		MaximumAmount:           in.MaximumAmount,
		InterestRate:            in.InterestRate,
		DurationMonths:          in.DurationMonths,
		ProcessingFeePercentage: in.ProcessingFeePercentage,
		RequiresGuarantor:       in.RequiresGuarantor,
		RequiredGuarantorCount:  in.requiredCount(),
		MinimumEmploymentMonths: in.MinimumEmploymentMonths,
		MinimumSalary:           in.MinimumSalary,
		MaxRolloverTimes:        in.MaxRolloverTimes,
		IsActive:                true,
	}
	if err := u.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (u *Usecase) Update(ctx context.Context, id uint64, in UpsertInput) (*domain.LoanType, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = in.Name
	t.Description = in.Description
	t.MinimumAmount = in.MinimumAmount
	t.MaximumAmount = in.MaximumAmount
	t.InterestRate = in.InterestRate
	t.DurationMonths = in.DurationMonths
	t.ProcessingFeePercentage = in.ProcessingFeePercentage
	t.RequiresGuarantor = in.RequiresGuarantor
	t.RequiredGuarantorCount = in.requiredCount()
	t.MinimumEmploymentMonths = in.MinimumEmploymentMonths
	t.MinimumSalary = in.MinimumSalary
	t.MaxRolloverTimes = in.MaxRolloverTimes
	if err := u.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Retire soft-deletes a product; loans referencing it stay intact.
func (u *Usecase) Retire(ctx context.Context, id uint64) error {
	if _, err := u.Get(ctx, id); err != nil {
		return err
	}
	return u.repo.SoftDelete(ctx, id)
}
