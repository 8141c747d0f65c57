package loantype

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "coopvest-backend/internal/domain/loantype"
)

// defaultProducts are the Coopvest catalog products. Seeding is idempotent:
// existing keys are left untouched.
var defaultProducts = []domain.LoanType{
	{
		Key:                     "quick_loan",
		Name:                    "Quick Loan",
		Description:             "Fast approval for short-term urgent needs",
		MinimumAmount:           1000,
		MaximumAmount:           10000,
		InterestRate:            7.5,
		DurationMonths:          4,
		ProcessingFeePercentage: 2.5,
		RequiresGuarantor:       false,
		MaxRolloverTimes:        1,
		IsActive:                true,
	},
	{
		Key:                     "flexi_loan",
		Name:                    "Flexi Loan",
		Description:             "Flexible loan with moderate terms and rates",
		MinimumAmount:           2000,
		MaximumAmount:           25000,
		InterestRate:            7.0,
		DurationMonths:          6,
		ProcessingFeePercentage: 2.0,
		RequiresGuarantor:       false,
		MaxRolloverTimes:        2,
		IsActive:                true,
	},
	{
		Key:                     "stable_loan_12",
		Name:                    "Stable Loan (12 months)",
		Description:             "Standard 12-month loan with low interest rates",
		MinimumAmount:           5000,
		MaximumAmount:           50000,
		InterestRate:            5.0,
		DurationMonths:          12,
		ProcessingFeePercentage: 1.5,
		RequiresGuarantor:       false,
		MaxRolloverTimes:        1,
		IsActive:                true,
	},
	{
		Key:                     "stable_loan_18",
		Name:                    "Stable Loan (18 months)",
		Description:             "Extended 18-month loan for larger amounts",
		MinimumAmount:           10000,
		MaximumAmount:           75000,
		InterestRate:            7.0,
		DurationMonths:          18,
		ProcessingFeePercentage: 2.0,
		RequiresGuarantor:       true,
		RequiredGuarantorCount:  1,
		MaxRolloverTimes:        1,
		IsActive:                true,
	},
	{
		Key:                     "premium_loan",
		Name:                    "Premium Loan",
		Description:             "Premium loan for established members with good credit",
		MinimumAmount:           20000,
		MaximumAmount:           100000,
		InterestRate:            6.0,
		DurationMonths:          24,
		ProcessingFeePercentage: 1.5,
		RequiresGuarantor:       true,
		RequiredGuarantorCount:  2,
		MinimumEmploymentMonths: 12,
		MinimumSalary:           5000,
		MaxRolloverTimes:        0,
		IsActive:                true,
	},
}

// Seed inserts the default product catalog, skipping keys that already exist.
func (u *Usecase) Seed(ctx context.Context) error {
	for i := range defaultProducts {
		p := defaultProducts[i]
		_, err := u.repo.GetByKey(ctx, p.Key)
		switch {
		case err == nil:
			continue
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := u.repo.Create(ctx, &p); err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}
