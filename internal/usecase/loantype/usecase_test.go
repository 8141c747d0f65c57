package loantype

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	domain "coopvest-backend/internal/domain/loantype"
	"coopvest-backend/internal/testutil/loantypemock"
)

func TestUsecase_Create_GuarantorCountDefaults(t *testing.T) {
	tests := []struct {
		name      string
		in        UpsertInput
		wantCount int
		wantErr   error
	}{
		{
			name:      "requires_guarantor defaults count to one",
			in:        UpsertInput{Key: "k", MinimumAmount: 100, MaximumAmount: 200, RequiresGuarantor: true},
			wantCount: 1,
		},
		{
			name:      "explicit count kept",
			in:        UpsertInput{Key: "k", MinimumAmount: 100, MaximumAmount: 200, RequiresGuarantor: true, RequiredGuarantorCount: 2},
			wantCount: 2,
		},
		{
			name:      "no guarantor means zero even with stray count",
			in:        UpsertInput{Key: "k", MinimumAmount: 100, MaximumAmount: 200, RequiredGuarantorCount: 3},
			wantCount: 0,
		},
		{
			name:    "inverted range",
			in:      UpsertInput{Key: "k", MinimumAmount: 500, MaximumAmount: 100},
			wantErr: errInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *domain.LoanType
			repo := &loantypemock.Repo{
				CreateFn: func(ctx context.Context, lt *domain.LoanType) error {
					created = lt
					return nil
				},
			}
			u := NewUsecase(repo)

			got, err := u.Create(context.Background(), tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if created == nil || !created.IsActive {
				t.Fatalf("new product must start active")
			}
			if got.RequiredGuarantorCount != tt.wantCount {
				t.Fatalf("guarantor count %d, want %d", got.RequiredGuarantorCount, tt.wantCount)
			}
		})
	}
}

func TestUsecase_Get_NotFound(t *testing.T) {
	repo := &loantypemock.Repo{
		GetByIDFn: func(context.Context, uint64) (*domain.LoanType, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	u := NewUsecase(repo)
	if _, err := u.Get(context.Background(), 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUsecase_IsUserEligible(t *testing.T) {
	product := &domain.LoanType{
		ID:                      5,
		MinimumSalary:           5000,
		MinimumEmploymentMonths: 12,
		IsActive:                true,
	}
	repo := &loantypemock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.LoanType, error) {
			return product, nil
		},
	}
	u := NewUsecase(repo)

	tests := []struct {
		name string
		p    domain.ApplicantProfile
		want bool
	}{
		{name: "meets both thresholds", p: domain.ApplicantProfile{MonthlySalary: 6000, MonthsEmployed: 18}, want: true},
		{name: "salary too low", p: domain.ApplicantProfile{MonthlySalary: 4000, MonthsEmployed: 18}},
		{name: "tenure too short", p: domain.ApplicantProfile{MonthlySalary: 6000, MonthsEmployed: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := u.IsUserEligible(context.Background(), 5, tt.p)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if ok != tt.want {
				t.Fatalf("eligible=%v, want %v", ok, tt.want)
			}
		})
	}
}

func TestSeed_Idempotent(t *testing.T) {
	existing := map[string]*domain.LoanType{}
	var creates int
	repo := &loantypemock.Repo{
		GetByKeyFn: func(ctx context.Context, key string) (*domain.LoanType, error) {
			if lt, ok := existing[key]; ok {
				return lt, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(ctx context.Context, lt *domain.LoanType) error {
			creates++
			existing[lt.Key] = lt
			return nil
		},
	}

	u := NewUsecase(repo)
	if err := u.Seed(context.Background()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	first := creates
	if first == 0 {
		t.Fatalf("seed created nothing")
	}
	if err := u.Seed(context.Background()); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if creates != first {
		t.Fatalf("seed must be idempotent: %d then %d creates", first, creates)
	}

	premium, ok := existing["premium_loan"]
	if !ok {
		t.Fatalf("premium_loan not seeded")
	}
	if !premium.RequiresGuarantor || premium.RequiredGuarantorCount != 2 {
		t.Fatalf("premium product guarantor config: %+v", premium)
	}
}
