package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "coopvest-backend/internal/domain/application"
	auditDomain "coopvest-backend/internal/domain/audit"
	loanDomain "coopvest-backend/internal/domain/loan"
	typeDomain "coopvest-backend/internal/domain/loantype"
	"coopvest-backend/internal/domain/uow"
	userDomain "coopvest-backend/internal/domain/user"
	"coopvest-backend/pkg/id"
)

var (
	ErrUnauthorized    = errors.New("not allowed to access this application")
	ErrValidation      = errors.New("invalid application input")
	ErrAmountOutOfRange = errors.New("requested amount outside loan type range")
	ErrReasonRequired  = errors.New("rejection reason is required (max 500 chars)")
)

type Usecase struct {
	apps  domain.Repository
	types typeDomain.Repository
	users userDomain.Repository
	uow   uow.UnitOfWork
	audit auditDomain.Sink
	now   func() time.Time
}

func NewUsecase(apps domain.Repository, types typeDomain.Repository, users userDomain.Repository, tx uow.UnitOfWork, sink auditDomain.Sink) *Usecase {
	return &Usecase{
		apps:  apps,
		types: types,
		users: users,
		uow:   tx,
		audit: sink,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source; tests only.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Create opens a new draft. Monetary fields must be non-negative; the amount
// range is deliberately NOT checked here so drafting stays iterative; the
// range check happens at submission.
func (u *Usecase) Create(ctx context.Context, actor userDomain.Actor, in CreateInput) (*ApplicationDTO, error) {
	if in.RequestedAmount <= 0 || in.RequestedTenure <= 0 ||
		in.MonthlySalary < 0 || in.MonthlyExpenses < 0 ||
		in.ExistingLoanBalance < 0 || in.SavingsBalance < 0 || in.BusinessRevenue < 0 {
		return nil, ErrValidation
	}
	if _, err := u.types.GetByID(ctx, in.LoanTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, typeDomain.ErrNotFound
		}
		return nil, err
	}

	a := &domain.LoanApplication{
		ApplicationID:       id.NewID32(),
		UserID:              actor.UserID,
		LoanTypeID:          in.LoanTypeID,
		RequestedAmount:     in.RequestedAmount,
		RequestedTenure:     in.RequestedTenure,
		LoanPurpose:         in.LoanPurpose,
		EmploymentStatus:    in.EmploymentStatus,
		EmployerName:        in.EmployerName,
		JobTitle:            in.JobTitle,
		EmploymentStartDate: in.EmploymentStartDate,
		MonthlySalary:       in.MonthlySalary,
		MonthlyExpenses:     in.MonthlyExpenses,
		ExistingLoans:       in.ExistingLoans,
		ExistingLoanBalance: in.ExistingLoanBalance,
		SavingsBalance:      in.SavingsBalance,
		BusinessRevenue:     in.BusinessRevenue,
		Status:              domain.StatusDraft,
		Stage:               domain.StagePersonalInfo,
	}
	if err := u.apps.Create(ctx, a); err != nil {
		return nil, err
	}
	return toDTO(a), nil
}

func (u *Usecase) get(ctx context.Context, applicationID string) (*domain.LoanApplication, error) {
	a, err := u.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (u *Usecase) Get(ctx context.Context, actor userDomain.Actor, applicationID string) (*ApplicationDTO, error) {
	a, err := u.get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if a.UserID != actor.UserID && !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	return toDTO(a), nil
}

func (u *Usecase) ListMine(ctx context.Context, actor userDomain.Actor) ([]ApplicationDTO, error) {
	list, err := u.apps.ListByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicationDTO, 0, len(list))
	for i := range list {
		out = append(out, *toDTO(&list[i]))
	}
	return out, nil
}

// Update mutates a draft. Any non-draft status fails with ErrImmutableState.
func (u *Usecase) Update(ctx context.Context, actor userDomain.Actor, applicationID string, in UpdateInput) (*ApplicationDTO, error) {
	a, err := u.get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if a.UserID != actor.UserID {
		return nil, ErrUnauthorized
	}
	if !a.IsDraft() {
		return nil, domain.ErrImmutableState
	}

	if in.RequestedAmount != nil {
		if *in.RequestedAmount <= 0 {
			return nil, ErrValidation
		}
		a.RequestedAmount = *in.RequestedAmount
	}
	if in.RequestedTenure != nil {
		if *in.RequestedTenure <= 0 {
			return nil, ErrValidation
		}
		a.RequestedTenure = *in.RequestedTenure
	}
	if in.LoanPurpose != nil {
		a.LoanPurpose = *in.LoanPurpose
	}
	if in.EmploymentStatus != nil {
		a.EmploymentStatus = *in.EmploymentStatus
	}
	if in.EmployerName != nil {
		a.EmployerName = *in.EmployerName
	}
	if in.JobTitle != nil {
		a.JobTitle = *in.JobTitle
	}
	if in.EmploymentStartDate != nil {
		a.EmploymentStartDate = in.EmploymentStartDate
	}
	for _, f := range []struct {
		src *float64
		dst *float64
	}{
		{in.MonthlySalary, &a.MonthlySalary},
		{in.MonthlyExpenses, &a.MonthlyExpenses},
		{in.ExistingLoanBalance, &a.ExistingLoanBalance},
		{in.SavingsBalance, &a.SavingsBalance},
		{in.BusinessRevenue, &a.BusinessRevenue},
	} {
		if f.src != nil {
			if *f.src < 0 {
				return nil, ErrValidation
			}
			*f.dst = *f.src
		}
	}
	if in.ExistingLoans != nil {
		if *in.ExistingLoans < 0 {
			return nil, ErrValidation
		}
		a.ExistingLoans = *in.ExistingLoans
	}

	if err := u.apps.Save(ctx, a); err != nil {
		return nil, err
	}
	return toDTO(a), nil
}

// checkEligibility is the draft-to-submitted gate.
func (u *Usecase) checkEligibility(ctx context.Context, a *domain.LoanApplication, t *typeDomain.LoanType) error {
	usr, err := u.users.GetByID(ctx, a.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return userDomain.ErrNotFound
		}
		return err
	}
	if !usr.KYCVerified {
		return domain.ErrNotEligible
	}
	if t.MinimumSalary > 0 && a.MonthlySalary < t.MinimumSalary {
		return domain.ErrNotEligible
	}
	// debt-to-income over 50% disqualifies; zero salary skips the ratio.
	if a.DebtToIncome() > 0.5 {
		return domain.ErrNotEligible
	}
	return nil
}

// Submit moves draft → submitted after the eligibility and amount-range checks.
func (u *Usecase) Submit(ctx context.Context, actor userDomain.Actor, applicationID string) (*ApplicationDTO, error) {
	var dto *ApplicationDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Applications.GetByApplicationIDForUpdate(ctx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if a.UserID != actor.UserID {
			return ErrUnauthorized
		}
		if !a.IsDraft() {
			return domain.ErrInvalidState
		}

		t, err := r.LoanTypes.GetByID(ctx, a.LoanTypeID)
		if err != nil {
			return err
		}
		if !t.AmountInRange(a.RequestedAmount) {
			return ErrAmountOutOfRange
		}
		if err := u.checkEligibility(ctx, a, t); err != nil {
			return err
		}

		now := u.now()
		a.Status = domain.StatusSubmitted
		a.SubmittedAt = &now
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}
		dto = toDTO(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// AdvanceStage moves the application to its next stage. Calling it at the
// terminal review stage is a no-op, not an error.
func (u *Usecase) AdvanceStage(ctx context.Context, actor userDomain.Actor, applicationID string) (*ApplicationDTO, error) {
	a, err := u.get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if a.UserID != actor.UserID && !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	next := domain.NextStage(a.Stage)
	if next != a.Stage {
		a.Stage = next
		if err := u.apps.Save(ctx, a); err != nil {
			return nil, err
		}
	}
	return toDTO(a), nil
}

// StartReview moves submitted → under_review.
func (u *Usecase) StartReview(ctx context.Context, actor userDomain.Actor, applicationID string) (*ApplicationDTO, error) {
	if !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	a, err := u.get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.StatusSubmitted {
		return nil, domain.ErrInvalidState
	}
	now := u.now()
	a.Status = domain.StatusUnderReview
	a.ReviewedAt = &now
	if err := u.apps.Save(ctx, a); err != nil {
		return nil, err
	}
	return toDTO(a), nil
}

// Approve accepts a submitted or under-review application.
func (u *Usecase) Approve(ctx context.Context, actor userDomain.Actor, applicationID string) (*ApplicationDTO, error) {
	if !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	a, err := u.get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.StatusSubmitted && a.Status != domain.StatusUnderReview {
		return nil, domain.ErrInvalidState
	}
	now := u.now()
	before := a.Status
	a.Status = domain.StatusApproved
	a.ApprovedAt = &now
	if err := u.apps.Save(ctx, a); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, auditDomain.Entry{
		ActorID:    actor.UserID,
		Action:     "application.approve",
		EntityType: "loan_application",
		EntityID:   a.ID,
		Before:     []byte(`{"status":"` + string(before) + `"}`),
		After:      []byte(`{"status":"approved"}`),
	})
	return toDTO(a), nil
}

// Reject refuses a submitted or under-review application; a non-empty reason
// of at most 500 characters is mandatory.
func (u *Usecase) Reject(ctx context.Context, actor userDomain.Actor, applicationID, reason string) (*ApplicationDTO, error) {
	if !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > 500 {
		return nil, ErrReasonRequired
	}
	a, err := u.get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.StatusSubmitted && a.Status != domain.StatusUnderReview {
		return nil, domain.ErrInvalidState
	}
	now := u.now()
	before := a.Status
	a.Status = domain.StatusRejected
	a.RejectionReason = reason
	a.ReviewedAt = &now
	if err := u.apps.Save(ctx, a); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, auditDomain.Entry{
		ActorID:    actor.UserID,
		Action:     "application.reject",
		EntityType: "loan_application",
		EntityID:   a.ID,
		Before:     []byte(`{"status":"` + string(before) + `"}`),
		After:      []byte(`{"status":"rejected"}`),
	})
	return toDTO(a), nil
}

// Withdraw lets the owner pull back a draft or submitted application.
func (u *Usecase) Withdraw(ctx context.Context, actor userDomain.Actor, applicationID string) (*ApplicationDTO, error) {
	a, err := u.get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if a.UserID != actor.UserID {
		return nil, ErrUnauthorized
	}
	if a.Status != domain.StatusDraft && a.Status != domain.StatusSubmitted {
		return nil, domain.ErrInvalidState
	}
	a.Status = domain.StatusWithdrawn
	if err := u.apps.Save(ctx, a); err != nil {
		return nil, err
	}
	return toDTO(a), nil
}

// ConvertToLoan disburses an approved application into a pending Loan and
// marks the application completed, as one transaction.
func (u *Usecase) ConvertToLoan(ctx context.Context, actor userDomain.Actor, applicationID string) (*ApplicationDTO, string, error) {
	if !actor.Elevated() {
		return nil, "", ErrUnauthorized
	}
	var (
		dto    *ApplicationDTO
		loanID string
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Applications.GetByApplicationIDForUpdate(ctx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if a.Status != domain.StatusApproved {
			return domain.ErrInvalidState
		}
		t, err := r.LoanTypes.GetByID(ctx, a.LoanTypeID)
		if err != nil {
			return err
		}

		l := &loanDomain.Loan{
			LoanID:             id.NewID32(),
			UserID:             a.UserID,
			LoanTypeID:         a.LoanTypeID,
			Amount:             a.RequestedAmount,
			InterestRate:       t.InterestRate,
			Tenure:             a.RequestedTenure,
			LoanPurpose:        a.LoanPurpose,
			MonthlyPayment:     t.MonthlyPayment(a.RequestedAmount, a.RequestedTenure),
			Status:             loanDomain.StatusPending,
			OutstandingBalance: a.RequestedAmount,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		a.Status = domain.StatusCompleted
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}
		dto = toDTO(a)
		loanID = l.LoanID
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return dto, loanID, nil
}
