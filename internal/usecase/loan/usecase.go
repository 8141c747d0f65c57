package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	auditDomain "coopvest-backend/internal/domain/audit"
	domain "coopvest-backend/internal/domain/loan"
	typeDomain "coopvest-backend/internal/domain/loantype"
	"coopvest-backend/internal/domain/uow"
	userDomain "coopvest-backend/internal/domain/user"
	"coopvest-backend/pkg/id"
)

var (
	ErrUnauthorized   = errors.New("not allowed to access this loan")
	ErrValidation     = errors.New("invalid loan input")
	ErrKYCRequired    = errors.New("kyc verification required before applying for a loan")
	ErrReasonRequired = errors.New("rejection reason is required (max 500 chars)")
)

type Usecase struct {
	loans    domain.Repository
	payments domain.PaymentRepository
	types    typeDomain.Repository
	users    userDomain.Repository
	uow      uow.UnitOfWork
	audit    auditDomain.Sink
	now      func() time.Time
}

func NewUsecase(loans domain.Repository, payments domain.PaymentRepository, types typeDomain.Repository, users userDomain.Repository, tx uow.UnitOfWork, sink auditDomain.Sink) *Usecase {
	return &Usecase{
		loans:    loans,
		payments: payments,
		types:    types,
		users:    users,
		uow:      tx,
		audit:    sink,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source; tests only.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Apply creates a pending loan directly, skipping the staged application
// flow. KYC gate applies; the amount must fit the product range.
func (u *Usecase) Apply(ctx context.Context, actor userDomain.Actor, in ApplyInput) (*LoanDTO, error) {
	if in.Amount <= 0 || in.Tenure <= 0 {
		return nil, ErrValidation
	}
	usr, err := u.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userDomain.ErrNotFound
		}
		return nil, err
	}
	if !usr.KYCVerified {
		return nil, ErrKYCRequired
	}
	t, err := u.types.GetByID(ctx, in.LoanTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, typeDomain.ErrNotFound
		}
		return nil, err
	}
	if !t.AmountInRange(in.Amount) {
		return nil, fmt.Errorf("%w: amount %.2f outside [%.2f, %.2f]",
			ErrValidation, in.Amount, t.MinimumAmount, t.MaximumAmount)
	}

	l := &domain.Loan{
		LoanID:             id.NewID32(),
		UserID:             actor.UserID,
		LoanTypeID:         t.ID,
		Amount:             in.Amount,
		InterestRate:       t.InterestRate,
		Tenure:             in.Tenure,
		LoanPurpose:        in.Purpose,
		MonthlyPayment:     t.MonthlyPayment(in.Amount, in.Tenure),
		Status:             domain.StatusPending,
		OutstandingBalance: in.Amount,
	}
	if err := u.loans.Create(ctx, l); err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, actor userDomain.Actor, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if l.UserID != actor.UserID && !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	return toDTO(l), nil
}

func (u *Usecase) ListMine(ctx context.Context, actor userDomain.Actor) ([]LoanDTO, error) {
	list, err := u.loans.ListByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(list))
	for i := range list {
		out = append(out, *toDTO(&list[i]))
	}
	return out, nil
}

func (u *Usecase) ListPending(ctx context.Context, actor userDomain.Actor) ([]LoanDTO, error) {
	if !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	list, err := u.loans.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(list))
	for i := range list {
		out = append(out, *toDTO(&list[i]))
	}
	return out, nil
}

// Approve moves pending → approved under a row lock. Re-approving fails with
// ErrAlreadyApproved rather than no-opping: fail-fast keeps admin mistakes
// visible.
func (u *Usecase) Approve(ctx context.Context, actor userDomain.Actor, loanID string) (*LoanDTO, error) {
	if !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status == domain.StatusApproved {
			return domain.ErrAlreadyApproved
		}
		if l.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		now := u.now()
		l.Status = domain.StatusApproved
		l.ApprovedBy = &actor.UserID
		l.ApprovedAt = &now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.audit.Record(ctx, auditDomain.Entry{
		ActorID:    actor.UserID,
		Action:     "loan.approve",
		EntityType: "loan",
		Before:     []byte(`{"status":"pending"}`),
		After:      []byte(`{"status":"approved"}`),
	})
	return dto, nil
}

// Reject moves pending → rejected; reason mandatory.
func (u *Usecase) Reject(ctx context.Context, actor userDomain.Actor, loanID, reason string) (*LoanDTO, error) {
	if !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > 500 {
		return nil, ErrReasonRequired
	}
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		now := u.now()
		l.Status = domain.StatusRejected
		l.RejectionReason = reason
		l.ApprovedBy = &actor.UserID
		l.ApprovedAt = &now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.audit.Record(ctx, auditDomain.Entry{
		ActorID:    actor.UserID,
		Action:     "loan.reject",
		EntityType: "loan",
		Before:     []byte(`{"status":"pending"}`),
		After:      []byte(`{"status":"rejected"}`),
	})
	return dto, nil
}

// Disburse releases funds on an approved loan. The guarantor-requirement
// check and the status flip share one transaction with the loan row locked,
// so two concurrent disbursement attempts cannot both pass the precondition.
func (u *Usecase) Disburse(ctx context.Context, actor userDomain.Actor, loanID string) (*LoanDTO, error) {
	if !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status == domain.StatusActive {
			return domain.ErrAlreadyDisbursed
		}
		if l.Status != domain.StatusApproved {
			return domain.ErrInvalidTransition
		}

		t, err := r.LoanTypes.GetByID(ctx, l.LoanTypeID)
		if err != nil {
			return err
		}
		if t.RequiresGuarantor {
			n, err := r.Guarantors.CountActiveByLoanID(ctx, l.ID)
			if err != nil {
				return err
			}
			if n < int64(t.RequiredGuarantorCount) {
				return domain.ErrGuarantorRequirementNotMet
			}
		}

		now := u.now()
		next := now.AddDate(0, 1, 0)
		l.Status = domain.StatusActive
		l.DisbursedAt = &now
		l.NextPaymentDate = &next
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Transactions.Create(ctx, &domain.Transaction{
			UserID:      l.UserID,
			LoanID:      l.ID,
			Type:        domain.TxnLoanDisbursement,
			Amount:      l.Amount,
			Description: "Loan Disbursement - " + l.LoanPurpose,
			Status:      "completed",
		}); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.audit.Record(ctx, auditDomain.Entry{
		ActorID:    actor.UserID,
		Action:     "loan.disburse",
		EntityType: "loan",
		Before:     []byte(`{"status":"approved"}`),
		After:      []byte(`{"status":"active"}`),
	})
	return dto, nil
}

// RecordPayment appends a repayment while the loan is active. Overpayment is
// clamped at zero; the excess is dropped, not credited.
func (u *Usecase) RecordPayment(ctx context.Context, actor userDomain.Actor, loanID string, amount float64) (*LoanDTO, error) {
	if amount <= 0 {
		return nil, ErrValidation
	}
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.UserID != actor.UserID && !actor.Elevated() {
			return ErrUnauthorized
		}
		if l.Status != domain.StatusActive {
			return domain.ErrNotActive
		}

		now := u.now()
		l.OutstandingBalance -= amount
		if l.OutstandingBalance <= 0 {
			l.OutstandingBalance = 0
			l.Status = domain.StatusCompleted
			l.CompletedAt = &now
		}
		l.TotalPaid += amount
		l.PaymentsMade++
		l.LastPaymentDate = &now
		next := now.AddDate(0, 1, 0)
		l.NextPaymentDate = &next
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		if err := r.Payments.Create(ctx, &domain.LoanPayment{
			LoanID:      l.ID,
			Amount:      amount,
			PaymentDate: now,
		}); err != nil {
			return err
		}
		if err := r.Transactions.Create(ctx, &domain.Transaction{
			UserID:      l.UserID,
			LoanID:      l.ID,
			Type:        domain.TxnLoanPayment,
			Amount:      amount,
			Description: "Loan Payment",
			Status:      "completed",
		}); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// ListPayments returns the repayment ledger for a loan the actor may see.
func (u *Usecase) ListPayments(ctx context.Context, actor userDomain.Actor, loanID string) ([]PaymentDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if l.UserID != actor.UserID && !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	rows, err := u.payments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, PaymentDTO{ID: p.ID, Amount: p.Amount, PaymentDate: p.PaymentDate})
	}
	return out, nil
}

// ListTransactions returns the full money-movement history for a loan,
// disbursements and repayments alike.
func (u *Usecase) ListTransactions(ctx context.Context, actor userDomain.Actor, loanID string) ([]TransactionDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if l.UserID != actor.UserID && !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	var out []TransactionDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rows, err := r.Transactions.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		out = make([]TransactionDTO, 0, len(rows))
		for _, t := range rows {
			out = append(out, TransactionDTO{
				ID:          t.ID,
				Type:        t.Type,
				Amount:      t.Amount,
				Description: t.Description,
				Status:      t.Status,
				CreatedAt:   t.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Suspend parks an active loan; Resume reverses it. Admin only.
func (u *Usecase) Suspend(ctx context.Context, actor userDomain.Actor, loanID string) (*LoanDTO, error) {
	return u.adminTransition(ctx, actor, loanID, domain.StatusActive, domain.StatusSuspended, "loan.suspend")
}

func (u *Usecase) Resume(ctx context.Context, actor userDomain.Actor, loanID string) (*LoanDTO, error) {
	return u.adminTransition(ctx, actor, loanID, domain.StatusSuspended, domain.StatusActive, "loan.resume")
}

// MarkDefaulted flags an active loan as defaulted. The missed-payment policy
// that decides when to call this lives outside the core.
func (u *Usecase) MarkDefaulted(ctx context.Context, actor userDomain.Actor, loanID string) (*LoanDTO, error) {
	return u.adminTransition(ctx, actor, loanID, domain.StatusActive, domain.StatusDefaulted, "loan.default")
}

func (u *Usecase) adminTransition(ctx context.Context, actor userDomain.Actor, loanID string, from, to domain.Status, action string) (*LoanDTO, error) {
	if !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != from {
			return domain.ErrInvalidTransition
		}
		l.Status = to
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.audit.Record(ctx, auditDomain.Entry{
		ActorID:    actor.UserID,
		Action:     action,
		EntityType: "loan",
		Before:     []byte(`{"status":"` + string(from) + `"}`),
		After:      []byte(`{"status":"` + string(to) + `"}`),
	})
	return dto, nil
}
