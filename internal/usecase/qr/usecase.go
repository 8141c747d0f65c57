package qr

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	auditDomain "coopvest-backend/internal/domain/audit"
	guarantorDomain "coopvest-backend/internal/domain/guarantor"
	loanDomain "coopvest-backend/internal/domain/loan"
	domain "coopvest-backend/internal/domain/qrtoken"
	"coopvest-backend/internal/domain/uow"
	userDomain "coopvest-backend/internal/domain/user"
	"coopvest-backend/pkg/id"
)

var (
	ErrUnauthorized = errors.New("not allowed to manage qr tokens for this loan")
)

type Usecase struct {
	tokens domain.Repository
	loans  loanDomain.Repository
	uow    uow.UnitOfWork
	audit  auditDomain.Sink
	now    func() time.Time
}

func NewUsecase(tokens domain.Repository, loans loanDomain.Repository, tx uow.UnitOfWork, sink auditDomain.Sink) *Usecase {
	return &Usecase{
		tokens: tokens,
		loans:  loans,
		uow:    tx,
		audit:  sink,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source; tests only.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// qrPayload is the loan snapshot frozen into qr_data at issuance. Scanners
// read this snapshot, not the live loan.
type qrPayload struct {
	LoanID      string    `json:"loan_id"`
	BorrowerID  uint64    `json:"borrower_id"`
	Amount      float64   `json:"amount"`
	Purpose     string    `json:"purpose"`
	GeneratedAt time.Time `json:"generated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Generate issues a fresh single-use token for the loan, revoking any token
// still active in the same transaction so at most one is live per loan.
func (u *Usecase) Generate(ctx context.Context, actor userDomain.Actor, loanID string, in GenerateInput) (*GenerateResult, error) {
	minutes := in.DurationMinutes
	if minutes == 0 {
		minutes = domain.DefaultDurationMinutes
	}
	if minutes < domain.MinDurationMinutes || minutes > domain.MaxDurationMinutes {
		return nil, domain.ErrDurationOutOfRange
	}

	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	if l.UserID != actor.UserID && !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	switch l.Status {
	case loanDomain.StatusPending, loanDomain.StatusApproved, loanDomain.StatusActive:
	default:
		return nil, domain.ErrInvalidLoanState
	}

	now := u.now()
	expiresAt := now.Add(time.Duration(minutes) * time.Minute)
	payload, err := json.Marshal(qrPayload{
		LoanID:      l.LoanID,
		BorrowerID:  l.UserID,
		Amount:      l.Amount,
		Purpose:     l.LoanPurpose,
		GeneratedAt: now,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return nil, err
	}

	t := &domain.QRToken{
		LoanID:    l.ID,
		Token:     id.NewQRToken(now),
		QRData:    payload,
		CreatedBy: actor.UserID,
		Status:    domain.StatusActive,
		ExpiresAt: expiresAt,
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.QRTokens.RevokeActiveByLoanID(ctx, l.ID); err != nil {
			return err
		}
		return r.QRTokens.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, auditDomain.Entry{
		ActorID:    actor.UserID,
		Action:     "qr.generate",
		EntityType: "qr_token",
		EntityID:   t.ID,
	})
	return &GenerateResult{
		TokenDTO: toDTO(t, now),
		Token:    t.Token,
		QRData:   payload,
	}, nil
}

// Validate is the guarantor's scan. In one transaction it consumes the token
// (losing scan of a concurrent pair gets ErrAlreadyProcessed) and flips the
// scanner's guarantor row from verification pending to verified. Confirmation
// status does not gate the scan; a scanner whose verification is already
// settled gets ErrAlreadyProcessed without consuming the token. Expiry beats
// status when reporting why a token is unusable.
func (u *Usecase) Validate(ctx context.Context, actor userDomain.Actor, token string) (*ValidateResult, error) {
	now := u.now()
	var out *ValidateResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := r.QRTokens.GetByToken(ctx, token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := t.InvalidReason(now); err != nil {
			return err
		}

		l, err := r.Loans.GetByID(ctx, t.LoanID)
		if err != nil {
			return err
		}
		g, err := r.Guarantors.GetForLoanAndUser(ctx, l.ID, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return guarantorDomain.ErrNotLoanGuarantor
			}
			return err
		}
		// A guarantor already verified or rejected has nothing left to scan
		// for; the token stays untouched.
		if g.VerificationStatus != guarantorDomain.VerificationPending {
			return domain.ErrAlreadyProcessed
		}

		if err := r.QRTokens.ConsumeActive(ctx, t.ID, actor.UserID, now); err != nil {
			return err
		}
		g.VerificationStatus = guarantorDomain.VerificationVerified
		g.VerifiedAt = &now
		if err := r.Guarantors.Save(ctx, g); err != nil {
			return err
		}

		out = &ValidateResult{
			TokenID:            t.ID,
			LoanPublicID:       l.LoanID,
			QRData:             json.RawMessage(t.QRData),
			GuarantorID:        g.ID,
			VerificationStatus: string(g.VerificationStatus),
			ScannedAt:          now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, auditDomain.Entry{
		ActorID:    actor.UserID,
		Action:     "qr.validate",
		EntityType: "qr_token",
		EntityID:   out.TokenID,
	})
	return out, nil
}

// Revoke cancels a token ahead of its expiry. Creator or admin only.
// Revoking an already-terminal token is a no-op, not an error.
func (u *Usecase) Revoke(ctx context.Context, actor userDomain.Actor, token string) (*TokenDTO, error) {
	t, err := u.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if t.CreatedBy != actor.UserID && !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	if t.Status == domain.StatusActive {
		if err := u.tokens.Revoke(ctx, t.ID); err != nil {
			return nil, err
		}
		t.Status = domain.StatusRevoked
		u.audit.Record(ctx, auditDomain.Entry{
			ActorID:    actor.UserID,
			Action:     "qr.revoke",
			EntityType: "qr_token",
			EntityID:   t.ID,
		})
	}
	dto := toDTO(t, u.now())
	return &dto, nil
}

// GetStatus reports token validity without consuming it. Anyone holding the
// token value may ask; the response never repeats the value.
func (u *Usecase) GetStatus(ctx context.Context, token string) (*StatusResult, error) {
	t, err := u.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	now := u.now()
	out := &StatusResult{
		TokenDTO: toDTO(t, now),
		Valid:    t.IsValidForScanning(now),
	}
	if reason := t.InvalidReason(now); reason != nil {
		out.InvalidReason = reason.Error()
	}
	return out, nil
}

// ListForLoan returns the loan's token history for its owner or an admin.
func (u *Usecase) ListForLoan(ctx context.Context, actor userDomain.Actor, loanID string) ([]TokenDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	if l.UserID != actor.UserID && !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	list, err := u.tokens.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	out := make([]TokenDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i], now))
	}
	return out, nil
}

// CleanupExpired relabels active tokens past their deadline. Called from the
// scheduler; validity checks never depend on it having run.
func (u *Usecase) CleanupExpired(ctx context.Context) (int64, error) {
	return u.tokens.MarkExpired(ctx, u.now())
}
