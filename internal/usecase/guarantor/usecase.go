package guarantor

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	auditDomain "coopvest-backend/internal/domain/audit"
	domain "coopvest-backend/internal/domain/guarantor"
	loanDomain "coopvest-backend/internal/domain/loan"
	"coopvest-backend/internal/domain/uow"
	userDomain "coopvest-backend/internal/domain/user"
	"coopvest-backend/pkg/id"
)

var (
	ErrUnauthorized    = errors.New("not allowed to manage guarantors for this loan")
	ErrValidation      = errors.New("invalid guarantor input")
	ErrFeatureDisabled = errors.New("guarantor system is not enabled")
	ErrSelfGuarantee   = errors.New("borrower cannot guarantee their own loan")
	ErrLoanNotOpen     = errors.New("loan no longer accepts guarantor changes")
)

// FeatureGuarantorSystem gates the whole recruitment flow.
const FeatureGuarantorSystem = "guarantor_system"

const invitationTTL = 7 * 24 * time.Hour

// FlagChecker answers feature-flag lookups; backed by the cached feature
// usecase in production.
type FlagChecker interface {
	IsEnabled(ctx context.Context, slug string) (bool, error)
}

type Usecase struct {
	guarantors  domain.Repository
	invitations domain.InvitationRepository
	loans       loanDomain.Repository
	users       userDomain.Repository
	uow         uow.UnitOfWork
	flags       FlagChecker
	audit       auditDomain.Sink
	baseURL     string
	now         func() time.Time
}

func NewUsecase(guarantors domain.Repository, invitations domain.InvitationRepository, loans loanDomain.Repository, users userDomain.Repository, tx uow.UnitOfWork, flags FlagChecker, sink auditDomain.Sink, baseURL string) *Usecase {
	return &Usecase{
		guarantors:  guarantors,
		invitations: invitations,
		loans:       loans,
		users:       users,
		uow:         tx,
		flags:       flags,
		audit:       sink,
		baseURL:     strings.TrimRight(baseURL, "/"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source; tests only.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Invite creates an invitation plus its placeholder guarantor row in one
// transaction. The secret token and link are returned exactly once here;
// listings never include them.
func (u *Usecase) Invite(ctx context.Context, actor userDomain.Actor, loanID string, in InviteInput) (*InviteResult, error) {
	enabled, err := u.flags.IsEnabled(ctx, FeatureGuarantorSystem)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, ErrFeatureDisabled
	}

	email := strings.ToLower(strings.TrimSpace(in.GuarantorEmail))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrValidation
	}
	if !domain.ValidRelationship(in.Relationship) {
		return nil, ErrValidation
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
	case loanDomain.StatusPending, loanDomain.StatusApproved:
	default:
		return nil, ErrLoanNotOpen
	}

	now := u.now()
	if _, err := u.invitations.GetPendingByLoanAndEmail(ctx, l.ID, email, now); err == nil {
		return nil, domain.ErrDuplicateInvitation
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Bind the invitee's identity now when the email already belongs to a
	// member, so the guarantor row is found by user id before acceptance
	// (the QR scan path looks it up that way). Unknown emails stay unbound
	// until the invitee accepts.
	var inviteeID *uint64
	if usr, err := u.users.GetByEmail(ctx, email); err == nil {
		if usr.ID == l.UserID {
			return nil, ErrSelfGuarantee
		}
		uid := usr.ID
		inviteeID = &uid
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	liability := l.Amount
	if in.LiabilityAmount != nil {
		if *in.LiabilityAmount <= 0 || *in.LiabilityAmount > l.Amount {
			return nil, ErrValidation
		}
		liability = *in.LiabilityAmount
	}

	token := id.NewInviteToken64()
	link := u.baseURL + "/guarantor/respond/" + token
	expiresAt := now.Add(invitationTTL)

	var g *domain.Guarantor
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		inv := &domain.Invitation{
			LoanID:          l.ID,
			GuarantorEmail:  email,
			InvitationToken: token,
			InvitationLink:  link,
			Status:          domain.InvitationPending,
			SentAt:          &now,
			ExpiresAt:       expiresAt,
		}
		if err := r.Invitations.Create(ctx, inv); err != nil {
			return err
		}
		g = &domain.Guarantor{
			LoanID:             l.ID,
			GuarantorUserID:    inviteeID,
			Relationship:       in.Relationship,
			VerificationStatus: domain.VerificationPending,
			ConfirmationStatus: domain.ConfirmationPending,
			QRCodeToken:        &token,
			QRCodeExpiresAt:    &expiresAt,
			InvitationSentAt:   &now,
			LiabilityAmount:    liability,
		}
		return r.Guarantors.Create(ctx, g)
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, auditDomain.Entry{
		ActorID:    actor.UserID,
		Action:     "guarantor.invite",
		EntityType: "guarantor",
		EntityID:   g.ID,
	})
	return &InviteResult{
		Guarantor:      toDTO(g),
		InvitationLink: link,
		Token:          token,
		ExpiresAt:      expiresAt,
	}, nil
}

// AcceptByToken binds the authenticated user to the invitation's placeholder
// guarantor row. The token must be pending and unexpired, the actor's email
// must match the addressee, and the borrower cannot accept their own invite.
func (u *Usecase) AcceptByToken(ctx context.Context, actor userDomain.Actor, token string) (*GuarantorDTO, error) {
	return u.respond(ctx, actor, token, true, "")
}

// DeclineByToken records a refusal. The reason is optional and kept as a note
// for the borrower.
func (u *Usecase) DeclineByToken(ctx context.Context, actor userDomain.Actor, token, reason string) (*GuarantorDTO, error) {
	return u.respond(ctx, actor, token, false, strings.TrimSpace(reason))
}

func (u *Usecase) respond(ctx context.Context, actor userDomain.Actor, token string, accept bool, reason string) (*GuarantorDTO, error) {
	inv, err := u.invitations.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	now := u.now()
	switch {
	case inv.Status == domain.InvitationAccepted || inv.Status == domain.InvitationDeclined:
		return nil, domain.ErrAlreadyResponded
	case !inv.IsValid(now):
		// expired tokens are reported as missing
		return nil, domain.ErrInvitationNotFound
	}

	usr, err := u.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userDomain.ErrNotFound
		}
		return nil, err
	}
	if !strings.EqualFold(usr.Email, inv.GuarantorEmail) {
		return nil, ErrUnauthorized
	}

	var dto GuarantorDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		g, err := r.Guarantors.GetByToken(ctx, token, now)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrInvitationNotFound
			}
			return err
		}
		l, err := r.Loans.GetByID(ctx, g.LoanID)
		if err != nil {
			return err
		}
		if l.UserID == actor.UserID {
			return ErrSelfGuarantee
		}

		if accept {
			inv.Status = domain.InvitationAccepted
			inv.AcceptedAt = &now
			g.ConfirmationStatus = domain.ConfirmationAccepted
			g.GuarantorUserID = &actor.UserID
			g.InvitationAcceptedAt = &now
		} else {
			inv.Status = domain.InvitationDeclined
			inv.DeclinedAt = &now
			g.ConfirmationStatus = domain.ConfirmationDeclined
			g.InvitationDeclinedAt = &now
			if reason != "" {
				g.Notes = reason
			}
		}
		if err := r.Invitations.Save(ctx, inv); err != nil {
			return err
		}
		if err := r.Guarantors.Save(ctx, g); err != nil {
			return err
		}
		dto = toDTO(g)
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := "guarantor.accept"
	if !accept {
		action = "guarantor.decline"
	}
	u.audit.Record(ctx, auditDomain.Entry{
		ActorID:    actor.UserID,
		Action:     action,
		EntityType: "guarantor",
		EntityID:   dto.ID,
	})
	return &dto, nil
}

// Verify is the admin review of an accepted guarantor. Rejection needs a
// reason; approval stamps verified_at.
func (u *Usecase) Verify(ctx context.Context, actor userDomain.Actor, guarantorID uint64, approve bool, reason string) (*GuarantorDTO, error) {
	if !actor.Elevated() {
		return nil, ErrUnauthorized
	}
	reason = strings.TrimSpace(reason)
	if !approve && (reason == "" || len(reason) > 500) {
		return nil, domain.ErrRejectionNeedsReason
	}

	g, err := u.guarantors.GetByID(ctx, guarantorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !g.IsConfirmed() {
		return nil, domain.ErrAlreadyResponded
	}

	now := u.now()
	if approve {
		g.VerificationStatus = domain.VerificationVerified
		g.VerifiedAt = &now
		g.RejectionReason = ""
	} else {
		g.VerificationStatus = domain.VerificationRejected
		g.RejectionReason = reason
	}
	if err := u.guarantors.Save(ctx, g); err != nil {
		return nil, err
	}

	action := "guarantor.verify"
	if !approve {
		action = "guarantor.verify_reject"
	}
	u.audit.Record(ctx, auditDomain.Entry{
		ActorID:    actor.UserID,
		Action:     action,
		EntityType: "guarantor",
		EntityID:   g.ID,
	})
	dto := toDTO(g)
	return &dto, nil
}

// ListForLoan returns the loan's guarantor roster for its owner or an admin.
// Tokens are never part of the response.
func (u *Usecase) ListForLoan(ctx context.Context, actor userDomain.Actor, loanID string) ([]GuarantorDTO, error) {
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
	list, err := u.guarantors.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]GuarantorDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i]))
	}
	return out, nil
}

// MyPendingRequests is the invitee's inbox: pending, unexpired invitations
// addressed to the actor's email.
func (u *Usecase) MyPendingRequests(ctx context.Context, actor userDomain.Actor) ([]InvitationDTO, error) {
	usr, err := u.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userDomain.ErrNotFound
		}
		return nil, err
	}
	now := u.now()
	invs, err := u.invitations.ListPendingByEmail(ctx, strings.ToLower(usr.Email), now)
	if err != nil {
		return nil, err
	}
	out := make([]InvitationDTO, 0, len(invs))
	for i := range invs {
		inv := &invs[i]
		l, err := u.loans.GetByID(ctx, inv.LoanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		dto := InvitationDTO{
			ID:           inv.ID,
			LoanPublicID: l.LoanID,
			LoanAmount:   l.Amount,
			LoanPurpose:  l.LoanPurpose,
			BorrowerID:   l.UserID,
			SentAt:       inv.SentAt,
			ExpiresAt:    inv.ExpiresAt,
		}
		if g, err := u.guarantors.GetByToken(ctx, inv.InvitationToken, now); err == nil {
			dto.Relationship = g.Relationship
		}
		out = append(out, dto)
	}
	return out, nil
}

// MyObligations lists loans the actor stands behind, with a loan summary per
// row.
func (u *Usecase) MyObligations(ctx context.Context, actor userDomain.Actor) ([]ObligationDTO, error) {
	list, err := u.guarantors.ListByGuarantorUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]ObligationDTO, 0, len(list))
	for i := range list {
		g := &list[i]
		l, err := u.loans.GetByID(ctx, g.LoanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, ObligationDTO{
			Guarantor:      toDTO(g),
			LoanPublicID:   l.LoanID,
			LoanAmount:     l.Amount,
			LoanTenure:     l.Tenure,
			LoanStatus:     loanDomain.StatusLabel(l.Status),
			CurrentBalance: l.OutstandingBalance,
		})
	}
	return out, nil
}

// Remove soft-deletes a guarantor while the loan has not yet been disbursed.
// Once funds are out the roster is frozen.
func (u *Usecase) Remove(ctx context.Context, actor userDomain.Actor, loanID string, guarantorID uint64) error {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return loanDomain.ErrNotFound
		}
		return err
	}
	if l.UserID != actor.UserID && !actor.Elevated() {
		return ErrUnauthorized
	}
	switch l.Status {
	case loanDomain.StatusPending, loanDomain.StatusApproved:
	default:
		return ErrLoanNotOpen
	}

	g, err := u.guarantors.GetByID(ctx, guarantorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if g.LoanID != l.ID {
		return domain.ErrNotFound
	}
	if err := u.guarantors.SoftDelete(ctx, g.ID); err != nil {
		return err
	}
	u.audit.Record(ctx, auditDomain.Entry{
		ActorID:    actor.UserID,
		Action:     "guarantor.remove",
		EntityType: "guarantor",
		EntityID:   g.ID,
	})
	return nil
}

// ExpireInvitations flips pending invitations past their deadline to expired.
// Called from the periodic sweep job.
func (u *Usecase) ExpireInvitations(ctx context.Context) (int64, error) {
	return u.invitations.MarkExpired(ctx, u.now())
}
