package qr

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"coopvest-backend/internal/audit"
	guarantorDomain "coopvest-backend/internal/domain/guarantor"
	loanDomain "coopvest-backend/internal/domain/loan"
	domain "coopvest-backend/internal/domain/qrtoken"
	"coopvest-backend/internal/domain/uow"
	userDomain "coopvest-backend/internal/domain/user"
	"coopvest-backend/internal/testutil/guarantormock"
	"coopvest-backend/internal/testutil/loanmock"
	"coopvest-backend/internal/testutil/qrtokenmock"
	"coopvest-backend/internal/testutil/uowmock"
)

var (
	borrower  = userDomain.Actor{UserID: 10, Role: userDomain.RoleMember}
	guarantor = userDomain.Actor{UserID: 20, Role: userDomain.RoleMember}
	admin     = userDomain.Actor{UserID: 99, Role: userDomain.RoleAdmin}
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

func activeLoan() *loanDomain.Loan {
	return &loanDomain.Loan{ID: 7, LoanID: "LN-7", UserID: 10, Amount: 20000, LoanPurpose: "equipment", Status: loanDomain.StatusActive}
}

func loansReturning(l *loanDomain.Loan) *loanmock.Repo {
	return &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
			return l, nil
		},
		GetByIDFn: func(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
			return l, nil
		},
	}
}

func TestUsecase_Generate(t *testing.T) {
	tests := []struct {
		name    string
		actor   userDomain.Actor
		loan    *loanDomain.Loan
		minutes int
		wantTTL time.Duration
		wantErr error
	}{
		{name: "default duration", actor: borrower, loan: activeLoan(), minutes: 0, wantTTL: 15 * time.Minute},
		{name: "custom duration", actor: borrower, loan: activeLoan(), minutes: 60, wantTTL: time.Hour},
		{name: "admin may generate for any loan", actor: admin, loan: activeLoan(), minutes: 0, wantTTL: 15 * time.Minute},
		{name: "below minimum", actor: borrower, loan: activeLoan(), minutes: 4, wantErr: domain.ErrDurationOutOfRange},
		{name: "above maximum", actor: borrower, loan: activeLoan(), minutes: 1441, wantErr: domain.ErrDurationOutOfRange},
		{name: "stranger cannot generate", actor: guarantor, loan: activeLoan(), wantErr: ErrUnauthorized},
		{
			name:  "completed loan cannot carry tokens",
			actor: borrower,
			loan:  &loanDomain.Loan{ID: 7, LoanID: "LN-7", UserID: 10, Status: loanDomain.StatusCompleted},
			wantErr: domain.ErrInvalidLoanState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var revoked bool
			var created *domain.QRToken
			tokens := &qrtokenmock.Repo{
				RevokeActiveByLoanIDFn: func(ctx context.Context, loanID uint64) (int64, error) {
					revoked = true
					if loanID != 7 {
						t.Fatalf("revoke loan id %d", loanID)
					}
					return 1, nil
				},
				CreateFn: func(ctx context.Context, tok *domain.QRToken) error {
					created = tok
					return nil
				},
			}
			tx := uowmock.Passthrough(uow.Repos{QRTokens: tokens}, nil)
			u := NewUsecase(tokens, loansReturning(tt.loan), tx, audit.NopSink{}).WithClock(fixedClock())

			res, err := u.Generate(context.Background(), tt.actor, "LN-7", GenerateInput{DurationMinutes: tt.minutes})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if !revoked {
				t.Fatalf("previous active tokens must be revoked first")
			}
			if created == nil || created.Status != domain.StatusActive {
				t.Fatalf("token not created active: %+v", created)
			}
			if !strings.HasPrefix(res.Token, "QR_") {
				t.Fatalf("token format: %q", res.Token)
			}
			if want := testNow.Add(tt.wantTTL); !res.ExpiresAt.Equal(want) {
				t.Fatalf("expiry %v, want %v", res.ExpiresAt, want)
			}

			var payload map[string]any
			if err := json.Unmarshal(res.QRData, &payload); err != nil {
				t.Fatalf("qr_data not json: %v", err)
			}
			if payload["loan_id"] != "LN-7" || payload["amount"] != 20000.0 {
				t.Fatalf("qr_data snapshot: %v", payload)
			}
		})
	}
}

func TestUsecase_Validate(t *testing.T) {
	token := "QR_abc123"
	newActiveToken := func() *domain.QRToken {
		return &domain.QRToken{
			ID:        3,
			LoanID:    7,
			Token:     token,
			QRData:    []byte(`{"loan_id":"LN-7"}`),
			CreatedBy: 10,
			Status:    domain.StatusActive,
			ExpiresAt: testNow.Add(10 * time.Minute),
		}
	}
	acceptedGuarantor := func() *guarantorDomain.Guarantor {
		return &guarantorDomain.Guarantor{
			ID:                 5,
			LoanID:             7,
			ConfirmationStatus: guarantorDomain.ConfirmationAccepted,
			VerificationStatus: guarantorDomain.VerificationPending,
		}
	}

	tests := []struct {
		name       string
		token      *domain.QRToken
		g          *guarantorDomain.Guarantor
		gErr       error
		consumeErr error
		wantErr    error
	}{
		{name: "happy path verifies the scanner", token: newActiveToken(), g: acceptedGuarantor()},
		{
			name: "expired wins over status",
			token: &domain.QRToken{
				ID: 3, LoanID: 7, Status: domain.StatusRevoked,
				ExpiresAt: testNow.Add(-time.Minute),
			},
			g:       acceptedGuarantor(),
			wantErr: domain.ErrTokenExpired,
		},
		{
			name: "revoked but unexpired reports status",
			token: &domain.QRToken{
				ID: 3, LoanID: 7, Status: domain.StatusRevoked,
				ExpiresAt: testNow.Add(10 * time.Minute),
			},
			g:       acceptedGuarantor(),
			wantErr: domain.ErrTokenNotActive,
		},
		{
			name:    "scanner is not a guarantor",
			token:   newActiveToken(),
			gErr:    gorm.ErrRecordNotFound,
			wantErr: guarantorDomain.ErrNotLoanGuarantor,
		},
		{
			// acceptance can lag behind the scan; verification is what the
			// scan settles
			name:  "scan verifies before the invite is accepted",
			token: newActiveToken(),
			g: &guarantorDomain.Guarantor{
				ID: 5, LoanID: 7,
				ConfirmationStatus: guarantorDomain.ConfirmationPending,
				VerificationStatus: guarantorDomain.VerificationPending,
			},
		},
		{
			name:       "concurrent scan loses the consume race",
			token:      newActiveToken(),
			g:          acceptedGuarantor(),
			consumeErr: domain.ErrAlreadyProcessed,
			wantErr:    domain.ErrAlreadyProcessed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &qrtokenmock.Repo{
				GetByTokenFn: func(ctx context.Context, tok string) (*domain.QRToken, error) {
					return tt.token, nil
				},
				ConsumeActiveFn: func(ctx context.Context, id uint64, scannedBy uint64, now time.Time) error {
					if scannedBy != guarantor.UserID {
						t.Fatalf("scanned_by %d", scannedBy)
					}
					return tt.consumeErr
				},
			}
			var savedG *guarantorDomain.Guarantor
			gs := &guarantormock.Repo{
				GetForLoanAndUserFn: func(ctx context.Context, loanID, userID uint64) (*guarantorDomain.Guarantor, error) {
					if tt.gErr != nil {
						return nil, tt.gErr
					}
					return tt.g, nil
				},
				SaveFn: func(ctx context.Context, g *guarantorDomain.Guarantor) error {
					savedG = g
					return nil
				},
			}
			loans := loansReturning(activeLoan())
			tx := uowmock.Passthrough(uow.Repos{QRTokens: tokens, Guarantors: gs, Loans: loans}, nil)
			u := NewUsecase(tokens, loans, tx, audit.NopSink{}).WithClock(fixedClock())

			res, err := u.Validate(context.Background(), guarantor, "QR_abc123")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if savedG == nil || savedG.VerificationStatus != guarantorDomain.VerificationVerified {
				t.Fatalf("scanner not verified: %+v", savedG)
			}
			if res.LoanPublicID != "LN-7" || res.VerificationStatus != string(guarantorDomain.VerificationVerified) {
				t.Fatalf("result: %+v", res)
			}
			if !res.ScannedAt.Equal(testNow) {
				t.Fatalf("scanned_at: %v", res.ScannedAt)
			}
		})
	}
}

func TestUsecase_Validate_SettledScannerDoesNotConsume(t *testing.T) {
	for _, status := range []guarantorDomain.VerificationStatus{
		guarantorDomain.VerificationVerified,
		guarantorDomain.VerificationRejected,
	} {
		t.Run(string(status), func(t *testing.T) {
			consumed := 0
			tokens := &qrtokenmock.Repo{
				GetByTokenFn: func(ctx context.Context, tok string) (*domain.QRToken, error) {
					return &domain.QRToken{
						ID: 3, LoanID: 7, Token: "QR_abc123",
						Status:    domain.StatusActive,
						ExpiresAt: testNow.Add(10 * time.Minute),
					}, nil
				},
				ConsumeActiveFn: func(ctx context.Context, id uint64, scannedBy uint64, now time.Time) error {
					consumed++
					return nil
				},
			}
			var saved *guarantorDomain.Guarantor
			gs := &guarantormock.Repo{
				GetForLoanAndUserFn: func(ctx context.Context, loanID, userID uint64) (*guarantorDomain.Guarantor, error) {
					return &guarantorDomain.Guarantor{
						ID: 5, LoanID: 7,
						ConfirmationStatus: guarantorDomain.ConfirmationAccepted,
						VerificationStatus: status,
					}, nil
				},
				SaveFn: func(ctx context.Context, g *guarantorDomain.Guarantor) error {
					saved = g
					return nil
				},
			}
			loans := loansReturning(activeLoan())
			tx := uowmock.Passthrough(uow.Repos{QRTokens: tokens, Guarantors: gs, Loans: loans}, nil)
			u := NewUsecase(tokens, loans, tx, audit.NopSink{}).WithClock(fixedClock())

			_, err := u.Validate(context.Background(), guarantor, "QR_abc123")
			if !errors.Is(err, domain.ErrAlreadyProcessed) {
				t.Fatalf("want ErrAlreadyProcessed, got %v", err)
			}
			if consumed != 0 {
				t.Fatalf("token consumed %d times on a settled scanner", consumed)
			}
			if saved != nil {
				t.Fatalf("guarantor row rewritten: %+v", saved)
			}
		})
	}
}

func TestUsecase_Revoke(t *testing.T) {
	newActive := func(createdBy uint64) *domain.QRToken {
		return &domain.QRToken{ID: 3, LoanID: 7, CreatedBy: createdBy, Status: domain.StatusActive, ExpiresAt: testNow.Add(time.Hour)}
	}

	tests := []struct {
		name     string
		actor    userDomain.Actor
		token    *domain.QRToken
		wantCall bool
		wantErr  error
	}{
		{name: "creator revokes", actor: borrower, token: newActive(10), wantCall: true},
		{name: "admin revokes", actor: admin, token: newActive(10), wantCall: true},
		{name: "stranger cannot revoke", actor: guarantor, token: newActive(10), wantErr: ErrUnauthorized},
		{
			name:  "terminal token is a no-op",
			actor: borrower,
			token: &domain.QRToken{ID: 3, CreatedBy: 10, Status: domain.StatusUsed, ExpiresAt: testNow.Add(time.Hour)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			tokens := &qrtokenmock.Repo{
				GetByTokenFn: func(ctx context.Context, tok string) (*domain.QRToken, error) {
					return tt.token, nil
				},
				RevokeFn: func(ctx context.Context, id uint64) error {
					called = true
					return nil
				},
			}
			u := NewUsecase(tokens, &loanmock.Repo{}, &uowmock.UoW{}, audit.NopSink{}).WithClock(fixedClock())

			dto, err := u.Revoke(context.Background(), tt.actor, "QR_x")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if called != tt.wantCall {
				t.Fatalf("revoke call %v, want %v", called, tt.wantCall)
			}
			if tt.wantCall && dto.Status != domain.StatusRevoked {
				t.Fatalf("dto status: %s", dto.Status)
			}
		})
	}
}

func TestUsecase_GetStatus(t *testing.T) {
	tests := []struct {
		name       string
		token      *domain.QRToken
		wantValid  bool
		wantReason string
	}{
		{
			name:      "active and fresh",
			token:     &domain.QRToken{ID: 3, Status: domain.StatusActive, ExpiresAt: testNow.Add(5 * time.Minute)},
			wantValid: true,
		},
		{
			name:       "stale active row reads expired",
			token:      &domain.QRToken{ID: 3, Status: domain.StatusActive, ExpiresAt: testNow.Add(-time.Minute)},
			wantReason: domain.ErrTokenExpired.Error(),
		},
		{
			name:       "used token",
			token:      &domain.QRToken{ID: 3, Status: domain.StatusUsed, ExpiresAt: testNow.Add(5 * time.Minute)},
			wantReason: domain.ErrTokenNotActive.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &qrtokenmock.Repo{
				GetByTokenFn: func(ctx context.Context, tok string) (*domain.QRToken, error) {
					return tt.token, nil
				},
			}
			u := NewUsecase(tokens, &loanmock.Repo{}, &uowmock.UoW{}, audit.NopSink{}).WithClock(fixedClock())

			res, err := u.GetStatus(context.Background(), "QR_x")
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if res.Valid != tt.wantValid {
				t.Fatalf("valid %v, want %v", res.Valid, tt.wantValid)
			}
			if res.InvalidReason != tt.wantReason {
				t.Fatalf("reason %q, want %q", res.InvalidReason, tt.wantReason)
			}
			if tt.wantValid && res.TimeRemaining != 300 {
				t.Fatalf("time remaining %d, want 300", res.TimeRemaining)
			}
		})
	}
}

func TestUsecase_GetStatus_NotFound(t *testing.T) {
	tokens := &qrtokenmock.Repo{
		GetByTokenFn: func(context.Context, string) (*domain.QRToken, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	u := NewUsecase(tokens, &loanmock.Repo{}, &uowmock.UoW{}, audit.NopSink{})
	if _, err := u.GetStatus(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUsecase_CleanupExpired(t *testing.T) {
	tokens := &qrtokenmock.Repo{
		MarkExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			if !now.Equal(testNow) {
				t.Fatalf("cleanup now: %v", now)
			}
			return 4, nil
		},
	}
	u := NewUsecase(tokens, &loanmock.Repo{}, &uowmock.UoW{}, audit.NopSink{}).WithClock(fixedClock())
	n, err := u.CleanupExpired(context.Background())
	if err != nil || n != 4 {
		t.Fatalf("cleanup: n=%d err=%v", n, err)
	}
}
