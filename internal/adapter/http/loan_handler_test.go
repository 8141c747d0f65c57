package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"coopvest-backend/internal/adapter/middleware"
	"coopvest-backend/internal/audit"
	loanDomain "coopvest-backend/internal/domain/loan"
	typeDomain "coopvest-backend/internal/domain/loantype"
	userDomain "coopvest-backend/internal/domain/user"
	"coopvest-backend/internal/testutil/loanmock"
	"coopvest-backend/internal/testutil/loantypemock"
	"coopvest-backend/internal/testutil/uowmock"
	"coopvest-backend/internal/testutil/usermock"
	ucLoan "coopvest-backend/internal/usecase/loan"
)

var (
	memberActor = userDomain.Actor{UserID: 10, Role: userDomain.RoleMember}
	adminActor  = userDomain.Actor{UserID: 99, Role: userDomain.RoleAdmin}
)

func newLoanEcho(h *LoanHandler, actor userDomain.Actor) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			middleware.SetActor(c, actor)
			return next(c)
		}
	})
	e.POST("/loans", h.Apply)
	e.GET("/loans/:loan_id", h.Get)
	return e
}

func verifiedMember() *usermock.Repo {
	return &usermock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*userDomain.User, error) {
			return &userDomain.User{ID: id, KYCVerified: true, IsActive: true}, nil
		},
	}
}

func quickLoanProduct() *loantypemock.Repo {
	return &loantypemock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*typeDomain.LoanType, error) {
			return &typeDomain.LoanType{
				ID:            id,
				Key:           "quick_loan",
				MinimumAmount: 1_000,
				MaximumAmount: 50_000,
				InterestRate:  12,
				IsActive:      true,
			}, nil
		},
	}
}

func TestLoanHandler_Apply_Created(t *testing.T) {
	var created *loanDomain.Loan
	loans := &loanmock.Repo{
		CreateFn: func(ctx context.Context, l *loanDomain.Loan) error {
			created = l
			return nil
		},
	}
	uc := ucLoan.NewUsecase(loans, &loanmock.PaymentRepo{}, quickLoanProduct(), verifiedMember(), uowmock.New(), audit.NopSink{})
	e := newLoanEcho(NewLoanHandler(uc), memberActor)

	body := `{"loan_type_id":1,"amount":20000,"tenure":12,"purpose":"working capital"}`
	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("want 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if created == nil || created.UserID != 10 {
		t.Fatalf("loan not created for actor: %+v", created)
	}

	var dto ucLoan.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(dto.LoanID) != 32 || dto.Status != loanDomain.StatusPending {
		t.Fatalf("unexpected dto: %+v", dto)
	}
}

func TestLoanHandler_Apply_ValidationFailure(t *testing.T) {
	uc := ucLoan.NewUsecase(&loanmock.Repo{}, &loanmock.PaymentRepo{}, quickLoanProduct(), verifiedMember(), uowmock.New(), audit.NopSink{})
	e := newLoanEcho(NewLoanHandler(uc), memberActor)

	// amount missing entirely
	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", strings.NewReader(`{"loan_type_id":1,"tenure":12}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !containsFieldMsg(resp.Details, "Amount", "is required") {
		t.Fatalf("expected Amount required detail, got %+v", resp.Details)
	}
}

func TestLoanHandler_Apply_KYCRequired(t *testing.T) {
	users := &usermock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*userDomain.User, error) {
			return &userDomain.User{ID: id, KYCVerified: false}, nil
		},
	}
	uc := ucLoan.NewUsecase(&loanmock.Repo{}, &loanmock.PaymentRepo{}, quickLoanProduct(), users, uowmock.New(), audit.NopSink{})
	e := newLoanEcho(NewLoanHandler(uc), memberActor)

	body := `{"loan_type_id":1,"amount":20000,"tenure":12}`
	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("kyc gate => want 422, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoanHandler_Get_ErrorMapping(t *testing.T) {
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
			if loanID == "missing" {
				return nil, gorm.ErrRecordNotFound
			}
			return &loanDomain.Loan{LoanID: loanID, UserID: 20, Status: loanDomain.StatusActive}, nil
		},
	}
	uc := ucLoan.NewUsecase(loans, &loanmock.PaymentRepo{}, quickLoanProduct(), verifiedMember(), uowmock.New(), audit.NopSink{})

	// not found → 404
	e := newLoanEcho(NewLoanHandler(uc), memberActor)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/loans/missing", nil))
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("missing loan => want 404, got %d", rec.Code)
	}

	// someone else's loan → 403
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/loans/other", nil))
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("foreign loan => want 403, got %d", rec.Code)
	}

	// admin can read anything → 200
	e = newLoanEcho(NewLoanHandler(uc), adminActor)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/loans/other", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("admin read => want 200, got %d", rec.Code)
	}
}
