package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"coopvest-backend/internal/adapter/middleware"
	"coopvest-backend/internal/usecase/application"
)

type ApplicationHandler struct{ uc *application.Usecase }

func NewApplicationHandler(uc *application.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

type createApplicationReq struct {
	LoanTypeID          uint64     `json:"loan_type_id"          validate:"required"`
	RequestedAmount     float64    `json:"requested_amount"      validate:"gte=0,dec2"`
	RequestedTenure     int        `json:"requested_tenure"      validate:"gte=0"`
	LoanPurpose         string     `json:"loan_purpose"          validate:"max=500"`
	EmploymentStatus    string     `json:"employment_status"     validate:"max=50"`
	EmployerName        string     `json:"employer_name"         validate:"max=255"`
	JobTitle            string     `json:"job_title"             validate:"max=255"`
	EmploymentStartDate *time.Time `json:"employment_start_date"`
	MonthlySalary       float64    `json:"monthly_salary"        validate:"gte=0,dec2"`
	MonthlyExpenses     float64    `json:"monthly_expenses"      validate:"gte=0,dec2"`
	ExistingLoans       int        `json:"existing_loans"        validate:"gte=0"`
	ExistingLoanBalance float64    `json:"existing_loan_balance" validate:"gte=0,dec2"`
	SavingsBalance      float64    `json:"savings_balance"       validate:"gte=0,dec2"`
	BusinessRevenue     float64    `json:"business_revenue"      validate:"gte=0,dec2"`
}

func (h *ApplicationHandler) Create(c echo.Context) error {
	var req createApplicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Create(c.Request().Context(), middleware.ActorFrom(c), application.CreateInput{
		LoanTypeID:          req.LoanTypeID,
		RequestedAmount:     req.RequestedAmount,
		RequestedTenure:     req.RequestedTenure,
		LoanPurpose:         req.LoanPurpose,
		EmploymentStatus:    req.EmploymentStatus,
		EmployerName:        req.EmployerName,
		JobTitle:            req.JobTitle,
		EmploymentStartDate: req.EmploymentStartDate,
		MonthlySalary:       req.MonthlySalary,
		MonthlyExpenses:     req.MonthlyExpenses,
		ExistingLoans:       req.ExistingLoans,
		ExistingLoanBalance: req.ExistingLoanBalance,
		SavingsBalance:      req.SavingsBalance,
		BusinessRevenue:     req.BusinessRevenue,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), middleware.ActorFrom(c), c.Param("application_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) ListMine(c echo.Context) error {
	dtos, err := h.uc.ListMine(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

// Update binds the partial-update payload straight into the usecase input:
// all fields are pointers, so absent keys stay nil and untouched.
func (h *ApplicationHandler) Update(c echo.Context) error {
	var req application.UpdateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Update(c.Request().Context(), middleware.ActorFrom(c), c.Param("application_id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) Submit(c echo.Context) error {
	dto, err := h.uc.Submit(c.Request().Context(), middleware.ActorFrom(c), c.Param("application_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) AdvanceStage(c echo.Context) error {
	dto, err := h.uc.AdvanceStage(c.Request().Context(), middleware.ActorFrom(c), c.Param("application_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) StartReview(c echo.Context) error {
	dto, err := h.uc.StartReview(c.Request().Context(), middleware.ActorFrom(c), c.Param("application_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) Approve(c echo.Context) error {
	dto, err := h.uc.Approve(c.Request().Context(), middleware.ActorFrom(c), c.Param("application_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) Reject(c echo.Context) error {
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Reject(c.Request().Context(), middleware.ActorFrom(c), c.Param("application_id"), req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) Withdraw(c echo.Context) error {
	dto, err := h.uc.Withdraw(c.Request().Context(), middleware.ActorFrom(c), c.Param("application_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) ConvertToLoan(c echo.Context) error {
	dto, loanID, err := h.uc.ConvertToLoan(c.Request().Context(), middleware.ActorFrom(c), c.Param("application_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"application": dto,
		"loan_id":     loanID,
	})
}
