package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"coopvest-backend/internal/adapter/middleware"
	"coopvest-backend/internal/usecase/loantype"
)

type LoanTypeHandler struct{ uc *loantype.Usecase }

func NewLoanTypeHandler(uc *loantype.Usecase) *LoanTypeHandler {
	return &LoanTypeHandler{uc: uc}
}

func (h *LoanTypeHandler) List(c echo.Context) error {
	types, err := h.uc.ListActive(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, types)
}

func (h *LoanTypeHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan type id"})
	}
	t, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

type upsertLoanTypeReq struct {
	Key                     string  `json:"key"                       validate:"required,max=50"`
	Name                    string  `json:"name"                      validate:"required,max=100"`
	Description             string  `json:"description"`
	MinimumAmount           float64 `json:"minimum_amount"            validate:"gte=0,dec2"`
	MaximumAmount           float64 `json:"maximum_amount"            validate:"gte=0,dec2"`
	InterestRate            float64 `json:"interest_rate"             validate:"gte=0,dec2"`
	DurationMonths          int     `json:"duration_months"           validate:"gte=0"`
	ProcessingFeePercentage float64 `json:"processing_fee_percentage" validate:"gte=0,dec2"`
	RequiresGuarantor       bool    `json:"requires_guarantor"`
	RequiredGuarantorCount  int     `json:"required_guarantor_count"  validate:"gte=0"`
	MinimumEmploymentMonths int     `json:"minimum_employment_months" validate:"gte=0"`
	MinimumSalary           float64 `json:"minimum_salary"            validate:"gte=0,dec2"`
	MaxRolloverTimes        int     `json:"max_rollover_times"        validate:"gte=0"`
}

func (r upsertLoanTypeReq) toInput() loantype.UpsertInput {
	return loantype.UpsertInput{
		Key:                     r.Key,
		Name:                    r.Name,
		Description:             r.Description,
		MinimumAmount:           r.MinimumAmount,
		MaximumAmount:           r.MaximumAmount,
		InterestRate:            r.InterestRate,
		DurationMonths:          r.DurationMonths,
		ProcessingFeePercentage: r.ProcessingFeePercentage,
		RequiresGuarantor:       r.RequiresGuarantor,
		RequiredGuarantorCount:  r.RequiredGuarantorCount,
		MinimumEmploymentMonths: r.MinimumEmploymentMonths,
		MinimumSalary:           r.MinimumSalary,
		MaxRolloverTimes:        r.MaxRolloverTimes,
	}
}

// Create manages the product catalog; admin only.
func (h *LoanTypeHandler) Create(c echo.Context) error {
	if !middleware.ActorFrom(c).Elevated() {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "admin role required"})
	}
	var req upsertLoanTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	t, err := h.uc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *LoanTypeHandler) Update(c echo.Context) error {
	if !middleware.ActorFrom(c).Elevated() {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "admin role required"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan type id"})
	}
	var req upsertLoanTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	t, err := h.uc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *LoanTypeHandler) Retire(c echo.Context) error {
	if !middleware.ActorFrom(c).Elevated() {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "admin role required"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan type id"})
	}
	if err := h.uc.Retire(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
