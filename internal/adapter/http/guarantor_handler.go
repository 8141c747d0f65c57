package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"coopvest-backend/internal/adapter/middleware"
	guarantorDomain "coopvest-backend/internal/domain/guarantor"
	"coopvest-backend/internal/usecase/guarantor"
)

type GuarantorHandler struct{ uc *guarantor.Usecase }

func NewGuarantorHandler(uc *guarantor.Usecase) *GuarantorHandler {
	return &GuarantorHandler{uc: uc}
}

type inviteGuarantorReq struct {
	GuarantorEmail  string   `json:"guarantor_email"  validate:"required,email"`
	Relationship    string   `json:"relationship"     validate:"required,relationship"`
	LiabilityAmount *float64 `json:"liability_amount" validate:"omitempty,gt=0,dec2"`
}

func (h *GuarantorHandler) Invite(c echo.Context) error {
	var req inviteGuarantorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.Invite(c.Request().Context(), middleware.ActorFrom(c), c.Param("loan_id"), guarantor.InviteInput{
		GuarantorEmail:  req.GuarantorEmail,
		Relationship:    guarantorDomain.Relationship(req.Relationship),
		LiabilityAmount: req.LiabilityAmount,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

type respondTokenReq struct {
	Token  string `json:"token"  validate:"required,token64"`
	Reason string `json:"reason" validate:"max=500"`
}

func (h *GuarantorHandler) Accept(c echo.Context) error {
	var req respondTokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.AcceptByToken(c.Request().Context(), middleware.ActorFrom(c), req.Token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *GuarantorHandler) Decline(c echo.Context) error {
	var req respondTokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.DeclineByToken(c.Request().Context(), middleware.ActorFrom(c), req.Token, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type verifyGuarantorReq struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" validate:"max=500"`
}

func (h *GuarantorHandler) Verify(c echo.Context) error {
	guarantorID, err := strconv.ParseUint(c.Param("guarantor_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid guarantor_id"})
	}
	var req verifyGuarantorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Verify(c.Request().Context(), middleware.ActorFrom(c), guarantorID, req.Approve, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *GuarantorHandler) ListForLoan(c echo.Context) error {
	dtos, err := h.uc.ListForLoan(c.Request().Context(), middleware.ActorFrom(c), c.Param("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *GuarantorHandler) MyPendingRequests(c echo.Context) error {
	dtos, err := h.uc.MyPendingRequests(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *GuarantorHandler) MyObligations(c echo.Context) error {
	dtos, err := h.uc.MyObligations(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *GuarantorHandler) Remove(c echo.Context) error {
	guarantorID, err := strconv.ParseUint(c.Param("guarantor_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid guarantor_id"})
	}
	if err := h.uc.Remove(c.Request().Context(), middleware.ActorFrom(c), c.Param("loan_id"), guarantorID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
