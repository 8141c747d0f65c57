package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"coopvest-backend/internal/adapter/middleware"
	"coopvest-backend/internal/usecase/qr"
)

type QRHandler struct{ uc *qr.Usecase }

func NewQRHandler(uc *qr.Usecase) *QRHandler { return &QRHandler{uc: uc} }

type generateQRReq struct {
	DurationMinutes int `json:"duration_minutes" validate:"gte=0"`
}

func (h *QRHandler) Generate(c echo.Context) error {
	var req generateQRReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.Generate(c.Request().Context(), middleware.ActorFrom(c), c.Param("loan_id"), qr.GenerateInput{
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

type scanQRReq struct {
	Token string `json:"token" validate:"required"`
}

func (h *QRHandler) Validate(c echo.Context) error {
	var req scanQRReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.Validate(c.Request().Context(), middleware.ActorFrom(c), req.Token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *QRHandler) Revoke(c echo.Context) error {
	var req scanQRReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Revoke(c.Request().Context(), middleware.ActorFrom(c), req.Token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// GetStatus is a read-only poll endpoint; it never consumes the token.
func (h *QRHandler) GetStatus(c echo.Context) error {
	res, err := h.uc.GetStatus(c.Request().Context(), c.Param("token"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// CleanupExpired relabels active tokens past their deadline on demand.
// The scheduler runs the same sweep on a timer; this is the admin's
// manual trigger. Admin only.
func (h *QRHandler) CleanupExpired(c echo.Context) error {
	if !middleware.ActorFrom(c).Elevated() {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "admin role required"})
	}
	n, err := h.uc.CleanupExpired(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"expired": n})
}

func (h *QRHandler) ListForLoan(c echo.Context) error {
	dtos, err := h.uc.ListForLoan(c.Request().Context(), middleware.ActorFrom(c), c.Param("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
