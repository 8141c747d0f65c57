package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"coopvest-backend/internal/adapter/middleware"
	featureDomain "coopvest-backend/internal/domain/feature"
	"coopvest-backend/internal/usecase/feature"
)

type FeatureHandler struct{ uc *feature.Usecase }

func NewFeatureHandler(uc *feature.Usecase) *FeatureHandler { return &FeatureHandler{uc: uc} }

func platformFrom(c echo.Context) featureDomain.Platform {
	if p := featureDomain.Platform(c.QueryParam("platform")); p == featureDomain.PlatformMobile {
		return featureDomain.PlatformMobile
	}
	return featureDomain.PlatformWeb
}

func (h *FeatureHandler) ListEnabled(c echo.Context) error {
	flags, err := h.uc.ListEnabled(c.Request().Context(), platformFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, flags)
}

func (h *FeatureHandler) GetStatus(c echo.Context) error {
	on, err := h.uc.IsEnabledFor(c.Request().Context(), c.Param("slug"), platformFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"slug": c.Param("slug"), "enabled": on})
}

type setFeatureReq struct {
	Enabled bool `json:"enabled"`
}

func (h *FeatureHandler) SetEnabled(c echo.Context) error {
	if !middleware.ActorFrom(c).Elevated() {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "admin role required"})
	}
	var req setFeatureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	f, err := h.uc.SetEnabled(c.Request().Context(), c.Param("slug"), req.Enabled)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}
