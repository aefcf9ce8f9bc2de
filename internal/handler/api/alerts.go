package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/repository"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"
)

// AlertsHandler serves per-user price alert endpoints.
type AlertsHandler struct {
	logger *xlogger.Logger
	alerts *usecase.AlertsUsecase
}

// NewAlertsHandler creates an AlertsHandler.
func NewAlertsHandler(logger *xlogger.Logger, alerts *usecase.AlertsUsecase) *AlertsHandler {
	return &AlertsHandler{logger: logger, alerts: alerts}
}

// RegisterRoutes mounts alert routes.
func (h *AlertsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/alerts")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/status", h.SetStatus)
}

// List returns the caller's alerts, optionally filtered by symbol.
func (h *AlertsHandler) List(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return xhttp.UnauthorizedResponse(c, "user id required")
	}

	alerts, err := h.alerts.List(c.Request().Context(), uid, c.QueryParam("symbol"))
	if err != nil {
		h.logger.Error("alerts list error", xlogger.String("user_id", uid), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, alerts)
}

// Create registers a new alert for the caller. A previous active alert on
// the same symbol is deactivated.
func (h *AlertsHandler) Create(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return xhttp.UnauthorizedResponse(c, "user id required")
	}

	req := &models.CreateAlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if (req.AlertType == models.AlertAbove || req.AlertType == models.AlertBelow) && req.PriceTarget == nil {
		return xhttp.BadRequestResponse(c, "priceTarget required for above/below alerts")
	}

	alert := &models.Alert{
		UserID:      uid,
		Symbol:      req.Symbol,
		Company:     req.Company,
		AlertType:   req.AlertType,
		Threshold:   req.Threshold,
		PriceTarget: req.PriceTarget,
	}
	created, err := h.alerts.Create(c.Request().Context(), alert)
	if err != nil {
		h.logger.Error("alert create error", xlogger.String("user_id", uid), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, created)
}

// Delete removes the caller's alert.
func (h *AlertsHandler) Delete(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return xhttp.UnauthorizedResponse(c, "user id required")
	}

	if err := h.alerts.Delete(c.Request().Context(), uid, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			return xhttp.NotFoundResponse(c, "alert not found")
		}
		h.logger.Error("alert delete error", xlogger.String("user_id", uid), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

// SetStatus arms or disarms the caller's alert.
func (h *AlertsHandler) SetStatus(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return xhttp.UnauthorizedResponse(c, "user id required")
	}

	req := &models.UpdateAlertStatusRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.alerts.SetActive(c.Request().Context(), uid, c.Param("id"), *req.Active); err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			return xhttp.NotFoundResponse(c, "alert not found")
		}
		h.logger.Error("alert status error", xlogger.String("user_id", uid), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}
