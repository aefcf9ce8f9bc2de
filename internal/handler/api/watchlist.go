package api

import (
	"github.com/labstack/echo/v4"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"
)

// WatchlistHandler serves per-user watchlist endpoints.
type WatchlistHandler struct {
	logger    *xlogger.Logger
	watchlist *usecase.WatchlistUsecase
}

// NewWatchlistHandler creates a WatchlistHandler.
func NewWatchlistHandler(logger *xlogger.Logger, watchlist *usecase.WatchlistUsecase) *WatchlistHandler {
	return &WatchlistHandler{logger: logger, watchlist: watchlist}
}

// RegisterRoutes mounts watchlist routes.
func (h *WatchlistHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/watchlist")
	g.GET("", h.List)
	g.GET("/summaries", h.Summaries)
	g.POST("", h.Add)
	g.DELETE("/:symbol", h.Remove)
}

// List returns the caller's watchlist entries.
func (h *WatchlistHandler) List(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return xhttp.UnauthorizedResponse(c, "user id required")
	}

	items, err := h.watchlist.List(c.Request().Context(), uid)
	if err != nil {
		h.logger.Error("watchlist list error", xlogger.String("user_id", uid), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, items)
}

// Summaries returns aggregated market data for the caller's watchlist.
func (h *WatchlistHandler) Summaries(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return xhttp.UnauthorizedResponse(c, "user id required")
	}

	summaries, err := h.watchlist.Summaries(c.Request().Context(), uid)
	if err != nil {
		h.logger.Error("watchlist summaries error", xlogger.String("user_id", uid), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, summaries)
}

// Add puts a symbol on the caller's watchlist.
func (h *WatchlistHandler) Add(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return xhttp.UnauthorizedResponse(c, "user id required")
	}

	req := &models.AddWatchlistRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	item, err := h.watchlist.Add(c.Request().Context(), uid, req.Symbol, req.Company)
	if err != nil {
		h.logger.Error("watchlist add error", xlogger.String("user_id", uid), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, item)
}

// Remove drops a symbol from the caller's watchlist.
func (h *WatchlistHandler) Remove(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return xhttp.UnauthorizedResponse(c, "user id required")
	}

	if err := h.watchlist.Remove(c.Request().Context(), uid, c.Param("symbol")); err != nil {
		h.logger.Error("watchlist remove error", xlogger.String("user_id", uid), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}
