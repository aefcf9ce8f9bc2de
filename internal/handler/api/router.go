package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthChecks maps dependency names to ping functions for /healthz.
type HealthChecks map[string]func(context.Context) error

// Router composes all API handlers behind one route registrar.
type Router struct {
	stocks    *StocksHandler
	watchlist *WatchlistHandler
	alerts    *AlertsHandler
	users     *UsersHandler
	checks    HealthChecks
}

// NewRouter creates the composed Router.
func NewRouter(stocks *StocksHandler, watchlist *WatchlistHandler, alerts *AlertsHandler, users *UsersHandler, checks HealthChecks) *Router {
	return &Router{
		stocks:    stocks,
		watchlist: watchlist,
		alerts:    alerts,
		users:     users,
		checks:    checks,
	}
}

// RegisterRoutes mounts every API route plus the health probe.
func (r *Router) RegisterRoutes(e *echo.Echo) {
	r.stocks.RegisterRoutes(e)
	r.watchlist.RegisterRoutes(e)
	r.alerts.RegisterRoutes(e)
	r.users.RegisterRoutes(e)

	e.GET("/healthz", r.Healthz)
}

// Healthz reports liveness plus per-dependency reachability. The process
// stays "ok" even when a dependency is down; degraded stores only fail the
// requests that need them.
func (r *Router) Healthz(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	for name, check := range r.checks {
		if err := check(c.Request().Context()); err != nil {
			status[name] = "unavailable"
			continue
		}
		status[name] = "ok"
	}
	return c.JSON(http.StatusOK, status)
}
