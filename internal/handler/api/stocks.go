package api

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"
)

// StocksHandler serves market data endpoints.
type StocksHandler struct {
	logger  *xlogger.Logger
	agg     *usecase.StockAggregator
	market  drepo.MarketData
	history drepo.QuoteHistory
}

// NewStocksHandler creates a StocksHandler.
func NewStocksHandler(logger *xlogger.Logger, agg *usecase.StockAggregator, market drepo.MarketData, history drepo.QuoteHistory) *StocksHandler {
	return &StocksHandler{logger: logger, agg: agg, market: market, history: history}
}

// RegisterRoutes mounts market data routes.
func (h *StocksHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/stocks", h.Stocks)
	g.GET("/stocks/:symbol", h.Stock)
	g.GET("/stocks/:symbol/history", h.History)
	g.GET("/stocks/:symbol/news", h.News)
	g.GET("/search", h.Search)
}

// Stocks aggregates summaries for a comma-separated symbol list. Symbols
// the provider cannot quote are omitted from the response.
func (h *StocksHandler) Stocks(c echo.Context) error {
	req := &models.StocksRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	symbols := splitSymbols(req.Symbols)
	summaries := h.agg.Aggregate(c.Request().Context(), symbols)
	return xhttp.SuccessResponse(c, summaries)
}

// Stock aggregates a single symbol, 404 when no quote is available.
func (h *StocksHandler) Stock(c echo.Context) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol required")
	}

	summaries := h.agg.Aggregate(c.Request().Context(), []string{symbol})
	if len(summaries) == 0 {
		return xhttp.NotFoundResponse(c, "no data for symbol")
	}
	return xhttp.SuccessResponse(c, summaries[0])
}

// History returns recent ticks for one symbol, newest first.
func (h *StocksHandler) History(c echo.Context) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol required")
	}

	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	from := xhttp.ParseTimeDefault(req.From, now.Add(-24*time.Hour))
	to := xhttp.ParseTimeDefault(req.To, now)

	ticks, err := h.history.Query(c.Request().Context(), symbol, from, to, req.Limit)
	if err != nil {
		h.logger.Error("history query error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, ticks)
}

// News returns recent company news for one symbol.
func (h *StocksHandler) News(c echo.Context) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol required")
	}

	to := time.Now().UTC()
	from := to.Add(-7 * 24 * time.Hour)
	articles, err := h.market.CompanyNews(c.Request().Context(), symbol, from, to)
	if err != nil {
		// provider failures degrade to an empty feed
		return xhttp.SuccessResponse(c, []models.NewsArticle{})
	}
	return xhttp.SuccessResponse(c, articles)
}

// Search looks up symbols matching a query string.
func (h *StocksHandler) Search(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.market.Search(c.Request().Context(), req.Query)
	if err != nil {
		return xhttp.SuccessResponse(c, &models.SearchResult{Result: []models.SymbolMatch{}})
	}
	return xhttp.SuccessResponse(c, res)
}

// splitSymbols parses a comma-separated symbol list, dropping empties.
func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
