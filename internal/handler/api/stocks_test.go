package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/usecase"
	xlogger "MarketLens/pkg/logger"
)

type stubMarket struct {
	quotes map[string]*models.Quote
}

func (s *stubMarket) HasCredentials() bool { return true }

func (s *stubMarket) Quote(_ context.Context, symbol string) (*models.Quote, error) {
	if q, ok := s.quotes[symbol]; ok {
		return q, nil
	}
	return nil, errors.New("status 502")
}

func (s *stubMarket) CompanyProfile(context.Context, string) (*models.CompanyProfile, error) {
	return nil, errors.New("unavailable")
}

func (s *stubMarket) CompanyMetrics(context.Context, string) (*models.CompanyMetrics, error) {
	return nil, errors.New("unavailable")
}

func (s *stubMarket) RecommendationTrends(context.Context, string) ([]models.RecommendationTrend, error) {
	return nil, errors.New("unavailable")
}

func (s *stubMarket) CompanyNews(context.Context, string, time.Time, time.Time) ([]models.NewsArticle, error) {
	return nil, errors.New("unavailable")
}

func (s *stubMarket) Search(context.Context, string) (*models.SearchResult, error) {
	return &models.SearchResult{Count: 1, Result: []models.SymbolMatch{{Symbol: "AAPL"}}}, nil
}

type stubHistory struct{}

func (stubHistory) StoreBatch(context.Context, []*models.Trade) error { return nil }
func (stubHistory) Query(context.Context, string, time.Time, time.Time, int) ([]*models.Trade, error) {
	return []*models.Trade{{Symbol: "AAPL", Price: 190, Timestamp: 1700000000}}, nil
}
func (stubHistory) Health(context.Context) error { return nil }

func newStocksHandler(market *stubMarket) *StocksHandler {
	agg := usecase.NewStockAggregator(market, xlogger.Nop(), nil)
	return NewStocksHandler(xlogger.Nop(), agg, market, stubHistory{})
}

func doRequest(t *testing.T, h echo.HandlerFunc, target string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestStocksEndpointSkipsUnknownSymbols(t *testing.T) {
	market := &stubMarket{quotes: map[string]*models.Quote{
		"AAPL": {Current: 190, Change: 1, ChangePercent: 0.5},
	}}
	rec := doRequest(t, newStocksHandler(market).Stocks, "/api/stocks?symbols=AAPL,ZZZZINVALID", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data []models.StockSummary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Symbol != "AAPL" {
		t.Fatalf("data = %+v", body.Data)
	}
}

func TestStocksEndpointRequiresSymbols(t *testing.T) {
	market := &stubMarket{}
	rec := doRequest(t, newStocksHandler(market).Stocks, "/api/stocks", nil)

	var body struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", body.Status)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	market := &stubMarket{}
	rec := doRequest(t, newStocksHandler(market).History, "/api/stocks/AAPL/history", map[string]string{"symbol": "aapl"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "AAPL") {
		t.Fatalf("body missing ticks: %s", rec.Body.String())
	}
}

func TestSearchEndpoint(t *testing.T) {
	market := &stubMarket{}
	rec := doRequest(t, newStocksHandler(market).Search, "/api/search?q=apple", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "AAPL") {
		t.Fatalf("body missing match: %s", rec.Body.String())
	}
}

func TestSplitSymbols(t *testing.T) {
	got := splitSymbols(" aapl, ,TSLA,")
	if len(got) != 2 || got[0] != "aapl" || got[1] != "TSLA" {
		t.Fatalf("splitSymbols = %v", got)
	}
}
