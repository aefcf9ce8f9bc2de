package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	xlogger "MarketLens/pkg/logger"
)

// fakeMarket scripts per-symbol responses so aggregation behavior can be
// tested without a network.
type fakeMarket struct {
	quotes   map[string]*models.Quote
	profiles map[string]*models.CompanyProfile
	metrics  map[string]*models.CompanyMetrics
	trends   map[string][]models.RecommendationTrend
	noCreds  bool

	calls []string
}

func (f *fakeMarket) HasCredentials() bool { return !f.noCreds }

func (f *fakeMarket) Quote(_ context.Context, symbol string) (*models.Quote, error) {
	f.calls = append(f.calls, "quote:"+symbol)
	q, ok := f.quotes[symbol]
	if !ok {
		return nil, errors.New("status 502")
	}
	return q, nil
}

func (f *fakeMarket) CompanyProfile(_ context.Context, symbol string) (*models.CompanyProfile, error) {
	f.calls = append(f.calls, "profile:"+symbol)
	p, ok := f.profiles[symbol]
	if !ok {
		return nil, errors.New("status 429")
	}
	return p, nil
}

func (f *fakeMarket) CompanyMetrics(_ context.Context, symbol string) (*models.CompanyMetrics, error) {
	f.calls = append(f.calls, "metrics:"+symbol)
	m, ok := f.metrics[symbol]
	if !ok {
		return nil, errors.New("bad body")
	}
	return m, nil
}

func (f *fakeMarket) RecommendationTrends(_ context.Context, symbol string) ([]models.RecommendationTrend, error) {
	f.calls = append(f.calls, "recommendation:"+symbol)
	t, ok := f.trends[symbol]
	if !ok {
		return nil, errors.New("timeout")
	}
	return t, nil
}

func (f *fakeMarket) CompanyNews(context.Context, string, time.Time, time.Time) ([]models.NewsArticle, error) {
	return nil, errors.New("not scripted")
}

func (f *fakeMarket) Search(context.Context, string) (*models.SearchResult, error) {
	return nil, errors.New("not scripted")
}

func quote(price float64) *models.Quote {
	return &models.Quote{Current: price, Change: 1.5, ChangePercent: 0.8}
}

func newAggregator(m *fakeMarket) *StockAggregator {
	return NewStockAggregator(m, xlogger.Nop(), nil)
}

func TestAggregateEmptyInput(t *testing.T) {
	agg := newAggregator(&fakeMarket{})
	out := agg.Aggregate(context.Background(), nil)
	if out == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(out) != 0 {
		t.Fatalf("expected no summaries, got %d", len(out))
	}
}

func TestAggregateMissingCredentials(t *testing.T) {
	m := &fakeMarket{
		noCreds: true,
		quotes:  map[string]*models.Quote{"AAPL": quote(190)},
	}
	out := newAggregator(m).Aggregate(context.Background(), []string{"AAPL"})
	if len(out) != 0 {
		t.Fatalf("expected no summaries without credentials, got %d", len(out))
	}
	if len(m.calls) != 0 {
		t.Fatalf("expected no provider calls without credentials, got %v", m.calls)
	}
}

func TestAggregatePreservesOrderAndSkipsFailures(t *testing.T) {
	m := &fakeMarket{
		quotes: map[string]*models.Quote{
			"AAPL": quote(190),
			"TSLA": quote(250),
			"ZERO": quote(0), // no trading data
		},
	}
	out := newAggregator(m).Aggregate(context.Background(), []string{"AAPL", "MISSING", "ZERO", "TSLA"})

	if len(out) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(out))
	}
	if out[0].Symbol != "AAPL" || out[1].Symbol != "TSLA" {
		t.Fatalf("order not preserved: %s, %s", out[0].Symbol, out[1].Symbol)
	}
}

func TestAggregateSequentialPerSymbol(t *testing.T) {
	m := &fakeMarket{
		quotes: map[string]*models.Quote{"AAPL": quote(190), "TSLA": quote(250)},
	}
	newAggregator(m).Aggregate(context.Background(), []string{"AAPL", "TSLA"})

	// all AAPL fetches must precede the first TSLA fetch
	lastA, firstT := -1, -1
	for i, c := range m.calls {
		switch c {
		case "recommendation:AAPL":
			lastA = i
		case "quote:TSLA":
			if firstT == -1 {
				firstT = i
			}
		}
	}
	if lastA == -1 || firstT == -1 || lastA > firstT {
		t.Fatalf("symbols interleaved: %v", m.calls)
	}
}

func TestAggregateNormalizesSymbols(t *testing.T) {
	m := &fakeMarket{quotes: map[string]*models.Quote{"AAPL": quote(190)}}
	out := newAggregator(m).Aggregate(context.Background(), []string{" aapl "})
	if len(out) != 1 || out[0].Symbol != "AAPL" {
		t.Fatalf("expected normalized AAPL summary, got %+v", out)
	}
}

func TestAggregateOptionalFailuresLeaveFieldsUnset(t *testing.T) {
	m := &fakeMarket{
		quotes: map[string]*models.Quote{"AAPL": quote(190)},
		// profile, metrics and recommendation all fail
	}
	out := newAggregator(m).Aggregate(context.Background(), []string{"AAPL"})
	if len(out) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(out))
	}
	s := out[0]
	if s.Price != 190 {
		t.Fatalf("price = %v, want 190", s.Price)
	}
	if s.MarketCap != nil || s.PERatio != nil || s.ForwardPE != nil || s.EPSTTM != nil {
		t.Fatalf("optional numeric fields should be nil: %+v", s)
	}
	if s.AnalystRating != "" || s.LogoURL != "" {
		t.Fatalf("optional string fields should be empty: %+v", s)
	}
}

func TestAggregateMarketCapConversion(t *testing.T) {
	m := &fakeMarket{
		quotes: map[string]*models.Quote{"AAPL": quote(190)},
		profiles: map[string]*models.CompanyProfile{
			"AAPL": {MarketCapitalization: 2500000, Logo: "https://example.com/aapl.png"},
		},
	}
	out := newAggregator(m).Aggregate(context.Background(), []string{"AAPL"})
	if len(out) != 1 || out[0].MarketCap == nil {
		t.Fatalf("expected market cap, got %+v", out)
	}
	if got := *out[0].MarketCap; got != 2500.0 {
		t.Fatalf("market cap = %v, want 2500.0", got)
	}
	if out[0].LogoURL != "https://example.com/aapl.png" {
		t.Fatalf("logo url = %q", out[0].LogoURL)
	}
}

func TestMarketCapBillionsRounding(t *testing.T) {
	cases := []struct {
		millions float64
		want     float64
	}{
		{2500000, 2500.0},
		{1234567, 1234.6},
		{1250, 1.3}, // half rounds away from zero
		{49, 0},
		{50, 0.1},
	}
	for _, c := range cases {
		if got := marketCapBillions(c.millions); got != c.want {
			t.Fatalf("marketCapBillions(%v) = %v, want %v", c.millions, got, c.want)
		}
	}
}

func TestAggregateMetricsAcceptOnlyPositive(t *testing.T) {
	metrics := &models.CompanyMetrics{}
	metrics.Metric.PERatio = 28.4
	metrics.Metric.ForwardPE = 0   // absent
	metrics.Metric.EPSTTM = -1.25 // negative earnings reported as-is by provider

	m := &fakeMarket{
		quotes:  map[string]*models.Quote{"AAPL": quote(190)},
		metrics: map[string]*models.CompanyMetrics{"AAPL": metrics},
	}
	out := newAggregator(m).Aggregate(context.Background(), []string{"AAPL"})
	s := out[0]
	if s.PERatio == nil || *s.PERatio != 28.4 {
		t.Fatalf("pe ratio = %v, want 28.4", s.PERatio)
	}
	if s.ForwardPE != nil {
		t.Fatalf("forward pe should be nil for zero value")
	}
	if s.EPSTTM != nil {
		t.Fatalf("eps should be nil for negative value")
	}
}

func TestAggregateUsesMostRecentRecommendationPeriod(t *testing.T) {
	m := &fakeMarket{
		quotes: map[string]*models.Quote{"AAPL": quote(190)},
		trends: map[string][]models.RecommendationTrend{
			"AAPL": {
				{Period: "2026-08-01", StrongBuy: 10}, // newest first
				{Period: "2026-07-01", StrongSell: 10},
			},
		},
	}
	out := newAggregator(m).Aggregate(context.Background(), []string{"AAPL"})
	if out[0].AnalystRating != "Strong Buy" {
		t.Fatalf("rating = %q, want Strong Buy", out[0].AnalystRating)
	}
}

func TestRatingLabel(t *testing.T) {
	cases := []struct {
		name  string
		trend models.RecommendationTrend
		want  string
	}{
		{"all strong buy", models.RecommendationTrend{StrongBuy: 10}, "Strong Buy"},
		{"all hold", models.RecommendationTrend{Hold: 10}, "Hold"},
		{"all strong sell", models.RecommendationTrend{StrongSell: 4}, "Strong Sell"},
		{"buy leaning", models.RecommendationTrend{StrongBuy: 5, Buy: 10, Hold: 5}, "Buy"},
		{"sell leaning", models.RecommendationTrend{Hold: 2, Sell: 8, StrongSell: 2}, "Sell"},
		{"boundary 4.5 is strong buy", models.RecommendationTrend{StrongBuy: 1, Buy: 1}, "Strong Buy"},
		{"no opinions", models.RecommendationTrend{}, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ratingLabel(c.trend); got != c.want {
				t.Fatalf("ratingLabel(%+v) = %q, want %q", c.trend, got, c.want)
			}
		})
	}
}

func TestAggregateIdempotentForStableData(t *testing.T) {
	m := &fakeMarket{
		quotes: map[string]*models.Quote{"AAPL": quote(190), "TSLA": quote(250)},
		profiles: map[string]*models.CompanyProfile{
			"AAPL": {MarketCapitalization: 2900000},
		},
	}
	agg := newAggregator(m)
	first := agg.Aggregate(context.Background(), []string{"AAPL", "TSLA"})
	second := agg.Aggregate(context.Background(), []string{"AAPL", "TSLA"})

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.Symbol != b.Symbol || a.Price != b.Price {
			t.Fatalf("runs differ at %d: %+v vs %+v", i, a, b)
		}
		if (a.MarketCap == nil) != (b.MarketCap == nil) {
			t.Fatalf("market cap presence differs at %d", i)
		}
		if a.MarketCap != nil && *a.MarketCap != *b.MarketCap {
			t.Fatalf("market cap differs at %d", i)
		}
	}
}
