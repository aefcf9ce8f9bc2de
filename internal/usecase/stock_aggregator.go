package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	xlogger "MarketLens/pkg/logger"
)

// StockAggregator merges quote, profile, valuation metric and analyst
// recommendation data into one summary per symbol. Symbols are processed
// strictly in order, one at a time; upstream pacing lives in the market
// data client, not here.
type StockAggregator struct {
	market  drepo.MarketData
	log     *xlogger.Logger
	metrics drepo.Metrics
}

// NewStockAggregator creates a StockAggregator.
func NewStockAggregator(market drepo.MarketData, log *xlogger.Logger, metrics drepo.Metrics) *StockAggregator {
	return &StockAggregator{market: market, log: log, metrics: metrics}
}

// Aggregate builds summaries for the given symbols. The result preserves
// input order and omits symbols whose quote could not be obtained, so it is
// an ordered subsequence of the input. An empty symbol list or missing
// provider credentials yield an empty slice, never an error.
func (a *StockAggregator) Aggregate(ctx context.Context, symbols []string) []models.StockSummary {
	out := make([]models.StockSummary, 0, len(symbols))
	if len(symbols) == 0 {
		return out
	}
	if !a.market.HasCredentials() {
		a.log.Warn("market data credentials missing, returning no summaries")
		return out
	}

	start := time.Now()
	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" {
			a.skip(symbol, "empty_symbol")
			continue
		}
		summary, ok := a.aggregateOne(ctx, symbol)
		if !ok {
			continue
		}
		out = append(out, summary)
	}
	if a.metrics != nil {
		a.metrics.RecordLatency("aggregate_batch", time.Since(start).Seconds())
	}
	return out
}

// aggregateOne builds one summary. The quote is mandatory: a failed fetch
// or a zero price drops the symbol. Profile, metrics and recommendations
// are independently best-effort; their failures only leave fields unset.
func (a *StockAggregator) aggregateOne(ctx context.Context, symbol string) (models.StockSummary, bool) {
	quote, err := a.market.Quote(ctx, symbol)
	if err != nil {
		a.skip(symbol, "quote_error")
		return models.StockSummary{}, false
	}
	if quote == nil || quote.Current == 0 {
		a.skip(symbol, "no_price")
		return models.StockSummary{}, false
	}

	summary := models.StockSummary{
		Symbol:        symbol,
		Price:         quote.Current,
		Change:        quote.Change,
		ChangePercent: quote.ChangePercent,
	}
	if a.metrics != nil {
		a.metrics.RecordLastPrice(symbol, quote.Current)
	}

	if profile, err := a.market.CompanyProfile(ctx, symbol); err == nil && profile != nil {
		if profile.MarketCapitalization > 0 {
			billions := marketCapBillions(profile.MarketCapitalization)
			summary.MarketCap = &billions
		}
		summary.LogoURL = profile.Logo
	}

	if metrics, err := a.market.CompanyMetrics(ctx, symbol); err == nil && metrics != nil {
		summary.PERatio = positive(metrics.Metric.PERatio)
		summary.ForwardPE = positive(metrics.Metric.ForwardPE)
		summary.EPSTTM = positive(metrics.Metric.EPSTTM)
	}

	if trends, err := a.market.RecommendationTrends(ctx, symbol); err == nil && len(trends) > 0 {
		// first element is the most recent period
		summary.AnalystRating = ratingLabel(trends[0])
	}

	return summary, true
}

func (a *StockAggregator) skip(symbol, reason string) {
	a.log.Warn("symbol skipped",
		xlogger.String("symbol", symbol),
		xlogger.String("reason", reason))
	if a.metrics != nil {
		a.metrics.RecordSymbolSkipped(reason)
	}
}

// marketCapBillions converts a market cap in millions of USD to billions
// rounded to one decimal, halves rounding away from zero.
func marketCapBillions(millions float64) float64 {
	return math.Round(millions/100) / 10
}

// positive returns a pointer to v when it is strictly positive, nil
// otherwise. Finnhub reports absent metrics as zero.
func positive(v float64) *float64 {
	if v > 0 {
		return &v
	}
	return nil
}

// ratingLabel maps a recommendation period to a consensus label via the
// opinion-weighted mean score (strong buy = 5 down to strong sell = 1).
// A period with no opinions yields no label.
func ratingLabel(t models.RecommendationTrend) string {
	total := t.Total()
	if total == 0 {
		return ""
	}
	score := float64(5*t.StrongBuy+4*t.Buy+3*t.Hold+2*t.Sell+1*t.StrongSell) / float64(total)
	switch {
	case score >= 4.5:
		return "Strong Buy"
	case score >= 3.5:
		return "Buy"
	case score >= 2.5:
		return "Hold"
	case score >= 1.5:
		return "Sell"
	default:
		return "Strong Sell"
	}
}
