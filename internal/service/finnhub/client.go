package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/pkg/cache"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"
)

// Client consumes the Finnhub REST API. All outbound calls share one rate
// limiter; responses for slow-moving endpoints are cached so cache hits do
// not consume rate budget. Fetch failures are logged and surfaced as plain
// errors that callers absorb into "no data" per field or per symbol.
type Client struct {
	apiKey  string
	baseURL string

	http    *xhttp.Client
	limiter *ratelimit.Limiter
	cache   cache.Service
	log     *xlogger.Logger
	metrics drepo.Metrics

	profileTTL time.Duration
}

// Option configures Client.
type Option func(*Client)

// New creates a Finnhub REST client.
func New(apiKey, baseURL string, limiter *ratelimit.Limiter, store cache.Service, log *xlogger.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		http:       xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		limiter:    limiter,
		cache:      store,
		log:        log,
		profileTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithProfileCacheTTL sets the cache lifetime for profile/metrics/
// recommendation responses.
func WithProfileCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.profileTTL = ttl }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m drepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// HasCredentials reports whether an API key is configured.
func (c *Client) HasCredentials() bool { return c.apiKey != "" }

// Quote fetches the real-time quote. Never cached.
func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var q models.Quote
	if err := c.getJSON(ctx, "quote", "/quote", map[string]string{"symbol": symbol}, 0, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// CompanyProfile fetches the company profile. Cached: profiles change rarely.
func (c *Client) CompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	var p models.CompanyProfile
	if err := c.getJSON(ctx, "profile", "/stock/profile2", map[string]string{"symbol": symbol}, c.profileTTL, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CompanyMetrics fetches valuation metrics. Cached.
func (c *Client) CompanyMetrics(ctx context.Context, symbol string) (*models.CompanyMetrics, error) {
	var m models.CompanyMetrics
	query := map[string]string{"symbol": symbol, "metric": "all"}
	if err := c.getJSON(ctx, "metrics", "/stock/metric", query, c.profileTTL, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecommendationTrends fetches analyst rating periods, newest first.
func (c *Client) RecommendationTrends(ctx context.Context, symbol string) ([]models.RecommendationTrend, error) {
	var trends []models.RecommendationTrend
	if err := c.getJSON(ctx, "recommendation", "/stock/recommendation", map[string]string{"symbol": symbol}, c.profileTTL, &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

// CompanyNews fetches company news in the given date range.
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsArticle, error) {
	var articles []models.NewsArticle
	query := map[string]string{
		"symbol": symbol,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}
	if err := c.getJSON(ctx, "news", "/company-news", query, 10*time.Minute, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// Search looks up symbols matching the query.
func (c *Client) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	var res models.SearchResult
	if err := c.getJSON(ctx, "search", "/search", map[string]string{"q": query}, 10*time.Minute, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// getJSON performs one rate-limited GET against the provider and decodes
// the body into dest. When ttl > 0 the raw body is cached keyed by path and
// query; cache hits bypass both the network and the limiter.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query map[string]string, ttl time.Duration, dest interface{}) error {
	key := c.cacheKey(path, query)

	if ttl > 0 && c.cache != nil {
		var body []byte
		if err := c.cache.Get(ctx, key, &body); err == nil {
			if err := json.Unmarshal(body, dest); err == nil {
				c.recordFetch(endpoint, "cache_hit")
				return nil
			}
			// Corrupt entry: drop it and fall through to the network.
			_ = c.cache.Delete(ctx, key)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	full := map[string]string{"token": c.apiKey}
	for k, v := range query {
		full[k] = v
	}

	start := time.Now()
	var body []byte
	err := c.http.GetJSON(ctx, c.baseURL+path, full, &body)
	if c.metrics != nil {
		c.metrics.RecordLatency("finnhub_"+endpoint, time.Since(start).Seconds())
	}
	if err != nil {
		if xhttp.IsRateLimited(err) {
			c.recordFetch(endpoint, "rate_limited")
			c.log.Warn("finnhub rate limited", xlogger.String("endpoint", endpoint))
		} else {
			c.recordFetch(endpoint, "error")
			c.log.Warn("finnhub fetch failed", xlogger.String("endpoint", endpoint), xlogger.Error(err))
		}
		return fmt.Errorf("finnhub %s: %w", endpoint, err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.recordFetch(endpoint, "bad_body")
		c.log.Warn("finnhub response undecodable", xlogger.String("endpoint", endpoint), xlogger.Error(err))
		return fmt.Errorf("finnhub %s decode: %w", endpoint, err)
	}

	c.recordFetch(endpoint, "ok")
	if ttl > 0 && c.cache != nil {
		if err := c.cache.Set(ctx, key, body, ttl); err != nil {
			c.log.Warn("finnhub cache write failed", xlogger.Error(err))
		}
	}
	return nil
}

func (c *Client) cacheKey(path string, query map[string]string) string {
	raw := path
	for _, k := range []string{"symbol", "metric", "q", "from", "to"} {
		if v, ok := query[k]; ok {
			raw += ":" + v
		}
	}
	return cache.GenerateKey("finnhub", cache.HashKey(raw))
}

func (c *Client) recordFetch(endpoint, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordFetch(endpoint, outcome)
	}
}
