package models

// Quote is the real-time quote payload returned by Finnhub /quote.
// Field names mirror the provider's single-letter JSON keys.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// CompanyProfile is the Finnhub /stock/profile2 payload (subset).
// MarketCapitalization is denominated in millions of USD.
type CompanyProfile struct {
	Name                 string  `json:"name"`
	Ticker               string  `json:"ticker"`
	Exchange             string  `json:"exchange"`
	Industry             string  `json:"finnhubIndustry"`
	Logo                 string  `json:"logo"`
	WebURL               string  `json:"weburl"`
	MarketCapitalization float64 `json:"marketCapitalization"`
}

// CompanyMetrics is the Finnhub /stock/metric payload (subset).
type CompanyMetrics struct {
	Metric struct {
		PERatio   float64 `json:"peRatio"`
		ForwardPE float64 `json:"forwardPE"`
		EPSTTM    float64 `json:"epsTTM"`
	} `json:"metric"`
}

// RecommendationTrend is one period of analyst rating counts from
// /stock/recommendation. The provider returns periods newest-first.
type RecommendationTrend struct {
	Period     string `json:"period"`
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
}

// Total returns the total number of analyst opinions in the period.
func (r RecommendationTrend) Total() int {
	return r.StrongBuy + r.Buy + r.Hold + r.Sell + r.StrongSell
}

// NewsArticle is one Finnhub /company-news entry.
type NewsArticle struct {
	ID       int64  `json:"id"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Image    string `json:"image"`
	Related  string `json:"related"`
}

// SymbolMatch is one Finnhub /search result entry.
type SymbolMatch struct {
	Symbol        string `json:"symbol"`
	DisplaySymbol string `json:"displaySymbol"`
	Description   string `json:"description"`
	Type          string `json:"type"`
}

// SearchResult is the Finnhub /search payload.
type SearchResult struct {
	Count  int           `json:"count"`
	Result []SymbolMatch `json:"result"`
}

// StockSummary is the merged per-symbol record produced by aggregation.
// Price, Change and ChangePercent always come from the quote; the pointer
// fields stay nil when the corresponding best-effort fetch yielded nothing.
// MarketCap is in billions of USD rounded to one decimal.
type StockSummary struct {
	Symbol        string   `json:"symbol"`
	Price         float64  `json:"price"`
	Change        float64  `json:"change"`
	ChangePercent float64  `json:"changePercent"`
	MarketCap     *float64 `json:"marketCap,omitempty"`
	PERatio       *float64 `json:"peRatio,omitempty"`
	ForwardPE     *float64 `json:"forwardPe,omitempty"`
	EPSTTM        *float64 `json:"epsTTM,omitempty"`
	AnalystRating string   `json:"analystRating,omitempty"`
	LogoURL       string   `json:"logoUrl,omitempty"`
}

// Trade is one tick from the Finnhub WebSocket trade stream.
type Trade struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}
