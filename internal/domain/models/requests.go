package models

// StocksRequest binds GET /api/stocks query parameters.
type StocksRequest struct {
	Symbols string `query:"symbols" validate:"required"`
}

// HistoryRequest binds GET /api/stocks/:symbol/history query parameters.
type HistoryRequest struct {
	From  string `query:"from"`
	To    string `query:"to"`
	Limit int    `query:"limit" default:"500" validate:"gte=1,lte=10000"`
}

// SearchRequest binds GET /api/search query parameters.
type SearchRequest struct {
	Query string `query:"q" validate:"required,min=1"`
}

// AddWatchlistRequest binds POST /api/watchlist bodies.
type AddWatchlistRequest struct {
	Symbol  string `json:"symbol" validate:"required,min=1,max=16"`
	Company string `json:"company" validate:"max=128"`
}

// CreateAlertRequest binds POST /api/alerts bodies.
type CreateAlertRequest struct {
	Symbol      string   `json:"symbol" validate:"required,min=1,max=16"`
	Company     string   `json:"company" validate:"max=128"`
	AlertType   string   `json:"alertType" default:"change" validate:"oneof=above below change"`
	Threshold   float64  `json:"threshold" default:"5"`
	PriceTarget *float64 `json:"priceTarget,omitempty"`
}

// RegisterUserRequest binds POST /api/users bodies.
type RegisterUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=128"`
}

// UpdateAlertStatusRequest binds PATCH /api/alerts/:id/status bodies.
type UpdateAlertStatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}
