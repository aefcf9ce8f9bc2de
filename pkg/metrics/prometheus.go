package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal    *prometheus.CounterVec
	symbolsSkipped  *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
	alertsTriggered *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_provider_fetches_total",
				Help: "Total number of market-data provider fetches by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		symbolsSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_symbols_skipped_total",
				Help: "Total number of symbols dropped from aggregation output",
			},
			[]string{"reason"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketlens_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketlens_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		alertsTriggered: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_alerts_triggered_total",
				Help: "Total number of triggered price alerts by type",
			},
			[]string{"type"},
		),
	}
}

// RecordFetch records one provider fetch attempt.
func (r *Recorder) RecordFetch(endpoint, outcome string) {
	r.fetchesTotal.WithLabelValues(endpoint, outcome).Inc()
}

// RecordSymbolSkipped records a symbol omitted from aggregation output.
func (r *Recorder) RecordSymbolSkipped(reason string) {
	r.symbolsSkipped.WithLabelValues(reason).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordAlertTriggered records a fired price alert.
func (r *Recorder) RecordAlertTriggered(alertType string) {
	r.alertsTriggered.WithLabelValues(alertType).Inc()
}
