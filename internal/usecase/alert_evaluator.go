package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	xlogger "MarketLens/pkg/logger"
)

// AlertEvaluator periodically checks active alerts against live quotes.
// Triggered alerts fire once: they are deactivated, published as events
// and delivered by email.
type AlertEvaluator struct {
	alerts  drepo.AlertStore
	market  drepo.MarketData
	events  drepo.AlertEvents
	users   drepo.UserDirectory
	mailer  drepo.Mailer
	log     *xlogger.Logger
	metrics drepo.Metrics
}

// NewAlertEvaluator creates an AlertEvaluator.
func NewAlertEvaluator(
	alerts drepo.AlertStore,
	market drepo.MarketData,
	events drepo.AlertEvents,
	users drepo.UserDirectory,
	mailer drepo.Mailer,
	log *xlogger.Logger,
	metrics drepo.Metrics,
) *AlertEvaluator {
	return &AlertEvaluator{
		alerts:  alerts,
		market:  market,
		events:  events,
		users:   users,
		mailer:  mailer,
		log:     log,
		metrics: metrics,
	}
}

// Run evaluates all active alerts once. Quotes are fetched one per symbol;
// a failed quote leaves that symbol's alerts armed for the next sweep.
func (e *AlertEvaluator) Run(ctx context.Context) error {
	alerts, err := e.alerts.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active alerts: %w", err)
	}
	if len(alerts) == 0 {
		return nil
	}
	if !e.market.HasCredentials() {
		e.log.Warn("alert sweep skipped, market data credentials missing")
		return nil
	}

	quotes := make(map[string]*models.Quote)
	for _, a := range alerts {
		if _, seen := quotes[a.Symbol]; seen {
			continue
		}
		q, err := e.market.Quote(ctx, a.Symbol)
		if err != nil || q == nil || q.Current == 0 {
			quotes[a.Symbol] = nil
			continue
		}
		quotes[a.Symbol] = q
	}

	triggered := 0
	for _, a := range alerts {
		q := quotes[a.Symbol]
		if q == nil {
			continue
		}
		if !shouldTrigger(a, q) {
			continue
		}
		if err := e.fire(ctx, a, q); err != nil {
			e.log.Error("alert fire failed",
				xlogger.String("alert_id", a.ID),
				xlogger.Error(err))
			continue
		}
		triggered++
	}

	if triggered > 0 {
		e.log.Info("alert sweep done",
			xlogger.Int("active", len(alerts)),
			xlogger.Int("triggered", triggered))
	}
	return nil
}

func (e *AlertEvaluator) fire(ctx context.Context, a models.Alert, q *models.Quote) error {
	now := time.Now().UTC()
	if err := e.alerts.MarkTriggered(ctx, a.ID, now); err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.RecordAlertTriggered(a.AlertType)
	}

	ev := &models.AlertEvent{
		AlertID:     a.ID,
		UserID:      a.UserID,
		Symbol:      a.Symbol,
		AlertType:   a.AlertType,
		Price:       q.Current,
		ChangePct:   q.ChangePercent,
		TriggeredAt: now,
	}
	if err := e.events.Publish(ctx, ev); err != nil {
		e.log.Warn("alert event publish failed",
			xlogger.String("alert_id", a.ID),
			xlogger.Error(err))
	}

	user, err := e.users.Get(ctx, a.UserID)
	if err != nil || user.Email == "" {
		// no delivery address, event stream is the only notification
		return nil
	}
	subject := fmt.Sprintf("MarketLens alert: %s %s", a.Symbol, describeTrigger(a, q))
	if err := e.mailer.Send(ctx, user.Email, subject, alertEmailHTML(a, q)); err != nil {
		e.log.Warn("alert email failed",
			xlogger.String("alert_id", a.ID),
			xlogger.Error(err))
	}
	return nil
}

// shouldTrigger applies the alert condition to the quote.
func shouldTrigger(a models.Alert, q *models.Quote) bool {
	switch a.AlertType {
	case models.AlertAbove:
		return a.PriceTarget != nil && q.Current >= *a.PriceTarget
	case models.AlertBelow:
		return a.PriceTarget != nil && q.Current <= *a.PriceTarget
	case models.AlertChange:
		return math.Abs(q.ChangePercent) >= a.Threshold
	default:
		return false
	}
}

func describeTrigger(a models.Alert, q *models.Quote) string {
	switch a.AlertType {
	case models.AlertAbove:
		return fmt.Sprintf("rose above %.2f", *a.PriceTarget)
	case models.AlertBelow:
		return fmt.Sprintf("fell below %.2f", *a.PriceTarget)
	default:
		return fmt.Sprintf("moved %.2f%% today", q.ChangePercent)
	}
}

func alertEmailHTML(a models.Alert, q *models.Quote) string {
	name := a.Company
	if name == "" {
		name = a.Symbol
	}
	return fmt.Sprintf(
		`<h2>%s (%s)</h2><p>%s.</p><p>Current price: <b>$%.2f</b> (%+.2f%% today)</p>`,
		name, a.Symbol, describeTrigger(a, q), q.Current, q.ChangePercent,
	)
}
