package usecase

import (
	"context"
	"testing"
	"time"

	"MarketLens/internal/domain/models"
	xlogger "MarketLens/pkg/logger"
)

type fakeAlertStore struct {
	active    []models.Alert
	triggered []string
}

func (f *fakeAlertStore) Create(context.Context, *models.Alert) error { return nil }
func (f *fakeAlertStore) List(context.Context, string, string) ([]models.Alert, error) {
	return nil, nil
}
func (f *fakeAlertStore) ListActive(context.Context) ([]models.Alert, error) {
	return f.active, nil
}
func (f *fakeAlertStore) Delete(context.Context, string, string) error         { return nil }
func (f *fakeAlertStore) SetActive(context.Context, string, string, bool) error { return nil }
func (f *fakeAlertStore) MarkTriggered(_ context.Context, id string, _ time.Time) error {
	f.triggered = append(f.triggered, id)
	return nil
}

type fakeEvents struct {
	published []*models.AlertEvent
}

func (f *fakeEvents) Publish(_ context.Context, ev *models.AlertEvent) error {
	f.published = append(f.published, ev)
	return nil
}
func (f *fakeEvents) Close() error { return nil }

type fakeUsers struct {
	byID map[string]*models.User
}

func (f *fakeUsers) Register(context.Context, *models.User) error { return nil }
func (f *fakeUsers) Get(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, context.Canceled
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) Send(_ context.Context, to, subject, _ string) error {
	f.sent = append(f.sent, to+": "+subject)
	return nil
}

func ptr(v float64) *float64 { return &v }

func newEvaluator(alerts *fakeAlertStore, market *fakeMarket, events *fakeEvents, users *fakeUsers, mail *fakeMailer) *AlertEvaluator {
	return NewAlertEvaluator(alerts, market, events, users, mail, xlogger.Nop(), nil)
}

func TestEvaluatorTriggersAboveAlert(t *testing.T) {
	alerts := &fakeAlertStore{active: []models.Alert{
		{ID: "a1", UserID: "u1", Symbol: "AAPL", AlertType: models.AlertAbove, PriceTarget: ptr(180)},
	}}
	market := &fakeMarket{quotes: map[string]*models.Quote{"AAPL": quote(190)}}
	events := &fakeEvents{}
	users := &fakeUsers{byID: map[string]*models.User{"u1": {ID: "u1", Email: "u1@example.com"}}}
	mail := &fakeMailer{}

	if err := newEvaluator(alerts, market, events, users, mail).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(alerts.triggered) != 1 || alerts.triggered[0] != "a1" {
		t.Fatalf("triggered = %v, want [a1]", alerts.triggered)
	}
	if len(events.published) != 1 || events.published[0].Symbol != "AAPL" {
		t.Fatalf("published = %+v", events.published)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("mail sent = %v", mail.sent)
	}
}

func TestEvaluatorBelowNotTriggered(t *testing.T) {
	alerts := &fakeAlertStore{active: []models.Alert{
		{ID: "a1", UserID: "u1", Symbol: "AAPL", AlertType: models.AlertBelow, PriceTarget: ptr(180)},
	}}
	market := &fakeMarket{quotes: map[string]*models.Quote{"AAPL": quote(190)}}
	events := &fakeEvents{}
	users := &fakeUsers{byID: map[string]*models.User{}}
	mail := &fakeMailer{}

	if err := newEvaluator(alerts, market, events, users, mail).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(alerts.triggered) != 0 {
		t.Fatalf("triggered = %v, want none", alerts.triggered)
	}
}

func TestEvaluatorChangeAlertUsesAbsolutePercent(t *testing.T) {
	down := &models.Quote{Current: 100, ChangePercent: -6.5}
	alerts := &fakeAlertStore{active: []models.Alert{
		{ID: "a1", UserID: "u1", Symbol: "TSLA", AlertType: models.AlertChange, Threshold: 5},
	}}
	market := &fakeMarket{quotes: map[string]*models.Quote{"TSLA": down}}
	events := &fakeEvents{}
	users := &fakeUsers{byID: map[string]*models.User{}}
	mail := &fakeMailer{}

	if err := newEvaluator(alerts, market, events, users, mail).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(alerts.triggered) != 1 {
		t.Fatalf("triggered = %v, want [a1]", alerts.triggered)
	}
}

func TestEvaluatorQuoteFailureLeavesAlertArmed(t *testing.T) {
	alerts := &fakeAlertStore{active: []models.Alert{
		{ID: "a1", UserID: "u1", Symbol: "GONE", AlertType: models.AlertChange, Threshold: 1},
	}}
	market := &fakeMarket{quotes: map[string]*models.Quote{}}
	events := &fakeEvents{}
	users := &fakeUsers{byID: map[string]*models.User{}}
	mail := &fakeMailer{}

	if err := newEvaluator(alerts, market, events, users, mail).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(alerts.triggered) != 0 {
		t.Fatalf("triggered = %v, want none", alerts.triggered)
	}
}

func TestEvaluatorFetchesEachSymbolOnce(t *testing.T) {
	alerts := &fakeAlertStore{active: []models.Alert{
		{ID: "a1", UserID: "u1", Symbol: "AAPL", AlertType: models.AlertChange, Threshold: 50},
		{ID: "a2", UserID: "u2", Symbol: "AAPL", AlertType: models.AlertChange, Threshold: 50},
	}}
	market := &fakeMarket{quotes: map[string]*models.Quote{"AAPL": quote(190)}}
	events := &fakeEvents{}
	users := &fakeUsers{byID: map[string]*models.User{}}
	mail := &fakeMailer{}

	if err := newEvaluator(alerts, market, events, users, mail).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	count := 0
	for _, c := range market.calls {
		if c == "quote:AAPL" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("quote fetched %d times, want 1", count)
	}
}

func TestShouldTriggerMissingPriceTarget(t *testing.T) {
	a := models.Alert{AlertType: models.AlertAbove}
	if shouldTrigger(a, quote(100)) {
		t.Fatalf("above alert without target must not trigger")
	}
}
