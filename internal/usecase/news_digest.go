package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	xlogger "MarketLens/pkg/logger"
)

const (
	digestLookback       = 5 * 24 * time.Hour
	digestMaxPerSymbol   = 3
	digestMaxSymbols     = 6
	digestMaxTotal       = 12
	digestSubjectPattern = "Your MarketLens news digest"
)

// NewsDigest emails each user a summary of recent news for the symbols on
// their watchlist.
type NewsDigest struct {
	watchlist drepo.WatchlistStore
	market    drepo.MarketData
	users     drepo.UserDirectory
	mailer    drepo.Mailer
	log       *xlogger.Logger
}

// NewNewsDigest creates a NewsDigest.
func NewNewsDigest(watchlist drepo.WatchlistStore, market drepo.MarketData, users drepo.UserDirectory, mailer drepo.Mailer, log *xlogger.Logger) *NewsDigest {
	return &NewsDigest{watchlist: watchlist, market: market, users: users, mailer: mailer, log: log}
}

// Run builds and sends digests for every user with a watchlist. Users
// without a delivery address or without recent news are skipped.
func (d *NewsDigest) Run(ctx context.Context) error {
	if !d.market.HasCredentials() {
		d.log.Warn("news digest skipped, market data credentials missing")
		return nil
	}

	userIDs, err := d.watchlist.UserIDs(ctx)
	if err != nil {
		return fmt.Errorf("digest users: %w", err)
	}

	sent := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.sendForUser(ctx, userID); err != nil {
			d.log.Warn("digest delivery failed",
				xlogger.String("user_id", userID),
				xlogger.Error(err))
			continue
		}
		sent++
	}

	d.log.Info("news digest run done",
		xlogger.Int("users", len(userIDs)),
		xlogger.Int("sent", sent))
	return nil
}

func (d *NewsDigest) sendForUser(ctx context.Context, userID string) error {
	user, err := d.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.Email == "" {
		return nil
	}

	symbols, err := d.watchlist.Symbols(ctx, userID)
	if err != nil {
		return err
	}
	if len(symbols) > digestMaxSymbols {
		symbols = symbols[:digestMaxSymbols]
	}

	articles := d.collect(ctx, symbols)
	if len(articles) == 0 {
		return nil
	}

	return d.mailer.Send(ctx, user.Email, digestSubjectPattern, digestHTML(user.Name, articles))
}

// collect fetches recent news per symbol, best-effort, capped per symbol
// and in total.
func (d *NewsDigest) collect(ctx context.Context, symbols []string) []models.NewsArticle {
	to := time.Now().UTC()
	from := to.Add(-digestLookback)

	out := make([]models.NewsArticle, 0, digestMaxTotal)
	for _, symbol := range symbols {
		if len(out) >= digestMaxTotal {
			break
		}
		articles, err := d.market.CompanyNews(ctx, symbol, from, to)
		if err != nil {
			continue
		}
		n := 0
		for _, a := range articles {
			if a.Headline == "" || a.URL == "" {
				continue
			}
			out = append(out, a)
			n++
			if n >= digestMaxPerSymbol || len(out) >= digestMaxTotal {
				break
			}
		}
	}
	return out
}

func digestHTML(name string, articles []models.NewsArticle) string {
	var b strings.Builder
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}
	fmt.Fprintf(&b, "<h2>%s,</h2><p>Here is the latest news for your watchlist:</p>", greeting)
	b.WriteString("<ul>")
	for _, a := range articles {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a> <i>(%s, %s)</i></li>`,
			a.URL, a.Headline, a.Related, a.Source)
	}
	b.WriteString("</ul>")
	return b.String()
}
