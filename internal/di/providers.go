package di

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/repository"
	"MarketLens/internal/handler/api"
	internalrepo "MarketLens/internal/repository"
	"MarketLens/internal/service/finnhub"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/usecase"
	"MarketLens/pkg/cache"
	pkgch "MarketLens/pkg/clickhouse"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	pkgkafka "MarketLens/pkg/kafka"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/mailer"
	"MarketLens/pkg/metrics"
	"MarketLens/pkg/postgres"
	"MarketLens/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{
		Level:  "info",
		Format: format,
		Output: "stdout",
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the fetch-response cache: Redis when enabled,
// in-process memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Redis.Enabled {
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Redis.Host),
			cache.WithRedisPort(cfg.Redis.Port),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvidePostgresClient opens Postgres and runs migrations.
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, error) {
	client, err := postgres.NewClient(
		postgres.WithDSN(cfg.Postgres.DSN),
		postgres.WithMaxConnections(10, 5),
		postgres.WithQueryLogging(cfg.Environment == "development"),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres client: %w", err)
	}
	if err := client.Migrate(
		&models.User{},
		&models.WatchlistItem{},
		&models.Alert{},
	); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ProvideClickHouseClient creates the tick history client and its schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.QuoteHistorySchema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideRateLimiter creates the process-wide provider rate limiter.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.NewInterval(cfg.Finnhub.RequestInterval)
}

// ProvideMarketData creates the Finnhub REST client.
func ProvideMarketData(
	cfg *config.Config,
	limiter *ratelimit.Limiter,
	cacheSvc cache.Service,
	log *applogger.Logger,
	m repository.Metrics,
) repository.MarketData {
	return finnhub.New(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.BaseURL,
		limiter,
		cacheSvc,
		log,
		finnhub.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(cfg.Finnhub.RequestTimeout))),
		finnhub.WithProfileCacheTTL(cfg.Finnhub.ProfileCacheTTL),
		finnhub.WithMetrics(m),
	)
}

// ProvideMarketStream creates the Finnhub WebSocket stream.
func ProvideMarketStream(cfg *config.Config, log *applogger.Logger) repository.MarketStream {
	return finnhub.NewStream(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		cfg.Finnhub.StreamSymbols,
		cfg.Finnhub.ReconnectDelay,
		cfg.Finnhub.PingInterval,
		log,
	)
}

// ProvideWatchlistStore creates the Postgres watchlist store.
func ProvideWatchlistStore(pg *postgres.Client) repository.WatchlistStore {
	return internalrepo.NewGormWatchlistStore(pg.DB())
}

// ProvideAlertStore creates the Postgres alert store.
func ProvideAlertStore(pg *postgres.Client) repository.AlertStore {
	return internalrepo.NewGormAlertStore(pg.DB())
}

// ProvideUserDirectory creates the Postgres user directory.
func ProvideUserDirectory(pg *postgres.Client) repository.UserDirectory {
	return internalrepo.NewGormUserDirectory(pg.DB())
}

// ProvideQuoteHistory creates the ClickHouse tick history store.
func ProvideQuoteHistory(ch *pkgch.Client) repository.QuoteHistory {
	return internalrepo.NewCHQuoteHistory(ch)
}

// ProvideAlertEvents creates the alert event publisher, Kafka-backed when
// enabled, no-op otherwise.
func ProvideAlertEvents(cfg *config.Config) (repository.AlertEvents, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NewNopAlertEvents(), nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaAlertEvents(producer, cfg.Kafka.AlertsTopic), nil
}

// ProvideMailer creates the SMTP mailer, or a no-op when mail is disabled.
func ProvideMailer(cfg *config.Config) (repository.Mailer, error) {
	if !cfg.Mail.Enabled {
		return nopMailer{}, nil
	}
	return mailer.New(
		mailer.WithAddress(cfg.Mail.Host, cfg.Mail.Port),
		mailer.WithCredentials(cfg.Mail.Username, cfg.Mail.Password),
		mailer.WithSender(cfg.Mail.From, "MarketLens"),
	)
}

type nopMailer struct{}

func (nopMailer) Send(context.Context, string, string, string) error { return nil }

// ProvideStockAggregator creates the aggregation use case.
func ProvideStockAggregator(market repository.MarketData, log *applogger.Logger, m repository.Metrics) *usecase.StockAggregator {
	return usecase.NewStockAggregator(market, log, m)
}

// ProvideWatchlistUsecase creates the watchlist use case.
func ProvideWatchlistUsecase(store repository.WatchlistStore, market repository.MarketData, agg *usecase.StockAggregator) *usecase.WatchlistUsecase {
	return usecase.NewWatchlistUsecase(store, market, agg)
}

// ProvideAlertsUsecase creates the alert management use case.
func ProvideAlertsUsecase(store repository.AlertStore, market repository.MarketData) *usecase.AlertsUsecase {
	return usecase.NewAlertsUsecase(store, market)
}

// ProvideUsersUsecase creates the account use case.
func ProvideUsersUsecase(users repository.UserDirectory, m repository.Mailer, log *applogger.Logger) *usecase.UsersUsecase {
	return usecase.NewUsersUsecase(users, m, log)
}

// ProvideAlertEvaluator creates the alert sweep job.
func ProvideAlertEvaluator(
	alerts repository.AlertStore,
	market repository.MarketData,
	events repository.AlertEvents,
	users repository.UserDirectory,
	m repository.Mailer,
	log *applogger.Logger,
	rec repository.Metrics,
) *usecase.AlertEvaluator {
	return usecase.NewAlertEvaluator(alerts, market, events, users, m, log, rec)
}

// ProvideNewsDigest creates the news digest job.
func ProvideNewsDigest(
	watchlist repository.WatchlistStore,
	market repository.MarketData,
	users repository.UserDirectory,
	m repository.Mailer,
	log *applogger.Logger,
) *usecase.NewsDigest {
	return usecase.NewNewsDigest(watchlist, market, users, m, log)
}

// ProvideTradeRecorder creates the live tick recorder.
func ProvideTradeRecorder(stream repository.MarketStream, history repository.QuoteHistory, log *applogger.Logger, m repository.Metrics) *usecase.TradeRecorder {
	return usecase.NewTradeRecorder(stream, history, log, m)
}

// ProvideHealthChecks wires dependency pings for /healthz.
func ProvideHealthChecks(pg *postgres.Client, ch *pkgch.Client, cacheSvc cache.Service) api.HealthChecks {
	return api.HealthChecks{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := pg.DB().DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"ticks": ch.Health,
		"cache": func(ctx context.Context) error {
			_, err := cacheSvc.Exists(ctx, "healthz")
			return err
		},
	}
}

// ProvideRouter composes the HTTP API.
func ProvideRouter(
	log *applogger.Logger,
	agg *usecase.StockAggregator,
	market repository.MarketData,
	history repository.QuoteHistory,
	watchlist *usecase.WatchlistUsecase,
	alerts *usecase.AlertsUsecase,
	users *usecase.UsersUsecase,
	checks api.HealthChecks,
) xhttp.Handler {
	return api.NewRouter(
		api.NewStocksHandler(log, agg, market, history),
		api.NewWatchlistHandler(log, watchlist),
		api.NewAlertsHandler(log, alerts),
		api.NewUsersHandler(log, users),
		checks,
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	recorder *usecase.TradeRecorder,
	evaluator *usecase.AlertEvaluator,
	digest *usecase.NewsDigest,
	chClient *pkgch.Client,
	pgClient *postgres.Client,
	cacheSvc cache.Service,
) *server.App {
	return server.New(cfg, log, handler, recorder, evaluator, digest, chClient, pgClient, cacheSvc)
}
