package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"MarketLens/internal/usecase"
	"MarketLens/pkg/cache"
	pkgch "MarketLens/pkg/clickhouse"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/postgres"
)

// App encapsulates the application lifecycle: the HTTP API, the live trade
// recorder and the cron-driven alert sweep and news digest jobs.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	handler   xhttp.Handler
	recorder  *usecase.TradeRecorder
	evaluator *usecase.AlertEvaluator
	digest    *usecase.NewsDigest

	chClient  *pkgch.Client
	pgClient  *postgres.Client
	cacheSvc  cache.Service
	scheduler *cron.Cron

	httpServer *xhttp.Server
}

// New creates an App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	recorder *usecase.TradeRecorder,
	evaluator *usecase.AlertEvaluator,
	digest *usecase.NewsDigest,
	chClient *pkgch.Client,
	pgClient *postgres.Client,
	cacheSvc cache.Service,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		recorder:  recorder,
		evaluator: evaluator,
		digest:    digest,
		chClient:  chClient,
		pgClient:  pgClient,
		cacheSvc:  cacheSvc,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.recorder != nil && len(a.cfg.Finnhub.StreamSymbols) > 0 && a.cfg.Finnhub.APIKey != "" {
		go func() {
			if err := a.recorder.Run(ctx); err != nil && ctx.Err() == nil {
				a.log.Error("trade recorder stopped", applogger.Error(err))
			}
		}()
		a.log.Info("trade recorder started",
			applogger.Strings("symbols", a.cfg.Finnhub.StreamSymbols))
	}

	if err := a.startJobs(ctx); err != nil {
		return err
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// startJobs schedules the alert sweep and news digest.
func (a *App) startJobs(ctx context.Context) error {
	a.scheduler = cron.New()

	if _, err := a.scheduler.AddFunc(a.cfg.Jobs.AlertSweepSpec, func() {
		if err := a.evaluator.Run(ctx); err != nil {
			a.log.Error("alert sweep error", applogger.Error(err))
		}
	}); err != nil {
		return err
	}

	if _, err := a.scheduler.AddFunc(a.cfg.Jobs.NewsDigestSpec, func() {
		if err := a.digest.Run(ctx); err != nil {
			a.log.Error("news digest error", applogger.Error(err))
		}
	}); err != nil {
		return err
	}

	a.scheduler.Start()
	a.log.Info("jobs scheduled",
		applogger.String("alert_sweep", a.cfg.Jobs.AlertSweepSpec),
		applogger.String("news_digest", a.cfg.Jobs.NewsDigestSpec))
	return nil
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.pgClient != nil {
		if err := a.pgClient.Close(); err != nil {
			a.log.Warn("postgres close error", applogger.Error(err))
		}
	}
	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
