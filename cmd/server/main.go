package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/ticketing-gateway/internal/apiclient"
	"github.com/iliyamo/ticketing-gateway/internal/config"
	"github.com/iliyamo/ticketing-gateway/internal/database"
	"github.com/iliyamo/ticketing-gateway/internal/handler"
	"github.com/iliyamo/ticketing-gateway/internal/logger"
	"github.com/iliyamo/ticketing-gateway/internal/metrics"
	"github.com/iliyamo/ticketing-gateway/internal/middleware"
	"github.com/iliyamo/ticketing-gateway/internal/queue"
	"github.com/iliyamo/ticketing-gateway/internal/repository"
	"github.com/iliyamo/ticketing-gateway/internal/router"
	"github.com/iliyamo/ticketing-gateway/internal/service"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	log := logger.NewWithOutput("ticketing-gateway", cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	api := apiclient.New(apiclient.Options{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Logger:  log.WithField("component", "apiclient"),
		Metrics: m,
	})

	health := &handler.Health{Checks: map[string]handler.Pinger{}}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting and caching disabled")
	} else {
		defer rdb.Close()
		health.Checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log.WithField("component", "ratelimit"))

	var activity handler.ActivityLister
	if cfg.AuditEnabled() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.WithError(err).Fatal("audit database unavailable")
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			log.WithError(err).Fatal("audit migration failed")
		}
		health.Checks["mysql"] = db.PingContext
		repo := repository.NewActivityRepo(db)
		activity = repo
		startConsumer(ctx, cfg.RabbitURL, repo, log)
	} else {
		log.Info("DB_HOST not set; activity log disabled")
	}

	deps := &handler.Deps{
		API:       api,
		Publisher: service.NewPublisher(cfg.RabbitURL, log.WithField("component", "publisher"), m),
		Cache:     cache,
		Log:       log,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log.WithField("component", "http")))
	e.Use(m.Middleware())

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = m.Handler()
	}
	opts := router.Options{JWTSecret: cfg.JWTSecret, Limiter: limiter, Cache: cache}
	auth := handler.NewAuthHandler(deps)
	events := handler.NewEventHandler(deps)
	txs := handler.NewTransactionHandler(deps)

	router.RegisterRoutes(e, health, metricsHandler)
	router.RegisterCommon(e, auth, events, opts)
	router.RegisterOrganizer(e, events, handler.NewReportHandler(deps, apiclient.ScopeOrganizer), opts)
	router.RegisterAdmin(e, handler.NewReportHandler(deps, apiclient.ScopeAdmin), txs, handler.NewActivityHandler(deps, activity), opts)
	router.RegisterAttendee(e, auth, txs, handler.NewTopUpHandler(deps), opts)

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set; bearer tokens are not verified locally")
	}

	go func() {
		addr := ":" + cfg.Port
		log.Infof("listening on %s (env=%s, backend=%s)", addr, cfg.Env, cfg.BackendURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}

// startConsumer drains the activity queue into the audit log until ctx ends.
func startConsumer(ctx context.Context, url string, repo *repository.ActivityRepo, log *logrus.Entry) {
	c := &queue.Consumer{
		URL:         url,
		Sink:        repo,
		Log:         log.WithField("component", "activity-consumer"),
		IsDuplicate: func(err error) bool { return errors.Is(err, repository.ErrDuplicate) },
	}
	go func() {
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("activity consumer stopped")
		}
	}()
}
