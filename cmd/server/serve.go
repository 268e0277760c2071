package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/car-rental-booking/internal/config"
	"github.com/iliyamo/car-rental-booking/internal/database"
	"github.com/iliyamo/car-rental-booking/internal/handler"
	"github.com/iliyamo/car-rental-booking/internal/logger"
	"github.com/iliyamo/car-rental-booking/internal/middleware"
	"github.com/iliyamo/car-rental-booking/internal/queue"
	"github.com/iliyamo/car-rental-booking/internal/repository"
	"github.com/iliyamo/car-rental-booking/internal/router"
	"github.com/iliyamo/car-rental-booking/internal/service"
	"github.com/iliyamo/car-rental-booking/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func serve(c *cli.Context) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()
	defer logger.Sync()
	log := logger.L()

	if cfg.MigrateOnStart {
		if err := database.MigrateUp(db); err != nil {
			return errors.Wrap(err, "migrate on start")
		}
	}

	if cfg.Telemetry.JaegerEndpoint != "" {
		tp, err := telemetry.InitTracer(cfg.Telemetry.ServiceName, cfg.Telemetry.JaegerEndpoint)
		if err != nil {
			log.Warn("tracing disabled", zap.Error(err))
		} else {
			defer func() { _ = tp.Shutdown(context.Background()) }()
		}
	}

	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		return errors.Wrap(err, "load rate limit config")
	}
	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		return errors.Wrap(err, "load cache config")
	}
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; running without cache and rate limit")
	} else {
		defer rdb.Close()
	}

	var publisher queue.Publisher = queue.NopPublisher{}
	if cfg.Broker.Enabled {
		p := queue.NewAMQPPublisher(cfg.Broker.URL, log)
		defer p.Close()
		publisher = p
	}

	cars := repository.NewCarRepo(db)
	locations := repository.NewLocationRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	reservations := repository.NewReservationRepo(db)
	payments := repository.NewPaymentRepo(db)
	store := repository.NewStore(db, cars, reservations, payments)

	var invalidator service.CacheInvalidator
	if inv := middleware.NewCatalogInvalidator(rdb, cacheCfg.Prefix); inv != nil {
		invalidator = inv
	}
	engine := service.NewReservationService(store, reservations, cars, publisher, invalidator, log)
	paymentSvc := service.NewPaymentService(store, payments, publisher, log)
	reportSvc := service.NewReportService(reservations)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger(log), middleware.Prometheus(), echomw.Recover())

	limit := middleware.NewTokenBucket(rlCfg, rdb, log)
	cache := middleware.NewRedisCache(cacheCfg, rdb, log)
	reports := handler.NewReportHandler(reportSvc, log)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, log), cfg.JWTSecret, limit)
	router.RegisterCatalog(e, handler.NewCatalogHandler(cars, locations, engine, log), limit, cache)
	router.RegisterCustomer(e, handler.NewReservationHandler(engine, log), handler.NewPaymentHandler(paymentSvc, log), reports, cfg.JWTSecret, limit)
	router.RegisterAdmin(e, reports, cfg.JWTSecret, limit)

	g, ctx := errgroup.WithContext(c.Context)
	addr := ":" + cfg.Port
	g.Go(func() error {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})
	if cfg.Broker.Enabled {
		consumer := &queue.AuditConsumer{URL: cfg.Broker.URL, LogPath: cfg.Broker.AuditLogPath, Log: log}
		g.Go(func() error { return consumer.Run(ctx) })
	}
	return g.Wait()
}
