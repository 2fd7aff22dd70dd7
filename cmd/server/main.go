package main

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
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/flight-seat-manager/internal/config"
	"github.com/iliyamo/flight-seat-manager/internal/handler"
	"github.com/iliyamo/flight-seat-manager/internal/logger"
	"github.com/iliyamo/flight-seat-manager/internal/manifest"
	"github.com/iliyamo/flight-seat-manager/internal/middleware"
	"github.com/iliyamo/flight-seat-manager/internal/notify"
	"github.com/iliyamo/flight-seat-manager/internal/queue"
	"github.com/iliyamo/flight-seat-manager/internal/router"
	"github.com/iliyamo/flight-seat-manager/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	inv, err := manifest.LoadRegistry(cfg.ManifestPath)
	if err != nil {
		log.Fatal("Failed to load manifest", "path", cfg.ManifestPath, "error", err)
	}
	log.Info("Inventory loaded", "flights", len(inv.Codes()))

	ncfg, err := config.LoadNotifyConfig()
	if err != nil {
		log.Fatal("Invalid notification config", "error", err)
	}
	policy, err := notify.ParsePolicy(ncfg.Policy)
	if err != nil {
		log.Fatal("Invalid notification config", "error", err)
	}
	disp := notify.NewDispatcher(notify.Config{
		Workers:         ncfg.Workers,
		QueueSize:       ncfg.QueueSize,
		Policy:          policy,
		DeliveryTimeout: ncfg.Timeout,
	}, inv, log)

	// Redis is optional: without it rate limiting and caching are off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("Redis unavailable, rate limiting and response cache disabled")
	}

	relay, closeRelay, err := buildRelay(ncfg.Sink, cfg, rdb, log)
	if err != nil {
		log.Fatal("Failed to set up notification sink", "sink", ncfg.Sink, "error", err)
	}

	svc := service.NewBookingService(inv, disp, log)
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	router.RegisterRoutes(e)
	router.RegisterFlights(e, handler.NewFlightHandler(svc, relay, ncfg.Sink), router.Options{
		JWTSecret: cfg.JWTSecret,
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting HTTP server", "port", cfg.Port, "env", cfg.Env, "sink", ncfg.Sink)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Stop taking requests first so no booking races the dispatcher close.
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", "error", err)
		}
		if err := disp.Close(shutdownCtx); err != nil {
			log.Error("Notification queue not drained", "error", err)
		}
		closeRelay()
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Server stopped with error", "error", err)
	}
	log.Info("Seat manager stopped")
}

// buildRelay returns the handler registered for remote subscribers and a
// function releasing its connection.
func buildRelay(sink string, cfg config.Config, rdb *redis.Client, log logger.Logger) (notify.Handler, func(), error) {
	switch sink {
	case config.SinkAMQP:
		if cfg.AMQPURL == "" {
			return nil, nil, errors.New("RABBITMQ_URL or AMQP_URL is required")
		}
		p := queue.NewPublisher(cfg.AMQPURL, log)
		return notify.NewAMQPSink(p), func() { _ = p.Close() }, nil
	case config.SinkRedis:
		if rdb == nil {
			return nil, nil, errors.New("redis is not reachable")
		}
		return notify.NewRedisSink(rdb), func() {}, nil
	case config.SinkKafka:
		kcfg := config.LoadKafkaConfig()
		w := notify.NewKafkaWriter(kcfg.Brokers, kcfg.Topic)
		return notify.NewKafkaSink(w), func() { _ = w.Close() }, nil
	default:
		return notify.NewLogSink(log), func() {}, nil
	}
}
