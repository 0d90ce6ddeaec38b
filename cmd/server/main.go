package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	activityhandler "resona/internal/activity/handler"
	activityservice "resona/internal/activity/service"
	activitystore "resona/internal/activity/store"
	"resona/internal/catalog"
	"resona/internal/feed"
	httpapi "resona/internal/http"
	"resona/internal/identity"
	notificationhandler "resona/internal/notification/handler"
	notificationservice "resona/internal/notification/service"
	notificationstore "resona/internal/notification/store"
	"resona/internal/platform/config"
	"resona/internal/platform/httpserver"
	"resona/internal/platform/logger"
	"resona/internal/platform/metrics"
	platformredis "resona/internal/platform/redis"
	presencehandler "resona/internal/presence/handler"
	presenceservice "resona/internal/presence/service"
	presencestore "resona/internal/presence/store"
	"resona/internal/realtime/fanout"
	"resona/internal/realtime/registry"
	"resona/internal/realtime/router"
	"resona/internal/realtime/ws"
	"resona/internal/social"
)

// main wires configuration, storage, the realtime core, and the HTTP surface,
// then runs until signalled. Business logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	m := metrics.New()

	// Storage. Everything runs on in-memory stores when no DATABASE_URL is
	// set, which is the local development mode.
	var (
		db   *sql.DB
		pool *pgxpool.Pool
		err  error
	)
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			fatal(log, "open database", err)
		}
		if err := db.PingContext(ctx); err != nil {
			fatal(log, "ping database", err)
		}
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			fatal(log, "open pgx pool", err)
		}
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		fatal(log, "connect redis", err)
	}

	var presenceStore presencestore.Store
	var notificationStore notificationstore.Store
	var activityStore activitystore.Store
	var graph social.Resolver
	var summarizer catalog.Summarizer

	switch {
	case db != nil:
		presenceStore = presencestore.NewPostgres(db)
		notificationStore = notificationstore.NewPostgres(db)
		activityStore = activitystore.NewPostgres(db)
		graph = social.NewPostgresResolver(pool)
		summarizer = catalog.NewPostgres(db)
	default:
		log.Info("no DATABASE_URL set, using in-memory stores")
		presenceStore = presencestore.NewInMemory()
		notificationStore = notificationstore.NewInMemory()
		activityStore = activitystore.NewInMemory()
		graph = social.NewInMemory()
		summarizer = catalog.NewInMemory()
	}
	// Presence is the hottest row in the system; prefer the Redis store when
	// one is configured.
	if redisClient != nil {
		presenceStore = presencestore.NewRedis(redisClient.Client)
	}

	// Services.
	identitySvc := identity.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	presenceSvc := presenceservice.New(presenceStore)
	notificationSvc := notificationservice.New(notificationStore)
	activitySvc := activityservice.New(activityStore, graph, summarizer)

	publisher, err := feed.NewPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaFeedTopic, m, log)
	if err != nil {
		fatal(log, "connect kafka feed", err)
	}

	// Realtime core.
	reg := registry.New(m)
	engine := fanout.New(reg, m, log)

	var routerOpts []router.Option
	if publisher != nil {
		routerOpts = append(routerOpts, router.WithFeed(publisher))
	}
	rt := router.New(reg, engine, presenceSvc, notificationSvc, activitySvc, graph, m, log, routerOpts...)
	wsHandler := ws.New(identitySvc, reg, rt, presenceSvc, log)

	apiRouter := httpapi.NewRouter(httpapi.Deps{
		WS:            wsHandler,
		Notifications: notificationhandler.New(notificationSvc, log),
		Activity:      activityhandler.New(activitySvc, log),
		Presence:      presencehandler.New(presenceSvc, log),
		Validator:     identity.NewMiddlewareAdapter(identitySvc),
		Health: func(r *http.Request) error {
			if db != nil {
				if err := db.PingContext(r.Context()); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(r.Context())
			}
			return nil
		},
		Logger: log,
	})

	srv := httpserver.New(cfg.Addr, apiRouter)

	log.Info("starting resona", "addr", cfg.Addr,
		"postgres", db != nil, "redis", redisClient != nil, "feed", publisher != nil)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}
	reg.CloseAll()
	rt.Wait()
	publisher.Close(shutdownCtx)
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("redis close failed", "error", err)
		}
	}
	if pool != nil {
		pool.Close()
	}
	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("database close failed", "error", err)
		}
	}
	log.Info("shutdown complete")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
