package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"legalbooks/internal/audit"
	"legalbooks/internal/catalog"
	cataloghandler "legalbooks/internal/catalog/handler"
	"legalbooks/internal/platform/config"
	"legalbooks/internal/platform/httpserver"
	"legalbooks/internal/platform/logger"
	"legalbooks/internal/platform/metrics"
	"legalbooks/internal/platform/redis"
	"legalbooks/internal/ratelimit"
	"legalbooks/internal/registration"
	registrationhandler "legalbooks/internal/registration/handler"
	registrationstore "legalbooks/internal/registration/store"
	"legalbooks/internal/session"
	sessionhandler "legalbooks/internal/session/handler"
	sessionstore "legalbooks/internal/session/store"
	httptransport "legalbooks/internal/transport/http"
	"legalbooks/internal/upstream"
)

// main wires the dependency graph and owns the process lifecycle. Business
// logic lives in the internal services packages.
func main() {
	// A local .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	m := metrics.New()

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		log.Info("redis connected")
	} else {
		log.Info("redis not configured, using in-memory stores")
	}

	client := upstream.New(cfg.Upstream, log, m)
	catalogs := catalog.NewService(client, log, m, cfg.Catalog.TTL)

	var drafts registration.DraftStore
	var sessions session.Store
	var limiter registration.ResendLimiter
	if rdb != nil {
		sealer, err := registrationstore.NewSealer(cfg.Session.SealKey)
		if err != nil {
			log.Error("failed to build credential sealer", "error", err)
			os.Exit(1)
		}
		drafts = registrationstore.NewRedis(rdb, sealer, cfg.Session.DraftTTL)
		sessions = sessionstore.NewRedis(rdb, cfg.Session.TTL)
		limiter = ratelimit.NewRedis(rdb, cfg.OTP.ResendLimit, cfg.OTP.ResendWindow)
	} else {
		drafts = registrationstore.NewMemory(cfg.Session.DraftTTL)
		sessions = sessionstore.NewMemory(cfg.Session.TTL)
		limiter = ratelimit.NewMemory(cfg.OTP.ResendLimit, cfg.OTP.ResendWindow)
	}

	publisher := audit.NewPublisher(0)
	auditStores := []audit.Store{audit.NewMemoryStore()}
	if len(cfg.Audit.Brokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(cfg.Audit.Brokers, cfg.Audit.Topic, log)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditStores = append(auditStores, kafkaStore)
		log.Info("kafka audit sink enabled", "topic", cfg.Audit.Topic)
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	worker := audit.NewWorker(publisher.Inbox(), log, auditStores...)
	go func() {
		if err := worker.Run(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	registrations := registration.NewService(client, drafts, catalogs, publisher, limiter, log, m, cfg.OTP)

	manager := session.NewManager(sessions, log)
	manager.Subscribe(func(e session.Event) {
		action := map[session.EventKind]audit.Action{
			session.EventStarted:   audit.ActionSessionStarted,
			session.EventRefreshed: audit.ActionSessionRefreshed,
			session.EventCleared:   audit.ActionSessionCleared,
		}[e.Kind]
		_ = publisher.Emit(context.Background(), audit.Event{
			Timestamp: e.At,
			SessionID: e.SessionID,
			Action:    action,
		})
	})

	var health httptransport.HealthChecker
	if rdb != nil {
		health = rdb
	}
	router := httptransport.NewRouter(log, health,
		registrationhandler.New(registrations, log, m, registration.DefaultMaxDisplayed),
		cataloghandler.New(catalogs, m),
		sessionhandler.New(client, manager, log, m),
	)

	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting onboarding gateway", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
