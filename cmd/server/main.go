// Command server runs the CODEE eligibility decision service.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"codee/internal/audit"
	"codee/internal/city"
	"codee/internal/engine"
	enginehandler "codee/internal/engine/handler"
	enginemetrics "codee/internal/engine/metrics"
	"codee/internal/facts"
	httptransport "codee/internal/http"
	"codee/internal/platform/config"
	"codee/internal/platform/httpserver"
	"codee/internal/platform/kafka"
	"codee/internal/platform/logger"
	"codee/internal/platform/middleware"
	platformredis "codee/internal/platform/redis"
	"codee/internal/rules"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree, err := rules.Load(cfg.RulesPath, cfg.AdultAgeLimit)
	if err != nil {
		log.Error("failed to load rule tree", "path", cfg.RulesPath, "error", err.Error())
		os.Exit(1)
	}
	if report := tree.Validate(); !report.OK() {
		log.Warn("rule tree has structural problems", "report", report)
	}

	cities := city.NewIndex()
	group, ctx := errgroup.WithContext(ctx)
	checks := map[string]httptransport.HealthCheck{}

	// Facts: Redis when configured, in-memory with a janitor otherwise.
	var factStore facts.Store
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		factStore = facts.NewRedisStore(redisClient.Client, cfg.FactTTL)
		checks["redis"] = redisClient.Health
		log.Info("using redis fact store")
	} else {
		memStore := facts.NewInMemoryStore(cfg.FactTTL)
		factStore = memStore
		group.Go(func() error {
			ticker := time.NewTicker(cfg.FactTTL / 2)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					if n := memStore.Purge(); n > 0 {
						log.Info("purged expired conversations", "count", n)
					}
				}
			}
		})
		log.Info("using in-memory fact store")
	}

	// Decision recording: Postgres and Kafka are both optional.
	var auditStore audit.Store
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		if _, err := db.ExecContext(ctx, audit.Schema); err != nil {
			log.Error("failed to apply decisions schema", "error", err.Error())
			os.Exit(1)
		}
		auditStore = audit.NewPostgresStore(db)
		checks["postgres"] = db.PingContext
		log.Info("decision persistence enabled")
	}

	var publisher audit.Publisher
	kafkaClient, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		log.Error("failed to connect to kafka", "error", err.Error())
		os.Exit(1)
	}
	if kafkaClient != nil {
		defer kafkaClient.Close()
		publisher = audit.NewKafkaPublisher(kafkaClient, cfg.Kafka.Topic)
		log.Info("decision publishing enabled", "topic", cfg.Kafka.Topic)
	}

	var auditEmitter engine.AuditEmitter
	if auditStore != nil || publisher != nil {
		worker := audit.NewWorker(log, auditStore, publisher, 256)
		group.Go(func() error { return worker.Run(ctx) })
		auditEmitter = worker
	}

	opts := []engine.Option{engine.WithMetrics(enginemetrics.New())}
	if auditEmitter != nil {
		opts = append(opts, engine.WithAudit(auditEmitter))
	}
	svc := engine.NewService(log, tree, cities, factStore, opts...)

	validator := middleware.NewHMACValidator(cfg.JWTSigningKey)
	handler := enginehandler.New(svc, log, validator)
	router := httptransport.NewRouter(log, handler, checks)

	srv := httpserver.New(cfg.Addr, router)
	group.Go(func() error {
		log.Info("starting codee decision service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}
