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

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/nootkan/required-fields-manager/internal/lifecycle"
	"github.com/nootkan/required-fields-manager/internal/outcome"
	"github.com/nootkan/required-fields-manager/internal/platform/config"
	"github.com/nootkan/required-fields-manager/internal/platform/httpserver"
	"github.com/nootkan/required-fields-manager/internal/platform/logger"
	platformredis "github.com/nootkan/required-fields-manager/internal/platform/redis"
	"github.com/nootkan/required-fields-manager/internal/policy"
	policystore "github.com/nootkan/required-fields-manager/internal/policy/store"
	"github.com/nootkan/required-fields-manager/internal/profile"
	metastore "github.com/nootkan/required-fields-manager/internal/profile/store/meta"
	userstore "github.com/nootkan/required-fields-manager/internal/profile/store/user"
	"github.com/nootkan/required-fields-manager/internal/session"
	"github.com/nootkan/required-fields-manager/internal/stash"
	httptransport "github.com/nootkan/required-fields-manager/internal/transport/http"
	"github.com/nootkan/required-fields-manager/internal/validation"
	vmetrics "github.com/nootkan/required-fields-manager/internal/validation/metrics"
	"github.com/nootkan/required-fields-manager/pkg/platform/audit"
	"github.com/nootkan/required-fields-manager/pkg/platform/audit/publisher"
)

// main wires the stores, services, and HTTP boundary. Missing infrastructure
// selects in-memory fallbacks so a bare `go run` serves a working instance.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres: lib/pq for the preference and meta stores, pgxpool for the
	// user store's partial updates.
	var (
		db   *sql.DB
		pool *pgxpool.Pool
	)
	if cfg.PostgresDSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pool, err = pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	}

	rdb, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var auditPublisher audit.Publisher
	if len(cfg.KafkaSeeds) > 0 {
		kafka, err := publisher.NewKafka(cfg.KafkaSeeds, cfg.AuditTopic, log)
		if err != nil {
			log.Error("failed to create kafka audit publisher", "error", err)
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafka.Close(closeCtx); err != nil {
				log.Warn("kafka publisher close failed", "error", err)
			}
		}()
		auditPublisher = kafka
	}

	var policyStore policy.Store
	if db != nil {
		policyStore = policystore.NewPostgres(db)
	} else {
		log.Warn("postgres not configured, using in-memory policy store")
		policyStore = policystore.NewMemory()
	}

	var sessions session.Store
	if rdb != nil {
		sessions = session.NewRedis(rdb.Client)
	} else {
		log.Warn("redis not configured, using in-memory session store")
		sessions = session.NewMemory()
	}

	policySvc, err := policy.New(policyStore, policy.WithLogger(log))
	if err != nil {
		log.Error("failed to build policy service", "error", err)
		os.Exit(1)
	}
	if err := policySvc.EnsureDefaults(ctx); err != nil {
		log.Error("failed to seed policy defaults", "error", err)
		os.Exit(1)
	}

	var userCaps []profile.UserCapability
	var metaCaps []profile.MetaCapability
	if pool != nil {
		userCaps = append(userCaps, userstore.NewPostgres(pool))
	}
	if db != nil {
		metaCaps = append(metaCaps, metastore.NewPostgres(db))
	}
	if len(userCaps) == 0 {
		log.Warn("no user store configured, profile sync disabled")
	}
	adapter := profile.NewAdapter(
		profile.WithLogger(log),
		profile.WithUserCapabilities(userCaps...),
		profile.WithMetaCapabilities(metaCaps...),
	)

	metrics := vmetrics.New()
	st := stash.New(sessions, cfg.StashTTL)

	engine, err := validation.New(policySvc, adapter, st,
		validation.WithLogger(log),
		validation.WithMetrics(metrics),
		validation.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		log.Error("failed to build validation engine", "error", err)
		os.Exit(1)
	}

	reporter, err := outcome.New(sessions, cfg.FormTTL, outcome.WithLogger(log))
	if err != nil {
		log.Error("failed to build outcome reporter", "error", err)
		os.Exit(1)
	}

	applier, err := lifecycle.NewApplier(st, adapter,
		lifecycle.WithLogger(log),
		lifecycle.WithMetrics(metrics),
		lifecycle.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		log.Error("failed to build applier", "error", err)
		os.Exit(1)
	}

	handler := httptransport.New(httptransport.Deps{
		Engine:     engine,
		Reporter:   reporter,
		Policies:   policySvc,
		Registry:   lifecycle.NewRegistry(),
		Applier:    applier,
		Redirects:  cfg.Redirects,
		AdminToken: cfg.AdminToken,
		Logger:     log,
		Audit:      auditPublisher,
	})

	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting required-fields-manager", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
