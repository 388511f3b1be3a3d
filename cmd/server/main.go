package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"fairchain/internal/audit"
	"fairchain/internal/authz"
	"fairchain/internal/catchlog"
	"fairchain/internal/identity"
	"fairchain/internal/ledger"
	"fairchain/internal/market"
	"fairchain/internal/platform/config"
	"fairchain/internal/platform/httpserver"
	"fairchain/internal/platform/logger"
	"fairchain/internal/platform/metrics"
	"fairchain/internal/quota"
	httptransport "fairchain/internal/transport/http"
	"fairchain/internal/vessel"
)

// main wires stores, services, and the HTTP lifecycle. Business rules live in
// the internal service packages; everything here is assembly.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fairchain: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The in-memory trail always records; Kafka ships a copy downstream when
	// brokers are configured.
	trail := audit.NewInMemoryStore()
	sinks := []audit.Sink{trail}
	var kafkaSink *audit.KafkaSink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err = audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			return err
		}
		sinks = append(sinks, kafkaSink)
		log.Info("kafka audit sink enabled", "topic", cfg.KafkaTopic)
	}
	publisher := audit.NewPublisher(sinks, audit.WithLogger(log))

	var (
		vesselStore vessel.Store
		quotaStore  quota.Store
		catchStore  catchlog.Store
		certStore   market.CertificationStore
		denyStore   market.BlacklistStore
		roleStore   authz.Store
	)
	switch cfg.Storage {
	case "postgres":
		pool, perr := pgxpool.New(ctx, cfg.PostgresDSN)
		if perr != nil {
			return fmt.Errorf("connect postgres: %w", perr)
		}
		defer pool.Close()
		vesselStore = vessel.NewPostgresStore(pool)
		quotaStore = quota.NewPostgresStore(pool)
		catchStore = catchlog.NewPostgresStore(pool)
		certStore = market.NewPostgresCertificationStore(pool)
		denyStore = market.NewPostgresBlacklistStore(pool)
		roleStore = authz.NewPostgresStore(pool)
	default:
		vesselStore = vessel.NewInMemoryStore()
		quotaStore = quota.NewInMemoryStore()
		catchStore = catchlog.NewInMemoryStore()
		certStore = market.NewInMemoryCertificationStore()
		denyStore = market.NewInMemoryBlacklistStore()
		roleStore = authz.NewInMemoryStore()
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		denyStore = market.NewRedisBlacklistStore(client, m.BlacklistLookup)
		log.Info("redis blacklist store enabled", "addr", cfg.RedisAddr)
	}

	roles, err := authz.New(roleStore, cfg.AdminPrincipal(),
		authz.WithLogger(log), authz.WithAudit(publisher))
	if err != nil {
		return err
	}
	blacklist, err := market.NewBlacklist(denyStore, roles,
		market.WithBlacklistLogger(log), market.WithBlacklistAudit(publisher))
	if err != nil {
		return err
	}
	vessels, err := vessel.New(vesselStore, blacklist,
		vessel.WithLogger(log), vessel.WithAudit(publisher))
	if err != nil {
		return err
	}
	quotas, err := quota.New(quotaStore, roles, vessels,
		quota.WithLogger(log), quota.WithAudit(publisher))
	if err != nil {
		return err
	}
	catches, err := catchlog.New(catchStore, vessels, quotas, roles,
		catchlog.WithLogger(log), catchlog.WithAudit(publisher))
	if err != nil {
		return err
	}
	certifier, err := market.NewCertifier(certStore, roles, catches,
		market.WithCertifierLogger(log), market.WithCertifierAudit(publisher))
	if err != nil {
		return err
	}

	core := ledger.New(vessels, quotas, catches, certifier, blacklist, roles)
	tokens := identity.New(cfg.JWTSigningKey)

	handler := httptransport.NewHandler(core, trail, m, log)
	router := httptransport.NewRouter(handler, tokens)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting fairchain", "addr", cfg.Addr, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		grace := time.Duration(cfg.ShutdownGraceSeconds) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		if kafkaSink != nil {
			if err := kafkaSink.Close(shutdownCtx); err != nil {
				log.Error("flushing kafka audit sink", "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("fairchain stopped")
	return nil
}
