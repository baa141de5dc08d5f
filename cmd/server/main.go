package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"pihooks/internal/audit"
	"pihooks/internal/hooks"
	"pihooks/internal/identity"
	jwttoken "pihooks/internal/jwt_token"
	"pihooks/internal/platform/config"
	"pihooks/internal/platform/httpserver"
	"pihooks/internal/platform/logger"
	"pihooks/internal/platform/metrics"
	"pihooks/internal/platform/middleware"
	"pihooks/internal/platform/postgres"
	redisclient "pihooks/internal/platform/redis"
	"pihooks/internal/profile"
	"pihooks/internal/spoof"
	"pihooks/internal/switches"
	httptransport "pihooks/internal/transport/http"
	"pihooks/pkg/platform/circuit"
)

const (
	tokenIssuer   = "pihooks"
	tokenAudience = "pihooks-inspection"
)

// main wires high-level dependencies, exposes the inspection router, and keeps
// the server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(cfg.Logging.Format, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	catalog, err := buildCatalog(cfg.Profiles)
	if err != nil {
		return err
	}
	rules := spoof.NewRules(catalog, spoof.Resources{
		StockFingerprint: cfg.Resources.StockFingerprint,
		MediaSpoofModel:  cfg.Resources.MediaSpoofModel,
	})

	source, closeSource, err := buildSwitchSource(ctx, cfg.Switches, log)
	if err != nil {
		return err
	}
	defer closeSource()

	sink, closeSink, err := buildAuditStore(ctx, cfg.Audit, log)
	if err != nil {
		return err
	}
	defer closeSink()
	worker := audit.NewWorker(audit.NewPublisher(sink),
		audit.WithQueueSize(cfg.Audit.QueueSize),
		audit.WithWorkerLogger(log),
	)

	m := metrics.New(prometheus.DefaultRegisterer)
	sim, err := hooks.NewSimulator(cfg.Build, rules, source, worker, log, m)
	if err != nil {
		return err
	}

	classifier := identity.NewClassifier(identity.Build{
		Manufacturer: cfg.Build.Manufacturer,
		Model:        cfg.Build.Model,
	})
	handler := httptransport.NewHandler(classifier, rules, catalog, source, sim, log)

	var validator middleware.JWTValidator
	if cfg.JWTSigningKey != "" {
		validator = jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.JWTSigningKey, tokenIssuer, tokenAudience))
	} else {
		log.Warn("no jwt signing key configured, inspection API is unauthenticated")
	}

	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler, validator, promhttp.Handler(), log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting pihooks inspection server",
			"addr", cfg.Addr,
			"switches_backend", cfg.Switches.Backend,
			"profiles", catalog.Names(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func buildCatalog(cfg config.ProfilesConfig) (*profile.Catalog, error) {
	extra, err := profile.LoadAll(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return profile.NewCatalog(
		profile.WithProfiles(extra...),
		profile.WithFlagship(cfg.Flagship),
		profile.WithLegacy(cfg.Legacy),
	)
}

func buildSwitchSource(ctx context.Context, cfg config.SwitchesConfig, log *slog.Logger) (switches.Source, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case config.BackendRedis:
		client, err := redisclient.New(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		store := switches.NewRedis(client.Client, cfg.Redis.Hash)
		return switches.NewFallback(store, circuit.New("switches_redis"), log), func() {
			if err := client.Close(); err != nil {
				log.Warn("failed to close redis client", "error", err)
			}
		}, nil
	case config.BackendPostgres:
		client, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, noop, err
		}
		store := switches.NewPostgres(client.DB)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return switches.NewFallback(store, circuit.New("switches_postgres"), log), func() {
			if err := client.Close(); err != nil {
				log.Warn("failed to close postgres pool", "error", err)
			}
		}, nil
	default:
		return switches.NewInMemory(cfg.Seed), noop, nil
	}
}

func buildAuditStore(ctx context.Context, cfg config.AuditConfig, log *slog.Logger) (audit.Store, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return audit.NewLogStore(log), func() {}, nil
	}
	store, err := audit.NewKafkaStore(cfg.KafkaBrokers, cfg.Topic)
	if err != nil {
		return nil, func() {}, err
	}
	if err := store.EnsureTopic(ctx, 1, 1); err != nil {
		store.Close()
		return nil, func() {}, err
	}
	return store, store.Close, nil
}
