// Package main is the entry point for the CF Progress Hub worker.
//
// The worker keeps tracked students' analytics fresh:
// - Periodic bulk sync of every student against the Codeforces API
// - Inactivity detection and reminder counting
//
// All outbound API traffic funnels through one rate-limited client, so a
// large roster syncs slowly but never gets the shared IP blocked.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cf-hub/cf-progress-hub/config"
	"github.com/cf-hub/cf-progress-hub/internal/application/command"
	"github.com/cf-hub/cf-progress-hub/internal/infrastructure/external/codeforces"
	"github.com/cf-hub/cf-progress-hub/internal/infrastructure/persistence/postgres"
	"github.com/cf-hub/cf-progress-hub/internal/infrastructure/persistence/redis"
	"github.com/cf-hub/cf-progress-hub/internal/infrastructure/scheduler"
	"github.com/cf-hub/cf-progress-hub/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.App.LogLevel),
		AddCaller: !cfg.IsProduction(),
	})
	slogger := slog.Default()

	log.Info("worker starting",
		logger.String("env", string(cfg.App.Environment)),
		logger.Duration("sync_interval", cfg.Worker.SyncInterval))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Persistence ──────────────────────────────────────────────────────

	pgConfig := postgres.DefaultConfig(cfg.Database.URL)
	pgConfig.MaxConns = int32(cfg.Database.MaxConns)
	pgConfig.MinConns = int32(cfg.Database.MinConns)
	pgConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	conn, err := postgres.NewConnection(ctx, pgConfig)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close()

	if err := postgres.Migrate(ctx, conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	studentRepo := postgres.NewStudentRepository(conn)

	var profiles command.ProfileStore = postgres.NewProfileRepository(conn)
	if !cfg.Redis.Disabled && cfg.Redis.URL != "" {
		cache, err := redis.NewCache(ctx, redis.DefaultConfig(cfg.Redis.URL))
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer cache.Close()
		profiles = redis.NewCachedProfileStore(profiles, cache, cfg.Redis.ProfileTTL, log)
		log.Info("profile cache enabled", logger.Duration("ttl", cfg.Redis.ProfileTTL))
	}

	// ── Judge client and handlers ────────────────────────────────────────

	clientConfig := codeforces.DefaultClientConfig(cfg.Judge.BaseURL)
	clientConfig.Timeout = cfg.Judge.RequestTimeout
	clientConfig.MinRequestInterval = cfg.Judge.MinRequestInterval
	clientConfig.Logger = slogger
	clientConfig.Debug = cfg.App.Debug
	judge := codeforces.NewClient(clientConfig)

	syncOne := command.NewSyncProfileHandler(studentRepo, profiles, judge, log, command.SyncProfileHandlerConfig{
		SubmissionFetchCount: cfg.Judge.SubmissionFetchCount,
		Location:             time.Local,
	})
	syncAll := command.NewSyncAllHandler(studentRepo, syncOne, log)
	inactivity := command.NewCheckInactivityHandler(studentRepo, profiles, log)

	// ── Scheduled jobs ───────────────────────────────────────────────────

	sched := scheduler.New(slogger)

	sched.Register(scheduler.JobFunc{
		JobName: "sync-all-students",
		Fn: func(ctx context.Context) error {
			_, err := syncAll.Handle(ctx, command.SyncAllCommand{
				Concurrency: cfg.Worker.SyncConcurrency,
			})
			return err
		},
	}, scheduler.Every(cfg.Worker.SyncInterval), true)

	if cfg.Worker.RemindersEnabled {
		sched.Register(scheduler.JobFunc{
			JobName: "check-inactivity",
			Fn: func(ctx context.Context) error {
				_, err := inactivity.Handle(ctx, command.CheckInactivityCommand{
					Threshold: cfg.Worker.InactivityThreshold,
				})
				return err
			},
		}, scheduler.Every(cfg.Worker.SyncInterval), false)
	}

	sched.Start(ctx)

	<-ctx.Done()
	log.Info("shutdown signal received")

	done := make(chan struct{})
	go func() {
		sched.Stop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("worker stopped cleanly")
	case <-time.After(cfg.App.ShutdownTimeout):
		log.Warn("shutdown timed out, exiting anyway")
	}

	return nil
}
