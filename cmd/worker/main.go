// Package main is the entry point of the kicker league background worker.
//
// The worker owns the clock-driven side of the league: the monthly season
// rollover (close the old season, congratulate the winners, open the new
// one) and the periodic repair of the season aggregate from the match
// ledger.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kicker-hub/kicker-league-bot/config"
	"github.com/kicker-hub/kicker-league-bot/internal/application/command"
	"github.com/kicker-hub/kicker-league-bot/internal/application/saga"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/match"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	exttelegram "github.com/kicker-hub/kicker-league-bot/internal/infrastructure/external/telegram"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/persistence/memory"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/persistence/postgres"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/persistence/redis"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/scheduler"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/scheduler/jobs"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/service"
	"github.com/kicker-hub/kicker-league-bot/pkg/logger"
	"github.com/kicker-hub/kicker-league-bot/pkg/timeutil"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// CONFIGURATION AND LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: logger.Format(cfg.Log.Format),
	}).With(logger.Component("worker"))

	log.Info("starting kicker league worker",
		"env", cfg.App.Environment,
		"rollover", fmt.Sprintf("%02d:%02d", cfg.Scheduler.RolloverHour, cfg.Scheduler.RolloverMinute),
		"repair_interval", cfg.Scheduler.RepairInterval.String(),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// PERSISTENCE
	// The worker shares the database with the bot. In-memory repositories
	// are only useful for local dry runs; the worker would then see an
	// empty league.
	// ─────────────────────────────────────────────────────────────────────────
	var (
		playerRepo player.Repository
		matchRepo  match.Repository
		seasonRepo season.Repository
	)

	if cfg.Database.URL != "" {
		log.Info("connecting to database")
		conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer conn.Close()

		log.Info("running database migrations")
		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		playerRepo = postgres.NewPlayerRepository(conn)
		matchRepo = postgres.NewMatchRepository(conn)
		seasonRepo = postgres.NewSeasonRepository(conn)
	} else {
		if cfg.IsProduction() {
			return fmt.Errorf("DATABASE_URL is required in production")
		}
		log.Warn("DATABASE_URL not set, using in-memory repositories")
		playerRepo = memory.NewPlayerRepository()
		matchRepo = memory.NewMatchRepository()
		seasonRepo = memory.NewSeasonRepository()
	}

	var invalidator command.CacheInvalidator
	if cfg.Redis.URL != "" {
		cache, err := redis.NewCacheFromURL(cfg.Redis.URL)
		if err != nil {
			log.Warn("failed to connect to redis, cache invalidation disabled", "error", err)
		} else {
			defer cache.Close()
			invalidator = redis.NewLeaderboardCache(cache)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	aggregator := season.NewAggregator(seasonRepo, matchRepo, playerRepo)
	rebuildCmd := command.NewRebuildSeasonHandler(aggregator, invalidator, log)

	notifierClient := exttelegram.NewClient(exttelegram.DefaultClientConfig(cfg.Telegram.Token))
	notifier := service.NewTelegramNotifier(notifierClient, log)
	transitionSaga := saga.NewSeasonTransitionSaga(playerRepo, seasonRepo, aggregator, notifier, log)

	// ─────────────────────────────────────────────────────────────────────────
	// SCHEDULER
	// Season boundaries follow the office timezone, so the rollover
	// schedule runs in it too.
	// ─────────────────────────────────────────────────────────────────────────
	sched := scheduler.New(scheduler.Config{
		Logger:   log,
		Timezone: timeutil.OfficeTZ,
	})

	rolloverJob := jobs.NewSeasonRolloverJob(transitionSaga, log)
	rolloverSchedule := scheduler.NewMonthlySchedule(
		cfg.Scheduler.RolloverHour,
		cfg.Scheduler.RolloverMinute,
		timeutil.OfficeTZ,
	)
	if err := sched.Register(rolloverJob, rolloverSchedule); err != nil {
		return fmt.Errorf("failed to register rollover job: %w", err)
	}

	repairJob := jobs.NewRepairSeasonJob(rebuildCmd, log, timeutil.Now)
	repairSchedule := scheduler.NewIntervalSchedule(cfg.Scheduler.RepairInterval)
	if err := sched.Register(repairJob, repairSchedule); err != nil {
		return fmt.Errorf("failed to register repair job: %w", err)
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	log.Info("kicker league worker is running")

	// ─────────────────────────────────────────────────────────────────────────
	// GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
	}

	if err := sched.Stop(); err != nil {
		log.Error("failed to stop scheduler", "error", err)
		return err
	}

	log.Info("shutdown completed")
	return nil
}
