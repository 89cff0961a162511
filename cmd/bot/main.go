// Package main is the entry point of the kicker league Telegram bot.
//
// The bot serves the chat side of the league: player registration, the
// match-entry dialog, leaderboards and season results. The monthly season
// rollover lives in cmd/worker.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kicker-hub/kicker-league-bot/config"
	"github.com/kicker-hub/kicker-league-bot/internal/application/command"
	"github.com/kicker-hub/kicker-league-bot/internal/application/query"
	"github.com/kicker-hub/kicker-league-bot/internal/application/saga"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/match"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	exttelegram "github.com/kicker-hub/kicker-league-bot/internal/infrastructure/external/telegram"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/persistence/memory"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/persistence/postgres"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/persistence/redis"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/service"
	"github.com/kicker-hub/kicker-league-bot/internal/interface/telegram"
	"github.com/kicker-hub/kicker-league-bot/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, cancel); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cancel context.CancelFunc) error {
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
	}).With(logger.Component("bot"))

	log.Info("starting kicker league bot",
		"env", cfg.App.Environment,
		"debug", cfg.App.Debug,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// PERSISTENCE
	// Development without DATABASE_URL runs on in-memory repositories.
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

	// ─────────────────────────────────────────────────────────────────────────
	// LEADERBOARD CACHE (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var leaderboardCache *redis.LeaderboardCache
	if cfg.Redis.URL != "" {
		log.Info("connecting to redis")
		cache, err := redis.NewCacheFromURL(cfg.Redis.URL)
		if err != nil {
			log.Warn("failed to connect to redis, caching disabled", "error", err)
		} else {
			defer cache.Close()
			leaderboardCache = redis.NewLeaderboardCache(cache)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	aggregator := season.NewAggregator(seasonRepo, matchRepo, playerRepo)

	// The nil checks keep caching truly optional: a typed nil interface
	// would dodge the handlers' own nil guards.
	var invalidator command.CacheInvalidator
	var boardCache query.LeaderboardCache
	if leaderboardCache != nil {
		invalidator = leaderboardCache
		boardCache = leaderboardCache
	}

	registerPlayerCmd := command.NewRegisterPlayerHandler(playerRepo, log)
	recordMatchCmd := command.NewRecordMatchHandler(playerRepo, matchRepo, aggregator, invalidator, log)

	leaderboardQuery := query.NewGetLeaderboardHandler(seasonRepo, playerRepo, boardCache, cfg.Redis.LeaderboardTTL, log)
	playerStatsQuery := query.NewGetPlayerStatsHandler(playerRepo, seasonRepo, log)
	seasonWinnersQuery := query.NewGetSeasonWinnersHandler(seasonRepo, playerRepo, log)

	// The admin /season rollover notifies winners through a dedicated
	// client; the bot's own client is busy long polling.
	notifierClient := exttelegram.NewClient(exttelegram.DefaultClientConfig(cfg.Telegram.Token))
	notifier := service.NewTelegramNotifier(notifierClient, log)
	transitionSaga := saga.NewSeasonTransitionSaga(playerRepo, seasonRepo, aggregator, notifier, log)

	// ─────────────────────────────────────────────────────────────────────────
	// TELEGRAM BOT
	// ─────────────────────────────────────────────────────────────────────────
	botConfig := telegram.DefaultBotConfig(cfg.Telegram.Token)
	botConfig.Debug = cfg.App.Debug
	botConfig.Logger = log
	botConfig.AdminIDs = cfg.Telegram.AdminIDs
	botConfig.SessionTTL = cfg.Telegram.SessionTTL

	bot, err := telegram.NewBot(botConfig, telegram.BotDependencies{
		Players:            playerRepo,
		RegisterPlayerCmd:  registerPlayerCmd,
		RecordMatchCmd:     recordMatchCmd,
		LeaderboardQuery:   leaderboardQuery,
		PlayerStatsQuery:   playerStatsQuery,
		SeasonWinnersQuery: seasonWinnersQuery,
		TransitionSaga:     transitionSaga,
	})
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Start(ctx); err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("telegram bot error: %w", err)
		}
	}()

	log.Info("kicker league bot is running")

	// ─────────────────────────────────────────────────────────────────────────
	// GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	cancel() // stops long polling

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := bot.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop bot gracefully", "error", err)
		return err
	}

	log.Info("shutdown completed")
	return nil
}
