package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/kicker-hub/kicker-league-bot/internal/application/command"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEASON REPAIR JOB
// Periodically re-derives the current season's statistics from the match
// ledger. Day to day this is a no-op; it exists to heal the aggregate after
// a crash between ledger append and stats save.
// ══════════════════════════════════════════════════════════════════════════════

// RepairSeasonJob rebuilds the current season aggregate.
type RepairSeasonJob struct {
	rebuild *command.RebuildSeasonHandler
	logger  *slog.Logger
	now     func() time.Time
}

// NewRepairSeasonJob creates the job.
func NewRepairSeasonJob(rebuild *command.RebuildSeasonHandler, logger *slog.Logger, now func() time.Time) *RepairSeasonJob {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &RepairSeasonJob{rebuild: rebuild, logger: logger, now: now}
}

// Name returns the unique job name.
func (j *RepairSeasonJob) Name() string {
	return "repair_season"
}

// Description returns a human-readable description.
func (j *RepairSeasonJob) Description() string {
	return "re-derives the current season statistics from the match ledger"
}

// Run rebuilds the current season.
func (j *RepairSeasonJob) Run(ctx context.Context) error {
	current := season.Of(j.now())
	result, err := j.rebuild.Handle(ctx, command.RebuildSeasonCommand{SeasonID: current.String()})
	if err != nil {
		return err
	}

	j.logger.Debug("season repair done",
		"season_id", result.SeasonID,
		"players", result.PlayersRanked,
	)
	return nil
}
