// Package jobs contains the scheduled jobs of the kicker league worker.
package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kicker-hub/kicker-league-bot/internal/application/saga"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEASON ROLLOVER JOB
// Fires on the first of the month: closes the previous season, announces
// its winners and bootstraps the new one. The saga is idempotent, so a
// worker restart around midnight re-runs it safely.
// ══════════════════════════════════════════════════════════════════════════════

// SeasonRolloverJob runs the monthly season transition.
type SeasonRolloverJob struct {
	saga   *saga.SeasonTransitionSaga
	logger *slog.Logger
}

// NewSeasonRolloverJob creates the job.
func NewSeasonRolloverJob(transitionSaga *saga.SeasonTransitionSaga, logger *slog.Logger) *SeasonRolloverJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeasonRolloverJob{saga: transitionSaga, logger: logger}
}

// Name returns the unique job name.
func (j *SeasonRolloverJob) Name() string {
	return "season_rollover"
}

// Description returns a human-readable description.
func (j *SeasonRolloverJob) Description() string {
	return "closes the previous season, announces winners and opens the new one"
}

// Run executes the season transition.
func (j *SeasonRolloverJob) Run(ctx context.Context) error {
	result, err := j.saga.Execute(ctx)
	if errors.Is(err, shared.ErrTransitionInFlight) {
		// A concurrent trigger (admin command, overlapping tick) already
		// runs the rollover.
		j.logger.Info("season rollover skipped, transition already running")
		return nil
	}
	if err != nil {
		return err
	}

	j.logger.Info("season rollover done",
		"previous_season", result.PreviousSeasonID,
		"new_season", result.NewSeasonID,
		"winners", len(result.Winners),
		"notifications_failed", result.NotificationsFailed,
	)
	return nil
}
