package worker

// Background goroutine that runs the end-of-day checks (missed settlements,
// repeat shortage offenders) once per tick for yesterday's business date.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const dailyCheckInterval = time.Hour

// DailyCheckFn runs the scheduled checks for one business date.
type DailyCheckFn func(ctx context.Context, date time.Time) error

// StartDailyChecks ticks hourly and runs the checks for the previous day.
// The checks themselves dedupe per user per day, so repeated runs within the
// same day are harmless.
func StartDailyChecks(ctx context.Context, run DailyCheckFn) {
	go func() {
		ticker := time.NewTicker(dailyCheckInterval)
		defer ticker.Stop()

		log.Info().Msg("daily_checks: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("daily_checks: shutting down")
				return
			case <-ticker.C:
				yesterday := time.Now().AddDate(0, 0, -1).Truncate(24 * time.Hour)
				if err := run(ctx, yesterday); err != nil {
					log.Error().Err(err).Msg("daily_checks: run failed")
				}
			}
		}
	}()
}
