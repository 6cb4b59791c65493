// Package retention archives old movement events on a cron schedule.
// Archived events move out of the live ledger into a separate namespace,
// keeping reconciliation passes bounded as the ledger grows. Archival never
// deletes data.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	"go.uber.org/zap"

	"stockdb/pkg/config"
	"stockdb/pkg/ledger"
	"stockdb/pkg/logger"
)

// DefaultPeriod keeps thirty days of movements live when no period is
// configured.
const DefaultPeriod = 30 * 24 * time.Hour

// Start starts the archival scheduler if enabled and returns a cancel
// func. A disabled config returns a no-op cancel.
func Start(ctx context.Context, cfg *config.Config) (context.CancelFunc, error) {
	if !cfg.Retention.Enabled {
		logger.Log.Info("retention_disabled")
		return func() {}, nil
	}

	cronExpr := cfg.Retention.Cron
	if cronExpr == "" {
		cronExpr = "0 2 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Log.Error("retention_invalid_cron", zap.String("cron", cfg.Retention.Cron))
		return nil, fmt.Errorf("invalid retention cron expression: %s", cfg.Retention.Cron)
	}

	period, err := parsePeriod(cfg.Retention.Period)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("retention_enabled", zap.String("cron", cronExpr), zap.Duration("period", period))
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr, period)
	return cancel, nil
}

// RunOnce performs a single archival pass: every event recorded more than
// period ago moves to the archive namespace.
func RunOnce(period time.Duration) (int, error) {
	cutoff := time.Now().Add(-period).UTC().UnixNano()
	return ledger.ArchiveBefore(cutoff)
}

func parsePeriod(s string) (time.Duration, error) {
	if s == "" {
		return DefaultPeriod, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid retention period %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("retention period must be positive: %s", s)
	}
	return d, nil
}

// runScheduler computes the next cron tick via gronx and sleeps until it.
func runScheduler(ctx context.Context, cronExpr string, period time.Duration) {
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("retention_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Log.Error("retention_nexttick_failed", zap.String("cron", cronExpr), zap.Error(err))
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			logger.Log.Info("retention_scheduler_stopping")
			return
		}

		moved, err := RunOnce(period)
		if err != nil {
			logger.Log.Error("retention_run_error", zap.Error(err))
			continue
		}
		logger.Log.Info("retention_run_complete", zap.Int("archived", moved))
	}
}
