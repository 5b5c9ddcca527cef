package worker

import (
	"context"
	"time"

	"organizese/internal/logger"
	"organizese/internal/service"

	"go.uber.org/zap"
)

// Repairer is the part of the task service the worker drives.
type Repairer interface {
	RepairAll(ctx context.Context, batchSize int) (service.RepairSummary, error)
}

// RepairWorker periodically reconciles completion and forward histories.
type RepairWorker struct {
	repairer  Repairer
	interval  time.Duration
	batchSize int
}

func NewRepairWorker(repairer Repairer, interval *time.Duration, batchSize *int) *RepairWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = time.Hour
	} else {
		intervalToSet = *interval
	}

	var batchToSet int
	if batchSize == nil || *batchSize <= 0 {
		batchToSet = 100
	} else {
		batchToSet = *batchSize
	}
	return &RepairWorker{
		repairer:  repairer,
		interval:  intervalToSet,
		batchSize: batchToSet,
	}
}

// Start blocks until ctx is cancelled.
func (w *RepairWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: history repair scheduled", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: history repair started", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: history repair stopping")
			return
		}
	}
}

// Check runs one repair pass and returns its summary.
func (w *RepairWorker) Check(ctx context.Context) service.RepairSummary {
	start := time.Now()

	summary, err := w.repairer.RepairAll(ctx, w.batchSize)
	if err != nil {
		logger.Warn("Worker: history repair interrupted",
			zap.Error(err),
			zap.Int("checked", summary.Checked))
		return summary
	}

	logger.Info(
		"Worker: history repair finished",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", summary.Checked),
		zap.Int("repaired", summary.Repaired),
		zap.Int("skipped", summary.Skipped),
	)
	return summary
}
