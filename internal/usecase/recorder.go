package usecase

import (
	"context"
	"errors"
	"fmt"

	drepo "OddsCast/internal/domain/repository"
	"OddsCast/internal/repository"
	applogger "OddsCast/pkg/logger"
)

// ErrCycleSkipped means a collection cycle completed without persisting
// a snapshot and left all state unchanged. Never fatal; the next cycle
// simply retries.
var ErrCycleSkipped = errors.New("collection cycle skipped")

// Recorder runs one full ingestion cycle: aggregate, dampen, append,
// mirror. It owns the only write path into the snapshot log.
type Recorder struct {
	agg     *Aggregator
	damp    *SpikeDampener
	log     drepo.SnapshotLog
	pub     drepo.Publisher // optional
	metrics drepo.Metrics
	l       *applogger.Logger
}

// NewRecorder creates a Recorder. pub may be nil.
func NewRecorder(agg *Aggregator, damp *SpikeDampener, log drepo.SnapshotLog, pub drepo.Publisher, metrics drepo.Metrics, l *applogger.Logger) *Recorder {
	return &Recorder{agg: agg, damp: damp, log: log, pub: pub, metrics: metrics, l: l}
}

// RecordCycle triggers one ingestion cycle. A skipped cycle (source
// failure, duplicate interval) leaves state unchanged and returns
// ErrCycleSkipped; a storage failure is fatal for this cycle only.
func (r *Recorder) RecordCycle(ctx context.Context) error {
	raw, err := r.agg.Collect(ctx)
	if err != nil {
		r.metrics.RecordCycle("skipped")
		return fmt.Errorf("%w: %v", ErrCycleSkipped, err)
	}

	accepted := r.damp.Dampen(raw)

	if err := r.log.Append(accepted); err != nil {
		if errors.Is(err, repository.ErrDuplicateSnapshot) || errors.Is(err, repository.ErrOutOfOrder) {
			r.metrics.RecordCycle("skipped")
			return fmt.Errorf("%w: %v", ErrCycleSkipped, err)
		}
		r.metrics.RecordCycle("failed")
		r.l.Error("snapshot append failed", applogger.Error(err))
		return fmt.Errorf("append snapshot: %w", err)
	}

	r.damp.Commit(accepted)

	for _, c := range accepted.Candidates {
		r.metrics.RecordProbability(c.Name, c.Probability)
	}

	if r.pub != nil {
		// Best effort; the file log is the source of truth.
		if err := r.pub.Publish(ctx, accepted); err != nil {
			r.l.Warn("snapshot publish failed", applogger.Error(err))
		}
	}

	r.metrics.RecordCycle("recorded")
	r.l.Info("snapshot recorded",
		applogger.Time("timestamp", accepted.Timestamp),
		applogger.Int("candidates", len(accepted.Candidates)),
	)
	return nil
}
