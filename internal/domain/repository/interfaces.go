package repository

import (
	"context"
	"io"
	"time"

	"OddsCast/internal/domain/models"
)

// SnapshotLog is the durable append-only store of accepted snapshots.
// Append, MigrateLegacy and PurgeBefore serialize on a single writer;
// reads may run concurrently with writes.
type SnapshotLog interface {
	Append(snapshot *models.Snapshot) error
	ReadAll() ([]models.Snapshot, error)
	ReadRange(from, to time.Time) ([]models.Snapshot, error)
	MigrateLegacy() error
	PurgeBefore(cutoff time.Time) error
	Export(w io.Writer) error
}

// PolymarketSource fetches the current per-candidate prices from Polymarket.
type PolymarketSource interface {
	Fetch(ctx context.Context) ([]models.PolymarketReading, error)
}

// KalshiSource fetches the current per-candidate order book view from Kalshi.
type KalshiSource interface {
	Fetch(ctx context.Context) ([]models.KalshiQuote, error)
}

// Publisher mirrors accepted snapshots to an external topic. The file
// log remains the source of truth; publish failures never fail a cycle.
type Publisher interface {
	Publish(ctx context.Context, s *models.Snapshot) error
	Close() error
}

// LeaderLock guards the ingestion loop so that exactly one process
// system-wide runs collection cycles.
type LeaderLock interface {
	Acquire(ctx context.Context) (bool, error)
	Renew(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type Metrics interface {
	RecordCycle(result string)
	RecordCorruptRecord()
	RecordAppendError()
	RecordProbability(candidate string, pct float64)
	RecordSourceLatency(source string, seconds float64)
	RecordCache(result string)
}
