package usecase

import (
	"fmt"
	"io"
	"time"

	"OddsCast/internal/domain/models"
	drepo "OddsCast/internal/domain/repository"
	"OddsCast/internal/service/cache"
	"OddsCast/internal/services/chart"

	"github.com/benbjohnson/clock"
)

// Supported chart windows.
const (
	WindowDay  = "1d"
	WindowWeek = "7d"
	WindowAll  = "all"
)

// SeriesUseCase serves the read path: record log -> smoothing and
// simplification -> short-lived cache.
type SeriesUseCase struct {
	log     drepo.SnapshotLog
	cache   *cache.ChartCache
	metrics drepo.Metrics
	clk     clock.Clock
}

// NewSeriesUseCase creates a SeriesUseCase.
func NewSeriesUseCase(log drepo.SnapshotLog, c *cache.ChartCache, metrics drepo.Metrics, clk clock.Clock) *SeriesUseCase {
	return &SeriesUseCase{log: log, cache: c, metrics: metrics, clk: clk}
}

// GetAllSnapshots returns every parseable record in file order.
func (uc *SeriesUseCase) GetAllSnapshots() ([]models.Snapshot, error) {
	return uc.log.ReadAll()
}

// GetSimplifiedSeries returns the bounded chart payload for a window
// and tolerance, recomputing on cache miss or expiry.
func (uc *SeriesUseCase) GetSimplifiedSeries(window string, epsilon float64) (*models.SimplifiedSeries, error) {
	from, to, err := uc.windowRange(window)
	if err != nil {
		return nil, err
	}

	key := cache.Key(window, epsilon)
	if series, ok := uc.cache.Get(key); ok {
		uc.metrics.RecordCache("hit")
		return series, nil
	}
	uc.metrics.RecordCache("miss")

	snaps, err := uc.log.ReadRange(from, to)
	if err != nil {
		return nil, fmt.Errorf("read window: %w", err)
	}

	series := chart.Build(snaps, window, epsilon, from, to)
	uc.cache.Set(key, series)
	return series, nil
}

// Export streams the raw log, byte-identical to the on-disk format.
func (uc *SeriesUseCase) Export(w io.Writer) error {
	return uc.log.Export(w)
}

func (uc *SeriesUseCase) windowRange(window string) (time.Time, time.Time, error) {
	now := uc.clk.Now().UTC()
	switch window {
	case WindowDay:
		return now.Add(-24 * time.Hour), now, nil
	case WindowWeek:
		return now.Add(-7 * 24 * time.Hour), now, nil
	case WindowAll:
		return time.Time{}, now, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unsupported window %q", window)
	}
}
