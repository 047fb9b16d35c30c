package usecase

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"OddsCast/internal/domain/models"
	"OddsCast/internal/repository"
	"OddsCast/internal/service/cache"

	"github.com/benbjohnson/clock"
)

func seedLog(t *testing.T, mock *clock.Mock) *repository.FileSnapshotLog {
	t.Helper()
	log := repository.NewFileSnapshotLog(filepath.Join(t.TempDir(), "snapshots.jsonl"), "", nil, nil)

	// 10 days of hourly records ending at the mock's current instant.
	now := mock.Now().UTC()
	for i := 240; i >= 0; i-- {
		snap := &models.Snapshot{
			Timestamp: now.Add(-time.Duration(i) * time.Hour),
			Candidates: []models.CandidateOdds{
				{Name: "Garcia", Probability: 28},
				{Name: "Wilson", Probability: 72},
			},
		}
		if err := log.Append(snap); err != nil {
			t.Fatalf("seed append: %v", err)
		}
	}
	return log
}

func newSeriesUseCase(t *testing.T) (*SeriesUseCase, *stubMetrics, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	log := seedLog(t, mock)
	metrics := newStubMetrics()
	uc := NewSeriesUseCase(log, cache.NewWithClock(60*time.Second, mock), metrics, mock)
	return uc, metrics, mock
}

func TestGetSimplifiedSeriesWindows(t *testing.T) {
	uc, _, mock := newSeriesUseCase(t)
	now := mock.Now().UTC()

	tests := []struct {
		window    string
		wantFirst time.Time
	}{
		{window: WindowDay, wantFirst: now.Add(-24 * time.Hour)},
		{window: WindowWeek, wantFirst: now.Add(-7 * 24 * time.Hour)},
		{window: WindowAll, wantFirst: now.Add(-240 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.window, func(t *testing.T) {
			series, err := uc.GetSimplifiedSeries(tt.window, 0.5)
			if err != nil {
				t.Fatalf("%s: %v", tt.window, err)
			}
			curve := series.Candidates["Garcia"]
			if len(curve) < 2 {
				t.Fatalf("%s: curve has %d points", tt.window, len(curve))
			}
			// Simplification always keeps a window's first and last point.
			if !curve[0].Timestamp.Equal(tt.wantFirst) {
				t.Fatalf("%s: first point at %v, want %v", tt.window, curve[0].Timestamp, tt.wantFirst)
			}
			if !curve[len(curve)-1].Timestamp.Equal(now) {
				t.Fatalf("%s: last point at %v, want %v", tt.window, curve[len(curve)-1].Timestamp, now)
			}
			if series.Window != tt.window {
				t.Fatalf("window label = %q", series.Window)
			}
		})
	}
}

func TestGetSimplifiedSeriesRejectsUnknownWindow(t *testing.T) {
	uc, _, _ := newSeriesUseCase(t)
	if _, err := uc.GetSimplifiedSeries("30d", 0.5); err == nil {
		t.Fatalf("expected error for unsupported window")
	}
}

func TestGetSimplifiedSeriesCaches(t *testing.T) {
	uc, metrics, mock := newSeriesUseCase(t)

	if _, err := uc.GetSimplifiedSeries(WindowWeek, 0.5); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := uc.GetSimplifiedSeries(WindowWeek, 0.5); err != nil {
		t.Fatalf("second: %v", err)
	}
	if metrics.cache["miss"] != 1 || metrics.cache["hit"] != 1 {
		t.Fatalf("cache counters = %v", metrics.cache)
	}

	// Different tolerance is a different entry.
	if _, err := uc.GetSimplifiedSeries(WindowWeek, 2.0); err != nil {
		t.Fatalf("third: %v", err)
	}
	if metrics.cache["miss"] != 2 {
		t.Fatalf("cache counters = %v", metrics.cache)
	}

	// After the TTL the entry is recomputed.
	mock.Add(61 * time.Second)
	if _, err := uc.GetSimplifiedSeries(WindowWeek, 0.5); err != nil {
		t.Fatalf("fourth: %v", err)
	}
	if metrics.cache["miss"] != 3 {
		t.Fatalf("cache counters = %v", metrics.cache)
	}
}

func TestSeriesExport(t *testing.T) {
	uc, _, _ := newSeriesUseCase(t)

	var buf bytes.Buffer
	if err := uc.Export(&buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("export produced no bytes")
	}
	if buf.Bytes()[buf.Len()-1] != '\n' {
		t.Fatalf("export must end with a newline")
	}
}

func TestGetAllSnapshots(t *testing.T) {
	uc, _, _ := newSeriesUseCase(t)
	snaps, err := uc.GetAllSnapshots()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(snaps) != 241 {
		t.Fatalf("expected 241 snapshots, got %d", len(snaps))
	}
}
