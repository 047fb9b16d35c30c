package chart

import (
	"testing"
	"time"

	"OddsCast/internal/domain/models"
)

func TestBuild(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	var snaps []models.Snapshot
	for i := 0; i < 48; i++ {
		off := time.Duration(i) * time.Hour
		if i >= 24 {
			off += 3 * time.Hour // outage between hour 23 and 27
		}
		snaps = append(snaps, models.Snapshot{
			Timestamp: base.Add(off),
			Candidates: []models.CandidateOdds{
				{Name: "Garcia", Probability: 28 + float64(i%3)},
				{Name: "Wilson", Probability: 72 - float64(i%3)},
			},
		})
	}

	series := Build(snaps, "7d", DefaultEpsilon, base, base.Add(51*time.Hour))

	if series.Window != "7d" || series.Epsilon != DefaultEpsilon {
		t.Fatalf("window/epsilon not carried: %s %v", series.Window, series.Epsilon)
	}
	if len(series.Gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(series.Gaps))
	}
	if len(series.Candidates) != 2 {
		t.Fatalf("expected 2 candidate curves, got %d", len(series.Candidates))
	}

	total := 0
	for name, pts := range series.Candidates {
		if len(pts) == 0 {
			t.Fatalf("candidate %s has no points", name)
		}
		if len(pts) > len(snaps) {
			t.Fatalf("candidate %s grew points: %d", name, len(pts))
		}
		total += len(pts)
	}
	if series.Points != total {
		t.Fatalf("points = %d, want %d", series.Points, total)
	}
}

func TestBuildLateEntrant(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	var snaps []models.Snapshot
	for i := 0; i < 10; i++ {
		s := models.Snapshot{
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
			Candidates: []models.CandidateOdds{{Name: "Garcia", Probability: 50}},
		}
		if i >= 5 {
			s.Candidates = append(s.Candidates, models.CandidateOdds{Name: "Novak", Probability: 8})
		}
		snaps = append(snaps, s)
	}

	series := Build(snaps, "all", DefaultEpsilon, base, base.Add(9*time.Hour))
	novak := series.Candidates["Novak"]
	if len(novak) == 0 {
		t.Fatalf("late entrant missing")
	}
	if !novak[0].Timestamp.Equal(base.Add(5 * time.Hour)) {
		t.Fatalf("late entrant curve starts at %v", novak[0].Timestamp)
	}
}

func TestBuildEmpty(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := Build(nil, "1d", DefaultEpsilon, base, base.Add(24*time.Hour))
	if series.Points != 0 || len(series.Candidates) != 0 || len(series.Gaps) != 0 {
		t.Fatalf("empty window must produce an empty series")
	}
}
