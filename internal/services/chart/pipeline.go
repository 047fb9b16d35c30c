package chart

import (
	"time"

	"OddsCast/internal/domain/models"
)

// Build runs the full smoothing and simplification pipeline over a
// window of accepted snapshots and returns the bounded chart payload.
// Snapshots must be in chronological order.
func Build(snaps []models.Snapshot, window string, epsilon float64, from, to time.Time) *models.SimplifiedSeries {
	series := &models.SimplifiedSeries{
		Window:     window,
		Epsilon:    epsilon,
		Candidates: make(map[string][]models.SeriesPoint),
		Gaps:       DetectGaps(snaps, GapThreshold),
		From:       from,
		To:         to,
	}

	// Per-candidate raw curves. A candidate contributes a point only for
	// snapshots it appears in; names may join the race mid-series.
	raw := make(map[string][]models.SeriesPoint)
	for i := range snaps {
		for _, c := range snaps[i].Candidates {
			raw[c.Name] = append(raw[c.Name], models.SeriesPoint{
				Timestamp: snaps[i].Timestamp,
				Value:     c.Probability,
			})
		}
	}

	total := 0
	for name, pts := range raw {
		values := make([]float64, len(pts))
		for i := range pts {
			values[i] = pts[i].Value
		}
		smoothed := Smooth(values, DefaultAlpha)
		for i := range pts {
			pts[i].Value = smoothed[i]
		}
		simplified := Simplify(pts, epsilon)
		series.Candidates[name] = simplified
		total += len(simplified)
	}
	series.Points = total

	return series
}
