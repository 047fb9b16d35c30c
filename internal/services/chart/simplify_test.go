package chart

import (
	"math"
	"testing"
	"time"

	"OddsCast/internal/domain/models"
)

func linePoints(base time.Time, values []float64) []models.SeriesPoint {
	pts := make([]models.SeriesPoint, len(values))
	for i, v := range values {
		pts[i] = models.SeriesPoint{Timestamp: base.Add(time.Duration(i) * time.Hour), Value: v}
	}
	return pts
}

func TestSimplifyKeepsEndpoints(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pts := linePoints(base, []float64{10, 10.1, 9.9, 10, 30})

	got := Simplify(pts, DefaultEpsilon)
	if len(got) < 2 {
		t.Fatalf("expected at least endpoints, got %d", len(got))
	}
	if !got[0].Timestamp.Equal(pts[0].Timestamp) || !got[len(got)-1].Timestamp.Equal(pts[len(pts)-1].Timestamp) {
		t.Fatalf("endpoints not preserved")
	}
}

func TestSimplifyCollinearCollapsesToEndpoints(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pts := linePoints(base, []float64{10, 12, 14, 16, 18, 20})

	got := Simplify(pts, 0.1)
	if len(got) != 2 {
		t.Fatalf("collinear points must collapse to 2, got %d", len(got))
	}
}

func TestSimplifyKeepsRealMoves(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pts := linePoints(base, []float64{10, 10, 10, 25, 10, 10, 10})

	got := Simplify(pts, DefaultEpsilon)
	found := false
	for _, p := range got {
		if p.Value == 25 {
			found = true
		}
	}
	if !found {
		t.Fatalf("simplification dropped a real move")
	}
}

func TestSimplifyIsSubsequence(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pts := linePoints(base, []float64{28, 28.2, 27.9, 31, 30.5, 26, 26.1, 29, 28.7, 28.9})

	got := Simplify(pts, DefaultEpsilon)
	j := 0
	for _, p := range got {
		for j < len(pts) && !pts[j].Timestamp.Equal(p.Timestamp) {
			j++
		}
		if j == len(pts) {
			t.Fatalf("output point %v not in input order", p.Timestamp)
		}
		if pts[j].Value != p.Value {
			t.Fatalf("output altered a point value: %v", p.Value)
		}
	}
}

func TestSimplifyFidelityWithinEpsilon(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pts := linePoints(base, []float64{28, 28.4, 27.9, 31, 30.5, 26, 26.1, 29, 28.7, 28.9, 30, 29.2})
	eps := 1.0

	got := Simplify(pts, eps)

	// Every dropped point must lie within eps of the chord between its
	// surviving neighbors.
	for _, p := range pts {
		var left, right models.SeriesPoint
		for i := range got {
			if !got[i].Timestamp.After(p.Timestamp) {
				left = got[i]
			}
			if got[i].Timestamp.After(p.Timestamp) || got[i].Timestamp.Equal(p.Timestamp) {
				right = got[i]
				break
			}
		}
		if right.Timestamp.IsZero() {
			right = left
		}
		d := perpDistance(p, left, right)
		if d > eps+1e-9 {
			t.Fatalf("point at %v deviates %v from simplified curve", p.Timestamp, d)
		}
	}
}

func TestSimplifyMonotoneInEpsilon(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pts := linePoints(base, []float64{28, 28.4, 27.9, 31, 30.5, 26, 26.1, 29, 28.7, 28.9, 30, 29.2})

	small := Simplify(pts, 0.2)
	large := Simplify(pts, 2.0)
	if len(large) > len(small) {
		t.Fatalf("larger epsilon kept more points: %d > %d", len(large), len(small))
	}
}

func TestSimplifyShortInputsPassThrough(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for n := 0; n <= 2; n++ {
		pts := linePoints(base, make([]float64, n))
		got := Simplify(pts, DefaultEpsilon)
		if len(got) != n {
			t.Fatalf("%d points must pass through, got %d", n, len(got))
		}
	}
}

func TestPerpDistanceDegenerateChord(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a := models.SeriesPoint{Timestamp: base, Value: 10}
	p := models.SeriesPoint{Timestamp: base, Value: 14}

	got := perpDistance(p, a, a)
	if math.Abs(got-4) > 1e-9 {
		t.Fatalf("degenerate chord distance = %v, want 4", got)
	}
}
