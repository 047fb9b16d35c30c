package chart

import (
	"math"
	"time"

	"OddsCast/internal/domain/models"
)

// DefaultEpsilon is the simplification tolerance used when a request
// does not specify one.
const DefaultEpsilon = 0.5

// Simplify reduces a curve with the Ramer-Douglas-Peucker algorithm:
// points within epsilon of the chord between their retained neighbors
// are dropped. The output is a strict subsequence of the input and
// always includes the first and last point.
//
// The recursion is run iteratively with an explicit stack so that call
// depth does not grow with input size.
func Simplify(points []models.SeriesPoint, epsilon float64) []models.SeriesPoint {
	if len(points) <= 2 {
		return points
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true

	type span struct{ first, last int }
	stack := []span{{0, len(points) - 1}}

	for len(stack) > 0 {
		sp := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if sp.last-sp.first < 2 {
			continue
		}

		maxDist := 0.0
		maxIdx := -1
		for i := sp.first + 1; i < sp.last; i++ {
			d := perpDistance(points[i], points[sp.first], points[sp.last])
			if d > maxDist {
				maxDist = d
				maxIdx = i
			}
		}

		if maxDist > epsilon {
			keep[maxIdx] = true
			stack = append(stack, span{sp.first, maxIdx}, span{maxIdx, sp.last})
		}
	}

	out := make([]models.SeriesPoint, 0, len(points))
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}

// perpDistance is the perpendicular distance of p from the chord a-b,
// measured with time on the x axis in hours and probability percent on
// the y axis, so that epsilon is meaningful in probability units at
// chart timescales.
func perpDistance(p, a, b models.SeriesPoint) float64 {
	ax, ay := 0.0, a.Value
	bx := hours(b.Timestamp.Sub(a.Timestamp))
	by := b.Value
	px := hours(p.Timestamp.Sub(a.Timestamp))
	py := p.Value

	dx := bx - ax
	dy := by - ay
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	return math.Abs(dy*px-dx*py+bx*ay-by*ax) / norm
}

func hours(d time.Duration) float64 {
	return d.Hours()
}
