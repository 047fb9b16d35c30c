package chart

import (
	"time"

	"OddsCast/internal/domain/models"
)

// GapThreshold is the span between consecutive accepted snapshots beyond
// which the series carries an explicit discontinuity marker.
const GapThreshold = 2 * time.Hour

// DetectGaps returns one gap marker per consecutive snapshot pair whose
// time difference exceeds threshold. Snapshots must be in chronological
// order.
func DetectGaps(snaps []models.Snapshot, threshold time.Duration) []models.Gap {
	var gaps []models.Gap
	for i := 1; i < len(snaps); i++ {
		if snaps[i].Timestamp.Sub(snaps[i-1].Timestamp) > threshold {
			gaps = append(gaps, models.Gap{
				Start: snaps[i-1].Timestamp,
				End:   snaps[i].Timestamp,
			})
		}
	}
	return gaps
}
