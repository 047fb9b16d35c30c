package models

import "time"

// SeriesPoint is one (timestamp, value) pair in a simplified curve.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Gap marks a span between two accepted snapshots that exceeds the
// display discontinuity threshold. Renderers must not draw a continuous
// line across it.
type Gap struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SimplifiedSeries is the derived chart payload for one (window, epsilon)
// request: a smoothed, simplified curve per candidate plus gap markers.
// It is ephemeral, rebuilt from the record log, and never persisted.
type SimplifiedSeries struct {
	Window     string                   `json:"window"`
	Epsilon    float64                  `json:"epsilon"`
	Candidates map[string][]SeriesPoint `json:"candidates"`
	Gaps       []Gap                    `json:"gaps"`
	From       time.Time                `json:"from"`
	To         time.Time                `json:"to"`
	Points     int                      `json:"points"`
}
