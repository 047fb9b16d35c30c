package models

import "time"

// CandidateOdds is one candidate's entry within a Snapshot.
type CandidateOdds struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
	HasKalshi   bool    `json:"has_kalshi"`
}

// Snapshot is one timestamped set of per-candidate probabilities.
// Probabilities are percentages in [0,100]; the set of names may grow
// over time but never shrinks retroactively.
type Snapshot struct {
	Timestamp  time.Time       `json:"timestamp"`
	Candidates []CandidateOdds `json:"candidates"`
}

// Candidate returns the entry for name, if present.
func (s *Snapshot) Candidate(name string) (CandidateOdds, bool) {
	for _, c := range s.Candidates {
		if c.Name == name {
			return c, true
		}
	}
	return CandidateOdds{}, false
}

// PolymarketReading is the per-candidate price from the Polymarket feed.
type PolymarketReading struct {
	Name  string
	Price float64 // percent, [0,100]
}

// KalshiQuote is the per-candidate order book view from the Kalshi feed.
// Prices are in percent. A zero YesBid means no resting buy interest
// (thin market); midpoint-style prices are degenerate in that case.
type KalshiQuote struct {
	Name     string
	Last     float64
	YesBid   float64
	YesAsk   float64
	BidDepth float64
	AskDepth float64
}
