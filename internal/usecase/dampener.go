package usecase

import (
	"sync"

	"OddsCast/internal/domain/models"
)

// MaxStep bounds the per-candidate change between consecutive accepted
// snapshots, in probability-percentage points. Single-interval jumps
// beyond this are treated as thin-market noise, not genuine repricing.
const MaxStep = 3.0

// SpikeDampener clamps per-candidate movement against the most recently
// accepted snapshot. It starts cold on every process start: the first
// snapshot of a process lifetime is accepted unconditionally.
//
// Dampen only computes the clamped snapshot; the caller must Commit it
// after the snapshot has actually been accepted (persisted), so a
// failed append does not advance the reference state.
type SpikeDampener struct {
	mu   sync.Mutex
	prev *models.Snapshot
}

// NewSpikeDampener creates a dampener in the cold state.
func NewSpikeDampener() *SpikeDampener {
	return &SpikeDampener{}
}

// Dampen returns raw with each candidate's probability clamped to at
// most MaxStep away from the prior accepted value. Candidates absent
// from the prior snapshot pass through unclamped (new entrants).
func (d *SpikeDampener) Dampen(raw *models.Snapshot) *models.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := &models.Snapshot{
		Timestamp:  raw.Timestamp,
		Candidates: make([]models.CandidateOdds, len(raw.Candidates)),
	}
	copy(out.Candidates, raw.Candidates)

	if d.prev == nil {
		return out
	}

	for i := range out.Candidates {
		prior, ok := d.prev.Candidate(out.Candidates[i].Name)
		if !ok {
			continue
		}
		p := out.Candidates[i].Probability
		if p > prior.Probability+MaxStep {
			p = prior.Probability + MaxStep
		} else if p < prior.Probability-MaxStep {
			p = prior.Probability - MaxStep
		}
		out.Candidates[i].Probability = p
	}
	return out
}

// Commit records accepted as the new reference snapshot and moves the
// dampener to the warm state.
func (d *SpikeDampener) Commit(accepted *models.Snapshot) {
	d.mu.Lock()
	d.prev = accepted
	d.mu.Unlock()
}
