package usecase

import (
	"testing"
	"time"

	"OddsCast/internal/domain/models"
)

func snapWith(ts time.Time, probs map[string]float64) *models.Snapshot {
	s := &models.Snapshot{Timestamp: ts}
	for name, p := range probs {
		s.Candidates = append(s.Candidates, models.CandidateOdds{Name: name, Probability: p})
	}
	return s
}

func TestDampenColdStartPassesThrough(t *testing.T) {
	d := NewSpikeDampener()
	raw := snapWith(time.Now(), map[string]float64{"Garcia": 28.5})

	out := d.Dampen(raw)
	got, _ := out.Candidate("Garcia")
	if got.Probability != 28.5 {
		t.Fatalf("cold start must accept as-is, got %v", got.Probability)
	}
}

func TestDampenClampsStep(t *testing.T) {
	tests := []struct {
		name string
		prev float64
		raw  float64
		want float64
	}{
		{name: "upward spike clamped", prev: 28, raw: 35, want: 31},
		{name: "downward spike clamped", prev: 28, raw: 20, want: 25},
		{name: "move at the bound untouched", prev: 28, raw: 31, want: 31},
		{name: "small move untouched", prev: 28, raw: 29.4, want: 29.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewSpikeDampener()
			d.Commit(snapWith(time.Now(), map[string]float64{"Garcia": tt.prev}))

			out := d.Dampen(snapWith(time.Now(), map[string]float64{"Garcia": tt.raw}))
			got, _ := out.Candidate("Garcia")
			if got.Probability != tt.want {
				t.Fatalf("dampened = %v, want %v", got.Probability, tt.want)
			}
		})
	}
}

func TestDampenNewEntrantPassesThrough(t *testing.T) {
	d := NewSpikeDampener()
	d.Commit(snapWith(time.Now(), map[string]float64{"Garcia": 28}))

	out := d.Dampen(snapWith(time.Now(), map[string]float64{"Garcia": 28, "Novak": 12}))
	novak, ok := out.Candidate("Novak")
	if !ok {
		t.Fatalf("new entrant missing from output")
	}
	if novak.Probability != 12 {
		t.Fatalf("new entrant must pass through unclamped, got %v", novak.Probability)
	}
}

func TestDampenWithoutCommitKeepsReference(t *testing.T) {
	d := NewSpikeDampener()
	d.Commit(snapWith(time.Now(), map[string]float64{"Garcia": 28}))

	// Two dampens without an intervening commit clamp against the same
	// reference, as after a failed append.
	first := d.Dampen(snapWith(time.Now(), map[string]float64{"Garcia": 40}))
	second := d.Dampen(snapWith(time.Now(), map[string]float64{"Garcia": 40}))

	f, _ := first.Candidate("Garcia")
	s, _ := second.Candidate("Garcia")
	if f.Probability != 31 || s.Probability != 31 {
		t.Fatalf("reference advanced without commit: %v then %v", f.Probability, s.Probability)
	}

	d.Commit(first)
	third := d.Dampen(snapWith(time.Now(), map[string]float64{"Garcia": 40}))
	th, _ := third.Candidate("Garcia")
	if th.Probability != 34 {
		t.Fatalf("after commit expected 34, got %v", th.Probability)
	}
}

func TestDampenDoesNotMutateInput(t *testing.T) {
	d := NewSpikeDampener()
	d.Commit(snapWith(time.Now(), map[string]float64{"Garcia": 28}))

	raw := snapWith(time.Now(), map[string]float64{"Garcia": 40})
	d.Dampen(raw)
	got, _ := raw.Candidate("Garcia")
	if got.Probability != 40 {
		t.Fatalf("raw snapshot mutated: %v", got.Probability)
	}
}
