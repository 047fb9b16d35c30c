package chart

import (
	"math"
	"testing"
)

func TestSmooth(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		alpha  float64
		want   []float64
	}{
		{name: "empty", values: nil, alpha: DefaultAlpha, want: nil},
		{name: "single point unchanged", values: []float64{42}, alpha: DefaultAlpha, want: []float64{42}},
		{
			name:   "seeds from first value",
			values: []float64{10, 20, 20},
			alpha:  0.5,
			want:   []float64{10, 15, 17.5},
		},
		{
			name:   "constant input unchanged",
			values: []float64{30, 30, 30, 30},
			alpha:  DefaultAlpha,
			want:   []float64{30, 30, 30, 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Smooth(tt.values, tt.alpha)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Fatalf("out[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSmoothDampensStep(t *testing.T) {
	// A step input converges toward the new level without overshooting.
	values := []float64{20, 20, 30, 30, 30, 30}
	got := Smooth(values, DefaultAlpha)
	prev := got[1]
	for i := 2; i < len(got); i++ {
		if got[i] <= prev {
			t.Fatalf("smoothed step must rise monotonically, out[%d]=%v prev=%v", i, got[i], prev)
		}
		if got[i] > 30 {
			t.Fatalf("smoothed value overshot: %v", got[i])
		}
		prev = got[i]
	}
}

func TestSmoothDoesNotMutateInput(t *testing.T) {
	values := []float64{10, 40, 10}
	Smooth(values, DefaultAlpha)
	if values[1] != 40 {
		t.Fatalf("input slice mutated: %v", values)
	}
}
