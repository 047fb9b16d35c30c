package chart

// DefaultAlpha is the exponential smoothing factor applied to every
// candidate curve before simplification.
const DefaultAlpha = 0.15

// Smooth applies exponential smoothing in chronological order:
// out[0] = in[0]; out[i] = alpha*in[i] + (1-alpha)*out[i-1].
//
// Smoothing always starts from the first point of the given window, so
// values near the window's left boundary are less smoothed than
// steady-state. That window-relative behavior is intentional.
func Smooth(values []float64, alpha float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
