// Package indicator implements the exponentially weighted calculations that
// feed signal derivation.
package indicator

// EWMA computes the exponentially weighted moving average of values with the
// decay parameterized by span (alpha = 2/(span+1)). Every output point is a
// weighted average over the full history up to it, with geometrically
// decaying weights. The span must be >= 1.
func EWMA(values []float64, span int) []float64 {
	alpha := 2.0 / (float64(span) + 1.0)
	decay := 1.0 - alpha

	out := make([]float64, len(values))
	var num, den float64
	for i, v := range values {
		num = v + decay*num
		den = 1 + decay*den
		out[i] = num / den
	}
	return out
}
