package flows

import "gonum.org/v1/gonum/stat"

// movingAverage returns the trailing rolling mean of values over nperiods.
// Early positions average however many values are available. With
// nperiods <= 1 the input slice is returned unchanged.
func movingAverage(values []float64, nperiods int) []float64 {
	if nperiods <= 1 {
		return values
	}
	out := make([]float64, len(values))
	for i := range values {
		lo := i - nperiods + 1
		if lo < 0 {
			lo = 0
		}
		out[i] = stat.Mean(values[lo:i+1], nil)
	}
	return out
}
