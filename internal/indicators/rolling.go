package indicators

import "math"

// RollingMean computes the simple moving average over a trailing window.
// The first window-1 positions are NaN: the average is undefined until a
// full window of observations exists, and that undefinedness must propagate
// rather than read as zero.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || len(values) < window {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// SlopeAngle converts the one-step slope of a moving average into degrees,
// normalizing the slope by one percent of the same-day close:
//
//	angle[t] = atan((ma[t] - ma[t-1]) / (close[t] * 0.01)) * 180 / pi
//
// Position 0 and any position where ma[t] or ma[t-1] is NaN are NaN.
func SlopeAngle(ma, close []float64) []float64 {
	out := make([]float64, len(ma))
	for i := range out {
		out[i] = math.NaN()
	}
	n := len(ma)
	if len(close) < n {
		n = len(close)
	}
	for t := 1; t < n; t++ {
		if math.IsNaN(ma[t]) || math.IsNaN(ma[t-1]) {
			continue
		}
		delta := ma[t] - ma[t-1]
		normalized := delta / (close[t] * 0.01)
		out[t] = math.Atan(normalized) * 180 / math.Pi
	}
	return out
}
