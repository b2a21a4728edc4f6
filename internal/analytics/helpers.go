package analytics

import "math"

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percentChange returns 0 when from is 0.
func percentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
