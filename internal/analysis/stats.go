package analysis

import (
	"math"
	"sort"
)

// Summary describes a distribution of roster totals across scenarios.
// Variance is the sample variance (n-1); with fewer than two values it is 0.
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"stddev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	P05      float64 `json:"p05"`
	P95      float64 `json:"p95"`
}

// Summarize computes a Summary without modifying vals.
func Summarize(vals []float64) Summary {
	s := Summary{}
	if len(vals) == 0 {
		return s
	}
	s.Count = len(vals)

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	sorted := make([]float64, 0, len(vals))
	for _, v := range vals {
		sorted = append(sorted, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(sorted)
	s.Min = minv
	s.Max = maxv
	s.Mean = sum / float64(len(vals))
	if len(vals) > 1 {
		ss := 0.0
		for _, v := range vals {
			d := v - s.Mean
			ss += d * d
		}
		s.Variance = ss / float64(len(vals)-1)
		s.StdDev = math.Sqrt(s.Variance)
	}
	s.P05 = PercentileSorted(sorted, 0.05)
	s.P95 = PercentileSorted(sorted, 0.95)
	return s
}

// Mean returns 0 for an empty slice.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// Percentile sorts a copy of vals and interpolates the q-quantile.
func Percentile(vals []float64, q float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return PercentileSorted(sorted, q)
}

// PercentileSorted interpolates linearly between order statistics.
func PercentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
