package stats

import (
	"math"
)

// ShannonEntropy calculates the Shannon entropy of a count distribution in bits
func ShannonEntropy(values []float64) float64 {
	total := Sum(positive(values))
	if total == 0 {
		return 0
	}

	var entropy float64
	for _, v := range values {
		if v > 0 {
			p := v / total
			entropy -= p * math.Log2(p)
		}
	}

	return entropy
}

// Diversity returns the normalized Shannon entropy (0 to 1) of a breakdown.
// A herd made of one species scores 0, an even split across all categories scores 1.
func Diversity(values []float64) Value {
	if Sum(positive(values)) == 0 {
		return NoData
	}
	if len(values) <= 1 {
		return Some(0)
	}

	maxEntropy := math.Log2(float64(len(values)))
	return Some(RoundTo(ShannonEntropy(values)/maxEntropy, 4))
}

func positive(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}
