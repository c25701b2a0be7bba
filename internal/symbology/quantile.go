package symbology

import (
	"fmt"

	"github.com/jengzang/livestock-atlas-go/internal/stats"
)

// QuantileScale derives a ramp from the data: the first color covers every
// positive value and each further color starts at the matching percentile of
// the positive values. Equal cut points collapse into one bin.
func QuantileScale(values []float64, colors []string, fallback string) (ColorScale, error) {
	if len(colors) == 0 {
		return ColorScale{}, fmt.Errorf("%w: quantile scale needs at least one color", ErrInvalidScale)
	}

	positive := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		}
	}

	bins := []ColorBin{{Threshold: 0, Color: colors[0]}}
	if len(positive) > 0 && len(colors) > 1 {
		ps := make([]float64, len(colors)-1)
		for i := range ps {
			ps[i] = float64(i+1) * 100 / float64(len(colors))
		}
		for i, cut := range stats.Percentiles(positive, ps) {
			if cut <= bins[len(bins)-1].Threshold {
				continue
			}
			bins = append(bins, ColorBin{Threshold: cut, Color: colors[i+1], Inclusive: true})
		}
	}

	return NewColorScale(fallback, bins...)
}
