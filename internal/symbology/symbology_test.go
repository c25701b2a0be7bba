package symbology

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/livestock-atlas-go/internal/models"
)

var palette = DefaultPalette()

func TestTotalScaleThresholds(t *testing.T) {
	assert.Equal(t, "#E31A1C", palette.Total.ColorFor(1150))
	assert.Equal(t, "#FC4E2A", palette.Total.ColorFor(999))
	assert.Equal(t, "#FC4E2A", palette.Total.ColorFor(1000), "bounds are exclusive")
	assert.Equal(t, "#800026", palette.Total.ColorFor(50000))
	assert.Equal(t, "#FFEDA0", palette.Total.ColorFor(0))
	assert.Equal(t, "#FFEDA0", palette.Total.ColorFor(math.NaN()))
}

func TestHeadsPerBreederFallback(t *testing.T) {
	assert.Equal(t, "#e5e7eb", palette.HeadsPerBreeder.ColorFor(0))
	assert.Equal(t, "#e5e7eb", palette.HeadsPerBreeder.ColorForValue(12, false))
	assert.Equal(t, "#f87171", palette.HeadsPerBreeder.ColorFor(9.5))
	assert.Equal(t, "#16a34a", palette.HeadsPerBreeder.ColorFor(12.01))
}

func TestDensityScaleInclusiveBounds(t *testing.T) {
	assert.Equal(t, "#d0f0c0", palette.Density.ColorFor(4.99))
	assert.Equal(t, "#a3d9a5", palette.Density.ColorFor(5))
	assert.Equal(t, "#005f56", palette.Density.ColorFor(25))
	assert.Equal(t, "#ffffff", palette.Density.ColorFor(0))
}

func TestColorScalesAreTotalAndMonotonic(t *testing.T) {
	for name, scale := range map[string]ColorScale{
		"total":   palette.Total,
		"heads":   palette.HeadsPerBreeder,
		"density": palette.Density,
	} {
		rank := func(c string) int {
			for i := len(scale.Bins) - 1; i >= 0; i-- {
				if scale.Bins[i].Color == c {
					return i + 1
				}
			}
			return 0
		}

		prev := -1
		for v := -10.0; v <= 4000; v += 0.5 {
			c := scale.ColorFor(v)
			require.NotEmpty(t, c, "%s at %v", name, v)
			r := rank(c)
			assert.GreaterOrEqual(t, r, prev, "%s at %v", name, v)
			prev = r
		}
	}
}

func TestNewColorScaleValidation(t *testing.T) {
	_, err := NewColorScale("#fff", ColorBin{Threshold: 10, Color: "#a"}, ColorBin{Threshold: 10, Color: "#b"})
	assert.ErrorIs(t, err, ErrInvalidScale)

	_, err = NewColorScale("#fff", ColorBin{Threshold: 1})
	assert.ErrorIs(t, err, ErrInvalidScale)

	_, err = NewColorScale("", ColorBin{Threshold: 1, Color: "#a"})
	assert.ErrorIs(t, err, ErrInvalidScale)

	s, err := NewColorScale("#fff")
	require.NoError(t, err)
	assert.Equal(t, "#fff", s.ColorFor(100))
}

func TestColorScaleLegend(t *testing.T) {
	legend := palette.HeadsPerBreeder.Legend(func(lower, upper float64, last bool) string {
		if last {
			return "top"
		}
		return "bin"
	}, "no data")

	require.Len(t, legend, 5)
	assert.Equal(t, models.LegendEntry{Color: "#16a34a", Label: "top"}, legend[0])
	assert.Equal(t, models.LegendEntry{Color: "#e5e7eb", Label: "no data"}, legend[4])
}

func TestCenterNameLookup(t *testing.T) {
	assert.Equal(t, "#1e3a8a", palette.Centers.ColorFor("دمياط"))
	assert.Equal(t, "#1e3a8a", palette.Centers.ColorFor("  مركز دمياط "))
	assert.Equal(t, "#10a971", palette.Centers.ColorFor("قسم فارسكور"))
	assert.Equal(t, "#9ca3af", palette.Centers.ColorFor("رأس البر"))
	assert.Equal(t, "#9ca3af", palette.Centers.ColorFor(""))
	assert.Len(t, palette.Centers.Legend(), 6)
}

func TestCategoryLookupHasNoPrefixStripping(t *testing.T) {
	assert.Equal(t, "#34d399", palette.Categories.ColorFor("sheep"))
	assert.Equal(t, "#999999", palette.Categories.ColorFor("Sheep"))
	assert.Equal(t, "أغنام", palette.Categories.Label("sheep"))
	assert.Equal(t, "camels", palette.Categories.Label("camels"))
}

func TestBreakpointRadius(t *testing.T) {
	r := palette.TotalRadius
	assert.Equal(t, 5.0, r.RadiusFor(0))
	assert.Equal(t, 5.0, r.RadiusFor(-20))
	assert.Equal(t, 5.0, r.RadiusFor(math.NaN()))
	assert.Equal(t, 5.0, r.RadiusFor(100))
	assert.Equal(t, 10.0, r.RadiusFor(101))
	assert.Equal(t, 20.0, r.RadiusFor(1150))
	assert.Equal(t, 30.0, r.RadiusFor(3001))

	prev := 0.0
	for v := -5.0; v < 5000; v += 7 {
		got := r.RadiusFor(v)
		assert.GreaterOrEqual(t, got, r.Min)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestContinuousRadius(t *testing.T) {
	s := palette.SubcenterRadius
	assert.Equal(t, 5.0, s.RadiusFor(0))
	assert.Equal(t, 5.0, s.RadiusFor(math.NaN()))
	assert.Equal(t, 5.0, s.RadiusFor(64))
	assert.Equal(t, 10.0, s.RadiusFor(400))
	assert.Equal(t, 20.0, s.RadiusFor(1e9))
	assert.Equal(t, 20.0, s.RadiusFor(math.Inf(1)))

	h := palette.HeadsRadius
	assert.Equal(t, 3.0, h.RadiusFor(1))
	assert.Equal(t, 6.0, h.RadiusFor(12))

	prev := 0.0
	for v := -1.0; v < 3000; v += 3 {
		got := s.RadiusFor(v)
		assert.GreaterOrEqual(t, got, s.Min)
		assert.LessOrEqual(t, got, s.Max)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestRadiusScaleValidation(t *testing.T) {
	_, err := NewBreakpointScale(0)
	assert.ErrorIs(t, err, ErrInvalidScale)
	_, err = NewBreakpointScale(5, Breakpoint{Above: 10, Radius: 4})
	assert.ErrorIs(t, err, ErrInvalidScale)
	_, err = NewBreakpointScale(5, Breakpoint{Above: 10, Radius: 8}, Breakpoint{Above: 10, Radius: 9})
	assert.ErrorIs(t, err, ErrInvalidScale)

	_, err = NewContinuousScale("log", 1, 1, 2)
	assert.ErrorIs(t, err, ErrInvalidScale)
	_, err = NewContinuousScale(TransformSqrt, 1, 5, 4)
	assert.ErrorIs(t, err, ErrInvalidScale)
	_, err = NewContinuousScale(TransformSqrt, 0, 1, 4)
	assert.ErrorIs(t, err, ErrInvalidScale)
}

func TestPieGlyphEvenSplit(t *testing.T) {
	b := models.Breakdown{{Key: "sheep", Value: 50}, {Key: "goats", Value: 50}}

	g, ok := BuildPieGlyph(b, 20, palette.Categories)
	require.True(t, ok)
	require.Len(t, g.Sectors, 2)

	for _, s := range g.Sectors {
		assert.InDelta(t, 180, s.Sweep(), 1e-9)
		assert.False(t, s.LargeArc)
	}
	assert.Equal(t, "M20,20 L40,20 A20,20 0 0,1 0,20 Z", g.Sectors[0].Path)
	assert.Equal(t, "#34d399", g.Sectors[0].Color)
	assert.Equal(t, "#10b981", g.Sectors[1].Color)
	assert.Contains(t, g.Markup, `viewBox="0 0 40 40"`)
	assert.Equal(t, 2, strings.Count(g.Markup, "<path"))

	icon := g.Icon("pie-marker")
	assert.Equal(t, [2]float64{40, 40}, icon.Size)
	assert.Equal(t, [2]float64{20, 20}, icon.Anchor)
}

func TestPieGlyphAnglesSumTo360(t *testing.T) {
	b := models.Breakdown{
		{Key: "cow_dairy", Value: 13},
		{Key: "sheep", Value: 0},
		{Key: "goats", Value: 7.5},
		{Key: "unknown", Value: 101},
		{Key: "pack_animals", Value: -4},
	}

	g, ok := BuildPieGlyph(b, 15, palette.Categories)
	require.True(t, ok)
	require.Len(t, g.Sectors, 3, "non-positive entries are dropped")

	var sum float64
	for i, s := range g.Sectors {
		sum += s.Sweep()
		if i > 0 {
			assert.Equal(t, g.Sectors[i-1].EndAngle, s.StartAngle)
		}
	}
	assert.InDelta(t, 360, sum, 1e-9)
	assert.Equal(t, 0.0, g.Sectors[0].StartAngle)
	assert.True(t, g.Sectors[2].LargeArc, "101 of 121.5 spans more than half")
	assert.Equal(t, "#999999", g.Sectors[2].Color)
}

func TestPieGlyphDominantSectorDrawsAsCircle(t *testing.T) {
	b := models.Breakdown{{Key: "sheep", Value: 1e8}, {Key: "goats", Value: 1}}

	g, ok := BuildPieGlyph(b, 15, palette.Categories)
	require.True(t, ok)
	require.Len(t, g.Sectors, 2)

	assert.True(t, g.Sectors[0].LargeArc)
	assert.Empty(t, g.Sectors[0].Path, "endpoints round together")
	assert.NotEmpty(t, g.Sectors[1].Path)

	assert.Equal(t, 1, strings.Count(g.Markup, "<circle"))
	assert.Equal(t, 1, strings.Count(g.Markup, "<path"))
	assert.Less(t, strings.Index(g.Markup, "<circle"), strings.Index(g.Markup, "<path"))
	assert.Contains(t, g.Markup, `fill="#34d399"`)
}

func TestPieGlyphSingleCategoryIsFullCircle(t *testing.T) {
	b := models.Breakdown{{Key: "sheep", Value: 0}, {Key: "goats", Value: 42}}

	g, ok := BuildPieGlyph(b, 10, palette.Categories)
	require.True(t, ok)
	require.Len(t, g.Sectors, 1)
	assert.Equal(t, 360.0, g.Sectors[0].Sweep())
	assert.Contains(t, g.Markup, `<circle cx="10" cy="10" r="10" fill="#10b981"/>`)
	assert.NotContains(t, g.Markup, "<path")
}

func TestPieGlyphZeroTotal(t *testing.T) {
	_, ok := BuildPieGlyph(models.Breakdown{{Key: "sheep", Value: 0}}, 10, palette.Categories)
	assert.False(t, ok)

	_, ok = BuildPieGlyph(nil, 10, palette.Categories)
	assert.False(t, ok)

	_, ok = BuildPieGlyph(models.Breakdown{{Key: "sheep", Value: 3}}, 0, palette.Categories)
	assert.False(t, ok)
}

func TestBarGlyph(t *testing.T) {
	type row struct{ total, breeders float64 }
	rows := []row{{total: 700, breeders: 70}, {total: 350, breeders: 0}, {}}
	max := BarMax(rows, func(r row) float64 { return r.total }, func(r row) float64 { return r.breeders })
	assert.Equal(t, 700.0, max)

	g, ok := BuildBarGlyph(350, 70, max, palette.Bars, palette.BarColors[0], palette.BarColors[1])
	require.True(t, ok)
	assert.Equal(t, 17.5, g.LeftHeight)
	assert.Equal(t, 3.5, g.RightHeight)
	assert.Contains(t, g.Markup, `fill="#3b82f6"`)

	icon := g.Icon("bar-marker")
	assert.Equal(t, [2]float64{20, 35}, icon.Size)
	assert.Equal(t, [2]float64{10, 35}, icon.Anchor)

	_, ok = BuildBarGlyph(0, 0, max, palette.Bars, "#a", "#b")
	assert.False(t, ok)

	assert.Equal(t, 1.0, BarMax([]row{}, func(r row) float64 { return r.total }, func(r row) float64 { return r.breeders }))
}

func TestQuantileScale(t *testing.T) {
	values := []float64{0, 10, 20, 30, 40, 50}
	s, err := QuantileScale(values, []string{"#1", "#2", "#3"}, "#0")
	require.NoError(t, err)

	assert.Equal(t, "#0", s.ColorFor(0))
	assert.Equal(t, "#1", s.ColorFor(5))
	assert.Equal(t, "#3", s.ColorFor(50))

	flat, err := QuantileScale([]float64{7, 7, 7}, []string{"#1", "#2", "#3"}, "#0")
	require.NoError(t, err)
	assert.Len(t, flat.Bins, 2)

	_, err = QuantileScale(values, nil, "#0")
	assert.ErrorIs(t, err, ErrInvalidScale)
}
