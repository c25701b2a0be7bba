package render

import (
	"fmt"
	"math"

	geojson "github.com/paulmach/go.geojson"

	"github.com/jengzang/livestock-atlas-go/internal/dotdensity"
	"github.com/jengzang/livestock-atlas-go/internal/measure"
	"github.com/jengzang/livestock-atlas-go/internal/models"
	"github.com/jengzang/livestock-atlas-go/internal/spatial"
	"github.com/jengzang/livestock-atlas-go/internal/stats"
	"github.com/jengzang/livestock-atlas-go/internal/symbology"
)

// Layer identifiers
const (
	LayerCenters         = "centers"
	LayerHeadsPerBreeder = "heads_per_breeder"
	LayerFatteningDairy  = "fattening_dairy"
	LayerSubcenterTotals = "subcenter_totals"
	LayerSubcenterTypes  = "subcenter_types"
	LayerDensity         = "density"
)

// Options tunes the builder
type Options struct {
	Locale    string
	PieRadius float64
}

// Builder assembles layer payloads from records. It holds no per-request state.
type Builder struct {
	palette   symbology.Palette
	format    *Formatter
	pieRadius float64
}

// NewBuilder creates a layer builder over a palette
func NewBuilder(palette symbology.Palette, opts Options) *Builder {
	radius := opts.PieRadius
	if !(radius > 0) {
		radius = 15
	}
	return &Builder{
		palette:   palette,
		format:    NewFormatter(opts.Locale),
		pieRadius: radius,
	}
}

// Palette exposes the scales in use
func (b *Builder) Palette() symbology.Palette {
	return b.palette
}

// Formatter exposes the number formatter in use
func (b *Builder) Formatter() *Formatter {
	return b.format
}

// HeadsPerBreeder prefers the reported ratio and otherwise derives total / breeders
func HeadsPerBreeder(r models.RegionRecord) stats.Value {
	if _, ok := r.Measures[measure.HeadsPerBreeder]; ok {
		return stats.Some(measure.ReportedHeads.Of(r))
	}
	return stats.PerUnit(measure.ReportedTotal.Of(r), measure.BreederCount.Of(r))
}

func newLayer(name, title string, records []models.RegionRecord) models.LayerPayload {
	return models.LayerPayload{
		Layer:    name,
		Title:    title,
		Bounds:   spatial.RecordBounds(records),
		Polygons: geojson.NewFeatureCollection(),
		Markers:  []models.Marker{},
		Legend:   []models.LegendEntry{},
	}
}

func (b *Builder) polygon(r models.RegionRecord, value float64, fill, tooltip string) *geojson.Feature {
	f := geojson.NewFeature(r.Geometry)
	f.ID = r.ID
	f.SetProperty("id", r.ID)
	f.SetProperty("name", r.DisplayName())
	f.SetProperty("center", r.Name)
	f.SetProperty("value", value)
	f.SetProperty("style", b.palette.Style(fill))
	f.SetProperty("hoverStyle", b.palette.Hover(fill))
	f.SetProperty("tooltip", tooltip)
	return f
}

func marker(r models.RegionRecord, kind, tooltip string) models.Marker {
	return models.Marker{
		ID:      r.ID,
		Name:    r.DisplayName(),
		Lat:     r.Centroid.Lat,
		Lng:     r.Centroid.Lng,
		Kind:    kind,
		Tooltip: tooltip,
	}
}

// Centers colors each center by identity and compares total against breeders
// with a two-bar glyph
func (b *Builder) Centers(records []models.RegionRecord) models.LayerPayload {
	layer := newLayer(LayerCenters, "إجمالي الثروة مقابل عدد المربين", records)

	max := symbology.BarMax(records, measure.ReportedTotal.Of, measure.BreederCount.Of)
	for _, r := range records {
		total := measure.ReportedTotal.Of(r)
		breeders := measure.BreederCount.Of(r)
		tip := NewTooltip(r.DisplayName()).
			Line("الثروة", b.format.Number(total)).
			Line("المربين", b.format.Number(breeders)).
			String()

		if r.HasGeometry() {
			layer.Polygons.AddFeature(b.polygon(r, total, b.palette.Centers.ColorFor(r.Name), tip))
		}
		if !r.HasCentroid() {
			continue
		}
		glyph, ok := symbology.BuildBarGlyph(total, breeders, max, b.palette.Bars, b.palette.BarColors[0], b.palette.BarColors[1])
		if !ok {
			continue
		}
		m := marker(r, models.MarkerBars, tip)
		icon := glyph.Icon("bar-marker")
		m.Icon = &icon
		layer.Markers = append(layer.Markers, m)
	}

	layer.Legend = append(b.palette.Centers.Legend(),
		models.LegendEntry{Color: b.palette.BarColors[0], Label: "الثروة الحيوانية"},
		models.LegendEntry{Color: b.palette.BarColors[1], Label: "عدد المربين"},
	)
	return layer
}

// HeadsPerBreeder shades centers by average heads per breeder
func (b *Builder) HeadsPerBreeder(records []models.RegionRecord) models.LayerPayload {
	layer := newLayer(LayerHeadsPerBreeder, "متوسط عدد الرؤوس لكل مربي", records)
	scale := b.palette.HeadsPerBreeder

	for _, r := range records {
		hpb := HeadsPerBreeder(r)
		fill := scale.ColorForValue(hpb.Number, hpb.Valid)
		tip := NewTooltip(r.DisplayName()).
			Line("رؤوس لكل مربي", b.format.Value(hpb)).
			Line("المربين", b.format.Number(measure.BreederCount.Of(r))).
			String()

		if r.HasGeometry() {
			layer.Polygons.AddFeature(b.polygon(r, hpb.Or(0), fill, tip))
		}
		if r.HasCentroid() {
			m := marker(r, models.MarkerCircle, tip)
			m.Radius = b.palette.HeadsRadius.RadiusFor(hpb.Or(0))
			m.FillColor = fill
			layer.Markers = append(layer.Markers, m)
		}
	}

	layer.Legend = scale.Legend(b.rangeLabel, "لا توجد بيانات")
	return layer
}

// FatteningDairy places a fattening/dairy pie on each center
func (b *Builder) FatteningDairy(records []models.RegionRecord) models.LayerPayload {
	layer := newLayer(LayerFatteningDairy, "توزيع التسمين مقابل الألبان", records)
	pair := stats.SharePair{Name: "fattening_dairy", Left: measure.ReportedFattening, Right: measure.ReportedDairy}
	shares := stats.RecordShares(records, pair)

	for i, r := range records {
		share := shares[i]
		tip := NewTooltip(r.DisplayName()).
			Line("تسمين", b.format.Number(share.LeftTotal)+" ("+b.format.Percent(share.Left)+")").
			Line("ألبان", b.format.Number(share.RightTotal)+" ("+b.format.Percent(share.Right)+")").
			String()

		if r.HasGeometry() {
			layer.Polygons.AddFeature(b.polygon(r, share.Left.Or(0), b.palette.Centers.ColorFor(r.Name), tip))
		}
		if !r.HasCentroid() {
			continue
		}
		glyph, ok := symbology.BuildPieGlyph(measure.FatteningDairyFamily.Of(r), b.pieRadius, b.palette.FatteningDairy)
		if !ok {
			continue
		}
		m := marker(r, models.MarkerPie, tip)
		m.Radius = b.pieRadius
		icon := glyph.Icon("pie-marker")
		m.Icon = &icon
		layer.Markers = append(layer.Markers, m)
	}

	layer.Legend = b.palette.FatteningDairy.Legend()
	return layer
}

// Subcenters shades sub-centers by total. In "types" mode each sub-center
// carries a species pie, otherwise a proportional circle.
func (b *Builder) Subcenters(records []models.RegionRecord, pies bool) models.LayerPayload {
	return b.subcenters(records, pies, b.palette.Total)
}

// QuantileSubcenters is Subcenters with the total ramp re-cut at the
// percentiles of the records' own totals, so a small selection still spreads
// over every color
func (b *Builder) QuantileSubcenters(records []models.RegionRecord, pies bool) models.LayerPayload {
	totals := make([]float64, len(records))
	for i, r := range records {
		totals[i] = measure.Total.Of(r)
	}
	colors := make([]string, len(b.palette.Total.Bins))
	for i, bin := range b.palette.Total.Bins {
		colors[i] = bin.Color
	}

	scale, err := symbology.QuantileScale(totals, colors, b.palette.Total.Fallback)
	if err != nil {
		scale = b.palette.Total
	}
	return b.subcenters(records, pies, scale)
}

func (b *Builder) subcenters(records []models.RegionRecord, pies bool, scale symbology.ColorScale) models.LayerPayload {
	name, title := LayerSubcenterTotals, "إجمالي الثروة حسب الشياخة"
	if pies {
		name, title = LayerSubcenterTypes, "توزيع أنواع الحيوانات حسب الشياخة"
	}
	layer := newLayer(name, title, records)

	for _, r := range records {
		total := measure.Total.Of(r)
		fill := scale.ColorFor(total)
		tip := NewTooltip(r.DisplayName()).
			Line("المركز", r.Name).
			Line("الإجمالي", b.format.Number(total)).
			String()

		if r.HasGeometry() {
			layer.Polygons.AddFeature(b.polygon(r, total, fill, tip))
		}
		if !r.HasCentroid() {
			continue
		}

		if !pies {
			m := marker(r, models.MarkerCircle, tip)
			m.Radius = b.palette.SubcenterRadius.RadiusFor(total)
			m.FillColor = fill
			layer.Markers = append(layer.Markers, m)
			continue
		}

		radius := b.palette.TotalRadius.RadiusFor(total)
		glyph, ok := symbology.BuildPieGlyph(measure.SpeciesFamily.Of(r), radius, b.palette.Types)
		if !ok {
			continue
		}
		m := marker(r, models.MarkerPie, tip)
		m.Radius = radius
		icon := glyph.Icon("pie-marker")
		m.Icon = &icon
		layer.Markers = append(layer.Markers, m)
	}

	if pies {
		for _, key := range measure.SpeciesFamily.Keys() {
			layer.Legend = append(layer.Legend, models.LegendEntry{
				Color: b.palette.Types.ColorFor(key),
				Label: b.palette.Types.Label(key),
			})
		}
	} else {
		layer.Legend = scale.Legend(b.rangeLabel, "")
	}
	return layer
}

// Density shades sub-centers by heads per breeder and overlays the
// categorized dots of the selected category
func (b *Builder) Density(records []models.RegionRecord, dots *geojson.FeatureCollection, category string) models.LayerPayload {
	layer := newLayer(LayerDensity, "الكثافة حسب الفئة", records)
	scale := b.palette.Density

	for _, r := range records {
		hpb := stats.PerUnit(measure.Total.Of(r), measure.BreederCount.Of(r))
		if _, ok := r.Measures[measure.HeadsPerBreeder]; ok {
			hpb = HeadsPerBreeder(r)
		}
		if !r.HasGeometry() {
			continue
		}
		tip := NewTooltip(r.DisplayName()).
			Line("رؤوس لكل مربي", b.format.Value(hpb)).
			String()
		layer.Polygons.AddFeature(b.polygon(r, hpb.Or(0), scale.ColorForValue(hpb.Number, hpb.Valid), tip))
	}

	selected := dotdensity.FilterByCategory(dots, category)
	points := geojson.NewFeatureCollection()
	for _, f := range selected.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		cat := dotdensity.Category(f)
		point := geojson.NewFeature(f.Geometry)
		for k, v := range f.Properties {
			point.SetProperty(k, v)
		}
		point.SetProperty("color", b.palette.Categories.ColorFor(cat))
		point.SetProperty("label", b.palette.Categories.Label(cat))
		points.AddFeature(point)
	}
	layer.Points = points

	if layer.Bounds == nil {
		e := spatial.NewExtent()
		e.AddFeatures(points)
		layer.Bounds = e.Bounds()
	}

	counts := make(map[string]int)
	for _, c := range dotdensity.CountByCategory(points) {
		counts[c.Category] = c.Count
	}
	for _, e := range b.palette.Categories.Entries {
		layer.Legend = append(layer.Legend, models.LegendEntry{
			Color: e.Color,
			Label: fmt.Sprintf("%s (%s)", e.Label, b.format.Number(float64(counts[e.Name]))),
		})
	}
	return layer
}

func (b *Builder) rangeLabel(lower, upper float64, last bool) string {
	if last || math.IsInf(upper, 1) {
		return "> " + b.format.Number(lower)
	}
	return b.format.Number(lower) + " – " + b.format.Number(upper)
}
