package render

import (
	"sort"

	"github.com/jengzang/livestock-atlas-go/internal/measure"
	"github.com/jengzang/livestock-atlas-go/internal/models"
	"github.com/jengzang/livestock-atlas-go/internal/stats"
	"github.com/jengzang/livestock-atlas-go/internal/symbology"
)

// SubcenterRow is one line of the drill-down table
type SubcenterRow struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Total           float64     `json:"total"`
	Breeders        float64     `json:"breeders"`
	HeadsPerBreeder stats.Value `json:"heads_per_breeder"`
}

// CenterDetail is the drill-down view of one center
type CenterDetail struct {
	Name            string              `json:"name"`
	Color           string              `json:"color"`
	SubcenterCount  int                 `json:"subcenter_count"`
	Total           float64             `json:"total"`
	Breeders        float64             `json:"breeders"`
	HeadsPerBreeder stats.Value         `json:"heads_per_breeder"`
	Diversity       stats.Value         `json:"diversity"`
	Types           models.Breakdown    `json:"types"`
	TypePie         *models.Icon        `json:"type_pie,omitempty"`
	Subcenters      []SubcenterRow      `json:"subcenters"`
	Layer           models.LayerPayload `json:"layer"`
}

// CenterNames lists the distinct centers of the all-data records
func CenterNames(records []models.RegionRecord) []string {
	groups := stats.GroupBy(records, func(r models.RegionRecord) string { return r.Name })
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Key
	}
	return names
}

// Center builds the drill-down of the named center from all-data records.
// Names match after the administrative prefix is stripped. ok is false when
// no sub-center belongs to the center.
func (b *Builder) Center(records []models.RegionRecord, name string) (CenterDetail, bool) {
	want := b.palette.Centers.Normalize(name)
	if want == "" {
		return CenterDetail{}, false
	}

	var matched []models.RegionRecord
	for _, r := range records {
		if b.palette.Centers.Normalize(r.Name) == want {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return CenterDetail{}, false
	}

	summary := stats.Aggregate(matched, stats.AggregateConfig{
		Measures: []measure.Measure{measure.Total, measure.BreederCount},
		PerUnit: []stats.PerUnitSpec{
			{Name: measure.HeadsPerBreeder, Numerator: measure.Total, Denominator: measure.BreederCount},
		},
	})

	types := measure.TypeFamily.Sum(matched)
	species := measure.SpeciesFamily.Sum(matched)
	values := make([]float64, len(species))
	for i, e := range species {
		values[i] = e.Value
	}

	detail := CenterDetail{
		Name:            matched[0].Name,
		Color:           b.palette.Centers.ColorFor(want),
		SubcenterCount:  len(matched),
		Total:           summary.Sum(measure.TotalKey),
		Breeders:        summary.Sum(measure.Breeders),
		HeadsPerBreeder: roundValue(summary.Average(measure.HeadsPerBreeder)),
		Diversity:       roundValue(stats.Diversity(values)),
		Types:           types,
		Layer:           b.Subcenters(matched, false),
	}

	if glyph, ok := symbology.BuildPieGlyph(types, b.pieRadius*2, b.palette.Types); ok {
		icon := glyph.Icon("pie-chart")
		detail.TypePie = &icon
	}

	for _, r := range matched {
		total := measure.Total.Of(r)
		breeders := measure.BreederCount.Of(r)
		detail.Subcenters = append(detail.Subcenters, SubcenterRow{
			ID:              r.ID,
			Name:            r.DisplayName(),
			Total:           total,
			Breeders:        breeders,
			HeadsPerBreeder: roundValue(stats.PerUnit(total, breeders)),
		})
	}
	sort.SliceStable(detail.Subcenters, func(i, j int) bool {
		return detail.Subcenters[i].Total > detail.Subcenters[j].Total
	})
	return detail, true
}
