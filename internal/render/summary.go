package render

import (
	"github.com/jengzang/livestock-atlas-go/internal/measure"
	"github.com/jengzang/livestock-atlas-go/internal/models"
	"github.com/jengzang/livestock-atlas-go/internal/stats"
)

// Card keys
const (
	CardTotal          = "total"
	CardBreeders       = "breeders"
	CardHeadsPerBreed  = "heads_per_breeder"
	CardCowsBuffalo    = "cows_buffalo"
	CardSheepGoats     = "sheep_goats"
	CardWorkAnimals    = "work_animals"
	CardFatteningDairy = "fattening_dairy_ratio"
	CardTopCenter      = "top_center"
	CardFewestBreeders = "fewest_breeders"
)

// Split measures used by the cow/buffalo and local/imported breakdowns
var (
	cowFattening     = measure.Sum("cow_fattening", "أبقار", measure.LocalCowFattening, measure.ImportedCowFattening)
	buffaloFattening = measure.Field(measure.BuffaloFattening, "جاموس")
	cowDairy         = measure.Sum("cow_dairy", "أبقار", measure.LocalCowFemales, measure.ImportedCowFemales)
	buffaloDairy     = measure.Field(measure.BuffaloFemales, "جاموس")

	localFattening    = measure.Field(measure.LocalCowFattening, "تسمين")
	localDairy        = measure.Field(measure.LocalCowFemales, "ألبان")
	importedFattening = measure.Field(measure.ImportedCowFattening, "تسمين")
	importedDairy     = measure.Field(measure.ImportedCowFemales, "ألبان")
)

// Share pair names
const (
	SplitFatteningDairy  = "fattening_dairy"
	SplitFatteningOrigin = "fattening_species"
	SplitDairySpecies    = "dairy_species"
	SplitLocal           = "local"
	SplitImported        = "imported"
)

// Card is one dashboard indicator
type Card struct {
	Key     string      `json:"key"`
	Title   string      `json:"title"`
	Value   stats.Value `json:"value"`
	Display string      `json:"display"`
	Detail  string      `json:"detail,omitempty"`
	Color   string      `json:"color,omitempty"`
}

// Summary is the dashboard header payload
type Summary struct {
	Cards     []Card                 `json:"cards"`
	Totals    stats.AggregateSummary `json:"totals"`
	Species   stats.AggregateSummary `json:"species"`
	Types     models.Breakdown       `json:"types"`
	Fattening stats.ShareResult      `json:"fattening_dairy"`
}

// Summary computes the indicator cards and splits of a dataset
func (b *Builder) Summary(ds *models.Dataset) Summary {
	if ds == nil {
		ds = &models.Dataset{}
	}

	totals := stats.Aggregate(ds.Summary, stats.AggregateConfig{
		Measures: []measure.Measure{measure.ReportedTotal, measure.BreederCount},
		PerUnit: []stats.PerUnitSpec{
			{Name: CardHeadsPerBreed, Numerator: measure.ReportedTotal, Denominator: measure.BreederCount},
		},
		Extrema: []measure.Measure{measure.ReportedTotal, measure.BreederCount},
	})

	species := stats.Aggregate(ds.AllData, stats.AggregateConfig{
		Measures: []measure.Measure{measure.Total, measure.FatteningTotal, measure.DairyTotal, measure.LocalTotal, measure.ImportedTotal},
		Shares: []stats.SharePair{
			{Name: SplitFatteningOrigin, Left: cowFattening, Right: buffaloFattening},
			{Name: SplitDairySpecies, Left: cowDairy, Right: buffaloDairy},
			{Name: SplitLocal, Left: localFattening, Right: localDairy},
			{Name: SplitImported, Left: importedFattening, Right: importedDairy},
		},
	})

	fattening := stats.SumShare(ds.FatteningDairy, stats.SharePair{
		Name:  SplitFatteningDairy,
		Left:  measure.ReportedFattening,
		Right: measure.ReportedDairy,
	})
	types := measure.GroupFamily.Sum(ds.TypeDistribution)

	out := Summary{Totals: totals, Species: species, Types: types, Fattening: fattening}

	out.Cards = append(out.Cards,
		b.card(CardTotal, "إجمالي الثروة الحيوانية", stats.Some(totals.Sum(measure.TotalKey))),
		b.card(CardBreeders, "عدد المربين", stats.Some(totals.Sum(measure.Breeders))),
		b.card(CardHeadsPerBreed, "متوسط الرؤوس لكل مربي", roundValue(totals.Average(CardHeadsPerBreed))),
		b.card(CardCowsBuffalo, "أبقار وجاموس", stats.Some(types.Get(measure.CowsBuffalo))),
		b.card(CardSheepGoats, "أغنام وماعز", stats.Some(types.Get(measure.SheepGoats))),
		b.card(CardWorkAnimals, "دواب", stats.Some(types.Get(measure.WorkAnimals))),
	)

	ratio := b.card(CardFatteningDairy, "نسبة التسمين إلى الألبان", roundValue(stats.PerUnit(fattening.LeftTotal, fattening.RightTotal)))
	ratio.Detail = b.format.Percent(fattening.Left) + " / " + b.format.Percent(fattening.Right)
	out.Cards = append(out.Cards, ratio)

	out.Cards = append(out.Cards,
		b.extremumCard(CardTopCenter, "أعلى مركز في الثروة", first(totals.Top(measure.TotalKey))),
		b.extremumCard(CardFewestBreeders, "أقل مركز في عدد المربين", first(totals.Bottom(measure.Breeders))),
	)
	return out
}

func (b *Builder) card(key, title string, v stats.Value) Card {
	return Card{Key: key, Title: title, Value: v, Display: b.format.Value(v)}
}

func (b *Builder) extremumCard(key, title string, e *stats.Extremum) Card {
	if e == nil {
		return Card{Key: key, Title: title, Value: stats.NoData, Display: stats.NoDataDisplay}
	}
	return Card{
		Key:     key,
		Title:   title,
		Value:   e.Value,
		Display: e.Name,
		Detail:  b.format.Value(e.Value),
		Color:   b.palette.Centers.ColorFor(e.Name),
	}
}

func first(e stats.Extremum, ok bool) *stats.Extremum {
	if !ok {
		return nil
	}
	return &e
}

func roundValue(v stats.Value) stats.Value {
	if !v.Valid {
		return v
	}
	return stats.Some(stats.RoundTo2(v.Number))
}
