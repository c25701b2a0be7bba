package measure

import "github.com/jengzang/livestock-atlas-go/internal/models"

// Family is an ordered group of measures rendered together as one breakdown
type Family struct {
	Name    string
	Members []Measure
}

// Of evaluates every member against the record, preserving member order
func (f Family) Of(r models.RegionRecord) models.Breakdown {
	out := make(models.Breakdown, 0, len(f.Members))
	for _, m := range f.Members {
		out = append(out, models.BreakdownEntry{
			Key:   m.Key(),
			Label: m.Label(),
			Value: m.Of(r),
		})
	}
	return out
}

// Sum evaluates the family across records, entry by entry
func (f Family) Sum(records []models.RegionRecord) models.Breakdown {
	out := make(models.Breakdown, len(f.Members))
	for i, m := range f.Members {
		out[i] = models.BreakdownEntry{Key: m.Key(), Label: m.Label()}
		for _, r := range records {
			out[i].Value += m.Of(r)
		}
	}
	return out
}

// Keys lists member keys in order
func (f Family) Keys() []string {
	keys := make([]string, len(f.Members))
	for i, m := range f.Members {
		keys[i] = m.Key()
	}
	return keys
}

// Canonical breakdown families
var (
	// SpeciesFamily splits Total into its nine fields
	SpeciesFamily = Family{
		Name: "species",
		Members: []Measure{
			Field(LocalCowFemales, "أبقار محلية ألبان"),
			Field(ImportedCowFemales, "أبقار مستوردة ألبان"),
			Field(BuffaloFemales, "جاموس ألبان"),
			Field(Sheep, "أغنام"),
			Field(Goats, "ماعز"),
			Field(PackAnimals, "دواب"),
			Field(LocalCowFattening, "أبقار محلية تسمين"),
			Field(ImportedCowFattening, "أبقار مستوردة تسمين"),
			Field(BuffaloFattening, "جاموس تسمين"),
		},
	}

	// TypeFamily groups Total by purpose; it sums to Total as well
	TypeFamily = Family{
		Name: "types",
		Members: []Measure{
			FatteningTotal,
			DairyTotal,
			Field(Sheep, "أغنام"),
			Field(Goats, "ماعز"),
			Field(PackAnimals, "دواب"),
		},
	}

	// FatteningDairyFamily reads the fattening-vs-dairy collection
	FatteningDairyFamily = Family{
		Name:    "fattening_dairy",
		Members: []Measure{ReportedFattening, ReportedDairy},
	}

	// GroupFamily reads the type-distribution collection
	GroupFamily = Family{
		Name: "groups",
		Members: []Measure{
			Field(CowsBuffalo, "أبقار وجاموس"),
			Field(SheepGoats, "أغنام وماعز"),
			Field(WorkAnimals, "دواب"),
		},
	}
)
