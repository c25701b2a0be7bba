// Package measure reads numeric measures and labeled breakdowns out of region records.
// Absence is data: every missing, null or invalid field reads as 0.
package measure

import (
	"math"
	"strings"

	"github.com/jengzang/livestock-atlas-go/internal/models"
)

// Species and purpose fields of the all-data collection
const (
	LocalCowFemales      = "local_cow_females"
	ImportedCowFemales   = "imported_cow_females"
	BuffaloFemales       = "buffalo_females"
	Sheep                = "sheep"
	Goats                = "goats"
	PackAnimals          = "pack_animals"
	LocalCowFattening    = "local_cow_fattening"
	ImportedCowFattening = "imported_cow_fattening"
	BuffaloFattening     = "buffalo_fattening"
)

// Fields carried by the summary, type and fattening collections
const (
	TotalKey        = "total"
	Breeders        = "breeders"
	HeadsPerBreeder = "heads_per_breeder"
	Fattening       = "fattening"
	Dairy           = "dairy"
	CowsBuffalo     = "cows_buffalo"
	SheepGoats      = "sheep_goats"
	WorkAnimals     = "work_animals"
)

// SpeciesFields is the fixed field set whose sum is the canonical total
var SpeciesFields = []string{
	LocalCowFemales,
	ImportedCowFemales,
	BuffaloFemales,
	Sheep,
	Goats,
	PackAnimals,
	LocalCowFattening,
	ImportedCowFattening,
	BuffaloFattening,
}

// Extract returns the named measure of a record, 0 when missing or invalid
func Extract(r models.RegionRecord, key string) float64 {
	v, ok := r.Measures[strings.TrimSpace(key)]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// FieldLabel pairs a record field with its display label
type FieldLabel struct {
	Field string `json:"field" mapstructure:"field"`
	Label string `json:"label" mapstructure:"label"`
}

// ExtractBreakdown evaluates each pair in caller order
func ExtractBreakdown(r models.RegionRecord, pairs []FieldLabel) models.Breakdown {
	out := make(models.Breakdown, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, models.BreakdownEntry{
			Key:   p.Field,
			Label: p.Label,
			Value: Extract(r, p.Field),
		})
	}
	return out
}

// Measure is a named scalar derived from a record
type Measure interface {
	Key() string
	Label() string
	Of(r models.RegionRecord) float64
}

type field struct {
	key   string
	label string
}

// Field reads a single record field
func Field(key, label string) Measure {
	return field{key: key, label: label}
}

func (f field) Key() string                      { return f.key }
func (f field) Label() string                    { return f.label }
func (f field) Of(r models.RegionRecord) float64 { return Extract(r, f.key) }

type sum struct {
	key    string
	label  string
	fields []string
}

// Sum adds a fixed set of record fields
func Sum(key, label string, fields ...string) Measure {
	cp := make([]string, len(fields))
	copy(cp, fields)
	return sum{key: key, label: label, fields: cp}
}

func (s sum) Key() string   { return s.key }
func (s sum) Label() string { return s.label }

func (s sum) Of(r models.RegionRecord) float64 {
	var total float64
	for _, f := range s.fields {
		total += Extract(r, f)
	}
	return total
}

// Canonical composite measures. Every computed total goes through Total.
var (
	Total          = Sum(TotalKey, "الإجمالي", SpeciesFields...)
	FatteningTotal = Sum(Fattening, "تسمين", LocalCowFattening, ImportedCowFattening, BuffaloFattening)
	DairyTotal     = Sum(Dairy, "ألبان", LocalCowFemales, ImportedCowFemales, BuffaloFemales)
	CowTotal       = Sum("cows", "أبقار", LocalCowFemales, ImportedCowFemales, LocalCowFattening, ImportedCowFattening)
	BuffaloTotal   = Sum("buffalo", "جاموس", BuffaloFemales, BuffaloFattening)
	SheepGoatTotal = Sum(SheepGoats, "أغنام وماعز", Sheep, Goats)
	LocalTotal     = Sum("local", "محلي", LocalCowFemales, LocalCowFattening)
	ImportedTotal  = Sum("imported", "مستورد", ImportedCowFemales, ImportedCowFattening)

	// Reported values delivered precomputed by the summary collections
	ReportedTotal     = Field(TotalKey, "الإجمالي")
	BreederCount      = Field(Breeders, "عدد المربين")
	ReportedHeads     = Field(HeadsPerBreeder, "رؤوس لكل مربي")
	ReportedFattening = Field(Fattening, "تسمين")
	ReportedDairy     = Field(Dairy, "ألبان")
)
