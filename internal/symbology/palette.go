package symbology

import "github.com/jengzang/livestock-atlas-go/internal/models"

// Dot-density and species category keys
const (
	CategoryCowDairy         = "cow_dairy"
	CategoryCowFattening     = "cow_fattening"
	CategoryBuffaloFemales   = "buffalo_females"
	CategoryBuffaloFattening = "buffalo_fattening"
	CategorySheep            = "sheep"
	CategoryGoats            = "goats"
	CategoryPackAnimals      = "pack_animals"
)

// Administrative prefixes stripped before center name lookups
var CenterPrefixes = []string{"مركز", "قسم"}

// Palette is the single set of canonical scales shared by every view
type Palette struct {
	Total           ColorScale
	HeadsPerBreeder ColorScale
	Density         ColorScale
	Centers         NameScale
	Categories      NameScale
	Types           NameScale
	FatteningDairy  NameScale

	TotalRadius     BreakpointScale
	SubcenterRadius ContinuousScale
	HeadsRadius     ContinuousScale

	Bars          BarStyle
	BarColors     [2]string // total, breeders
	PolygonStyle  models.FeatureStyle
	HoverStyle    models.FeatureStyle
	MarkerOutline string
}

// DefaultPalette returns the canonical tables
func DefaultPalette() Palette {
	return Palette{
		Total: MustColorScale("#FFEDA0",
			ColorBin{Threshold: 0, Color: "#FED976"},
			ColorBin{Threshold: 100, Color: "#FEB24C"},
			ColorBin{Threshold: 200, Color: "#FD8D3C"},
			ColorBin{Threshold: 500, Color: "#FC4E2A"},
			ColorBin{Threshold: 1000, Color: "#E31A1C"},
			ColorBin{Threshold: 2000, Color: "#BD0026"},
			ColorBin{Threshold: 3000, Color: "#800026"},
		),
		HeadsPerBreeder: MustColorScale("#e5e7eb",
			ColorBin{Threshold: 0, Color: "#f87171"},
			ColorBin{Threshold: 10, Color: "#facc15"},
			ColorBin{Threshold: 11, Color: "#84cc16"},
			ColorBin{Threshold: 12, Color: "#16a34a"},
		),
		Density: MustColorScale("#ffffff",
			ColorBin{Threshold: 0, Color: "#d0f0c0"},
			ColorBin{Threshold: 5, Color: "#a3d9a5", Inclusive: true},
			ColorBin{Threshold: 10, Color: "#66c2a5", Inclusive: true},
			ColorBin{Threshold: 15, Color: "#4ca89d", Inclusive: true},
			ColorBin{Threshold: 20, Color: "#2a9d8f", Inclusive: true},
			ColorBin{Threshold: 25, Color: "#005f56", Inclusive: true},
		),
		Centers: NewNameScale("#9ca3af", CenterPrefixes,
			NameColor{Name: "دمياط", Color: "#1e3a8a"},
			NameColor{Name: "فارسكور", Color: "#10a971"},
			NameColor{Name: "الزرقا", Color: "#f59e0b"},
			NameColor{Name: "كفر البطيخ", Color: "#ef4444"},
			NameColor{Name: "السرو", Color: "#8b5cf6"},
			NameColor{Name: "كفر سعد", Color: "#db2777"},
		),
		Categories: NewNameScale("#999999", nil,
			NameColor{Name: CategoryCowDairy, Label: "أبقار ألبان", Color: "#60a5fa"},
			NameColor{Name: CategoryCowFattening, Label: "أبقار تسمين", Color: "#f97316"},
			NameColor{Name: CategoryBuffaloFemales, Label: "جاموس ألبان", Color: "#2563eb"},
			NameColor{Name: CategoryBuffaloFattening, Label: "جاموس تسمين", Color: "#c2410c"},
			NameColor{Name: CategorySheep, Label: "أغنام", Color: "#34d399"},
			NameColor{Name: CategoryGoats, Label: "ماعز", Color: "#10b981"},
			NameColor{Name: CategoryPackAnimals, Label: "دواب", Color: "#fbbf24"},
		),
		Types: NewNameScale("#999999", nil,
			NameColor{Name: "fattening", Label: "تسمين", Color: "#f97316"},
			NameColor{Name: "dairy", Label: "ألبان", Color: "#60a5fa"},
			NameColor{Name: "sheep", Label: "أغنام", Color: "#34d399"},
			NameColor{Name: "goats", Label: "ماعز", Color: "#10b981"},
			NameColor{Name: "pack_animals", Label: "دواب", Color: "#fbbf24"},
			NameColor{Name: "local_cow_females", Label: "أبقار محلية ألبان", Color: "#60a5fa"},
			NameColor{Name: "imported_cow_females", Label: "أبقار مستوردة ألبان", Color: "#3b82f6"},
			NameColor{Name: "buffalo_females", Label: "جاموس ألبان", Color: "#8b5cf6"},
			NameColor{Name: "local_cow_fattening", Label: "أبقار محلية تسمين", Color: "#fb923c"},
			NameColor{Name: "imported_cow_fattening", Label: "أبقار مستوردة تسمين", Color: "#ea580c"},
			NameColor{Name: "buffalo_fattening", Label: "جاموس تسمين", Color: "#7c3aed"},
			NameColor{Name: "cows_buffalo", Label: "أبقار وجاموس", Color: "#3b82f6"},
			NameColor{Name: "sheep_goats", Label: "أغنام وماعز", Color: "#10b981"},
			NameColor{Name: "work_animals", Label: "دواب", Color: "#f59e0b"},
		),
		FatteningDairy: NewNameScale("#999999", nil,
			NameColor{Name: "fattening", Label: "تسمين", Color: "#f87171"},
			NameColor{Name: "dairy", Label: "ألبان", Color: "#a78bfa"},
		),

		TotalRadius: MustBreakpointScale(5,
			Breakpoint{Above: 100, Radius: 10},
			Breakpoint{Above: 500, Radius: 15},
			Breakpoint{Above: 1000, Radius: 20},
			Breakpoint{Above: 2000, Radius: 25},
			Breakpoint{Above: 3000, Radius: 30},
		),
		SubcenterRadius: MustContinuousScale(TransformSqrt, 0.5, 5, 20),
		HeadsRadius:     MustContinuousScale(TransformLinear, 0.5, 3, 20),

		Bars:      DefaultBarStyle,
		BarColors: [2]string{"#3b82f6", "#22c55e"},
		PolygonStyle: models.FeatureStyle{
			Color:       "#ffffff",
			Weight:      1,
			Opacity:     0.8,
			FillOpacity: 0.7,
		},
		HoverStyle: models.FeatureStyle{
			Color:       "#ffffff",
			Weight:      2,
			Opacity:     1,
			FillOpacity: 0.9,
		},
		MarkerOutline: "#ffffff",
	}
}

// Style returns the base polygon style filled with color
func (p Palette) Style(fill string) models.FeatureStyle {
	s := p.PolygonStyle
	s.FillColor = fill
	return s
}

// Hover returns the highlighted polygon style filled with color
func (p Palette) Hover(fill string) models.FeatureStyle {
	s := p.HoverStyle
	s.FillColor = fill
	return s
}
