package render

import (
	"sort"
	"strings"

	"github.com/jengzang/livestock-atlas-go/internal/measure"
	"github.com/jengzang/livestock-atlas-go/internal/models"
	"github.com/jengzang/livestock-atlas-go/internal/stats"
)

// Chart types
const (
	ChartStackedBar = "stacked_bar"
	ChartPie        = "pie"
	ChartLine       = "line"
)

// ChartPoint is one labeled value
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries is one named data series
type ChartSeries struct {
	Key   string       `json:"key"`
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartConfig is a chart payload for the host charting library
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      []string      `json:"xAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// TrendSeries names one trend line
type TrendSeries struct {
	Key   string `json:"key" mapstructure:"key"`
	Label string `json:"label" mapstructure:"label"`
	Color string `json:"color" mapstructure:"color"`
}

// TrendRow is one year of trend values
type TrendRow struct {
	Year   string             `json:"year" mapstructure:"year"`
	Values map[string]float64 `json:"values" mapstructure:"values"`
}

// Value looks key up exactly, then lowercased since config loaders fold map keys
func (r TrendRow) Value(key string) float64 {
	if v, ok := r.Values[key]; ok {
		return v
	}
	return r.Values[strings.ToLower(key)]
}

// Trend is the configured year-over-year table
type Trend struct {
	Series []TrendSeries `json:"series" mapstructure:"series"`
	Rows   []TrendRow    `json:"rows" mapstructure:"rows"`
}

// DefaultTrend is the published census series
func DefaultTrend() Trend {
	return Trend{
		Series: []TrendSeries{
			{Key: "total", Label: "الإجمالي", Color: "#8884d8"},
			{Key: "fattening", Label: "تسمين", Color: "#82ca9d"},
			{Key: "females", Label: "إناث", Color: "#ff7300"},
			{Key: "sheepGoats", Label: "أغنام وماعز", Color: "#ff0080"},
			{Key: "packAnimals", Label: "دواب", Color: "#00bcd4"},
		},
		Rows: []TrendRow{
			{Year: "2020", Values: map[string]float64{"fattening": 19246, "females": 47025, "sheepGoats": 11599, "packAnimals": 7267, "total": 85137}},
			{Year: "2022", Values: map[string]float64{"fattening": 23517, "females": 49704, "sheepGoats": 14856, "packAnimals": 7268, "total": 95345}},
			{Year: "2024", Values: map[string]float64{"fattening": 19829, "females": 60756, "sheepGoats": 16117, "packAnimals": 9787, "total": 106489}},
		},
	}
}

// SpeciesChart stacks the species fields per center. Centers without a name
// or without animals are dropped; the rest are ordered by total ascending,
// or descending when desc is set. limit <= 0 keeps every center.
func (b *Builder) SpeciesChart(records []models.RegionRecord, desc bool, limit int) ChartConfig {
	summary := stats.Aggregate(records, stats.AggregateConfig{
		Measures: append([]measure.Measure{measure.Total}, measure.SpeciesFamily.Members...),
		GroupKey: "sec_name",
	})

	rows := make([]stats.GroupRow, 0, len(summary.Groups))
	for _, g := range summary.Groups {
		if groupSum(g, measure.TotalKey) > 0 {
			rows = append(rows, g)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return groupSum(rows[i], measure.TotalKey) > groupSum(rows[j], measure.TotalKey)
		}
		return groupSum(rows[i], measure.TotalKey) < groupSum(rows[j], measure.TotalKey)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	chart := ChartConfig{
		ChartType:  ChartStackedBar,
		Title:      "توزيع الأنواع حسب المركز",
		XAxis:      make([]string, len(rows)),
		ShowLegend: true,
		ShowGrid:   true,
	}
	for i, g := range rows {
		chart.XAxis[i] = g.Key
	}
	for _, m := range measure.SpeciesFamily.Members {
		series := ChartSeries{
			Key:   m.Key(),
			Name:  m.Label(),
			Color: b.palette.Types.ColorFor(m.Key()),
			Data:  make([]ChartPoint, len(rows)),
		}
		for i, g := range rows {
			series.Data[i] = ChartPoint{Label: g.Key, Value: groupSum(g, m.Key())}
		}
		chart.Series = append(chart.Series, series)
		chart.Colors = append(chart.Colors, series.Color)
	}
	return chart
}

// TypesChart is the pie of the type-distribution groups
func (b *Builder) TypesChart(records []models.RegionRecord) ChartConfig {
	breakdown := measure.GroupFamily.Sum(records)
	series := ChartSeries{Key: measure.GroupFamily.Name, Name: "توزيع أنواع الحيوانات"}
	chart := ChartConfig{
		ChartType:  ChartPie,
		Title:      "توزيع أنواع الحيوانات",
		ShowLegend: true,
	}
	for _, e := range breakdown {
		series.Data = append(series.Data, ChartPoint{Label: e.Label, Value: e.Value})
		chart.Colors = append(chart.Colors, b.palette.Types.ColorFor(e.Key))
	}
	chart.Series = []ChartSeries{series}
	return chart
}

// TrendChart draws one line per configured series across the years
func (b *Builder) TrendChart(trend Trend) ChartConfig {
	chart := ChartConfig{
		ChartType:  ChartLine,
		Title:      "تطور أعداد الثروة الحيوانية",
		XAxis:      make([]string, len(trend.Rows)),
		ShowLegend: true,
		ShowGrid:   true,
	}
	for i, row := range trend.Rows {
		chart.XAxis[i] = row.Year
	}
	for _, s := range trend.Series {
		series := ChartSeries{Key: s.Key, Name: s.Label, Color: s.Color, Data: make([]ChartPoint, len(trend.Rows))}
		for i, row := range trend.Rows {
			series.Data[i] = ChartPoint{Label: row.Year, Value: row.Value(s.Key)}
		}
		chart.Series = append(chart.Series, series)
		chart.Colors = append(chart.Colors, s.Color)
	}
	return chart
}

func groupSum(g stats.GroupRow, key string) float64 {
	for _, s := range g.Sums {
		if s.Key == key {
			return s.Value
		}
	}
	return 0
}
