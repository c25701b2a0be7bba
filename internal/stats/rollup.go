package stats

import (
	"math"
	"strings"

	"github.com/jengzang/livestock-atlas-go/internal/measure"
	"github.com/jengzang/livestock-atlas-go/internal/models"
)

// Share splits a complementary pair into percentages of its combined total.
// The right side is derived as 100 - left so the pair always sums to exactly 100.
// A zero combined total yields NoData on both sides.
func Share(left, right float64) (Value, Value) {
	left, right = clean(left), clean(right)
	total := left + right
	if total <= 0 || math.IsInf(total, 0) {
		return NoData, NoData
	}
	l := RoundTo2(100 * left / total)
	return Some(l), Some(RoundTo2(100 - l))
}

// PerUnit divides total by count; a non-positive count yields NoData
func PerUnit(total, count float64) Value {
	if count <= 0 || math.IsNaN(count) {
		return NoData
	}
	return Some(total / count)
}

// MaxBy returns the index and value of the first item with the largest
// strictly positive value. Ties keep the earlier item; -1 when nothing is positive.
func MaxBy[T any](items []T, value func(T) float64) (int, float64) {
	best, index := 0.0, -1
	for i, item := range items {
		if v := clean(value(item)); v > best {
			best, index = v, i
		}
	}
	return index, best
}

// MinBy returns the index and value of the first item with the smallest
// non-zero value. Zero and absent values never win; -1 when none qualify.
func MinBy[T any](items []T, value func(T) float64) (int, float64) {
	best, index := 0.0, -1
	for i, item := range items {
		v := clean(value(item))
		if v <= 0 {
			continue
		}
		if index < 0 || v < best {
			best, index = v, i
		}
	}
	return index, best
}

// Group is one key's items in input order
type Group[T any] struct {
	Key   string
	Items []T
}

// GroupBy partitions items by a trimmed key, ordering groups by first appearance.
// Items with a blank key are skipped.
func GroupBy[T any](items []T, key func(T) string) []Group[T] {
	var groups []Group[T]
	index := make(map[string]int)
	for _, item := range items {
		k := strings.TrimSpace(key(item))
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// SharePair declares two complementary measures
type SharePair struct {
	Name  string
	Left  measure.Measure
	Right measure.Measure
}

// PerUnitSpec declares a derived average of two summed measures
type PerUnitSpec struct {
	Name        string
	Numerator   measure.Measure
	Denominator measure.Measure
}

// AggregateConfig selects what Aggregate computes
type AggregateConfig struct {
	Measures []measure.Measure
	Shares   []SharePair
	PerUnit  []PerUnitSpec
	Extrema  []measure.Measure
	GroupKey string // record dimension, usually sec_name
}

// MeasureSum is the summed value of one measure
type MeasureSum struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ShareResult holds both sides of a share pair
type ShareResult struct {
	Name       string  `json:"name"`
	LeftKey    string  `json:"left_key"`
	RightKey   string  `json:"right_key"`
	LeftTotal  float64 `json:"left_total"`
	RightTotal float64 `json:"right_total"`
	Left       Value   `json:"left"`
	Right      Value   `json:"right"`
}

// PerUnitResult is one derived average
type PerUnitResult struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// Extremum identifies the record achieving a max or min
type Extremum struct {
	Key   string `json:"key"`
	Index int    `json:"index"` // -1 when no record qualifies
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// GroupRow is the rollup of one group
type GroupRow struct {
	Key   string       `json:"key"`
	Count int          `json:"count"`
	Sums  []MeasureSum `json:"sums"`
}

// AggregateSummary is recomputed from scratch for every input
type AggregateSummary struct {
	Count   int             `json:"count"`
	Sums    []MeasureSum    `json:"sums"`
	Shares  []ShareResult   `json:"shares"`
	PerUnit []PerUnitResult `json:"per_unit"`
	Max     []Extremum      `json:"max"`
	Min     []Extremum      `json:"min"`
	Groups  []GroupRow      `json:"groups,omitempty"`
}

// Aggregate reduces records into sums, shares, averages, extrema and group rows
func Aggregate(records []models.RegionRecord, cfg AggregateConfig) AggregateSummary {
	summary := AggregateSummary{
		Count:   len(records),
		Sums:    sumMeasures(records, cfg.Measures),
		Shares:  make([]ShareResult, 0, len(cfg.Shares)),
		PerUnit: make([]PerUnitResult, 0, len(cfg.PerUnit)),
		Max:     make([]Extremum, 0, len(cfg.Extrema)),
		Min:     make([]Extremum, 0, len(cfg.Extrema)),
	}

	for _, pair := range cfg.Shares {
		summary.Shares = append(summary.Shares, SumShare(records, pair))
	}

	for _, spec := range cfg.PerUnit {
		num := sumOf(records, spec.Numerator)
		den := sumOf(records, spec.Denominator)
		summary.PerUnit = append(summary.PerUnit, PerUnitResult{
			Name:  spec.Name,
			Value: PerUnit(num, den),
		})
	}

	for _, m := range cfg.Extrema {
		summary.Max = append(summary.Max, extremum(records, m, MaxBy[models.RegionRecord]))
		summary.Min = append(summary.Min, extremum(records, m, MinBy[models.RegionRecord]))
	}

	if cfg.GroupKey != "" {
		for _, g := range GroupBy(records, func(r models.RegionRecord) string { return r.Dimension(cfg.GroupKey) }) {
			summary.Groups = append(summary.Groups, GroupRow{
				Key:   g.Key,
				Count: len(g.Items),
				Sums:  sumMeasures(g.Items, cfg.Measures),
			})
		}
	}

	return summary
}

// Sum returns the summed value of a measure key, 0 if not configured
func (s AggregateSummary) Sum(key string) float64 {
	for _, m := range s.Sums {
		if m.Key == key {
			return m.Value
		}
	}
	return 0
}

// Share returns the named share pair
func (s AggregateSummary) Share(name string) (ShareResult, bool) {
	for _, r := range s.Shares {
		if r.Name == name {
			return r, true
		}
	}
	return ShareResult{}, false
}

// Average returns the named per-unit value
func (s AggregateSummary) Average(name string) Value {
	for _, r := range s.PerUnit {
		if r.Name == name {
			return r.Value
		}
	}
	return NoData
}

// Top returns the maximum extremum for a measure key
func (s AggregateSummary) Top(key string) (Extremum, bool) {
	return findExtremum(s.Max, key)
}

// Bottom returns the minimum extremum for a measure key
func (s AggregateSummary) Bottom(key string) (Extremum, bool) {
	return findExtremum(s.Min, key)
}

// SumShare computes a share pair over the summed sides of all records
func SumShare(records []models.RegionRecord, pair SharePair) ShareResult {
	left := sumOf(records, pair.Left)
	right := sumOf(records, pair.Right)
	l, r := Share(left, right)
	return ShareResult{
		Name:       pair.Name,
		LeftKey:    pair.Left.Key(),
		RightKey:   pair.Right.Key(),
		LeftTotal:  left,
		RightTotal: right,
		Left:       l,
		Right:      r,
	}
}

// RecordShares computes a share pair for each record individually
func RecordShares(records []models.RegionRecord, pair SharePair) []ShareResult {
	out := make([]ShareResult, len(records))
	for i := range records {
		out[i] = SumShare(records[i:i+1], pair)
	}
	return out
}

func sumMeasures(records []models.RegionRecord, measures []measure.Measure) []MeasureSum {
	out := make([]MeasureSum, len(measures))
	for i, m := range measures {
		out[i] = MeasureSum{Key: m.Key(), Label: m.Label(), Value: sumOf(records, m)}
	}
	return out
}

func sumOf(records []models.RegionRecord, m measure.Measure) float64 {
	var total float64
	for _, r := range records {
		total += m.Of(r)
	}
	return total
}

func extremum(records []models.RegionRecord, m measure.Measure, pick func([]models.RegionRecord, func(models.RegionRecord) float64) (int, float64)) Extremum {
	idx, v := pick(records, m.Of)
	e := Extremum{Key: m.Key(), Index: idx, Value: NoData}
	if idx >= 0 {
		e.Name = records[idx].DisplayName()
		e.Value = Some(v)
	}
	return e
}

func findExtremum(list []Extremum, key string) (Extremum, bool) {
	for _, e := range list {
		if e.Key == key {
			return e, e.Index >= 0
		}
	}
	return Extremum{}, false
}

// clean maps NaN and negatives to 0
func clean(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
