// Package symbology maps measures to map primitives: fill colors, symbol radii
// and vector glyphs. Every function here is pure.
package symbology

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jengzang/livestock-atlas-go/internal/models"
)

// ErrInvalidScale is returned when a scale table is malformed
var ErrInvalidScale = errors.New("invalid scale")

// ColorBin is one threshold of a color ramp
type ColorBin struct {
	Threshold float64 `json:"threshold"`
	Color     string  `json:"color"`
	Inclusive bool    `json:"inclusive"` // match v >= threshold instead of v > threshold
}

func (b ColorBin) matches(v float64) bool {
	if b.Inclusive {
		return v >= b.Threshold
	}
	return v > b.Threshold
}

// ColorScale is an ordered threshold ramp with a fallback color
type ColorScale struct {
	Bins     []ColorBin `json:"bins"` // strictly increasing thresholds
	Fallback string     `json:"fallback"`
}

// NewColorScale validates and builds a threshold ramp
func NewColorScale(fallback string, bins ...ColorBin) (ColorScale, error) {
	if strings.TrimSpace(fallback) == "" {
		return ColorScale{}, fmt.Errorf("%w: empty fallback color", ErrInvalidScale)
	}
	for i, b := range bins {
		if strings.TrimSpace(b.Color) == "" {
			return ColorScale{}, fmt.Errorf("%w: bin %d has no color", ErrInvalidScale, i)
		}
		if math.IsNaN(b.Threshold) || math.IsInf(b.Threshold, 0) {
			return ColorScale{}, fmt.Errorf("%w: bin %d threshold is not finite", ErrInvalidScale, i)
		}
		if i > 0 && b.Threshold <= bins[i-1].Threshold {
			return ColorScale{}, fmt.Errorf("%w: bin %d threshold %v does not exceed %v", ErrInvalidScale, i, b.Threshold, bins[i-1].Threshold)
		}
	}

	cp := make([]ColorBin, len(bins))
	copy(cp, bins)
	return ColorScale{Bins: cp, Fallback: fallback}, nil
}

// MustColorScale is NewColorScale for static tables; it panics on a bad table
func MustColorScale(fallback string, bins ...ColorBin) ColorScale {
	s, err := NewColorScale(fallback, bins...)
	if err != nil {
		panic(err)
	}
	return s
}

// ColorFor returns the color of the highest bin the value reaches, else the fallback
func (s ColorScale) ColorFor(v float64) string {
	if math.IsNaN(v) {
		return s.Fallback
	}
	for i := len(s.Bins) - 1; i >= 0; i-- {
		if s.Bins[i].matches(v) {
			return s.Bins[i].Color
		}
	}
	return s.Fallback
}

// ColorForValue is ColorFor for values that may be absent
func (s ColorScale) ColorForValue(v float64, ok bool) string {
	if !ok {
		return s.Fallback
	}
	return s.ColorFor(v)
}

// Legend lists the bins from highest to lowest, followed by the fallback
func (s ColorScale) Legend(label func(lower, upper float64, last bool) string, fallbackLabel string) []models.LegendEntry {
	out := make([]models.LegendEntry, 0, len(s.Bins)+1)
	for i := len(s.Bins) - 1; i >= 0; i-- {
		last := i == len(s.Bins)-1
		upper := math.Inf(1)
		if !last {
			upper = s.Bins[i+1].Threshold
		}
		out = append(out, models.LegendEntry{
			Color: s.Bins[i].Color,
			Label: label(s.Bins[i].Threshold, upper, last),
		})
	}
	if fallbackLabel != "" {
		out = append(out, models.LegendEntry{Color: s.Fallback, Label: fallbackLabel})
	}
	return out
}

// NameColor assigns a fixed color to a name
type NameColor struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Color string `json:"color"`
}

// NameScale is a direct lookup of names to colors
type NameScale struct {
	Entries  []NameColor `json:"entries"`
	Fallback string      `json:"fallback"`
	Prefixes []string    `json:"prefixes,omitempty"` // stripped before lookup
	index    map[string]string
}

// NewNameScale builds a lookup table; later duplicates of a name are ignored
func NewNameScale(fallback string, prefixes []string, entries ...NameColor) NameScale {
	s := NameScale{
		Fallback: fallback,
		Prefixes: append([]string(nil), prefixes...),
		index:    make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		key := s.Normalize(e.Name)
		if _, dup := s.index[key]; dup || key == "" {
			continue
		}
		s.index[key] = e.Color
		s.Entries = append(s.Entries, e)
	}
	return s
}

// Normalize trims the name and strips one administrative prefix
func (s NameScale) Normalize(name string) string {
	name = strings.TrimSpace(name)
	for _, p := range s.Prefixes {
		if strings.HasPrefix(name, p) {
			return strings.TrimSpace(strings.TrimPrefix(name, p))
		}
	}
	return name
}

// ColorFor returns the color assigned to name, or the fallback
func (s NameScale) ColorFor(name string) string {
	if c, ok := s.index[s.Normalize(name)]; ok {
		return c
	}
	return s.Fallback
}

// Label returns the display label of name, or the normalized name itself
func (s NameScale) Label(name string) string {
	key := s.Normalize(name)
	for _, e := range s.Entries {
		if s.Normalize(e.Name) == key && e.Label != "" {
			return e.Label
		}
	}
	return key
}

// Legend lists the entries in declaration order
func (s NameScale) Legend() []models.LegendEntry {
	out := make([]models.LegendEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		label := e.Label
		if label == "" {
			label = e.Name
		}
		out = append(out, models.LegendEntry{Color: e.Color, Label: label})
	}
	return out
}
