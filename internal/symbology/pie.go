package symbology

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jengzang/livestock-atlas-go/internal/models"
)

// PieSector is one wedge of a pie glyph. Angles are degrees, clockwise from +x.
type PieSector struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Color      string  `json:"color"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	LargeArc   bool    `json:"large_arc"`
	Path       string  `json:"path"`
}

// Sweep returns the angular size of the sector
func (s PieSector) Sweep() float64 {
	return s.EndAngle - s.StartAngle
}

// PieGlyph is a composite pie marker
type PieGlyph struct {
	Radius  float64     `json:"radius"`
	Total   float64     `json:"total"`
	Sectors []PieSector `json:"sectors"`
	Markup  string      `json:"markup"`
}

// Icon wraps the glyph as a marker icon centered on its point
func (g PieGlyph) Icon(className string) models.Icon {
	d := 2 * g.Radius
	return models.Icon{
		HTML:      g.Markup,
		Size:      [2]float64{d, d},
		Anchor:    [2]float64{g.Radius, g.Radius},
		ClassName: className,
	}
}

// fold is an explicit left fold
func fold[A, B any](items []A, acc B, f func(B, A) B) B {
	for _, item := range items {
		acc = f(acc, item)
	}
	return acc
}

type pieState struct {
	angle   float64
	sectors []PieSector
}

// BuildPieGlyph turns a breakdown into pie sectors and SVG markup.
// Non-positive entries are dropped; a zero total or radius yields no glyph.
func BuildPieGlyph(b models.Breakdown, radius float64, colors NameScale) (PieGlyph, bool) {
	entries := b.Positive()
	total := entries.Total()
	if total <= 0 || math.IsInf(total, 0) || !(radius > 0) {
		return PieGlyph{}, false
	}

	if len(entries) == 1 {
		e := entries[0]
		sector := PieSector{
			Key:        e.Key,
			Label:      e.Label,
			Value:      e.Value,
			Color:      colors.ColorFor(e.Key),
			StartAngle: 0,
			EndAngle:   360,
			LargeArc:   true,
		}
		return PieGlyph{
			Radius:  radius,
			Total:   total,
			Sectors: []PieSector{sector},
			Markup:  svg(radius, circleElement(radius, sector.Color)),
		}, true
	}

	state := fold(entries, pieState{sectors: make([]PieSector, 0, len(entries))}, func(st pieState, e models.BreakdownEntry) pieState {
		sweep := 360 * e.Value / total
		end := st.angle + sweep
		sector := PieSector{
			Key:        e.Key,
			Label:      e.Label,
			Value:      e.Value,
			Color:      colors.ColorFor(e.Key),
			StartAngle: st.angle,
			EndAngle:   end,
			LargeArc:   sweep > 180,
		}
		// A near-full wedge whose endpoints round together has no drawable
		// arc; it is emitted as a circle instead.
		if !(sector.LargeArc && closesCircle(radius, sector.StartAngle, sector.EndAngle)) {
			sector.Path = wedgePath(radius, sector.StartAngle, sector.EndAngle, sector.LargeArc)
		}
		return pieState{angle: end, sectors: append(st.sectors, sector)}
	})

	// circles first so the remaining slivers stay on top
	var circles, paths strings.Builder
	for _, s := range state.sectors {
		if s.Path == "" {
			circles.WriteString(circleElement(radius, s.Color))
			continue
		}
		fmt.Fprintf(&paths, `<path d="%s" fill="%s"/>`, s.Path, s.Color)
	}

	return PieGlyph{
		Radius:  radius,
		Total:   total,
		Sectors: state.sectors,
		Markup:  svg(radius, circles.String()+paths.String()),
	}, true
}

// wedgePath draws M center L start A arc end Z inside a 2r square
func wedgePath(r, start, end float64, largeArc bool) string {
	x1, y1 := pointOnCircle(r, start)
	x2, y2 := pointOnCircle(r, end)
	large := 0
	if largeArc {
		large = 1
	}
	return fmt.Sprintf("M%s,%s L%s,%s A%s,%s 0 %d,1 %s,%s Z",
		num(r), num(r),
		num(x1), num(y1),
		num(r), num(r),
		large,
		num(x2), num(y2),
	)
}

// closesCircle reports whether the rounded start and end points coincide
func closesCircle(r, start, end float64) bool {
	x1, y1 := pointOnCircle(r, start)
	x2, y2 := pointOnCircle(r, end)
	return num(x1) == num(x2) && num(y1) == num(y2)
}

func pointOnCircle(r, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return r + r*math.Cos(rad), r + r*math.Sin(rad)
}

func circleElement(r float64, color string) string {
	return fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`, num(r), num(r), num(r), color)
}

func svg(r float64, body string) string {
	d := num(2 * r)
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">%s</svg>`, d, d, d, d, body)
}

// num formats a coordinate with at most four decimals and no negative zero
func num(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
