package symbology

import (
	"fmt"
	"math"

	"github.com/jengzang/livestock-atlas-go/internal/models"
)

// BarStyle sizes the two-bar comparison glyph
type BarStyle struct {
	Width     float64 `json:"width" mapstructure:"width"`
	BarWidth  float64 `json:"bar_width" mapstructure:"bar_width"`
	MaxHeight float64 `json:"max_height" mapstructure:"max_height"`
}

// DefaultBarStyle is a 20px wide icon with two 8px bars up to 35px tall
var DefaultBarStyle = BarStyle{Width: 20, BarWidth: 8, MaxHeight: 35}

// BarGlyph compares two values side by side on a shared maximum
type BarGlyph struct {
	LeftHeight  float64  `json:"left_height"`
	RightHeight float64  `json:"right_height"`
	Markup      string   `json:"markup"`
	Style       BarStyle `json:"style"`
}

// Icon anchors the glyph at its bottom centre
func (g BarGlyph) Icon(className string) models.Icon {
	return models.Icon{
		HTML:      g.Markup,
		Size:      [2]float64{g.Style.Width, g.Style.MaxHeight},
		Anchor:    [2]float64{g.Style.Width / 2, g.Style.MaxHeight},
		ClassName: className,
	}
}

// BarMax returns the shared scale maximum: the largest of both values over all
// rows, never below 1
func BarMax[T any](rows []T, left, right func(T) float64) float64 {
	max := 1.0
	for _, row := range rows {
		max = math.Max(max, math.Max(clampPositive(left(row)), clampPositive(right(row))))
	}
	return max
}

// BuildBarGlyph draws left and right bars scaled against max.
// Nothing is drawn when both values are zero.
func BuildBarGlyph(left, right, max float64, style BarStyle, leftColor, rightColor string) (BarGlyph, bool) {
	left, right = clampPositive(left), clampPositive(right)
	if left+right <= 0 {
		return BarGlyph{}, false
	}
	if !(max >= 1) {
		max = 1
	}
	if style.Width <= 0 || style.MaxHeight <= 0 || style.BarWidth <= 0 {
		style = DefaultBarStyle
	}

	lh := math.Min(style.MaxHeight, left*style.MaxHeight/max)
	rh := math.Min(style.MaxHeight, right*style.MaxHeight/max)

	body := fmt.Sprintf(`<rect x="0" y="%s" width="%s" height="%s" rx="1" fill="%s"/>`,
		num(style.MaxHeight-lh), num(style.BarWidth), num(lh), leftColor) +
		fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" rx="1" fill="%s"/>`,
			num(style.Width-style.BarWidth), num(style.MaxHeight-rh), num(style.BarWidth), num(rh), rightColor)

	markup := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">%s</svg>`,
		num(style.Width), num(style.MaxHeight), num(style.Width), num(style.MaxHeight), body)

	return BarGlyph{LeftHeight: lh, RightHeight: rh, Markup: markup, Style: style}, true
}

func clampPositive(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
