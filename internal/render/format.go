// Package render turns engine output into payloads for map and chart hosts
package render

import (
	"html"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jengzang/livestock-atlas-go/internal/stats"
)

// DefaultLocale matches the dashboard's display language
const DefaultLocale = "ar-EG"

// Formatter renders numbers for tooltips and cards in one locale
type Formatter struct {
	printer *message.Printer
}

// NewFormatter builds a formatter; an unparsable locale falls back to DefaultLocale
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Number formats with grouping and at most two decimals
func (f *Formatter) Number(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Value formats an optional value, using the no-data marker when absent
func (f *Formatter) Value(v stats.Value) string {
	if !v.Valid {
		return stats.NoDataDisplay
	}
	return f.Number(v.Number)
}

// Percent formats an optional percentage
func (f *Formatter) Percent(v stats.Value) string {
	if !v.Valid {
		return stats.NoDataDisplay
	}
	return f.Number(v.Number) + "%"
}

// Tooltip is a small lightly marked-up summary of one region
type Tooltip struct {
	title string
	lines []string
}

// NewTooltip starts a tooltip with an escaped title
func NewTooltip(title string) *Tooltip {
	return &Tooltip{title: title}
}

// Line appends "label: value"
func (t *Tooltip) Line(label, value string) *Tooltip {
	t.lines = append(t.lines, html.EscapeString(label)+": "+html.EscapeString(value))
	return t
}

// String renders the tooltip markup
func (t *Tooltip) String() string {
	var b strings.Builder
	b.WriteString("<strong>")
	b.WriteString(html.EscapeString(t.title))
	b.WriteString("</strong>")
	for _, l := range t.lines {
		b.WriteString("<br/>")
		b.WriteString(l)
	}
	return b.String()
}
