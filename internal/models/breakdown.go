package models

// BreakdownEntry is one labeled category value of a breakdown
type BreakdownEntry struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Breakdown is an ordered category → value mapping derived from a record
type Breakdown []BreakdownEntry

// Total returns the sum of all entries
func (b Breakdown) Total() float64 {
	var total float64
	for _, e := range b {
		total += e.Value
	}
	return total
}

// Positive returns the strictly positive entries, preserving order
func (b Breakdown) Positive() Breakdown {
	out := make(Breakdown, 0, len(b))
	for _, e := range b {
		if e.Value > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Get returns the value stored under key, or 0
func (b Breakdown) Get(key string) float64 {
	for _, e := range b {
		if e.Key == key {
			return e.Value
		}
	}
	return 0
}
