package stats

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// NoDataDisplay is shown wherever a derived value cannot be computed
const NoDataDisplay = "—"

// Value is a derived number that may be absent ("no data").
// It serializes as a JSON number or null.
type Value struct {
	Number float64
	Valid  bool
}

// NoData is the sentinel for ratios and averages with a zero denominator
var NoData = Value{}

// Some wraps a finite number; NaN and ±Inf become NoData
func Some(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoData
	}
	return Value{Number: v, Valid: true}
}

// Or returns the number, or fallback when absent
func (v Value) Or(fallback float64) float64 {
	if !v.Valid {
		return fallback
	}
	return v.Number
}

// String renders the value with up to two decimals, or the no-data marker
func (v Value) String() string {
	if !v.Valid {
		return NoDataDisplay
	}
	return strconv.FormatFloat(RoundTo2(v.Number), 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Number)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = NoData
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}
