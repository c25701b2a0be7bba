package symbology

import (
	"fmt"
	"math"
)

// Breakpoint assigns a radius to values above a lower bound
type Breakpoint struct {
	Above  float64 `json:"above"`
	Radius float64 `json:"radius"`
}

// BreakpointScale sizes symbols in discrete steps
type BreakpointScale struct {
	Breakpoints []Breakpoint `json:"breakpoints"` // increasing bounds
	Min         float64      `json:"min"`
}

// NewBreakpointScale validates bounds and radii. Radii may not shrink as bounds grow.
func NewBreakpointScale(min float64, breakpoints ...Breakpoint) (BreakpointScale, error) {
	if !(min > 0) || math.IsInf(min, 0) {
		return BreakpointScale{}, fmt.Errorf("%w: minimum radius must be positive, got %v", ErrInvalidScale, min)
	}
	prevRadius := min
	for i, b := range breakpoints {
		if i > 0 && b.Above <= breakpoints[i-1].Above {
			return BreakpointScale{}, fmt.Errorf("%w: breakpoint %d bound %v does not exceed %v", ErrInvalidScale, i, b.Above, breakpoints[i-1].Above)
		}
		if b.Radius < prevRadius {
			return BreakpointScale{}, fmt.Errorf("%w: breakpoint %d radius %v is below %v", ErrInvalidScale, i, b.Radius, prevRadius)
		}
		prevRadius = b.Radius
	}

	cp := make([]Breakpoint, len(breakpoints))
	copy(cp, breakpoints)
	return BreakpointScale{Breakpoints: cp, Min: min}, nil
}

// MustBreakpointScale panics on an invalid static table
func MustBreakpointScale(min float64, breakpoints ...Breakpoint) BreakpointScale {
	s, err := NewBreakpointScale(min, breakpoints...)
	if err != nil {
		panic(err)
	}
	return s
}

// RadiusFor returns the radius of the highest bound the value exceeds, else Min
func (s BreakpointScale) RadiusFor(v float64) float64 {
	if math.IsNaN(v) {
		return s.Min
	}
	for i := len(s.Breakpoints) - 1; i >= 0; i-- {
		if v > s.Breakpoints[i].Above {
			return s.Breakpoints[i].Radius
		}
	}
	return s.Min
}

// Transform is the monotonic function of a continuous scale
type Transform string

const (
	TransformLinear Transform = "linear"
	TransformSqrt   Transform = "sqrt"
)

// ContinuousScale sizes symbols as clamp(Factor * f(v), Min, Max)
type ContinuousScale struct {
	Transform Transform `json:"transform"`
	Factor    float64   `json:"factor"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
}

// NewContinuousScale validates 0 < min <= max and a positive factor
func NewContinuousScale(t Transform, factor, min, max float64) (ContinuousScale, error) {
	switch t {
	case TransformLinear, TransformSqrt:
	default:
		return ContinuousScale{}, fmt.Errorf("%w: unknown transform %q", ErrInvalidScale, t)
	}
	if !(factor > 0) || math.IsInf(factor, 0) {
		return ContinuousScale{}, fmt.Errorf("%w: factor must be positive, got %v", ErrInvalidScale, factor)
	}
	if !(min > 0) || !(max >= min) || math.IsInf(max, 0) {
		return ContinuousScale{}, fmt.Errorf("%w: need 0 < min <= max, got [%v, %v]", ErrInvalidScale, min, max)
	}
	return ContinuousScale{Transform: t, Factor: factor, Min: min, Max: max}, nil
}

// MustContinuousScale panics on an invalid static scale
func MustContinuousScale(t Transform, factor, min, max float64) ContinuousScale {
	s, err := NewContinuousScale(t, factor, min, max)
	if err != nil {
		panic(err)
	}
	return s
}

// RadiusFor maps non-positive or NaN input to Min and +Inf to Max
func (s ContinuousScale) RadiusFor(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return s.Min
	}
	if math.IsInf(v, 1) {
		return s.Max
	}

	var r float64
	switch s.Transform {
	case TransformSqrt:
		r = math.Sqrt(v) * s.Factor
	default:
		r = v * s.Factor
	}
	return math.Max(s.Min, math.Min(s.Max, r))
}
