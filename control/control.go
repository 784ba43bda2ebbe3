// Package control defines the piecewise-constant-sharpness motion primitive
// every word-family solver lowers its selected path into.
package control

import "math"

// Control is one piecewise segment of a lowered path: an arc length Delta
// (signed by direction of travel), the curvature at the start of the
// segment, and the sharpness (rate of curvature change per unit arc
// length). The curvature at arc length s into the segment (0 <= s <=
// |Delta|) is Kappa + Sign(Delta)*Sigma*s; Sigma == 0 yields a circular arc
// or, if Kappa is also 0, a straight line.
type Control struct {
	Delta float64
	Kappa float64
	Sigma float64
}

// Sign returns the direction of travel encoded by Delta: +1, -1, or 0 for
// an exactly zero-length control.
func (c Control) Sign() float64 {
	switch {
	case c.Delta > 0:
		return 1
	case c.Delta < 0:
		return -1
	default:
		return 0
	}
}

// EndKappa returns the curvature at the far end of the control.
func (c Control) EndKappa() float64 {
	return c.Kappa + c.Sign()*c.Sigma*math.Abs(c.Delta)
}

// IsNoOp reports whether c is the degenerate zero-length, zero-curvature
// control emitted for coincident start/goal poses.
func (c Control) IsNoOp() bool {
	return c.Delta == 0 && c.Kappa == 0 && c.Sigma == 0
}

// Length returns the sum of |Delta| over controls, i.e. the total travelled
// arc length of the path they describe.
func Length(controls []Control) float64 {
	total := 0.0
	for _, c := range controls {
		total += math.Abs(c.Delta)
	}
	return total
}

// Reverse returns a new control list that traverses the same path in the
// opposite order with each Delta negated, so that integrating it from the
// original path's end pose retraces the path back to the original start
// pose.
func Reverse(controls []Control) []Control {
	out := make([]Control, len(controls))
	for i, c := range controls {
		out[len(controls)-1-i] = Control{
			Delta: -c.Delta,
			Kappa: c.EndKappa(),
			Sigma: c.Sigma,
		}
	}
	return out
}

// NoOp is the single zero-length control emitted for a degenerate
// (coincident, within geom.Eps) start/goal pair.
var NoOp = Control{}
