// Package steerspace defines the StateSpace contract every word-family
// solver (dubins, reedsshepp, hccc) implements, and the shared
// integration/interpolation engine that lowers a solved path's controls
// into sampled poses at a fixed arc-length discretization, optionally
// threading each step through an external EKF collaborator for covariance
// propagation.
package steerspace

import (
	"math"

	"github.com/pkg/errors"

	"github.com/steeringfunctions/steeringfunctions/control"
	"github.com/steeringfunctions/steeringfunctions/ekf"
	"github.com/steeringfunctions/steeringfunctions/geom"
	"github.com/steeringfunctions/steeringfunctions/state"
)

// StateSpace is the contract every word-family solver satisfies: shortest
// distance and controls between two poses at a fixed maximum curvature and
// sampling discretization.
type StateSpace interface {
	GetDistance(s1, s2 state.State) float64
	GetControls(s1, s2 state.State) []control.Control
	KappaMax() float64
	Discretization() float64
}

// interpolateStep advances state s along control c by arc length arcLength
// (0 <= arcLength <= |c.Delta|), returning the pose reached and the
// curvature there. It dispatches on the three-way ODE structure every
// family's lowered controls share: a clothoid when the sharpness is
// non-zero, a circular arc when only curvature is non-zero, and a straight
// line otherwise.
func interpolateStep(from state.State, c control.Control, arcLength float64) state.State {
	sign := c.Sign()
	if sign == 0 {
		sign = 1
	}
	var x, y, theta float64
	switch {
	case math.Abs(c.Sigma) > geom.Eps:
		x, y, theta = geom.EndOfClothoid(from.X, from.Y, from.Theta, c.Kappa, c.Sigma, sign, arcLength)
	case math.Abs(c.Kappa) > geom.Eps:
		x, y, theta = geom.EndOfCircularArc(from.X, from.Y, from.Theta, c.Kappa, sign, arcLength)
	default:
		x, y, theta = geom.EndOfStraightLine(from.X, from.Y, from.Theta, sign, arcLength)
	}
	kappaEnd := c.Kappa + sign*c.Sigma*arcLength
	return state.State{X: x, Y: y, Theta: theta, Kappa: kappaEnd, D: sign}
}

// Interpolate produces the single pose reached at fractional arc length
// t * sum(|Delta|) along controls, starting from from. t is clamped to
// [0, 1]. The first pose's curvature/direction are taken from controls[0]
// rather than from itself (from may carry a stale or zero Kappa/D, but the
// vehicle is already committed to controls[0]'s curvature the instant it
// starts executing it), and each subsequent control boundary updates
// curvature/direction the same way, matching the reference implementation's
// interpolate. Interpolate(s0, controls, 1.0) reaches the same pose as the
// last element of GetPath(s0, controls, ...).
func Interpolate(from state.State, controls []control.Control, t float64) state.State {
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}

	remaining := t * control.Length(controls)

	cur := from
	for _, c := range controls {
		if c.IsNoOp() {
			continue
		}
		if math.Abs(c.Kappa-cur.Kappa) > geom.Eps {
			cur.Kappa = c.Kappa
			cur.D = c.Sign()
		}
		length := math.Abs(c.Delta)
		if remaining <= length+geom.Eps {
			return interpolateStep(cur, c, math.Min(remaining, length))
		}
		cur = interpolateStep(cur, c, length)
		remaining -= length
	}
	return cur
}

// GetPath integrates controls starting from `from`, sampling a pose at
// every multiple of discretization along each control's length (and always
// at each control boundary), truncating the final step of each control to
// its remaining length. Matches the reference implementation's
// integrate/interpolate stepping: ceil(|Delta|/discretization) samples per
// control, the last one truncated rather than overshot.
//
// The first emitted pose has its curvature/direction initialized from
// controls[0] rather than carried verbatim from `from` (the caller's Kappa/D
// may be stale or zero even though the vehicle is about to depart on
// controls[0]'s curvature). Whenever a control's starting curvature differs
// from the current pose's curvature by more than geom.Eps — a cusp boundary
// between two HC/CC turns of opposite curvature sign — that discontinuity is
// reported as a duplicated pose at the same position/heading with the new
// curvature/direction, before that control's own steps are sampled.
func GetPath(from state.State, controls []control.Control, discretization float64) ([]state.State, error) {
	if discretization <= 0 {
		return nil, errors.Errorf("discretization must be positive, got %f", discretization)
	}
	cur := from
	if len(controls) > 0 && !controls[0].IsNoOp() {
		cur.Kappa = controls[0].Kappa
		cur.D = controls[0].Sign()
	}
	path := []state.State{cur}
	for _, c := range controls {
		if c.IsNoOp() {
			continue
		}
		if math.Abs(c.Kappa-cur.Kappa) > geom.Eps {
			cur.Kappa = c.Kappa
			cur.D = c.Sign()
			path = append(path, cur)
		}
		total := math.Abs(c.Delta)
		steps := int(math.Ceil(total / discretization))
		if steps < 1 {
			steps = 1
		}
		for i := 1; i <= steps; i++ {
			s := math.Min(float64(i)*discretization, total)
			path = append(path, interpolateStep(cur, c, s))
		}
		cur = path[len(path)-1]
	}
	return path, nil
}

// GetPathWithCovariance mirrors GetPath but threads every sampled step
// through the EKF collaborator's Predict/Update cycle, seeding the initial
// covariance from `from` and using motionNoise/measurementNoise/controller
// gains supplied via collaborator.SetParameters beforehand. As in GetPath,
// the first pose's curvature/direction are initialized from controls[0], and
// each cusp boundary (a control whose starting curvature differs from the
// current pose's by more than geom.Eps) is reported as a duplicated,
// zero-length-step pose carrying the new curvature/direction before that
// control's own steps are sampled.
func GetPathWithCovariance(
	from state.WithCovariance,
	controls []control.Control,
	discretization float64,
	collaborator ekf.Collaborator,
) ([]state.WithCovariance, error) {
	if discretization <= 0 {
		return nil, errors.Errorf("discretization must be positive, got %f", discretization)
	}
	if collaborator == nil {
		return nil, errors.New("collaborator must not be nil")
	}
	cur := from
	if len(controls) > 0 && !controls[0].IsNoOp() {
		cur.State.Kappa = controls[0].Kappa
		cur.State.D = controls[0].Sign()
	}
	path := []state.WithCovariance{cur}
	for _, c := range controls {
		if c.IsNoOp() {
			continue
		}
		if math.Abs(c.Kappa-cur.State.Kappa) > geom.Eps {
			boundary := cur.State
			boundary.Kappa = c.Kappa
			boundary.D = c.Sign()
			predicted := collaborator.Predict(cur, c, 0)
			updated := collaborator.Update(predicted, boundary)
			path = append(path, updated)
			cur = updated
		}
		total := math.Abs(c.Delta)
		steps := int(math.Ceil(total / discretization))
		if steps < 1 {
			steps = 1
		}
		prevArc := 0.0
		start := cur.State
		for i := 1; i <= steps; i++ {
			s := math.Min(float64(i)*discretization, total)
			step := s - prevArc
			prevArc = s

			nextState := interpolateStep(start, c, s)
			predicted := collaborator.Predict(cur, c, step)
			updated := collaborator.Update(predicted, nextState)
			path = append(path, updated)
			cur = updated
		}
	}
	return path, nil
}
