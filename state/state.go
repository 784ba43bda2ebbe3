// Package state defines the pose types every state space produces and
// consumes: a bare kinematic pose and its covariance-augmented counterpart.
package state

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/steeringfunctions/steeringfunctions/geom"
)

// State is a car-like vehicle pose: position, heading, signed curvature and
// direction of travel. Theta is not canonically reduced on construction;
// callers compare headings via geom.Pify.
type State struct {
	X, Y  float64
	Theta float64
	Kappa float64
	D     float64 // direction of travel, +1 or -1
}

// Configuration returns the (x, y, theta) triple of s as a geom.Configuration,
// discarding curvature and direction.
func (s State) Configuration() geom.Configuration {
	return geom.Configuration{Pos: r3.Vector{X: s.X, Y: s.Y}, Theta: s.Theta}
}

// FromConfiguration builds a State from a geom.Configuration plus curvature
// and direction, the inverse of Configuration.
func FromConfiguration(c geom.Configuration, kappa, d float64) State {
	return State{X: c.Pos.X, Y: c.Pos.Y, Theta: c.Theta, Kappa: kappa, D: d}
}

// WithCovariance is a pose augmented with the three 4x4 matrices the
// external EKF collaborator propagates: Sigma (state estimate covariance),
// Lambda (expected information), and Covariance (total covariance). All
// three are opaque to the geometry core; it only threads them through.
type WithCovariance struct {
	State      State
	Sigma      *mat.Dense
	Lambda     *mat.Dense
	Covariance *mat.Dense
}

// NewWithCovariance builds a WithCovariance whose three matrices are
// independent 4x4 zero matrices, ready for an EKF collaborator to
// initialise via SetParameters/Predict.
func NewWithCovariance(s State) WithCovariance {
	return WithCovariance{
		State:      s,
		Sigma:      mat.NewDense(4, 4, nil),
		Lambda:     mat.NewDense(4, 4, nil),
		Covariance: mat.NewDense(4, 4, nil),
	}
}

// Clone returns a deep copy of w; the geometry core never mutates a caller's
// matrices in place.
func (w WithCovariance) Clone() WithCovariance {
	clone := WithCovariance{State: w.State}
	if w.Sigma != nil {
		clone.Sigma = mat.DenseCopyOf(w.Sigma)
	}
	if w.Lambda != nil {
		clone.Lambda = mat.DenseCopyOf(w.Lambda)
	}
	if w.Covariance != nil {
		clone.Covariance = mat.DenseCopyOf(w.Covariance)
	}
	return clone
}
