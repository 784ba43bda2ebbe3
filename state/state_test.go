package state

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestConfigurationRoundTrip(t *testing.T) {
	s := State{X: 1, Y: 2, Theta: 0.7, Kappa: 0.3, D: -1}
	cfg := s.Configuration()
	back := FromConfiguration(cfg, s.Kappa, s.D)
	test.That(t, math.Abs(back.X-s.X), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(back.Y-s.Y), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(back.Theta-s.Theta), test.ShouldBeLessThan, 1e-9)
	test.That(t, back.Kappa, test.ShouldEqual, s.Kappa)
	test.That(t, back.D, test.ShouldEqual, s.D)
}

func TestNewWithCovarianceZeroed(t *testing.T) {
	w := NewWithCovariance(State{X: 1})
	r, c := w.Sigma.Dims()
	test.That(t, r, test.ShouldEqual, 4)
	test.That(t, c, test.ShouldEqual, 4)
	test.That(t, w.Sigma.At(0, 0), test.ShouldEqual, 0.0)
}

func TestCloneIsDeep(t *testing.T) {
	w := NewWithCovariance(State{X: 1})
	w.Sigma.Set(0, 0, 5)
	clone := w.Clone()
	clone.Sigma.Set(0, 0, 9)
	test.That(t, w.Sigma.At(0, 0), test.ShouldEqual, 5.0)
	test.That(t, clone.Sigma.At(0, 0), test.ShouldEqual, 9.0)
}
