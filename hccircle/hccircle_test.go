package hccircle

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/steeringfunctions/steeringfunctions/geom"
)

func TestNewRSRadius(t *testing.T) {
	start := geom.Configuration{Theta: 0}
	c := NewRS(start, 0.5, true, true)
	test.That(t, math.Abs(c.Radius-2.0), test.ShouldBeLessThan, 1e-9)
	test.That(t, c.Mu, test.ShouldEqual, 0.0)
	test.That(t, c.LengthMin, test.ShouldEqual, 0.0)
}

func TestNewHCHasPositiveLengthMin(t *testing.T) {
	start := geom.Configuration{Theta: 0}
	c := NewHC(start, 0.5, 0.25, true, true)
	test.That(t, c.LengthMin, test.ShouldBeGreaterThan, 0.0)
	test.That(t, c.Mu, test.ShouldBeGreaterThan, 0.0)
}

func TestRSTurnLengthQuarterCircle(t *testing.T) {
	start := geom.Configuration{Theta: 0}
	c := NewRS(start, 1.0, true, true)
	centre := c.Centre()
	q := geom.Configuration{Pos: r3.Vector{X: centre.X + c.Radius, Y: centre.Y}, Theta: math.Pi / 2}
	l := c.RSTurnLength(q)
	test.That(t, math.Abs(l-math.Pi/2), test.ShouldBeLessThan, 1e-6)
}

func TestIsRS(t *testing.T) {
	start := geom.Configuration{Theta: 0}
	rs := NewRS(start, 1.0, true, true)
	hc := NewHC(start, 1.0, 0.5, true, true)
	test.That(t, rs.IsRS(), test.ShouldBeTrue)
	test.That(t, hc.IsRS(), test.ShouldBeFalse)
}

func TestRSControlsLength(t *testing.T) {
	start := geom.Configuration{Theta: 0}
	c := NewRS(start, 1.0, true, true)
	centre := c.Centre()
	q := geom.Configuration{Pos: r3.Vector{X: centre.X + c.Radius, Y: centre.Y}, Theta: math.Pi / 2}
	controls := c.RSControls(q)
	test.That(t, len(controls), test.ShouldEqual, 1)
	test.That(t, math.Abs(math.Abs(controls[0].Delta)-math.Pi/2), test.ShouldBeLessThan, 1e-6)
}

func TestCCTurnLengthAtLeastTwiceLengthMin(t *testing.T) {
	start := geom.Configuration{Theta: 0}
	c := NewHC(start, 0.5, 0.5, true, true)
	centre := c.Centre()
	q := geom.Configuration{Pos: r3.Vector{X: centre.X, Y: centre.Y + c.Radius}, Theta: math.Pi / 2}
	l := c.CCTurnLength(q)
	test.That(t, l, test.ShouldBeGreaterThan, 2*c.LengthMin-1e-9)
}

// TestRSArrivalLengthMirrorsTurnLength builds a circle whose Start field is
// the destination pose (as engine.go's end-circle construction does) and
// checks that RSArrivalLength recovers the true forward arc length from a
// departure point q to that destination, rather than the complementary
// (2*pi - length) arc that plain RSTurnLength would report if misapplied to
// an arrival circle.
func TestRSArrivalLengthMirrorsTurnLength(t *testing.T) {
	goal := geom.Configuration{Theta: math.Pi / 2}
	c := NewRS(goal, 1.0, true, true)
	centre := c.Centre()

	// q is a quarter turn (in c's own left-handed sense) before goal.
	angleToGoal := math.Atan2(goal.Pos.Y-centre.Y, goal.Pos.X-centre.X)
	radial := angleToGoal - math.Pi/2
	q := geom.Configuration{
		Pos:   r3.Vector{X: centre.X + c.Radius*math.Cos(radial), Y: centre.Y + c.Radius*math.Sin(radial)},
		Theta: radial + math.Pi/2,
	}

	arrival := c.RSArrivalLength(q)
	test.That(t, math.Abs(arrival-math.Pi/2), test.ShouldBeLessThan, 1e-6)

	// The plain departure-oriented length, misapplied here, would report the
	// major-arc complement instead.
	departure := c.RSTurnLength(q)
	test.That(t, math.Abs(departure-(2*math.Pi-math.Pi/2)), test.ShouldBeLessThan, 1e-6)
}

func TestElementarySharpnessRejectsZeroDelta(t *testing.T) {
	start := geom.Configuration{Theta: 0}
	c := NewHC(start, 0.5, 0.5, true, true)
	_, ok := c.ElementarySharpness(start, 0, 1.0)
	test.That(t, ok, test.ShouldBeFalse)
}
