package steerspace

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"github.com/steeringfunctions/steeringfunctions/control"
	"github.com/steeringfunctions/steeringfunctions/ekf"
	"github.com/steeringfunctions/steeringfunctions/state"
)

func TestInterpolateStepStraight(t *testing.T) {
	from := state.State{X: 0, Y: 0, Theta: 0}
	c := control.Control{Delta: 5}
	next := interpolateStep(from, c, 5)
	test.That(t, math.Abs(next.X-5), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(next.Y), test.ShouldBeLessThan, 1e-9)
}

func TestInterpolateStepCircularArcQuarterTurn(t *testing.T) {
	from := state.State{X: 0, Y: 0, Theta: 0}
	c := control.Control{Delta: math.Pi / 2, Kappa: 1}
	next := interpolateStep(from, c, math.Pi/2)
	test.That(t, math.Abs(next.X-1), test.ShouldBeLessThan, 1e-6)
	test.That(t, math.Abs(next.Y-1), test.ShouldBeLessThan, 1e-6)
	test.That(t, math.Abs(next.Theta-math.Pi/2), test.ShouldBeLessThan, 1e-6)
}

func TestInterpolateStepClothoid(t *testing.T) {
	from := state.State{X: 0, Y: 0, Theta: 0}
	c := control.Control{Delta: 2, Kappa: 0, Sigma: 0.5}
	next := interpolateStep(from, c, 2)
	want := c.Kappa + c.Sign()*c.Sigma*2
	test.That(t, math.Abs(next.Kappa-want), test.ShouldBeLessThan, 1e-9)
	// A clothoid departing straight (kappa=0) curves away from the x axis
	// once sigma has accumulated some curvature; it should not stay on y=0.
	test.That(t, next.Y, test.ShouldNotEqual, 0)
}

func TestInterpolateWholePathIdempotentAtOne(t *testing.T) {
	from := state.State{X: 0, Y: 0, Theta: 0}
	controls := []control.Control{
		{Delta: 1, Kappa: 0},
		{Delta: math.Pi / 2, Kappa: 1},
	}
	path, err := GetPath(from, controls, 0.2)
	test.That(t, err, test.ShouldBeNil)
	want := path[len(path)-1]

	got := Interpolate(from, controls, 1.0)
	test.That(t, math.Abs(got.X-want.X), test.ShouldBeLessThan, 1e-6)
	test.That(t, math.Abs(got.Y-want.Y), test.ShouldBeLessThan, 1e-6)
	test.That(t, math.Abs(got.Theta-want.Theta), test.ShouldBeLessThan, 1e-6)
	test.That(t, math.Abs(got.Kappa-want.Kappa), test.ShouldBeLessThan, 1e-6)
}

func TestInterpolateWholePathClampsFraction(t *testing.T) {
	from := state.State{X: 0, Y: 0, Theta: 0}
	controls := []control.Control{{Delta: 4, Kappa: 0}}
	below := Interpolate(from, controls, -1)
	atStart := Interpolate(from, controls, 0)
	test.That(t, math.Abs(below.X-atStart.X), test.ShouldBeLessThan, 1e-9)

	above := Interpolate(from, controls, 2)
	atEnd := Interpolate(from, controls, 1)
	test.That(t, math.Abs(above.X-atEnd.X), test.ShouldBeLessThan, 1e-9)
}

func TestInterpolateWholePathSetsInitialCurvatureFromFirstControl(t *testing.T) {
	from := state.State{X: 0, Y: 0, Theta: 0, Kappa: 0, D: 0}
	controls := []control.Control{{Delta: math.Pi / 2, Kappa: 1}}
	got := Interpolate(from, controls, 0)
	test.That(t, got.Kappa, test.ShouldEqual, 1.0)
	test.That(t, got.D, test.ShouldEqual, controls[0].Sign())
}

func TestGetPathRejectsNonPositiveDiscretization(t *testing.T) {
	from := state.State{}
	_, err := GetPath(from, []control.Control{{Delta: 1}}, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGetPathSamplesEveryDiscretizationStep(t *testing.T) {
	from := state.State{X: 0, Y: 0, Theta: 0}
	controls := []control.Control{{Delta: 1}}
	path, err := GetPath(from, controls, 0.3)
	test.That(t, err, test.ShouldBeNil)
	// ceil(1/0.3) = 4 steps plus the initial pose.
	test.That(t, len(path), test.ShouldEqual, 5)
	last := path[len(path)-1]
	test.That(t, math.Abs(last.X-1.0), test.ShouldBeLessThan, 1e-9)

	want := from
	want.Kappa = controls[0].Kappa
	want.D = controls[0].Sign()
	if diff := cmp.Diff(path[0], want); diff != "" {
		t.Fatalf("first sample should carry the first control's starting curvature/direction (-want +got):\n%s", diff)
	}
}

// TestGetPathReportsCuspDiscontinuity covers TESTABLE-7: a control sequence
// crossing an HC "c" (cusp) boundary must surface exactly one duplicated
// pose at that junction, at the same position/heading but with the new
// curvature and direction, before the next control's own steps are sampled.
func TestGetPathReportsCuspDiscontinuity(t *testing.T) {
	from := state.State{X: 0, Y: 0, Theta: 0}
	controls := []control.Control{
		{Delta: math.Pi / 4, Kappa: 1},
		{Delta: math.Pi / 4, Kappa: -1},
	}
	path, err := GetPath(from, controls, 10) // one sample per control plus the boundary.
	test.That(t, err, test.ShouldBeNil)

	var boundaries int
	for i := 1; i < len(path); i++ {
		if math.Abs(path[i].Kappa-path[i-1].Kappa) > 1e-6 &&
			math.Abs(path[i].X-path[i-1].X) < 1e-9 &&
			math.Abs(path[i].Y-path[i-1].Y) < 1e-9 &&
			path[i].Theta == path[i-1].Theta {
			boundaries++
		}
	}
	test.That(t, boundaries, test.ShouldEqual, 1)

	// The jump itself is exactly |Delta kappa| = 2 (from +1 to -1).
	for i := 1; i < len(path); i++ {
		if math.Abs(path[i].X-path[i-1].X) < 1e-9 && math.Abs(path[i].Y-path[i-1].Y) < 1e-9 && i > 1 {
			test.That(t, math.Abs(path[i].Kappa-path[i-1].Kappa), test.ShouldAlmostEqual, 2.0)
		}
	}
}

func TestGetPathWithCovarianceRejectsNilCollaborator(t *testing.T) {
	from := state.NewWithCovariance(state.State{})
	_, err := GetPathWithCovariance(from, []control.Control{{Delta: 1}}, 0.1, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGetPathWithCovarianceThreadsCollaborator(t *testing.T) {
	d := ekf.NewDefault()
	d.SetParameters(ekf.MotionNoise{Alpha1: 0.01, Alpha2: 0.01, Alpha3: 0.01, Alpha4: 0.01},
		ekf.MeasurementNoise{SigmaX: 0.1, SigmaY: 0.1, SigmaTheta: 0.1},
		ekf.Controller{K1: 0.1, K2: 0.1, K3: 0.1})

	from := state.NewWithCovariance(state.State{})
	controls := []control.Control{{Delta: 2}}
	path, err := GetPathWithCovariance(from, controls, 0.5, d)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(path), test.ShouldEqual, 5)
}
