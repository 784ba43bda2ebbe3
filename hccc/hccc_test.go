package hccc

import (
	"math"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/golang/geo/r3"

	"github.com/steeringfunctions/steeringfunctions/geom"
	"github.com/steeringfunctions/steeringfunctions/hccircle"
	"github.com/steeringfunctions/steeringfunctions/state"
)

func TestZeroDistanceCoincidentPoses(t *testing.T) {
	ss, err := NewHCpmpmRS(1.0, 0, 0.1)
	test.That(t, err, test.ShouldBeNil)
	s := state.State{X: 1, Y: 2, Theta: 0.3}
	test.That(t, ss.GetDistance(s, s), test.ShouldEqual, 0.0)
}

func TestNewFamilyRejectsNonPositiveKappaMax(t *testing.T) {
	_, err := NewHCpmpmRS(0, 1, 0.1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewFamilyAggregatesMultipleErrors(t *testing.T) {
	_, err := NewHCpmpmRS(-1, -1, -1)
	test.That(t, err, test.ShouldNotBeNil)
	msg := err.Error()
	test.That(t, strings.Contains(msg, "kappaMax"), test.ShouldBeTrue)
	test.That(t, strings.Contains(msg, "discretization"), test.ShouldBeTrue)
}

// TestSingleTurnWordFound places the goal exactly on the start circle (by
// construction, from the same underlying hccircle geometry the family's
// engine builds internally), guaranteeing the T word is found and its
// length matches the lowered controls.
func TestSingleTurnWordFound(t *testing.T) {
	kappaMax, sigma := 1.0, 1.0
	ss, err := NewHCpmpmRS(kappaMax, sigma, 0.1)
	test.That(t, err, test.ShouldBeNil)

	start := state.State{X: 0, Y: 0, Theta: 0}
	startCfg := start.Configuration()
	c := hccircle.NewHC(startCfg, kappaMax, sigma, true, true)

	angleToStart := math.Atan2(startCfg.Pos.Y-c.YC, startCfg.Pos.X-c.XC)
	delta := math.Pi / 2
	radial := angleToStart + delta
	goalCfg := geom.Configuration{
		Pos:   r3.Vector{X: c.XC + c.Radius*math.Cos(radial), Y: c.YC + c.Radius*math.Sin(radial)},
		Theta: radial + math.Pi/2,
	}
	goal := state.FromConfiguration(goalCfg, 0, 1)

	dist := ss.GetDistance(start, goal)
	test.That(t, dist, test.ShouldBeGreaterThan, 0.0)
	test.That(t, math.IsInf(dist, 1), test.ShouldBeFalse)

	controls := ss.GetControls(start, goal)
	test.That(t, len(controls) > 0, test.ShouldBeTrue)
	sum := 0.0
	for _, ctl := range controls {
		sum += math.Abs(ctl.Delta)
	}
	test.That(t, math.Abs(sum-dist), test.ShouldBeLessThan, 1e-6)
}

func TestKappaMaxAndDiscretizationAccessors(t *testing.T) {
	ss, err := NewHCRS(2.0, 0, 0.1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ss.KappaMax(), test.ShouldEqual, 2.0)
	test.That(t, ss.Discretization(), test.ShouldEqual, 0.1)
}

// TestHCpmpmRSAlwaysReturnsAValidWord exercises HCpmpm_RS across a spread of
// pose pairs, including several fourCircleWord (TTcTT/TcTTcT) is known not
// to solve for (its collinear-only construction misses any pair whose true
// four-circle optimum sits off the start/end circle centre axis; see
// fourCircleWord's doc comment). Since some other word or the
// ElementarySharpness fallback must still cover any pose pair the family's
// circleMask allows, GetDistance/GetControls should never report an
// unreachable pair as +Inf/nil here.
func TestHCpmpmRSAlwaysReturnsAValidWord(t *testing.T) {
	kappaMax, sigma := 1.0, 1.0
	ss, err := NewHCpmpmRS(kappaMax, sigma, 0.1)
	test.That(t, err, test.ShouldBeNil)

	start := state.State{X: 0, Y: 0, Theta: 0}
	goals := []state.State{
		{X: 3, Y: 0, Theta: math.Pi},
		{X: -3, Y: 2, Theta: math.Pi / 2},
		{X: 0.5, Y: -2, Theta: -math.Pi / 3},
		{X: 5, Y: 5, Theta: 0},
		{X: -1, Y: -1, Theta: 3 * math.Pi / 4},
	}
	for _, goal := range goals {
		dist := ss.GetDistance(start, goal)
		test.That(t, math.IsInf(dist, 1), test.ShouldBeFalse)
		test.That(t, dist, test.ShouldBeGreaterThan, 0.0)

		controls := ss.GetControls(start, goal)
		test.That(t, len(controls) > 0, test.ShouldBeTrue)
	}
}

func TestAllElevenFamiliesConstructible(t *testing.T) {
	constructors := []func(float64, float64, float64) (*StateSpace, error){
		NewCCDubins,
		NewCC00Dubins,
		NewCC0pmDubins,
		NewCCpm0Dubins,
		NewCCpmpmDubins,
		NewCC00RS,
		NewHCRS,
		NewHC00RS,
		NewHC0pmRS,
		NewHCpm0RS,
		NewHCpmpmRS,
	}
	test.That(t, len(constructors), test.ShouldEqual, 11)
	for _, ctor := range constructors {
		f, err := ctor(1, 0, 0.1)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, f.KappaMax(), test.ShouldEqual, 1.0)
	}
}
