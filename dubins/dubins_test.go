package dubins

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/steeringfunctions/steeringfunctions/state"
)

func TestStraightLine(t *testing.T) {
	ss := New(1.0, 0.1)
	s1 := state.State{X: 0, Y: 0, Theta: 0}
	s2 := state.State{X: 4, Y: 0, Theta: 0}

	controls := ss.GetControls(s1, s2)
	test.That(t, len(controls), test.ShouldEqual, 3)
	test.That(t, math.Abs(controls[0].Delta-0), test.ShouldBeLessThan, eps)
	test.That(t, math.Abs(controls[1].Delta-4), test.ShouldBeLessThan, eps)
	test.That(t, math.Abs(controls[2].Delta-0), test.ShouldBeLessThan, eps)

	dist := ss.GetDistance(s1, s2)
	test.That(t, math.Abs(dist-4), test.ShouldBeLessThan, eps)
}

func TestUTurn(t *testing.T) {
	ss := New(1.0, 0.1)
	s1 := state.State{X: 0, Y: 0, Theta: 0}
	s2 := state.State{X: 0, Y: 0, Theta: math.Pi}

	dist := ss.GetDistance(s1, s2)
	test.That(t, math.Abs(dist-3*math.Pi), test.ShouldBeLessThan, 1e-3)
}

func TestDegenerate(t *testing.T) {
	ss := New(1.0, 0.1)
	s := state.State{X: 1, Y: 2, Theta: 0.3}

	dist := ss.GetDistance(s, s)
	test.That(t, dist, test.ShouldEqual, 0.0)
}

func TestLengthMatchesControls(t *testing.T) {
	ss := New(1.0, 0.1)
	s1 := state.State{X: 0, Y: 0, Theta: 0}
	s2 := state.State{X: 4, Y: 4, Theta: math.Pi}

	dist := ss.GetDistance(s1, s2)
	controls := ss.GetControls(s1, s2)
	sum := 0.0
	for _, c := range controls {
		sum += math.Abs(c.Delta)
	}
	test.That(t, math.Abs(dist-sum), test.ShouldBeLessThan, 1e-9)
}

func TestReversedMatchesMirroredForward(t *testing.T) {
	forward := New(1.0, 0.1)
	backward := New(1.0, 0.1)
	backward.Reversed = true

	s1 := state.State{X: 0, Y: 0, Theta: 0.2}
	s2 := state.State{X: 3, Y: 1, Theta: 1.1}

	fLen := forward.GetDistance(s2, s1)
	bLen := backward.GetDistance(s1, s2)
	test.That(t, math.Abs(fLen-bLen), test.ShouldBeLessThan, 1e-9)

	controls := backward.GetControls(s1, s2)
	sum := 0.0
	for _, c := range controls {
		sum += math.Abs(c.Delta)
	}
	test.That(t, math.Abs(sum-bLen), test.ShouldBeLessThan, 1e-9)
}

func TestAllWordsEnumerated(t *testing.T) {
	d, alpha, beta := 0.5, 1.2, -0.7
	words := []path{
		lsl(d, alpha, beta),
		rsr(d, alpha, beta),
		rsl(d, alpha, beta),
		lsr(d, alpha, beta),
		rlr(d, alpha, beta),
		lrl(d, alpha, beta),
	}
	found := false
	best := solve(d, alpha, beta)
	for _, w := range words {
		if w.exists && math.Abs(w.length()-best.length()) < 1e-9 {
			found = true
		}
	}
	test.That(t, found, test.ShouldBeTrue)
}
