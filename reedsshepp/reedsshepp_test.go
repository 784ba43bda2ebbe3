package reedsshepp

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/steeringfunctions/steeringfunctions/state"
)

func TestUTurnLength(t *testing.T) {
	ss := New(1.0, 0.1)
	s1 := state.State{X: 0, Y: 0, Theta: 0}
	s2 := state.State{X: 0, Y: 0, Theta: math.Pi}

	dist := ss.GetDistance(s1, s2)
	test.That(t, math.Abs(dist-3*math.Pi), test.ShouldBeLessThan, 1e-3)
}

func TestCuspContainingPath(t *testing.T) {
	ss := New(1.0, 0.1)
	s1 := state.State{X: 0, Y: 0, Theta: 0}
	s2 := state.State{X: -1, Y: 0, Theta: 0}

	dist := ss.GetDistance(s1, s2)
	test.That(t, dist, test.ShouldBeGreaterThan, 1.0)
}

func TestTimeflipSymmetry(t *testing.T) {
	x, y, phi := 2.3, 1.1, 0.6
	p1 := solve(x, y, phi)
	p2 := solve(-x, y, -phi)
	test.That(t, math.Abs(p1.length()-p2.length()), test.ShouldBeLessThan, 1e-9)
}

func TestReflectSymmetry(t *testing.T) {
	x, y, phi := 2.3, 1.1, 0.6
	p1 := solve(x, y, phi)
	p2 := solve(x, -y, -phi)
	test.That(t, math.Abs(p1.length()-p2.length()), test.ShouldBeLessThan, 1e-9)
}

func TestLengthMatchesControls(t *testing.T) {
	ss := New(1.0, 0.1)
	s1 := state.State{X: 0, Y: 0, Theta: 0.4}
	s2 := state.State{X: -2, Y: 3, Theta: 2.1}

	dist := ss.GetDistance(s1, s2)
	controls := ss.GetControls(s1, s2)
	sum := 0.0
	for _, c := range controls {
		sum += math.Abs(c.Delta)
	}
	test.That(t, math.Abs(dist-sum), test.ShouldBeLessThan, 1e-9)
}
