// Package dubins implements the six-word Dubins solver: the shortest
// bounded-curvature forward-only path between two oriented poses.
package dubins

import (
	"math"

	"github.com/steeringfunctions/steeringfunctions/control"
	"github.com/steeringfunctions/steeringfunctions/geom"
	"github.com/steeringfunctions/steeringfunctions/state"
)

// zeroEps is the tolerance a word's existence discriminant is allowed to
// fall short of zero by and still count as existing; negative, matching the
// asymmetric DUBINS_ZERO of the reference implementation (a discriminant
// that is a small negative residual due to floating point round-off is
// still accepted).
const zeroEps = -1e-9

// eps is the tolerance used for the special-case zero-distance check and
// the closed-form verification assertions.
const eps = 1e-6

// segment identifies one of the three primitive kinds a Dubins word segment
// can be.
type segment int

const (
	left segment = iota
	straight
	right
)

// wordKind names one of the six Dubins words, in the enumeration order
// ties are broken by (first-found wins).
type wordKind int

const (
	LSL wordKind = iota
	RSR
	RSL
	LSR
	RLR
	LRL
)

func (k wordKind) String() string {
	switch k {
	case LSL:
		return "LSL"
	case RSR:
		return "RSR"
	case RSL:
		return "RSL"
	case LSR:
		return "LSR"
	case RLR:
		return "RLR"
	case LRL:
		return "LRL"
	default:
		return "?"
	}
}

var wordSegments = [6][3]segment{
	{left, straight, left},
	{right, straight, right},
	{right, straight, left},
	{left, straight, right},
	{right, left, right},
	{left, right, left},
}

// path is a Dubins candidate: its kind and its three curvature-normalised
// segment lengths (t, p, q). Length is +Inf for a non-existent candidate.
type path struct {
	kind    wordKind
	t, p, q float64
	exists  bool
}

func (w path) length() float64 {
	if !w.exists {
		return math.Inf(1)
	}
	return w.t + w.p + w.q
}

func lsl(d, alpha, beta float64) path {
	ca, sa := math.Cos(alpha), math.Sin(alpha)
	cb, sb := math.Cos(beta), math.Sin(beta)
	tmp := 2 + d*d - 2*(ca*cb+sa*sb-d*(sa-sb))
	if tmp < zeroEps {
		return path{}
	}
	theta := math.Atan2(cb-ca, d+sa-sb)
	t := geom.Twopify(-alpha + theta)
	p := math.Sqrt(math.Max(tmp, 0))
	q := geom.Twopify(beta - theta)
	return path{kind: LSL, t: t, p: p, q: q, exists: true}
}

func rsr(d, alpha, beta float64) path {
	ca, sa := math.Cos(alpha), math.Sin(alpha)
	cb, sb := math.Cos(beta), math.Sin(beta)
	tmp := 2 + d*d - 2*(ca*cb+sa*sb-d*(sb-sa))
	if tmp < zeroEps {
		return path{}
	}
	theta := math.Atan2(ca-cb, d-sa+sb)
	t := geom.Twopify(alpha - theta)
	p := math.Sqrt(math.Max(tmp, 0))
	q := geom.Twopify(-beta + theta)
	return path{kind: RSR, t: t, p: p, q: q, exists: true}
}

func rsl(d, alpha, beta float64) path {
	ca, sa := math.Cos(alpha), math.Sin(alpha)
	cb, sb := math.Cos(beta), math.Sin(beta)
	tmp := d*d - 2 + 2*(ca*cb+sa*sb-d*(sa+sb))
	if tmp < zeroEps {
		return path{}
	}
	p := math.Sqrt(math.Max(tmp, 0))
	theta := math.Atan2(ca+cb, d-sa-sb) - math.Atan2(2, p)
	t := geom.Twopify(alpha - theta)
	q := geom.Twopify(beta - theta)
	return path{kind: RSL, t: t, p: p, q: q, exists: true}
}

func lsr(d, alpha, beta float64) path {
	ca, sa := math.Cos(alpha), math.Sin(alpha)
	cb, sb := math.Cos(beta), math.Sin(beta)
	tmp := -2 + d*d + 2*(ca*cb+sa*sb+d*(sa+sb))
	if tmp < zeroEps {
		return path{}
	}
	p := math.Sqrt(math.Max(tmp, 0))
	theta := math.Atan2(-ca-cb, d+sa+sb) - math.Atan2(-2, p)
	t := geom.Twopify(-alpha + theta)
	q := geom.Twopify(-beta + theta)
	return path{kind: LSR, t: t, p: p, q: q, exists: true}
}

func rlr(d, alpha, beta float64) path {
	ca, sa := math.Cos(alpha), math.Sin(alpha)
	cb, sb := math.Cos(beta), math.Sin(beta)
	tmp := 0.125 * (6 - d*d + 2*(ca*cb+sa*sb+d*(sa-sb)))
	if math.Abs(tmp) >= 1 {
		return path{}
	}
	p := 2*math.Pi - math.Acos(tmp)
	theta := math.Atan2(ca-cb, d-sa+sb)
	t := geom.Twopify(alpha - theta + 0.5*p)
	q := geom.Twopify(alpha - beta - t + p)
	return path{kind: RLR, t: t, p: p, q: q, exists: true}
}

func lrl(d, alpha, beta float64) path {
	ca, sa := math.Cos(alpha), math.Sin(alpha)
	cb, sb := math.Cos(beta), math.Sin(beta)
	tmp := 0.125 * (6 - d*d + 2*(ca*cb+sa*sb-d*(sa-sb)))
	if math.Abs(tmp) >= 1 {
		return path{}
	}
	p := 2*math.Pi - math.Acos(tmp)
	theta := math.Atan2(-ca+cb, d+sa-sb)
	t := geom.Twopify(-alpha + theta + 0.5*p)
	q := geom.Twopify(beta - alpha - t + p)
	return path{kind: LRL, t: t, p: p, q: q, exists: true}
}

// solve enumerates all six words in canonical order and returns the
// shortest existing one, breaking ties by enumeration order (LSL, RSR,
// RSL, LSR, RLR, LRL).
func solve(d, alpha, beta float64) path {
	if d < eps && math.Abs(alpha-beta) < eps {
		return path{kind: LSL, t: 0, p: d, q: 0, exists: true}
	}
	best := lsl(d, alpha, beta)
	for _, cand := range []path{rsr(d, alpha, beta), rsl(d, alpha, beta), lsr(d, alpha, beta), rlr(d, alpha, beta), lrl(d, alpha, beta)} {
		if cand.length() < best.length() {
			best = cand
		}
	}
	return best
}

// localFrame normalises state1/state2 into the (d, alpha, beta) frame the
// six word formulas operate in: start translated to the origin, start
// heading rotated onto +x, distances scaled by kappaMax.
func localFrame(s1, s2 state.State, kappaMax float64) (d, alpha, beta float64) {
	dx, dy := s2.X-s1.X, s2.Y-s1.Y
	th := math.Atan2(dy, dx)
	d = math.Hypot(dx, dy) * kappaMax
	alpha = geom.Twopify(s1.Theta - th)
	beta = geom.Twopify(s2.Theta - th)
	return d, alpha, beta
}

// StateSpace solves Dubins paths at a fixed maximum curvature and
// discretization. A StateSpace built with Reversed set solves by swapping
// start/goal, then reversing and negating the resulting controls, matching
// the "backwards" variant of the reference implementation.
type StateSpace struct {
	KappaMax       float64
	Discretization float64
	Reversed       bool
}

// New returns a Dubins StateSpace at the given maximum curvature and
// sampling discretization.
func New(kappaMax, discretization float64) *StateSpace {
	return &StateSpace{KappaMax: kappaMax, Discretization: discretization}
}

func (ss *StateSpace) solveOriented(s1, s2 state.State) path {
	d, alpha, beta := localFrame(s1, s2, ss.KappaMax)
	return solve(d, alpha, beta)
}

// GetDistance returns the shortest Dubins path length between s1 and s2.
func (ss *StateSpace) GetDistance(s1, s2 state.State) float64 {
	kappaInv := 1 / ss.KappaMax
	if ss.Reversed {
		return kappaInv * ss.solveOriented(s2, s1).length()
	}
	return kappaInv * ss.solveOriented(s1, s2).length()
}

// GetControls returns the ordered list of controls realising the shortest
// Dubins path from s1 to s2.
func (ss *StateSpace) GetControls(s1, s2 state.State) []control.Control {
	kappaInv := 1 / ss.KappaMax
	var w path
	if ss.Reversed {
		w = ss.solveOriented(s2, s1)
	} else {
		w = ss.solveOriented(s1, s2)
	}

	lengths := [3]float64{w.t, w.p, w.q}
	segs := wordSegments[w.kind]
	controls := make([]control.Control, 3)
	for i := 0; i < 3; i++ {
		c := control.Control{Delta: kappaInv * lengths[i]}
		switch segs[i] {
		case left:
			c.Kappa = ss.KappaMax
		case straight:
			c.Kappa = 0
		case right:
			c.Kappa = -ss.KappaMax
		}
		controls[i] = c
	}

	if ss.Reversed {
		controls = control.Reverse(controls)
	}
	return controls
}
