package hccc

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/steeringfunctions/steeringfunctions/control"
	"github.com/steeringfunctions/steeringfunctions/geom"
	"github.com/steeringfunctions/steeringfunctions/hccircle"
)

// CircleKind selects which *_turn_length / *_turn_controls family a word's
// turning circles are lowered through: a plain arc, a single clothoid plus
// residual arc, or a symmetric clothoid-arc-clothoid.
type CircleKind int

const (
	KindRS CircleKind = iota
	KindHC
	KindCC
)

func turnLength(kind CircleKind, c hccircle.Circle, q geom.Configuration) float64 {
	switch kind {
	case KindHC:
		return c.HCTurnLength(q)
	case KindCC:
		return c.CCTurnLength(q)
	default:
		return c.RSTurnLength(q)
	}
}

func turnControls(kind CircleKind, c hccircle.Circle, q geom.Configuration) []control.Control {
	switch kind {
	case KindHC:
		return c.HCControls(q)
	case KindCC:
		return c.CCControls(q)
	default:
		return c.RSControls(q)
	}
}

// endTurnLength is turnLength for a circle built at the destination pose
// (c.Start is the goal, not the point of departure): it measures the arc
// arriving at c.Start from q rather than departing from c.Start toward q.
func endTurnLength(kind CircleKind, c hccircle.Circle, q geom.Configuration) float64 {
	switch kind {
	case KindHC:
		return c.HCArrivalLength(q)
	case KindCC:
		return c.CCArrivalLength(q)
	default:
		return c.RSArrivalLength(q)
	}
}

// endTurnControls is turnControls for a circle used as an arrival turn.
func endTurnControls(kind CircleKind, c hccircle.Circle, q geom.Configuration) []control.Control {
	switch kind {
	case KindHC:
		return c.HCArrivalControls(q)
	case KindCC:
		return c.CCArrivalControls(q)
	default:
		return c.RSArrivalControls(q)
	}
}

func buildCircle(kind CircleKind, cfg geom.Configuration, kappa, sigma float64, left, forward bool) hccircle.Circle {
	if kind == KindRS {
		return hccircle.NewRS(cfg, kappa, left, forward)
	}
	return hccircle.NewHC(cfg, kappa, sigma, left, forward)
}

// orientation is one of the (left, forward) combinations a turning circle at
// an endpoint may take.
type orientation struct {
	left, forward bool
}

// orientationsFor expands a circleMask endpoint entry into the concrete
// orientation combinations it permits: "0" permits forward travel only (both
// handedness), "pm" permits both directions of travel.
func orientationsFor(bothDirections bool) []orientation {
	if bothDirections {
		return []orientation{{true, true}, {true, false}, {false, true}, {false, false}}
	}
	return []orientation{{true, true}, {false, true}}
}

func circlesAt(cfg geom.Configuration, kind CircleKind, kappa, sigma float64, orients []orientation) []hccircle.Circle {
	out := make([]hccircle.Circle, len(orients))
	for i, o := range orients {
		out[i] = buildCircle(kind, cfg, signedKappa(kappa, o.left), sigma, o.left, o.forward)
	}
	return out
}

func signedKappa(kappa float64, left bool) float64 {
	if left {
		return math.Abs(kappa)
	}
	return -math.Abs(kappa)
}

func rotate(x, y, theta float64) (float64, float64) {
	s, c := math.Sincos(theta)
	return x*c - y*s, x*s + y*c
}

const tangentTol = 1e-6

// wordT tries the single-turn word: does goal lie exactly on one of the
// start circles.
func wordT(kind CircleKind, starts []hccircle.Circle, goal geom.Configuration) Word {
	best := nonExistent()
	for _, c := range starts {
		if !geom.ConfigurationOnCircle(goal, c.XC, c.YC, c.Radius) {
			continue
		}
		l := turnLength(kind, c, goal)
		if l < best.Length {
			best = Word{Tag: TagT, Cstart: c, Cend: c, Exists: true, Length: l,
				Configs: []geom.Configuration{goal}}
		}
	}
	return best
}

// wordTT tries the two-turn, no-straight word: circles externally tangent
// (centre distance == 2R) with opposite handedness, giving a
// curvature-continuous S-shaped junction (no cusp, forward direction
// preserved through the tangent point).
func wordTT(kind CircleKind, starts, ends []hccircle.Circle) Word {
	best := nonExistent()
	for _, c1 := range starts {
		for _, c2 := range ends {
			if c1.Left == c2.Left || c1.Forward != c2.Forward {
				continue
			}
			contact, ok := tangentContact(c1, c2)
			if !ok {
				continue
			}
			total := turnLength(kind, c1, contact) + endTurnLength(kind, c2, contact)
			if total < best.Length {
				best = Word{Tag: TagTT, Cstart: c1, Cend: c2, Exists: true, Length: total,
					Configs: []geom.Configuration{contact}}
			}
		}
	}
	return best
}

// wordTcT mirrors wordTT for the cusp variant: same handedness, forward
// direction reversing through the (still externally tangent) contact point.
func wordTcT(kind CircleKind, starts, ends []hccircle.Circle) Word {
	best := nonExistent()
	for _, c1 := range starts {
		for _, c2 := range ends {
			if c1.Left != c2.Left || c1.Forward == c2.Forward {
				continue
			}
			contact, ok := tangentContact(c1, c2)
			if !ok {
				continue
			}
			total := turnLength(kind, c1, contact) + endTurnLength(kind, c2, contact)
			if total < best.Length {
				best = Word{Tag: TagTcT, Cstart: c1, Cend: c2, Exists: true, Length: total,
					Configs: []geom.Configuration{contact}}
			}
		}
	}
	return best
}

// tangentContact returns the point at which two equal-radius circles are
// externally tangent, or ok=false if their centre distance isn't 2R.
func tangentContact(c1, c2 hccircle.Circle) (geom.Configuration, bool) {
	d := geom.PointDistance(c1.XC, c1.YC, c2.XC, c2.YC)
	r := c1.Radius
	if d < geom.Eps || !scalar.EqualWithinAbs(d, 2*r, tangentTol) {
		return geom.Configuration{}, false
	}
	ux, uy := (c2.XC-c1.XC)/d, (c2.YC-c1.YC)/d
	p := r3.Vector{X: c1.XC + r*ux, Y: c1.YC + r*uy}
	return geom.Configuration{Pos: p, Theta: math.Atan2(uy, ux)}, true
}

// wordTST tries the turn-straight-turn word via a common tangent line
// between the two circles, external (same handedness) or internal (opposite
// handedness).
func wordTST(kind CircleKind, starts, ends []hccircle.Circle) Word {
	best := nonExistent()
	for _, c1 := range starts {
		for _, c2 := range ends {
			t1, t2, ok := commonTangent(c1, c2)
			if !ok {
				continue
			}
			straight := geom.PointDistance(t1.Pos.X, t1.Pos.Y, t2.Pos.X, t2.Pos.Y)
			total := turnLength(kind, c1, t1) + straight + endTurnLength(kind, c2, t2)
			if total < best.Length {
				best = Word{Tag: TagTST, Cstart: c1, Cend: c2, Exists: true, Length: total,
					Configs: []geom.Configuration{t1, t2}}
			}
		}
	}
	return best
}

// commonTangent returns the tangent points on c1 and c2 of the common
// tangent line consistent with each circle's direction of travel. Both
// external (same handedness) and internal (opposite handedness) candidate
// constructions are generated; the one whose implied velocity direction
// agrees with the straight-line heading at both ends is kept, sidestepping
// a hand-picked sign convention in favour of numeric verification.
func commonTangent(c1, c2 hccircle.Circle) (t1, t2 geom.Configuration, ok bool) {
	d := geom.PointDistance(c1.XC, c1.YC, c2.XC, c2.YC)
	if d < geom.Eps {
		return t1, t2, false
	}
	ux, uy := (c2.XC-c1.XC)/d, (c2.YC-c1.YC)/d
	r := c1.Radius

	type pt struct{ x, y float64 }
	var candidates [][2]pt
	if c1.Left == c2.Left {
		for _, quarter := range []float64{math.Pi / 2, -math.Pi / 2} {
			nx, ny := rotate(ux, uy, quarter)
			candidates = append(candidates, [2]pt{
				{c1.XC + r*nx, c1.YC + r*ny},
				{c2.XC + r*nx, c2.YC + r*ny},
			})
		}
	} else {
		if d < 2*r {
			return t1, t2, false
		}
		theta := math.Acos(math.Min(1, 2*r/d))
		for _, sign := range []float64{1, -1} {
			vx, vy := rotate(ux, uy, sign*theta)
			nx, ny := rotate(vx, vy, math.Pi/2)
			candidates = append(candidates, [2]pt{
				{c1.XC + r*nx, c1.YC + r*ny},
				{c2.XC - r*nx, c2.YC - r*ny},
			})
		}
	}

	for _, cand := range candidates {
		p1, p2 := cand[0], cand[1]
		lx, ly := p2.x-p1.x, p2.y-p1.y
		l := math.Hypot(lx, ly)
		if l < geom.Eps {
			continue
		}
		heading := math.Atan2(ly, lx)
		if !velocityMatches(c1, p1.x, p1.y, heading) || !velocityMatches(c2, p2.x, p2.y, heading) {
			continue
		}
		return geom.Configuration{Pos: r3.Vector{X: p1.x, Y: p1.y}, Theta: heading},
			geom.Configuration{Pos: r3.Vector{X: p2.x, Y: p2.y}, Theta: heading}, true
	}
	return t1, t2, false
}

func velocityMatches(c hccircle.Circle, px, py, heading float64) bool {
	radialTheta := math.Atan2(py-c.YC, px-c.XC)
	var velTheta float64
	if c.Left {
		velTheta = radialTheta + math.Pi/2
	} else {
		velTheta = radialTheta - math.Pi/2
	}
	return math.Abs(geom.Pify(velTheta-heading)) < 1e-4
}

// wordTTTVariant tries the three-turn word (continuous handedness
// alternation, cuspVariant false) or its cusp counterpart TcTcT
// (cuspVariant true, handedness held fixed with a direction reversal at each
// junction): a middle circle of the same radius, externally tangent to both
// the start and end circles.
func wordTTTVariant(kind CircleKind, starts, ends []hccircle.Circle, cuspVariant bool) Word {
	best := nonExistent()
	for _, c1 := range starts {
		for _, c2 := range ends {
			if c1.Left != c2.Left || c1.Forward != c2.Forward {
				continue
			}
			r := c1.Radius
			d := geom.PointDistance(c1.XC, c1.YC, c2.XC, c2.YC)
			if d > 4*r || d < geom.Eps {
				continue
			}
			for _, mc := range circleIntersections(c1.XC, c1.YC, 2*r, c2.XC, c2.YC, 2*r) {
				w := ttChainWord(kind, c1, c2, mc, r, cuspVariant)
				if w.Exists && w.Length < best.Length {
					best = w
				}
			}
		}
	}
	return best
}

// ttChainWord builds the tangent-point-based word for a start circle, a
// world-frame middle-circle centre, and an end circle, all radius r,
// pairwise externally tangent, choosing continuous (TTT) or cusp (TcTcT)
// transitions at both junctions.
func ttChainWord(kind CircleKind, c1, c2 hccircle.Circle, midCentre [2]float64, r float64, cuspVariant bool) Word {
	d1 := geom.PointDistance(c1.XC, c1.YC, midCentre[0], midCentre[1])
	d2 := geom.PointDistance(midCentre[0], midCentre[1], c2.XC, c2.YC)
	if !scalar.EqualWithinAbs(d1, 2*r, tangentTol) || !scalar.EqualWithinAbs(d2, 2*r, tangentTol) || d1 < geom.Eps || d2 < geom.Eps {
		return nonExistent()
	}

	u1x, u1y := (midCentre[0]-c1.XC)/d1, (midCentre[1]-c1.YC)/d1
	contact1 := geom.Configuration{
		Pos:   r3.Vector{X: c1.XC + r*u1x, Y: c1.YC + r*u1y},
		Theta: math.Atan2(u1y, u1x),
	}
	u2x, u2y := (c2.XC-midCentre[0])/d2, (c2.YC-midCentre[1])/d2
	contact2 := geom.Configuration{
		Pos:   r3.Vector{X: midCentre[0] + r*u2x, Y: midCentre[1] + r*u2y},
		Theta: math.Atan2(u2y, u2x),
	}

	midLeft := !c1.Left
	midForward := c1.Forward
	if cuspVariant {
		midLeft = c1.Left
		midForward = !c1.Forward
	}
	// contact1 is where the middle circle's own turn begins; build() derives
	// LengthMin/Mu/DeltaMin from kappa/sigma alone; XC/YC/Radius are
	// overwritten with the exact chain geometry, since build()'s own offset
	// (computed from contact1 as if it were an isolated turn's entry point)
	// does not know about the neighbouring tangent circles.
	mid := buildCircle(kind, contact1, signedKappa(c1.Kappa, midLeft), c1.Sigma, midLeft, midForward)
	mid.XC, mid.YC, mid.Radius = midCentre[0], midCentre[1], r

	tag := TagTTT
	if cuspVariant {
		tag = TagTcTcT
	}
	total := turnLength(kind, c1, contact1) + turnLength(kind, mid, contact2) + endTurnLength(kind, c2, contact2)
	return Word{
		Tag: tag, Cstart: c1, Cend: c2, HasCi1: true, Ci1: mid, Exists: true,
		Length:  total,
		Configs: []geom.Configuration{contact1, contact2},
	}
}

// circleIntersections returns the (up to two) intersection points of two
// circles, used to place a mutually-tangent middle turning circle.
func circleIntersections(x1, y1, r1, x2, y2, r2 float64) [][2]float64 {
	d := geom.PointDistance(x1, y1, x2, y2)
	if d > r1+r2+tangentTol || d < math.Abs(r1-r2)-tangentTol || d < geom.Eps {
		return nil
	}
	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	hSq := r1*r1 - a*a
	if hSq < 0 {
		hSq = 0
	}
	h := math.Sqrt(hSq)
	ux, uy := (x2-x1)/d, (y2-y1)/d
	mx, my := x1+a*ux, y1+a*uy
	px, py := -uy, ux
	return [][2]float64{
		{mx + h*px, my + h*py},
		{mx - h*px, my - h*py},
	}
}
