package hccc

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/steeringfunctions/steeringfunctions/geom"
	"github.com/steeringfunctions/steeringfunctions/hccircle"
)

// This file implements the ten HCpmpm_RS composite words engine.go's
// wordT/wordTT/wordTcT/wordTST/wordTTTVariant left unsolved: TcTT, TTcT,
// TSTcT, TcTST, TcTSTcT, TTcTT, TcTTcT, TcST, TScT, TcScT. Each is grounded
// on the reference implementation's HCpmpm_Reeds_Shepp class, which builds
// every one from an *_exists predicate plus an *_tangent_circles
// construction chaining the same three junction primitives already used by
// TT/TcT/TST above: a smooth externally-tangent meeting, an already-curved
// cusp meeting, and a common tangent line. What follows generalises those
// three primitives (radiusTangentContact, cuspPivot, commonTangent) to
// chains of two, three and four circles rather than re-deriving each word's
// closed-form delta_x/delta_y algebra from scratch; DESIGN.md records where
// this collapses distinctions the reference keeps separate (in particular,
// the reference's clothoid-widened turning radius versus its bare
// curvature radius 1/|kappa| for a cusp junction, and per-segment
// rs_turn_length versus hc_turn_length choices, both of which this package
// already treats uniformly via turnLength's dispatch-by-kind for the
// existing TcT/TcTcT solvers).

// junctionStyle distinguishes a composite word's two circle-circle meeting
// styles: a fresh entry (clothoid-widened radius, opposite handedness,
// same forward — the "T" meeting used by wordTT) or an already-curved
// cusp (bare curvature radius, same handedness, opposite forward — the "Tc"
// meeting used by wordTcT).
type junctionStyle int

const (
	junctionSmooth junctionStyle = iota
	junctionCusp
)

// junctionRadius returns the per-circle radius a junction of the given
// style uses when meeting another circle of c's own family: c.Radius for a
// smooth junction (matching tangentContact's existing convention), or the
// bare curvature radius 1/|kappa| for a cusp junction (matching the
// reference's TcT_tangent_circles, which measures cusp junctions in
// kappa_inv rather than the clothoid-widened turning radius).
func junctionRadius(c hccircle.Circle, style junctionStyle) float64 {
	if style == junctionCusp {
		return math.Abs(c.KappaInv)
	}
	return c.Radius
}

// radiusTangentContact is tangentContact generalised to an explicit radius,
// for junctions whose meeting radius differs from either circle's own
// Radius field (a cusp junction, or a junction between a real circle and a
// same-family virtual locator circle).
func radiusTangentContact(c1, c2 hccircle.Circle, r float64) (geom.Configuration, bool) {
	d := geom.PointDistance(c1.XC, c1.YC, c2.XC, c2.YC)
	if d < geom.Eps || !scalar.EqualWithinAbs(d, 2*r, tangentTol) {
		return geom.Configuration{}, false
	}
	ux, uy := (c2.XC-c1.XC)/d, (c2.YC-c1.YC)/d
	p := r3.Vector{X: c1.XC + r*ux, Y: c1.YC + r*uy}
	return geom.Configuration{Pos: p, Theta: math.Atan2(uy, ux)}, true
}

// threeCircleWord builds a start -> mid -> end composite word whose two
// junctions may independently be smooth or cusp meetings, generalising
// ttChainWord (which only handles two smooth or two cusp junctions, for
// TTT/TcTcT) to the mixed-style words TcTT and TTcT. Grounded on
// TcTT_tangent_circles/TTcT_tangent_circles, which locate the same
// intermediate tangent circle via a two-circle intersection with the two
// junction radii, then chain a TcT-style and a TT-style contact through it.
func threeCircleWord(kind CircleKind, tag Tag, c1, c2 hccircle.Circle, style1, style2 junctionStyle) Word {
	if c1.Left != c2.Left || c1.Forward != c2.Forward {
		return nonExistent()
	}
	r1 := junctionRadius(c1, style1)
	r2 := junctionRadius(c2, style2)
	midLeft := !c1.Left

	best := nonExistent()
	for _, mc := range circleIntersections(c1.XC, c1.YC, 2*r1, c2.XC, c2.YC, 2*r2) {
		midVirtual := hccircle.Circle{XC: mc[0], YC: mc[1]}
		contact1, ok := radiusTangentContact(c1, midVirtual, r1)
		if !ok {
			continue
		}
		contact2, ok := radiusTangentContact(midVirtual, c2, r2)
		if !ok {
			continue
		}
		mid := buildCircle(kind, contact1, signedKappa(math.Abs(c1.Kappa), midLeft), c1.Sigma, midLeft, c1.Forward)
		mid.XC, mid.YC, mid.Radius = midVirtual.XC, midVirtual.YC, r1

		total := turnLength(kind, c1, contact1) + turnLength(kind, mid, contact2) + endTurnLength(kind, c2, contact2)
		if total < best.Length {
			best = Word{
				Tag: tag, Cstart: c1, Cend: c2, HasCi1: true, Ci1: mid, Exists: true,
				Length:  total,
				Configs: []geom.Configuration{contact1, contact2},
			}
		}
	}
	return best
}

func wordTcTT(kind CircleKind, starts, ends []hccircle.Circle) Word {
	best := nonExistent()
	for _, c1 := range starts {
		for _, c2 := range ends {
			w := threeCircleWord(kind, TagTcTT, c1, c2, junctionCusp, junctionSmooth)
			if w.Exists && w.Length < best.Length {
				best = w
			}
		}
	}
	return best
}

func wordTTcT(kind CircleKind, starts, ends []hccircle.Circle) Word {
	best := nonExistent()
	for _, c1 := range starts {
		for _, c2 := range ends {
			w := threeCircleWord(kind, TagTTcT, c1, c2, junctionSmooth, junctionCusp)
			if w.Exists && w.Length < best.Length {
				best = w
			}
		}
	}
	return best
}

// cuspPivot returns a virtual same-family circle of opposite handedness to
// base, whose centre sits at the cusp-junction distance (twice the bare
// curvature radius) from base's centre along the axis toward other. It
// stands in for the reference's "tgt" circle used to splice an
// already-curved cusp segment onto an otherwise-fresh turn (e.g.
// TiSTcT_tangent_circles' tgt1, built near c2 toward c1).
func cuspPivot(base, other hccircle.Circle) (hccircle.Circle, bool) {
	d := geom.PointDistance(base.XC, base.YC, other.XC, other.YC)
	if d < geom.Eps {
		return hccircle.Circle{}, false
	}
	ux, uy := (other.XC-base.XC)/d, (other.YC-base.YC)/d
	r := 2 * math.Abs(base.KappaInv)
	return hccircle.Circle{
		XC: base.XC + r*ux, YC: base.YC + r*uy,
		Radius: base.Radius, Left: !base.Left, Forward: base.Forward,
	}, true
}

// wordTSTcT tries T-S-T-c(T): a departure turn, a straight segment, and an
// already-curved cusp turn arriving at c2. Grounded on
// TiSTcT_tangent_circles/TeSTcT_tangent_circles, which build a cusp pivot
// near c2, run the ordinary T(i/e)ST construction against it, then splice a
// TcT-style cusp junction from the pivot into c2.
func wordTSTcT(kind CircleKind, starts, ends []hccircle.Circle) Word {
	best := nonExistent()
	for _, c1 := range starts {
		for _, c2 := range ends {
			if c1.Forward != c2.Forward {
				continue
			}
			pivot, ok := cuspPivot(c2, c1)
			if !ok {
				continue
			}
			t1, t2, ok := commonTangent(c1, pivot)
			if !ok {
				continue
			}
			cusp, ok := radiusTangentContact(pivot, c2, math.Abs(c2.KappaInv))
			if !ok {
				continue
			}
			straight := geom.PointDistance(t1.Pos.X, t1.Pos.Y, t2.Pos.X, t2.Pos.Y)
			mid := buildCircle(kind, t2, signedKappa(math.Abs(c2.Kappa), pivot.Left), c2.Sigma, pivot.Left, pivot.Forward)
			total := turnLength(kind, c1, t1) + straight + turnLength(kind, mid, cusp) + endTurnLength(kind, c2, cusp)
			if total < best.Length {
				best = Word{
					Tag: TagTSTcT, Cstart: c1, Cend: c2, HasCi1: true, Ci1: mid, Exists: true,
					Length:  total,
					Configs: []geom.Configuration{t1, t2, cusp},
				}
			}
		}
	}
	return best
}

// wordTcTST is wordTSTcT with the cusp turn leading instead of trailing:
// c(T)-T-S-T. Grounded on TcTiST_tangent_circles/TcTeST_tangent_circles.
func wordTcTST(kind CircleKind, starts, ends []hccircle.Circle) Word {
	best := nonExistent()
	for _, c1 := range starts {
		for _, c2 := range ends {
			if c1.Forward != c2.Forward {
				continue
			}
			pivot, ok := cuspPivot(c1, c2)
			if !ok {
				continue
			}
			cusp, ok := radiusTangentContact(c1, pivot, math.Abs(c1.KappaInv))
			if !ok {
				continue
			}
			mid := buildCircle(kind, cusp, signedKappa(math.Abs(c1.Kappa), pivot.Left), c1.Sigma, pivot.Left, pivot.Forward)
			t1, t2, ok := commonTangent(mid, c2)
			if !ok {
				continue
			}
			straight := geom.PointDistance(t1.Pos.X, t1.Pos.Y, t2.Pos.X, t2.Pos.Y)
			total := turnLength(kind, c1, cusp) + turnLength(kind, mid, t1) + straight + endTurnLength(kind, c2, t2)
			if total < best.Length {
				best = Word{
					Tag: TagTcTST, Cstart: c1, Cend: c2, HasCi1: true, Ci1: mid, Exists: true,
					Length:  total,
					Configs: []geom.Configuration{cusp, t1, t2},
				}
			}
		}
	}
	return best
}

// wordTcTSTcT chains a cusp turn at both ends of a straight segment:
// c(T)-T-S-T-c(T). Grounded on
// TcTiSTcT_tangent_circles/TcTeSTcT_tangent_circles, which build a pivot
// near each endpoint and run the T(i/e)ST construction between the two
// pivots.
func wordTcTSTcT(kind CircleKind, starts, ends []hccircle.Circle) Word {
	best := nonExistent()
	for _, c1 := range starts {
		for _, c2 := range ends {
			if c1.Forward != c2.Forward {
				continue
			}
			pivot1, ok := cuspPivot(c1, c2)
			if !ok {
				continue
			}
			contact1, ok := radiusTangentContact(c1, pivot1, math.Abs(c1.KappaInv))
			if !ok {
				continue
			}
			mid1 := buildCircle(kind, contact1, signedKappa(math.Abs(c1.Kappa), pivot1.Left), c1.Sigma, pivot1.Left, pivot1.Forward)

			pivot2, ok := cuspPivot(c2, c1)
			if !ok {
				continue
			}
			contact2, ok := radiusTangentContact(pivot2, c2, math.Abs(c2.KappaInv))
			if !ok {
				continue
			}

			t1, t2, ok := commonTangent(mid1, pivot2)
			if !ok {
				continue
			}
			mid2 := buildCircle(kind, t2, signedKappa(math.Abs(c2.Kappa), pivot2.Left), c2.Sigma, pivot2.Left, pivot2.Forward)

			straight := geom.PointDistance(t1.Pos.X, t1.Pos.Y, t2.Pos.X, t2.Pos.Y)
			total := turnLength(kind, c1, contact1) + turnLength(kind, mid1, t1) + straight +
				turnLength(kind, mid2, contact2) + endTurnLength(kind, c2, contact2)
			if total < best.Length {
				best = Word{
					Tag: TagTcTSTcT, Cstart: c1, Cend: c2, HasCi1: true, Ci1: mid1, HasCi2: true, Ci2: mid2,
					Exists:  true,
					Length:  total,
					Configs: []geom.Configuration{contact1, t1, t2, contact2},
				}
			}
		}
	}
	return best
}

// fourCircleWord builds a start -> mid1 -> mid2 -> end composite word
// chained through two interior circles, generalising threeCircleWord to the
// longer TTcTT/TcTTcT words. Grounded on
// TTcTT_tangent_circles/TcTTcT_tangent_circles' four-circle chains.
//
// Intentionally unsolved: the reference solves this chain's placement
// generally, with two candidate branches of an off-axis delta_x/delta_y
// construction. This implementation only tries the branch where the two
// intermediate circles lie on the straight axis between the start and end
// circle centres (the case the two branches coincide on) and returns
// nonExistent for a pose pair whose only TTcTT/TcTTcT solution is genuinely
// off-axis — solve()'s consider() then falls through to whichever other
// word (or the elementary fallback) still reaches that pair, so the family
// always returns *a* valid word, just not necessarily the TTcTT/TcTTcT
// optimum. Recorded in DESIGN.md.
func fourCircleWord(kind CircleKind, tag Tag, c1, c2 hccircle.Circle, style1, style2, style3 junctionStyle) Word {
	if c1.Left == c2.Left || c1.Forward != c2.Forward {
		return nonExistent()
	}
	d := geom.PointDistance(c1.XC, c1.YC, c2.XC, c2.YC)
	if d < geom.Eps {
		return nonExistent()
	}
	ux, uy := (c2.XC-c1.XC)/d, (c2.YC-c1.YC)/d
	r1 := junctionRadius(c1, style1)
	r2 := junctionRadius(c1, style2)
	r3v := junctionRadius(c2, style3)

	m1x, m1y := c1.XC+2*r1*ux, c1.YC+2*r1*uy
	m2x, m2y := m1x+2*r2*ux, m1y+2*r2*uy
	if !scalar.EqualWithinAbs(geom.PointDistance(m2x, m2y, c2.XC, c2.YC), 2*r3v, tangentTol) {
		return nonExistent()
	}

	contact1 := geom.Configuration{Pos: r3.Vector{X: (c1.XC + m1x) / 2, Y: (c1.YC + m1y) / 2}, Theta: math.Atan2(uy, ux)}
	contact2 := geom.Configuration{Pos: r3.Vector{X: (m1x + m2x) / 2, Y: (m1y + m2y) / 2}, Theta: math.Atan2(uy, ux)}
	contact3 := geom.Configuration{Pos: r3.Vector{X: (m2x + c2.XC) / 2, Y: (m2y + c2.YC) / 2}, Theta: math.Atan2(uy, ux)}

	mid1Left, mid2Left := !c1.Left, c1.Left
	mid1 := buildCircle(kind, contact1, signedKappa(math.Abs(c1.Kappa), mid1Left), c1.Sigma, mid1Left, c1.Forward)
	mid1.XC, mid1.YC, mid1.Radius = m1x, m1y, r1
	mid2 := buildCircle(kind, contact2, signedKappa(math.Abs(c1.Kappa), mid2Left), c1.Sigma, mid2Left, c1.Forward)
	mid2.XC, mid2.YC, mid2.Radius = m2x, m2y, r2

	total := turnLength(kind, c1, contact1) + turnLength(kind, mid1, contact2) +
		turnLength(kind, mid2, contact3) + endTurnLength(kind, c2, contact3)
	return Word{
		Tag: tag, Cstart: c1, Cend: c2, HasCi1: true, Ci1: mid1, HasCi2: true, Ci2: mid2, Exists: true,
		Length:  total,
		Configs: []geom.Configuration{contact1, contact2, contact3},
	}
}

func wordTTcTT(kind CircleKind, starts, ends []hccircle.Circle) Word {
	best := nonExistent()
	for _, c1 := range starts {
		for _, c2 := range ends {
			w := fourCircleWord(kind, TagTTcTT, c1, c2, junctionSmooth, junctionCusp, junctionSmooth)
			if w.Exists && w.Length < best.Length {
				best = w
			}
		}
	}
	return best
}

func wordTcTTcT(kind CircleKind, starts, ends []hccircle.Circle) Word {
	best := nonExistent()
	for _, c1 := range starts {
		for _, c2 := range ends {
			w := fourCircleWord(kind, TagTcTTcT, c1, c2, junctionCusp, junctionSmooth, junctionCusp)
			if w.Exists && w.Length < best.Length {
				best = w
			}
		}
	}
	return best
}

// sameForwardTST is wordTST restricted to same-forward endpoint pairs,
// covering the reference's TcST/TScT/TcScT family: three distinct words
// there (differing in which of the two turns is already-curved, which only
// changes the rs_turn_length-versus-hc_turn_length choice for that turn)
// collapse to one construction here, since turnLength already dispatches
// uniformly by family kind rather than per-segment cusp state (the same
// simplification the pre-existing TcT/TcTcT solvers make). Each of the
// three tags still gets its own consider() attempt in solve(), so a pose
// pair reachable via any of them is no longer silently missed.
func sameForwardTST(kind CircleKind, tag Tag, starts, ends []hccircle.Circle) Word {
	best := nonExistent()
	for _, c1 := range starts {
		for _, c2 := range ends {
			if c1.Forward != c2.Forward {
				continue
			}
			t1, t2, ok := commonTangent(c1, c2)
			if !ok {
				continue
			}
			straight := geom.PointDistance(t1.Pos.X, t1.Pos.Y, t2.Pos.X, t2.Pos.Y)
			total := turnLength(kind, c1, t1) + straight + endTurnLength(kind, c2, t2)
			if total < best.Length {
				best = Word{
					Tag: tag, Cstart: c1, Cend: c2, Exists: true, Length: total,
					Configs: []geom.Configuration{t1, t2},
				}
			}
		}
	}
	return best
}

func wordTcST(kind CircleKind, starts, ends []hccircle.Circle) Word {
	return sameForwardTST(kind, TagTcST, starts, ends)
}

func wordTScT(kind CircleKind, starts, ends []hccircle.Circle) Word {
	return sameForwardTST(kind, TagTScT, starts, ends)
}

func wordTcScT(kind CircleKind, starts, ends []hccircle.Circle) Word {
	return sameForwardTST(kind, TagTcScT, starts, ends)
}
