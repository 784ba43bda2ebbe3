// Package hccircle implements the HC_CC_Circle turning-disc abstraction: a
// circle of radius R representing an entry clothoid, a residual circular
// arc, and (for CC families) a mirrored exit clothoid, all at a fixed
// curvature kappa and sharpness sigma.
package hccircle

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/steeringfunctions/steeringfunctions/control"
	"github.com/steeringfunctions/steeringfunctions/geom"
)

// Circle is one turning disc: its centre, the configuration at which its
// entry clothoid begins, and the derived quantities (radius, mu, delta_min)
// every *_turn_length formula needs. Sigma == math.MaxFloat64 marks an RS
// circle (plain circular arc, no clothoid, mu == 0).
type Circle struct {
	Start        geom.Configuration
	Kappa        float64
	Sigma        float64
	KappaInv     float64
	Left         bool
	Forward      bool
	XC, YC       float64
	Radius       float64
	Mu           float64
	SinMu, CosMu float64
	DeltaMin     float64
	LengthMin    float64
	Regular      bool
}

// rsSigma is the sentinel sigma value the original implementation uses to
// mark a plain circular-arc (Reeds-Shepp) turning circle: no clothoid,
// mu = 0.
const rsSigma = math.MaxFloat64

// NewRS builds a plain circular-arc turning circle of curvature kappa
// (radius 1/|kappa|) starting at start, with orientation (left, forward).
func NewRS(start geom.Configuration, kappa float64, left, forward bool) Circle {
	return build(start, kappa, rsSigma, left, forward)
}

// NewHC builds a clothoid+arc turning circle of curvature kappa and
// sharpness sigma (sigma > 0) starting at start.
func NewHC(start geom.Configuration, kappa, sigma float64, left, forward bool) Circle {
	return build(start, kappa, sigma, left, forward)
}

func build(start geom.Configuration, kappa, sigma float64, left, forward bool) Circle {
	absKappa := math.Abs(kappa)
	c := Circle{
		Start:    start,
		Kappa:    kappa,
		Sigma:    sigma,
		KappaInv: 1 / kappa,
		Left:     left,
		Forward:  forward,
		Regular:  true,
	}

	var xi, yi, thetai float64
	if sigma < rsSigma {
		lengthMin := absKappa / sigma
		c.LengthMin = lengthMin
		if lengthMin > geom.Eps {
			xi, yi, thetai, _ = clothoidEnd(0, 0, 0, 0, sigma, 1, lengthMin)
		}
		c.Mu = math.Atan(math.Abs(safeDiv(xi, yi)))
		c.DeltaMin = 0.5 * kappa * kappa / sigma
	} else {
		// RS circle: no clothoid, mu = 0, delta_min = 0.
		xi, yi, thetai = 0, 0, 0
	}

	xc := start.Pos.X + rotate(xi, yi, start.Theta, true) - math.Sin(start.Theta+thetai)/kappa
	yc := start.Pos.Y + rotate(xi, yi, start.Theta, false) + math.Cos(start.Theta+thetai)/kappa
	c.XC, c.YC = xc, yc
	c.Radius = geom.PointDistance(xc, yc, start.Pos.X, start.Pos.Y)
	c.SinMu, c.CosMu = math.Sincos(c.Mu)
	return c
}

// rotate applies the rotation-by-theta half of GlobalFrameChange, returning
// either the x or y component, used to place the local-frame clothoid
// endpoint (xi, yi) into the circle's start frame.
func rotate(dx, dy, theta float64, wantX bool) float64 {
	sinT, cosT := math.Sincos(theta)
	if wantX {
		return dx*cosT - dy*sinT
	}
	return dx*sinT + dy*cosT
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		if a == 0 {
			return 0
		}
		return math.Inf(int(math.Copysign(1, a)))
	}
	return a / b
}

// clothoidEnd is geom.EndOfClothoid without the four extra pass-throughs
// this package doesn't need (curvature at the far end).
func clothoidEnd(x, y, theta, kappa, sigma, d, s float64) (xEnd, yEnd, thetaEnd, kappaEnd float64) {
	xEnd, yEnd, thetaEnd = geom.EndOfClothoid(x, y, theta, kappa, sigma, d, s)
	kappaEnd = kappa + d*sigma*s
	return
}

// Centre returns the circle's centre as a vector, for callers that work in
// terms of r3.Vector (tangent-circle construction in hccc).
func (c Circle) Centre() r3.Vector {
	return r3.Vector{X: c.XC, Y: c.YC}
}

// Deflection returns the angle swept, in the circle's direction of travel,
// from c.Start to configuration q around the circle's centre, reduced to
// [0, 2*pi).
func (c Circle) Deflection(q geom.Configuration) float64 {
	angleToStart := math.Atan2(c.Start.Pos.Y-c.YC, c.Start.Pos.X-c.XC)
	angleToQ := math.Atan2(q.Pos.Y-c.YC, q.Pos.X-c.XC)
	if c.Left {
		return geom.Twopify(angleToQ - angleToStart)
	}
	return geom.Twopify(angleToStart - angleToQ)
}

// circularDeflection reduces a total deflection delta by a fixed clothoid
// angular contribution (0 for RS, Mu for HC, 2*Mu for CC) before mapping
// the residual into a valid arc-sweep angle in [0, 2*pi).
func (c Circle) circularDeflection(delta, clothoidAngle float64) float64 {
	return geom.Twopify(delta - clothoidAngle)
}

// RSTurnLength returns the arc length of a pure circular-arc turn (no
// clothoid) from c.Start to q.
func (c Circle) RSTurnLength(q geom.Configuration) float64 {
	return c.rsLength(c.Deflection(q))
}

// HCTurnLength returns the arc length of a clothoid-then-arc turn (one
// entry clothoid of length c.LengthMin, then a residual circular arc) from
// c.Start to q.
func (c Circle) HCTurnLength(q geom.Configuration) float64 {
	return c.hcLength(c.Deflection(q))
}

// CCTurnLength returns the arc length of a clothoid-arc-clothoid turn (an
// entry clothoid, a residual circular arc, and a mirrored exit clothoid)
// from c.Start to q.
func (c Circle) CCTurnLength(q geom.Configuration) float64 {
	return c.ccLength(c.Deflection(q))
}

// arrivalDeflection is the mirror of Deflection: the angle swept, in c's
// direction of travel, from configuration q up to c.Start. Used when c is
// the circle a composite word's path arrives at (c.Start is the
// destination pose it was built from) rather than departs from — Deflection
// would otherwise measure the wrong (major/minor complement) arc, since
// Twopify's [0, 2*pi) wrapping is not symmetric under swapping its two
// angle arguments.
func (c Circle) arrivalDeflection(q geom.Configuration) float64 {
	angleToStart := math.Atan2(c.Start.Pos.Y-c.YC, c.Start.Pos.X-c.XC)
	angleToQ := math.Atan2(q.Pos.Y-c.YC, q.Pos.X-c.XC)
	if c.Left {
		return geom.Twopify(angleToStart - angleToQ)
	}
	return geom.Twopify(angleToQ - angleToStart)
}

// RSArrivalLength is RSTurnLength for a circle used as an arrival (not
// departure) turn: the correct forward arc length from q to c.Start.
func (c Circle) RSArrivalLength(q geom.Configuration) float64 {
	return c.rsLength(c.arrivalDeflection(q))
}

// HCArrivalLength is HCTurnLength for a circle used as an arrival turn.
func (c Circle) HCArrivalLength(q geom.Configuration) float64 {
	return c.hcLength(c.arrivalDeflection(q))
}

// CCArrivalLength is CCTurnLength for a circle used as an arrival turn.
func (c Circle) CCArrivalLength(q geom.Configuration) float64 {
	return c.ccLength(c.arrivalDeflection(q))
}

func (c Circle) rsLength(delta float64) float64 {
	return math.Abs(c.KappaInv) * c.circularDeflection(delta, 0)
}

func (c Circle) hcLength(delta float64) float64 {
	return c.LengthMin + math.Abs(c.KappaInv)*c.circularDeflection(delta, c.Mu)
}

func (c Circle) ccLength(delta float64) float64 {
	return 2*c.LengthMin + math.Abs(c.KappaInv)*c.circularDeflection(delta, 2*c.Mu)
}

// IsRS reports whether c is a plain circular-arc turning circle (no
// clothoid).
func (c Circle) IsRS() bool {
	return c.Sigma == rsSigma
}

// dir returns +1 for a forward-traversed circle, -1 for a backward one.
func (c Circle) dir() float64 {
	if c.Forward {
		return 1
	}
	return -1
}

// signedSigma returns the sharpness a clothoid control needs, carrying the
// direction of travel, to raise curvature from 0 to c.Kappa (or, negated,
// to lower it back to 0) over c.LengthMin.
func (c Circle) signedSigma() float64 {
	if c.LengthMin <= geom.Eps {
		return 0
	}
	return c.dir() * c.Kappa / c.LengthMin
}

// RSControls returns the single control realising a pure circular-arc turn
// from c.Start to q. Grounded on the reference implementation's
// rs_turn_controls (paths.cpp).
func (c Circle) RSControls(q geom.Configuration) []control.Control {
	l := c.RSTurnLength(q)
	return []control.Control{{Delta: c.dir() * l, Kappa: c.Kappa}}
}

// HCControls returns the controls (entry clothoid, then residual circular
// arc if any) realising a clothoid-then-arc turn from c.Start to q.
// Grounded on the reference implementation's hc_turn_controls (paths.cpp).
func (c Circle) HCControls(q geom.Configuration) []control.Control {
	l := c.HCTurnLength(q)
	lm := math.Min(c.LengthMin, l)
	entry := control.Control{Delta: c.dir() * lm, Kappa: 0, Sigma: c.signedSigma()}
	if l-lm <= geom.Eps {
		return []control.Control{entry}
	}
	arc := control.Control{Delta: c.dir() * (l - lm), Kappa: c.Kappa}
	return []control.Control{entry, arc}
}

// CCControls returns the controls (entry clothoid, residual arc if any,
// mirrored exit clothoid) realising a clothoid-arc-clothoid turn from
// c.Start to q. Grounded on the reference implementation's
// cc_turn_controls (paths.cpp).
func (c Circle) CCControls(q geom.Configuration) []control.Control {
	l := c.CCTurnLength(q)
	lm := math.Min(c.LengthMin, l/2)
	sigma := c.signedSigma()
	entry := control.Control{Delta: c.dir() * lm, Kappa: 0, Sigma: sigma}
	arcLen := l - 2*lm
	out := []control.Control{entry}
	if arcLen > geom.Eps {
		out = append(out, control.Control{Delta: c.dir() * arcLen, Kappa: c.Kappa})
	}
	exit := control.Control{Delta: c.dir() * lm, Kappa: c.Kappa, Sigma: -sigma}
	out = append(out, exit)
	return out
}

// RSArrivalControls is RSControls for a circle used as an arrival turn: the
// circular arc ending exactly at c.Start, departing from q.
func (c Circle) RSArrivalControls(q geom.Configuration) []control.Control {
	l := c.RSArrivalLength(q)
	return []control.Control{{Delta: c.dir() * l, Kappa: c.Kappa}}
}

// HCArrivalControls is HCControls for a circle used as an arrival turn.
// Segment order is flipped relative to HCControls (residual arc first, then
// the exit clothoid) so curvature lands at 0 exactly at c.Start.
func (c Circle) HCArrivalControls(q geom.Configuration) []control.Control {
	l := c.HCArrivalLength(q)
	lm := math.Min(c.LengthMin, l)
	if l-lm <= geom.Eps {
		return []control.Control{{Delta: c.dir() * lm, Kappa: c.Kappa, Sigma: -c.signedSigma()}}
	}
	arc := control.Control{Delta: c.dir() * (l - lm), Kappa: c.Kappa}
	exit := control.Control{Delta: c.dir() * lm, Kappa: c.Kappa, Sigma: -c.signedSigma()}
	return []control.Control{arc, exit}
}

// CCArrivalControls is CCControls for a circle used as an arrival turn. The
// entry-arc-exit clothoid structure is symmetric under reversal (curvature
// is 0 at both ends either way), so only the total length differs from
// CCControls.
func (c Circle) CCArrivalControls(q geom.Configuration) []control.Control {
	l := c.CCArrivalLength(q)
	lm := math.Min(c.LengthMin, l/2)
	sigma := c.signedSigma()
	entry := control.Control{Delta: c.dir() * lm, Kappa: 0, Sigma: sigma}
	arcLen := l - 2*lm
	out := []control.Control{entry}
	if arcLen > geom.Eps {
		out = append(out, control.Control{Delta: c.dir() * arcLen, Kappa: c.Kappa})
	}
	exit := control.Control{Delta: c.dir() * lm, Kappa: c.Kappa, Sigma: -sigma}
	out = append(out, exit)
	return out
}

// ElementaryControls returns the controls realising a symmetric elementary
// pair of clothoids (curvature rising then falling back to 0, both halves
// travelled in the circle's direction) that a family without a straight or
// circular-arc segment falls back on when q lies too close to c.Start for
// any turn family above to reach it. Grounded on the reference
// implementation's cc_elementary_controls (paths.cpp) via
// Circle.ElementarySharpness.
func (c Circle) ElementaryControls(q geom.Configuration, delta, sigmaMax float64) ([]control.Control, bool) {
	sigma0, ok := c.ElementarySharpness(q, delta, sigmaMax)
	if !ok {
		return nil, false
	}
	peak := math.Sqrt(sigma0 * delta)
	half := peak / sigma0
	sign := 1.0
	if !c.Left {
		sign = -1.0
	}
	d := c.dir()
	first := control.Control{Delta: d * half, Kappa: 0, Sigma: d * sign * sigma0}
	second := control.Control{Delta: d * half, Kappa: sign * peak, Sigma: -d * sign * sigma0}
	return []control.Control{first, second}, true
}

// ElementarySharpness tries to solve for a sharpness sigma0 in (0,
// sigmaMax] such that a symmetric pair of clothoids (curvature rising from
// 0 to a peak then symmetrically falling back to 0, both halves travelled
// in the circle's direction) starting at c.Start reaches q with total deflection delta.
// Returns ok=false if no root exists in range.
func (c Circle) ElementarySharpness(q geom.Configuration, delta, sigmaMax float64) (sigma0 float64, ok bool) {
	if delta <= geom.Eps || sigmaMax <= 0 {
		return 0, false
	}
	// peakKappa(sigma0) = sqrt(sigma0 * delta) is the curvature reached at
	// the midpoint of the elementary pair when each half sweeps delta/2 of
	// heading change; bisect on sigma0 for the value whose resulting
	// endpoint position matches q to within geom.Eps.
	errAt := func(sigma0 float64) float64 {
		peak := math.Sqrt(sigma0 * delta)
		half := peak / sigma0
		sign := 1.0
		if !c.Left {
			sign = -1.0
		}
		d := 1.0
		if !c.Forward {
			d = -1.0
		}
		x1, y1, theta1, _ := clothoidEnd(c.Start.Pos.X, c.Start.Pos.Y, c.Start.Theta, 0, sign*sigma0, d, half)
		x2, y2, _, _ := clothoidEnd(x1, y1, theta1, sign*peak, -sign*sigma0, d, half)
		return geom.PointDistance(x2, y2, q.Pos.X, q.Pos.Y)
	}

	lo, hi := 1e-9, sigmaMax
	fLo, fHi := errAt(lo), errAt(hi)
	if math.IsNaN(fLo) || math.IsNaN(fHi) {
		return 0, false
	}
	if (fLo <= geom.Eps) != (fHi <= geom.Eps) || fLo*fHi > 0 {
		// No sign change detected via a coarse scan; fall back to a linear
		// scan to bracket a root, since err(sigma0) is not monotone in
		// general.
		const steps = 64
		bracketed := false
		prevSigma, prevErr := lo, fLo
		for i := 1; i <= steps; i++ {
			s := lo + (hi-lo)*float64(i)/steps
			e := errAt(s)
			if e <= geom.Eps {
				return s, true
			}
			if (prevErr > 0) != (e > 0) {
				lo, hi = prevSigma, s
				bracketed = true
				break
			}
			prevSigma, prevErr = s, e
		}
		if !bracketed {
			return 0, false
		}
	}

	for i := 0; i < 100; i++ {
		mid := 0.5 * (lo + hi)
		e := errAt(mid)
		if math.Abs(e) < geom.Eps {
			return mid, true
		}
		eLo := errAt(lo)
		if (eLo > 0) == (e > 0) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi), true
}
