// Package geom implements the pure geometric and kinematic primitives shared
// by every word-family solver: angle normalisation, polar conversion,
// configuration distance, frame changes, and the three kinematic
// integrators (straight line, circular arc, clothoid).
//
// Every function here is pure: no logging, no allocation beyond its return
// value, no package-level state.
package geom

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats/scalar"
)

// Eps is the fixed tolerance used for geometric equality throughout the
// package (point/configuration coincidence, curvature-discontinuity
// detection, predicate boundary checks).
const Eps = 1e-6

// Configuration is a 2D pose (x, y, heading) shared by every solver's local
// frame. It carries no curvature; state.State layers that on top.
type Configuration struct {
	Pos   r3.Vector
	Theta float64
}

// Twopify reduces theta to [0, 2*pi).
func Twopify(theta float64) float64 {
	v := math.Mod(theta, 2*math.Pi)
	if v < 0 {
		v += 2 * math.Pi
	}
	return v
}

// Pify reduces theta to (-pi, pi].
func Pify(theta float64) float64 {
	v := Twopify(theta+math.Pi) - math.Pi
	if v <= -math.Pi {
		v += 2 * math.Pi
	}
	return v
}

// Polar converts cartesian (x, y) to polar (r, phi) with r >= 0.
func Polar(x, y float64) (r, phi float64) {
	return math.Hypot(x, y), math.Atan2(y, x)
}

// PointDistance returns the Euclidean distance between two points.
func PointDistance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// ConfigurationEqual reports whether two configurations coincide to within
// Eps in position and heading.
func ConfigurationEqual(a, b Configuration) bool {
	if !scalar.EqualWithinAbs(PointDistance(a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y), 0, Eps) {
		return false
	}
	return scalar.EqualWithinAbs(Pify(a.Theta-b.Theta), 0, Eps)
}

// ConfigurationOnCircle reports whether configuration q lies on the circle
// of the given centre and radius, to within Eps.
func ConfigurationOnCircle(q Configuration, xc, yc, radius float64) bool {
	return scalar.EqualWithinAbs(PointDistance(q.Pos.X, q.Pos.Y, xc, yc), radius, Eps)
}

// GlobalFrameChange rotates (dx, dy) by theta and translates by (xc, yc):
// it maps a point given in a local frame whose origin is (xc, yc) and whose
// x-axis is rotated by theta in the global frame, into that global frame.
func GlobalFrameChange(xc, yc, theta, dx, dy float64) (x, y float64) {
	sinT, cosT := math.Sincos(theta)
	x = xc + dx*cosT - dy*sinT
	y = yc + dx*sinT + dy*cosT
	return x, y
}

// EndOfStraightLine advances (x, y, theta) by arc length s in direction d
// along a straight line.
func EndOfStraightLine(x, y, theta float64, d, s float64) (xEnd, yEnd, thetaEnd float64) {
	sinT, cosT := math.Sincos(theta)
	return x + d*s*cosT, y + d*s*sinT, theta
}

// EndOfCircularArc advances (x, y, theta) by arc length s in direction d
// along a circular arc of constant curvature kappa.
func EndOfCircularArc(x, y, theta, kappa float64, d, s float64) (xEnd, yEnd, thetaEnd float64) {
	if math.Abs(kappa) < Eps {
		return EndOfStraightLine(x, y, theta, d, s)
	}
	thetaEnd = theta + d*kappa*s
	radius := 1 / kappa
	xc := x - radius*math.Sin(theta)
	yc := y + radius*math.Cos(theta)
	xEnd = xc + radius*math.Sin(thetaEnd)
	yEnd = yc - radius*math.Cos(thetaEnd)
	return xEnd, yEnd, thetaEnd
}

// EndOfClothoid advances (x, y, theta) by arc length s in direction d along
// a clothoid whose curvature varies linearly, kappa(u) = kappa + d*sigma*u
// for u in [0, s]. Heading advances by d*(kappa*s + 0.5*sigma*s^2); the
// curvature at the far end is kappa + d*sigma*s.
//
// Falls back to EndOfCircularArc when sigma is effectively zero. Otherwise
// the position is obtained from the Fresnel integrals C, S evaluated at the
// clothoid parameter corresponding to u=0 and u=s, matching the closed form
// the reference implementation asserts to within Eps.
func EndOfClothoid(x, y, theta, kappa, sigma float64, d, s float64) (xEnd, yEnd, thetaEnd float64) {
	if math.Abs(sigma) < Eps {
		return EndOfCircularArc(x, y, theta, kappa, d, s)
	}
	dsigma := d * sigma
	sqrtPiAbsDsigma := math.Sqrt(math.Pi * math.Abs(dsigma))

	// t(u) = (kappa + dsigma*u) / sqrt(pi*|dsigma|). In the Fresnel frame the
	// tangent at parameter t0 is already turned by kappa^2/(2*dsigma), so the
	// Fresnel-frame displacement is rotated by theta minus that offset to
	// make the clothoid leave (x, y) along heading theta.
	t0 := kappa / sqrtPiAbsDsigma
	t1 := (kappa + dsigma*s) / sqrtPiAbsDsigma
	c0, s0 := fresnel(t0)
	c1, s1 := fresnel(t1)

	scale := sqrtPiAbsDsigma / dsigma
	sign := 1.0
	if dsigma < 0 {
		sign = -1.0
	}
	dx0 := scale * (c1 - c0)
	dy0 := scale * sign * (s1 - s0)

	sinT, cosT := math.Sincos(theta - kappa*kappa/(2*dsigma))
	xEnd = x + dx0*cosT - dy0*sinT
	yEnd = y + dx0*sinT + dy0*cosT
	thetaEnd = theta + d*(kappa*s+0.5*sigma*s*s)
	return xEnd, yEnd, thetaEnd
}

// fresnel evaluates the Fresnel integrals C(t) = int_0^t cos(pi/2 u^2) du
// and S(t) = int_0^t sin(pi/2 u^2) du. Uses a direct power series for
// |t| < 4 (accurate to about 1e-7 there, within the 150 terms allotted)
// and the leading terms of the asymptotic expansion beyond that, whose
// error is about 1e-4 at |t| = 4 and falls off roughly as |t|^-5.
func fresnel(t float64) (c, s float64) {
	if t == 0 {
		return 0, 0
	}
	neg := t < 0
	if neg {
		t = -t
	}
	if t < 4.0 {
		// The clothoid parameter t arising from realistic (kappa, sigma)
		// pairs in this library is normalised to O(kappa_max) and rarely
		// exceeds a handful of units, well inside the power series' safe
		// convergence range.
		c, s = fresnelSeries(t)
	} else {
		pi := math.Pi
		x := pi * t * t / 2
		f := 1 / (pi * t)
		g := 1 / (pi * pi * t * t * t)
		sinX, cosX := math.Sincos(x)
		c = 0.5 + f*sinX - g*cosX
		s = 0.5 - f*cosX - g*sinX
	}
	if neg {
		c, s = -c, -s
	}
	return c, s
}

// fresnelSeries evaluates C(t), S(t) via the power series
//
//	C(t) = sum_{n>=0} (-1)^n (pi/2)^(2n)   t^(4n+1) / ((2n)!   (4n+1))
//	S(t) = sum_{n>=0} (-1)^n (pi/2)^(2n+1) t^(4n+3) / ((2n+1)! (4n+3))
//
// for t >= 0, terminating once successive terms fall below 1e-16.
func fresnelSeries(t float64) (c, s float64) {
	halfPi := math.Pi / 2
	x4 := t * t * t * t

	b := t                  // n=0 term of C's numerator series
	d := halfPi * t * t * t // n=0 term of S's numerator series
	c = b                   // divided by (4*0+1) = 1
	s = d / 3.0             // divided by (4*0+3) = 3
	for n := 1; n < 150; n++ {
		b *= -halfPi * halfPi * x4 / (float64(2*n-1) * float64(2*n))
		d *= -halfPi * halfPi * x4 / (float64(2*n) * float64(2*n+1))
		cAdd := b / float64(4*n+1)
		sAdd := d / float64(4*n+3)
		c += cAdd
		s += sAdd
		if math.Abs(cAdd) < 1e-16 && math.Abs(sAdd) < 1e-16 {
			break
		}
	}
	return c, s
}
