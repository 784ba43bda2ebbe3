// Package reedsshepp implements the Reeds-Shepp solver: the shortest
// bounded-curvature path between two oriented poses allowing direction
// reversals (cusps). It enumerates the 18 canonical words through their
// time-flip, reflection and backwards variants, 44 candidates in total.
package reedsshepp

import (
	"math"

	"github.com/steeringfunctions/steeringfunctions/control"
	"github.com/steeringfunctions/steeringfunctions/geom"
	"github.com/steeringfunctions/steeringfunctions/state"
)

// eps is the closed-form verification tolerance (RS_EPS in the reference
// implementation).
const eps = 1e-6

// zeroEps is the "RS zero" tolerance: 10 times machine epsilon, used
// (unlike Dubins' asymmetric negative bias) as a plain symmetric near-zero
// threshold on predicate boundary comparisons.
var zeroEps = 10 * (math.Nextafter(1, 2) - 1)

// segment identifies a Reeds-Shepp primitive kind; nop terminates the word
// early (words shorter than 5 segments pad the rest with nop).
type segment int

const (
	nop segment = iota
	sLeft
	sRight
	sStraight
)

// wordTable is the 18x5 segment-kind table transcribed verbatim from the
// reference implementation's reeds_shepp_path_type, since get_controls'
// correctness depends on this exact table rather than a re-derived one.
var wordTable = [18][5]segment{
	{sLeft, sRight, sLeft, nop, nop},          // 0
	{sRight, sLeft, sRight, nop, nop},         // 1
	{sLeft, sRight, sLeft, sRight, nop},       // 2
	{sRight, sLeft, sRight, sLeft, nop},       // 3
	{sLeft, sRight, sStraight, sLeft, nop},    // 4
	{sRight, sLeft, sStraight, sRight, nop},   // 5
	{sLeft, sStraight, sRight, sLeft, nop},    // 6
	{sRight, sStraight, sLeft, sRight, nop},   // 7
	{sLeft, sRight, sStraight, sRight, nop},   // 8
	{sRight, sLeft, sStraight, sLeft, nop},    // 9
	{sRight, sStraight, sRight, sLeft, nop},   // 10
	{sLeft, sStraight, sLeft, sRight, nop},    // 11
	{sLeft, sStraight, sRight, nop, nop},      // 12
	{sRight, sStraight, sLeft, nop, nop},      // 13
	{sLeft, sStraight, sLeft, nop, nop},       // 14
	{sRight, sStraight, sRight, nop, nop},     // 15
	{sLeft, sRight, sStraight, sLeft, sRight}, // 16
	{sRight, sLeft, sStraight, sRight, sLeft}, // 17
}

// path is a Reeds-Shepp candidate: which of the 18 canonical words it
// realises, and up to five signed segment lengths. A zero-value path is
// the non-existent sentinel (length +Inf).
type path struct {
	typeIdx int
	lengths [5]float64
	exists  bool
}

func (p path) length() float64 {
	if !p.exists {
		return math.Inf(1)
	}
	total := 0.0
	for _, l := range p.lengths {
		total += math.Abs(l)
	}
	return total
}

func newPath(typeIdx int, lengths ...float64) path {
	p := path{typeIdx: typeIdx, exists: true}
	copy(p.lengths[:], lengths)
	return p
}

func polar(x, y float64) (r, phi float64) {
	return geom.Polar(x, y)
}

func pify(theta float64) float64 {
	return geom.Pify(theta)
}

func tauOmega(u, v, xi, eta, phi float64) (tau, omega float64) {
	delta := pify(u - v)
	a := math.Sin(u) - math.Sin(delta)
	b := math.Cos(u) - math.Cos(delta) - 1
	t1 := math.Atan2(eta*a-xi*b, xi*a+eta*b)
	t2 := 2*(math.Cos(delta)-math.Cos(v)-math.Cos(u)) + 3
	if t2 < 0 {
		tau = pify(t1 + math.Pi)
	} else {
		tau = pify(t1)
	}
	omega = pify(tau - u + v - phi)
	return tau, omega
}

// formula 8.1
func lpSpLp(x, y, phi float64) (t, u, v float64, ok bool) {
	u, t = polar(x-math.Sin(phi), y-1+math.Cos(phi))
	if t < -zeroEps {
		return 0, 0, 0, false
	}
	v = pify(phi - t)
	if v < -zeroEps {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// formula 8.2
func lpSpRp(x, y, phi float64) (t, u, v float64, ok bool) {
	u1, t1 := polar(x+math.Sin(phi), y-1-math.Cos(phi))
	u1 = u1 * u1
	if u1 < 4 {
		return 0, 0, 0, false
	}
	u = math.Sqrt(u1 - 4)
	theta := math.Atan2(2, u)
	t = pify(t1 + theta)
	v = pify(t - phi)
	return t, u, v, t >= -zeroEps && v >= -zeroEps
}

func csc(x, y, phi float64, incumbent path) path {
	best := incumbent
	consider := func(typeIdx int, t, u, v float64) {
		l := math.Abs(t) + math.Abs(u) + math.Abs(v)
		if l < best.length() {
			best = newPath(typeIdx, t, u, v)
		}
	}
	if t, u, v, ok := lpSpLp(x, y, phi); ok {
		consider(14, t, u, v)
	}
	if t, u, v, ok := lpSpLp(-x, y, -phi); ok { // timeflip
		consider(14, -t, -u, -v)
	}
	if t, u, v, ok := lpSpLp(x, -y, -phi); ok { // reflect
		consider(15, t, u, v)
	}
	if t, u, v, ok := lpSpLp(-x, -y, phi); ok { // timeflip + reflect
		consider(15, -t, -u, -v)
	}
	if t, u, v, ok := lpSpRp(x, y, phi); ok {
		consider(12, t, u, v)
	}
	if t, u, v, ok := lpSpRp(-x, y, -phi); ok { // timeflip
		consider(12, -t, -u, -v)
	}
	if t, u, v, ok := lpSpRp(x, -y, -phi); ok { // reflect
		consider(13, t, u, v)
	}
	if t, u, v, ok := lpSpRp(-x, -y, phi); ok { // timeflip + reflect
		consider(13, -t, -u, -v)
	}
	return best
}

// formula 8.3/8.4
func lpRmL(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x - math.Sin(phi)
	eta := y - 1 + math.Cos(phi)
	u1, theta := polar(xi, eta)
	if u1 > 4 {
		return 0, 0, 0, false
	}
	u = -2 * math.Asin(0.25*u1)
	t = pify(theta + 0.5*u + math.Pi)
	v = pify(phi - t + u)
	return t, u, v, t >= -zeroEps && u <= zeroEps
}

func ccc(x, y, phi float64, incumbent path) path {
	best := incumbent
	consider := func(typeIdx int, t, u, v float64) {
		l := math.Abs(t) + math.Abs(u) + math.Abs(v)
		if l < best.length() {
			best = newPath(typeIdx, t, u, v)
		}
	}
	if t, u, v, ok := lpRmL(x, y, phi); ok {
		consider(0, t, u, v)
	}
	if t, u, v, ok := lpRmL(-x, y, -phi); ok {
		consider(0, -t, -u, -v)
	}
	if t, u, v, ok := lpRmL(x, -y, -phi); ok {
		consider(1, t, u, v)
	}
	if t, u, v, ok := lpRmL(-x, -y, phi); ok {
		consider(1, -t, -u, -v)
	}

	xb := x*math.Cos(phi) + y*math.Sin(phi)
	yb := x*math.Sin(phi) - y*math.Cos(phi)
	if t, u, v, ok := lpRmL(xb, yb, phi); ok {
		consider(0, v, u, t)
	}
	if t, u, v, ok := lpRmL(-xb, yb, -phi); ok {
		consider(0, -v, -u, -t)
	}
	if t, u, v, ok := lpRmL(xb, -yb, -phi); ok {
		consider(1, v, u, t)
	}
	if t, u, v, ok := lpRmL(-xb, -yb, phi); ok {
		consider(1, -v, -u, -t)
	}
	return best
}

// formula 8.7
func lpRupLumRm(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x + math.Sin(phi)
	eta := y - 1 - math.Cos(phi)
	rho := 0.25 * (2 + math.Sqrt(xi*xi+eta*eta))
	if rho > 1 {
		return 0, 0, 0, false
	}
	u = math.Acos(rho)
	t, v = tauOmega(u, -u, xi, eta, phi)
	return t, u, v, t >= -zeroEps && v <= zeroEps
}

// formula 8.8
func lpRumLumRp(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x + math.Sin(phi)
	eta := y - 1 - math.Cos(phi)
	rho := (20 - xi*xi - eta*eta) / 16
	if rho < 0 || rho > 1 {
		return 0, 0, 0, false
	}
	u = -math.Acos(rho)
	if u < -0.5*math.Pi {
		return 0, 0, 0, false
	}
	t, v = tauOmega(u, u, xi, eta, phi)
	return t, u, v, t >= -zeroEps && v >= -zeroEps
}

func cccc(x, y, phi float64, incumbent path) path {
	best := incumbent
	consider := func(typeIdx int, t, u, u2, v float64) {
		l := math.Abs(t) + 2*math.Abs(u) + math.Abs(v)
		if l < best.length() {
			best = newPath(typeIdx, t, u, u2, v)
		}
	}
	if t, u, v, ok := lpRupLumRm(x, y, phi); ok {
		consider(2, t, u, -u, v)
	}
	if t, u, v, ok := lpRupLumRm(-x, y, -phi); ok {
		consider(2, -t, -u, u, -v)
	}
	if t, u, v, ok := lpRupLumRm(x, -y, -phi); ok {
		consider(3, t, u, -u, v)
	}
	if t, u, v, ok := lpRupLumRm(-x, -y, phi); ok {
		consider(3, -t, -u, u, -v)
	}
	if t, u, v, ok := lpRumLumRp(x, y, phi); ok {
		consider(2, t, u, u, v)
	}
	if t, u, v, ok := lpRumLumRp(-x, y, -phi); ok {
		consider(2, -t, -u, -u, -v)
	}
	if t, u, v, ok := lpRumLumRp(x, -y, -phi); ok {
		consider(3, t, u, u, v)
	}
	if t, u, v, ok := lpRumLumRp(-x, -y, phi); ok {
		consider(3, -t, -u, -u, -v)
	}
	return best
}

// formula 8.9
func lpRmSmLm(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x - math.Sin(phi)
	eta := y - 1 + math.Cos(phi)
	rho, theta := polar(xi, eta)
	if rho < 2 {
		return 0, 0, 0, false
	}
	r := math.Sqrt(rho*rho - 4)
	u = 2 - r
	t = pify(theta + math.Atan2(r, -2))
	v = pify(phi - 0.5*math.Pi - t)
	return t, u, v, t >= -zeroEps && u <= zeroEps && v <= zeroEps
}

// formula 8.10
func lpRmSmRm(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x + math.Sin(phi)
	eta := y - 1 - math.Cos(phi)
	rho, theta := polar(-eta, xi)
	if rho < 2 {
		return 0, 0, 0, false
	}
	t = theta
	u = 2 - rho
	v = pify(t + 0.5*math.Pi - phi)
	return t, u, v, t >= -zeroEps && u <= zeroEps && v <= zeroEps
}

// ccsc must subtract half-pi from the incumbent length before comparison,
// reflecting the fixed pi/2 segment every CCSC word carries; per SPEC_FULL
// this is preserved exactly as the reference implementation's Lmin
// adjustment.
func ccsc(x, y, phi float64, incumbent path) path {
	best := incumbent
	lmin := best.length() - 0.5*math.Pi
	consider := func(typeIdx int, t, u, v, w float64) {
		l := math.Abs(t) + math.Abs(u) + math.Abs(v) + math.Abs(w) - 0.5*math.Pi
		if l < lmin {
			best = newPath(typeIdx, t, u, v, w)
			lmin = l
		}
	}
	if t, u, v, ok := lpRmSmLm(x, y, phi); ok {
		consider(4, t, -0.5*math.Pi, u, v)
	}
	if t, u, v, ok := lpRmSmLm(-x, y, -phi); ok {
		consider(4, -t, 0.5*math.Pi, -u, -v)
	}
	if t, u, v, ok := lpRmSmLm(x, -y, -phi); ok {
		consider(5, t, -0.5*math.Pi, u, v)
	}
	if t, u, v, ok := lpRmSmLm(-x, -y, phi); ok {
		consider(5, -t, 0.5*math.Pi, -u, -v)
	}
	if t, u, v, ok := lpRmSmRm(x, y, phi); ok {
		consider(8, t, -0.5*math.Pi, u, v)
	}
	if t, u, v, ok := lpRmSmRm(-x, y, -phi); ok {
		consider(8, -t, 0.5*math.Pi, -u, -v)
	}
	if t, u, v, ok := lpRmSmRm(x, -y, -phi); ok {
		consider(9, t, -0.5*math.Pi, u, v)
	}
	if t, u, v, ok := lpRmSmRm(-x, -y, phi); ok {
		consider(9, -t, 0.5*math.Pi, -u, -v)
	}

	xb := x*math.Cos(phi) + y*math.Sin(phi)
	yb := x*math.Sin(phi) - y*math.Cos(phi)
	if t, u, v, ok := lpRmSmLm(xb, yb, phi); ok {
		consider(6, v, u, -0.5*math.Pi, t)
	}
	if t, u, v, ok := lpRmSmLm(-xb, yb, -phi); ok {
		consider(6, -v, -u, 0.5*math.Pi, -t)
	}
	if t, u, v, ok := lpRmSmLm(xb, -yb, -phi); ok {
		consider(7, v, u, -0.5*math.Pi, t)
	}
	if t, u, v, ok := lpRmSmLm(-xb, -yb, phi); ok {
		consider(7, -v, -u, 0.5*math.Pi, -t)
	}
	if t, u, v, ok := lpRmSmRm(xb, yb, phi); ok {
		consider(10, v, u, -0.5*math.Pi, t)
	}
	if t, u, v, ok := lpRmSmRm(-xb, yb, -phi); ok {
		consider(10, -v, -u, 0.5*math.Pi, -t)
	}
	if t, u, v, ok := lpRmSmRm(xb, -yb, -phi); ok {
		consider(11, v, u, -0.5*math.Pi, t)
	}
	if t, u, v, ok := lpRmSmRm(-xb, -yb, phi); ok {
		consider(11, -v, -u, 0.5*math.Pi, -t)
	}
	return best
}

// formula 8.11
func lpRmSLmRp(x, y, phi float64) (t, u, v float64, ok bool) {
	xi := x + math.Sin(phi)
	eta := y - 1 - math.Cos(phi)
	rho, _ := polar(xi, eta)
	if rho < 2 {
		return 0, 0, 0, false
	}
	u = 4 - math.Sqrt(rho*rho-4)
	if u > zeroEps {
		return 0, 0, 0, false
	}
	t = pify(math.Atan2((4-u)*xi-2*eta, -2*xi+(u-4)*eta))
	v = pify(t - phi)
	return t, u, v, t >= -zeroEps && v >= -zeroEps
}

// ccscc must subtract pi (a full extra straight-plus-pi/2-pair) from the
// incumbent length before comparison, since every CCSCC word carries two
// fixed pi/2 segments.
func ccscc(x, y, phi float64, incumbent path) path {
	best := incumbent
	lmin := best.length() - math.Pi
	consider := func(typeIdx int, t, u, v, w, z float64) {
		l := math.Abs(t) + math.Abs(u) + math.Abs(v) + math.Abs(w) + math.Abs(z) - math.Pi
		if l < lmin {
			best = newPath(typeIdx, t, u, v, w, z)
			lmin = l
		}
	}
	if t, u, v, ok := lpRmSLmRp(x, y, phi); ok {
		consider(16, t, -0.5*math.Pi, u, -0.5*math.Pi, v)
	}
	if t, u, v, ok := lpRmSLmRp(-x, y, -phi); ok {
		consider(16, -t, 0.5*math.Pi, -u, 0.5*math.Pi, -v)
	}
	if t, u, v, ok := lpRmSLmRp(x, -y, -phi); ok {
		consider(17, t, -0.5*math.Pi, u, -0.5*math.Pi, v)
	}
	if t, u, v, ok := lpRmSLmRp(-x, -y, phi); ok {
		consider(17, -t, 0.5*math.Pi, -u, 0.5*math.Pi, -v)
	}
	return best
}

func solve(x, y, phi float64) path {
	p := path{exists: false}
	p = csc(x, y, phi, p)
	p = ccc(x, y, phi, p)
	p = cccc(x, y, phi, p)
	p = ccsc(x, y, phi, p)
	p = ccscc(x, y, phi, p)
	return p
}

func localFrame(s1, s2 state.State, kappaMax float64) (x, y, phi float64) {
	dx, dy := s2.X-s1.X, s2.Y-s1.Y
	dth := s2.Theta - s1.Theta
	c, s := math.Cos(s1.Theta), math.Sin(s1.Theta)
	lx := c*dx + s*dy
	ly := -s*dx + c*dy
	return lx * kappaMax, ly * kappaMax, dth
}

// StateSpace solves Reeds-Shepp paths at a fixed maximum curvature and
// discretization.
type StateSpace struct {
	KappaMax       float64
	Discretization float64
}

// New returns a Reeds-Shepp StateSpace at the given maximum curvature and
// sampling discretization.
func New(kappaMax, discretization float64) *StateSpace {
	return &StateSpace{KappaMax: kappaMax, Discretization: discretization}
}

func (ss *StateSpace) solve(s1, s2 state.State) path {
	x, y, phi := localFrame(s1, s2, ss.KappaMax)
	return solve(x, y, phi)
}

// GetDistance returns the shortest Reeds-Shepp path length between s1 and
// s2.
func (ss *StateSpace) GetDistance(s1, s2 state.State) float64 {
	return (1 / ss.KappaMax) * ss.solve(s1, s2).length()
}

// GetControls returns the ordered list of controls realising the shortest
// Reeds-Shepp path from s1 to s2, stopping at the first nop segment (words
// shorter than 5 segments).
func (ss *StateSpace) GetControls(s1, s2 state.State) []control.Control {
	kappaInv := 1 / ss.KappaMax
	p := ss.solve(s1, s2)
	segs := wordTable[p.typeIdx]

	controls := make([]control.Control, 0, 5)
	for i := 0; i < 5; i++ {
		switch segs[i] {
		case nop:
			return controls
		case sLeft:
			controls = append(controls, control.Control{Delta: kappaInv * p.lengths[i], Kappa: ss.KappaMax})
		case sRight:
			controls = append(controls, control.Control{Delta: kappaInv * p.lengths[i], Kappa: -ss.KappaMax})
		case sStraight:
			controls = append(controls, control.Control{Delta: kappaInv * p.lengths[i], Kappa: 0})
		}
	}
	return controls
}
