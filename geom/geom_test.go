package geom

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestTwopify(t *testing.T) {
	test.That(t, math.Abs(Twopify(-0.1)-(2*math.Pi-0.1)), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(Twopify(3*math.Pi)-math.Pi), test.ShouldBeLessThan, 1e-9)
}

func TestPify(t *testing.T) {
	test.That(t, math.Abs(Pify(3*math.Pi)-math.Pi), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(Pify(-3*math.Pi)-math.Pi), test.ShouldBeLessThan, 1e-9)
}

func TestPolar(t *testing.T) {
	r, phi := Polar(3, 4)
	test.That(t, math.Abs(r-5), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(phi-math.Atan2(4, 3)), test.ShouldBeLessThan, 1e-9)
}

func TestConfigurationEqual(t *testing.T) {
	a := Configuration{Pos: r3.Vector{X: 1, Y: 2}, Theta: 0.3}
	b := Configuration{Pos: r3.Vector{X: 1 + Eps/2, Y: 2}, Theta: 0.3}
	test.That(t, ConfigurationEqual(a, b), test.ShouldBeTrue)
	c := Configuration{Pos: r3.Vector{X: 5, Y: 2}, Theta: 0.3}
	test.That(t, ConfigurationEqual(a, c), test.ShouldBeFalse)
}

func TestConfigurationOnCircle(t *testing.T) {
	q := Configuration{Pos: r3.Vector{X: 1, Y: 0}, Theta: math.Pi / 2}
	test.That(t, ConfigurationOnCircle(q, 0, 0, 1), test.ShouldBeTrue)
	test.That(t, ConfigurationOnCircle(q, 0, 0, 2), test.ShouldBeFalse)
}

func TestEndOfStraightLine(t *testing.T) {
	x, y, theta := EndOfStraightLine(0, 0, 0, 1, 5)
	test.That(t, math.Abs(x-5), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(y), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(theta), test.ShouldBeLessThan, 1e-9)
}

func TestEndOfCircularArcQuarterTurn(t *testing.T) {
	x, y, theta := EndOfCircularArc(0, 0, 0, 1, 1, math.Pi/2)
	test.That(t, math.Abs(x-1), test.ShouldBeLessThan, 1e-6)
	test.That(t, math.Abs(y-1), test.ShouldBeLessThan, 1e-6)
	test.That(t, math.Abs(theta-math.Pi/2), test.ShouldBeLessThan, 1e-9)
}

func TestEndOfCircularArcFallsBackToStraight(t *testing.T) {
	x, y, theta := EndOfCircularArc(0, 0, 0.2, 0, 1, 3)
	xs, ys, thetas := EndOfStraightLine(0, 0, 0.2, 1, 3)
	test.That(t, math.Abs(x-xs), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(y-ys), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(theta-thetas), test.ShouldBeLessThan, 1e-9)
}

func TestEndOfClothoidFallsBackToArc(t *testing.T) {
	x, y, theta := EndOfClothoid(0, 0, 0, 0.5, 0, 1, 2)
	xa, ya, thetaa := EndOfCircularArc(0, 0, 0, 0.5, 1, 2)
	test.That(t, math.Abs(x-xa), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(y-ya), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(theta-thetaa), test.ShouldBeLessThan, 1e-9)
}

func TestEndOfClothoidHeadingMatchesAnalyticIntegral(t *testing.T) {
	kappa, sigma, s := 0.1, 0.3, 4.0
	_, _, theta := EndOfClothoid(0, 0, 0, kappa, sigma, 1, s)
	want := kappa*s + 0.5*sigma*s*s
	test.That(t, math.Abs(theta-want), test.ShouldBeLessThan, 1e-9)
}

func TestFresnelSeriesMatchesKnownValues(t *testing.T) {
	// C(1) ~= 0.7799, S(1) ~= 0.4383 (standard Fresnel integral tables).
	c, s := fresnel(1.0)
	test.That(t, math.Abs(c-0.7799), test.ShouldBeLessThan, 1e-3)
	test.That(t, math.Abs(s-0.4383), test.ShouldBeLessThan, 1e-3)
}

func TestFresnelOddSymmetry(t *testing.T) {
	c1, s1 := fresnel(0.7)
	c2, s2 := fresnel(-0.7)
	test.That(t, math.Abs(c1+c2), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(s1+s2), test.ShouldBeLessThan, 1e-9)
}

func TestFresnelAsymptoticApproachesHalf(t *testing.T) {
	c, s := fresnel(20.0)
	test.That(t, math.Abs(c-0.5), test.ShouldBeLessThan, 1e-3)
	test.That(t, math.Abs(s-(0.5-1/(20*math.Pi))), test.ShouldBeLessThan, 1e-3)
}
