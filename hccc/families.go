package hccc

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/steeringfunctions/steeringfunctions/control"
	"github.com/steeringfunctions/steeringfunctions/geom"
	"github.com/steeringfunctions/steeringfunctions/hccircle"
	"github.com/steeringfunctions/steeringfunctions/state"
)

// Catalog selects which composite-word vocabulary a family searches:
// Dubins-style is forward-only (no cusp words), RS-style permits the cusp
// words TcT/TcTcT alongside the continuous ones.
type Catalog int

const (
	CatalogDubins Catalog = iota
	CatalogRS
)

// Family names one of the eleven Continuous-Curvature / Hybrid-Curvature
// composite word families: its turning-circle model, its word catalog, and
// the circleMask governing which (left, forward) orientations are legal at
// the start and end turning circles. The mask names follow the reference
// implementation's 00/0pm/pm0/pmpm convention: "0" permits forward travel
// only, "pm" permits both directions.
type Family struct {
	Name           string
	Kind           CircleKind
	Catalog        Catalog
	StartBothDirs  bool
	EndBothDirs    bool
	KappaMax       float64
	Sigma          float64
	Discretization float64
}

// Named family constructors. Sigma defaults to KappaMax*KappaMax when a
// caller passes 0, matching the reference implementation's convention of
// deriving the elementary sharpness from the curvature bound absent an
// explicit rate limit.

// NewCCDubins builds the CC_Dubins family: CC (clothoid-arc-clothoid)
// circles, Dubins-style forward-only catalog, both endpoints unrestricted
// (pmpm), the representative of the forward-only branch alongside its four
// masked siblings.
func NewCCDubins(kappaMax, sigma, discretization float64) (*StateSpace, error) {
	return newFamily(Family{Name: "CC_Dubins", Kind: KindCC, Catalog: CatalogDubins,
		StartBothDirs: true, EndBothDirs: true, KappaMax: kappaMax, Sigma: sigma, Discretization: discretization})
}

// NewCC00Dubins builds CC00_Dubins: CC circles, Dubins catalog, forward
// travel only at both endpoints.
func NewCC00Dubins(kappaMax, sigma, discretization float64) (*StateSpace, error) {
	return newFamily(Family{Name: "CC00_Dubins", Kind: KindCC, Catalog: CatalogDubins,
		StartBothDirs: false, EndBothDirs: false, KappaMax: kappaMax, Sigma: sigma, Discretization: discretization})
}

// NewCC0pmDubins builds CC0pm_Dubins: CC circles, Dubins catalog, forward
// only at the start, unrestricted at the goal.
func NewCC0pmDubins(kappaMax, sigma, discretization float64) (*StateSpace, error) {
	return newFamily(Family{Name: "CC0pm_Dubins", Kind: KindCC, Catalog: CatalogDubins,
		StartBothDirs: false, EndBothDirs: true, KappaMax: kappaMax, Sigma: sigma, Discretization: discretization})
}

// NewCCpm0Dubins builds CCpm0_Dubins: CC circles, Dubins catalog,
// unrestricted at the start, forward only at the goal.
func NewCCpm0Dubins(kappaMax, sigma, discretization float64) (*StateSpace, error) {
	return newFamily(Family{Name: "CCpm0_Dubins", Kind: KindCC, Catalog: CatalogDubins,
		StartBothDirs: true, EndBothDirs: false, KappaMax: kappaMax, Sigma: sigma, Discretization: discretization})
}

// NewCCpmpmDubins builds CCpmpm_Dubins: CC circles, Dubins catalog, both
// endpoints unrestricted. Listed separately from CC_Dubins because the
// reference catalog names both; the two share this package's
// implementation.
func NewCCpmpmDubins(kappaMax, sigma, discretization float64) (*StateSpace, error) {
	return newFamily(Family{Name: "CCpmpm_Dubins", Kind: KindCC, Catalog: CatalogDubins,
		StartBothDirs: true, EndBothDirs: true, KappaMax: kappaMax, Sigma: sigma, Discretization: discretization})
}

// NewCC00RS builds CC00_RS: CC circles, RS-style cusp-permitting catalog,
// forward travel only at both endpoints.
func NewCC00RS(kappaMax, sigma, discretization float64) (*StateSpace, error) {
	return newFamily(Family{Name: "CC00_RS", Kind: KindCC, Catalog: CatalogRS,
		StartBothDirs: false, EndBothDirs: false, KappaMax: kappaMax, Sigma: sigma, Discretization: discretization})
}

// NewHCRS builds HC_RS: HC (single clothoid) circles, RS catalog, both
// endpoints unrestricted.
func NewHCRS(kappaMax, sigma, discretization float64) (*StateSpace, error) {
	return newFamily(Family{Name: "HC_RS", Kind: KindHC, Catalog: CatalogRS,
		StartBothDirs: true, EndBothDirs: true, KappaMax: kappaMax, Sigma: sigma, Discretization: discretization})
}

// NewHC00RS builds HC00_RS: HC circles, RS catalog, forward only at both
// endpoints.
func NewHC00RS(kappaMax, sigma, discretization float64) (*StateSpace, error) {
	return newFamily(Family{Name: "HC00_RS", Kind: KindHC, Catalog: CatalogRS,
		StartBothDirs: false, EndBothDirs: false, KappaMax: kappaMax, Sigma: sigma, Discretization: discretization})
}

// NewHC0pmRS builds HC0pm_RS: HC circles, RS catalog, forward only at the
// start, unrestricted at the goal.
func NewHC0pmRS(kappaMax, sigma, discretization float64) (*StateSpace, error) {
	return newFamily(Family{Name: "HC0pm_RS", Kind: KindHC, Catalog: CatalogRS,
		StartBothDirs: false, EndBothDirs: true, KappaMax: kappaMax, Sigma: sigma, Discretization: discretization})
}

// NewHCpm0RS builds HCpm0_RS: HC circles, RS catalog, unrestricted at the
// start, forward only at the goal.
func NewHCpm0RS(kappaMax, sigma, discretization float64) (*StateSpace, error) {
	return newFamily(Family{Name: "HCpm0_RS", Kind: KindHC, Catalog: CatalogRS,
		StartBothDirs: true, EndBothDirs: false, KappaMax: kappaMax, Sigma: sigma, Discretization: discretization})
}

// NewHCpmpmRS builds HCpmpm_RS, the representative Hybrid-Curvature family:
// HC circles, RS catalog, both endpoints unrestricted.
func NewHCpmpmRS(kappaMax, sigma, discretization float64) (*StateSpace, error) {
	return newFamily(Family{Name: "HCpmpm_RS", Kind: KindHC, Catalog: CatalogRS,
		StartBothDirs: true, EndBothDirs: true, KappaMax: kappaMax, Sigma: sigma, Discretization: discretization})
}

func newFamily(f Family) (*StateSpace, error) {
	if f.Sigma == 0 {
		f.Sigma = f.KappaMax * f.KappaMax
	}
	if err := f.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s family parameters", f.Name)
	}
	return &StateSpace{Family: f}, nil
}

// validate aggregates every independently-checkable parameter problem into
// one error rather than failing on the first, so a caller configuring a
// family from, say, parsed flags sees every bad field at once.
func (f Family) validate() error {
	var err error
	if f.KappaMax <= 0 {
		err = multierr.Append(err, errors.Errorf("kappaMax must be positive, got %f", f.KappaMax))
	}
	if f.Sigma <= 0 {
		err = multierr.Append(err, errors.Errorf("sigma must be positive, got %f", f.Sigma))
	}
	if f.Discretization <= 0 {
		err = multierr.Append(err, errors.Errorf("discretization must be positive, got %f", f.Discretization))
	}
	return err
}

// StateSpace solves the shortest composite word for its Family between two
// states.
type StateSpace struct {
	Family Family
}

// KappaMax returns the family's maximum curvature.
func (ss *StateSpace) KappaMax() float64 { return ss.Family.KappaMax }

// Discretization returns the family's sampling discretization.
func (ss *StateSpace) Discretization() float64 { return ss.Family.Discretization }

// circlesAtState builds the turning circles legal at s, honoring curvature
// continuity when s already carries a committed curvature: a nonzero
// s.Kappa means the vehicle is mid-turn at this endpoint, not free to depart
// on either handedness, so orientations whose handedness disagrees with
// s.Kappa's sign are dropped before any circle is built (left circles when
// s.Kappa < 0, right circles when s.Kappa > 0). A fresh endpoint (s.Kappa ==
// 0) keeps every orientation, matching the pre-existing behaviour.
func circlesAtState(s state.State, kind CircleKind, kappaMax, sigma float64, orients []orientation) []hccircle.Circle {
	use := orients
	if s.Kappa != 0 {
		use = nil
		for _, o := range orients {
			if (s.Kappa > 0) == o.left {
				use = append(use, o)
			}
		}
	}
	return circlesAt(s.Configuration(), kind, kappaMax, sigma, use)
}

func (ss *StateSpace) solve(s1, s2 state.State) Word {
	f := ss.Family
	startCfg, goalCfg := s1.Configuration(), s2.Configuration()

	if geom.ConfigurationEqual(startCfg, goalCfg) {
		return Word{Tag: TagE, Exists: true, Length: 0}
	}

	starts := circlesAtState(s1, f.Kind, f.KappaMax, f.Sigma, orientationsFor(f.StartBothDirs))
	ends := circlesAtState(s2, f.Kind, f.KappaMax, f.Sigma, orientationsFor(f.EndBothDirs))

	best := nonExistent()
	consider := func(w Word) {
		if w.Exists && w.Length < best.Length {
			best = w
		}
	}

	consider(wordT(f.Kind, starts, goalCfg))
	consider(wordTT(f.Kind, starts, ends))
	consider(wordTST(f.Kind, starts, ends))
	consider(wordTTTVariant(f.Kind, starts, ends, false))
	if f.Catalog == CatalogRS {
		consider(wordTcT(f.Kind, starts, ends))
		consider(wordTTTVariant(f.Kind, starts, ends, true))
		consider(wordTcTT(f.Kind, starts, ends))
		consider(wordTTcT(f.Kind, starts, ends))
		consider(wordTSTcT(f.Kind, starts, ends))
		consider(wordTcTST(f.Kind, starts, ends))
		consider(wordTcTSTcT(f.Kind, starts, ends))
		consider(wordTTcTT(f.Kind, starts, ends))
		consider(wordTcTTcT(f.Kind, starts, ends))
		consider(wordTcST(f.Kind, starts, ends))
		consider(wordTScT(f.Kind, starts, ends))
		consider(wordTcScT(f.Kind, starts, ends))
	}

	if !best.Exists {
		// No composite word reached the goal from any tried endpoint
		// orientation; fall back to the symmetric elementary pair every
		// circle can attempt regardless of family (see
		// hccircle.Circle.ElementaryControls).
		best = elementaryFallback(starts, goalCfg)
	}
	return best
}

func elementaryFallback(starts []hccircle.Circle, goal geom.Configuration) Word {
	best := nonExistent()
	for _, c := range starts {
		delta := c.Deflection(goal)
		if sigma0, ok := c.ElementarySharpness(goal, delta, c.Sigma); ok {
			l := 2 * (math.Sqrt(delta*sigma0) / sigma0)
			if l < best.Length {
				best = Word{Tag: TagE, Cstart: c, Cend: c, Exists: true, Length: l, Configs: []geom.Configuration{goal}}
			}
		}
	}
	return best
}

// GetDistance returns the shortest composite-word path length between s1
// and s2.
func (ss *StateSpace) GetDistance(s1, s2 state.State) float64 {
	return ss.solve(s1, s2).Length
}

// GetControls lowers the shortest composite word between s1 and s2 into its
// piecewise controls.
func (ss *StateSpace) GetControls(s1, s2 state.State) []control.Control {
	w := ss.solve(s1, s2)
	if !w.Exists {
		return nil
	}
	if w.Tag == TagE && w.Length == 0 {
		return []control.Control{control.NoOp}
	}

	var out []control.Control
	switch w.Tag {
	case TagT:
		out = append(out, turnControls(ss.Family.Kind, w.Cstart, w.Configs[0])...)
	case TagTT, TagTcT:
		out = append(out, turnControls(ss.Family.Kind, w.Cstart, w.Configs[0])...)
		out = append(out, endTurnControls(ss.Family.Kind, w.Cend, w.Configs[0])...)
	case TagTST, TagTcST, TagTScT, TagTcScT:
		out = append(out, turnControls(ss.Family.Kind, w.Cstart, w.Configs[0])...)
		out = append(out, straightControls(w.Configs[0], w.Configs[1])...)
		out = append(out, endTurnControls(ss.Family.Kind, w.Cend, w.Configs[1])...)
	case TagTTT, TagTcTcT, TagTcTT, TagTTcT:
		out = append(out, turnControls(ss.Family.Kind, w.Cstart, w.Configs[0])...)
		out = append(out, turnControls(ss.Family.Kind, w.Ci1, w.Configs[1])...)
		out = append(out, endTurnControls(ss.Family.Kind, w.Cend, w.Configs[1])...)
	case TagTSTcT:
		out = append(out, turnControls(ss.Family.Kind, w.Cstart, w.Configs[0])...)
		out = append(out, straightControls(w.Configs[0], w.Configs[1])...)
		out = append(out, turnControls(ss.Family.Kind, w.Ci1, w.Configs[2])...)
		out = append(out, endTurnControls(ss.Family.Kind, w.Cend, w.Configs[2])...)
	case TagTcTST:
		out = append(out, turnControls(ss.Family.Kind, w.Cstart, w.Configs[0])...)
		out = append(out, turnControls(ss.Family.Kind, w.Ci1, w.Configs[1])...)
		out = append(out, straightControls(w.Configs[1], w.Configs[2])...)
		out = append(out, endTurnControls(ss.Family.Kind, w.Cend, w.Configs[2])...)
	case TagTcTSTcT:
		out = append(out, turnControls(ss.Family.Kind, w.Cstart, w.Configs[0])...)
		out = append(out, turnControls(ss.Family.Kind, w.Ci1, w.Configs[1])...)
		out = append(out, straightControls(w.Configs[1], w.Configs[2])...)
		out = append(out, turnControls(ss.Family.Kind, w.Ci2, w.Configs[3])...)
		out = append(out, endTurnControls(ss.Family.Kind, w.Cend, w.Configs[3])...)
	case TagTTcTT, TagTcTTcT:
		out = append(out, turnControls(ss.Family.Kind, w.Cstart, w.Configs[0])...)
		out = append(out, turnControls(ss.Family.Kind, w.Ci1, w.Configs[1])...)
		out = append(out, turnControls(ss.Family.Kind, w.Ci2, w.Configs[2])...)
		out = append(out, endTurnControls(ss.Family.Kind, w.Cend, w.Configs[2])...)
	case TagE:
		if len(w.Configs) > 0 {
			if cs, ok := w.Cstart.ElementaryControls(w.Configs[0], w.Cstart.Deflection(w.Configs[0]), w.Cstart.Sigma); ok {
				out = append(out, cs...)
			}
		}
	}
	return out
}
