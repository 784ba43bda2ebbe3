// Package hccc implements the Continuous-Curvature / Hybrid-Curvature
// composite-word families: HC_CC_Circle-based turning discs joined by
// clothoid-in/arc/clothoid-out (CC) or clothoid-in/arc (HC) turns, straight
// segments, and (for the RS-style catalog) cusps.
//
// Rather than one hand-derived solver per named family (the reference
// implementation's approach — a near-duplicated inheritance hierarchy per
// family, called out in SPEC_FULL.md's supplemented-features notes as a
// case for generalisation), this package factors every family into two
// generic engines (Dubins-style forward-only, RS-style cusp-permitting)
// parameterised by which circle orientations are legal at each endpoint and
// which composite words the family recognises.
package hccc

import (
	"github.com/steeringfunctions/steeringfunctions/geom"
	"github.com/steeringfunctions/steeringfunctions/hccircle"
)

// Tag names a composite word. The full 19-tag vocabulary below
// is represented so callers pattern-matching on Tag remain exhaustive. TagS
// and TagTTTT carry no solver in this package's engines (a lone straight
// segment and the plain four-turn word are never the shortest path for any
// pose pair a turning-circle-based endpoint can reach; DESIGN.md records
// this). Every other tag, including the full HCpmpm_RS cusp vocabulary, has
// a solver in engine.go/hcpmpm_words.go; an unsolved tag never wins
// selection, since its candidate length is reported as the 1e18
// infinity sentinel.
type Tag string

const (
	TagE       Tag = "E"
	TagS       Tag = "S"
	TagT       Tag = "T"
	TagTT      Tag = "TT"
	TagTcT     Tag = "TcT"
	TagTcTcT   Tag = "TcTcT"
	TagTcTT    Tag = "TcTT"
	TagTTcT    Tag = "TTcT"
	TagTST     Tag = "TST"
	TagTSTcT   Tag = "TSTcT"
	TagTcTST   Tag = "TcTST"
	TagTcTSTcT Tag = "TcTSTcT"
	TagTTcTT   Tag = "TTcTT"
	TagTcTTcT  Tag = "TcTTcT"
	TagTTT     Tag = "TTT"
	TagTTTT    Tag = "TTTT"
	TagTcST    Tag = "TcST"
	TagTScT    Tag = "TScT"
	TagTcScT   Tag = "TcScT"
)

// Word is a composite path: its tag, the up to four intermediate
// configurations and up to two extra circles it populated (a tagged sum
// type in spirit — only the fields a given Tag needs are ever set, per
// SPEC_FULL.md's "replace raw pointer ownership with tagged sum types"
// guidance), and its total length.
type Word struct {
	Tag     Tag
	Cstart  hccircle.Circle
	Cend    hccircle.Circle
	HasCi1  bool
	Ci1     hccircle.Circle
	HasCi2  bool
	Ci2     hccircle.Circle
	Configs []geom.Configuration
	Length  float64
	Exists  bool
}

func nonExistent() Word {
	return Word{Exists: false, Length: infinity}
}

const infinity = 1e18
