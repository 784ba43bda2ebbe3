package hccc

import (
	"math"

	"github.com/steeringfunctions/steeringfunctions/control"
	"github.com/steeringfunctions/steeringfunctions/geom"
)

// straightControls returns the single control realising a straight segment
// from a to b, signed positive if b lies ahead of a's heading and negative
// otherwise. Grounded on the reference implementation's straight_controls
// (paths.cpp), which emits one zero-curvature control per straight leg.
func straightControls(a, b geom.Configuration) []control.Control {
	d := geom.PointDistance(a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y)
	dx, dy := b.Pos.X-a.Pos.X, b.Pos.Y-a.Pos.Y
	sinT, cosT := math.Sincos(a.Theta)
	if dx*cosT+dy*sinT < 0 {
		d = -d
	}
	return []control.Control{{Delta: d}}
}
