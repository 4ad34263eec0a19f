package preprocessing

import (
	"math"

	"github.com/juruen/hwrt/handwriting"
)

const NameScaleAndShift = "ScaleAndShift"

// ScaleAndShift fits the recording into the unit square and moves time to
// start at zero.
//
// Both axes are scaled by 1/max(width, height), so the aspect ratio is kept
// and the longer side ends up with length 1. The minimum corner is moved to
// the origin. Each time becomes its offset to the earliest time of the
// recording. With Center set, x is shifted again so the box is horizontally
// centered on x=0; y is not touched.
//
// A recording whose points all coincide is mapped onto the origin.
type ScaleAndShift struct {
	Center bool `yaml:"center" toml:"center"`
}

func DefaultScaleAndShift() *ScaleAndShift { return &ScaleAndShift{} }

func (a *ScaleAndShift) Name() string { return NameScaleAndShift }

func (a *ScaleAndShift) Apply(h *handwriting.HandwrittenData) error {
	pl := h.Pointlist()
	if pl.Len() == 0 {
		return nil
	}
	box := h.BoundingBox()

	factor := 0.0
	if longest := math.Max(box.Width(), box.Height()); longest > 0 {
		factor = 1 / longest
	}
	addX := 0.0
	if a.Center {
		addX = -box.Width() * factor / 2
	}

	for _, stroke := range pl {
		for i, p := range stroke {
			stroke[i] = handwriting.Point{
				X:    (p.X-box.MinX)*factor + addX,
				Y:    (p.Y - box.MinY) * factor,
				Time: p.Time - box.MinTime,
			}
		}
	}
	h.SetPointlist(pl)
	return nil
}
