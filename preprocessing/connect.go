package preprocessing

import (
	"github.com/juruen/hwrt/handwriting"
)

const NameStrokeConnect = "StrokeConnect"

// StrokeConnect joins a stroke onto the previous one when the previous
// stroke ends closer than MinimumDistance to where it starts. Chains of
// close strokes collapse into one stroke. Empty strokes are kept and are
// never joined.
type StrokeConnect struct {
	MinimumDistance float64 `yaml:"minimum_distance" toml:"minimum_distance" validate:"gte=0"`
}

func DefaultStrokeConnect() *StrokeConnect { return &StrokeConnect{MinimumDistance: 0.05} }

func (a *StrokeConnect) Name() string { return NameStrokeConnect }

func (a *StrokeConnect) Apply(h *handwriting.HandwrittenData) error {
	pl := h.Pointlist()
	if len(pl) < 2 {
		return nil
	}
	out := handwriting.Pointlist{pl[0]}
	for _, stroke := range pl[1:] {
		prev := out[len(out)-1]
		if len(prev) > 0 && len(stroke) > 0 &&
			handwriting.EuclideanDistance(prev[len(prev)-1], stroke[0]) < a.MinimumDistance {
			out[len(out)-1] = append(prev, stroke...)
			continue
		}
		out = append(out, stroke)
	}
	h.SetPointlist(out)
	return nil
}
