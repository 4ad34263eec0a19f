package preprocessing

import (
	"math"
	"sort"

	"github.com/juruen/hwrt/handwriting"
)

const (
	NameRemoveDuplicateTime = "RemoveDuplicateTime"
	NameRemoveDots          = "RemoveDots"
	NameDotReduction        = "DotReduction"
	NameWildPointFilter     = "WildPointFilter"
)

// RemoveDuplicateTime drops every point whose time equals the time of the
// previous kept point of the same stroke.
type RemoveDuplicateTime struct{}

func (a *RemoveDuplicateTime) Name() string { return NameRemoveDuplicateTime }

func (a *RemoveDuplicateTime) Apply(h *handwriting.HandwrittenData) error {
	pl := h.Pointlist()
	for i, stroke := range pl {
		if len(stroke) < 2 {
			continue
		}
		kept := stroke[:1]
		for _, p := range stroke[1:] {
			if p.Time != kept[len(kept)-1].Time {
				kept = append(kept, p)
			}
		}
		pl[i] = kept
	}
	h.SetPointlist(pl)
	return nil
}

// RemoveDots drops strokes that are dots: strokes with at most one point,
// or whose bounding box diagonal is at most Extent. A recording made only
// of dots is left untouched, otherwise a "." or ":" would vanish.
//
// The default Extent of 0.001 is meant for ScaleAndShift output where the
// symbol spans [0,1]; for raw tablet coordinates it only catches points
// recorded at one position.
type RemoveDots struct {
	Extent float64 `yaml:"extent" toml:"extent" validate:"gte=0"`
}

func DefaultRemoveDots() *RemoveDots { return &RemoveDots{Extent: 0.001} }

func (a *RemoveDots) Name() string { return NameRemoveDots }

func (a *RemoveDots) isDot(s handwriting.Stroke) bool {
	if len(s) <= 1 {
		return true
	}
	return handwriting.BoundingBoxOf(s).Diagonal() <= a.Extent
}

func (a *RemoveDots) Apply(h *handwriting.HandwrittenData) error {
	pl := h.Pointlist()
	kept := make(handwriting.Pointlist, 0, len(pl))
	for _, stroke := range pl {
		if !a.isDot(stroke) {
			kept = append(kept, stroke)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	h.SetPointlist(kept)
	return nil
}

// DotReduction drops points that lie within Threshold of the previous kept
// point of their stroke. The first point of a stroke is always kept.
type DotReduction struct {
	Threshold float64 `yaml:"threshold" toml:"threshold" validate:"gte=0"`
}

func DefaultDotReduction() *DotReduction { return &DotReduction{Threshold: 0.0001} }

func (a *DotReduction) Name() string { return NameDotReduction }

func (a *DotReduction) Apply(h *handwriting.HandwrittenData) error {
	pl := h.Pointlist()
	for i, stroke := range pl {
		if len(stroke) < 2 {
			continue
		}
		kept := stroke[:1]
		for _, p := range stroke[1:] {
			if handwriting.EuclideanDistance(kept[len(kept)-1], p) > a.Threshold {
				kept = append(kept, p)
			}
		}
		pl[i] = kept
	}
	h.SetPointlist(pl)
	return nil
}

// WildPointFilter removes single outliers. An interior point is wild when
// the distances to both of its neighbours exceed Threshold times the median
// segment length of its stroke. End points are never removed, and strokes
// with fewer than three points or a zero median are left as they are.
type WildPointFilter struct {
	Threshold float64 `yaml:"threshold" toml:"threshold" validate:"gt=0"`
}

func DefaultWildPointFilter() *WildPointFilter { return &WildPointFilter{Threshold: 3.0} }

func (a *WildPointFilter) Name() string { return NameWildPointFilter }

func (a *WildPointFilter) Apply(h *handwriting.HandwrittenData) error {
	pl := h.Pointlist()
	for i, stroke := range pl {
		pl[i] = a.filter(stroke)
	}
	h.SetPointlist(pl)
	return nil
}

func (a *WildPointFilter) filter(s handwriting.Stroke) handwriting.Stroke {
	if len(s) < 3 {
		return s
	}
	seg := make([]float64, len(s)-1)
	for i := range seg {
		seg[i] = handwriting.EuclideanDistance(s[i], s[i+1])
	}
	limit := a.Threshold * median(seg)
	if limit == 0 {
		return s
	}
	out := make(handwriting.Stroke, 0, len(s))
	out = append(out, s[0])
	for i := 1; i < len(s)-1; i++ {
		if math.Min(seg[i-1], seg[i]) > limit {
			continue
		}
		out = append(out, s[i])
	}
	return append(out, s[len(s)-1])
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
