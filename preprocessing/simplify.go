package preprocessing

import (
	"math"

	"github.com/juruen/hwrt/handwriting"
)

const NameDouglasPeucker = "DouglasPeucker"

// DouglasPeucker simplifies every stroke with the Ramer-Douglas-Peucker
// algorithm. Epsilon is the largest perpendicular distance in the x/y plane
// a dropped point may have from the simplified polyline. Times stay with
// the points that survive.
type DouglasPeucker struct {
	Epsilon float64 `yaml:"epsilon" toml:"epsilon" validate:"gte=0"`
}

func DefaultDouglasPeucker() *DouglasPeucker { return &DouglasPeucker{Epsilon: 0.2} }

func (a *DouglasPeucker) Name() string { return NameDouglasPeucker }

func (a *DouglasPeucker) Apply(h *handwriting.HandwrittenData) error {
	pl := h.Pointlist()
	for i, stroke := range pl {
		pl[i] = a.simplify(stroke)
	}
	h.SetPointlist(pl)
	return nil
}

func (a *DouglasPeucker) simplify(s handwriting.Stroke) handwriting.Stroke {
	if len(s) <= 2 {
		return s
	}
	keep := make([]bool, len(s))
	keep[0], keep[len(s)-1] = true, true

	type span struct{ first, last int }
	stack := []span{{0, len(s) - 1}}
	for len(stack) > 0 {
		sp := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		maxDist, index := 0.0, -1
		for i := sp.first + 1; i < sp.last; i++ {
			if d := perpendicularDistance(s[i], s[sp.first], s[sp.last]); d > maxDist {
				maxDist, index = d, i
			}
		}
		if index >= 0 && maxDist > a.Epsilon {
			keep[index] = true
			stack = append(stack, span{sp.first, index}, span{index, sp.last})
		}
	}

	out := make(handwriting.Stroke, 0, len(s))
	for i, p := range s {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// perpendicularDistance returns the distance of p to the line through a and
// b, or to a itself when a and b coincide.
func perpendicularDistance(p, a, b handwriting.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return handwriting.EuclideanDistance(p, a)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
}
