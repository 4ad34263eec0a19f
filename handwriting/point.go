package handwriting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Point is one pen sample. Time is in milliseconds.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Time int64   `json:"time"`
}

// UnmarshalJSON requires all of x, y and time. null is not a point.
func (p *Point) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("point is null")
	}
	var raw struct {
		X    *float64 `json:"x"`
		Y    *float64 `json:"y"`
		Time *int64   `json:"time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.X == nil || raw.Y == nil || raw.Time == nil {
		return fmt.Errorf("point %s needs x, y and time", bytes.TrimSpace(data))
	}
	*p = Point{X: *raw.X, Y: *raw.Y, Time: *raw.Time}
	return nil
}

// Stroke is the sequence of points between pen down and pen up.
type Stroke []Point

// Pointlist is the ordered list of strokes of a recording.
type Pointlist []Stroke

// EuclideanDistance returns the distance of p1 and p2 in the x/y plane.
// Time is ignored.
func EuclideanDistance(p1, p2 Point) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Clone returns a deep copy of the stroke. A nil stroke stays nil.
func (s Stroke) Clone() Stroke {
	if s == nil {
		return nil
	}
	out := make(Stroke, len(s))
	copy(out, s)
	return out
}

// Clone returns a deep copy of the pointlist.
func (pl Pointlist) Clone() Pointlist {
	if pl == nil {
		return nil
	}
	out := make(Pointlist, len(pl))
	for i, s := range pl {
		out[i] = s.Clone()
	}
	return out
}

// Len returns the total number of points.
func (pl Pointlist) Len() int {
	n := 0
	for _, s := range pl {
		n += len(s)
	}
	return n
}

// Equal reports whether both pointlists have the same shape, x and y
// within epsilon and identical times.
func (pl Pointlist) Equal(other Pointlist, epsilon float64) bool {
	if len(pl) != len(other) {
		return false
	}
	for i := range pl {
		if len(pl[i]) != len(other[i]) {
			return false
		}
		for j, a := range pl[i] {
			b := other[i][j]
			if math.Abs(a.X-b.X) > epsilon || math.Abs(a.Y-b.Y) > epsilon || a.Time != b.Time {
				return false
			}
		}
	}
	return true
}

// BoundingBox is the axis aligned box around all points of a recording,
// together with its time span.
type BoundingBox struct {
	MinX, MaxX       float64
	MinY, MaxY       float64
	MinTime, MaxTime int64
}

func (b BoundingBox) Width() float64  { return b.MaxX - b.MinX }
func (b BoundingBox) Height() float64 { return b.MaxY - b.MinY }

// Diagonal returns the length of the box diagonal.
func (b BoundingBox) Diagonal() float64 {
	return math.Hypot(b.Width(), b.Height())
}

// BoundingBoxOf returns the bounding box of points. The zero box is
// returned when there are none.
func BoundingBoxOf(points []Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{
		MinX: points[0].X, MaxX: points[0].X,
		MinY: points[0].Y, MaxY: points[0].Y,
		MinTime: points[0].Time, MaxTime: points[0].Time,
	}
	for _, p := range points[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxY = math.Max(b.MaxY, p.Y)
		if p.Time < b.MinTime {
			b.MinTime = p.Time
		}
		if p.Time > b.MaxTime {
			b.MaxTime = p.Time
		}
	}
	return b
}
