package rm

import (
	"github.com/juruen/hwrt/handwriting"
)

// The .lines format carries no timestamps. Points get synthetic times:
// SampleInterval apart within a line and PenUpInterval between lines.
const (
	SampleInterval = 16
	PenUpInterval  = 100
)

// ToHandwriting converts the ink of all layers into one recording, one
// stroke per line. Eraser lines and lines without points are skipped.
func ToHandwriting(page *Rm, opts ...handwriting.Option) *handwriting.HandwrittenData {
	pl := handwriting.Pointlist{}
	var t int64
	for _, layer := range page.Layers {
		for _, line := range layer.Lines {
			if line.BrushType.IsEraser() || len(line.Points) == 0 {
				continue
			}
			stroke := make(handwriting.Stroke, len(line.Points))
			for i, p := range line.Points {
				stroke[i] = handwriting.Point{X: float64(p.X), Y: float64(p.Y), Time: t}
				t += SampleInterval
			}
			pl = append(pl, stroke)
			t += PenUpInterval
		}
	}
	return handwriting.FromPointlist(pl, opts...)
}

// FromHandwriting builds a single layer page drawing every stroke with a
// medium black fineliner.
func FromHandwriting(h *handwriting.HandwrittenData) *Rm {
	lines := make([]Line, 0, h.StrokeCount())
	for _, stroke := range h.Pointlist() {
		line := Line{
			BrushType:  FinelinerV5,
			BrushColor: Black,
			BrushSize:  Medium,
			Points:     make([]Point, len(stroke)),
		}
		for i, p := range stroke {
			line.Points[i] = Point{X: float32(p.X), Y: float32(p.Y), Width: float32(Medium), Pressure: 1}
		}
		lines = append(lines, line)
	}
	return &Rm{Version: V5, Layers: []Layer{{Lines: lines}}}
}
