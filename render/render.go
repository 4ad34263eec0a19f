// Package render rasterizes recordings into grayscale bitmaps, black ink on
// white, for previews and fixed-size thumbnails.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/vector"

	"github.com/juruen/hwrt/handwriting"
)

// Options controls the output bitmap. Sizes are in output pixels.
type Options struct {
	// Size is the edge of the square output image.
	Size int
	// Supersample draws on a canvas this many times larger before
	// downscaling.
	Supersample int
	StrokeWidth float64
	Margin      float64
}

// DefaultOptions renders 28x28 thumbnails.
func DefaultOptions() Options {
	return Options{Size: 28, Supersample: 4, StrokeWidth: 1.5, Margin: 2}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Size <= 0 {
		o.Size = d.Size
	}
	if o.Supersample <= 0 {
		o.Supersample = d.Supersample
	}
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = d.StrokeWidth
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	return o
}

// Render draws h scaled into the square image keeping its aspect ratio and
// centered. An empty recording renders a blank image.
func Render(h *handwriting.HandwrittenData, opt Options) *image.Gray {
	opt = opt.withDefaults()
	side := opt.Size * opt.Supersample
	canvas := image.NewGray(image.Rect(0, 0, side, side))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	pl := h.Pointlist()
	if pl.Len() > 0 {
		t := fit(h.BoundingBox(), float64(side), opt.Margin*float64(opt.Supersample))
		width := opt.StrokeWidth * float64(opt.Supersample)
		r := vector.NewRasterizer(side, side)
		for _, stroke := range pl {
			drawStroke(canvas, r, stroke, t, width)
		}
	}

	if opt.Supersample == 1 {
		return canvas
	}
	small := resize.Resize(uint(opt.Size), uint(opt.Size), canvas, resize.Lanczos3)
	out := image.NewGray(image.Rect(0, 0, opt.Size, opt.Size))
	draw.Draw(out, out.Bounds(), small, small.Bounds().Min, draw.Src)
	return out
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

type transform struct {
	scale, dx, dy float64
}

func (t transform) apply(p handwriting.Point) (float32, float32) {
	return float32(p.X*t.scale + t.dx), float32(p.Y*t.scale + t.dy)
}

func fit(box handwriting.BoundingBox, side, margin float64) transform {
	extent := math.Max(box.Width(), box.Height())
	avail := side - 2*margin
	scale := 1.0
	if extent > 0 {
		scale = avail / extent
	}
	return transform{
		scale: scale,
		dx:    (side-box.Width()*scale)/2 - box.MinX*scale,
		dy:    (side-box.Height()*scale)/2 - box.MinY*scale,
	}
}

var ink = image.NewUniform(color.Black)

// drawStroke fills one quad per segment. Each quad is rasterized on its own
// so that overlapping segments do not add up.
func drawStroke(dst draw.Image, r *vector.Rasterizer, stroke handwriting.Stroke, t transform, width float64) {
	half := float32(width / 2)
	if len(stroke) == 1 {
		x, y := t.apply(stroke[0])
		r.Reset(dst.Bounds().Dx(), dst.Bounds().Dy())
		r.MoveTo(x-half, y-half)
		r.LineTo(x+half, y-half)
		r.LineTo(x+half, y+half)
		r.LineTo(x-half, y+half)
		r.ClosePath()
		r.Draw(dst, dst.Bounds(), ink, image.Point{})
		return
	}
	for i := 1; i < len(stroke); i++ {
		x1, y1 := t.apply(stroke[i-1])
		x2, y2 := t.apply(stroke[i])
		dx, dy := x2-x1, y2-y1
		l := float32(math.Hypot(float64(dx), float64(dy)))
		var nx, ny, ex, ey float32
		if l == 0 {
			nx, ey = half, half
		} else {
			nx, ny = -dy/l*half, dx/l*half
			// extend by half the width so joints are covered
			ex, ey = dx/l*half, dy/l*half
		}
		r.Reset(dst.Bounds().Dx(), dst.Bounds().Dy())
		r.MoveTo(x1-ex+nx, y1-ey+ny)
		r.LineTo(x2+ex+nx, y2+ey+ny)
		r.LineTo(x2+ex-nx, y2+ey-ny)
		r.LineTo(x1-ex-nx, y1-ey-ny)
		r.ClosePath()
		r.Draw(dst, dst.Bounds(), ink, image.Point{})
	}
}
