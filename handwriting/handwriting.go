// Package handwriting holds the in-memory model of a handwritten recording:
// timestamped points grouped into strokes, plus the label metadata the
// training pipeline carries along.
package handwriting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// ErrMalformedInput is returned when raw data does not decode into a list
// of strokes of points.
var ErrMalformedInput = errors.New("malformed handwriting data")

// HandwrittenData is one recording. The stroke list is replaced by
// preprocessing; the metadata is fixed at construction.
type HandwrittenData struct {
	pointlist Pointlist

	rawDataID      string
	formulaID      int
	formulaInLatex string
	isInTestset    bool
}

// Option sets metadata on construction.
type Option func(*HandwrittenData)

// WithRawDataID sets the unique identifier of the raw recording.
func WithRawDataID(id string) Option {
	return func(h *HandwrittenData) { h.rawDataID = id }
}

// WithFormula sets the label: the formula id and its LaTeX form.
func WithFormula(id int, latex string) Option {
	return func(h *HandwrittenData) {
		h.formulaID = id
		h.formulaInLatex = latex
	}
}

// WithTestset marks the recording as part of the test set.
func WithTestset(in bool) Option {
	return func(h *HandwrittenData) { h.isInTestset = in }
}

// New parses raw JSON of the form [[{"x":..,"y":..,"time":..}, ...], ...].
func New(raw []byte, opts ...Option) (*HandwrittenData, error) {
	var pl Pointlist
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&pl); err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: %v", ErrMalformedInput, err))
	}
	if dec.More() {
		return nil, errors.WithStack(fmt.Errorf("%w: trailing data after pointlist", ErrMalformedInput))
	}
	if pl == nil {
		pl = Pointlist{}
	}
	return build(pl, opts), nil
}

// FromPointlist builds a recording from an in-memory pointlist. The list is
// copied.
func FromPointlist(pl Pointlist, opts ...Option) *HandwrittenData {
	return build(pl.Clone(), opts)
}

func build(pl Pointlist, opts []Option) *HandwrittenData {
	h := &HandwrittenData{pointlist: pl}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HandwrittenData) RawDataID() string      { return h.rawDataID }
func (h *HandwrittenData) FormulaID() int         { return h.formulaID }
func (h *HandwrittenData) FormulaInLatex() string { return h.formulaInLatex }
func (h *HandwrittenData) IsInTestset() bool      { return h.isInTestset }

// Pointlist returns a copy of the current strokes.
func (h *HandwrittenData) Pointlist() Pointlist {
	return h.pointlist.Clone()
}

// SetPointlist replaces all strokes at once. The recording takes ownership
// of pl.
func (h *HandwrittenData) SetPointlist(pl Pointlist) {
	if pl == nil {
		pl = Pointlist{}
	}
	h.pointlist = pl
}

// StrokeCount returns the number of strokes.
func (h *HandwrittenData) StrokeCount() int { return len(h.pointlist) }

// Points returns all points of all strokes in recording order.
func (h *HandwrittenData) Points() []Point {
	out := make([]Point, 0, h.pointlist.Len())
	for _, s := range h.pointlist {
		out = append(out, s...)
	}
	return out
}

// BoundingBox returns the box around all points.
func (h *HandwrittenData) BoundingBox() BoundingBox {
	return BoundingBoxOf(h.Points())
}

func (h *HandwrittenData) Width() float64  { return h.BoundingBox().Width() }
func (h *HandwrittenData) Height() float64 { return h.BoundingBox().Height() }
func (h *HandwrittenData) Area() float64   { return h.Width() * h.Height() }

// Duration returns the time between the earliest and the latest point in ms.
func (h *HandwrittenData) Duration() int64 {
	b := h.BoundingBox()
	return b.MaxTime - b.MinTime
}

// CenterOfMass returns the mean of all points. The origin is returned for
// an empty recording.
func (h *HandwrittenData) CenterOfMass() (x, y float64) {
	points := h.Points()
	if len(points) == 0 {
		return 0, 0
	}
	for _, p := range points {
		x += p.X
		y += p.Y
	}
	n := float64(len(points))
	return x / n, y / n
}

// CountSingleDots returns how many strokes consist of exactly one point.
func (h *HandwrittenData) CountSingleDots() int {
	n := 0
	for _, s := range h.pointlist {
		if len(s) == 1 {
			n++
		}
	}
	return n
}

// SortedPointlist returns a copy of the strokes ordered by the time of
// their first point. Empty strokes go last; ties keep recording order.
func (h *HandwrittenData) SortedPointlist() Pointlist {
	pl := h.Pointlist()
	sort.SliceStable(pl, func(i, j int) bool {
		if len(pl[j]) == 0 {
			return len(pl[i]) > 0
		}
		if len(pl[i]) == 0 {
			return false
		}
		return pl[i][0].Time < pl[j][0].Time
	})
	return pl
}

// Clone returns an independent copy including metadata.
func (h *HandwrittenData) Clone() *HandwrittenData {
	c := *h
	c.pointlist = h.pointlist.Clone()
	return &c
}

// Derive returns a deep copy carrying the same label under a new raw data id.
func (h *HandwrittenData) Derive(rawDataID string, pl Pointlist) *HandwrittenData {
	c := *h
	c.rawDataID = rawDataID
	c.pointlist = pl
	if c.pointlist == nil {
		c.pointlist = h.pointlist.Clone()
	}
	return &c
}

// Equal compares the strokes of both recordings with epsilon on x and y.
// Metadata is not compared.
func (h *HandwrittenData) Equal(other *HandwrittenData, epsilon float64) bool {
	return h.pointlist.Equal(other.pointlist, epsilon)
}

// MarshalJSON writes the raw pointlist, so the output can be fed back to New.
func (h *HandwrittenData) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.pointlist)
}

func (h *HandwrittenData) String() string {
	b := h.BoundingBox()
	return fmt.Sprintf("HandwrittenData(raw_data_id=%s, formula=%q, strokes=%d, points=%d, box=[%.4g,%.4g]x[%.4g,%.4g])",
		h.rawDataID, h.formulaInLatex, len(h.pointlist), h.pointlist.Len(), b.MinX, b.MaxX, b.MinY, b.MaxY)
}
