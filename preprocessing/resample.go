package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/juruen/hwrt/config"
	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/log"
)

const (
	NameSpaceEvenly          = "SpaceEvenly"
	NameSpaceEvenlyPerStroke = "SpaceEvenlyPerStroke"
)

// Interpolation kinds for SpaceEvenlyPerStroke.
const (
	KindLinear         = "linear"
	KindCubic          = "cubic"
	KindAkima          = "akima"
	KindFritschButland = "fritschbutland"
)

// minSplineStations is the number of distinct arc length positions a
// stroke needs before a spline kind is used instead of linear interpolation.
const minSplineStations = 4

// SpaceEvenly resamples every stroke to Number points spaced evenly along
// its arc length, interpolating x, y and time linearly. Strokes with at most
// one point are left as they are.
type SpaceEvenly struct {
	Number int `yaml:"number" toml:"number" validate:"gte=1"`
}

func DefaultSpaceEvenly() *SpaceEvenly { return &SpaceEvenly{Number: 100} }

func (a *SpaceEvenly) Name() string { return NameSpaceEvenly }

func (a *SpaceEvenly) Apply(h *handwriting.HandwrittenData) error {
	return resampleStrokes(h, a.Number, KindLinear)
}

// SpaceEvenlyPerStroke is SpaceEvenly with a selectable interpolation kind:
// linear, cubic (natural cubic spline), akima or fritschbutland. x(s), y(s)
// and time(s) are interpolated over the arc length s. Strokes with fewer
// than four distinct arc length positions fall back to linear.
type SpaceEvenlyPerStroke struct {
	Number int    `yaml:"number" toml:"number" validate:"gte=1"`
	Kind   string `yaml:"kind" toml:"kind" validate:"oneof=linear cubic akima fritschbutland"`
}

func DefaultSpaceEvenlyPerStroke() *SpaceEvenlyPerStroke {
	return &SpaceEvenlyPerStroke{Number: 100, Kind: KindCubic}
}

func (a *SpaceEvenlyPerStroke) Name() string { return NameSpaceEvenlyPerStroke }

func (a *SpaceEvenlyPerStroke) Apply(h *handwriting.HandwrittenData) error {
	return resampleStrokes(h, a.Number, a.Kind)
}

func resampleStrokes(h *handwriting.HandwrittenData, number int, kind string) error {
	if number < 1 {
		return config.Errorf("number of points must be at least 1, got %d", number)
	}
	if newPredictor(kind) == nil {
		return config.Errorf("unknown interpolation kind %q", kind)
	}
	pl := h.Pointlist()
	for i, stroke := range pl {
		pl[i] = resample(stroke, number, kind)
	}
	h.SetPointlist(pl)
	return nil
}

func newPredictor(kind string) interp.FittablePredictor {
	switch kind {
	case KindLinear:
		return &interp.PiecewiseLinear{}
	case KindCubic:
		return &interp.NaturalCubic{}
	case KindAkima:
		return &interp.AkimaSpline{}
	case KindFritschButland:
		return &interp.FritschButland{}
	}
	return nil
}

// resample returns number points evenly spaced along the arc length of s.
func resample(s handwriting.Stroke, number int, kind string) handwriting.Stroke {
	if len(s) <= 1 {
		return s
	}

	// Stations are the cumulative arc lengths; points that do not advance
	// along the path are skipped so the stations strictly increase.
	stations := []float64{0}
	xs, ys, ts := []float64{s[0].X}, []float64{s[0].Y}, []float64{float64(s[0].Time)}
	total := 0.0
	for i := 1; i < len(s); i++ {
		d := handwriting.EuclideanDistance(s[i-1], s[i])
		if d == 0 {
			continue
		}
		total += d
		stations = append(stations, total)
		xs = append(xs, s[i].X)
		ys = append(ys, s[i].Y)
		ts = append(ts, float64(s[i].Time))
	}

	first, last := s[0], s[len(s)-1]
	out := make(handwriting.Stroke, number)
	if total == 0 || number == 1 {
		for k := range out {
			out[k] = handwriting.Point{X: first.X, Y: first.Y, Time: lerpTime(first.Time, last.Time, k, number)}
		}
		return out
	}
	// The last station keeps the time of the last sample, even when the pen
	// rested there for a while.
	ts[len(ts)-1] = float64(last.Time)

	if len(stations) < minSplineStations {
		kind = KindLinear
	}
	fx, fy, ft, err := fitCurves(kind, stations, xs, ys, ts)
	if err != nil && kind != KindLinear {
		log.Trace().Err(err).Str("kind", kind).Msg("spline fit failed, falling back to linear")
		fx, fy, ft, err = fitCurves(KindLinear, stations, xs, ys, ts)
	}
	if err != nil {
		return s
	}

	for k := range out {
		at := total * float64(k) / float64(number-1)
		out[k] = handwriting.Point{
			X:    fx.Predict(at),
			Y:    fy.Predict(at),
			Time: int64(math.Round(ft.Predict(at))),
		}
	}
	return out
}

func fitCurves(kind string, stations, xs, ys, ts []float64) (fx, fy, ft interp.Predictor, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interp: %v", r)
		}
	}()
	fits := make([]interp.Predictor, 3)
	for i, values := range [][]float64{xs, ys, ts} {
		p := newPredictor(kind)
		if err := p.Fit(stations, values); err != nil {
			return nil, nil, nil, err
		}
		fits[i] = p
	}
	return fits[0], fits[1], fits[2], nil
}

func lerpTime(from, to int64, k, n int) int64 {
	if n <= 1 {
		return from
	}
	return from + int64(math.Round(float64(to-from)*float64(k)/float64(n-1)))
}
