package multiplication

import (
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/juruen/hwrt/handwriting"
)

const (
	NameMultiply = "Multiply"
	NameRotate   = "Rotate"
	NameJitter   = "Jitter"
)

// Multiply takes every sample Nr times. Nr=1 is the identity and adds
// nothing.
type Multiply struct {
	Nr int `yaml:"nr" toml:"nr" validate:"gte=1"`
}

func DefaultMultiply() *Multiply { return &Multiply{Nr: 1} }

func (m *Multiply) Name() string { return NameMultiply }

func (m *Multiply) Multiply(h *handwriting.HandwrittenData) []*handwriting.HandwrittenData {
	if m.Nr <= 1 {
		return nil
	}
	out := make([]*handwriting.HandwrittenData, 0, m.Nr-1)
	for i := 1; i < m.Nr; i++ {
		out = append(out, h.Derive(newRawDataID(), nil))
	}
	return out
}

// Rotate adds Num copies rotated around the center of mass, at angles in
// degrees spread evenly from Minimum to Maximum. A zero angle would only
// duplicate the sample and is skipped.
type Rotate struct {
	Minimum float64 `yaml:"minimum" toml:"minimum"`
	Maximum float64 `yaml:"maximum" toml:"maximum" validate:"gtefield=Minimum"`
	Num     int     `yaml:"num" toml:"num" validate:"gte=1"`
}

func DefaultRotate() *Rotate { return &Rotate{Minimum: -30, Maximum: 30, Num: 5} }

func (m *Rotate) Name() string { return NameRotate }

func (m *Rotate) Multiply(h *handwriting.HandwrittenData) []*handwriting.HandwrittenData {
	cx, cy := h.CenterOfMass()
	var out []*handwriting.HandwrittenData
	for _, deg := range linspace(m.Minimum, m.Maximum, m.Num) {
		if math.Abs(deg) < 1e-9 {
			continue
		}
		sin, cos := math.Sincos(deg * math.Pi / 180)
		pl := h.Pointlist()
		for _, stroke := range pl {
			for i, p := range stroke {
				dx, dy := p.X-cx, p.Y-cy
				stroke[i].X = cx + dx*cos - dy*sin
				stroke[i].Y = cy + dx*sin + dy*cos
			}
		}
		out = append(out, h.Derive(newRawDataID(), pl))
	}
	return out
}

func linspace(from, to float64, n int) []float64 {
	if n <= 1 {
		return []float64{from}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return out
}

// Jitter adds Num copies with Gaussian noise on every x and y. The standard
// deviation is Sigma times the longer side of the bounding box, or Sigma
// itself for a recording without extent. The noise is seeded from Seed and
// the raw data id, so a given sample always gets the same copies.
type Jitter struct {
	Num   int     `yaml:"num" toml:"num" validate:"gte=0"`
	Sigma float64 `yaml:"sigma" toml:"sigma" validate:"gte=0"`
	Seed  uint64  `yaml:"seed" toml:"seed"`
}

func DefaultJitter() *Jitter { return &Jitter{Num: 3, Sigma: 0.01, Seed: 1} }

func (m *Jitter) Name() string { return NameJitter }

func (m *Jitter) Multiply(h *handwriting.HandwrittenData) []*handwriting.HandwrittenData {
	if m.Num <= 0 {
		return nil
	}
	sigma := m.Sigma
	if longest := math.Max(h.Width(), h.Height()); longest > 0 {
		sigma *= longest
	}

	hash := fnv.New64a()
	hash.Write([]byte(h.RawDataID()))
	rng := rand.New(rand.NewPCG(m.Seed, hash.Sum64()))

	out := make([]*handwriting.HandwrittenData, 0, m.Num)
	for k := 0; k < m.Num; k++ {
		pl := h.Pointlist()
		for _, stroke := range pl {
			for i := range stroke {
				stroke[i].X += rng.NormFloat64() * sigma
				stroke[i].Y += rng.NormFloat64() * sigma
			}
		}
		out = append(out, h.Derive(newRawDataID(), pl))
	}
	return out
}
