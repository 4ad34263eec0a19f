package preprocessing

import (
	"github.com/juruen/hwrt/config"
	"github.com/juruen/hwrt/handwriting"
)

const NameWeightedAverageSmoothing = "WeightedAverageSmoothing"

// WeightedAverageSmoothing moves every interior point to the weighted mean
// of its predecessor, itself and its successor, with weights Theta. The
// neighbours are taken from the unsmoothed stroke. End points and times are
// left unchanged.
type WeightedAverageSmoothing struct {
	Theta []float64 `yaml:"theta" toml:"theta" validate:"len=3,dive,gte=0"`
}

func DefaultWeightedAverageSmoothing() *WeightedAverageSmoothing {
	return &WeightedAverageSmoothing{Theta: []float64{1, 1, 1}}
}

func (a *WeightedAverageSmoothing) Name() string { return NameWeightedAverageSmoothing }

func (a *WeightedAverageSmoothing) Apply(h *handwriting.HandwrittenData) error {
	if len(a.Theta) != 3 {
		return config.Errorf("theta needs 3 weights, got %d", len(a.Theta))
	}
	sum := a.Theta[0] + a.Theta[1] + a.Theta[2]
	if sum <= 0 {
		return config.Errorf("theta weights must have a positive sum")
	}
	w0, w1, w2 := a.Theta[0]/sum, a.Theta[1]/sum, a.Theta[2]/sum

	pl := h.Pointlist()
	for i, stroke := range pl {
		if len(stroke) < 3 {
			continue
		}
		smoothed := stroke.Clone()
		for j := 1; j < len(stroke)-1; j++ {
			smoothed[j].X = w0*stroke[j-1].X + w1*stroke[j].X + w2*stroke[j+1].X
			smoothed[j].Y = w0*stroke[j-1].Y + w1*stroke[j].Y + w2*stroke[j+1].Y
		}
		pl[i] = smoothed
	}
	h.SetPointlist(pl)
	return nil
}
