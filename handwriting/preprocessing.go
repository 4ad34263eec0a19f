package handwriting

import (
	"fmt"
	"math"

	"github.com/juruen/hwrt/log"
)

// Transform is one preprocessing step. Implementations replace the
// recording's strokes through SetPointlist.
type Transform interface {
	Name() string
	Apply(h *HandwrittenData) error
}

// Preprocessing applies queue in order. The steps run on a working copy;
// if any step fails, or leaves a coordinate that is not finite, the
// recording keeps the strokes it had before the call.
func (h *HandwrittenData) Preprocessing(queue []Transform) error {
	if len(queue) == 0 {
		return nil
	}
	work := h.Clone()
	for i, t := range queue {
		if err := t.Apply(work); err != nil {
			return fmt.Errorf("preprocessing step %d (%s) on %s: %w", i, t.Name(), h.rawDataID, err)
		}
		if err := checkFinite(work.pointlist); err != nil {
			return fmt.Errorf("preprocessing step %d (%s) on %s: %w", i, t.Name(), h.rawDataID, err)
		}
	}
	log.Trace().
		Str("raw_data_id", h.rawDataID).
		Int("steps", len(queue)).
		Int("points_before", h.pointlist.Len()).
		Int("points_after", work.pointlist.Len()).
		Msg("preprocessed")
	h.pointlist = work.pointlist
	return nil
}

func checkFinite(pl Pointlist) error {
	for i, s := range pl {
		for j, p := range s {
			if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
				return fmt.Errorf("stroke %d point %d is not finite (%v, %v)", i, j, p.X, p.Y)
			}
		}
	}
	return nil
}
