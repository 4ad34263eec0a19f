// Package multiplication synthesizes additional training samples from
// existing ones.
package multiplication

import (
	"github.com/google/uuid"

	"github.com/juruen/hwrt/config"
	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/log"
)

// Multiplier derives extra samples from one recording. The returned
// samples are independent copies carrying the label of h under fresh raw
// data ids; h itself is never part of the result.
type Multiplier interface {
	Name() string
	Multiply(h *handwriting.HandwrittenData) []*handwriting.HandwrittenData
}

var registry = func() *config.Registry[Multiplier] {
	r := config.NewRegistry[Multiplier]("multiplier")
	RegisterDefaults(r)
	if err := r.Check(); err != nil {
		panic(err)
	}
	return r
}()

// Registry returns the registry holding the built-in multipliers.
func Registry() *config.Registry[Multiplier] { return registry }

// RegisterDefaults registers the built-in multipliers under their names.
func RegisterDefaults(r *config.Registry[Multiplier]) {
	r.Register(NameMultiply, decoded(DefaultMultiply))
	r.Register(NameRotate, decoded(DefaultRotate))
	r.Register(NameJitter, decoded(DefaultJitter))
}

func decoded[T Multiplier](defaults func() T) config.BuilderFunc[Multiplier] {
	return func(params map[string]interface{}) (Multiplier, error) {
		m := defaults()
		if err := config.Decode(params, m); err != nil {
			return nil, err
		}
		return m, nil
	}
}

// GetMultiplicationQueue resolves steps into multipliers.
func GetMultiplicationQueue(steps []config.Step) ([]Multiplier, error) {
	return registry.BuildAll(steps)
}

// TrainingSetMultiplication returns the original records followed by the
// records every multiplier of queue synthesizes from them, multiplier by
// multiplier. Multipliers only ever see the originals.
func TrainingSetMultiplication(set []handwriting.Record, queue []Multiplier) []handwriting.Record {
	out := make([]handwriting.Record, 0, len(set))
	out = append(out, set...)
	for _, m := range queue {
		added := 0
		for _, r := range set {
			if r.Handwriting == nil {
				continue
			}
			for _, sample := range m.Multiply(r.Handwriting) {
				out = append(out, handwriting.Record{
					ID:             r.ID,
					IsInTestset:    r.IsInTestset,
					FormulaID:      r.FormulaID,
					FormulaInLatex: r.FormulaInLatex,
					Handwriting:    sample,
				})
				added++
			}
		}
		log.Info().Str("multiplier", m.Name()).Int("records", len(set)).Int("added", added).Msg("multiplied training set")
	}
	return out
}

func newRawDataID() string {
	return uuid.NewString()
}
