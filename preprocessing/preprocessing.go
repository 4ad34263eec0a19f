// Package preprocessing normalizes handwritten recordings. Every algorithm
// is a handwriting.Transform; pipelines are built from declarative steps
// through a name registry.
package preprocessing

import (
	"github.com/juruen/hwrt/config"
	"github.com/juruen/hwrt/handwriting"
)

// Algorithm is a single preprocessing transform.
type Algorithm = handwriting.Transform

// Pipeline is an ordered list of algorithms.
type Pipeline []Algorithm

// Apply runs the pipeline on h. On error h is left as it was.
func (p Pipeline) Apply(h *handwriting.HandwrittenData) error {
	return h.Preprocessing(p)
}

// Names lists the algorithm names in pipeline order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, a := range p {
		names[i] = a.Name()
	}
	return names
}

var registry = func() *config.Registry[Algorithm] {
	r := config.NewRegistry[Algorithm]("algorithm")
	RegisterDefaults(r)
	if err := r.Check(); err != nil {
		panic(err)
	}
	return r
}()

// Registry returns the registry holding all built-in algorithms.
func Registry() *config.Registry[Algorithm] { return registry }

// RegisterDefaults registers the built-in algorithms under their names.
func RegisterDefaults(r *config.Registry[Algorithm]) {
	r.Register(NameScaleAndShift, decoded(DefaultScaleAndShift))
	r.Register(NameRemoveDuplicateTime, decoded(func() *RemoveDuplicateTime { return &RemoveDuplicateTime{} }))
	r.Register(NameRemoveDots, decoded(DefaultRemoveDots))
	r.Register(NameDouglasPeucker, decoded(DefaultDouglasPeucker))
	r.Register(NameSpaceEvenly, decoded(DefaultSpaceEvenly))
	r.Register(NameSpaceEvenlyPerStroke, decoded(DefaultSpaceEvenlyPerStroke))
	r.Register(NameStrokeConnect, decoded(DefaultStrokeConnect))
	r.Register(NameDotReduction, decoded(DefaultDotReduction))
	r.Register(NameWildPointFilter, decoded(DefaultWildPointFilter))
	r.Register(NameWeightedAverageSmoothing, decoded(DefaultWeightedAverageSmoothing))
}

// decoded builds an algorithm from its defaults overridden by params.
func decoded[T Algorithm](defaults func() T) config.BuilderFunc[Algorithm] {
	return func(params map[string]interface{}) (Algorithm, error) {
		a := defaults()
		if err := config.Decode(params, a); err != nil {
			return nil, err
		}
		return a, nil
	}
}

// GetClass returns the builder of the named algorithm. Unknown names are
// logged and returned as configuration errors.
func GetClass(name string) (config.BuilderFunc[Algorithm], error) {
	return registry.Lookup(name)
}

// GetPreprocessingQueue resolves steps into a pipeline.
func GetPreprocessingQueue(steps []config.Step) (Pipeline, error) {
	algs, err := registry.BuildAll(steps)
	if err != nil {
		return nil, err
	}
	return Pipeline(algs), nil
}
