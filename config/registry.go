package config

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/juruen/hwrt/log"
)

// BuilderFunc creates an instance from the parameters of a Step. A nil map
// means "all defaults".
type BuilderFunc[T any] func(params map[string]interface{}) (T, error)

// Registry maps step names to their builders.
type Registry[T any] struct {
	kind     string
	builders map[string]BuilderFunc[T]
}

// NewRegistry creates an empty registry. kind names what is registered
// ("algorithm", "multiplier") in errors and logs.
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:     kind,
		builders: make(map[string]BuilderFunc[T]),
	}
}

// Register adds a builder. Registering a name twice panics.
func (r *Registry[T]) Register(name string, builder BuilderFunc[T]) {
	if _, ok := r.builders[name]; ok {
		panic(fmt.Sprintf("%s %q registered twice", r.kind, name))
	}
	r.builders[name] = builder
}

// Lookup returns the builder registered under name. An unknown name is
// logged and reported as a configuration error.
func (r *Registry[T]) Lookup(name string) (BuilderFunc[T], error) {
	builder, ok := r.builders[name]
	if !ok {
		log.Error().Str(r.kind, name).Strs("known", r.Names()).Msgf("unknown %s", r.kind)
		return nil, Unknown(r.kind, name)
	}
	return builder, nil
}

// Build resolves a single step.
func (r *Registry[T]) Build(step Step) (T, error) {
	var zero T
	builder, err := r.Lookup(step.Name)
	if err != nil {
		return zero, err
	}
	v, err := builder(step.Params)
	if err != nil {
		return zero, errors.WithMessagef(err, "%s %s", r.kind, step.Name)
	}
	return v, nil
}

// BuildAll resolves steps in order. The first failing step aborts.
func (r *Registry[T]) BuildAll(steps []Step) ([]T, error) {
	out := make([]T, 0, len(steps))
	for i, step := range steps {
		v, err := r.Build(step)
		if err != nil {
			return nil, errors.WithMessagef(err, "step %d", i)
		}
		out = append(out, v)
	}
	return out, nil
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check builds every registered entry with default parameters.
func (r *Registry[T]) Check() error {
	for _, name := range r.Names() {
		if _, err := r.builders[name](nil); err != nil {
			return errors.WithMessagef(err, "%s %s defaults", r.kind, name)
		}
	}
	return nil
}
