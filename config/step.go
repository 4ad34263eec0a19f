package config

import (
	"fmt"
)

// Step is the declarative description of one pipeline element: the
// registered name and its parameters. It is resolved into an executable
// instance by a registry.
type Step struct {
	Name   string                 `yaml:"name" toml:"name"`
	Params map[string]interface{} `yaml:"params,omitempty" toml:"params,omitempty"`
}

// S is shorthand for building a Step in code.
func S(name string, params map[string]interface{}) Step {
	return Step{Name: name, Params: params}
}

// UnmarshalYAML accepts the explicit form
//
//	- name: DouglasPeucker
//	  params: {epsilon: 0.2}
//
// the compact form used by older pipeline files
//
//	- ScaleAndShift: null
//	- DouglasPeucker:
//	    - epsilon: 0.2
//
// and a bare name for steps with default parameters.
func (s *Step) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var bare string
	if err := unmarshal(&bare); err == nil {
		if bare == "" {
			return Errorf("empty step name")
		}
		s.Name = bare
		s.Params = nil
		return nil
	}

	var explicit struct {
		Name   string                 `yaml:"name"`
		Params map[string]interface{} `yaml:"params"`
	}
	if err := unmarshal(&explicit); err == nil && explicit.Name != "" {
		s.Name = explicit.Name
		s.Params = explicit.Params
		return nil
	}

	var compact map[string]interface{}
	if err := unmarshal(&compact); err != nil {
		return Errorf("step is neither {name, params} nor {Name: params}: %w", err)
	}
	if len(compact) != 1 {
		return Errorf("compact step must have exactly one key, got %d", len(compact))
	}
	for name, raw := range compact {
		params, err := compactParams(raw)
		if err != nil {
			return Errorf("step %s: %w", name, err)
		}
		s.Name = name
		s.Params = params
	}
	return nil
}

func compactParams(raw interface{}) (map[string]interface{}, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[interface{}]interface{}:
		return stringKeys(v), nil
	case []interface{}:
		params := make(map[string]interface{})
		for _, item := range v {
			m, ok := item.(map[interface{}]interface{})
			if !ok {
				return nil, fmt.Errorf("parameter list entries must be mappings, got %T", item)
			}
			for k, val := range stringKeys(m) {
				params[k] = val
			}
		}
		return params, nil
	default:
		return nil, fmt.Errorf("parameters must be a mapping or a list of mappings, got %T", raw)
	}
}

func stringKeys(m map[interface{}]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[fmt.Sprint(k)] = v
	}
	return out
}
