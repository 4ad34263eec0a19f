// Package config loads pipeline descriptions and turns loosely typed
// parameter maps into validated config structs.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Phase orderings understood by the training set assembler.
const (
	OrderMultiplyFirst   = "multiply-first"
	OrderPreprocessFirst = "preprocess-first"
)

// File is a pipeline description as stored on disk.
type File struct {
	Preprocessing  []Step `yaml:"preprocessing" toml:"preprocessing"`
	Multiplication []Step `yaml:"multiplication" toml:"multiplication"`
	Workers        int64  `yaml:"workers" toml:"workers" validate:"gte=0"`
	Order          string `yaml:"order" toml:"order" validate:"omitempty,oneof=multiply-first preprocess-first"`
}

// Load reads a YAML (.yml, .yaml) or TOML (.toml) pipeline file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading pipeline file %s", path)
	}
	f, err := Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, errors.WithMessagef(err, "pipeline file %s", path)
	}
	return f, nil
}

// Parse decodes a pipeline description in the given format ("yaml", "yml"
// or "toml").
func Parse(data []byte, format string) (*File, error) {
	var f File
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.UnmarshalStrict(data, &f); err != nil {
			return nil, Errorf("%w", err)
		}
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, Errorf("%w", err)
		}
	default:
		return nil, Errorf("unsupported pipeline file format %q", format)
	}
	for i, s := range f.Preprocessing {
		if s.Name == "" {
			return nil, Errorf("preprocessing step %d has no name", i)
		}
	}
	for i, s := range f.Multiplication {
		if s.Name == "" {
			return nil, Errorf("multiplication step %d has no name", i)
		}
	}
	if err := Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}
