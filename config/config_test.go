package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const compactYAML = `
preprocessing:
  - ScaleAndShift: null
  - StrokeConnect:
  - DouglasPeucker:
      - epsilon: 0.2
  - SpaceEvenly: {number: 100}
  - RemoveDots
multiplication:
  - name: Rotate
    params:
      minimum: -10
      maximum: 10
      num: 3
workers: 4
order: preprocess-first
`

func TestParse_CompactAndExplicitYAML(t *testing.T) {
	f, err := Parse([]byte(compactYAML), "yaml")
	require.NoError(t, err)

	require.Len(t, f.Preprocessing, 5)
	assert.Equal(t, "ScaleAndShift", f.Preprocessing[0].Name)
	assert.Nil(t, f.Preprocessing[0].Params)
	assert.Equal(t, "StrokeConnect", f.Preprocessing[1].Name)
	assert.Equal(t, "DouglasPeucker", f.Preprocessing[2].Name)
	assert.Equal(t, 0.2, f.Preprocessing[2].Params["epsilon"])
	assert.Equal(t, 100, f.Preprocessing[3].Params["number"])
	assert.Equal(t, S("RemoveDots", nil), f.Preprocessing[4])

	require.Len(t, f.Multiplication, 1)
	assert.Equal(t, "Rotate", f.Multiplication[0].Name)
	assert.Equal(t, 3, f.Multiplication[0].Params["num"])
	assert.EqualValues(t, 4, f.Workers)
	assert.Equal(t, OrderPreprocessFirst, f.Order)
}

func TestParse_TOML(t *testing.T) {
	data := `
workers = 2

[[preprocessing]]
name = "ScaleAndShift"
params = { center = true }

[[preprocessing]]
name = "SpaceEvenlyPerStroke"
params = { number = 20, kind = "linear" }
`
	f, err := Parse([]byte(data), "toml")
	require.NoError(t, err)
	require.Len(t, f.Preprocessing, 2)
	assert.Equal(t, true, f.Preprocessing[0].Params["center"])
	assert.EqualValues(t, 20, f.Preprocessing[1].Params["number"])
	assert.Equal(t, "linear", f.Preprocessing[1].Params["kind"])
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]struct {
		data   string
		format string
	}{
		"two keys in compact step": {"preprocessing:\n  - {A: null, B: null}\n", "yaml"},
		"scalar parameters":        {"preprocessing:\n  - A: 3\n", "yaml"},
		"unknown top level key":    {"preprocesing: []\n", "yaml"},
		"bad order":                {"order: sideways\n", "yaml"},
		"unknown toml key":         {"wrokers = 3\n", "toml"},
		"unsupported format":       {"{}", "json"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(c.data), c.format)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yml")
	require.NoError(t, os.WriteFile(path, []byte(compactYAML), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Preprocessing, 5)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

type testParams struct {
	Epsilon float64 `yaml:"epsilon" validate:"gte=0"`
	Kind    string  `yaml:"kind" validate:"oneof=linear cubic"`
}

func TestDecode(t *testing.T) {
	p := testParams{Epsilon: 0.2, Kind: "cubic"}
	require.NoError(t, Decode(nil, &p))
	assert.Equal(t, 0.2, p.Epsilon)

	require.NoError(t, Decode(map[string]interface{}{"epsilon": 1}, &p))
	assert.Equal(t, 1.0, p.Epsilon)

	err := Decode(map[string]interface{}{"epsilonn": 1.0}, &p)
	assert.True(t, errors.Is(err, ErrConfiguration))

	err = Decode(map[string]interface{}{"epsilon": "much"}, &p)
	assert.True(t, errors.Is(err, ErrConfiguration))

	err = Decode(map[string]interface{}{"kind": "quintic"}, &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Kind failed oneof")
}

func TestUnknown(t *testing.T) {
	err := Unknown("algorithm", "not_existant")
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.True(t, errors.Is(err, ErrUnknownName))
	assert.Contains(t, err.Error(), `unknown algorithm "not_existant"`)
}
