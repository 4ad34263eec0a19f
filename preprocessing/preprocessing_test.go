package preprocessing

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/hwrt/config"
	"github.com/juruen/hwrt/log"
)

func TestGetPreprocessingQueue(t *testing.T) {
	f, err := config.Parse([]byte(`
preprocessing:
  - ScaleAndShift: null
  - StrokeConnect: null
  - DouglasPeucker:
      - epsilon: 0.2
  - SpaceEvenly:
      - number: 100
`), "yaml")
	require.NoError(t, err)

	queue, err := GetPreprocessingQueue(f.Preprocessing)
	require.NoError(t, err)
	require.Len(t, queue, 4)

	assert.IsType(t, &ScaleAndShift{}, queue[0])
	assert.IsType(t, &StrokeConnect{}, queue[1])
	assert.Equal(t, &DouglasPeucker{Epsilon: 0.2}, queue[2])
	assert.Equal(t, &SpaceEvenly{Number: 100}, queue[3])
	assert.Equal(t, []string{"ScaleAndShift", "StrokeConnect", "DouglasPeucker", "SpaceEvenly"}, queue.Names())

	h := symbol(t, 292934)
	require.NoError(t, queue.Apply(h))
	assert.Len(t, h.Points(), 100*h.StrokeCount())
}

func TestGetPreprocessingQueue_Params(t *testing.T) {
	queue, err := GetPreprocessingQueue([]config.Step{
		config.S(NameSpaceEvenlyPerStroke, map[string]interface{}{"number": 20, "kind": "akima"}),
		config.S(NameWeightedAverageSmoothing, map[string]interface{}{"theta": []interface{}{1, 2, 1}}),
		config.S(NameScaleAndShift, map[string]interface{}{"center": true}),
	})
	require.NoError(t, err)
	assert.Equal(t, &SpaceEvenlyPerStroke{Number: 20, Kind: KindAkima}, queue[0])
	assert.Equal(t, &WeightedAverageSmoothing{Theta: []float64{1, 2, 1}}, queue[1])
	assert.Equal(t, &ScaleAndShift{Center: true}, queue[2])
}

func TestGetPreprocessingQueue_Invalid(t *testing.T) {
	cases := map[string]config.Step{
		"unknown parameter":  config.S(NameDouglasPeucker, map[string]interface{}{"epsilom": 0.2}),
		"wrong type":         config.S(NameSpaceEvenly, map[string]interface{}{"number": "many"}),
		"out of range":       config.S(NameSpaceEvenly, map[string]interface{}{"number": 0}),
		"bad kind":           config.S(NameSpaceEvenlyPerStroke, map[string]interface{}{"kind": "quintic"}),
		"theta length":       config.S(NameWeightedAverageSmoothing, map[string]interface{}{"theta": []interface{}{1, 1}}),
		"params on no-param": config.S(NameRemoveDuplicateTime, map[string]interface{}{"x": 1}),
		"unknown algorithm":  config.S("not_existant", nil),
	}
	for name, step := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := GetPreprocessingQueue([]config.Step{config.S(NameScaleAndShift, nil), step})
			require.Error(t, err)
			assert.True(t, errors.Is(err, config.ErrConfiguration), "got %v", err)
		})
	}
}

func TestGetClass_Unknown(t *testing.T) {
	var buf bytes.Buffer
	log.Init(log.Options{Level: "error", Format: "json", Writer: &buf})
	defer log.Init(log.Options{Level: "disabled"})

	build, err := GetClass("not_existant")
	require.Error(t, err)
	assert.Nil(t, build)
	assert.True(t, errors.Is(err, config.ErrUnknownName))
	assert.Contains(t, buf.String(), "not_existant")
}

func TestRegistry_AllAlgorithms(t *testing.T) {
	assert.Equal(t, []string{
		"DotReduction", "DouglasPeucker", "RemoveDots", "RemoveDuplicateTime", "ScaleAndShift",
		"SpaceEvenly", "SpaceEvenlyPerStroke", "StrokeConnect", "WeightedAverageSmoothing", "WildPointFilter",
	}, Registry().Names())
	for _, a := range allDefaults(t) {
		assert.True(t, Registry().Has(a.Name()))
	}
}
