package trainingset

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/hwrt/config"
	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/multiplication"
	"github.com/juruen/hwrt/preprocessing"
)

func records(t *testing.T, n int) []handwriting.Record {
	t.Helper()
	out := make([]handwriting.Record, n)
	for i := range out {
		h, err := handwriting.New([]byte(fmt.Sprintf(`[[{"x":%d,"y":10,"time":5},{"x":50,"y":90,"time":25}],[{"x":20,"y":40,"time":40}]]`, i)),
			handwriting.WithRawDataID(fmt.Sprint(1000+i)), handwriting.WithFormula(i, fmt.Sprint(i)))
		require.NoError(t, err)
		out[i] = handwriting.Record{ID: i, FormulaID: i, FormulaInLatex: fmt.Sprint(i), Handwriting: h}
	}
	return out
}

type failOn struct{ rawDataID string }

func (f failOn) Name() string { return "failOn" }
func (f failOn) Apply(h *handwriting.HandwrittenData) error {
	if h.RawDataID() == f.rawDataID {
		return errors.New("refusing " + f.rawDataID)
	}
	return nil
}

func TestAssemble_Identity(t *testing.T) {
	in := records(t, 1)
	res, err := New(Config{}).Assemble(context.Background(), in,
		[]multiplication.Multiplier{multiplication.DefaultMultiply()},
		preprocessing.Pipeline{preprocessing.DefaultScaleAndShift()})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Empty(t, res.Failed)

	b := res.Records[0].Handwriting.BoundingBox()
	assert.Equal(t, 0.0, b.MinX)
	assert.Equal(t, int64(0), b.MinTime)
	assert.Equal(t, int64(5), in[0].Handwriting.BoundingBox().MinTime, "input must not be modified")
}

func TestAssemble_IsolatesFailingRecord(t *testing.T) {
	in := records(t, 20)
	res, err := New(Config{Workers: 4}).Assemble(context.Background(), in, nil,
		preprocessing.Pipeline{preprocessing.DefaultScaleAndShift(), failOn{"1007"}})
	require.NoError(t, err)

	require.Len(t, res.Records, 19)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 7, res.Failed[0].ID)
	assert.Equal(t, "1007", res.Failed[0].RawDataID)
	assert.Contains(t, res.Failed[0].Error(), "refusing 1007")

	for i, r := range res.Records {
		want := i
		if i >= 7 {
			want = i + 1
		}
		assert.Equal(t, want, r.ID)
		assert.Equal(t, 0.0, r.Handwriting.BoundingBox().MinX)
	}
}

func TestAssemble_Orders(t *testing.T) {
	mult := []multiplication.Multiplier{&multiplication.Rotate{Minimum: 45, Maximum: 45, Num: 1}}
	pipeline := preprocessing.Pipeline{preprocessing.DefaultScaleAndShift()}

	res, err := New(Config{Order: MultiplyFirst}).Assemble(context.Background(), records(t, 2), mult, pipeline)
	require.NoError(t, err)
	require.Len(t, res.Records, 4)
	for _, r := range res.Records {
		assert.Equal(t, 0.0, r.Handwriting.BoundingBox().MinX)
		assert.Equal(t, 0.0, r.Handwriting.BoundingBox().MinY)
	}

	res, err = New(Config{Order: PreprocessFirst}).Assemble(context.Background(), records(t, 2), mult, pipeline)
	require.NoError(t, err)
	require.Len(t, res.Records, 4)
	assert.Equal(t, 0.0, res.Records[0].Handwriting.BoundingBox().MinX)
	assert.Less(t, res.Records[2].Handwriting.BoundingBox().MinY, 0.0)
}

func TestAssemble_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{Workers: 2}).Assemble(ctx, records(t, 3), nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromFile(t *testing.T) {
	f, err := config.Parse([]byte(`
preprocessing:
  - ScaleAndShift: null
  - SpaceEvenly: {number: 10}
multiplication:
  - Multiply: {nr: 2}
workers: 3
order: preprocess-first
`), "yaml")
	require.NoError(t, err)

	a, mult, pipeline, err := FromFile(f)
	require.NoError(t, err)
	assert.Equal(t, Config{Workers: 3, Order: PreprocessFirst}, a.cfg)
	assert.Len(t, mult, 1)
	assert.Equal(t, []string{"ScaleAndShift", "SpaceEvenly"}, pipeline.Names())

	res, err := a.Assemble(context.Background(), records(t, 2), mult, pipeline)
	require.NoError(t, err)
	assert.Len(t, res.Records, 4)

	f.Order = "sideways"
	_, _, _, err = FromFile(f)
	assert.True(t, errors.Is(err, config.ErrConfiguration))
}
