package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/hwrt/config"
	"github.com/juruen/hwrt/encoding/rm"
	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/render"
)

const dataset = `[
  {"id": 1, "is_in_testset": false, "formula_id": 31, "formula_in_latex": "A",
   "handwriting": [[{"x": 10, "y": 20, "time": 0}, {"x": 30, "y": 60, "time": 10}]]},
  {"id": 2, "is_in_testset": true, "formula_id": 32, "formula_in_latex": "B",
   "handwriting": [[{"x": 0, "y": 0, "time": 0}], [{"x": 5, "y": 5, "time": 20}, {"x": 9, "y": 5, "time": 30}]]}
]`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Dataset(t *testing.T) {
	ctx := &ShellCtxt{}
	require.NoError(t, ctx.load(write(t, "set.json", dataset), 1))
	assert.Len(t, ctx.records, 2)
	assert.Equal(t, "2", ctx.sample.RawDataID())
	assert.Equal(t, 2, ctx.sample.StrokeCount())

	assert.Error(t, ctx.load(write(t, "set.json", dataset), 2))
	assert.Equal(t, 1, ctx.current)
}

func TestLoad_Pointlist(t *testing.T) {
	ctx := &ShellCtxt{}
	require.NoError(t, ctx.load(write(t, "a.json", `[[{"x": 1, "y": 2, "time": 3}]]`), 0))
	assert.Equal(t, "a.json", ctx.sample.RawDataID())

	assert.Error(t, ctx.load(write(t, "bad.json", `{"x": 1}`), 0))
}

func TestLoad_SkipsBadRecord(t *testing.T) {
	ctx := &ShellCtxt{}
	require.NoError(t, ctx.load(write(t, "set.json", `[
  {"id": 1, "formula_id": 31, "formula_in_latex": "A", "handwriting": [[{"x": 1, "y": 2, "time": 0}]]},
  {"id": 2, "formula_id": 31, "formula_in_latex": "A", "handwriting": "not strokes"}
]`), 0))
	assert.Len(t, ctx.records, 1)
	require.Len(t, ctx.skipped, 1)
	assert.Equal(t, 2, ctx.skipped[0].ID)
}

func TestStatsAndStrokes(t *testing.T) {
	ctx := &ShellCtxt{}
	_, err := ctx.stats()
	assert.ErrorIs(t, err, errNoSample)
	_, err = ctx.strokes()
	assert.ErrorIs(t, err, errNoSample)

	require.NoError(t, ctx.load(write(t, "set.json", `[{"id": 1, "handwriting": [
    [{"x": 5, "y": 5, "time": 40}, {"x": 9, "y": 5, "time": 55}],
    [{"x": 0, "y": 0, "time": 10}]
  ]}]`), 0))

	stats, err := ctx.stats()
	require.NoError(t, err)
	assert.Contains(t, stats, "time: [10, 55]\n")
	assert.Contains(t, stats, "duration: 45 ms\n")
	assert.Contains(t, stats, "dots: 1\n")

	strokes, err := ctx.strokes()
	require.NoError(t, err)
	assert.Equal(t, "  stroke 0: 1 points from 10 ms\n  stroke 1: 2 points from 40 ms\n", strokes)
}

func TestLoad_Page(t *testing.T) {
	h := handwriting.FromPointlist(handwriting.Pointlist{{{X: 1, Y: 2}, {X: 3, Y: 4, Time: 16}}})
	data, err := rm.FromHandwriting(h).MarshalBinary()
	require.NoError(t, err)

	ctx := &ShellCtxt{}
	require.NoError(t, ctx.load(write(t, "page.rm", string(data)), 0))
	assert.Equal(t, "page", ctx.sample.RawDataID())
	assert.True(t, h.Equal(ctx.sample, 1e-6))
}

func TestApplyReset(t *testing.T) {
	ctx := &ShellCtxt{}
	assert.ErrorIs(t, ctx.apply(), errNoSample)

	require.NoError(t, ctx.load(write(t, "set.json", dataset), 0))
	require.NoError(t, ctx.setPipeline([]string{"ScaleAndShift"}))
	require.NoError(t, ctx.apply())

	b := ctx.sample.BoundingBox()
	assert.Equal(t, 0.0, b.MinX)
	assert.Equal(t, 1.0, b.MaxY)
	assert.Equal(t, 10.0, ctx.records[0].Handwriting.BoundingBox().MinX)

	require.NoError(t, ctx.reset())
	assert.Equal(t, 10.0, ctx.sample.BoundingBox().MinX)
}

func TestSetPipeline(t *testing.T) {
	ctx := &ShellCtxt{}
	require.NoError(t, ctx.setPipeline([]string{"RemoveDots", "SpaceEvenly"}))
	assert.Equal(t, []string{"RemoveDots", "SpaceEvenly"}, ctx.pipeline.Names())

	cfg := write(t, "p.yml", "preprocessing:\n  - ScaleAndShift:\n      center: true\n  - DouglasPeucker\n")
	require.NoError(t, ctx.setPipeline([]string{cfg}))
	assert.Equal(t, []string{"ScaleAndShift", "DouglasPeucker"}, ctx.pipeline.Names())

	err := ctx.setPipeline([]string{"Nope"})
	assert.ErrorIs(t, err, config.ErrUnknownName)
	assert.Equal(t, []string{"ScaleAndShift", "DouglasPeucker"}, ctx.pipeline.Names())
}

func TestRecordAndPNG(t *testing.T) {
	ctx := &ShellCtxt{}
	require.NoError(t, ctx.load(write(t, "set.json", dataset), 1))
	r := ctx.record()
	assert.Equal(t, 2, r.ID)
	assert.Equal(t, "B", r.FormulaInLatex)

	out := filepath.Join(t.TempDir(), "b.png")
	require.NoError(t, writePNG(out, ctx.sample, render.DefaultOptions()))
	fi, err := os.Stat(out)
	require.NoError(t, err)
	assert.NotZero(t, fi.Size())
}
