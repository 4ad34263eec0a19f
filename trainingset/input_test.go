package trainingset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/hwrt/archive"
	"github.com/juruen/hwrt/encoding/rm"
	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/store"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestReadRecords(t *testing.T) {
	ctx := context.Background()
	pl := handwriting.Pointlist{{{X: 1, Y: 2, Time: 0}, {X: 3, Y: 4, Time: 16}}}
	h := handwriting.FromPointlist(pl)

	t.Run("record list", func(t *testing.T) {
		path := writeFile(t, "set.json", []byte(`[{"id": 7, "formula_id": 1, "formula_in_latex": "x", "handwriting": [[{"x": 1, "y": 2, "time": 0}]]}]`))
		rs, _, err := ReadRecords(ctx, path)
		require.NoError(t, err)
		require.Len(t, rs, 1)
		assert.Equal(t, 7, rs[0].ID)
		assert.Equal(t, "7", rs[0].Handwriting.RawDataID())
	})

	t.Run("pointlist", func(t *testing.T) {
		path := writeFile(t, "a.json", []byte(`[[{"x": 1, "y": 2, "time": 0}, {"x": 3, "y": 4, "time": 16}]]`))
		rs, _, err := ReadRecords(ctx, path)
		require.NoError(t, err)
		require.Len(t, rs, 1)
		assert.Equal(t, "a.json", rs[0].Handwriting.RawDataID())
		assert.True(t, h.Equal(rs[0].Handwriting, 0))
	})

	t.Run("page", func(t *testing.T) {
		data, err := rm.FromHandwriting(h).MarshalBinary()
		require.NoError(t, err)
		rs, _, err := ReadRecords(ctx, writeFile(t, "note.rm", data))
		require.NoError(t, err)
		require.Len(t, rs, 1)
		assert.Equal(t, "note", rs[0].Handwriting.RawDataID())
		assert.True(t, h.Equal(rs[0].Handwriting, 1e-6))
	})

	t.Run("notebook", func(t *testing.T) {
		z := archive.NewZip()
		z.AddPage(h)
		z.AddPage(h)
		var b bytes.Buffer
		require.NoError(t, z.Write(&b))

		rs, _, err := ReadRecords(ctx, writeFile(t, "book.rmdoc", b.Bytes()))
		require.NoError(t, err)
		require.Len(t, rs, 2)
		assert.Equal(t, z.UUID+"/1", rs[1].Handwriting.RawDataID())
	})

	t.Run("store", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "raw.db")
		s, err := store.Open(path)
		require.NoError(t, err)
		require.NoError(t, s.Put(ctx, handwriting.Record{ID: 3, FormulaID: 9, Handwriting: h}))
		require.NoError(t, s.Close())

		rs, _, err := ReadRecords(ctx, path)
		require.NoError(t, err)
		require.Len(t, rs, 1)
		assert.Equal(t, 9, rs[0].FormulaID)
	})

	t.Run("record list with a bad record", func(t *testing.T) {
		path := writeFile(t, "set.json", []byte(`[
			{"id": 1, "formula_id": 31, "formula_in_latex": "A", "handwriting": [[{"x": 1, "y": 2, "time": 0}]]},
			{"id": 2, "formula_id": 31, "formula_in_latex": "A", "handwriting": "not strokes"}
		]`))
		rs, failed, err := ReadRecords(ctx, path)
		require.NoError(t, err)
		require.Len(t, rs, 1)
		assert.Equal(t, 1, rs[0].ID)
		require.Len(t, failed, 1)
		assert.Equal(t, 2, failed[0].ID)
		assert.ErrorIs(t, failed[0], handwriting.ErrMalformedInput)
	})

	t.Run("empty record list", func(t *testing.T) {
		rs, failed, err := ReadRecords(ctx, writeFile(t, "empty.json", []byte(`[]`)))
		require.NoError(t, err)
		assert.Empty(t, rs)
		assert.Empty(t, failed)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := ReadRecords(ctx, writeFile(t, "x.json", []byte(`{"x": 1}`)))
		assert.ErrorIs(t, err, handwriting.ErrMalformedInput)

		_, _, err = ReadRecords(ctx, writeFile(t, "x.rm", []byte("nope")))
		assert.Error(t, err)
	})
}
