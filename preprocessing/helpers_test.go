package preprocessing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/juruen/hwrt/handwriting"
)

func symbol(t *testing.T, rawDataID int) *handwriting.HandwrittenData {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "symbols", fmt.Sprintf("%d.json", rawDataID)))
	require.NoError(t, err)
	h, err := handwriting.New(data, handwriting.WithRawDataID(fmt.Sprint(rawDataID)))
	require.NoError(t, err)
	return h
}

func allSymbols(t *testing.T) []*handwriting.HandwrittenData {
	t.Helper()
	files, err := filepath.Glob(filepath.Join("testdata", "symbols", "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	out := make([]*handwriting.HandwrittenData, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		id := strings.TrimSuffix(filepath.Base(f), ".json")
		h, err := handwriting.New(data, handwriting.WithRawDataID(id))
		require.NoError(t, err, f)
		out = append(out, h)
	}
	return out
}

func parse(t *testing.T, raw string) *handwriting.HandwrittenData {
	t.Helper()
	h, err := handwriting.New([]byte(raw))
	require.NoError(t, err)
	return h
}

func stroke(points ...[3]float64) handwriting.Stroke {
	s := make(handwriting.Stroke, len(points))
	for i, p := range points {
		s[i] = handwriting.Point{X: p[0], Y: p[1], Time: int64(p[2])}
	}
	return s
}

func apply(t *testing.T, a Algorithm, pl handwriting.Pointlist) handwriting.Pointlist {
	t.Helper()
	h := handwriting.FromPointlist(pl)
	require.NoError(t, h.Preprocessing([]handwriting.Transform{a}))
	return h.Pointlist()
}
