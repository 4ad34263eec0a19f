package hwr

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/hwrt/handwriting"
)

func sample() *handwriting.HandwrittenData {
	return handwriting.FromPointlist(handwriting.Pointlist{
		{{X: 10, Y: 20, Time: 100}, {X: 12.5, Y: 30, Time: 116}},
		{},
		{{X: 20, Y: 25, Time: 200}},
	})
}

func TestNewBatchInput(t *testing.T) {
	in := NewBatchInput(sample(), Math, "en_US")
	assert.Equal(t, "Math", in.ContentType)
	assert.Equal(t, "en_US", in.Configuration.Lang)
	assert.Equal(t, int32(10), in.Width)
	assert.Equal(t, int32(10), in.Height)

	strokes := in.StrokeGroups[0].Strokes
	require.Len(t, strokes, 2)
	assert.Equal(t, []float32{0, 2.5}, strokes[0].X)
	assert.Equal(t, []float32{0, 10}, strokes[0].Y)
	assert.Equal(t, []int64{100, 116}, strokes[0].T)
	assert.Equal(t, []float32{10}, strokes[1].X)

	assert.Nil(t, NewBatchInput(sample(), Text, "").Configuration)
}

func TestExtractText(t *testing.T) {
	cases := map[string]struct {
		in, want string
	}{
		"plain":  {"  x^2 \n", "x^2"},
		"text":   {`{"type": "Text", "text": "hello"}`, "hello"},
		"label":  {`{"label": "\\alpha"}`, `\alpha`},
		"words":  {`{"words": [{"label": "a"}, {"label": ""}, {"label": "b"}]}`, "a b"},
		"chars":  {`{"chars": [{"label": "a"}, {"label": "b"}]}`, "ab"},
		"broken": {`{"text": `, `{"text":`},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.want, ExtractText([]byte(c.in)))
		})
	}
}

func TestParseContentType(t *testing.T) {
	assert.Equal(t, Text, ParseContentType("TEXT"))
	assert.Equal(t, Diagram, ParseContentType("diagram"))
	assert.Equal(t, Math, ParseContentType(""))
	assert.Equal(t, "application/x-latex", Math.MimeType())
}

func server(t *testing.T, c *Client) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Header.Get("hmac") != c.Sign(body) || r.Header.Get("applicationKey") != c.ApplicationKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var in BatchInput
		if err := json.Unmarshal(body, &in); err != nil || len(in.StrokeGroups[0].Strokes) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, "too short")
			return
		}
		io.WriteString(w, `{"label": "\\sum"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRecognize(t *testing.T) {
	c := &Client{ApplicationKey: "app", HMACKey: "secret"}
	c.Endpoint = server(t, c).URL

	text, err := c.Recognize(context.Background(), sample(), Math, "")
	require.NoError(t, err)
	assert.Equal(t, `\sum`, text)

	_, err = c.Recognize(context.Background(), handwriting.FromPointlist(handwriting.Pointlist{}), Math, "")
	assert.ErrorIs(t, err, ErrNoContent)

	bad := &Client{Endpoint: c.Endpoint, ApplicationKey: "app", HMACKey: "wrong"}
	_, err = bad.Recognize(context.Background(), sample(), Math, "")
	assert.ErrorContains(t, err, "status 401")
}

func TestRecognizeAll(t *testing.T) {
	c := &Client{ApplicationKey: "app", HMACKey: "secret"}
	c.Endpoint = server(t, c).URL

	one := handwriting.FromPointlist(handwriting.Pointlist{{{X: 1, Y: 1}}})
	records := []handwriting.Record{
		{ID: 1, Handwriting: sample()},
		{ID: 2, Handwriting: one},
		{ID: 3},
		{ID: 4, Handwriting: sample()},
	}
	results, err := c.RecognizeAll(context.Background(), records, Math, "", 2)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, Result{ID: 1, Text: `\sum`}, results[0])
	assert.ErrorContains(t, results[1].Err, "too short")
	assert.ErrorIs(t, results[2].Err, ErrNoContent)
	assert.Equal(t, 4, results[3].ID)
	assert.Equal(t, `\sum`, results[3].Text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.RecognizeAll(ctx, records, Math, "", 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv("HWRT_HWR_APPLICATIONKEY", "")
	t.Setenv("HWRT_HWR_HMAC", "")
	_, err := NewClientFromEnv()
	assert.ErrorIs(t, err, ErrCredentials)

	t.Setenv("HWRT_HWR_APPLICATIONKEY", "a")
	t.Setenv("HWRT_HWR_HMAC", "b")
	c, err := NewClientFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, c.Endpoint)
}
