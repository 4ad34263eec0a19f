// Package hwr sends recordings to a MyScript iink compatible batch
// recognition endpoint. It is used to suggest labels for unlabeled
// recordings such as converted reMarkable pages.
package hwr

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/log"
)

// ContentType selects the recognizer.
type ContentType string

const (
	Math    ContentType = "Math"
	Text    ContentType = "Text"
	Diagram ContentType = "Diagram"
)

// ParseContentType is case insensitive and defaults to Math.
func ParseContentType(s string) ContentType {
	switch strings.ToLower(s) {
	case "text":
		return Text
	case "diagram":
		return Diagram
	}
	return Math
}

// MimeType is the result format requested for the content type.
func (c ContentType) MimeType() string {
	switch c {
	case Text:
		return "text/plain"
	case Diagram:
		return "image/svg+xml"
	}
	return "application/x-latex"
}

// NewBatchInput builds the request for one recording. The canvas is the
// bounding box of the recording moved to the origin.
func NewBatchInput(h *handwriting.HandwrittenData, contentType ContentType, lang string) *BatchInput {
	b := h.BoundingBox()
	sg := &StrokeGroup{}
	for _, s := range h.Pointlist() {
		if len(s) == 0 {
			continue
		}
		stroke := &Stroke{
			X:           make([]float32, len(s)),
			Y:           make([]float32, len(s)),
			T:           make([]int64, len(s)),
			PointerType: "PEN",
		}
		for i, p := range s {
			stroke.X[i] = float32(p.X - b.MinX)
			stroke.Y[i] = float32(p.Y - b.MinY)
			stroke.T[i] = p.Time
		}
		sg.Strokes = append(sg.Strokes, stroke)
	}

	in := &BatchInput{
		ContentType:  string(contentType),
		StrokeGroups: []*StrokeGroup{sg},
		Width:        int32(math.Ceil(b.Width())),
		Height:       int32(math.Ceil(b.Height())),
	}
	if lang != "" {
		in.Configuration = &Configuration{Lang: lang}
	}
	return in
}

// ExtractText returns the recognized text of a response. JIIX documents
// are searched for text, label, words and chars in that order; anything
// else is returned trimmed as is.
func ExtractText(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return string(data)
	}
	var doc jiix
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Trace().Err(err).Msg("response is not jiix")
		return string(data)
	}
	switch {
	case doc.Text != "":
		return doc.Text
	case doc.Label != "":
		return doc.Label
	case len(doc.Words) > 0:
		words := make([]string, 0, len(doc.Words))
		for _, w := range doc.Words {
			if w.Label != "" {
				words = append(words, w.Label)
			}
		}
		return strings.Join(words, " ")
	case len(doc.Chars) > 0:
		var sb strings.Builder
		for _, c := range doc.Chars {
			sb.WriteString(c.Label)
		}
		return sb.String()
	}
	return string(data)
}

// Result is the recognition outcome of one record.
type Result struct {
	ID   int
	Text string
	Err  error
}

// RecognizeAll recognizes records with at most workers requests in flight.
// Results are in input order.
func (c *Client) RecognizeAll(ctx context.Context, records []handwriting.Record, contentType ContentType, lang string, workers int64) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(records))
	sem := semaphore.NewWeighted(workers)
	var wg sync.WaitGroup
	for i, r := range records {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, r handwriting.Record) {
			defer sem.Release(1)
			defer wg.Done()
			results[i].ID = r.ID
			if r.Handwriting == nil {
				results[i].Err = ErrNoContent
				return
			}
			results[i].Text, results[i].Err = c.Recognize(ctx, r.Handwriting, contentType, lang)
			if results[i].Err != nil {
				log.Warning().Err(results[i].Err).Int("id", r.ID).Msg("recognition failed")
			}
		}(i, r)
	}
	wg.Wait()
	return results, nil
}
