// Package archive reads and writes reMarkable notebook archives: a zip
// holding <id>.content with the page order and one <id>/<page>.rm file per
// page.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/juruen/hwrt/encoding/rm"
	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/log"
)

// Content is the notebook descriptor. Older firmware lists page ids in
// Pages, newer in CPages.
type Content struct {
	FileType  string   `json:"fileType"`
	PageCount int      `json:"pageCount"`
	Pages     []string `json:"pages,omitempty"`
	CPages    *CPages  `json:"cPages,omitempty"`
}

type CPages struct {
	Pages []CPage `json:"pages"`
}

type CPage struct {
	ID      string `json:"id"`
	Deleted *struct {
		Value int `json:"value"`
	} `json:"deleted,omitempty"`
}

// pageIDs returns the ids of the visible pages in order.
func (c Content) pageIDs() []string {
	if c.CPages == nil {
		return c.Pages
	}
	ids := make([]string, 0, len(c.CPages.Pages))
	for _, p := range c.CPages.Pages {
		if p.Deleted != nil && p.Deleted.Value != 0 {
			continue
		}
		ids = append(ids, p.ID)
	}
	return ids
}

// Page is one notebook page. Data is nil for pages without ink.
type Page struct {
	ID   string
	Data *rm.Rm
}

// Zip is an in-memory notebook.
type Zip struct {
	UUID    string
	Content Content
	Pages   []Page
}

// NewZip returns an empty notebook with a fresh id.
func NewZip() *Zip {
	return &Zip{
		UUID:    uuid.NewString(),
		Content: Content{FileType: "notebook"},
	}
}

// Read loads the notebook from a zip archive.
func (z *Zip) Read(r io.ReaderAt, size int64) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return errors.Wrap(err, "opening archive")
	}

	files := make(map[string]*zip.File, len(zr.File))
	var contentFile *zip.File
	for _, f := range zr.File {
		files[f.Name] = f
		if path.Ext(f.Name) == ".content" && !strings.Contains(f.Name, "/") {
			contentFile = f
		}
	}
	if contentFile == nil {
		return fmt.Errorf("archive: no .content file")
	}
	z.UUID = strings.TrimSuffix(contentFile.Name, ".content")

	data, err := readFile(contentFile)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &z.Content); err != nil {
		return errors.Wrap(err, "decoding content")
	}

	z.Pages = nil
	for i, id := range z.Content.pageIDs() {
		page := Page{ID: id}
		f, ok := files[path.Join(z.UUID, id+".rm")]
		if !ok {
			log.Trace().Str("page", id).Int("index", i).Msg("page without ink")
			z.Pages = append(z.Pages, page)
			continue
		}
		data, err := readFile(f)
		if err != nil {
			return err
		}
		page.Data = &rm.Rm{}
		if err := page.Data.UnmarshalBinary(data); err != nil {
			return errors.WithMessagef(err, "page %d (%s)", i, id)
		}
		z.Pages = append(z.Pages, page)
	}
	return nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", f.Name)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	return data, errors.Wrapf(err, "reading %s", f.Name)
}

// AddPage appends a page holding h.
func (z *Zip) AddPage(h *handwriting.HandwrittenData) {
	id := uuid.NewString()
	z.Pages = append(z.Pages, Page{ID: id, Data: rm.FromHandwriting(h)})
	z.Content.Pages = append(z.Content.Pages, id)
	z.Content.PageCount = len(z.Pages)
}

// Write stores the notebook as a zip archive.
func (z *Zip) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	z.Content.PageCount = len(z.Pages)
	if z.Content.CPages == nil {
		z.Content.Pages = make([]string, len(z.Pages))
		for i, p := range z.Pages {
			z.Content.Pages[i] = p.ID
		}
	}
	content, err := json.Marshal(z.Content)
	if err != nil {
		return err
	}
	if err := writeFile(zw, z.UUID+".content", content); err != nil {
		return err
	}

	for _, p := range z.Pages {
		if p.Data == nil {
			continue
		}
		data, err := p.Data.MarshalBinary()
		if err != nil {
			return err
		}
		if err := writeFile(zw, path.Join(z.UUID, p.ID+".rm"), data); err != nil {
			return err
		}
	}
	return errors.Wrap(zw.Close(), "closing archive")
}

func writeFile(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return errors.Wrapf(err, "creating %s", name)
	}
	_, err = io.Copy(f, bytes.NewReader(data))
	return errors.Wrapf(err, "writing %s", name)
}

// Records converts every page with ink into an unlabeled record. Raw data
// ids are "<notebook>/<page index>".
func (z *Zip) Records() []handwriting.Record {
	var records []handwriting.Record
	for i, p := range z.Pages {
		if p.Data == nil {
			continue
		}
		h := rm.ToHandwriting(p.Data, handwriting.WithRawDataID(fmt.Sprintf("%s/%d", z.UUID, i)))
		if h.StrokeCount() == 0 {
			continue
		}
		records = append(records, handwriting.Record{Handwriting: h})
	}
	return records
}
