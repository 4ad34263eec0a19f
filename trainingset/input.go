package trainingset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/juruen/hwrt/archive"
	"github.com/juruen/hwrt/encoding/rm"
	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/store"
)

// ReadRecords loads records by file extension:
//
//	.db, .sqlite  a record store
//	.rm           a reMarkable page, one unlabeled record named after the file
//	.zip, .rmdoc  a reMarkable notebook, one unlabeled record per page
//	anything else JSON, a record list or a single pointlist
//
// Records in a store or record list that do not decode are skipped and
// returned as failures.
func ReadRecords(ctx context.Context, path string) ([]handwriting.Record, []Failure, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite":
		s, err := store.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer s.Close()
		return s.Records(ctx, nil)
	case ".zip", ".rmdoc":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		fi, err := f.Stat()
		if err != nil {
			return nil, nil, err
		}
		z := archive.NewZip()
		if err := z.Read(f, fi.Size()); err != nil {
			return nil, nil, errors.WithMessage(err, path)
		}
		return z.Records(), nil, nil
	case ".rm":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		var page rm.Rm
		if err := page.UnmarshalBinary(data); err != nil {
			return nil, nil, errors.WithMessage(err, path)
		}
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return []handwriting.Record{{Handwriting: rm.ToHandwriting(&page, handwriting.WithRawDataID(id))}}, nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if isPointlist(data) {
		h, err := handwriting.New(data, handwriting.WithRawDataID(filepath.Base(path)))
		if err != nil {
			return nil, nil, errors.WithMessage(err, path)
		}
		return []handwriting.Record{{Handwriting: h}}, nil, nil
	}
	records, failed, err := handwriting.DecodeRecords(bytes.NewReader(data))
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "%s is neither a record list nor a pointlist", path)
	}
	return records, failed, nil
}

// isPointlist reports whether data is a JSON array whose first element is
// itself an array, the shape of a stroke list.
func isPointlist(data []byte) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return false
	}
	rest := bytes.TrimSpace(data[1:])
	return len(rest) > 0 && (rest[0] == '[' || bytes.HasPrefix(rest, []byte("null")))
}
