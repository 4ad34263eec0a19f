package handwriting

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Record is one labeled training sample.
type Record struct {
	ID             int
	IsInTestset    bool
	FormulaID      int
	FormulaInLatex string
	Handwriting    *HandwrittenData
}

// Clone returns a record owning a deep copy of the recording.
func (r Record) Clone() Record {
	c := r
	if r.Handwriting != nil {
		c.Handwriting = r.Handwriting.Clone()
	}
	return c
}

type recordJSON struct {
	ID             int             `json:"id"`
	IsInTestset    bool            `json:"is_in_testset"`
	FormulaID      int             `json:"formula_id"`
	FormulaInLatex string          `json:"formula_in_latex"`
	RawDataID      string          `json:"raw_data_id,omitempty"`
	Handwriting    json.RawMessage `json:"handwriting"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	rj := recordJSON{
		ID:             r.ID,
		IsInTestset:    r.IsInTestset,
		FormulaID:      r.FormulaID,
		FormulaInLatex: r.FormulaInLatex,
		Handwriting:    json.RawMessage("[]"),
	}
	if r.Handwriting != nil {
		b, err := r.Handwriting.MarshalJSON()
		if err != nil {
			return nil, err
		}
		rj.RawDataID = r.Handwriting.RawDataID()
		rj.Handwriting = b
	}
	return json.Marshal(rj)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var rj recordJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return errors.WithStack(fmt.Errorf("%w: %v", ErrMalformedInput, err))
	}
	if len(rj.Handwriting) == 0 {
		return errors.WithStack(fmt.Errorf("%w: record %d has no handwriting", ErrMalformedInput, rj.ID))
	}
	rawID := rj.RawDataID
	if rawID == "" {
		rawID = strconv.Itoa(rj.ID)
	}
	h, err := New(rj.Handwriting,
		WithRawDataID(rawID),
		WithFormula(rj.FormulaID, rj.FormulaInLatex),
		WithTestset(rj.IsInTestset))
	if err != nil {
		return errors.WithMessagef(err, "record %d", rj.ID)
	}
	*r = Record{
		ID:             rj.ID,
		IsInTestset:    rj.IsInTestset,
		FormulaID:      rj.FormulaID,
		FormulaInLatex: rj.FormulaInLatex,
		Handwriting:    h,
	}
	return nil
}

// Failure is a record that could not be used. ID and RawDataID are filled
// in as far as they could be read.
type Failure struct {
	ID        int
	RawDataID string
	Err       error
}

func (f Failure) Error() string {
	return fmt.Sprintf("record %d (%s): %v", f.ID, f.RawDataID, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// DecodeRecords decodes a JSON array of records one element at a time.
// Elements that do not decode are returned as failures and the rest are
// kept. The error is set only when r does not hold a JSON array.
func DecodeRecords(r io.Reader) ([]Record, []Failure, error) {
	var elems []json.RawMessage
	if err := json.NewDecoder(r).Decode(&elems); err != nil {
		return nil, nil, errors.WithStack(fmt.Errorf("%w: %v", ErrMalformedInput, err))
	}
	var (
		records []Record
		failed  []Failure
	)
	for _, elem := range elems {
		var rec Record
		if err := json.Unmarshal(elem, &rec); err != nil {
			failed = append(failed, failureOf(elem, err))
			continue
		}
		records = append(records, rec)
	}
	return records, failed, nil
}

// failureOf recovers what identity it can from a record that failed.
func failureOf(elem json.RawMessage, err error) Failure {
	f := Failure{Err: err}
	var id struct {
		ID        int    `json:"id"`
		RawDataID string `json:"raw_data_id"`
	}
	if json.Unmarshal(elem, &id) == nil {
		f.ID = id.ID
		f.RawDataID = id.RawDataID
		if f.RawDataID == "" {
			f.RawDataID = strconv.Itoa(id.ID)
		}
	}
	return f
}

// ReadRecords decodes a JSON array of records. Any record that does not
// decode fails the whole read.
func ReadRecords(r io.Reader) ([]Record, error) {
	records, failed, err := DecodeRecords(r)
	if err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		return nil, failed[0].Err
	}
	return records, nil
}

// WriteRecords encodes records as an indented JSON array.
func WriteRecords(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(records), "encoding records")
}
