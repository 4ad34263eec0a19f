// Package store keeps raw training records in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS raw_records (
	id               INTEGER PRIMARY KEY,
	raw_data_id      TEXT    NOT NULL,
	formula_id       INTEGER NOT NULL,
	formula_in_latex TEXT    NOT NULL,
	is_in_testset    INTEGER NOT NULL DEFAULT 0,
	handwriting      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS raw_records_formula ON raw_records(formula_id);
`

// Store is a handle on one database file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and makes sure the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}
	log.Trace().Str("path", path).Msg("store opened")
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

// Put inserts or replaces records in one transaction.
func (s *Store) Put(ctx context.Context, records ...handwriting.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO raw_records
			(id, raw_data_id, formula_id, formula_in_latex, is_in_testset, handwriting)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing insert")
	}
	defer stmt.Close()

	for _, r := range records {
		if r.Handwriting == nil {
			return fmt.Errorf("record %d has no handwriting", r.ID)
		}
		data, err := r.Handwriting.MarshalJSON()
		if err != nil {
			return errors.Wrapf(err, "encoding record %d", r.ID)
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Handwriting.RawDataID(), r.FormulaID,
			r.FormulaInLatex, r.IsInTestset, string(data)); err != nil {
			return errors.Wrapf(err, "inserting record %d", r.ID)
		}
	}
	return errors.Wrap(tx.Commit(), "committing records")
}

// Records returns stored records ordered by id. A nil testset returns all
// of them, otherwise only those with the given test set flag.
func (s *Store) Records(ctx context.Context, testset *bool) ([]handwriting.Record, []handwriting.Failure, error) {
	query := `SELECT id, raw_data_id, formula_id, formula_in_latex, is_in_testset, handwriting
		FROM raw_records`
	var args []interface{}
	if testset != nil {
		query += ` WHERE is_in_testset = ?`
		args = append(args, *testset)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying records")
	}
	defer rows.Close()

	var (
		records []handwriting.Record
		failed  []handwriting.Failure
	)
	for rows.Next() {
		var (
			r       handwriting.Record
			rawID   string
			strokes string
		)
		if err := rows.Scan(&r.ID, &rawID, &r.FormulaID, &r.FormulaInLatex, &r.IsInTestset, &strokes); err != nil {
			return nil, nil, errors.Wrap(err, "scanning record")
		}
		r.Handwriting, err = handwriting.New([]byte(strokes),
			handwriting.WithRawDataID(rawID),
			handwriting.WithFormula(r.FormulaID, r.FormulaInLatex),
			handwriting.WithTestset(r.IsInTestset))
		if err != nil {
			log.Warning().Err(err).Int("id", r.ID).Str("raw_data_id", rawID).Msg("skipping stored record")
			failed = append(failed, handwriting.Failure{ID: r.ID, RawDataID: rawID, Err: err})
			continue
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "reading records")
	}
	return records, failed, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM raw_records`).Scan(&n)
	return n, errors.Wrap(err, "counting records")
}
