// Package trainingset assembles the final training set: it expands the
// records with data multiplication and normalizes every recording with a
// preprocessing pipeline.
package trainingset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/juruen/hwrt/config"
	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/log"
	"github.com/juruen/hwrt/multiplication"
	"github.com/juruen/hwrt/preprocessing"
	"github.com/juruen/hwrt/util"
)

// Order selects which phase runs first.
type Order int

const (
	// MultiplyFirst multiplies the raw records, then preprocesses
	// originals and synthetic records alike.
	MultiplyFirst Order = iota
	// PreprocessFirst normalizes the originals and multiplies the
	// normalized records.
	PreprocessFirst
)

// ParseOrder maps the config file spelling to an Order. The empty string
// means MultiplyFirst.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", config.OrderMultiplyFirst:
		return MultiplyFirst, nil
	case config.OrderPreprocessFirst:
		return PreprocessFirst, nil
	}
	return 0, config.Errorf("unknown phase order %q", s)
}

func (o Order) String() string {
	if o == PreprocessFirst {
		return config.OrderPreprocessFirst
	}
	return config.OrderMultiplyFirst
}

// Config holds assembler settings.
type Config struct {
	// Workers bounds how many records are preprocessed concurrently.
	Workers int64
	Order   Order
}

// Failure is a record that was dropped, either because it did not decode
// or because its pipeline failed.
type Failure = handwriting.Failure

// Result is the assembled training set.
type Result struct {
	Records []handwriting.Record
	Failed  []Failure
}

// Assembler sequences multiplication and preprocessing.
type Assembler struct {
	cfg Config
	log *log.Logger
}

// New returns an assembler. Workers below 1 means one worker.
func New(cfg Config) *Assembler {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Assembler{cfg: cfg, log: log.Named("trainingset")}
}

// FromFile builds the multiplication queue, the pipeline and the assembler
// described by a pipeline file.
func FromFile(f *config.File) (*Assembler, []multiplication.Multiplier, preprocessing.Pipeline, error) {
	order, err := ParseOrder(f.Order)
	if err != nil {
		return nil, nil, nil, err
	}
	mult, err := multiplication.GetMultiplicationQueue(f.Multiplication)
	if err != nil {
		return nil, nil, nil, err
	}
	pipeline, err := preprocessing.GetPreprocessingQueue(f.Preprocessing)
	if err != nil {
		return nil, nil, nil, err
	}
	return New(Config{Workers: f.Workers, Order: order}), mult, pipeline, nil
}

// Assemble returns the multiplied and preprocessed training set. The input
// records are not modified. A record whose pipeline fails is left out and
// reported in Result.Failed; all other records are kept in input order.
func (a *Assembler) Assemble(ctx context.Context, records []handwriting.Record, mult []multiplication.Multiplier, pipeline preprocessing.Pipeline) (Result, error) {
	start := time.Now()
	set := make([]handwriting.Record, len(records))
	for i, r := range records {
		set[i] = r.Clone()
	}

	var (
		res Result
		err error
	)
	switch a.cfg.Order {
	case PreprocessFirst:
		res, err = a.Preprocess(ctx, set, pipeline)
		if err == nil {
			res.Records = multiplication.TrainingSetMultiplication(res.Records, mult)
		}
	default:
		set = multiplication.TrainingSetMultiplication(set, mult)
		res, err = a.Preprocess(ctx, set, pipeline)
	}
	if err != nil {
		return Result{}, err
	}

	a.log.Info().
		Int("input", len(records)).
		Int("output", len(res.Records)).
		Int("failed", len(res.Failed)).
		Str("order", a.cfg.Order.String()).
		Str("took", util.ReadableTime(time.Since(start).Milliseconds())).
		Msg("assembled training set")
	return res, nil
}

// Preprocess applies pipeline to every record in place, running up to
// Workers records at a time.
func (a *Assembler) Preprocess(ctx context.Context, set []handwriting.Record, pipeline preprocessing.Pipeline) (Result, error) {
	errs := make([]error, len(set))
	sem := semaphore.NewWeighted(a.cfg.Workers)
	var wg sync.WaitGroup

	for i := range set {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return Result{}, err
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return Result{}, err
		}
		wg.Add(1)
		go func(i int) {
			defer sem.Release(1)
			defer wg.Done()
			if set[i].Handwriting == nil {
				errs[i] = fmt.Errorf("no handwriting")
				return
			}
			errs[i] = pipeline.Apply(set[i].Handwriting)
		}(i)
	}
	wg.Wait()

	res := Result{Records: make([]handwriting.Record, 0, len(set))}
	for i, r := range set {
		if errs[i] == nil {
			res.Records = append(res.Records, r)
			continue
		}
		f := Failure{ID: r.ID, Err: errs[i]}
		if r.Handwriting != nil {
			f.RawDataID = r.Handwriting.RawDataID()
		}
		a.log.Warn().Err(errs[i]).Int("id", r.ID).Str("raw_data_id", f.RawDataID).Msg("dropping record")
		res.Failed = append(res.Failed, f)
	}
	return res, nil
}
