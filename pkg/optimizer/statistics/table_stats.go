package statistics

import (
	"costdb/pkg/dberror"
	"costdb/pkg/iterator"
	"costdb/pkg/primitives"
	"costdb/pkg/storage"
	"costdb/pkg/tuple"
	"costdb/pkg/types"
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// columnBounds is the observed [min, max] of a column.
type columnBounds struct {
	min, max int64
	seen     bool
}

// TableStats holds the statistics of one table: a histogram per column, the
// tuple count and the page count used for scan costing. It is immutable
// once built.
type TableStats struct {
	tableName     string
	tupleDesc     *tuple.TupleDescription
	ioCostPerPage float64
	numPages      int
	ntups         int64
	bounds        []columnBounds
	histograms    []Histogram
}

// NewTableStats scans file twice through a single iterator: the first pass
// collects the bounds of integer columns, the second fills one histogram per
// column. Any scan failure aborts the build.
func NewTableStats(tableName string, file storage.DbFile, ioCostPerPage float64, buckets int) (*TableStats, error) {
	td := file.TupleDesc()
	ts := &TableStats{
		tableName:     tableName,
		tupleDesc:     td,
		ioCostPerPage: ioCostPerPage,
		bounds:        make([]columnBounds, td.NumFields()),
		histograms:    make([]Histogram, td.NumFields()),
	}

	if err := ts.build(file.Iterator(), buckets); err != nil {
		return nil, dberror.StatsBuildFailed(tableName, err)
	}
	ts.numPages = file.NumPages()
	return ts, nil
}

func (ts *TableStats) build(it iterator.DbFileIterator, buckets int) (err error) {
	if err = it.Open(); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, it.Close())
	}()

	if err = scanAll(it, ts.observeBounds); err != nil {
		return err
	}

	for i, t := range ts.tupleDesc.Types {
		b := ts.bounds[i]
		if !b.seen {
			b.min, b.max = 0, 0
		}
		if ts.histograms[i], err = NewColumnHistogram(t, buckets, b.min, b.max); err != nil {
			return err
		}
	}

	if err = it.Rewind(); err != nil {
		return err
	}
	return scanAll(it, ts.record)
}

// scanAll drains an already opened iterator.
func scanAll(it iterator.DbFileIterator, fn func(*tuple.Tuple) error) error {
	for {
		hasNext, err := it.HasNext()
		if err != nil {
			return err
		}
		if !hasNext {
			return nil
		}
		t, err := it.Next()
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
	}
}

func (ts *TableStats) observeBounds(t *tuple.Tuple) error {
	for i, typ := range ts.tupleDesc.Types {
		if typ != types.IntType {
			continue
		}
		f, err := t.GetField(i)
		if err != nil {
			return err
		}
		intField, ok := f.(*types.IntField)
		if !ok {
			return dberror.TypeMismatch(types.IntType, typeOf(f))
		}

		b := &ts.bounds[i]
		if !b.seen {
			b.min, b.max, b.seen = intField.Value, intField.Value, true
			continue
		}
		b.min = min(b.min, intField.Value)
		b.max = max(b.max, intField.Value)
	}
	return nil
}

func (ts *TableStats) record(t *tuple.Tuple) error {
	for i, h := range ts.histograms {
		f, err := t.GetField(i)
		if err != nil {
			return err
		}
		if err := h.AddField(f); err != nil {
			return err
		}
	}
	ts.ntups++
	return nil
}

func typeOf(f types.Field) fmt.Stringer {
	if f == nil {
		return nilType{}
	}
	return f.Type()
}

type nilType struct{}

func (nilType) String() string { return "NULL" }

// TableName returns the name of the analyzed table.
func (ts *TableStats) TableName() string {
	return ts.tableName
}

// TupleDesc returns the schema the statistics were built for.
func (ts *TableStats) TupleDesc() *tuple.TupleDescription {
	return ts.tupleDesc
}

// EstimateScanCost returns the I/O cost of a full sequential scan:
// pages * ioCostPerPage.
func (ts *TableStats) EstimateScanCost() float64 {
	return float64(ts.numPages) * ts.ioCostPerPage
}

// EstimateTableCardinality returns floor(ntups * selectivity).
func (ts *TableStats) EstimateTableCardinality(selectivity float64) int64 {
	return int64(math.Floor(float64(ts.ntups) * selectivity))
}

// TotalTuples returns the number of tuples seen while building.
func (ts *TableStats) TotalTuples() int64 {
	return ts.ntups
}

// NumPages returns the page count captured while building.
func (ts *TableStats) NumPages() int {
	return ts.numPages
}

// Histogram returns the histogram of column field.
func (ts *TableStats) Histogram(field int) (Histogram, error) {
	if field < 0 || field >= len(ts.histograms) {
		return nil, fmt.Errorf("field index %d out of bounds [0, %d) for table %s", field, len(ts.histograms), ts.tableName)
	}
	return ts.histograms[field], nil
}

// ColumnBounds returns the [min, max] used for column field's histogram.
// String columns report the encoded-string domain.
func (ts *TableStats) ColumnBounds(field int) (min, max int64, err error) {
	h, err := ts.Histogram(field)
	if err != nil {
		return 0, 0, err
	}
	if h.Kind() == types.StringType {
		return StringDomainMin, StringDomainMax, nil
	}
	min, max = h.(*IntHistogram).Bounds()
	return min, max, nil
}

// EstimateSelectivity estimates the selectivity of "field op constant".
// The constant must have the column's type.
func (ts *TableStats) EstimateSelectivity(field int, op primitives.Predicate, constant types.Field) (float64, error) {
	h, err := ts.Histogram(field)
	if err != nil {
		return 0, err
	}
	return h.EstimateFieldSelectivity(op, constant)
}

// AvgSelectivity returns the column's heuristic selectivity for op when the
// constant is unknown.
func (ts *TableStats) AvgSelectivity(field int, op primitives.Predicate) (float64, error) {
	h, err := ts.Histogram(field)
	if err != nil {
		return 0, err
	}
	if op == primitives.Like {
		return 0, dberror.UnsupportedPredicate(op)
	}
	return h.AvgSelectivity(), nil
}
