package statistics

import (
	"costdb/pkg/dberror"
	"costdb/pkg/primitives"
	"costdb/pkg/types"
)

// Histogram is the per-column frequency distribution kept by TableStats.
// The concrete histogram (*IntHistogram or *StringHistogram) is chosen once
// per column from the column type when the table is analyzed.
type Histogram interface {
	// Kind returns the column type the histogram accepts.
	Kind() types.Type

	// AddField records one column value.
	AddField(f types.Field) error

	// EstimateFieldSelectivity returns the fraction of recorded values
	// satisfying "value op constant".
	EstimateFieldSelectivity(op primitives.Predicate, constant types.Field) (float64, error)

	// AvgSelectivity is a heuristic selectivity for predicates whose
	// constant is not known.
	AvgSelectivity() float64

	// Sum returns the number of recorded values.
	Sum() int64
}

// NewColumnHistogram creates the histogram for a column of type t. Integer
// columns use the observed [min, max]; string columns ignore the bounds and
// use the fixed encoded-string domain.
func NewColumnHistogram(t types.Type, buckets int, min, max int64) (Histogram, error) {
	switch t {
	case types.IntType:
		return NewIntHistogram(buckets, min, max)
	case types.StringType:
		return NewStringHistogram(buckets)
	default:
		return nil, dberror.New(dberror.ErrCategoryUser, dberror.CodeTypeMismatch, "no histogram for column type").
			WithDetail("type %s", t)
	}
}

// fieldValue maps a field onto the integer domain its histogram is built
// over.
func fieldValue(f types.Field) (int64, error) {
	switch v := f.(type) {
	case *types.IntField:
		return v.Value, nil
	case *types.StringField:
		return EncodeString(v.Value), nil
	default:
		return 0, dberror.New(dberror.ErrCategoryUser, dberror.CodeTypeMismatch, "unsupported field").
			WithDetail("type %T", f)
	}
}

func checkKind(expected types.Type, f types.Field) error {
	if f == nil {
		return dberror.New(dberror.ErrCategoryUser, dberror.CodeTypeMismatch, "nil field")
	}
	if f.Type() != expected {
		return dberror.TypeMismatch(expected, f.Type())
	}
	return nil
}
