package statistics

import (
	"costdb/pkg/dberror"
	"costdb/pkg/iterator"
	"costdb/pkg/primitives"
	"costdb/pkg/tuple"
	"costdb/pkg/types"
	"fmt"
)

const (
	sideA = 0
	sideB = 1

	borderBelow = 0
	borderAbove = 1
)

// JointHistogram estimates the cardinality of "a op b" between a column of
// one table (side A) and a column of another (side B). Both sides are
// bucketed with the same partition of side A's domain, so bucket counts can
// be compared directly instead of assuming the two columns are independent.
//
// Side-B values outside the domain are tallied in border counters and still
// count towards side B's total. Side-A values outside the domain are
// ignored.
type JointHistogram struct {
	layout  bucketLayout
	kind    types.Type
	counter [2][]int64
	border  [2]int64
	sum     [2]int64
}

// NewJointHistogram creates an integer joint histogram over side A's domain
// [min, max].
func NewJointHistogram(buckets int, min, max int64) (*JointHistogram, error) {
	if buckets < 1 {
		return nil, fmt.Errorf("histogram needs at least one bucket, got %d", buckets)
	}
	if max < min {
		return nil, fmt.Errorf("invalid histogram domain [%d, %d]", min, max)
	}
	return newJointHistogram(types.IntType, newBucketLayout(buckets, min, max)), nil
}

// NewStringJointHistogram creates a joint histogram over the encoded string
// domain.
func NewStringJointHistogram(buckets int) (*JointHistogram, error) {
	if buckets < 1 {
		return nil, fmt.Errorf("histogram needs at least one bucket, got %d", buckets)
	}
	return newJointHistogram(types.StringType, newBucketLayout(buckets, StringDomainMin, StringDomainMax)), nil
}

func newJointHistogram(kind types.Type, layout bucketLayout) *JointHistogram {
	return &JointHistogram{
		layout:  layout,
		kind:    kind,
		counter: [2][]int64{make([]int64, layout.n), make([]int64, layout.n)},
	}
}

func (h *JointHistogram) Kind() types.Type {
	return h.kind
}

func (h *JointHistogram) add(side int, v int64) {
	if !h.layout.contains(v) {
		if side == sideB {
			if v < h.layout.min {
				h.border[borderBelow]++
			} else {
				h.border[borderAbove]++
			}
			h.sum[sideB]++
		}
		return
	}
	h.counter[side][h.layout.index(v)]++
	h.sum[side]++
}

func (h *JointHistogram) addField(side int, f types.Field) error {
	if err := checkKind(h.kind, f); err != nil {
		return err
	}
	v, err := fieldValue(f)
	if err != nil {
		return err
	}
	h.add(side, v)
	return nil
}

// AddValueSideA records a value of side A's column.
func (h *JointHistogram) AddValueSideA(f types.Field) error {
	return h.addField(sideA, f)
}

// AddValueSideB records a value of side B's column.
func (h *JointHistogram) AddValueSideB(f types.Field) error {
	return h.addField(sideB, f)
}

// AddValuesFromIterators scans column colA of iterA into side A, then
// column colB of iterB into side B. Each iterator goes through a full
// open, rewind, iterate, close cycle.
func (h *JointHistogram) AddValuesFromIterators(iterA iterator.DbFileIterator, colA int, iterB iterator.DbFileIterator, colB int) error {
	sides := [2]struct {
		it  iterator.DbFileIterator
		col int
	}{{iterA, colA}, {iterB, colB}}

	for side, s := range sides {
		err := iterator.ForEach(s.it, func(t *tuple.Tuple) error {
			f, err := t.GetField(s.col)
			if err != nil {
				return err
			}
			return h.addField(side, f)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Sums returns the number of values recorded on each side.
func (h *JointHistogram) Sums() (a, b int64) {
	return h.sum[sideA], h.sum[sideB]
}

// EstimateCardinality estimates how many (a, b) pairs satisfy "a op b".
func (h *JointHistogram) EstimateCardinality(op primitives.Predicate) (int64, error) {
	cross := h.sum[sideA] * h.sum[sideB]

	switch op {
	case primitives.Equals:
		return h.equals(), nil
	case primitives.NotEqual:
		return cross - h.equals(), nil
	case primitives.LessThan:
		return h.lessThan(), nil
	case primitives.LessThanOrEqual:
		return h.equals() + h.lessThan(), nil
	case primitives.GreaterThan:
		return cross - h.equals() - h.lessThan(), nil
	case primitives.GreaterThanOrEqual:
		return cross - h.lessThan(), nil
	default:
		return 0, dberror.UnsupportedPredicate(op)
	}
}

// equals sums the per-bucket overlap min(countA, countB).
func (h *JointHistogram) equals() int64 {
	var total int64
	for i := range h.counter[sideA] {
		total += min(h.counter[sideA][i], h.counter[sideB][i])
	}
	return total
}

// lessThan pairs every side-A bucket with the side-B values in later
// buckets and above the domain.
func (h *JointHistogram) lessThan() int64 {
	var total int64
	after := h.border[borderAbove]
	for i := h.layout.n - 1; i >= 0; i-- {
		total += h.counter[sideA][i] * after
		after += h.counter[sideB][i]
	}
	return total
}

func (h *JointHistogram) String() string {
	return fmt.Sprintf("JointHistogram{kind=%s, buckets=%d, min=%d, max=%d, sum=%v, border=%v}",
		h.kind, h.layout.n, h.layout.min, h.layout.max, h.sum, h.border)
}
