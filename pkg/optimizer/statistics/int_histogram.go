package statistics

import (
	"costdb/pkg/dberror"
	"costdb/pkg/primitives"
	"costdb/pkg/types"
	"fmt"
)

// IntHistogram is an equal-width histogram over an integer domain.
type IntHistogram struct {
	layout  bucketLayout
	buckets []int64
	sum     int64
}

// NewIntHistogram creates a histogram with the given number of buckets over
// [min, max]. The bucket count is reduced to max-min+1 when the domain is
// narrower, so no bucket has an empty range.
func NewIntHistogram(buckets int, min, max int64) (*IntHistogram, error) {
	if buckets < 1 {
		return nil, fmt.Errorf("histogram needs at least one bucket, got %d", buckets)
	}
	if max < min {
		return nil, fmt.Errorf("invalid histogram domain [%d, %d]", min, max)
	}

	layout := newBucketLayout(buckets, min, max)
	return &IntHistogram{
		layout:  layout,
		buckets: make([]int64, layout.n),
	}, nil
}

// AddValue records v. Values outside the domain are ignored.
func (h *IntHistogram) AddValue(v int64) {
	if !h.layout.contains(v) {
		return
	}
	h.buckets[h.layout.index(v)]++
	h.sum++
}

// EstimateSelectivity estimates the fraction of recorded values satisfying
// "value op v". Every estimate is 0 while the histogram is empty.
func (h *IntHistogram) EstimateSelectivity(op primitives.Predicate, v int64) (float64, error) {
	if op == primitives.Like {
		return 0, dberror.UnsupportedPredicate(op)
	}
	if h.sum == 0 {
		return 0, nil
	}

	if !h.layout.contains(v) {
		below := v < h.layout.min
		switch op {
		case primitives.Equals:
			return 0, nil
		case primitives.NotEqual:
			return 1, nil
		case primitives.LessThan, primitives.LessThanOrEqual:
			if below {
				return 0, nil
			}
			return 1, nil
		default:
			if below {
				return 1, nil
			}
			return 0, nil
		}
	}

	switch op {
	case primitives.Equals:
		return h.equals(v), nil
	case primitives.NotEqual:
		return 1 - h.equals(v), nil
	case primitives.LessThan:
		return h.lessThan(v), nil
	case primitives.LessThanOrEqual:
		return h.lessThan(v) + h.equals(v), nil
	case primitives.GreaterThan:
		return clamp01(1 - h.lessThan(v) - h.equals(v)), nil
	case primitives.GreaterThanOrEqual:
		return clamp01(1 - h.lessThan(v)), nil
	default:
		return 0, dberror.UnsupportedPredicate(op)
	}
}

func (h *IntHistogram) equals(v int64) float64 {
	idx := h.layout.index(v)
	return float64(h.buckets[idx]) / (h.layout.bucketWidth(idx) * float64(h.sum))
}

// lessThan counts every bucket before v's bucket plus the share of v's
// bucket holding values below v.
func (h *IntHistogram) lessThan(v int64) float64 {
	idx := h.layout.index(v)

	var count float64
	for i := 0; i < idx; i++ {
		count += float64(h.buckets[i])
	}

	lo, _ := h.layout.bounds(idx)
	below := float64(h.layout.offset(v) - lo)
	count += float64(h.buckets[idx]) * below / h.layout.bucketWidth(idx)

	return count / float64(h.sum)
}

// AvgSelectivity returns the sum of bucket counts over the number of recorded
// values, or 0 when nothing was recorded.
func (h *IntHistogram) AvgSelectivity() float64 {
	if h.sum == 0 {
		return 0
	}
	var total int64
	for _, c := range h.buckets {
		total += c
	}
	return float64(total) / float64(h.sum)
}

func (h *IntHistogram) Kind() types.Type {
	return types.IntType
}

func (h *IntHistogram) AddField(f types.Field) error {
	if err := checkKind(types.IntType, f); err != nil {
		return err
	}
	v, err := fieldValue(f)
	if err != nil {
		return err
	}
	h.AddValue(v)
	return nil
}

func (h *IntHistogram) EstimateFieldSelectivity(op primitives.Predicate, constant types.Field) (float64, error) {
	if err := checkKind(types.IntType, constant); err != nil {
		return 0, err
	}
	v, err := fieldValue(constant)
	if err != nil {
		return 0, err
	}
	return h.EstimateSelectivity(op, v)
}

func (h *IntHistogram) Sum() int64 {
	return h.sum
}

// NumBuckets returns the effective bucket count.
func (h *IntHistogram) NumBuckets() int {
	return h.layout.n
}

// Bounds returns the histogram's domain.
func (h *IntHistogram) Bounds() (min, max int64) {
	return h.layout.min, h.layout.max
}

func (h *IntHistogram) String() string {
	return fmt.Sprintf("IntHistogram{buckets=%d, width=%d, min=%d, max=%d, sum=%d}",
		h.layout.n, h.layout.width, h.layout.min, h.layout.max, h.sum)
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
