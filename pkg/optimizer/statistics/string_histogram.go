package statistics

import (
	"costdb/pkg/primitives"
	"costdb/pkg/types"
	"math"
)

// String values are bucketed by an order-preserving encoding into
// [StringDomainMin, StringDomainMax].
const (
	StringDomainMin int64 = 0
	StringDomainMax int64 = math.MaxUint32
)

// EncodeString maps s to an integer using its first four bytes, big-endian
// and zero-padded. The mapping preserves byte-wise ordering for strings that
// differ within their first four bytes.
func EncodeString(s string) int64 {
	var v uint32
	for i := 0; i < 4; i++ {
		v <<= 8
		if i < len(s) {
			v |= uint32(s[i])
		}
	}
	return int64(v)
}

// StringHistogram is an IntHistogram over encoded strings.
type StringHistogram struct {
	hist *IntHistogram
}

// NewStringHistogram creates a string histogram with the given bucket count.
func NewStringHistogram(buckets int) (*StringHistogram, error) {
	hist, err := NewIntHistogram(buckets, StringDomainMin, StringDomainMax)
	if err != nil {
		return nil, err
	}
	return &StringHistogram{hist: hist}, nil
}

func (h *StringHistogram) AddValue(s string) {
	h.hist.AddValue(EncodeString(s))
}

func (h *StringHistogram) EstimateSelectivity(op primitives.Predicate, s string) (float64, error) {
	return h.hist.EstimateSelectivity(op, EncodeString(s))
}

func (h *StringHistogram) AvgSelectivity() float64 {
	return h.hist.AvgSelectivity()
}

func (h *StringHistogram) Kind() types.Type {
	return types.StringType
}

func (h *StringHistogram) AddField(f types.Field) error {
	if err := checkKind(types.StringType, f); err != nil {
		return err
	}
	v, err := fieldValue(f)
	if err != nil {
		return err
	}
	h.hist.AddValue(v)
	return nil
}

func (h *StringHistogram) EstimateFieldSelectivity(op primitives.Predicate, constant types.Field) (float64, error) {
	if err := checkKind(types.StringType, constant); err != nil {
		return 0, err
	}
	v, err := fieldValue(constant)
	if err != nil {
		return 0, err
	}
	return h.hist.EstimateSelectivity(op, v)
}

func (h *StringHistogram) Sum() int64 {
	return h.hist.Sum()
}

func (h *StringHistogram) String() string {
	return "String" + h.hist.String()
}
