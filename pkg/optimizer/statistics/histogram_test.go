package statistics

import (
	"costdb/pkg/dberror"
	"costdb/pkg/primitives"
	"costdb/pkg/types"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func mustSel(t *testing.T, h *IntHistogram, op primitives.Predicate, v int64) float64 {
	t.Helper()
	sel, err := h.EstimateSelectivity(op, v)
	require.NoError(t, err)
	require.GreaterOrEqual(t, sel, 0.0)
	require.LessOrEqual(t, sel, 1.0+eps)
	return sel
}

func TestIntHistogramBucketCap(t *testing.T) {
	h, err := NewIntHistogram(100, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 10, h.NumBuckets())

	h, err = NewIntHistogram(3, 5, 5)
	require.NoError(t, err)
	require.Equal(t, 1, h.NumBuckets())

	_, err = NewIntHistogram(0, 0, 10)
	require.Error(t, err)
	_, err = NewIntHistogram(10, 10, 0)
	require.Error(t, err)
}

func TestIntHistogramUniform(t *testing.T) {
	h, err := NewIntHistogram(10, 1, 100)
	require.NoError(t, err)
	for v := int64(1); v <= 100; v++ {
		h.AddValue(v)
	}
	h.AddValue(0)
	h.AddValue(101)
	require.Equal(t, int64(100), h.Sum())

	for _, v := range []int64{1, 2, 50, 99, 100} {
		require.InDelta(t, 0.01, mustSel(t, h, primitives.Equals, v), eps, "EQUALS %d", v)
	}
	require.InDelta(t, 0.49, mustSel(t, h, primitives.LessThan, 50), eps)
	require.InDelta(t, 0.50, mustSel(t, h, primitives.LessThanOrEqual, 50), eps)
	require.InDelta(t, 0.50, mustSel(t, h, primitives.GreaterThan, 50), eps)
	require.InDelta(t, 0.51, mustSel(t, h, primitives.GreaterThanOrEqual, 50), eps)
	require.InDelta(t, 0.0, mustSel(t, h, primitives.LessThan, 1), eps)
	require.InDelta(t, 1.0, h.AvgSelectivity(), eps)
}

func TestIntHistogramOutOfRange(t *testing.T) {
	h, err := NewIntHistogram(10, 0, 99)
	require.NoError(t, err)
	h.AddValue(42)

	tests := []struct {
		op   primitives.Predicate
		v    int64
		want float64
	}{
		{primitives.Equals, -5, 0},
		{primitives.Equals, 500, 0},
		{primitives.NotEqual, 500, 1},
		{primitives.LessThan, -5, 0},
		{primitives.LessThanOrEqual, 500, 1},
		{primitives.GreaterThan, -5, 1},
		{primitives.GreaterThanOrEqual, 500, 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, mustSel(t, h, tt.op, tt.v), "%s %d", tt.op, tt.v)
	}
}

func TestIntHistogramEmpty(t *testing.T) {
	h, err := NewIntHistogram(10, 0, 99)
	require.NoError(t, err)
	for _, op := range []primitives.Predicate{
		primitives.Equals, primitives.NotEqual, primitives.LessThan,
		primitives.GreaterThan, primitives.GreaterThanOrEqual,
	} {
		require.Zero(t, mustSel(t, h, op, 50))
		require.Zero(t, mustSel(t, h, op, 500))
	}
	require.Zero(t, h.AvgSelectivity())
}

func TestIntHistogramProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	h, err := NewIntHistogram(17, -300, 1000)
	require.NoError(t, err)

	values := make([]int64, 2000)
	for i := range values {
		values[i] = int64(r.Intn(1301)) - 300
		if i%3 == 0 {
			values[i] = int64(r.Intn(50)) + 200
		}
		h.AddValue(values[i])
	}

	for _, v := range values {
		eq := mustSel(t, h, primitives.Equals, v)
		neq := mustSel(t, h, primitives.NotEqual, v)
		require.InDelta(t, 1.0, eq+neq, eps)

		lt := mustSel(t, h, primitives.LessThan, v)
		gt := mustSel(t, h, primitives.GreaterThan, v)
		require.InDelta(t, 1.0, lt+eq+gt, 1e-6)
	}

	prev := -1.0
	for v := int64(-300); v <= 1000; v++ {
		lt := mustSel(t, h, primitives.LessThan, v)
		require.GreaterOrEqual(t, lt+eps, prev, "LESS_THAN must be monotonic at %d", v)
		prev = lt
	}
}

func TestIntHistogramErrors(t *testing.T) {
	h, err := NewIntHistogram(10, 0, 9)
	require.NoError(t, err)

	_, err = h.EstimateSelectivity(primitives.Like, 3)
	require.True(t, dberror.HasCode(err, dberror.CodeUnsupportedPredicate))

	_, err = h.EstimateFieldSelectivity(primitives.Equals, types.NewStringField("x", types.StringMaxSize))
	require.True(t, dberror.HasCode(err, dberror.CodeTypeMismatch))

	err = h.AddField(types.NewStringField("x", types.StringMaxSize))
	require.True(t, dberror.HasCode(err, dberror.CodeTypeMismatch))
	require.Zero(t, h.Sum())
}

func TestIntHistogramFullDomain(t *testing.T) {
	h, err := NewIntHistogram(100, -1<<63, 1<<63-1)
	require.NoError(t, err)
	h.AddValue(-1 << 63)
	h.AddValue(0)
	h.AddValue(1<<63 - 1)

	require.Equal(t, int64(3), h.Sum())
	require.InDelta(t, 1.0, mustSel(t, h, primitives.LessThanOrEqual, 1<<63-1), 1e-6)
	require.Zero(t, mustSel(t, h, primitives.LessThan, -1<<63))
}

func TestEncodeStringOrder(t *testing.T) {
	ordered := []string{"", "a", "ab", "abc", "abd", "b", "zzzz"}
	for i := 1; i < len(ordered); i++ {
		require.Less(t, EncodeString(ordered[i-1]), EncodeString(ordered[i]), "%q < %q", ordered[i-1], ordered[i])
	}
	require.Equal(t, EncodeString("abcd"), EncodeString("abcdef"))
	require.LessOrEqual(t, EncodeString("\xff\xff\xff\xff"), StringDomainMax)
}

func TestStringHistogram(t *testing.T) {
	h, err := NewStringHistogram(100)
	require.NoError(t, err)
	for _, s := range []string{"apple", "banana", "cherry", "date", "elderberry"} {
		h.AddValue(s)
	}

	lt, err := h.EstimateSelectivity(primitives.LessThan, "c")
	require.NoError(t, err)
	gt, err := h.EstimateSelectivity(primitives.GreaterThan, "c")
	require.NoError(t, err)
	require.Greater(t, gt, lt)
	require.InDelta(t, 1.0, lt+gt, 0.05)

	eq, err := h.EstimateFieldSelectivity(primitives.Equals, types.NewStringField("apple", types.StringMaxSize))
	require.NoError(t, err)
	require.Greater(t, eq, 0.0)

	_, err = h.EstimateFieldSelectivity(primitives.Equals, types.NewIntField(1))
	require.True(t, dberror.HasCode(err, dberror.CodeTypeMismatch))
	require.Equal(t, types.StringType, h.Kind())
}

func TestNewColumnHistogram(t *testing.T) {
	h, err := NewColumnHistogram(types.IntType, 10, 0, 9)
	require.NoError(t, err)
	require.IsType(t, &IntHistogram{}, h)

	h, err = NewColumnHistogram(types.StringType, 10, 0, 0)
	require.NoError(t, err)
	require.IsType(t, &StringHistogram{}, h)

	_, err = NewColumnHistogram(types.Type(42), 10, 0, 0)
	require.Error(t, err)
}
