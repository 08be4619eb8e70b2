package statistics

// bucketLayout is the equal-width partition of an integer domain
// [min, max] shared by IntHistogram and both sides of a JointHistogram.
//
// Values are handled as unsigned offsets from min so that any int64 domain
// fits. Bucket 0 holds only min; bucket i (0 < i < n-1) holds offsets
// ((i-1)*width, i*width]; the last bucket absorbs the rest of the domain.
type bucketLayout struct {
	min   int64
	max   int64
	span  uint64 // max - min
	n     int
	width uint64
}

func newBucketLayout(buckets int, min, max int64) bucketLayout {
	span := uint64(max) - uint64(min)
	if span < uint64(buckets-1) {
		buckets = int(span) + 1
	}
	n := uint64(buckets)
	// floor((span+1)/n) without overflowing when the domain is all of int64.
	width := span/n + (span%n+1)/n

	return bucketLayout{
		min:   min,
		max:   max,
		span:  span,
		n:     buckets,
		width: width,
	}
}

func (l bucketLayout) contains(v int64) bool {
	return v >= l.min && v <= l.max
}

func (l bucketLayout) offset(v int64) uint64 {
	return uint64(v) - uint64(l.min)
}

// index returns the bucket of an in-range value: ceil(offset/width), clamped
// to the last bucket.
func (l bucketLayout) index(v int64) int {
	o := l.offset(v)
	idx := o / l.width
	if o%l.width != 0 {
		idx++
	}
	if idx >= uint64(l.n) {
		return l.n - 1
	}
	return int(idx)
}

// bounds returns the first and last offset covered by bucket i.
func (l bucketLayout) bounds(i int) (lo, hi uint64) {
	if i > 0 {
		lo = uint64(i-1)*l.width + 1
	}
	if i == l.n-1 {
		hi = l.span
	} else {
		hi = uint64(i) * l.width
	}
	return lo, hi
}

// bucketWidth returns the number of distinct values bucket i can hold.
func (l bucketLayout) bucketWidth(i int) float64 {
	lo, hi := l.bounds(i)
	return float64(hi-lo) + 1
}
