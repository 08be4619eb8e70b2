package optimizer

import "math/bits"

// forEachSubset calls fn with every k-element subset of {0..n-1} as a
// bitmask, in increasing numeric order. It stops early when fn returns an
// error.
//
// Successors are generated with Gosper's hack: the next larger integer with
// the same number of set bits. n must be at most 64.
func forEachSubset(n, k int, fn func(mask uint64) error) error {
	if k <= 0 || k > n {
		return nil
	}

	mask := uint64(1)<<k - 1
	for {
		if err := fn(mask); err != nil {
			return err
		}

		lowest := mask & -mask
		ripple := mask + lowest
		if ripple == 0 {
			// mask held the k highest bits of a 64-bit word
			return nil
		}
		mask = ripple | ((mask^ripple)>>2)/lowest
		if n < 64 && mask >= uint64(1)<<n {
			return nil
		}
	}
}

// members returns the positions of the set bits of mask in ascending order.
func members(mask uint64) []int {
	out := make([]int, 0, bits.OnesCount64(mask))
	for mask != 0 {
		i := bits.TrailingZeros64(mask)
		out = append(out, i)
		mask &= mask - 1
	}
	return out
}
