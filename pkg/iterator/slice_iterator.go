package iterator

import "fmt"

// SliceIterator provides a generic iterator over a slice of any type T.
// It wraps a slice with a read position and needs no lifecycle management.
// Not thread-safe: use separate iterator per goroutine.
//
// Example usage:
//
//	iter := NewSliceIterator([]int{1, 2, 3, 4, 5})
//	for iter.HasNext() {
//	    val, err := iter.Next()
//	    if err != nil {
//	        return err
//	    }
//	    process(val)
//	}
type SliceIterator[T any] struct {
	data         []T // The underlying slice to iterate over
	currentIndex int // Current position in the slice
}

// NewSliceIterator creates a new iterator over the given slice.
func NewSliceIterator[T any](data []T) *SliceIterator[T] {
	return &SliceIterator[T]{
		data:         data,
		currentIndex: 0,
	}
}

// HasNext checks if there are more elements available.
func (it *SliceIterator[T]) HasNext() bool {
	return it.currentIndex < len(it.data)
}

// Next returns the next element from the slice and advances the position.
// Returns an error if there are no more elements.
func (it *SliceIterator[T]) Next() (T, error) {
	var zero T

	if it.currentIndex >= len(it.data) {
		return zero, fmt.Errorf("no more elements in slice iterator")
	}

	element := it.data[it.currentIndex]
	it.currentIndex++
	return element, nil
}

// Rewind resets the iterator position to the beginning of the slice.
func (it *SliceIterator[T]) Rewind() {
	it.currentIndex = 0
}

// Len returns the total number of elements in the slice.
func (it *SliceIterator[T]) Len() int {
	return len(it.data)
}

// Remaining returns the number of elements left to iterate.
func (it *SliceIterator[T]) Remaining() int {
	if it.currentIndex >= len(it.data) {
		return 0
	}
	return len(it.data) - it.currentIndex
}
