package iterator

import (
	"costdb/pkg/tuple"
	"costdb/pkg/types"
	"errors"
	"strings"
	"testing"
)

type scriptedIterator struct {
	*SliceIterator[*tuple.Tuple]
	failAt   int
	closeErr error
	opened   bool
	closed   bool
}

func (s *scriptedIterator) Open() error { s.opened = true; return nil }

func (s *scriptedIterator) Rewind() error { s.SliceIterator.Rewind(); return nil }

func (s *scriptedIterator) HasNext() (bool, error) {
	if s.failAt >= 0 && s.Len()-s.Remaining() == s.failAt {
		return false, errors.New("page read failed")
	}
	return s.SliceIterator.HasNext(), nil
}

func (s *scriptedIterator) Close() error { s.closed = true; return s.closeErr }

func newScripted(t *testing.T, n, failAt int) *scriptedIterator {
	t.Helper()
	td, err := tuple.NewTupleDesc([]types.Type{types.IntType}, nil)
	if err != nil {
		t.Fatalf("NewTupleDesc failed: %v", err)
	}
	tuples := make([]*tuple.Tuple, n)
	for i := range tuples {
		tuples[i], err = tuple.NewTupleFromFields(td, types.NewIntField(int64(i)))
		if err != nil {
			t.Fatalf("NewTupleFromFields failed: %v", err)
		}
	}
	return &scriptedIterator{SliceIterator: NewSliceIterator(tuples), failAt: failAt}
}

func TestForEachVisitsAll(t *testing.T) {
	it := newScripted(t, 5, -1)
	seen := 0
	err := ForEach(it, func(*tuple.Tuple) error {
		seen++
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if seen != 5 {
		t.Errorf("Expected 5 tuples, got %d", seen)
	}
	if !it.opened || !it.closed {
		t.Errorf("Expected iterator opened and closed, got opened=%v closed=%v", it.opened, it.closed)
	}
}

func TestForEachClosesOnFailure(t *testing.T) {
	it := newScripted(t, 5, 2)
	it.closeErr = errors.New("close failed")

	err := ForEach(it, func(*tuple.Tuple) error { return nil })
	if err == nil {
		t.Fatal("Expected error from failing iterator")
	}
	for _, want := range []string{"page read failed", "close failed"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to contain %q, got %q", want, err)
		}
	}
	if !it.closed {
		t.Error("Expected iterator to be closed")
	}
}

func TestForEachCallbackError(t *testing.T) {
	it := newScripted(t, 3, -1)
	stop := errors.New("stop")
	if err := ForEach(it, func(*tuple.Tuple) error { return stop }); !errors.Is(err, stop) {
		t.Errorf("Expected callback error, got %v", err)
	}
	if !it.closed {
		t.Error("Expected iterator to be closed")
	}
}

func TestSliceIterator(t *testing.T) {
	it := NewSliceIterator([]int{1, 2})
	if it.Remaining() != 2 {
		t.Errorf("Expected 2 remaining, got %d", it.Remaining())
	}
	v, err := it.Next()
	if err != nil || v != 1 {
		t.Errorf("Expected 1, got %d (err=%v)", v, err)
	}
	_, _ = it.Next()
	if _, err := it.Next(); err == nil {
		t.Error("Expected error past the end")
	}
	it.Rewind()
	if !it.HasNext() {
		t.Error("Expected HasNext after Rewind")
	}
}
