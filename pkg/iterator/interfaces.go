package iterator

import (
	"costdb/pkg/tuple"

	"go.uber.org/multierr"
)

// DbFileIterator defines the interface for iterating over tuples in a database file.
// Statistics builds scan a table twice through the same iterator, so Rewind
// must restart the sequence without reopening the file.
type DbFileIterator interface {
	TupleIterator // Embeds HasNext() and Next()

	// Open prepares the iterator for use by initializing internal state and resources.
	// This method must be called before any other iterator operations.
	Open() error

	// Rewind resets the iterator to the beginning of the tuple sequence.
	// After calling Rewind(), the iterator behaves as if it was just opened.
	Rewind() error

	// Close releases any resources held by the iterator and marks it as closed.
	// After calling Close(), the iterator should not be used until Open() is called again.
	Close() error
}

// TupleIterator is a minimal interface that captures the common iteration methods.
type TupleIterator interface {
	// HasNext checks if there are more tuples available without consuming them.
	HasNext() (bool, error)

	// Next retrieves and returns the next tuple from the iterator.
	Next() (*tuple.Tuple, error)
}

// ForEach drives a DbFileIterator through one full open → rewind → iterate →
// close cycle, handing every tuple to fn. The iterator is closed even when fn
// or the scan fails.
func ForEach(it DbFileIterator, fn func(*tuple.Tuple) error) (err error) {
	if err = it.Open(); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, it.Close())
	}()

	if err = it.Rewind(); err != nil {
		return err
	}

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
