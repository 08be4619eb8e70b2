package storage

import (
	"costdb/pkg/iterator"
	"costdb/pkg/primitives"
	"costdb/pkg/tuple"
)

// DbFile is the contract the statistics subsystem needs from a table's
// backing storage: a schema, a page count for I/O costing, and sequential
// scans that can be rewound.
type DbFile interface {
	// ID returns the identifier of the table stored in this file.
	ID() primitives.TableID

	// TupleDesc returns the schema of the tuples stored in the file.
	TupleDesc() *tuple.TupleDescription

	// NumPages returns the number of pages a full scan has to read.
	NumPages() int

	// Iterator returns a fresh sequential scan over every tuple in the file.
	Iterator() iterator.DbFileIterator
}
