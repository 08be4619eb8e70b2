package memory

import (
	"costdb/pkg/iterator"
	"costdb/pkg/primitives"
	"costdb/pkg/tuple"
	"fmt"
	"sync"
)

// DefaultTuplesPerPage is the page capacity used when a caller does not
// specify one.
const DefaultTuplesPerPage = 64

// File is an in-memory table file. Tuples are packed into fixed-capacity
// pages so that NumPages behaves like the page count of an on-disk heap file.
type File struct {
	id            primitives.TableID
	tupleDesc     *tuple.TupleDescription
	tuplesPerPage int

	mutex sync.RWMutex
	pages [][]*tuple.Tuple
}

// NewFile creates an empty file for the given table and schema.
func NewFile(id primitives.TableID, td *tuple.TupleDescription, tuplesPerPage int) *File {
	if tuplesPerPage <= 0 {
		tuplesPerPage = DefaultTuplesPerPage
	}
	return &File{
		id:            id,
		tupleDesc:     td,
		tuplesPerPage: tuplesPerPage,
	}
}

func (f *File) ID() primitives.TableID {
	return f.id
}

func (f *File) TupleDesc() *tuple.TupleDescription {
	return f.tupleDesc
}

// NumPages returns the number of allocated pages. A partially filled last
// page counts as a full page.
func (f *File) NumPages() int {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return len(f.pages)
}

// NumTuples returns the number of stored tuples.
func (f *File) NumTuples() int {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	if len(f.pages) == 0 {
		return 0
	}
	return (len(f.pages)-1)*f.tuplesPerPage + len(f.pages[len(f.pages)-1])
}

// AddTuple appends a tuple, allocating a new page when the last one is full.
func (f *File) AddTuple(t *tuple.Tuple) error {
	if t == nil {
		return fmt.Errorf("cannot add nil tuple")
	}
	if !f.tupleDesc.Equals(t.TupleDesc) {
		return fmt.Errorf("tuple schema %s does not match file schema %s", t.TupleDesc, f.tupleDesc)
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if n := len(f.pages); n == 0 || len(f.pages[n-1]) == f.tuplesPerPage {
		f.pages = append(f.pages, make([]*tuple.Tuple, 0, f.tuplesPerPage))
	}
	last := len(f.pages) - 1
	f.pages[last] = append(f.pages[last], t)
	return nil
}

// ReadPage returns the tuples stored on page pageNo.
func (f *File) ReadPage(pageNo int) ([]*tuple.Tuple, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	if pageNo < 0 || pageNo >= len(f.pages) {
		return nil, fmt.Errorf("page %d out of range [0, %d)", pageNo, len(f.pages))
	}
	return f.pages[pageNo], nil
}

// Iterator returns a page-at-a-time sequential scan over the file.
func (f *File) Iterator() iterator.DbFileIterator {
	return &fileIterator{file: f, currentPage: -1}
}

// fileIterator provides iteration over all tuples in a File. The page count
// is captured on Open so concurrent appends do not extend a running scan.
type fileIterator struct {
	file        *File
	numPages    int
	currentPage int
	pageIter    *iterator.SliceIterator[*tuple.Tuple]
	isOpen      bool
}

func (it *fileIterator) Open() error {
	it.numPages = it.file.NumPages()
	it.isOpen = true
	return it.Rewind()
}

func (it *fileIterator) Rewind() error {
	if !it.isOpen {
		return fmt.Errorf("iterator not opened")
	}
	it.currentPage = -1
	it.pageIter = nil
	return nil
}

func (it *fileIterator) HasNext() (bool, error) {
	if !it.isOpen {
		return false, fmt.Errorf("iterator not opened")
	}

	for it.pageIter == nil || !it.pageIter.HasNext() {
		if it.currentPage+1 >= it.numPages {
			return false, nil
		}
		if err := it.moveToNextPage(); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (it *fileIterator) Next() (*tuple.Tuple, error) {
	hasNext, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, fmt.Errorf("no more tuples")
	}
	return it.pageIter.Next()
}

func (it *fileIterator) Close() error {
	it.isOpen = false
	it.pageIter = nil
	return nil
}

func (it *fileIterator) moveToNextPage() error {
	it.currentPage++
	tuples, err := it.file.ReadPage(it.currentPage)
	if err != nil {
		return err
	}
	it.pageIter = iterator.NewSliceIterator(tuples)
	return nil
}
