package statistics

import (
	"costdb/pkg/catalog"
	"costdb/pkg/catalog/schema"
	"costdb/pkg/iterator"
	"costdb/pkg/storage/memory"
	"costdb/pkg/tuple"
	"costdb/pkg/types"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// intTable builds a single-column integer table holding values.
func intTable(t *testing.T, name, column string, values []int64) (*memory.File, *schema.Schema) {
	t.Helper()
	s, err := schema.NewSchemaBuilder(name).AddColumn(column, types.IntType).Build()
	require.NoError(t, err)

	f := memory.NewFile(s.TableID, s.TupleDesc, 16)
	for _, v := range values {
		tup, err := tuple.NewTupleFromFields(s.TupleDesc, types.NewIntField(v))
		require.NoError(t, err)
		require.NoError(t, f.AddTuple(tup))
	}
	return f, s
}

func rangeValues(lo, hi int64) []int64 {
	out := make([]int64, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

// scenarioCatalog holds T1(a: 0..99) and T2(b: -99..199).
func scenarioCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := catalog.NewCatalog()
	require.NoError(t, cat.AddTable(intTable(t, "T1", "a", rangeValues(0, 99))))
	require.NoError(t, cat.AddTable(intTable(t, "T2", "b", rangeValues(-99, 199))))
	return cat
}

var errDiskGone = errors.New("disk gone")

// faultyFile wraps a memory file so that scans fail after failAfter tuples.
type faultyFile struct {
	*memory.File
	failAfter int
}

func (f *faultyFile) Iterator() iterator.DbFileIterator {
	return &faultyIterator{DbFileIterator: f.File.Iterator(), failAfter: f.failAfter}
}

type faultyIterator struct {
	iterator.DbFileIterator
	failAfter int
	read      int
}

func (it *faultyIterator) Next() (*tuple.Tuple, error) {
	if it.read >= it.failAfter {
		return nil, errDiskGone
	}
	it.read++
	return it.DbFileIterator.Next()
}
