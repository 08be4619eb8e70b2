package optimizer

import (
	"context"
	"costdb/pkg/catalog"
	"costdb/pkg/catalog/schema"
	"costdb/pkg/config"
	"costdb/pkg/optimizer/statistics"
	"costdb/pkg/plan"
	"costdb/pkg/primitives"
	"costdb/pkg/storage/memory"
	"costdb/pkg/tuple"
	"costdb/pkg/types"
	"testing"

	"github.com/stretchr/testify/require"
)

const tuplesPerPage = 10

// addKeyedTable adds name(id PRIMARY KEY, v) with rows tuples; row i holds
// (i, v(i)).
func addKeyedTable(t testing.TB, cat *catalog.Catalog, name string, rows int, v func(i int) int64) {
	t.Helper()
	s, err := schema.NewSchemaBuilder(name).
		AddPrimaryKey("id", types.IntType).
		AddColumn("v", types.IntType).
		Build()
	require.NoError(t, err)

	f := memory.NewFile(s.TableID, s.TupleDesc, tuplesPerPage)
	for i := range rows {
		tup, err := tuple.NewTupleFromFields(s.TupleDesc, types.NewIntField(int64(i)), types.NewIntField(v(i)))
		require.NoError(t, err)
		require.NoError(t, f.AddTuple(tup))
	}
	require.NoError(t, cat.AddTable(f, s))
}

// addColumnTable adds a single-column table without primary key holding
// lo..hi.
func addColumnTable(t *testing.T, cat *catalog.Catalog, name, column string, lo, hi int64) {
	t.Helper()
	s, err := schema.NewSchemaBuilder(name).AddColumn(column, types.IntType).Build()
	require.NoError(t, err)

	f := memory.NewFile(s.TableID, s.TupleDesc, tuplesPerPage)
	for v := lo; v <= hi; v++ {
		tup, err := tuple.NewTupleFromFields(s.TupleDesc, types.NewIntField(v))
		require.NoError(t, err)
		require.NoError(t, f.AddTuple(tup))
	}
	require.NoError(t, cat.AddTable(f, s))
}

// starCatalog holds
//
//	big(1000 rows, 100 pages)   v = i % 100
//	mid(100 rows, 10 pages)     v = i % 10
//	small(10 rows, 1 page)      v = i
//	other(10 rows, 1 page)      v = i
func starCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := catalog.NewCatalog()
	addKeyedTable(t, cat, "big", 1000, func(i int) int64 { return int64(i % 100) })
	addKeyedTable(t, cat, "mid", 100, func(i int) int64 { return int64(i % 10) })
	addKeyedTable(t, cat, "small", 10, func(i int) int64 { return int64(i) })
	addKeyedTable(t, cat, "other", 10, func(i int) int64 { return int64(i) })
	return cat
}

// scenarioCatalog holds T1(a: 0..99) and T2(b: -99..199).
func scenarioCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := catalog.NewCatalog()
	addColumnTable(t, cat, "T1", "a", 0, 99)
	addColumnTable(t, cat, "T2", "b", -99, 199)
	return cat
}

func computeStats(t testing.TB, cat *catalog.Catalog, joint bool) *statistics.Registry {
	t.Helper()
	conf := config.NewConfig().Statistics
	conf.JointHistograms = joint
	reg, err := statistics.ComputeStatistics(context.Background(), cat, conf)
	require.NoError(t, err)
	return reg
}

// logicalPlan scans every table under its own name and adds the joins,
// given as "a.x = b.y" strings.
func logicalPlan(t testing.TB, cat *catalog.Catalog, tables []string, joins ...string) *plan.LogicalPlan {
	t.Helper()
	lp := plan.NewLogicalPlan()
	for _, name := range tables {
		require.NoError(t, lp.AddScan(primitives.TableIDFromName(name), name, name))
	}
	for _, s := range joins {
		j, err := plan.ParseJoin(s)
		require.NoError(t, err)
		lp.AddJoin(j)
	}
	return lp
}

func newOptimizer(lp *plan.LogicalPlan, cat *catalog.Catalog) *JoinOptimizer {
	return NewJoinOptimizer(lp, cat, config.NewConfig().Optimizer)
}
