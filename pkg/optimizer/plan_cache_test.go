package optimizer

import (
	"costdb/pkg/plan"
	"costdb/pkg/primitives"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectSubsets(t *testing.T, n, k int) []uint64 {
	t.Helper()
	var out []uint64
	require.NoError(t, forEachSubset(n, k, func(mask uint64) error {
		out = append(out, mask)
		return nil
	}))
	return out
}

func TestForEachSubset(t *testing.T) {
	assert.Equal(t, []uint64{0b0011, 0b0101, 0b0110, 0b1001, 0b1010, 0b1100}, collectSubsets(t, 4, 2))
	assert.Equal(t, []uint64{0b111}, collectSubsets(t, 3, 3))
	assert.Equal(t, []uint64{0b001, 0b010, 0b100}, collectSubsets(t, 3, 1))
	assert.Empty(t, collectSubsets(t, 3, 0))
	assert.Empty(t, collectSubsets(t, 3, 4))

	t.Run("binomial counts", func(t *testing.T) {
		for _, tt := range []struct{ n, k, want int }{
			{10, 3, 120},
			{16, 8, 12870},
			{64, 1, 64},
			{64, 63, 64},
		} {
			assert.Len(t, collectSubsets(t, tt.n, tt.k), tt.want, "C(%d,%d)", tt.n, tt.k)
		}
	})

	t.Run("full word", func(t *testing.T) {
		assert.Equal(t, []uint64{math.MaxUint64}, collectSubsets(t, 64, 64))
	})

	t.Run("stops on error", func(t *testing.T) {
		stop := errors.New("stop")
		calls := 0
		err := forEachSubset(5, 2, func(uint64) error {
			calls++
			if calls == 3 {
				return stop
			}
			return nil
		})
		require.ErrorIs(t, err, stop)
		require.Equal(t, 3, calls)
	})
}

func TestMembers(t *testing.T) {
	assert.Equal(t, []int{0, 2, 5}, members(0b100101))
	assert.Empty(t, members(0))
	assert.Equal(t, []int{63}, members(1<<63))
}

func TestCostCardCoverage(t *testing.T) {
	aliases := map[string]uint{"a": 0, "b": 1, "c": 2, "d": 3}
	ab := newCostCard(nil, plan.NewLogicalJoinNode("a", "b", "x", "y", primitives.Equals), 10, 5, aliases)
	cd := newCostCard(nil, plan.NewLogicalJoinNode("c", "d", "x", "y", primitives.Equals), 20, 7, aliases)

	assert.True(t, ab.Covers(0))
	assert.True(t, ab.Covers(1))
	assert.False(t, ab.Covers(2))
	assert.Equal(t, uint(2), ab.NumRelations())

	merged := newCostCard([]*CostCard{ab, cd}, plan.NewLogicalJoinNode("b", "c", "x", "y", primitives.LessThan), 100, 35, aliases)
	assert.Equal(t, uint(4), merged.NumRelations())
	require.Len(t, merged.Plan, 3)
	assert.Equal(t, "b.x < c.y", merged.Plan[2].String())

	steps := merged.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, 10.0, steps[0].Cost)
	assert.Equal(t, int64(7), steps[1].Cardinality)
	assert.Equal(t, 100.0, steps[2].Cost)

	sub := newCostCard([]*CostCard{ab}, plan.NewSubplanJoinNode("a", "x", primitives.Equals), 11, 5, aliases)
	assert.Equal(t, uint(2), sub.NumRelations())
}

func TestFragments(t *testing.T) {
	aliases := map[string]uint{"a": 0, "b": 1, "c": 2, "d": 3}
	ab := newCostCard(nil, plan.NewLogicalJoinNode("a", "b", "x", "y", primitives.Equals), 10, 5, aliases)
	cd := newCostCard(nil, plan.NewLogicalJoinNode("c", "d", "x", "y", primitives.Equals), 20, 7, aliases)
	all := newCostCard([]*CostCard{ab, cd}, plan.NewLogicalJoinNode("b", "c", "x", "y", primitives.Equals), 500, 35, aliases)

	two := fragments{ab, cd}
	assert.Equal(t, 1, two.find(3))
	assert.Equal(t, -1, fragments{ab}.find(2))
	assert.InDelta(t, 30, two.totalCost(), 1e-9)

	one := two.replace(all, 0, 1)
	require.Len(t, one, 1)
	assert.Same(t, all, one[0])

	// fewer fragments win regardless of cost
	assert.True(t, one.better(two))
	assert.False(t, two.better(one))
	assert.True(t, two.better(nil))

	cheaper := fragments{newCostCard(nil, ab.Plan[0], 1, 5, aliases), cd}
	assert.True(t, cheaper.better(two))
	assert.False(t, two.better(two), "ties keep the first candidate")
}

func TestPlanCache(t *testing.T) {
	pc := NewPlanCache()
	require.Nil(t, pc.GetPlan(0b11))

	aliases := map[string]uint{"a": 0, "b": 1}
	cc := newCostCard(nil, plan.NewLogicalJoinNode("a", "b", "x", "y", primitives.Equals), 1, 1, aliases)
	pc.AddPlan(0b01, []*CostCard{cc})

	require.Equal(t, 1, pc.Len())
	require.Len(t, pc.GetPlan(0b01), 1)
	require.Nil(t, pc.GetPlan(0b10))
}
