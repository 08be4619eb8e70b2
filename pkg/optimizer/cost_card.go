package optimizer

import (
	"costdb/pkg/plan"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// Step is one join of an ordered plan together with the cost and output
// cardinality of the fragment it completes.
type Step struct {
	Join        plan.LogicalJoinNode
	Cost        float64
	Cardinality int64
}

// CostCard is a partial left-deep plan: an ordered list of joins, the total
// cost of executing them and the number of rows they produce.
type CostCard struct {
	Cost        float64
	Cardinality int64
	Plan        []plan.LogicalJoinNode

	steps     []Step
	relations *bitset.BitSet // alias indices covered by Plan
}

func newCostCard(prev []*CostCard, j plan.LogicalJoinNode, cost float64, card int64, aliases map[string]uint) *CostCard {
	cc := &CostCard{
		Cost:        cost,
		Cardinality: card,
		relations:   bitset.New(uint(len(aliases))),
	}
	for _, p := range prev {
		cc.Plan = append(cc.Plan, p.Plan...)
		cc.steps = append(cc.steps, p.steps...)
		cc.relations.InPlaceUnion(p.relations)
	}
	cc.Plan = append(cc.Plan, j)
	cc.steps = append(cc.steps, Step{Join: j, Cost: cost, Cardinality: card})

	cc.relations.Set(aliases[j.LeftAlias])
	if !j.Subplan {
		cc.relations.Set(aliases[j.RightAlias])
	}
	return cc
}

// Covers reports whether the plan reads the relation with the given alias
// index.
func (cc *CostCard) Covers(alias uint) bool {
	return cc.relations.Test(alias)
}

// NumRelations returns how many base relations the plan reads.
func (cc *CostCard) NumRelations() uint {
	return cc.relations.Count()
}

// Steps returns the plan's joins with per-step estimates.
func (cc *CostCard) Steps() []Step {
	return slices.Clone(cc.steps)
}

// fragments is the best known plan for a subset of join conditions. A subset
// whose conditions do not connect all the relations they reference is
// planned as several disjoint fragments.
type fragments []*CostCard

func (fs fragments) totalCost() float64 {
	var total float64
	for _, f := range fs {
		total += f.Cost
	}
	return total
}

// find returns the index of the fragment covering alias, or -1.
func (fs fragments) find(alias uint) int {
	for i, f := range fs {
		if f.Covers(alias) {
			return i
		}
	}
	return -1
}

// replace returns fs without the fragments at the given indices, with merged
// appended.
func (fs fragments) replace(merged *CostCard, drop ...int) fragments {
	out := make(fragments, 0, len(fs)+1)
	for i, f := range fs {
		if !slices.Contains(drop, i) {
			out = append(out, f)
		}
	}
	return append(out, merged)
}

// better reports whether candidate should replace the current best plan of a
// subset: fewer fragments first, then the lower total cost.
func (fs fragments) better(best fragments) bool {
	if best == nil {
		return true
	}
	if len(fs) != len(best) {
		return len(fs) < len(best)
	}
	return fs.totalCost() < best.totalCost()
}
