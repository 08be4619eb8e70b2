package optimizer

import (
	"costdb/pkg/optimizer/statistics"
	"costdb/pkg/plan"
	"costdb/pkg/primitives"
	"math"
)

// rangeJoinSelectivity is the fraction of the cross product assumed to
// survive a range join when no joint histogram applies.
const rangeJoinSelectivity = 0.3

// EstimateJoinCost returns the cost of joining an outer input (card1 rows,
// cost1 to produce) with an inner input (card2, cost2) under j, and the
// cheapest algorithm for it.
//
// Algorithm costs:
//
//	nested-loop: cost1 + card1*cost2 + card1*card2
//	hash:        cost1 + cost2 + card1 + card2
//	sort-merge:  cost1 + cost2 + card1*ln(card1) + card2*ln(card2) + card1²/2
//
// Hash join needs an equality key and is only considered for equi-joins.
// Ties go to nested-loop, then hash. A subplan join costs
// card1 + cost1 + cost2 and keeps the algorithm already set on j.
func EstimateJoinCost(j plan.LogicalJoinNode, card1, card2 int64, cost1, cost2 float64) (float64, plan.JoinMethod) {
	c1, c2 := float64(card1), float64(card2)
	if j.Subplan {
		return c1 + cost1 + cost2, j.Method
	}

	best, method := cost1+c1*cost2+c1*c2, plan.NestedLoop

	if j.Op == primitives.Equals {
		if hash := cost1 + cost2 + c1 + c2; hash < best {
			best, method = hash, plan.HashJoin
		}
	}

	if merge := cost1 + cost2 + xlnx(c1) + xlnx(c2) + c1*c1/2; merge < best {
		best, method = merge, plan.SortMerge
	}
	return best, method
}

// xlnx is x*ln(x), continuous at 0.
func xlnx(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return x * math.Log(x)
}

// EstimateJoinCardinality estimates the rows produced by j between an outer
// input of card1 rows and an inner input of card2 rows. pk1 and pk2 report
// whether the join column on each side is a primary key.
//
// When both inputs are base-table scans and a joint histogram exists for the
// two columns in reg, its estimate is used, capped by the primary-key sides.
// Otherwise:
//
//	=          PK on one side: the other side's rows; both: min; none: max
//	!=         card1*card2 minus the equality estimate
//	<, <=, ... 0.3 * card1 * card2
//
// A subplan join produces card1 rows.
func (jo *JoinOptimizer) EstimateJoinCardinality(j plan.LogicalJoinNode, card1, card2 int64, pk1, pk2, bothBase bool, reg *statistics.Registry) (int64, error) {
	if j.Subplan {
		return card1, nil
	}

	if bothBase && reg != nil {
		card, ok, err := jo.jointCardinality(j, reg)
		if err != nil {
			return 0, err
		}
		if ok {
			switch {
			case pk1 && pk2:
				card = min(card, card1, card2)
			case pk1:
				card = min(card, card2)
			case pk2:
				card = min(card, card1)
			}
			return card, nil
		}
	}

	return independentCardinality(j.Op, card1, card2, pk1, pk2), nil
}

func (jo *JoinOptimizer) jointCardinality(j plan.LogicalJoinNode, reg *statistics.Registry) (int64, bool, error) {
	t1, err := jo.lp.TableName(j.LeftAlias)
	if err != nil {
		return 0, false, err
	}
	t2, err := jo.lp.TableName(j.RightAlias)
	if err != nil {
		return 0, false, err
	}

	h, ok := reg.JointHistogram(t1, j.LeftField, t2, j.RightField)
	if !ok {
		return 0, false, nil
	}
	card, err := h.EstimateCardinality(j.Op)
	if err != nil {
		return 0, false, err
	}
	return card, true, nil
}

func independentCardinality(op primitives.Predicate, card1, card2 int64, pk1, pk2 bool) int64 {
	switch op {
	case primitives.Equals:
		switch {
		case pk1 && pk2:
			return min(card1, card2)
		case pk1:
			return card2
		case pk2:
			return card1
		}
		return max(card1, card2)
	case primitives.NotEqual:
		return card1*card2 - independentCardinality(primitives.Equals, card1, card2, pk1, pk2)
	default:
		return int64(rangeJoinSelectivity * float64(card1) * float64(card2))
	}
}
