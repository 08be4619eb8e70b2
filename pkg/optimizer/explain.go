package optimizer

import (
	"costdb/pkg/logging"
	"costdb/pkg/optimizer/statistics"
	"costdb/pkg/plan"
	"fmt"

	"go.uber.org/zap"
)

func logExplain(res *Result) {
	logger := logging.WithComponent("join-optimizer")
	if !res.Optimized {
		logger.Info("join graph is not connected, joins run in input order",
			zap.Stringers("joins", res.Joins))
		return
	}

	for i, step := range res.Steps {
		logger.Info("join step",
			zap.Int("step", i+1),
			zap.Stringer("join", step.Join),
			zap.Stringer("method", step.Join.Method),
			zap.Float64("cost", step.Cost),
			zap.Int64("rows", step.Cardinality))
	}
	logger.Info("join plan",
		zap.Float64("cost", res.Cost),
		zap.Int64("rows", res.Cardinality))
}

// BuildPlanTree turns an ordering result into a tree of scans and joins
// annotated with cost and cardinality estimates. Joins planned by the search
// carry its estimates; cross products and the joins of an unoptimized
// result are estimated from their inputs.
func (jo *JoinOptimizer) BuildPlanTree(res *Result, reg *statistics.Registry, filterSel map[string]float64) (plan.PlanNode, error) {
	root, err := jo.lp.BuildJoinTree(res.Joins)
	if err != nil {
		return nil, err
	}
	if err := jo.annotate(root, res, reg, filterSel); err != nil {
		return nil, err
	}
	return root, nil
}

func (jo *JoinOptimizer) annotate(node plan.PlanNode, res *Result, reg *statistics.Registry, filterSel map[string]float64) error {
	for _, child := range node.GetChildren() {
		if err := jo.annotate(child, res, reg, filterSel); err != nil {
			return err
		}
	}

	switch n := node.(type) {
	case *plan.ScanNode:
		ts, err := reg.TableStats(n.TableName)
		if err != nil {
			return err
		}
		sel, ok := filterSel[n.Alias]
		if !ok {
			sel = 1.0
		}
		n.SetCost(ts.EstimateScanCost())
		n.SetCardinality(ts.EstimateTableCardinality(sel))

	case *plan.SubplanNode:
		// materialised elsewhere; nothing to estimate

	case *plan.JoinNode:
		left, right := n.LeftChild, n.RightChild
		card1, card2 := left.GetCardinality(), right.GetCardinality()
		cost1, cost2 := left.GetCost(), right.GetCost()

		if n.Cross() {
			n.SetCost(cost1 + float64(card1)*cost2 + float64(card1)*float64(card2))
			n.SetCardinality(card1 * card2)
			return nil
		}
		if res.Optimized && n.Step < len(res.Steps) {
			step := res.Steps[n.Step]
			n.SetCost(step.Cost)
			n.SetCardinality(step.Cardinality)
			return nil
		}

		cost, method := EstimateJoinCost(n.Join, card1, card2, cost1, cost2)
		n.Join = n.Join.WithMethod(method)
		pk1, err := jo.isPrimaryKey(n.Join.LeftAlias, n.Join.LeftField)
		if err != nil {
			return err
		}
		pk2 := false
		if !n.Join.Subplan {
			if pk2, err = jo.isPrimaryKey(n.Join.RightAlias, n.Join.RightField); err != nil {
				return err
			}
		}
		_, leftScan := left.(*plan.ScanNode)
		_, rightScan := right.(*plan.ScanNode)
		card, err := jo.EstimateJoinCardinality(n.Join, card1, card2, pk1, pk2, leftScan && rightScan, reg)
		if err != nil {
			return err
		}
		n.SetCost(cost)
		n.SetCardinality(card)

	default:
		return fmt.Errorf("unexpected plan node %s", node.GetNodeType())
	}
	return nil
}

func (jo *JoinOptimizer) isPrimaryKey(alias, field string) (bool, error) {
	id, err := jo.lp.TableID(alias)
	if err != nil {
		return false, err
	}
	pk, err := jo.catalog.GetPrimaryKey(id)
	if err != nil {
		return false, err
	}
	return pk != "" && pk == field, nil
}
