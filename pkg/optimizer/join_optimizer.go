package optimizer

import (
	"costdb/pkg/catalog"
	"costdb/pkg/config"
	"costdb/pkg/dberror"
	"costdb/pkg/logging"
	"costdb/pkg/metrics"
	"costdb/pkg/optimizer/statistics"
	"costdb/pkg/plan"
	"time"

	"go.uber.org/zap"
)

// JoinOptimizer orders the join conditions of a logical plan into the
// cheapest left-deep execution order.
//
// The search is dynamic programming over subsets of join conditions: every
// subset of size k is planned from the memoized plans of its subsets of size
// k-1 by trying each of its conditions as the join performed last. The work
// is exponential in the number of joins, which is bounded by
// OptimizerConfig.MaxJoins.
type JoinOptimizer struct {
	lp       *plan.LogicalPlan
	catalog  *catalog.Catalog
	maxJoins int
	explain  bool
}

// Result is the outcome of one ordering run.
type Result struct {
	// Joins is the ordered join list, each tagged with its algorithm. When
	// Optimized is false it is the input order, unchanged.
	Joins []plan.LogicalJoinNode

	// Steps carries the estimates of each join in Joins.
	Steps []Step

	Cost        float64
	Cardinality int64

	// Optimized is false when the join graph is not connected and the
	// optimizer fell back to the input order.
	Optimized bool

	// CacheEntries is the number of condition subsets that were planned.
	CacheEntries int
}

// NewJoinOptimizer creates an optimizer for the joins of lp. Table aliases
// are resolved through lp, primary keys through cat.
func NewJoinOptimizer(lp *plan.LogicalPlan, cat *catalog.Catalog, conf config.OptimizerConfig) *JoinOptimizer {
	maxJoins := conf.MaxJoins
	if maxJoins <= 0 || maxJoins > config.MaxJoinsLimit {
		maxJoins = config.MaxJoinsLimit
	}
	return &JoinOptimizer{
		lp:       lp,
		catalog:  cat,
		maxJoins: maxJoins,
		explain:  conf.Explain,
	}
}

// OrderJoins returns the plan's join conditions in the cheapest execution
// order found, each tagged with its physical algorithm.
//
// filterSel maps a table alias to the selectivity of the single-table
// filters applied to it; aliases without an entry are unfiltered. When
// explain is set the chosen plan is logged step by step.
//
// Unknown aliases and tables without statistics fail the call. A join graph
// that does not connect every referenced table is not an error: the input
// order is returned.
func (jo *JoinOptimizer) OrderJoins(reg *statistics.Registry, filterSel map[string]float64, explain bool) ([]plan.LogicalJoinNode, error) {
	res, err := jo.OrderJoinsTraced(reg, filterSel)
	if err != nil {
		return nil, err
	}
	if explain || jo.explain {
		logExplain(res)
	}
	return res.Joins, nil
}

// OrderJoinsTraced runs the same search as OrderJoins and returns the
// per-step estimates alongside the ordered joins.
func (jo *JoinOptimizer) OrderJoinsTraced(reg *statistics.Registry, filterSel map[string]float64) (*Result, error) {
	start := time.Now()
	res, err := jo.orderJoins(reg, filterSel)
	metrics.JoinOrderDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.JoinOrderCounter.WithLabelValues(metrics.LblError).Inc()
		return nil, err
	case res.Optimized:
		metrics.JoinOrderCounter.WithLabelValues(metrics.LblOptimized).Inc()
	default:
		metrics.JoinOrderCounter.WithLabelValues(metrics.LblFallback).Inc()
	}
	metrics.PlanCacheEntries.Observe(float64(res.CacheEntries))
	return res, nil
}

func (jo *JoinOptimizer) orderJoins(reg *statistics.Registry, filterSel map[string]float64) (*Result, error) {
	joins := jo.lp.Joins()
	n := len(joins)
	if n == 0 {
		return &Result{Joins: joins, Optimized: true}, nil
	}
	if n > jo.maxJoins {
		return nil, dberror.TooManyJoins(n, jo.maxJoins)
	}

	s, err := jo.newSearch(reg, filterSel, joins)
	if err != nil {
		return nil, err
	}

	for k := 1; k <= n; k++ {
		err := forEachSubset(n, k, func(mask uint64) error {
			var best fragments
			for _, i := range members(mask) {
				candidate, err := s.planWithLast(mask, i)
				if err != nil {
					return err
				}
				if candidate != nil && candidate.better(best) {
					best = candidate
				}
			}
			s.cache.AddPlan(mask, best)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	all := uint64(1)<<n - 1
	best := s.cache.GetPlan(all)
	if len(best) != 1 {
		logging.WithComponent("join-optimizer").Warn("join graph is not connected, keeping input order",
			zap.Int("joins", n),
			zap.Int("fragments", len(best)))
		return &Result{Joins: joins, CacheEntries: s.cache.Len()}, nil
	}

	cc := best[0]
	logging.Debug("join order chosen",
		zap.Stringers("joins", cc.Plan),
		zap.Float64("cost", cc.Cost),
		zap.Int64("rows", cc.Cardinality))
	return &Result{
		Joins:        cc.Plan,
		Steps:        cc.Steps(),
		Cost:         cc.Cost,
		Cardinality:  cc.Cardinality,
		Optimized:    true,
		CacheEntries: s.cache.Len(),
	}, nil
}

// relation is a base table as read by the search: its filtered scan
// estimates and its primary key.
type relation struct {
	tableName  string
	scanCost   float64
	card       int64
	primaryKey string
}

// search is the state of one ordering run.
type search struct {
	jo      *JoinOptimizer
	reg     *statistics.Registry
	joins   []plan.LogicalJoinNode
	aliases map[string]uint
	rels    map[string]*relation
	cache   *PlanCache
}

func (jo *JoinOptimizer) newSearch(reg *statistics.Registry, filterSel map[string]float64, joins []plan.LogicalJoinNode) (*search, error) {
	s := &search{
		jo:      jo,
		reg:     reg,
		joins:   joins,
		aliases: make(map[string]uint),
		rels:    make(map[string]*relation),
		cache:   NewPlanCache(),
	}
	for _, j := range joins {
		if err := s.resolve(j.LeftAlias, filterSel); err != nil {
			return nil, err
		}
		if j.Subplan {
			continue
		}
		if err := s.resolve(j.RightAlias, filterSel); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *search) resolve(alias string, filterSel map[string]float64) error {
	if _, ok := s.rels[alias]; ok {
		return nil
	}

	id, err := s.jo.lp.TableID(alias)
	if err != nil {
		return err
	}
	name, err := s.jo.lp.TableName(alias)
	if err != nil {
		return err
	}
	if s.reg == nil {
		return dberror.StatsMissing(name)
	}
	ts, err := s.reg.TableStats(name)
	if err != nil {
		return err
	}
	pk, err := s.jo.catalog.GetPrimaryKey(id)
	if err != nil {
		return err
	}

	sel, ok := filterSel[alias]
	if !ok {
		sel = 1.0
	}

	s.aliases[alias] = uint(len(s.aliases))
	s.rels[alias] = &relation{
		tableName:  name,
		scanCost:   ts.EstimateScanCost(),
		card:       ts.EstimateTableCardinality(sel),
		primaryKey: pk,
	}
	return nil
}

// planWithLast plans subset mask with condition i joined last, or returns
// nil when the rest of the subset has no plan.
func (s *search) planWithLast(mask uint64, i int) (fragments, error) {
	j := s.joins[i]
	rest := mask &^ (uint64(1) << i)
	if rest == 0 {
		cc, err := s.single(j)
		if err != nil {
			return nil, err
		}
		return fragments{cc}, nil
	}

	nodes := fragments(s.cache.GetPlan(rest))
	if nodes == nil {
		return nil, nil
	}
	return s.merge(nodes, j)
}

// merge adds j to the fragments planned for the rest of a subset. A fragment
// already reading one endpoint is extended with the other endpoint's base
// table; two fragments reading one endpoint each are joined into one; when
// no fragment reads either endpoint j starts a new fragment. A fragment that
// already reads both endpoints joins a second scan of the right table.
func (s *search) merge(nodes fragments, j plan.LogicalJoinNode) (fragments, error) {
	li := nodes.find(s.aliases[j.LeftAlias])
	ri := -1
	if !j.Subplan {
		ri = nodes.find(s.aliases[j.RightAlias])
	}

	switch {
	case li >= 0 && ri >= 0 && li != ri:
		outer, inner := nodes[li], nodes[ri]
		cc, err := s.swapAndCompare([]*CostCard{outer, inner}, j,
			outer.Cardinality, inner.Cardinality, outer.Cost, inner.Cost,
			s.isPrimaryKey(j.LeftAlias, j.LeftField), s.isPrimaryKey(j.RightAlias, j.RightField), false)
		if err != nil {
			return nil, err
		}
		return nodes.replace(cc, li, ri), nil

	case li >= 0:
		outer := nodes[li]
		card2, cost2, pk2 := s.inner(j)
		cc, err := s.swapAndCompare([]*CostCard{outer}, j,
			outer.Cardinality, card2, outer.Cost, cost2,
			s.hasPrimaryKey(outer), pk2, false)
		if err != nil {
			return nil, err
		}
		return nodes.replace(cc, li), nil

	case ri >= 0:
		inner := nodes[ri]
		left := s.rels[j.LeftAlias]
		cc, err := s.swapAndCompare([]*CostCard{inner}, j,
			left.card, inner.Cardinality, left.scanCost, inner.Cost,
			s.isPrimaryKey(j.LeftAlias, j.LeftField), s.hasPrimaryKey(inner), false)
		if err != nil {
			return nil, err
		}
		return nodes.replace(cc, ri), nil

	default:
		cc, err := s.single(j)
		if err != nil {
			return nil, err
		}
		return nodes.replace(cc), nil
	}
}

// single plans j between two base-table scans.
func (s *search) single(j plan.LogicalJoinNode) (*CostCard, error) {
	left := s.rels[j.LeftAlias]
	card2, cost2, pk2 := s.inner(j)
	return s.swapAndCompare(nil, j,
		left.card, card2, left.scanCost, cost2,
		s.isPrimaryKey(j.LeftAlias, j.LeftField), pk2, true)
}

// inner returns the scan estimates of j's right table; a subplan has none.
func (s *search) inner(j plan.LogicalJoinNode) (card int64, cost float64, pk bool) {
	if j.Subplan {
		return 0, 0, false
	}
	right := s.rels[j.RightAlias]
	return right.card, right.scanCost, s.isPrimaryKey(j.RightAlias, j.RightField)
}

// swapAndCompare costs j in both orientations and keeps the cheaper one,
// with the primary-key flags, cardinalities and costs following the inputs.
// A subplan join is only costed as given: the subquery stays inner.
// The resulting plan is prev's joins followed by j.
func (s *search) swapAndCompare(prev []*CostCard, j plan.LogicalJoinNode, card1, card2 int64, cost1, cost2 float64, pk1, pk2, bothBase bool) (*CostCard, error) {
	cost, method := EstimateJoinCost(j, card1, card2, cost1, cost2)

	if !j.Subplan {
		swapped := j.Swap()
		if swappedCost, swappedMethod := EstimateJoinCost(swapped, card2, card1, cost2, cost1); swappedCost < cost {
			j, cost, method = swapped, swappedCost, swappedMethod
			card1, card2 = card2, card1
			pk1, pk2 = pk2, pk1
		}
	}
	j = j.WithMethod(method)

	card, err := s.jo.EstimateJoinCardinality(j, card1, card2, pk1, pk2, bothBase, s.reg)
	if err != nil {
		return nil, err
	}
	return newCostCard(prev, j, cost, card, s.aliases), nil
}

func (s *search) isPrimaryKey(alias, field string) bool {
	rel, ok := s.rels[alias]
	return ok && rel.primaryKey != "" && rel.primaryKey == field
}

// hasPrimaryKey reports whether any join of the fragment reads a primary key
// column.
func (s *search) hasPrimaryKey(cc *CostCard) bool {
	for _, j := range cc.Plan {
		if s.isPrimaryKey(j.LeftAlias, j.LeftField) {
			return true
		}
		if !j.Subplan && s.isPrimaryKey(j.RightAlias, j.RightField) {
			return true
		}
	}
	return false
}
