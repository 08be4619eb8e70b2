package plan

import (
	"costdb/pkg/dberror"
	"costdb/pkg/primitives"
	"fmt"
	"slices"
)

// LogicalPlan is the parsed shape of a query that the optimizer orders:
// the scanned tables keyed by alias and the join conditions between them.
type LogicalPlan struct {
	scans       []*ScanNode
	aliasToScan map[string]*ScanNode
	joins       []LogicalJoinNode
	query       string
}

// NewLogicalPlan creates an empty plan.
func NewLogicalPlan() *LogicalPlan {
	return &LogicalPlan{
		aliasToScan: make(map[string]*ScanNode),
	}
}

// SetQuery records the query text the plan was built from.
func (lp *LogicalPlan) SetQuery(query string) {
	lp.query = query
}

func (lp *LogicalPlan) String() string {
	return lp.query
}

// AddScan adds a table to the plan under alias (the table name when empty).
func (lp *LogicalPlan) AddScan(tableID primitives.TableID, tableName, alias string) error {
	scan := NewScanNode(tableID, tableName, alias)
	if _, exists := lp.aliasToScan[scan.Alias]; exists {
		return fmt.Errorf("duplicate table alias %q", scan.Alias)
	}
	lp.scans = append(lp.scans, scan)
	lp.aliasToScan[scan.Alias] = scan
	return nil
}

// AddJoin appends a join condition. Aliases are resolved when the plan is
// optimized.
func (lp *LogicalPlan) AddJoin(j LogicalJoinNode) {
	lp.joins = append(lp.joins, j)
}

// Joins returns a copy of the join conditions in insertion order.
func (lp *LogicalPlan) Joins() []LogicalJoinNode {
	return slices.Clone(lp.joins)
}

// Scans returns the scanned tables in insertion order.
func (lp *LogicalPlan) Scans() []*ScanNode {
	return slices.Clone(lp.scans)
}

// TableID resolves an alias to its table.
func (lp *LogicalPlan) TableID(alias string) (primitives.TableID, error) {
	scan, ok := lp.aliasToScan[alias]
	if !ok {
		return primitives.InvalidTableID, dberror.TableNotFound(alias)
	}
	return scan.TableID, nil
}

// TableName resolves an alias to the name of its table.
func (lp *LogicalPlan) TableName(alias string) (string, error) {
	scan, ok := lp.aliasToScan[alias]
	if !ok {
		return "", dberror.TableNotFound(alias)
	}
	return scan.TableName, nil
}

// tree is one connected part of the join tree under construction.
type tree struct {
	root    PlanNode
	aliases []string
}

// BuildJoinTree turns an ordered join list into a tree of scans and joins.
// Each join's outer input is the tree already containing its left alias (or
// a fresh scan), and likewise for the inner input. A join whose endpoints
// are already in the same tree reads a fresh scan of its right table as the
// inner input. Tables left disconnected are combined with cross products in
// scan order.
func (lp *LogicalPlan) BuildJoinTree(ordered []LogicalJoinNode) (PlanNode, error) {
	if len(lp.scans) == 0 {
		return nil, fmt.Errorf("plan has no tables")
	}

	owner := make(map[string]*tree, len(lp.scans))
	input := func(alias string) (*tree, error) {
		if t, ok := owner[alias]; ok {
			return t, nil
		}
		scan, err := lp.freshScan(alias)
		if err != nil {
			return nil, err
		}
		t := &tree{root: scan, aliases: []string{alias}}
		owner[alias] = t
		return t, nil
	}

	for step, j := range ordered {
		left, err := input(j.LeftAlias)
		if err != nil {
			return nil, err
		}

		var right PlanNode
		aliases := slices.Clone(left.aliases)
		switch {
		case j.Subplan:
			right = &SubplanNode{}
		default:
			rt, err := input(j.RightAlias)
			if err != nil {
				return nil, err
			}
			if rt == left {
				scan, err := lp.freshScan(j.RightAlias)
				if err != nil {
					return nil, err
				}
				right = scan
			} else {
				right = rt.root
				aliases = append(aliases, rt.aliases...)
			}
		}

		merged := &tree{
			root:    &JoinNode{LeftChild: left.root, RightChild: right, Join: j, Step: step},
			aliases: aliases,
		}
		for _, alias := range aliases {
			owner[alias] = merged
		}
	}

	var root PlanNode
	var seen []*tree
	for _, scan := range lp.scans {
		t, err := input(scan.Alias)
		if err != nil {
			return nil, err
		}
		if slices.Contains(seen, t) {
			continue
		}
		seen = append(seen, t)
		if root == nil {
			root = t.root
			continue
		}
		root = &JoinNode{LeftChild: root, RightChild: t.root, Step: -1}
	}
	return root, nil
}

func (lp *LogicalPlan) freshScan(alias string) (*ScanNode, error) {
	scan, ok := lp.aliasToScan[alias]
	if !ok {
		return nil, dberror.TableNotFound(alias)
	}
	return NewScanNode(scan.TableID, scan.TableName, scan.Alias), nil
}
