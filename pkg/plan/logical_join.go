package plan

import (
	"costdb/pkg/primitives"
	"fmt"
)

// LogicalJoinNode is one join condition of a query:
// LeftAlias.LeftField Op RightAlias.RightField.
//
// A subplan join has a materialised subquery as its right input; RightAlias
// and RightField are then empty.
type LogicalJoinNode struct {
	LeftAlias  string
	RightAlias string
	LeftField  string
	RightField string
	Op         primitives.Predicate
	Method     JoinMethod
	Subplan    bool
}

// NewLogicalJoinNode creates a join between two base-table columns.
func NewLogicalJoinNode(leftAlias, rightAlias, leftField, rightField string, op primitives.Predicate) LogicalJoinNode {
	return LogicalJoinNode{
		LeftAlias:  leftAlias,
		RightAlias: rightAlias,
		LeftField:  leftField,
		RightField: rightField,
		Op:         op,
	}
}

// NewSubplanJoinNode creates a join of a base-table column against a subquery.
func NewSubplanJoinNode(leftAlias, leftField string, op primitives.Predicate) LogicalJoinNode {
	return LogicalJoinNode{
		LeftAlias: leftAlias,
		LeftField: leftField,
		Op:        op,
		Subplan:   true,
	}
}

// Swap returns the join with its inputs exchanged and the operator flipped,
// so the swapped join selects the same rows. Subplan joins are returned
// unchanged: the subquery must stay on the inner side.
func (j LogicalJoinNode) Swap() LogicalJoinNode {
	if j.Subplan {
		return j
	}
	return LogicalJoinNode{
		LeftAlias:  j.RightAlias,
		RightAlias: j.LeftAlias,
		LeftField:  j.RightField,
		RightField: j.LeftField,
		Op:         j.Op.Flip(),
		Method:     j.Method,
	}
}

// WithMethod returns a copy tagged with the given join algorithm.
func (j LogicalJoinNode) WithMethod(m JoinMethod) LogicalJoinNode {
	j.Method = m
	return j
}

// Endpoint is one qualified column of a join.
type Endpoint struct {
	Alias, Field string
}

func (e Endpoint) less(o Endpoint) bool {
	if e.Alias != o.Alias {
		return e.Alias < o.Alias
	}
	return e.Field < o.Field
}

// JoinKey identifies a join by its unordered pair of endpoints.
type JoinKey struct {
	A, B Endpoint
}

// Key returns the join's endpoint pair in canonical order.
func (j LogicalJoinNode) Key() JoinKey {
	left := Endpoint{Alias: j.LeftAlias, Field: j.LeftField}
	right := Endpoint{Alias: j.RightAlias, Field: j.RightField}
	if right.less(left) {
		return JoinKey{A: right, B: left}
	}
	return JoinKey{A: left, B: right}
}

// Equals reports whether both joins connect the same pair of columns, in
// either orientation.
func (j LogicalJoinNode) Equals(other LogicalJoinNode) bool {
	return j.Key() == other.Key()
}

// Touches reports whether alias is one of the join's endpoints.
func (j LogicalJoinNode) Touches(alias string) bool {
	return j.LeftAlias == alias || (!j.Subplan && j.RightAlias == alias)
}

// LeftQualified returns "alias.field" for the left input.
func (j LogicalJoinNode) LeftQualified() string {
	return j.LeftAlias + "." + j.LeftField
}

// RightQualified returns "alias.field" for the right input, or "subplan".
func (j LogicalJoinNode) RightQualified() string {
	if j.Subplan {
		return "subplan"
	}
	return j.RightAlias + "." + j.RightField
}

func (j LogicalJoinNode) String() string {
	return fmt.Sprintf("%s %s %s", j.LeftQualified(), j.Op, j.RightQualified())
}
