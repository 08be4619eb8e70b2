package plan

import (
	"fmt"
	"strings"
)

// JoinNode represents a join operation between two relations.
type JoinNode struct {
	BasePlanNode
	LeftChild  PlanNode // Outer input relation
	RightChild PlanNode // Inner input relation

	// Join is the condition evaluated by this node, including the chosen
	// algorithm. It is the zero value for cross products.
	Join LogicalJoinNode

	// Step is the position of Join in the ordered join list, or -1 for a
	// cross product between disconnected parts of the query.
	Step int
}

// Cross reports whether the node joins its inputs without a condition.
func (j *JoinNode) Cross() bool {
	return j.Step < 0
}

func (j *JoinNode) GetNodeType() string {
	if j.Cross() {
		return "CrossJoin"
	}
	return "Join"
}

func (j *JoinNode) GetChildren() []PlanNode {
	return []PlanNode{j.LeftChild, j.RightChild}
}

// Describe returns the one-line summary of the node without its children.
func (j *JoinNode) Describe() string {
	if j.Cross() {
		return fmt.Sprintf("CrossJoin(cost=%.2f, rows=%d)", j.Cost, j.Cardinality)
	}
	return fmt.Sprintf("Join(%s, on=%s, cost=%.2f, rows=%d)", j.Join.Method, j.Join, j.Cost, j.Cardinality)
}

func (j *JoinNode) String() string {
	var sb strings.Builder
	sb.WriteString(j.Describe())
	sb.WriteString("\n")
	sb.WriteString(indent(j.LeftChild.String(), 2))
	sb.WriteString("\n")
	sb.WriteString(indent(j.RightChild.String(), 2))
	return sb.String()
}
