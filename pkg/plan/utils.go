package plan

import (
	"fmt"
	"strings"
)

// Helper function to indent multi-line strings
func indent(s string, spaces int) string {
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// PlanVisualizer renders plan trees with box-drawing connectors.
type PlanVisualizer struct{}

// NewPlanVisualizer creates a new plan visualizer
func NewPlanVisualizer() *PlanVisualizer {
	return &PlanVisualizer{}
}

// Visualize returns a tree-like visualization of the plan
func (pv *PlanVisualizer) Visualize(plan PlanNode) string {
	var sb strings.Builder
	sb.WriteString(describe(plan))
	sb.WriteString("\n")
	pv.visualizeChildren(&sb, plan, "")
	return sb.String()
}

func (pv *PlanVisualizer) visualizeChildren(sb *strings.Builder, node PlanNode, prefix string) {
	children := node.GetChildren()
	for i, child := range children {
		isLast := i == len(children)-1

		connector, childPrefix := "├── ", prefix+"│   "
		if isLast {
			connector, childPrefix = "└── ", prefix+"    "
		}

		sb.WriteString(prefix + connector + describe(child) + "\n")
		pv.visualizeChildren(sb, child, childPrefix)
	}
}

func describe(node PlanNode) string {
	if j, ok := node.(*JoinNode); ok {
		return j.Describe()
	}
	if len(node.GetChildren()) == 0 {
		return node.String()
	}
	return fmt.Sprintf("%s [cost=%.2f, rows=%d]", node.GetNodeType(), node.GetCost(), node.GetCardinality())
}
