package plan

// PlanNode represents a node in the physical join tree produced from an
// ordered join list.
type PlanNode interface {
	// GetCost returns the estimated total cost of executing this node and its children
	GetCost() float64

	// GetCardinality returns the estimated number of rows this node will produce
	GetCardinality() int64

	// GetChildren returns the child plan nodes
	GetChildren() []PlanNode

	// GetNodeType returns the type of this node (for debugging/visualization)
	GetNodeType() string

	// String returns a human-readable representation of the plan
	String() string

	// SetCost sets the estimated cost (used by optimizer)
	SetCost(cost float64)

	// SetCardinality sets the estimated cardinality (used by optimizer)
	SetCardinality(card int64)
}

// BasePlanNode provides common functionality for all plan nodes
type BasePlanNode struct {
	Cost        float64
	Cardinality int64
}

func (b *BasePlanNode) GetCost() float64 {
	return b.Cost
}

func (b *BasePlanNode) GetCardinality() int64 {
	return b.Cardinality
}

func (b *BasePlanNode) SetCost(cost float64) {
	b.Cost = cost
}

func (b *BasePlanNode) SetCardinality(card int64) {
	b.Cardinality = card
}
