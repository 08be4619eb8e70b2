package plan

import (
	"costdb/pkg/primitives"
	"fmt"
	"strings"
)

// ScanNode represents a sequential scan of a base table.
type ScanNode struct {
	BasePlanNode
	TableName    string             // Name of the table being scanned
	TableID      primitives.TableID // Table identifier
	Alias        string             // Alias the query uses for the table
	AccessMethod string             // Always "seqscan" for now
}

// NewScanNode creates a new table scan node. An empty alias defaults to the
// table name.
func NewScanNode(tableID primitives.TableID, tableName, alias string) *ScanNode {
	if alias == "" {
		alias = tableName
	}
	return &ScanNode{
		TableName:    tableName,
		TableID:      tableID,
		Alias:        alias,
		AccessMethod: "seqscan",
	}
}

func (s *ScanNode) GetNodeType() string {
	return "Scan"
}

func (s *ScanNode) GetChildren() []PlanNode {
	return nil
}

func (s *ScanNode) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Scan(%s", s.TableName))
	if s.Alias != s.TableName {
		sb.WriteString(fmt.Sprintf(" AS %s", s.Alias))
	}
	sb.WriteString(fmt.Sprintf(", method=%s, cost=%.2f, rows=%d)", s.AccessMethod, s.Cost, s.Cardinality))
	return sb.String()
}

// SubplanNode stands in for a materialised subquery on the inner side of a
// subplan join.
type SubplanNode struct {
	BasePlanNode
}

func (s *SubplanNode) GetNodeType() string {
	return "Subplan"
}

func (s *SubplanNode) GetChildren() []PlanNode {
	return nil
}

func (s *SubplanNode) String() string {
	return fmt.Sprintf("Subplan(cost=%.2f, rows=%d)", s.Cost, s.Cardinality)
}
