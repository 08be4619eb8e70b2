package plan

import (
	"costdb/pkg/primitives"
	"fmt"
	"regexp"
	"strings"
)

var joinPattern = regexp.MustCompile(`^\s*(\w+)\.(\w+)\s*(<=|>=|<>|!=|==|=|<|>|(?i:like))\s*(\w+)\.(\w+)\s*$`)

// ParseJoin parses a condition of the form "t1.a = t2.b".
func ParseJoin(s string) (LogicalJoinNode, error) {
	m := joinPattern.FindStringSubmatch(s)
	if m == nil {
		return LogicalJoinNode{}, fmt.Errorf("invalid join condition %q, expected alias.field OP alias.field", s)
	}

	op, err := primitives.ParsePredicate(strings.ToUpper(m[3]))
	if err != nil {
		return LogicalJoinNode{}, err
	}
	return NewLogicalJoinNode(m[1], m[4], m[2], m[5], op), nil
}

var filterPattern = regexp.MustCompile(`^\s*(\w+)\.(\w+)\s*(<=|>=|<>|!=|==|=|<|>|(?i:like))\s*(.+?)\s*$`)

// Filter is a single-table predicate "alias.field op constant". The constant
// is kept as text until the column type is known.
type Filter struct {
	Alias    string
	Field    string
	Op       primitives.Predicate
	Constant string
}

func (f Filter) String() string {
	return fmt.Sprintf("%s.%s %s %s", f.Alias, f.Field, f.Op, f.Constant)
}

// ParseFilter parses a predicate of the form "t1.a < 10". Quotes around a
// string constant are removed.
func ParseFilter(s string) (Filter, error) {
	m := filterPattern.FindStringSubmatch(s)
	if m == nil {
		return Filter{}, fmt.Errorf("invalid filter %q, expected alias.field OP constant", s)
	}

	op, err := primitives.ParsePredicate(strings.ToUpper(m[3]))
	if err != nil {
		return Filter{}, err
	}
	constant := m[4]
	if len(constant) >= 2 && (constant[0] == '\'' || constant[0] == '"') && constant[len(constant)-1] == constant[0] {
		constant = constant[1 : len(constant)-1]
	}
	return Filter{Alias: m[1], Field: m[2], Op: op, Constant: constant}, nil
}
