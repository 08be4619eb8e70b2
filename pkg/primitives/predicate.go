package primitives

import (
	"fmt"
	"strings"
)

// Predicate is a binary comparison operator used by filters and join conditions.
type Predicate int

const (
	Equals Predicate = iota
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	NotEqual
	Like
)

func (p Predicate) String() string {
	switch p {
	case Equals:
		return "="

	case LessThan:
		return "<"

	case GreaterThan:
		return ">"

	case LessThanOrEqual:
		return "<="

	case GreaterThanOrEqual:
		return ">="

	case NotEqual:
		return "!="

	case Like:
		return "LIKE"

	default:
		return "UNKNOWN"
	}
}

// Flip returns the operator that holds after the two operands are exchanged,
// so that "a < b" and "b > a" denote the same comparison.
func (p Predicate) Flip() Predicate {
	switch p {
	case LessThan:
		return GreaterThan
	case GreaterThan:
		return LessThan
	case LessThanOrEqual:
		return GreaterThanOrEqual
	case GreaterThanOrEqual:
		return LessThanOrEqual
	default:
		return p
	}
}

// IsRange reports whether the operator is one of the ordered comparisons.
func (p Predicate) IsRange() bool {
	switch p {
	case LessThan, GreaterThan, LessThanOrEqual, GreaterThanOrEqual:
		return true
	default:
		return false
	}
}

// ParsePredicate converts the textual form of an operator back into a Predicate.
// Both "!=" and "<>" are accepted for inequality.
func ParsePredicate(s string) (Predicate, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "=", "==":
		return Equals, nil
	case "<":
		return LessThan, nil
	case ">":
		return GreaterThan, nil
	case "<=":
		return LessThanOrEqual, nil
	case ">=":
		return GreaterThanOrEqual, nil
	case "!=", "<>":
		return NotEqual, nil
	case "LIKE":
		return Like, nil
	default:
		return Equals, fmt.Errorf("unknown predicate %q", s)
	}
}
