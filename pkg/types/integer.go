package types

import (
	"costdb/pkg/primitives"
	"fmt"
	"strconv"
)

// IntField holds a 64-bit signed integer.
type IntField struct {
	Value int64
}

func NewIntField(value int64) *IntField {
	return &IntField{Value: value}
}

func (f *IntField) Compare(op primitives.Predicate, other Field) (bool, error) {
	otherIntField, ok := other.(*IntField)
	if !ok {
		return false, fmt.Errorf("cannot compare %s with %s", f.Type(), other.Type())
	}
	return compareInt64(f.Value, otherIntField.Value, op)
}

func (f *IntField) Type() Type {
	return IntType
}

func (f *IntField) String() string {
	return strconv.FormatInt(f.Value, 10)
}

func (f *IntField) Equals(other Field) bool {
	otherInt, ok := other.(*IntField)
	if !ok {
		return false
	}
	return f.Value == otherInt.Value
}

func compareInt64(a, b int64, op primitives.Predicate) (bool, error) {
	switch op {
	case primitives.Equals:
		return a == b, nil
	case primitives.LessThan:
		return a < b, nil
	case primitives.GreaterThan:
		return a > b, nil
	case primitives.LessThanOrEqual:
		return a <= b, nil
	case primitives.GreaterThanOrEqual:
		return a >= b, nil
	case primitives.NotEqual:
		return a != b, nil
	default:
		return false, fmt.Errorf("predicate %s is not defined for integers", op)
	}
}
