package types

import (
	"fmt"
	"strings"
)

// Type is the value kind of a column.
type Type int

const (
	IntType Type = iota
	StringType
)

// String returns a string representation of the type
func (t Type) String() string {
	switch t {
	case IntType:
		return "INT_TYPE"
	case StringType:
		return "STRING_TYPE"
	default:
		return "UNKNOWN_TYPE"
	}
}

// ParseType accepts the manifest spellings of a column type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer", "int_type":
		return IntType, nil
	case "string", "text", "varchar", "string_type":
		return StringType, nil
	default:
		return IntType, fmt.Errorf("unsupported column type %q", s)
	}
}
