package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseField converts the textual form of a constant into a Field of type t.
func ParseField(t Type, constant string) (Field, error) {
	switch t {
	case IntType:
		v, err := strconv.ParseInt(strings.TrimSpace(constant), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", constant, err)
		}
		return NewIntField(v), nil

	case StringType:
		return NewStringField(constant, StringMaxSize), nil

	default:
		return nil, fmt.Errorf("unsupported field type: %v", t)
	}
}
