package types

import "costdb/pkg/primitives"

// Field is a single typed value inside a tuple.
type Field interface {
	Compare(op primitives.Predicate, other Field) (bool, error)

	Type() Type

	String() string

	Equals(other Field) bool
}
