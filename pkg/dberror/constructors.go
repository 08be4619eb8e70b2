package dberror

import "fmt"

func TableNotFound(table string) *DBError {
	return New(ErrCategoryUser, CodeTableNotFound, "table not found").
		WithDetail("no table named %q", table)
}

func StatsMissing(table string) *DBError {
	return New(ErrCategoryUser, CodeStatsMissing, "no statistics for table").
		WithDetail("table %q has not been analyzed", table).
		WithHint("run ComputeStatistics before ordering joins")
}

func TypeMismatch(expected, actual fmt.Stringer) *DBError {
	return New(ErrCategoryUser, CodeTypeMismatch, "value type does not match histogram").
		WithDetail("expected %s, got %s", expected, actual)
}

func UnsupportedPredicate(op fmt.Stringer) *DBError {
	return New(ErrCategoryUser, CodeUnsupportedPredicate, "predicate cannot be estimated").
		WithDetail("operator %s", op)
}

// StatsBuildFailed wraps a scan or histogram failure raised while table
// statistics were computed.
func StatsBuildFailed(table string, cause error) *DBError {
	err := New(ErrCategorySystem, CodeStatsBuildFailed, "statistics build failed").
		WithDetail("table %q", table)
	err.Cause = cause
	return err
}

func RegistryFrozen() *DBError {
	return New(ErrCategoryState, CodeRegistryFrozen, "statistics registry is frozen").
		WithHint("build a new registry instead of mutating a published one")
}

func TooManyJoins(n, limit int) *DBError {
	return New(ErrCategoryUser, CodeTooManyJoins, "join graph too large").
		WithDetail("%d joins exceed the limit of %d", n, limit)
}
