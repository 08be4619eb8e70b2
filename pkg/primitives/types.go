package primitives

import (
	"fmt"
	"hash/fnv"
)

// TableID identifies a table in the catalog.
//
// IDs are derived from the table name with FNV-1a, so the same name always
// maps to the same ID across runs.
type TableID uint64

// InvalidTableID represents an unset table identifier.
const InvalidTableID TableID = 0

// TableIDFromName derives the deterministic identifier for a table name.
func TableIDFromName(name string) TableID {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return TableID(h.Sum64())
}

func (t TableID) String() string {
	return fmt.Sprintf("TableID(%d)", t)
}
