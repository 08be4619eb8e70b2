package statistics

import (
	"costdb/pkg/dberror"
	"maps"
	"slices"
	"sync"

	"go.uber.org/atomic"
)

// jointKey identifies the joint histogram for table1.field1 op table2.field2,
// where table1 supplies the bucket domain.
type jointKey struct {
	table1, field1 string
	table2, field2 string
}

// Registry is the published, read-only set of statistics for a catalog:
// table statistics by table name and joint histograms by column pair. It is
// safe for concurrent use without locking because nothing mutates it.
type Registry struct {
	tables map[string]*TableStats
	joints map[jointKey]*JointHistogram
}

// TableStats returns the statistics of the named table.
func (r *Registry) TableStats(tableName string) (*TableStats, error) {
	ts, ok := r.tables[tableName]
	if !ok {
		return nil, dberror.StatsMissing(tableName)
	}
	return ts, nil
}

// JointHistogram returns the joint histogram for
// table1.field1 op table2.field2, if one was built.
func (r *Registry) JointHistogram(table1, field1, table2, field2 string) (*JointHistogram, bool) {
	h, ok := r.joints[jointKey{table1: table1, field1: field1, table2: table2, field2: field2}]
	return h, ok
}

// TableNames returns the analyzed tables in ascending order.
func (r *Registry) TableNames() []string {
	return slices.Sorted(maps.Keys(r.tables))
}

// NumJointHistograms returns how many joint histograms were built.
func (r *Registry) NumJointHistograms() int {
	return len(r.joints)
}

// RegistryBuilder collects statistics until Freeze publishes them as a
// Registry. Setters are safe for concurrent use and fail once the builder is
// frozen.
type RegistryBuilder struct {
	frozen atomic.Bool
	mu     sync.Mutex
	tables map[string]*TableStats
	joints map[jointKey]*JointHistogram
}

func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		tables: make(map[string]*TableStats),
		joints: make(map[jointKey]*JointHistogram),
	}
}

// SetTableStats records the statistics of a table, replacing earlier ones.
func (b *RegistryBuilder) SetTableStats(tableName string, ts *TableStats) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen.Load() {
		return dberror.RegistryFrozen().WithOperation("SetTableStats", "RegistryBuilder")
	}
	b.tables[tableName] = ts
	return nil
}

// TableStats returns statistics recorded so far.
func (b *RegistryBuilder) TableStats(tableName string) (*TableStats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ts, ok := b.tables[tableName]
	if !ok {
		return nil, dberror.StatsMissing(tableName)
	}
	return ts, nil
}

// SetJointHistogram records the joint histogram for
// table1.field1 op table2.field2.
func (b *RegistryBuilder) SetJointHistogram(table1, field1, table2, field2 string, h *JointHistogram) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen.Load() {
		return dberror.RegistryFrozen().WithOperation("SetJointHistogram", "RegistryBuilder")
	}
	b.joints[jointKey{table1: table1, field1: field1, table2: table2, field2: field2}] = h
	return nil
}

// Freeze publishes the collected statistics. A builder can be frozen once.
func (b *RegistryBuilder) Freeze() (*Registry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.frozen.CompareAndSwap(false, true) {
		return nil, dberror.RegistryFrozen().WithOperation("Freeze", "RegistryBuilder")
	}
	return &Registry{tables: b.tables, joints: b.joints}, nil
}

// Frozen reports whether Freeze has been called.
func (b *RegistryBuilder) Frozen() bool {
	return b.frozen.Load()
}
