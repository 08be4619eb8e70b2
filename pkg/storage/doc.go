// Package storage defines the storage contract consumed by the optimizer.
//
// The optimizer never reads pages directly. It needs three things from a
// table's file: the tuple schema, the page count used by scan costing, and a
// rewindable sequential iterator used to build histograms.
//
// # Sub-packages
//
//   - [costdb/pkg/storage/memory] – paged in-memory table file with a CSV
//     loader, used by the CLI and by tests.
package storage
