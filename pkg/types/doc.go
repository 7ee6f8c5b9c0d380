// Package types defines the handles, records, and typed errors shared by the
// device tree reader, the traversal code, and the reporting layer.
//
// Design goals:
//   - Small, copyable handles (NodeID) instead of an object graph.
//   - Paranoid bounds checking; never panic on malformed input.
//   - Typed errors with stable categories (format/corrupt/unsupported/...).
//
// This package has no dependencies beyond the standard library.
package types
