// Package memory provides in-memory implementations of the storage
// ports, used by service tests. Semantics mirror the SQLite store,
// including pair uniqueness and all-or-nothing relation saves.
package memory
