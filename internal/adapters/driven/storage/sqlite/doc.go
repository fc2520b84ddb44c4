// Package sqlite implements the storage engine on SQLite. A single
// Store owns the database handle and hands out per-record-kind store
// wrappers. Schema evolution runs through embedded, numbered SQL
// migrations; the session store is the sole authority for translating
// between the normalised and denormalised session forms.
package sqlite
