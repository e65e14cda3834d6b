// Package ledger records sampling runs in SQLite.
//
// Each run gets a UUID, a status that moves from running to succeeded,
// failed or interrupted, and one row per pipeline stage with the row counts
// before and after that stage. The ledger is an audit trail: nothing in the
// pipeline reads it back to make decisions. Schema changes bump
// schemaVersion; users delete runs.db to adopt the new schema.
package ledger
