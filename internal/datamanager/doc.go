// Package datamanager implements the per-backend data managers.
//
// Both managers share the same connection lifecycle: every operation opens a
// fresh connection through the connect-retry gate, runs exactly one
// statement (or one batch in a single transaction), and closes the
// connection before returning. Reads materialize the full result set in
// order; writes return the affected-row count and never convert a failure
// into a zero-affected success.
//
// MySQLManager additionally supports stored procedure calls; SQLiteManager
// additionally supports table column inspection and schema bootstrap of
// fresh database files.
package datamanager
