// Package repository defines the persistence interfaces for domainverse.
//
// The domain graph itself lives in memory and is rebuilt from the catalog on
// every start. What is persisted is the edit journal: every successful rename
// and verb change, in order, so Replay can bring a fresh graph back to the
// state it had before a restart.
//
// # SQLite Implementation
//
// The sqlite subpackage stores the journal in a single table using the pure
// Go modernc.org/sqlite driver, with WAL mode for file databases. Tests use
// in-memory databases.
package repository
