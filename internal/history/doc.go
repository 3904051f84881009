// Package history persists a ledger of booklet runs in SQLite.
//
// Every performer build inserts a running row when it starts and updates it
// with the outcome (page count, output size, failure class and message) when
// it finishes. The `booklet history` command lists recent rows. The schema is
// versioned; a mismatched database must be deleted, since the ledger holds no
// state the tool depends on.
package history
