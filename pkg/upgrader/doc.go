// Package upgrader orchestrates a schema upgrade end to end: load the step
// sequence from disk, connect, reconcile against the ledger, and apply each
// pending step in its own transaction.
//
// Two entry points cover the two execution strategies. Upgrade runs on a
// native cooperative connection and honors its context; UpgradeBlocking runs
// on a database/sql connection for callers without a context to thread
// through. Both apply identical semantics.
package upgrader
