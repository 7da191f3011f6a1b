// Package integrity reconciles the on-disk step sequence against the
// database ledger before anything executes.
//
// The ledger must form an unbroken prefix of the full sequence, and every
// already-applied step's on-disk content must still match what the ledger
// recorded byte for byte. Validation is pure logic over the two inputs and
// runs to completion before any SQL is executed; any violation aborts the
// whole run with zero side effects.
package integrity
