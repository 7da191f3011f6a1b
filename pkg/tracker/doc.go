// Package tracker reads and writes the persisted ledger of applied upgrade
// steps inside the target database.
//
// The ledger is a single table, "$upgraders$", optionally living in a
// configured schema. Each row records one applied step's identity key
// (file_id, upgrader_id), its full description and SQL text, and the time it
// was applied. Rows are only ever inserted, inside the same transaction that
// executed the step's SQL; nothing here updates or deletes them.
package tracker
