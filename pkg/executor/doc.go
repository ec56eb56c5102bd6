// Package executor performs the side-effecting actions of tidyup rules.
//
// The executor moves, renames and trashes paths and creates directories.
// Every action produces a types.ActionLogEntry. Before a mutation is
// attempted an intent record is written to the journal, and once it has
// completed (or failed) the outcome is written, so the journal never claims
// a mutation that did not happen.
//
// Conflict handling for moves is explicit: the caller passes a
// types.ConflictPolicy. In dry-run mode nothing is mutated or journaled and
// entries carry the "planned" status.
package executor
