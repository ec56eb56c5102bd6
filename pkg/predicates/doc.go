// Package predicates evaluates time, content and provenance conditions
// against PathRecords.
//
// Every predicate is total: a path that vanished, a timestamp the platform
// does not record, or an unsupported metadata source all degrade to "does
// not match" rather than an error that would abort a rule. AgeSince is the
// one exception and reports NOT_FOUND so callers can tell races apart.
package predicates
