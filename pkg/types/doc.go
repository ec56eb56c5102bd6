// Package types defines the core data types shared across tidyup.
// This includes PathRecord (a fresh filesystem view of one path),
// ActionLogEntry (the audit record of a side-effecting action), and the
// small enums used for timestamps, content types and conflict policies.
package types
