package types

import (
	"fmt"
	"time"
)

// ActionKind identifies a side-effecting action
type ActionKind string

const (
	ActionMove  ActionKind = "move"
	ActionTrash ActionKind = "trash"
	ActionMkdir ActionKind = "mkdir"
)

// ActionStatus is the outcome of an action
type ActionStatus string

const (
	StatusDone    ActionStatus = "done"    // Mutation completed
	StatusSkipped ActionStatus = "skipped" // Nothing to do (source vanished, conflict skip)
	StatusFailed  ActionStatus = "failed"  // Mutation attempted and refused
	StatusPlanned ActionStatus = "planned" // Dry run: would have been performed
)

// ConflictPolicy decides what a move does when the destination name is taken
type ConflictPolicy string

const (
	ConflictOverwrite ConflictPolicy = "overwrite"
	ConflictSkip      ConflictPolicy = "skip"
	ConflictRename    ConflictPolicy = "rename"
)

// DefaultConflictPolicy is used when a rule does not choose one
const DefaultConflictPolicy = ConflictOverwrite

// ParseConflictPolicy converts a configuration string into a ConflictPolicy.
// The empty string maps to the default policy.
func ParseConflictPolicy(s string) (ConflictPolicy, bool) {
	switch ConflictPolicy(s) {
	case "":
		return DefaultConflictPolicy, true
	case ConflictOverwrite, ConflictSkip, ConflictRename:
		return ConflictPolicy(s), true
	}
	return "", false
}

// ActionLogEntry records one side-effecting action taken (or planned) by a rule
type ActionLogEntry struct {
	Rule        string       `json:"rule"`
	Kind        ActionKind   `json:"kind"`
	Source      string       `json:"source"`
	Destination string       `json:"destination,omitempty"`
	Status      ActionStatus `json:"status"`
	Reason      string       `json:"reason,omitempty"`
	Code        string       `json:"code,omitempty"` // Error code for failed entries
	Time        time.Time    `json:"time"`
	DryRun      bool         `json:"dry_run,omitempty"`
}

// String renders the entry as a single human-readable line
func (e ActionLogEntry) String() string {
	line := fmt.Sprintf("[%s] %s %s", e.Rule, e.Kind, e.Source)
	if e.Destination != "" {
		line += " -> " + e.Destination
	}
	if e.Status != StatusDone {
		line += fmt.Sprintf(" (%s", e.Status)
		if e.Reason != "" {
			line += ": " + e.Reason
		}
		line += ")"
	}
	return line
}

// Succeeded reports whether the entry represents a completed or planned mutation
func (e ActionLogEntry) Succeeded() bool {
	return e.Status == StatusDone || e.Status == StatusPlanned
}

// FilterStatus returns the entries with the given status
func FilterStatus(entries []ActionLogEntry, status ActionStatus) []ActionLogEntry {
	var out []ActionLogEntry
	for _, e := range entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}
