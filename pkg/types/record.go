package types

import (
	"io/fs"
	"time"
)

// Kind distinguishes files from directories
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// TimeField selects which timestamp of a path an age is measured from
type TimeField string

const (
	Accessed TimeField = "accessed"
	Modified TimeField = "modified"
	Created  TimeField = "created"
)

// PathRecord is a snapshot of one filesystem entry. Records are built on
// demand and never cached across rule invocations.
type PathRecord struct {
	Path       string      // Absolute path
	Kind       Kind        // File or directory (links are resolved)
	Size       int64       // Size in bytes as reported by stat
	Mode       fs.FileMode // Permission and type bits of the resolved entry
	IsSymlink  bool        // Whether Path itself is a symbolic link
	AccessedAt time.Time
	ModifiedAt time.Time
	CreatedAt  time.Time
}

// IsDir reports whether the record is a directory
func (r PathRecord) IsDir() bool {
	return r.Kind == KindDirectory
}

// Time returns the timestamp selected by field. Unknown fields return the
// zero time.
func (r PathRecord) Time(field TimeField) time.Time {
	switch field {
	case Accessed:
		return r.AccessedAt
	case Modified:
		return r.ModifiedAt
	case Created:
		return r.CreatedAt
	default:
		return time.Time{}
	}
}

// Paths extracts the path of every record, preserving order
func Paths(records []PathRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Path)
	}
	return out
}

// ParseTimeField converts a configuration string into a TimeField
func ParseTimeField(s string) (TimeField, bool) {
	switch TimeField(s) {
	case Accessed, Modified, Created:
		return TimeField(s), true
	}
	return "", false
}
