package engine

import (
	"time"

	"github.com/arthur-debert/tidyup/pkg/paths"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/rs/zerolog"
)

// Context is what a rule body sees. It is only valid during the rule
// invocation it was created for.
type Context struct {
	engine *Engine
	rule   string
	now    time.Time
	logger zerolog.Logger
	record func(types.ActionLogEntry)
}

// MoveOption adjusts a single move or rename
type MoveOption func(*moveOptions)

type moveOptions struct {
	conflict types.ConflictPolicy
}

// WithConflict sets the conflict policy for one move
func WithConflict(policy types.ConflictPolicy) MoveOption {
	return func(o *moveOptions) {
		if policy != "" {
			o.conflict = policy
		}
	}
}

// Rule returns the name of the running rule
func (c *Context) Rule() string {
	return c.rule
}

// Now is the reference instant for age predicates, fixed when the rule starts
func (c *Context) Now() time.Time {
	return c.now
}

// Logger returns a logger tagged with the rule name
func (c *Context) Logger() zerolog.Logger {
	return c.logger
}

// Expand resolves ~ and relative paths against the engine root
func (c *Context) Expand(path string) (string, error) {
	return paths.Resolve(c.engine.opts.Root, path)
}

// Dir returns the existing paths matching the patterns, sorted and without
// duplicates
func (c *Context) Dir(patterns ...string) ([]types.PathRecord, error) {
	return c.engine.opts.Globber.Match(patterns...)
}

// AgeSince returns how long ago the chosen timestamp of rec was
func (c *Context) AgeSince(rec types.PathRecord, field types.TimeField) (time.Duration, error) {
	return c.engine.opts.Inspector.AgeSince(rec, field, c.now)
}

// OlderThan reports whether the chosen timestamp is at least d in the past.
// Vanished paths are never older than anything.
func (c *Context) OlderThan(rec types.PathRecord, field types.TimeField, d time.Duration) bool {
	return c.engine.opts.Inspector.OlderThan(rec, field, d, c.now)
}

// ContentType returns the detected content category of rec
func (c *Context) ContentType(rec types.PathRecord) types.ContentType {
	return c.engine.opts.Inspector.ContentType(rec)
}

// SourceURLs returns the download origin URLs recorded for rec
func (c *Context) SourceURLs(rec types.PathRecord) []string {
	return c.engine.opts.Inspector.SourceURLs(rec)
}

// DownloadedFrom reports whether any source URL of rec contains one of needles
func (c *Context) DownloadedFrom(rec types.PathRecord, needles ...string) bool {
	return c.engine.opts.Inspector.DownloadedFrom(rec, needles...)
}

// IsEmptyDir reports whether rec is a directory with no entries
func (c *Context) IsEmptyDir(rec types.PathRecord) bool {
	return c.engine.opts.Inspector.IsEmptyDir(rec)
}

// Mkdir creates path (and its parents) if needed and returns it
func (c *Context) Mkdir(path string) (string, error) {
	resolved, err := c.Expand(path)
	if err != nil {
		return "", err
	}
	dir, entries, err := c.engine.opts.Actor.Mkdir(c.rule, resolved)
	c.recordAll(entries)
	return dir, err
}

// Move moves sources into the existing directory destDir
func (c *Context) Move(sources []string, destDir string, opts ...MoveOption) ([]types.ActionLogEntry, error) {
	o := c.moveOptions(opts)
	dest, err := c.Expand(destDir)
	if err != nil {
		return nil, err
	}
	srcs, err := c.expandAll(sources)
	if err != nil {
		return nil, err
	}
	entries, err := c.engine.opts.Actor.Move(c.rule, srcs, dest, o.conflict)
	c.recordAll(entries)
	return entries, err
}

// Rename moves source to the explicit path dest
func (c *Context) Rename(source, dest string, opts ...MoveOption) (types.ActionLogEntry, error) {
	o := c.moveOptions(opts)
	src, err := c.Expand(source)
	if err != nil {
		return types.ActionLogEntry{}, err
	}
	dst, err := c.Expand(dest)
	if err != nil {
		return types.ActionLogEntry{}, err
	}
	entry, err := c.engine.opts.Actor.Rename(c.rule, src, dst, o.conflict)
	if entry.Kind != "" {
		c.recordAll([]types.ActionLogEntry{entry})
	}
	return entry, err
}

// Trash sends paths to the trash can
func (c *Context) Trash(targets ...string) ([]types.ActionLogEntry, error) {
	resolved, err := c.expandAll(targets)
	if err != nil {
		return nil, err
	}
	entries, err := c.engine.opts.Actor.Trash(c.rule, resolved)
	c.recordAll(entries)
	return entries, err
}

func (c *Context) moveOptions(opts []MoveOption) moveOptions {
	o := moveOptions{conflict: c.engine.opts.Conflict}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (c *Context) expandAll(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, p := range in {
		resolved, err := c.Expand(p)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

func (c *Context) recordAll(entries []types.ActionLogEntry) {
	for _, entry := range entries {
		c.record(entry)
	}
}
