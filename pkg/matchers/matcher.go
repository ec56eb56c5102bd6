package matchers

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/paths"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Matcher expands glob patterns against a filesystem
type Matcher struct {
	fs     afero.Fs
	root   string
	logger zerolog.Logger
}

// NewMatcher creates a matcher over fsys. Relative patterns resolve against
// root; an empty root means the working directory.
func NewMatcher(fsys afero.Fs, root string) *Matcher {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	return &Matcher{
		fs:     fsys,
		root:   root,
		logger: logging.GetLogger("matchers"),
	}
}

// Validate checks that pattern is well formed (balanced braces and classes)
func Validate(pattern string) error {
	if pattern == "" {
		return errors.New(errors.ErrConfigValid, "empty pattern")
	}
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return errors.Newf(errors.ErrConfigValid, "invalid glob pattern %q", pattern).
			WithDetail("pattern", pattern)
	}
	return nil
}

// Match expands every pattern and returns the union as fresh records,
// sorted by path with duplicates removed.
func (m *Matcher) Match(patterns ...string) ([]types.PathRecord, error) {
	found, err := m.MatchPaths(patterns...)
	if err != nil {
		return nil, err
	}

	records := make([]types.PathRecord, 0, len(found))
	for _, p := range found {
		rec, err := filesystem.Record(m.fs, p)
		if err != nil {
			// Vanished between listing and stat.
			m.logger.Debug().Err(err).Str("path", p).Msg("Dropping entry that disappeared")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// MatchPaths is Match without building records
func (m *Matcher) MatchPaths(patterns ...string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		if err := Validate(pattern); err != nil {
			return nil, err
		}
		resolved, err := paths.Resolve(m.root, pattern)
		if err != nil {
			return nil, err
		}
		matches, err := m.expand(filepath.ToSlash(resolved))
		if err != nil {
			return nil, err
		}
		for _, p := range matches {
			seen[p] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)

	m.logger.Debug().
		Strs("patterns", patterns).
		Int("matches", len(out)).
		Msg("Expanded patterns")
	return out, nil
}

// expand walks from the literal prefix of pattern and collects matches
func (m *Matcher) expand(pattern string) ([]string, error) {
	base, rel := doublestar.SplitPattern(pattern)
	base = filepath.FromSlash(base)

	if rel == "" {
		if filesystem.Exists(m.fs, base) {
			return []string{base}, nil
		}
		return nil, nil
	}

	baseInfo, err := m.fs.Stat(base)
	if err != nil || !baseInfo.IsDir() {
		return nil, nil
	}

	w := &walker{
		fs:       m.fs,
		pattern:  rel,
		maxDepth: maxDepth(rel),
		logger:   m.logger,
	}
	w.walk(base, "", 0, []fs.FileInfo{baseInfo})
	return w.matches, nil
}

// maxDepth is the number of segments a pattern can span, or -1 when it
// contains recursive descent. Slashes inside brace alternatives are counted
// too, which can only overestimate.
func maxDepth(pattern string) int {
	if strings.Contains(pattern, "**") {
		return -1
	}
	return strings.Count(pattern, "/") + 1
}
