package matchers

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// walker performs the depth-limited descent for one pattern
type walker struct {
	fs       afero.Fs
	pattern  string
	maxDepth int
	logger   zerolog.Logger
	matches  []string
}

// walk visits the entries of dir. rel is dir relative to the walk base in
// slash form; ancestors holds the resolved info of every directory on the
// current descent path, used to detect symlink cycles.
func (w *walker) walk(dir, rel string, depth int, ancestors []fs.FileInfo) {
	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		w.logger.Debug().Err(err).Str("dir", dir).Msg("Skipping unreadable directory")
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)
		relPath := name
		if rel != "" {
			relPath = path.Join(rel, name)
		}

		if ok, _ := doublestar.Match(w.pattern, relPath); ok {
			w.matches = append(w.matches, full)
		}

		if w.maxDepth >= 0 && depth+1 >= w.maxDepth {
			continue
		}

		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			resolved, err := w.fs.Stat(full)
			if err != nil {
				continue
			}
			info = resolved
		}
		if !info.IsDir() {
			continue
		}
		if isAncestor(info, ancestors) {
			w.logger.Debug().Str("path", full).Msg("Skipping symlink cycle")
			continue
		}

		w.walk(full, relPath, depth+1, append(ancestors[:len(ancestors):len(ancestors)], info))
	}
}

func isAncestor(info fs.FileInfo, ancestors []fs.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(a, info) {
			return true
		}
	}
	return false
}
