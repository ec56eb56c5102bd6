package filesystem

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/spf13/afero"
)

// NewOS returns the real operating system filesystem
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an in-memory filesystem, used by tests and dry runs
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// Lstat stats a path without following a final symlink when the filesystem
// supports it, falling back to Stat otherwise.
func Lstat(fsys afero.Fs, path string) (fs.FileInfo, error) {
	if l, ok := fsys.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return fsys.Stat(path)
}

// Exists reports whether anything, including a dangling symlink, is present at path
func Exists(fsys afero.Fs, path string) bool {
	_, err := Lstat(fsys, path)
	return err == nil
}

// Record builds a fresh PathRecord for path. Symlinks are resolved; a
// dangling link is reported as a file using the link's own metadata.
func Record(fsys afero.Fs, path string) (types.PathRecord, error) {
	linfo, lerr := Lstat(fsys, path)
	if lerr != nil {
		return types.PathRecord{}, errors.FromFS(lerr, errors.ErrFileAccess, path)
	}
	isLink := linfo.Mode()&os.ModeSymlink != 0

	info := linfo
	if isLink {
		resolved, err := fsys.Stat(path)
		if err == nil {
			info = resolved
		}
	}

	rec := types.PathRecord{
		Path:       path,
		Kind:       types.KindFile,
		Size:       info.Size(),
		Mode:       info.Mode(),
		IsSymlink:  isLink,
		ModifiedAt: info.ModTime(),
	}
	if info.IsDir() {
		rec.Kind = types.KindDirectory
	}
	rec.AccessedAt, rec.CreatedAt = fileTimes(path, info)
	return rec, nil
}

// IsEmptyDir reports whether path is a directory with no entries
func IsEmptyDir(fsys afero.Fs, path string) bool {
	isDir, err := afero.IsDir(fsys, path)
	if err != nil || !isDir {
		return false
	}
	empty, err := afero.IsEmpty(fsys, path)
	return err == nil && empty
}
