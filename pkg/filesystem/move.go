package filesystem

import (
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/spf13/afero"
)

// Move renames src to dst. When the rename crosses a filesystem boundary the
// tree is copied (mode and times preserved) and the source removed only after
// the copy completed.
func Move(fsys afero.Fs, src, dst string) error {
	err := fsys.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !stderrors.Is(err, syscall.EXDEV) {
		return errors.FromFS(err, errors.ErrActionExecute, src).WithDetail("destination", dst)
	}

	if err := Copy(fsys, src, dst); err != nil {
		_ = fsys.RemoveAll(dst)
		return err
	}
	if err := fsys.RemoveAll(src); err != nil {
		return errors.FromFS(err, errors.ErrActionExecute, src)
	}
	return nil
}

// Copy copies src to dst recursively, preserving permissions, modification
// and access times, and symbolic links.
func Copy(fsys afero.Fs, src, dst string) error {
	info, err := Lstat(fsys, src)
	if err != nil {
		return errors.FromFS(err, errors.ErrFileAccess, src)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return copyLink(fsys, src, dst)
	case info.IsDir():
		return copyDir(fsys, src, dst, info)
	default:
		return copyFile(fsys, src, dst, info)
	}
}

func copyFile(fsys afero.Fs, src, dst string, info os.FileInfo) error {
	in, err := fsys.Open(src)
	if err != nil {
		return errors.FromFS(err, errors.ErrFileAccess, src)
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.FromFS(err, errors.ErrActionExecute, dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrActionExecute, "copy %s", src)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrActionExecute, "close %s", dst)
	}
	return preserveMetadata(fsys, src, dst, info)
}

func copyDir(fsys afero.Fs, src, dst string, info os.FileInfo) error {
	if err := fsys.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return errors.FromFS(err, errors.ErrDirCreate, dst)
	}

	entries, err := afero.ReadDir(fsys, src)
	if err != nil {
		return errors.FromFS(err, errors.ErrFileAccess, src)
	}
	for _, entry := range entries {
		name := entry.Name()
		if err := Copy(fsys, filepath.Join(src, name), filepath.Join(dst, name)); err != nil {
			return err
		}
	}
	return preserveMetadata(fsys, src, dst, info)
}

func copyLink(fsys afero.Fs, src, dst string) error {
	reader, rok := fsys.(afero.LinkReader)
	linker, lok := fsys.(afero.Linker)
	if !rok || !lok {
		return errors.Newf(errors.ErrNotImplemented, "filesystem cannot copy symlink %s", src)
	}
	target, err := reader.ReadlinkIfPossible(src)
	if err != nil {
		return errors.FromFS(err, errors.ErrFileAccess, src)
	}
	if err := linker.SymlinkIfPossible(target, dst); err != nil {
		return errors.FromFS(err, errors.ErrActionExecute, dst)
	}
	return nil
}

func preserveMetadata(fsys afero.Fs, src, dst string, info os.FileInfo) error {
	if err := fsys.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.FromFS(err, errors.ErrActionExecute, dst)
	}
	accessed, _ := fileTimes(src, info)
	if err := fsys.Chtimes(dst, accessed, info.ModTime()); err != nil {
		return errors.FromFS(err, errors.ErrActionExecute, dst)
	}
	return nil
}
