package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const (
	filesDir = "files"
	infoDir  = "info"
)

// Item is one entry currently held in the trash
type Item struct {
	Name         string    `json:"name"`          // Name inside the trash (unique)
	OriginalPath string    `json:"original_path"` // Where the entry lived before it was trashed
	DeletedAt    time.Time `json:"deleted_at"`    // When it was trashed
	TrashedPath  string    `json:"trashed_path"`  // Current location under files/
	InfoPath     string    `json:"-"`             // Location of the .trashinfo record
	IsDir        bool      `json:"is_dir"`
	Size         int64     `json:"size"`
}

// Can is a trash directory on a filesystem
type Can struct {
	fs     afero.Fs
	dir    string
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Can
type Option func(*Can)

// WithClock overrides the deletion timestamp source
func WithClock(now func() time.Time) Option {
	return func(c *Can) { c.now = now }
}

// New returns the trash can rooted at dir
func New(fsys afero.Fs, dir string, opts ...Option) *Can {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	c := &Can{
		fs:     fsys,
		dir:    dir,
		now:    time.Now,
		logger: logging.GetLogger("trash"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the trash root
func (c *Can) Dir() string {
	return c.dir
}

// Ensure creates the files/ and info/ directories
func (c *Can) Ensure() error {
	for _, sub := range []string{filesDir, infoDir} {
		p := filepath.Join(c.dir, sub)
		if err := c.fs.MkdirAll(p, 0700); err != nil {
			return errors.FromFS(err, errors.ErrTrash, p)
		}
	}
	return nil
}

// Put moves path into the trash and returns the resulting item. A missing
// path is a NOT_FOUND error and leaves the trash untouched.
func (c *Can) Put(path string) (Item, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Item{}, errors.Wrapf(err, errors.ErrTrash, "resolve %s", path)
	}
	stat, err := filesystem.Lstat(c.fs, abs)
	if err != nil {
		return Item{}, errors.FromFS(err, errors.ErrTrash, abs)
	}
	if err := c.Ensure(); err != nil {
		return Item{}, err
	}

	deletedAt := c.now()
	name, infoPath, err := c.reserve(filepath.Base(abs), info{Path: abs, DeletionDate: deletedAt})
	if err != nil {
		return Item{}, err
	}

	trashed := filepath.Join(c.dir, filesDir, name)
	if err := filesystem.Move(c.fs, abs, trashed); err != nil {
		_ = c.fs.Remove(infoPath)
		return Item{}, err
	}

	c.logger.Debug().
		Str("path", abs).
		Str("name", name).
		Msg("Moved to trash")

	return Item{
		Name:         name,
		OriginalPath: abs,
		DeletedAt:    deletedAt,
		TrashedPath:  trashed,
		InfoPath:     infoPath,
		IsDir:        stat.IsDir(),
		Size:         stat.Size(),
	}, nil
}

// reserve writes the info file under the first free name derived from base
func (c *Can) reserve(base string, rec info) (string, string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem, ext = base, ""
	}

	for n := 1; n < 10000; n++ {
		name := base
		if n > 1 {
			name = fmt.Sprintf("%s.%d%s", stem, n, ext)
		}
		if filesystem.Exists(c.fs, filepath.Join(c.dir, filesDir, name)) {
			continue
		}

		infoPath := filepath.Join(c.dir, infoDir, name+infoExt)
		f, err := c.fs.OpenFile(infoPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err != nil {
			if os.IsExist(err) || errors.IsErrorCode(err, errors.ErrAlreadyExists) || filesystem.Exists(c.fs, infoPath) {
				continue
			}
			return "", "", errors.FromFS(err, errors.ErrTrash, infoPath)
		}
		_, werr := f.Write(rec.marshal())
		cerr := f.Close()
		if werr != nil || cerr != nil {
			_ = c.fs.Remove(infoPath)
			return "", "", errors.Newf(errors.ErrTrash, "write %s", infoPath)
		}
		return name, infoPath, nil
	}
	return "", "", errors.Newf(errors.ErrTrash, "no free trash name for %s", base)
}

// List returns the items in the trash, oldest first
func (c *Can) List() ([]Item, error) {
	dir := filepath.Join(c.dir, infoDir)
	entries, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.FromFS(err, errors.ErrTrash, dir)
	}

	var items []Item
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), infoExt) {
			continue
		}
		item, err := c.load(strings.TrimSuffix(entry.Name(), infoExt))
		if err != nil {
			c.logger.Warn().Err(err).Str("info", entry.Name()).Msg("Skipping unreadable trash record")
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].DeletedAt.Equal(items[j].DeletedAt) {
			return items[i].DeletedAt.Before(items[j].DeletedAt)
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// Find returns the item with the given trash name
func (c *Can) Find(name string) (Item, error) {
	return c.load(name)
}

func (c *Can) load(name string) (Item, error) {
	if err := validName(name); err != nil {
		return Item{}, err
	}
	infoPath := filepath.Join(c.dir, infoDir, name+infoExt)
	data, err := afero.ReadFile(c.fs, infoPath)
	if err != nil {
		return Item{}, errors.FromFS(err, errors.ErrTrash, infoPath)
	}
	rec, err := parseInfo(data)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		Name:         name,
		OriginalPath: rec.Path,
		DeletedAt:    rec.DeletionDate,
		TrashedPath:  filepath.Join(c.dir, filesDir, name),
		InfoPath:     infoPath,
	}
	if st, err := filesystem.Lstat(c.fs, item.TrashedPath); err == nil {
		item.IsDir = st.IsDir()
		item.Size = st.Size()
	}
	return item, nil
}

// validName rejects names that would resolve outside the can's info and
// files directories
func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return errors.Newf(errors.ErrInvalidInput, "invalid trash name %q", name)
	}
	return nil
}

// Restore moves the named item back to its original location, or to dest
// when dest is not empty. An occupied destination is never overwritten.
func (c *Can) Restore(name, dest string) (string, error) {
	item, err := c.load(name)
	if err != nil {
		return "", err
	}

	target := item.OriginalPath
	if dest != "" {
		target = dest
	}
	if filesystem.Exists(c.fs, target) {
		return "", errors.Newf(errors.ErrAlreadyExists, "%s already exists", target).
			WithDetail("trash_name", name)
	}
	if !filesystem.Exists(c.fs, item.TrashedPath) {
		return "", errors.Newf(errors.ErrNotFound, "trash entry %s is missing its data", name)
	}

	parent := filepath.Dir(target)
	if err := c.fs.MkdirAll(parent, 0755); err != nil {
		return "", errors.FromFS(err, errors.ErrDirCreate, parent)
	}
	if err := filesystem.Move(c.fs, item.TrashedPath, target); err != nil {
		return "", err
	}
	if err := c.fs.Remove(item.InfoPath); err != nil {
		c.logger.Warn().Err(err).Str("info", item.InfoPath).Msg("Restored entry but could not remove its trash record")
	}

	c.logger.Info().Str("name", name).Str("path", target).Msg("Restored from trash")
	return target, nil
}
