package executor

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/journal"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/trash"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// maxRenameAttempts bounds the search for a free "name (N).ext"
const maxRenameAttempts = 10000

// Trasher sends paths to a recoverable holding area
type Trasher interface {
	Put(path string) (trash.Item, error)
}

// Options contains configuration for the executor
type Options struct {
	FS      afero.Fs
	DryRun  bool
	Trash   Trasher
	Journal journal.Writer
	// Logger overrides the global "executor" component logger when set
	Logger *zerolog.Logger
	// Clock for entry timestamps, time.Now when nil
	Now func() time.Time
}

// Executor performs move, trash and mkdir actions and reports each one as
// an ActionLogEntry
type Executor struct {
	fs      afero.Fs
	dryRun  bool
	trash   Trasher
	journal journal.Writer
	logger  zerolog.Logger
	now     func() time.Time

	// directories a dry run pretended to create
	planned map[string]bool
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := logging.GetLogger("executor")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	j := opts.Journal
	if j == nil {
		j = journal.Discard{}
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Executor{
		fs:      fs,
		dryRun:  opts.DryRun,
		trash:   opts.Trash,
		journal: j,
		logger:  logger,
		now:     now,
		planned: make(map[string]bool),
	}
}

// DryRun reports whether the executor only plans actions
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Move moves every source into destDir, which must be an existing
// directory. Each source lands at destDir/<basename>; policy decides what
// happens when that name is taken. Missing sources are skipped.
//
// The returned error is set only when the destination is unusable or the
// journal cannot be written. Per-path failures are reported as failed
// entries and the remaining sources are still processed.
func (e *Executor) Move(rule string, sources []string, destDir string, policy types.ConflictPolicy) ([]types.ActionLogEntry, error) {
	if err := e.checkDir(destDir); err != nil {
		return nil, err
	}

	entries := make([]types.ActionLogEntry, 0, len(sources))
	for _, src := range sources {
		entry, err := e.moveTo(rule, src, filepath.Join(destDir, filepath.Base(src)), policy)
		entries = append(entries, entry)
		if err != nil {
			return entries, err
		}
	}
	return entries, nil
}

// Rename moves source to the explicit path dest. The parent of dest must
// exist.
func (e *Executor) Rename(rule, source, dest string, policy types.ConflictPolicy) (types.ActionLogEntry, error) {
	if err := e.checkDir(filepath.Dir(dest)); err != nil {
		return types.ActionLogEntry{}, err
	}
	return e.moveTo(rule, source, dest, policy)
}

func (e *Executor) moveTo(rule, src, target string, policy types.ConflictPolicy) (types.ActionLogEntry, error) {
	entry := e.newEntry(rule, types.ActionMove, src, target)

	srcInfo, err := filesystem.Lstat(e.fs, src)
	if err != nil {
		if os.IsNotExist(err) {
			return e.skip(entry, "source does not exist"), nil
		}
		return e.fail(entry, errors.FromFS(err, errors.ErrFileAccess, src)), nil
	}
	if filepath.Clean(src) == filepath.Clean(target) {
		return e.skip(entry, "already in place"), nil
	}

	resolved, skipReason, err := e.resolveConflict(srcInfo, target, policy)
	if err != nil {
		return e.fail(entry, err), nil
	}
	if skipReason != "" {
		return e.skip(entry, skipReason), nil
	}
	entry.Destination = resolved

	if e.dryRun {
		return e.plan(entry), nil
	}
	return e.perform(entry, func() (string, error) {
		return resolved, filesystem.Move(e.fs, src, resolved)
	})
}

// resolveConflict returns the path a move should write to, or a reason to
// skip the move
func (e *Executor) resolveConflict(src os.FileInfo, target string, policy types.ConflictPolicy) (string, string, error) {
	existing, err := filesystem.Lstat(e.fs, target)
	if err != nil {
		return target, "", nil
	}

	switch policy {
	case types.ConflictSkip:
		return "", "destination exists", nil
	case types.ConflictRename:
		free, err := e.freeName(target)
		return free, "", err
	default:
		if existing.IsDir() {
			return "", "", errors.Newf(errors.ErrActionConflict, "%s is a directory and cannot be overwritten", target)
		}
		if src.IsDir() {
			return "", "", errors.Newf(errors.ErrActionConflict, "cannot replace file %s with a directory", target)
		}
		return target, "", nil
	}
}

// freeName finds the first "name (N).ext" next to target that is unused
func (e *Executor) freeName(target string) (string, error) {
	dir, base := filepath.Split(target)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem, ext = base, ""
	}

	for n := 1; n <= maxRenameAttempts; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if !filesystem.Exists(e.fs, candidate) {
			return candidate, nil
		}
	}
	return "", errors.Newf(errors.ErrActionConflict, "no free name for %s", target)
}

// Trash sends every path to the trash can. Missing paths are skipped.
func (e *Executor) Trash(rule string, paths []string) ([]types.ActionLogEntry, error) {
	if e.trash == nil && !e.dryRun {
		return nil, errors.New(errors.ErrActionInvalid, "no trash can configured")
	}

	entries := make([]types.ActionLogEntry, 0, len(paths))
	for _, p := range paths {
		entry := e.newEntry(rule, types.ActionTrash, p, "")

		if _, err := filesystem.Lstat(e.fs, p); err != nil {
			if os.IsNotExist(err) {
				entries = append(entries, e.skip(entry, "path does not exist"))
			} else {
				entries = append(entries, e.fail(entry, errors.FromFS(err, errors.ErrFileAccess, p)))
			}
			continue
		}

		if e.dryRun {
			entries = append(entries, e.plan(entry))
			continue
		}

		path := p
		entry, err := e.perform(entry, func() (string, error) {
			item, err := e.trash.Put(path)
			return item.TrashedPath, err
		})
		entries = append(entries, entry)
		if err != nil {
			return entries, err
		}
	}
	return entries, nil
}

// Mkdir creates path and any missing parents. It is idempotent: an
// existing directory is returned unchanged and produces no entry. A
// non-directory at path is a conflict.
func (e *Executor) Mkdir(rule, path string) (string, []types.ActionLogEntry, error) {
	entry := e.newEntry(rule, types.ActionMkdir, path, "")

	info, err := e.fs.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return path, nil, nil
	case err == nil:
		cerr := errors.Newf(errors.ErrActionConflict, "%s exists and is not a directory", path)
		return path, []types.ActionLogEntry{e.fail(entry, cerr)}, cerr
	case !os.IsNotExist(err):
		ferr := errors.FromFS(err, errors.ErrDirCreate, path)
		return path, []types.ActionLogEntry{e.fail(entry, ferr)}, ferr
	}

	if e.dryRun {
		if e.planned[path] {
			return path, nil, nil
		}
		for p := path; p != filepath.Dir(p) && !e.planned[p]; p = filepath.Dir(p) {
			e.planned[p] = true
		}
		return path, []types.ActionLogEntry{e.plan(entry)}, nil
	}

	var mkErr error
	entry, jerr := e.perform(entry, func() (string, error) {
		if err := e.fs.MkdirAll(path, 0755); err != nil {
			mkErr = errors.FromFS(err, errors.ErrDirCreate, path)
		}
		return "", mkErr
	})
	entries := []types.ActionLogEntry{entry}
	if jerr != nil {
		return path, entries, jerr
	}
	return path, entries, mkErr
}

// checkDir verifies that dir can receive moved entries
func (e *Executor) checkDir(dir string) error {
	info, err := e.fs.Stat(dir)
	if err != nil {
		if e.dryRun && e.planned[dir] {
			return nil
		}
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrActionInvalid, "destination directory %s does not exist", dir)
		}
		return errors.FromFS(err, errors.ErrFileAccess, dir)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrActionInvalid, "destination %s is not a directory", dir)
	}
	return nil
}

// perform journals the intent, runs mutate and journals the outcome. The
// returned error reports journal failures only; a failed mutation is
// recorded in the entry.
func (e *Executor) perform(entry types.ActionLogEntry, mutate func() (string, error)) (types.ActionLogEntry, error) {
	id, err := e.journal.Begin(entry)
	if err != nil {
		return e.fail(entry, err), err
	}

	dst, mErr := mutate()
	if mErr != nil {
		entry = e.fail(entry, mErr)
	} else {
		entry.Status = types.StatusDone
		if dst != "" {
			entry.Destination = dst
		}
		e.log(entry)
	}

	if err := e.journal.Commit(id, entry); err != nil {
		e.logger.Error().Err(err).Str("id", id).Msg("Failed to journal action outcome")
		return entry, err
	}
	return entry, nil
}

func (e *Executor) newEntry(rule string, kind types.ActionKind, src, dst string) types.ActionLogEntry {
	return types.ActionLogEntry{
		Rule:        rule,
		Kind:        kind,
		Source:      src,
		Destination: dst,
		Time:        e.now(),
		DryRun:      e.dryRun,
	}
}

func (e *Executor) plan(entry types.ActionLogEntry) types.ActionLogEntry {
	entry.Status = types.StatusPlanned
	e.log(entry)
	return entry
}

func (e *Executor) skip(entry types.ActionLogEntry, reason string) types.ActionLogEntry {
	entry.Status = types.StatusSkipped
	entry.Reason = reason
	e.log(entry)
	return entry
}

func (e *Executor) fail(entry types.ActionLogEntry, err error) types.ActionLogEntry {
	entry.Status = types.StatusFailed
	entry.Reason = reasonFor(err)
	entry.Code = string(errors.GetErrorCode(err))
	e.log(entry)
	return entry
}

func (e *Executor) log(entry types.ActionLogEntry) {
	var ev *zerolog.Event
	switch entry.Status {
	case types.StatusFailed:
		ev = e.logger.Warn().Str("code", entry.Code)
	case types.StatusSkipped:
		ev = e.logger.Debug()
	default:
		ev = e.logger.Info()
	}
	ev.Str("rule", entry.Rule).
		Str("action", string(entry.Kind)).
		Str("source", entry.Source).
		Str("destination", entry.Destination).
		Str("status", string(entry.Status)).
		Str("reason", entry.Reason).
		Msg("Action")
}

// reasonFor extracts a short human-readable cause from err
func reasonFor(err error) string {
	var te *errors.TidyError
	if stderrors.As(err, &te) {
		if te.Wrapped != nil {
			return te.Wrapped.Error()
		}
		return te.Message
	}
	return err.Error()
}
