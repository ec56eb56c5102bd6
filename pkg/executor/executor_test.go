// pkg/executor/executor_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero MemMapFs, in-memory journal, trash can on MemMapFs
// PURPOSE: Verify move/rename/trash/mkdir semantics, conflict policies,
// dry-run planning and journal pairing

package executor_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/executor"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/journal"
	"github.com/arthur-debert/tidyup/pkg/trash"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rule = "test rule"

var clock = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

var quiet = zerolog.Nop()

type fixture struct {
	fs      afero.Fs
	journal *journal.Memory
	exec    *executor.Executor
}

func newFixture(t *testing.T, dryRun bool, files map[string]string) fixture {
	t.Helper()
	fsys := filesystem.NewMemory()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))
	}
	require.NoError(t, fsys.MkdirAll("/home/user/Archive", 0755))

	mem := &journal.Memory{}
	return fixture{
		fs:      fsys,
		journal: mem,
		exec: executor.New(executor.Options{
			FS:      fsys,
			DryRun:  dryRun,
			Trash:   trash.New(fsys, "/home/user/.local/share/Trash"),
			Journal: mem,
			Logger:  &quiet,
			Now:     clock,
		}),
	}
}

func read(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}

func TestMove(t *testing.T) {
	f := newFixture(t, false, map[string]string{
		"/home/user/Downloads/a.pdf": "a",
		"/home/user/Downloads/b.pdf": "b",
	})

	entries, err := f.exec.Move(rule, []string{"/home/user/Downloads/a.pdf", "/home/user/Downloads/b.pdf"}, "/home/user/Archive", types.ConflictOverwrite)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.Equal(t, types.StatusDone, e.Status)
		assert.Equal(t, types.ActionMove, e.Kind)
		assert.Equal(t, rule, e.Rule)
	}
	assert.Equal(t, "/home/user/Archive/a.pdf", entries[0].Destination)
	assert.Equal(t, "a", read(t, f.fs, "/home/user/Archive/a.pdf"))
	assert.False(t, filesystem.Exists(f.fs, "/home/user/Downloads/a.pdf"))

	// one intent and one outcome per mutation
	require.Len(t, f.journal.Records, 4)
	assert.Equal(t, journal.PhaseIntent, f.journal.Records[0].Phase)
	assert.Equal(t, journal.PhaseOutcome, f.journal.Records[1].Phase)
	assert.Equal(t, f.journal.Records[0].ID, f.journal.Records[1].ID)
	assert.Empty(t, journal.Pending(f.journal.Records))
}

func TestMove_RoundTrip(t *testing.T) {
	f := newFixture(t, false, map[string]string{"/home/user/Downloads/a.pdf": "a"})

	_, err := f.exec.Move(rule, []string{"/home/user/Downloads/a.pdf"}, "/home/user/Archive", types.ConflictOverwrite)
	require.NoError(t, err)
	_, err = f.exec.Move(rule, []string{"/home/user/Archive/a.pdf"}, "/home/user/Downloads", types.ConflictOverwrite)
	require.NoError(t, err)

	assert.Equal(t, "a", read(t, f.fs, "/home/user/Downloads/a.pdf"))
	assert.False(t, filesystem.Exists(f.fs, "/home/user/Archive/a.pdf"))
}

func TestMove_MissingSourceIsSkipped(t *testing.T) {
	f := newFixture(t, false, nil)

	entries, err := f.exec.Move(rule, []string{"/home/user/Downloads/gone.pdf"}, "/home/user/Archive", types.ConflictOverwrite)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, types.StatusSkipped, entries[0].Status)
	assert.Empty(t, f.journal.Records)
}

func TestMove_InvalidDestination(t *testing.T) {
	f := newFixture(t, false, map[string]string{
		"/home/user/Downloads/a.pdf": "a",
		"/home/user/file":            "x",
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.exec.Move(rule, []string{"/home/user/Downloads/a.pdf"}, "/home/user/Nope", types.ConflictOverwrite)
		assert.True(t, errors.IsErrorCode(err, errors.ErrActionInvalid))
	})

	t.Run("not_a_directory", func(t *testing.T) {
		_, err := f.exec.Move(rule, []string{"/home/user/Downloads/a.pdf"}, "/home/user/file", types.ConflictOverwrite)
		assert.True(t, errors.IsErrorCode(err, errors.ErrActionInvalid))
	})

	assert.True(t, filesystem.Exists(f.fs, "/home/user/Downloads/a.pdf"))
}

func TestMove_ConflictPolicies(t *testing.T) {
	files := map[string]string{
		"/home/user/Downloads/flier.pdf": "new",
		"/home/user/Archive/flier.pdf":   "old",
	}

	t.Run("overwrite", func(t *testing.T) {
		f := newFixture(t, false, files)
		entries, err := f.exec.Move(rule, []string{"/home/user/Downloads/flier.pdf"}, "/home/user/Archive", types.ConflictOverwrite)
		require.NoError(t, err)
		assert.Equal(t, types.StatusDone, entries[0].Status)
		assert.Equal(t, "new", read(t, f.fs, "/home/user/Archive/flier.pdf"))
	})

	t.Run("skip", func(t *testing.T) {
		f := newFixture(t, false, files)
		entries, err := f.exec.Move(rule, []string{"/home/user/Downloads/flier.pdf"}, "/home/user/Archive", types.ConflictSkip)
		require.NoError(t, err)
		assert.Equal(t, types.StatusSkipped, entries[0].Status)
		assert.Equal(t, "old", read(t, f.fs, "/home/user/Archive/flier.pdf"))
		assert.Equal(t, "new", read(t, f.fs, "/home/user/Downloads/flier.pdf"))
	})

	t.Run("rename", func(t *testing.T) {
		f := newFixture(t, false, files)
		entries, err := f.exec.Move(rule, []string{"/home/user/Downloads/flier.pdf"}, "/home/user/Archive", types.ConflictRename)
		require.NoError(t, err)
		assert.Equal(t, "/home/user/Archive/flier (1).pdf", entries[0].Destination)
		assert.Equal(t, "old", read(t, f.fs, "/home/user/Archive/flier.pdf"))
		assert.Equal(t, "new", read(t, f.fs, "/home/user/Archive/flier (1).pdf"))

		require.NoError(t, afero.WriteFile(f.fs, "/home/user/Downloads/flier.pdf", []byte("newer"), 0644))
		entries, err = f.exec.Move(rule, []string{"/home/user/Downloads/flier.pdf"}, "/home/user/Archive", types.ConflictRename)
		require.NoError(t, err)
		assert.Equal(t, "/home/user/Archive/flier (2).pdf", entries[0].Destination)
	})

	t.Run("overwrite_refuses_directory", func(t *testing.T) {
		f := newFixture(t, false, map[string]string{
			"/home/user/Downloads/photos":        "a file",
			"/home/user/Archive/photos/keep.jpg": "keep",
		})
		entries, err := f.exec.Move(rule, []string{"/home/user/Downloads/photos"}, "/home/user/Archive", types.ConflictOverwrite)
		require.NoError(t, err)
		assert.Equal(t, types.StatusFailed, entries[0].Status)
		assert.Equal(t, string(errors.ErrActionConflict), entries[0].Code)
		assert.Equal(t, "keep", read(t, f.fs, "/home/user/Archive/photos/keep.jpg"))
	})
}

func TestRename(t *testing.T) {
	f := newFixture(t, false, map[string]string{"/home/user/TV/1x01.m4v": "ep"})

	entry, err := f.exec.Rename(rule, "/home/user/TV/1x01.m4v", "/home/user/TV/1x01 - Pilot.m4v", types.ConflictSkip)
	require.NoError(t, err)
	assert.Equal(t, types.StatusDone, entry.Status)
	assert.Equal(t, "ep", read(t, f.fs, "/home/user/TV/1x01 - Pilot.m4v"))

	entry, err = f.exec.Rename(rule, "/home/user/TV/1x01 - Pilot.m4v", "/home/user/TV/1x01 - Pilot.m4v", types.ConflictSkip)
	require.NoError(t, err)
	assert.Equal(t, types.StatusSkipped, entry.Status)
}

func TestTrash(t *testing.T) {
	f := newFixture(t, false, map[string]string{"/home/user/Outbox/report.tmp.2024": "r"})

	entries, err := f.exec.Trash(rule, []string{"/home/user/Outbox/report.tmp.2024", "/home/user/Outbox/missing"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, types.StatusDone, entries[0].Status)
	assert.Equal(t, "/home/user/.local/share/Trash/files/report.tmp.2024", entries[0].Destination)
	assert.False(t, filesystem.Exists(f.fs, "/home/user/Outbox/report.tmp.2024"))
	assert.Equal(t, "r", read(t, f.fs, entries[0].Destination))

	assert.Equal(t, types.StatusSkipped, entries[1].Status)
}

func TestTrash_NoCan(t *testing.T) {
	exec := executor.New(executor.Options{FS: filesystem.NewMemory(), Logger: &quiet})
	_, err := exec.Trash(rule, []string{"/x"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrActionInvalid))
}

func TestMkdir(t *testing.T) {
	f := newFixture(t, false, map[string]string{"/home/user/notadir": "x"})

	t.Run("creates_full_chain", func(t *testing.T) {
		path, entries, err := f.exec.Mkdir(rule, "/home/user/Videos/To Watch")
		require.NoError(t, err)
		assert.Equal(t, "/home/user/Videos/To Watch", path)
		require.Len(t, entries, 1)
		assert.Equal(t, types.ActionMkdir, entries[0].Kind)
		assert.Equal(t, types.StatusDone, entries[0].Status)

		isDir, err := afero.IsDir(f.fs, path)
		require.NoError(t, err)
		assert.True(t, isDir)
	})

	t.Run("idempotent", func(t *testing.T) {
		path, entries, err := f.exec.Mkdir(rule, "/home/user/Videos/To Watch")
		require.NoError(t, err)
		assert.Equal(t, "/home/user/Videos/To Watch", path)
		assert.Empty(t, entries)
	})

	t.Run("file_in_the_way", func(t *testing.T) {
		_, entries, err := f.exec.Mkdir(rule, "/home/user/notadir")
		assert.True(t, errors.IsErrorCode(err, errors.ErrActionConflict))
		require.Len(t, entries, 1)
		assert.Equal(t, types.StatusFailed, entries[0].Status)
	})
}

func TestDryRun(t *testing.T) {
	f := newFixture(t, true, map[string]string{
		"/home/user/Downloads/video.mp4": "v",
		"/home/user/tmp/junk":            "j",
	})

	_, mkEntries, err := f.exec.Mkdir(rule, "/home/user/Videos/To Watch")
	require.NoError(t, err)
	require.Len(t, mkEntries, 1)
	assert.Equal(t, types.StatusPlanned, mkEntries[0].Status)
	assert.True(t, mkEntries[0].DryRun)

	// a planned directory is a valid destination
	mvEntries, err := f.exec.Move(rule, []string{"/home/user/Downloads/video.mp4"}, "/home/user/Videos/To Watch", types.ConflictOverwrite)
	require.NoError(t, err)
	require.Len(t, mvEntries, 1)
	assert.Equal(t, types.StatusPlanned, mvEntries[0].Status)
	assert.Equal(t, "/home/user/Videos/To Watch/video.mp4", mvEntries[0].Destination)

	trEntries, err := f.exec.Trash(rule, []string{"/home/user/tmp/junk"})
	require.NoError(t, err)
	assert.Equal(t, types.StatusPlanned, trEntries[0].Status)

	// nothing changed on disk and nothing was journaled
	assert.True(t, filesystem.Exists(f.fs, "/home/user/Downloads/video.mp4"))
	assert.True(t, filesystem.Exists(f.fs, "/home/user/tmp/junk"))
	assert.False(t, filesystem.Exists(f.fs, "/home/user/Videos"))
	assert.Empty(t, f.journal.Records)

	_, again, err := f.exec.Mkdir(rule, "/home/user/Videos/To Watch")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestPermissionFailuresContinue(t *testing.T) {
	base := filesystem.NewMemory()
	require.NoError(t, afero.WriteFile(base, "/src/a.txt", []byte("a"), 0644))
	require.NoError(t, afero.WriteFile(base, "/src/b.txt", []byte("b"), 0644))
	require.NoError(t, base.MkdirAll("/dst", 0755))

	mem := &journal.Memory{}
	exec := executor.New(executor.Options{
		FS:      afero.NewReadOnlyFs(base),
		Journal: mem,
		Logger:  &quiet,
	})

	entries, err := exec.Move(rule, []string{"/src/a.txt", "/src/b.txt"}, "/dst", types.ConflictOverwrite)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, types.StatusFailed, e.Status)
		assert.Equal(t, string(errors.ErrPermission), e.Code)
	}

	// the failed attempts are still journaled as intent + outcome
	assert.Len(t, mem.Records, 4)
	assert.Empty(t, journal.Pending(mem.Records))
}
