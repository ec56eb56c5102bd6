// pkg/engine/engine_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: afero MemMapFs, matchers, predicates, executor, trash, journal
// PURPOSE: Verify rule ordering, the state machine, error isolation between
// rules, and end-to-end cleanup scenarios

package engine_test

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/arthur-debert/tidyup/pkg/engine"
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/executor"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/journal"
	"github.com/arthur-debert/tidyup/pkg/matchers"
	"github.com/arthur-debert/tidyup/pkg/predicates"
	"github.com/arthur-debert/tidyup/pkg/trash"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const home = "/home/user"

var quiet = zerolog.Nop()

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type stack struct {
	fs      afero.Fs
	journal *journal.Memory
	opts    engine.Options
}

func newStack(t *testing.T) *stack {
	t.Helper()
	t.Setenv("HOME", home)
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll(home, 0755))
	mem := &journal.Memory{}

	return &stack{
		fs:      fsys,
		journal: mem,
		opts: engine.Options{
			Globber: matchers.NewMatcher(fsys, home),
			Inspector: predicates.NewEvaluator(fsys,
				predicates.WithSourceURLReader(func(string) []string { return nil })),
			Actor: executor.New(executor.Options{
				FS:      fsys,
				Trash:   trash.New(fsys, home+"/.local/share/Trash"),
				Journal: mem,
				Logger:  &quiet,
				Now:     clock,
			}),
			Root:   home,
			Clock:  clock,
			Logger: &quiet,
		},
	}
}

func (s *stack) file(t *testing.T, path string, age time.Duration) {
	t.Helper()
	require.NoError(t, afero.WriteFile(s.fs, path, []byte(path), 0644))
	ts := now.Add(-age)
	require.NoError(t, s.fs.Chtimes(path, ts, ts))
}

func TestRun_TrashOldTemporaryFiles(t *testing.T) {
	s := newStack(t)
	s.file(t, home+"/Outbox/report.tmp.2024", 10*types.Day)
	s.file(t, home+"/Outbox/fresh.tmp.2024", types.Day)
	s.file(t, home+"/Outbox/notes.txt", 30*types.Day)

	e := engine.New(s.opts)
	require.NoError(t, e.Register("Trash old temporary files", func(ctx *engine.Context) error {
		recs, err := ctx.Dir("~/Outbox/*.tmp.*")
		if err != nil {
			return err
		}
		for _, rec := range recs {
			if ctx.OlderThan(rec, types.Accessed, types.Week) {
				if _, err := ctx.Trash(rec.Path); err != nil {
					return err
				}
			}
		}
		return nil
	}))

	result, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, engine.StateCompleted, result.State)
	assert.Empty(t, result.Errors)

	require.Len(t, result.Entries, 1)
	entry := result.Entries[0]
	assert.Equal(t, types.ActionTrash, entry.Kind)
	assert.Equal(t, home+"/Outbox/report.tmp.2024", entry.Source)
	assert.Equal(t, "Trash old temporary files", entry.Rule)

	assert.False(t, filesystem.Exists(s.fs, home+"/Outbox/report.tmp.2024"))
	assert.True(t, filesystem.Exists(s.fs, home+"/Outbox/fresh.tmp.2024"))
	assert.True(t, filesystem.Exists(s.fs, home+"/Outbox/notes.txt"))
}

func collectVideos(ctx *engine.Context) error {
	toWatch, err := ctx.Mkdir("~/Videos/To Watch")
	if err != nil {
		return err
	}
	recs, err := ctx.Dir("~/Downloads/*")
	if err != nil {
		return err
	}
	var videos []string
	for _, rec := range recs {
		if ctx.ContentType(rec) == types.ContentVideo {
			videos = append(videos, rec.Path)
		}
	}
	_, err = ctx.Move(videos, toWatch)
	return err
}

func TestRun_CollectVideos(t *testing.T) {
	s := newStack(t)
	s.file(t, home+"/Downloads/video.mp4", time.Hour)
	s.file(t, home+"/Downloads/paper.pdf", time.Hour)

	e := engine.New(s.opts)
	require.NoError(t, e.Register("Collect downloaded videos to watch later", collectVideos))

	result, err := e.Run()
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	assert.Equal(t, types.ActionMkdir, result.Entries[0].Kind)
	assert.Equal(t, home+"/Videos/To Watch", result.Entries[0].Source)

	assert.Equal(t, types.ActionMove, result.Entries[1].Kind)
	assert.Equal(t, home+"/Downloads/video.mp4", result.Entries[1].Source)
	assert.Equal(t, home+"/Videos/To Watch/video.mp4", result.Entries[1].Destination)

	assert.True(t, filesystem.Exists(s.fs, home+"/Downloads/paper.pdf"))
}

func TestRun_IsDeterministicAcrossRuns(t *testing.T) {
	s := newStack(t)
	s.file(t, home+"/Downloads/a.mkv", time.Hour)
	s.file(t, home+"/Downloads/b.mp4", time.Hour)

	e := engine.New(s.opts)
	require.NoError(t, e.Register("videos", collectVideos))

	first, err := e.Run()
	require.NoError(t, err)
	require.Len(t, first.Entries, 3)
	assert.Equal(t, home+"/Downloads/a.mkv", first.Entries[1].Source)
	assert.Equal(t, home+"/Downloads/b.mp4", first.Entries[2].Source)

	// the first run's effects leave nothing to do
	second, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, engine.StateCompleted, second.State)
	assert.Empty(t, second.Entries)
}

func TestRun_MultiStepRule(t *testing.T) {
	s := newStack(t)
	s.file(t, home+"/tmp/scratch.txt", time.Hour)

	e := engine.New(s.opts)
	require.NoError(t, e.Register("Dump my temporary folder", func(ctx *engine.Context) error {
		if _, err := ctx.Mkdir("~/tmp"); err != nil {
			return err
		}
		if _, err := ctx.Trash("~/tmp"); err != nil {
			return err
		}
		_, err := ctx.Mkdir("~/tmp")
		return err
	}))

	result, err := e.Run()
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, types.ActionTrash, result.Entries[0].Kind)
	assert.Equal(t, types.ActionMkdir, result.Entries[1].Kind)

	assert.True(t, filesystem.IsEmptyDir(s.fs, home+"/tmp"))
}

func TestRun_RuleOrder(t *testing.T) {
	s := newStack(t)
	e := engine.New(s.opts)

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		n := name
		require.NoError(t, e.Register(n, func(ctx *engine.Context) error {
			order = append(order, ctx.Rule())
			return nil
		}))
	}

	_, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.Equal(t, []string{"first", "second", "third"}, e.Rules())
}

func TestRun_ContinuesAfterFailingRules(t *testing.T) {
	s := newStack(t)
	e := engine.New(s.opts)

	require.NoError(t, e.Register("returns error", func(*engine.Context) error {
		return stderrors.New("boom")
	}))
	require.NoError(t, e.Register("panics", func(*engine.Context) error {
		var m map[string]int
		m["x"] = 1
		return nil
	}))
	require.NoError(t, e.Register("vanished path", func(*engine.Context) error {
		return errors.New(errors.ErrNotFound, "gone")
	}))
	require.NoError(t, e.Register("still runs", func(ctx *engine.Context) error {
		_, err := ctx.Mkdir("~/Inbox")
		return err
	}))

	result, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, engine.StateCompleted, result.State)
	assert.Equal(t, engine.StateCompleted, e.State())
	assert.Equal(t, 4, result.RulesRun)

	require.Len(t, result.Errors, 2)
	for _, rerr := range result.Errors {
		assert.True(t, errors.IsErrorCode(rerr, errors.ErrRuleExecute))
	}
	assert.Equal(t, "returns error", errors.GetErrorDetails(result.Errors[0])["rule"])
	assert.Equal(t, "panics", errors.GetErrorDetails(result.Errors[1])["rule"])
	assert.Contains(t, errors.GetErrorDetails(result.Errors[1])["stack"], "runtime/debug.Stack")

	require.Len(t, result.Entries, 1)
	assert.Equal(t, "still runs", result.Entries[0].Rule)
}

func TestRegister_Invalid(t *testing.T) {
	s := newStack(t)
	e := engine.New(s.opts)

	ran := false
	body := func(*engine.Context) error { ran = true; return nil }

	require.NoError(t, e.Register("cleanup", body))

	err := e.Register("cleanup", body)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRuleDuplicate))

	err = e.Register("", body)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))

	result, err := e.Run()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	assert.Equal(t, engine.StateFailed, result.State)
	assert.Equal(t, engine.StateFailed, e.State())
	assert.False(t, ran, "no rule may run when registration failed")
}

func TestRun_BootstrapFailure(t *testing.T) {
	s := newStack(t)
	s.opts.Bootstrap = func() error { return stderrors.New("trash unavailable") }
	e := engine.New(s.opts)

	ran := false
	require.NoError(t, e.Register("r", func(*engine.Context) error { ran = true; return nil }))

	result, err := e.Run()
	require.Error(t, err)
	assert.Equal(t, engine.StateFailed, result.State)
	assert.False(t, ran)
}

func TestRun_MissingCapabilities(t *testing.T) {
	e := engine.New(engine.Options{Logger: &quiet})
	assert.Equal(t, engine.StateIdle, e.State())

	_, err := e.Run()
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	assert.Equal(t, engine.StateFailed, e.State())
}

func TestRun_OnEntry(t *testing.T) {
	s := newStack(t)
	var seen []types.ActionLogEntry
	s.opts.OnEntry = func(e types.ActionLogEntry) { seen = append(seen, e) }

	e := engine.New(s.opts)
	require.NoError(t, e.Register("mk", func(ctx *engine.Context) error {
		_, err := ctx.Mkdir("a/b")
		return err
	}))

	result, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, result.Entries, seen)
	assert.Equal(t, home+"/a/b", seen[0].Source)
}

// mockActor records the calls a rule makes
type mockActor struct {
	mock.Mock
}

func (m *mockActor) Move(rule string, sources []string, destDir string, policy types.ConflictPolicy) ([]types.ActionLogEntry, error) {
	args := m.Called(rule, sources, destDir, policy)
	return args.Get(0).([]types.ActionLogEntry), args.Error(1)
}

func (m *mockActor) Rename(rule, source, dest string, policy types.ConflictPolicy) (types.ActionLogEntry, error) {
	args := m.Called(rule, source, dest, policy)
	return args.Get(0).(types.ActionLogEntry), args.Error(1)
}

func (m *mockActor) Trash(rule string, paths []string) ([]types.ActionLogEntry, error) {
	args := m.Called(rule, paths)
	return args.Get(0).([]types.ActionLogEntry), args.Error(1)
}

func (m *mockActor) Mkdir(rule, path string) (string, []types.ActionLogEntry, error) {
	args := m.Called(rule, path)
	return args.String(0), args.Get(1).([]types.ActionLogEntry), args.Error(2)
}

func TestContext_ConflictPolicy(t *testing.T) {
	s := newStack(t)
	actor := &mockActor{}
	s.opts.Actor = actor
	s.opts.Conflict = types.ConflictSkip

	moved := types.ActionLogEntry{Rule: "fliers", Kind: types.ActionMove, Status: types.StatusDone}
	actor.On("Move", "fliers", []string{home + "/Downloads/flier.pdf"}, home+"/Print", types.ConflictSkip).
		Return([]types.ActionLogEntry{moved}, nil).Once()
	actor.On("Move", "fliers", []string{home + "/Downloads/flier.pdf"}, home+"/Print", types.ConflictOverwrite).
		Return([]types.ActionLogEntry{moved}, nil).Once()
	actor.On("Rename", "fliers", home+"/a.m4v", home+"/b.m4v", types.ConflictRename).
		Return(types.ActionLogEntry{Rule: "fliers", Kind: types.ActionMove}, nil).Once()

	e := engine.New(s.opts)
	require.NoError(t, e.Register("fliers", func(ctx *engine.Context) error {
		if _, err := ctx.Move([]string{"Downloads/flier.pdf"}, "~/Print"); err != nil {
			return err
		}
		if _, err := ctx.Move([]string{"Downloads/flier.pdf"}, "~/Print", engine.WithConflict(types.ConflictOverwrite)); err != nil {
			return err
		}
		_, err := ctx.Rename("a.m4v", "b.m4v", engine.WithConflict(types.ConflictRename))
		return err
	}))

	result, err := e.Run()
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Entries, 3)
	actor.AssertExpectations(t)
}

func TestContext_ActorErrorBecomesRuleError(t *testing.T) {
	s := newStack(t)
	actor := &mockActor{}
	s.opts.Actor = actor
	actor.On("Mkdir", "r", home+"/x").
		Return(home+"/x", []types.ActionLogEntry(nil), errors.New(errors.ErrActionConflict, "file in the way"))

	e := engine.New(s.opts)
	require.NoError(t, e.Register("r", func(ctx *engine.Context) error {
		_, err := ctx.Mkdir("x")
		return err
	}))

	result, err := e.Run()
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.True(t, errors.IsErrorCode(result.Errors[0], errors.ErrRuleExecute))
	assert.True(t, stderrors.Is(result.Errors[0], errors.New(errors.ErrActionConflict, "")))
}
