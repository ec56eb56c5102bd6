package run

import (
	"time"

	"github.com/arthur-debert/tidyup/pkg/config"
	"github.com/arthur-debert/tidyup/pkg/engine"
	"github.com/arthur-debert/tidyup/pkg/executor"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/journal"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/matchers"
	"github.com/arthur-debert/tidyup/pkg/predicates"
	"github.com/arthur-debert/tidyup/pkg/rules"
	"github.com/arthur-debert/tidyup/pkg/trash"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/spf13/afero"
)

// RunOptions defines the options for the Run command.
type RunOptions struct {
	Config *config.Config
	// RuleNames restricts the run to these rules, disabled ones included.
	// Empty runs every enabled rule.
	RuleNames []string
	// DryRun plans actions without touching the filesystem. The
	// configuration can also turn it on.
	DryRun bool
	// OnEntry receives each action log entry as it is produced
	OnEntry func(types.ActionLogEntry)

	// FS, Clock and SourceURLs default to the real system
	FS         afero.Fs
	Clock      func() time.Time
	SourceURLs func(path string) []string
}

// RunResult is the outcome of the Run command
type RunResult struct {
	*engine.Result
	DryRun bool
	// JournalPath and RunID are empty when nothing was journaled
	JournalPath string
	RunID       string
}

// Run compiles the configured rules and runs the selected ones once. The
// returned error is set when the run could not start; rule failures are
// reported in the result.
func Run(opts RunOptions) (*RunResult, error) {
	log := logging.GetLogger("commands.run")
	cfg := opts.Config
	log.Debug().Str("command", "Run").Strs("rules", opts.RuleNames).Msg("Executing command")

	compiled, err := rules.Compile(cfg.Rules)
	if err != nil {
		return nil, err
	}
	selected, err := rules.Select(compiled, opts.RuleNames...)
	if err != nil {
		return nil, err
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	out := &RunResult{DryRun: opts.DryRun || cfg.Engine.DryRun}

	var jw journal.Writer = journal.Discard{}
	if cfg.Journal.Enabled && !out.DryRun {
		jf, err := journal.Open(fsys, cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		defer func() {
			if cerr := jf.Close(); cerr != nil {
				log.Warn().Err(cerr).Str("path", jf.Path()).Msg("Failed to close journal")
			}
		}()
		jw = jf
		out.JournalPath = jf.Path()
		out.RunID = jf.RunID()
	}

	evalOpts := []predicates.Option{predicates.WithSniffing(cfg.Engine.Sniff)}
	if opts.SourceURLs != nil {
		evalOpts = append(evalOpts, predicates.WithSourceURLReader(opts.SourceURLs))
	}
	policy, _ := types.ParseConflictPolicy(cfg.Engine.Conflict)
	can := trash.New(fsys, cfg.Trash.Dir, trash.WithClock(clock))

	e := engine.New(engine.Options{
		Globber:   matchers.NewMatcher(fsys, cfg.Engine.Root),
		Inspector: predicates.NewEvaluator(fsys, evalOpts...),
		Actor: executor.New(executor.Options{
			FS:      fsys,
			DryRun:  out.DryRun,
			Trash:   can,
			Journal: jw,
			Now:     clock,
		}),
		Root:     cfg.Engine.Root,
		Conflict: policy,
		Clock:    clock,
		OnEntry:  opts.OnEntry,
		Bootstrap: func() error {
			if out.DryRun {
				return nil
			}
			return can.Ensure()
		},
	})
	// Registration errors are kept by the engine and fail the run below
	_ = rules.Register(e, selected)

	result, err := e.Run()
	out.Result = result
	if err != nil {
		return out, err
	}

	log.Info().
		Str("command", "Run").
		Int("rules", result.RulesRun).
		Int("entries", len(result.Entries)).
		Int("errors", len(result.Errors)).
		Bool("dryRun", out.DryRun).
		Msg("Command finished")
	return out, nil
}
