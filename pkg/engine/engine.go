package engine

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/rs/zerolog"
)

// State is the lifecycle state of an engine run
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// RuleFunc is the body of a rule
type RuleFunc func(ctx *Context) error

// Rule is a named unit of match, filter and act logic
type Rule struct {
	Name string
	Body RuleFunc
}

// Globber expands glob patterns into records of existing paths
type Globber interface {
	Match(patterns ...string) ([]types.PathRecord, error)
}

// Inspector answers questions about a path
type Inspector interface {
	AgeSince(rec types.PathRecord, field types.TimeField, now time.Time) (time.Duration, error)
	OlderThan(rec types.PathRecord, field types.TimeField, d time.Duration, now time.Time) bool
	ContentType(rec types.PathRecord) types.ContentType
	SourceURLs(rec types.PathRecord) []string
	DownloadedFrom(rec types.PathRecord, needles ...string) bool
	IsEmptyDir(rec types.PathRecord) bool
}

// Actor performs the side-effecting actions
type Actor interface {
	Move(rule string, sources []string, destDir string, policy types.ConflictPolicy) ([]types.ActionLogEntry, error)
	Rename(rule, source, dest string, policy types.ConflictPolicy) (types.ActionLogEntry, error)
	Trash(rule string, paths []string) ([]types.ActionLogEntry, error)
	Mkdir(rule, path string) (string, []types.ActionLogEntry, error)
}

// Options wires the capabilities a run needs
type Options struct {
	Globber   Globber
	Inspector Inspector
	Actor     Actor

	// Root relative paths are resolved against; empty means the working directory
	Root string
	// Conflict is the policy for moves that do not choose one
	Conflict types.ConflictPolicy
	// Clock returns the reference instant for age predicates
	Clock func() time.Time
	// Logger overrides the global "engine" component logger when set
	Logger *zerolog.Logger
	// OnEntry is called for every action log entry as it is produced
	OnEntry func(types.ActionLogEntry)
	// Bootstrap runs before any rule; an error fails the run
	Bootstrap func() error
}

// Result is the outcome of one run
type Result struct {
	State      State
	Entries    []types.ActionLogEntry
	Errors     []error
	RulesRun   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// HasErrors reports whether any rule failed
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Duration is the wall time of the run
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Engine holds an ordered list of rules and runs them
type Engine struct {
	opts      Options
	rules     []Rule
	names     map[string]bool
	regErrors []error
	state     State
	logger    zerolog.Logger
}

// New creates an engine in the Idle state
func New(opts Options) *Engine {
	logger := logging.GetLogger("engine")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Conflict == "" {
		opts.Conflict = types.DefaultConflictPolicy
	}

	return &Engine{
		opts:   opts,
		names:  make(map[string]bool),
		state:  StateIdle,
		logger: logger,
	}
}

// Register appends a rule. Empty and duplicate names are configuration
// errors: they are returned here and also make every later Run fail.
func (e *Engine) Register(name string, body RuleFunc) error {
	var err error
	switch {
	case name == "":
		err = errors.New(errors.ErrConfigValid, "rule name must not be empty")
	case e.names[name]:
		err = errors.Newf(errors.ErrRuleDuplicate, "rule %q is already registered", name).
			WithDetail("rule", name)
	case body == nil:
		err = errors.Newf(errors.ErrConfigValid, "rule %q has no body", name).
			WithDetail("rule", name)
	}
	if err != nil {
		e.regErrors = append(e.regErrors, err)
		return err
	}

	e.names[name] = true
	e.rules = append(e.rules, Rule{Name: name, Body: body})
	e.logger.Trace().Str("rule", name).Int("position", len(e.rules)).Msg("Rule registered")
	return nil
}

// Rules returns the registered rule names in order
func (e *Engine) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name)
	}
	return names
}

// State returns the state of the latest run
func (e *Engine) State() State {
	return e.state
}

// Run executes every rule once, in registration order. A rule that fails
// or panics is recorded in the result and the next rule still runs. The
// returned error is set only when the run could not start, in which case
// the engine is Failed and no rule ran.
func (e *Engine) Run() (*Result, error) {
	result := &Result{StartedAt: e.opts.Clock()}
	e.state = StateRunning
	result.State = StateRunning

	if err := e.bootstrap(); err != nil {
		e.state = StateFailed
		result.State = StateFailed
		result.FinishedAt = e.opts.Clock()
		e.logger.Error().Err(err).Msg("Engine failed before running any rule")
		return result, err
	}

	e.logger.Info().Int("rules", len(e.rules)).Msg("Run started")

	for _, rule := range e.rules {
		if err := e.runRule(rule, result); err != nil {
			result.Errors = append(result.Errors, err)
		}
		result.RulesRun++
	}

	e.state = StateCompleted
	result.State = StateCompleted
	result.FinishedAt = e.opts.Clock()

	e.logger.Info().
		Int("rules", result.RulesRun).
		Int("entries", len(result.Entries)).
		Int("errors", len(result.Errors)).
		Dur("duration", result.Duration()).
		Msg("Run completed")

	return result, nil
}

func (e *Engine) bootstrap() error {
	if len(e.regErrors) > 0 {
		return errors.Wrapf(e.regErrors[0], errors.ErrConfigValid,
			"%d rule registration error(s)", len(e.regErrors))
	}
	if e.opts.Globber == nil || e.opts.Inspector == nil || e.opts.Actor == nil {
		return errors.New(errors.ErrConfigValid, "engine requires a globber, an inspector and an actor")
	}
	if e.opts.Bootstrap != nil {
		if err := e.opts.Bootstrap(); err != nil {
			return errors.Wrap(err, errors.ErrConfigLoad, "bootstrap failed")
		}
	}
	return nil
}

// runRule runs a single rule body, converting errors and panics into a
// RULE_EXECUTE error
func (e *Engine) runRule(rule Rule, result *Result) (err error) {
	logger := e.logger.With().Str("rule", rule.Name).Logger()
	done := logging.LogOperationStart(logger, "rule")
	defer done()

	ctx := &Context{
		engine: e,
		rule:   rule.Name,
		now:    e.opts.Clock(),
		logger: logger,
		record: func(entry types.ActionLogEntry) {
			result.Entries = append(result.Entries, entry)
			if e.opts.OnEntry != nil {
				e.opts.OnEntry(entry)
			}
		},
	}

	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			err = errors.Newf(errors.ErrRuleExecute, "rule %q panicked: %v", rule.Name, r).
				WithDetail("rule", rule.Name).
				WithDetail("stack", string(stack))
			logger.Error().Str("panic", fmt.Sprint(r)).Bytes("stack", stack).Msg("Rule panicked")
		}
	}()

	bodyErr := rule.Body(ctx)
	if bodyErr == nil {
		return nil
	}
	if errors.IsNotFound(bodyErr) {
		logger.Debug().Err(bodyErr).Msg("Rule stopped on a vanished path")
		return nil
	}

	logger.Error().Err(bodyErr).Msg("Rule failed")
	return errors.Wrapf(bodyErr, errors.ErrRuleExecute, "rule %q failed", rule.Name).
		WithDetail("rule", rule.Name)
}
