package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/tidyup/pkg/engine"
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/predicates"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/dustin/go-humanize"
)

// Rule is a compiled configured rule
type Rule struct {
	Name     string
	Disabled bool
	Steps    []Step
}

// Step is one compiled action of a rule
type Step struct {
	Action      types.ActionKind
	Patterns    []string
	Path        string
	Destination string
	// Conflict is empty when the engine default applies
	Conflict types.ConflictPolicy
	Filter   Filter
}

// AgeCondition requires a timestamp to be at least Min in the past
type AgeCondition struct {
	Field types.TimeField
	Min   time.Duration
}

// Filter is the compiled form of a When block
type Filter struct {
	Ages           []AgeCondition
	ContentTypes   []types.ContentType
	DownloadedFrom []string
	LargerThan     int64
	SmallerThan    int64
	Kind           types.Kind
	Empty          *bool
}

// Matches reports whether rec satisfies every condition. Cheap checks on
// the record run before those that touch the filesystem.
func (f Filter) Matches(ctx *engine.Context, rec types.PathRecord) bool {
	if f.Kind != "" && rec.Kind != f.Kind {
		return false
	}
	if f.LargerThan > 0 && !predicates.LargerThan(rec, f.LargerThan) {
		return false
	}
	if f.SmallerThan > 0 && !predicates.SmallerThan(rec, f.SmallerThan) {
		return false
	}
	for _, age := range f.Ages {
		if !ctx.OlderThan(rec, age.Field, age.Min) {
			return false
		}
	}
	if f.Empty != nil && ctx.IsEmptyDir(rec) != *f.Empty {
		return false
	}
	if len(f.ContentTypes) > 0 {
		ct := ctx.ContentType(rec)
		found := false
		for _, want := range f.ContentTypes {
			if ct == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.DownloadedFrom) > 0 && !ctx.DownloadedFrom(rec, f.DownloadedFrom...) {
		return false
	}
	return true
}

// Describe lists the conditions in words, for `tidyup rules`
func (f Filter) Describe() []string {
	var out []string
	if f.Kind != "" {
		out = append(out, "is a "+string(f.Kind))
	}
	for _, age := range f.Ages {
		out = append(out, fmt.Sprintf("%s more than %s ago", age.Field, FormatDuration(age.Min)))
	}
	if f.LargerThan > 0 {
		out = append(out, "larger than "+humanize.Bytes(uint64(f.LargerThan)))
	}
	if f.SmallerThan > 0 {
		out = append(out, "smaller than "+humanize.Bytes(uint64(f.SmallerThan)))
	}
	if f.Empty != nil {
		if *f.Empty {
			out = append(out, "is an empty directory")
		} else {
			out = append(out, "is not an empty directory")
		}
	}
	if len(f.ContentTypes) > 0 {
		names := make([]string, len(f.ContentTypes))
		for i, ct := range f.ContentTypes {
			names[i] = string(ct)
		}
		out = append(out, "content is "+strings.Join(names, " or "))
	}
	if len(f.DownloadedFrom) > 0 {
		out = append(out, "downloaded from "+strings.Join(f.DownloadedFrom, " or "))
	}
	return out
}

// String renders the step on one line
func (s Step) String() string {
	var b strings.Builder
	b.WriteString(string(s.Action))
	b.WriteString(" ")
	if s.Path != "" {
		b.WriteString(s.Path)
	} else {
		b.WriteString(strings.Join(s.Patterns, ", "))
	}
	if s.Destination != "" {
		b.WriteString(" -> ")
		b.WriteString(s.Destination)
	}
	if s.Conflict != "" {
		fmt.Fprintf(&b, " [%s]", s.Conflict)
	}
	if conds := s.Filter.Describe(); len(conds) > 0 {
		b.WriteString(" when ")
		b.WriteString(strings.Join(conds, ", "))
	}
	return b.String()
}

// FormatDuration prints whole weeks, days or hours compactly and falls back
// to time.Duration's format
func FormatDuration(d time.Duration) string {
	switch {
	case d >= types.Week && d%types.Week == 0:
		return fmt.Sprintf("%dw", d/types.Week)
	case d >= types.Day && d%types.Day == 0:
		return fmt.Sprintf("%dd", d/types.Day)
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	default:
		return d.String()
	}
}

// Body returns the engine rule body that runs the steps in order. The first
// failing step stops the rule.
func (r Rule) Body() engine.RuleFunc {
	return func(ctx *engine.Context) error {
		for i, step := range r.Steps {
			if err := step.run(ctx); err != nil {
				return errors.Wrapf(err, errors.GetErrorCode(err), "step %d (%s)", i+1, step.Action)
			}
		}
		return nil
	}
}

func (s Step) run(ctx *engine.Context) error {
	if s.Action == types.ActionMkdir {
		_, err := ctx.Mkdir(s.Path)
		return err
	}

	targets, err := s.targets(ctx)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		logger := ctx.Logger()
		logger.Debug().Str("action", string(s.Action)).Msg("No paths selected")
		return nil
	}

	switch s.Action {
	case types.ActionTrash:
		_, err = ctx.Trash(targets...)
	case types.ActionMove:
		_, err = ctx.Move(targets, s.Destination, engine.WithConflict(s.Conflict))
	default:
		err = errors.Newf(errors.ErrActionInvalid, "unknown action %q", s.Action)
	}
	return err
}

// targets resolves the paths a trash or move step acts on
func (s Step) targets(ctx *engine.Context) ([]string, error) {
	if s.Path != "" {
		return []string{s.Path}, nil
	}

	recs, err := ctx.Dir(s.Patterns...)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, rec := range recs {
		if s.Filter.Matches(ctx, rec) {
			out = append(out, rec.Path)
		}
	}
	return out, nil
}

// Select returns the rules to run. With no names, every enabled rule is
// selected. Named rules are selected even when disabled; an unknown name is
// a configuration error.
func Select(all []Rule, names ...string) ([]Rule, error) {
	if len(names) == 0 {
		var out []Rule
		for _, r := range all {
			if !r.Disabled {
				out = append(out, r)
			}
		}
		return out, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []Rule
	for _, r := range all {
		if wanted[r.Name] {
			out = append(out, r)
			delete(wanted, r.Name)
		}
	}
	if len(wanted) > 0 {
		var unknown []string
		for _, n := range names {
			if wanted[n] {
				unknown = append(unknown, n)
			}
		}
		return nil, errors.Newf(errors.ErrConfigValid, "unknown rule(s): %s", strings.Join(unknown, ", ")).
			WithDetail("unknown", unknown)
	}
	return out, nil
}

// Register adds rules to the engine in order
func Register(e *engine.Engine, rules []Rule) error {
	for _, r := range rules {
		if err := e.Register(r.Name, r.Body()); err != nil {
			return err
		}
	}
	return nil
}
