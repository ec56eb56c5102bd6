package rules

import (
	"fmt"
	"math"
	"strings"

	"github.com/arthur-debert/tidyup/pkg/config"
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/matchers"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/dustin/go-humanize"
)

// Compile validates and converts configured rules. Disabled rules are
// compiled too so mistakes in them are still reported.
func Compile(cfgs []config.RuleConfig) ([]Rule, error) {
	var problems []string
	seen := make(map[string]bool)
	out := make([]Rule, 0, len(cfgs))

	for i, rc := range cfgs {
		where := fmt.Sprintf("rules[%d]", i)
		name := strings.TrimSpace(rc.Name)
		switch {
		case name == "":
			problems = append(problems, where+": name must not be empty")
		case seen[name]:
			problems = append(problems, fmt.Sprintf("%s: duplicate rule name %q", where, name))
		default:
			where = fmt.Sprintf("rule %q", name)
		}
		seen[name] = true

		if len(rc.Steps) == 0 {
			problems = append(problems, where+": no steps")
		}

		rule := Rule{Name: name, Disabled: rc.Disabled}
		for j, sc := range rc.Steps {
			step, errs := compileStep(sc)
			for _, e := range errs {
				problems = append(problems, fmt.Sprintf("%s step %d: %s", where, j+1, e))
			}
			rule.Steps = append(rule.Steps, step)
		}
		out = append(out, rule)
	}

	if len(problems) > 0 {
		return nil, errors.Newf(errors.ErrConfigValid, "invalid rules: %s", strings.Join(problems, "; ")).
			WithDetail("problems", problems)
	}
	return out, nil
}

func compileStep(sc config.StepConfig) (Step, []string) {
	var problems []string
	fail := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	step := Step{
		Action:      types.ActionKind(strings.ToLower(strings.TrimSpace(sc.Action))),
		Patterns:    sc.Patterns,
		Path:        sc.Path,
		Destination: sc.Destination,
	}

	hasPatterns := len(sc.Patterns) > 0
	hasPath := sc.Path != ""

	switch step.Action {
	case types.ActionMkdir:
		if !hasPath {
			fail("mkdir needs a path")
		}
		if hasPatterns || sc.Destination != "" || !sc.When.IsZero() || sc.Conflict != "" {
			fail("mkdir takes only a path")
		}
	case types.ActionTrash, types.ActionMove:
		if hasPatterns == hasPath {
			fail("%s needs either patterns or a path", step.Action)
		}
		if hasPath && !sc.When.IsZero() {
			fail("when conditions need patterns, not a literal path")
		}
		if step.Action == types.ActionMove && sc.Destination == "" {
			fail("move needs a destination")
		}
		if step.Action == types.ActionTrash && (sc.Destination != "" || sc.Conflict != "") {
			fail("trash takes no destination or conflict policy")
		}
	case "":
		fail("missing action")
	default:
		fail("unknown action %q (expected mkdir, trash or move)", sc.Action)
	}

	for _, p := range sc.Patterns {
		if err := matchers.Validate(p); err != nil {
			fail("invalid pattern %q", p)
		}
	}

	if sc.Conflict != "" {
		policy, ok := types.ParseConflictPolicy(strings.ToLower(sc.Conflict))
		if !ok {
			fail("unknown conflict policy %q", sc.Conflict)
		}
		step.Conflict = policy
	}

	filter, errs := compileFilter(sc.When)
	problems = append(problems, errs...)
	step.Filter = filter

	return step, problems
}

func compileFilter(w config.WhenConfig) (Filter, []string) {
	var problems []string
	var f Filter

	ages := []struct {
		key   string
		value string
		field types.TimeField
	}{
		{"accessed_older_than", w.AccessedOlderThan, types.Accessed},
		{"modified_older_than", w.ModifiedOlderThan, types.Modified},
		{"created_older_than", w.CreatedOlderThan, types.Created},
	}
	for _, age := range ages {
		if age.value == "" {
			continue
		}
		d, err := types.ParseDuration(age.value)
		if err != nil || d <= 0 {
			problems = append(problems, fmt.Sprintf("%s: invalid duration %q", age.key, age.value))
			continue
		}
		f.Ages = append(f.Ages, AgeCondition{Field: age.field, Min: d})
	}

	for _, s := range w.ContentTypes {
		ct, ok := types.ParseContentType(strings.ToLower(s))
		if !ok {
			problems = append(problems, fmt.Sprintf("content_types: unknown type %q", s))
			continue
		}
		f.ContentTypes = append(f.ContentTypes, ct)
	}

	for _, s := range w.DownloadedFrom {
		if s = strings.TrimSpace(s); s != "" {
			f.DownloadedFrom = append(f.DownloadedFrom, s)
		}
	}

	var err error
	if f.LargerThan, err = parseSize(w.LargerThan); err != nil {
		problems = append(problems, "larger_than: "+err.Error())
	}
	if f.SmallerThan, err = parseSize(w.SmallerThan); err != nil {
		problems = append(problems, "smaller_than: "+err.Error())
	}

	switch types.Kind(strings.ToLower(w.Kind)) {
	case "":
	case types.KindFile, "f":
		f.Kind = types.KindFile
	case types.KindDirectory, "dir", "d":
		f.Kind = types.KindDirectory
	default:
		problems = append(problems, fmt.Sprintf("kind: expected file or directory, got %q", w.Kind))
	}

	f.Empty = w.Empty
	return f, problems
}

// parseSize reads a human size such as "500KB" or "1.5 GiB"; empty is 0
func parseSize(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("size %q is too large", s)
	}
	return int64(n), nil
}
