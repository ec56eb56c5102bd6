package output

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/arthur-debert/tidyup/pkg/engine"
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/journal"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/paths"
	"github.com/arthur-debert/tidyup/pkg/rules"
	"github.com/arthur-debert/tidyup/pkg/style"
	"github.com/arthur-debert/tidyup/pkg/trash"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Renderer writes command results to a terminal or a pipe.
//
// Line output goes through two phases: a Go template expands the data into
// text carrying [tag]...[/tag] markup, then pkg/style turns the markup into
// lipgloss styling (plain text when color is off). Tables are rendered by
// pterm.
type Renderer struct {
	templates *template.Template
	writer    io.Writer
	now       func() time.Time
}

// NewRenderer creates a renderer writing to w. noColor turns styling off
// process-wide.
func NewRenderer(w io.Writer, noColor bool) (*Renderer, error) {
	log := logging.GetLogger("output")
	if noColor {
		style.SetColor(false)
	}
	log.Debug().Bool("noColor", noColor).Msg("Creating renderer")

	r := &Renderer{writer: w, now: time.Now}
	funcs := template.FuncMap{
		"indicator": style.Indicator,
		"path":      paths.Collapse,
		"inc":       func(i int) int { return i + 1 },
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
		"stepTail": func(s rules.Step) string {
			return strings.TrimPrefix(s.String(), string(s.Action)+" ")
		},
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.templates = tmpl
	return r, nil
}

// SetClock replaces the reference time used for relative dates
func (r *Renderer) SetClock(now func() time.Time) {
	r.now = now
}

func (r *Renderer) render(name string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	text := strings.TrimRight(buf.String(), "\n")
	_, err := fmt.Fprintln(r.writer, style.Render(text))
	return err
}

// Entry writes one action log entry as a single line
func (r *Renderer) Entry(entry types.ActionLogEntry) error {
	return r.render("entry.tmpl", entry)
}

// Summary is the data behind the end-of-run report
type Summary struct {
	DryRun   bool     `json:"dry_run"`
	Rules    int      `json:"rules"`
	Duration string   `json:"duration"`
	Done     int      `json:"done"`
	Planned  int      `json:"planned"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// NewSummary counts the entries of a run by status
func NewSummary(result *engine.Result, dryRun bool) Summary {
	s := Summary{
		DryRun:   dryRun,
		Rules:    result.RulesRun,
		Duration: result.Duration().Round(time.Millisecond).String(),
		Done:     len(types.FilterStatus(result.Entries, types.StatusDone)),
		Planned:  len(types.FilterStatus(result.Entries, types.StatusPlanned)),
		Skipped:  len(types.FilterStatus(result.Entries, types.StatusSkipped)),
		Failed:   len(types.FilterStatus(result.Entries, types.StatusFailed)),
	}
	for _, err := range result.Errors {
		s.Errors = append(s.Errors, err.Error())
	}
	return s
}

// Summary writes the end-of-run report
func (r *Renderer) Summary(s Summary) error {
	return r.render("summary.tmpl", s)
}

// Rules writes every rule with its numbered steps
func (r *Renderer) Rules(list []rules.Rule) error {
	return r.render("rules.tmpl", list)
}

// Error writes err, followed by its hint detail when present
func (r *Renderer) Error(err error) error {
	data := struct {
		Message string
		Hint    string
	}{Message: err.Error()}
	if hint, ok := errors.GetErrorDetails(err)["hint"].(string); ok {
		data.Hint = hint
	}
	return r.render("error.tmpl", data)
}

// Message writes a line of markup
func (r *Renderer) Message(format string, args ...interface{}) error {
	_, err := fmt.Fprintln(r.writer, style.Render(fmt.Sprintf(format, args...)))
	return err
}

// TrashTable writes the trashed items as a table, newest last
func (r *Renderer) TrashTable(items []trash.Item) error {
	if len(items) == 0 {
		return r.Message("[muted]The trash is empty.[/muted]")
	}
	data := pterm.TableData{{"NAME", "ORIGINAL PATH", "DELETED", "SIZE"}}
	for _, item := range items {
		size := "-"
		if !item.IsDir {
			size = humanize.Bytes(uint64(item.Size))
		}
		data = append(data, []string{
			item.Name,
			paths.Collapse(item.OriginalPath),
			humanize.RelTime(item.DeletedAt, r.now(), "ago", "from now"),
			size,
		})
	}
	return r.table(data)
}

// HistoryTable writes journal outcome records as a table
func (r *Renderer) HistoryTable(records []journal.Record) error {
	if len(records) == 0 {
		return r.Message("[muted]No actions recorded yet.[/muted]")
	}
	data := pterm.TableData{{"WHEN", "RULE", "ACTION", "STATUS", "PATH"}}
	for _, rec := range records {
		target := paths.Collapse(rec.Source)
		if rec.Destination != "" {
			target += " → " + paths.Collapse(rec.Destination)
		}
		status := string(rec.Status)
		if rec.Reason != "" {
			status += ": " + rec.Reason
		}
		data = append(data, []string{
			humanize.RelTime(rec.Time, r.now(), "ago", "from now"),
			rec.Rule,
			string(rec.Kind),
			status,
			target,
		})
	}
	return r.table(data)
}

func (r *Renderer) table(data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	_, err = fmt.Fprintln(r.writer, out)
	return err
}
