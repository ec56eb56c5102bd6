package history

import (
	"time"

	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/journal"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/spf13/afero"
)

// HistoryOptions defines the options for the History command.
type HistoryOptions struct {
	JournalPath string
	// Limit keeps the most recent outcomes; 0 keeps all
	Limit int
	// Since drops outcomes older than this when set
	Since time.Time
	FS    afero.Fs
}

// HistoryResult holds journal outcomes, oldest first, plus intents that
// never completed (an interrupted run)
type HistoryResult struct {
	Outcomes []journal.Record `json:"outcomes"`
	Pending  []journal.Record `json:"pending"`
}

// History reads past actions from the journal
func History(opts HistoryOptions) (*HistoryResult, error) {
	log := logging.GetLogger("commands.history")
	log.Debug().Str("command", "History").Str("path", opts.JournalPath).Msg("Executing command")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	records, err := journal.Read(fsys, opts.JournalPath)
	if err != nil {
		return nil, err
	}
	if !opts.Since.IsZero() {
		records = journal.Since(records, opts.Since)
	}

	result := &HistoryResult{
		Outcomes: journal.Outcomes(records, opts.Limit),
		Pending:  journal.Pending(records),
	}
	log.Info().Str("command", "History").Int("outcomes", len(result.Outcomes)).Int("pending", len(result.Pending)).Msg("Command finished")
	return result, nil
}
