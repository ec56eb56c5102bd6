// Package commands provides the high-level command implementations for
// tidyup.
//
// This package is the orchestration layer between the CLI and the engine:
// each command takes a loaded configuration plus options and returns a
// result for the CLI to render. Nothing here writes to the terminal.
//
// Each command is implemented in its own subdirectory:
//   - run/      - Run command (compile, select and run rules)
//   - check/    - Check command (validate every rule)
//   - history/  - History command (journal outcomes)
//   - trashcan/ - TrashList and TrashRestore commands
//
// This file re-exports the command functions under one import.
package commands

import (
	"github.com/arthur-debert/tidyup/pkg/commands/check"
	"github.com/arthur-debert/tidyup/pkg/commands/history"
	"github.com/arthur-debert/tidyup/pkg/commands/run"
	"github.com/arthur-debert/tidyup/pkg/commands/trashcan"
	"github.com/arthur-debert/tidyup/pkg/config"
	"github.com/arthur-debert/tidyup/pkg/trash"
)

// Run compiles the configured rules and runs the selected ones once.
type RunOptions = run.RunOptions
type RunResult = run.RunResult

func Run(opts RunOptions) (*RunResult, error) {
	return run.Run(opts)
}

// Check validates every configured rule.
type CheckResult = check.CheckResult

func Check(cfg *config.Config) (*CheckResult, error) {
	return check.Check(cfg)
}

// History reads past actions from the journal.
type HistoryOptions = history.HistoryOptions
type HistoryResult = history.HistoryResult

func History(opts HistoryOptions) (*HistoryResult, error) {
	return history.History(opts)
}

// TrashList lists the items in the trash.
type TrashListOptions = trashcan.ListOptions

func TrashList(opts TrashListOptions) ([]trash.Item, error) {
	return trashcan.List(opts)
}

// TrashRestore moves a trashed item back.
type TrashRestoreOptions = trashcan.RestoreOptions

func TrashRestore(opts TrashRestoreOptions) (string, error) {
	return trashcan.Restore(opts)
}
