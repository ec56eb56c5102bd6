package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep folders tidy with ordered file rules"
	MsgRunShort        = "Run the configured rules once"
	MsgCheckShort      = "Validate the configuration"
	MsgRulesShort      = "List the configured rules and their steps"
	MsgTrashShort      = "Inspect the trash"
	MsgTrashListShort  = "List trashed items"
	MsgRestoreShort    = "Restore a trashed item"
	MsgHistoryShort    = "Show past actions from the journal"
	MsgGenConfigShort  = "Print a sample configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgConfigOK        = "[success]✓[/success] Configuration is valid: %d %s, %d enabled"
	MsgConfigSource    = "  from [path]%s[/path]"
	MsgConfigDefaults  = "  [muted]no config file found, using built-in defaults[/muted]"
	MsgRestored        = "[success]✓[/success] Restored [path]%s[/path]"
	MsgPendingHeader   = "\n[warning]%d %s started but never finished:[/warning]"
	MsgPendingItem     = "  %s"
	MsgConfigWritten   = "[success]✓[/success] Wrote sample configuration to [path]%s[/path]"
	MsgRuleErrorsTotal = "%d rule(s) failed"

	// Error messages
	MsgErrConfigExists = "%s already exists"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Configuration file (default $XDG_CONFIG_HOME/tidyup/config.toml)"
	MsgFlagNoColor   = "Disable colored output"
	MsgFlagJSON      = "Print results as JSON (run, history, trash list)"
	MsgFlagDryRun    = "Preview actions without changing anything"
	MsgFlagRule      = "Run only this rule (repeatable)"
	MsgFlagTo        = "Restore to this path instead of the original location"
	MsgFlagLimit     = "Show at most this many actions (0 for all)"
	MsgFlagSince     = "Only show actions newer than this age (e.g. 2d, 1w)"
	MsgFlagEffective = "Print the merged configuration in use"
	MsgFlagWrite     = "Write the sample to the default configuration path"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/check-long.txt
	msgCheckLongRaw string
	MsgCheckLong    = strings.TrimSpace(msgCheckLongRaw)

	//go:embed msgs/trash-long.txt
	msgTrashLongRaw string
	MsgTrashLong    = strings.TrimSpace(msgTrashLongRaw)

	//go:embed msgs/restore-long.txt
	msgRestoreLongRaw string
	MsgRestoreLong    = strings.TrimSpace(msgRestoreLongRaw)

	//go:embed msgs/history-long.txt
	msgHistoryLongRaw string
	MsgHistoryLong    = strings.TrimSpace(msgHistoryLongRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
