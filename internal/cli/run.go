package cli

import (
	"fmt"

	"github.com/arthur-debert/tidyup/pkg/commands"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/output"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/spf13/cobra"
)

func newRunCmd(ro *rootOptions) *cobra.Command {
	var (
		dryRun    bool
		ruleNames []string
	)

	cmd := &cobra.Command{
		Use:     "run",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.run")

			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			r, err := ro.renderer(cmd)
			if err != nil {
				return err
			}

			opts := commands.RunOptions{
				Config:    cfg,
				RuleNames: ruleNames,
				DryRun:    dryRun,
			}
			if !ro.json {
				opts.OnEntry = func(entry types.ActionLogEntry) {
					if werr := r.Entry(entry); werr != nil {
						logger.Warn().Err(werr).Msg("Failed to print entry")
					}
				}
			}
			result, err := commands.Run(opts)
			if err != nil {
				return err
			}

			if ro.json {
				report := output.NewRunReport(result.Result, result.DryRun, result.RunID)
				if err := ro.jsonRenderer(cmd).Result(report); err != nil {
					return err
				}
			} else if err := r.Summary(output.NewSummary(result.Result, result.DryRun)); err != nil {
				return err
			}
			if result.HasErrors() {
				return &ExitError{
					Code:   ExitRuleErrors,
					Err:    fmt.Errorf(MsgRuleErrorsTotal, len(result.Errors)),
					Silent: true,
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	cmd.Flags().StringArrayVarP(&ruleNames, "rule", "r", nil, MsgFlagRule)
	_ = cmd.RegisterFlagCompletionFunc("rule", ro.ruleNamesCompletion)
	return cmd
}
