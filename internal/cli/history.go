package cli

import (
	"fmt"
	"time"

	"github.com/arthur-debert/tidyup/pkg/commands"
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/spf13/cobra"
)

func newHistoryCmd(ro *rootOptions) *cobra.Command {
	var (
		limit int
		since string
	)

	cmd := &cobra.Command{
		Use:     "history",
		Short:   MsgHistoryShort,
		Long:    MsgHistoryLong,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}

			opts := commands.HistoryOptions{JournalPath: cfg.Journal.Path, Limit: limit}
			if since != "" {
				d, err := types.ParseDuration(since)
				if err != nil {
					return errors.Wrapf(err, errors.ErrInvalidInput, "invalid --since %q", since)
				}
				opts.Since = time.Now().Add(-d)
			}

			result, err := commands.History(opts)
			if err != nil {
				return err
			}
			if ro.json {
				return ro.jsonRenderer(cmd).Result(result)
			}
			r, err := ro.renderer(cmd)
			if err != nil {
				return err
			}
			if err := r.HistoryTable(result.Outcomes); err != nil {
				return err
			}

			if n := len(result.Pending); n > 0 {
				noun := "actions"
				if n == 1 {
					noun = "action"
				}
				if err := r.Message(MsgPendingHeader, n, noun); err != nil {
					return err
				}
				for _, rec := range result.Pending {
					if err := r.Message(MsgPendingItem, fmt.Sprint(rec.ActionLogEntry)); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, MsgFlagLimit)
	cmd.Flags().StringVar(&since, "since", "", MsgFlagSince)
	return cmd
}
