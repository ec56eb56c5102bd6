package cli

import (
	"github.com/arthur-debert/tidyup/pkg/commands"
	"github.com/arthur-debert/tidyup/pkg/trash"
	"github.com/spf13/cobra"
)

func newTrashCmd(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trash",
		Short:   MsgTrashShort,
		Long:    MsgTrashLong,
		GroupID: "inspect",
	}
	cmd.AddCommand(newTrashListCmd(ro))
	cmd.AddCommand(newTrashRestoreCmd(ro))
	return cmd
}

func newTrashListCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgTrashListShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			items, err := commands.TrashList(commands.TrashListOptions{TrashDir: cfg.Trash.Dir})
			if err != nil {
				return err
			}
			if ro.json {
				if items == nil {
					items = []trash.Item{}
				}
				return ro.jsonRenderer(cmd).Result(items)
			}
			r, err := ro.renderer(cmd)
			if err != nil {
				return err
			}
			return r.TrashTable(items)
		},
	}
}

func newTrashRestoreCmd(ro *rootOptions) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "restore NAME",
		Short: MsgRestoreShort,
		Long:  MsgRestoreLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			restored, err := commands.TrashRestore(commands.TrashRestoreOptions{
				TrashDir: cfg.Trash.Dir,
				Name:     args[0],
				To:       to,
			})
			if err != nil {
				return err
			}
			r, err := ro.renderer(cmd)
			if err != nil {
				return err
			}
			return r.Message(MsgRestored, restored)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			cfg, err := ro.loadConfig()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			items, err := commands.TrashList(commands.TrashListOptions{TrashDir: cfg.Trash.Dir})
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			names := make([]string, 0, len(items))
			for _, item := range items {
				names = append(names, item.Name)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().StringVar(&to, "to", "", MsgFlagTo)
	return cmd
}
