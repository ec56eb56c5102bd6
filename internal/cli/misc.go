package cli

import (
	"fmt"
	"os"

	"github.com/arthur-debert/tidyup/internal/version"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tidyup version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				err = cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				err = cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			if err != nil {
				log.Error().Err(err).Str("shell", args[0]).Msg("Failed to generate completion")
			}
			return err
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man [DIR]",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			if err := doc.GenManTree(cmd.Root(), ManHeader(), dir); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Man pages written to %s\n", dir)
			return err
		},
	}
}

// ManHeader is the header shared by every generated man page
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "TIDYUP",
		Section: "1",
		Source:  "tidyup " + version.Version,
		Manual:  "tidyup manual",
	}
}
