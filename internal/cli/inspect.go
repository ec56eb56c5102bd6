package cli

import (
	"github.com/arthur-debert/tidyup/pkg/commands"
	"github.com/arthur-debert/tidyup/pkg/paths"
	"github.com/spf13/cobra"
)

func newCheckCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			result, err := commands.Check(cfg)
			if err != nil {
				return err
			}

			r, err := ro.renderer(cmd)
			if err != nil {
				return err
			}
			noun := "rules"
			if len(result.Rules) == 1 {
				noun = "rule"
			}
			if err := r.Message(MsgConfigOK, len(result.Rules), noun, result.Enabled); err != nil {
				return err
			}
			if result.Source == "" {
				return r.Message(MsgConfigDefaults)
			}
			return r.Message(MsgConfigSource, paths.Collapse(result.Source))
		},
	}
}

func newRulesCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rules",
		Short:   MsgRulesShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			result, err := commands.Check(cfg)
			if err != nil {
				return err
			}
			r, err := ro.renderer(cmd)
			if err != nil {
				return err
			}
			return r.Rules(result.Rules)
		},
	}
}
