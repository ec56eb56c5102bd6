package cli

import (
	"fmt"
	"os"

	"github.com/arthur-debert/tidyup/internal/version"
	"github.com/arthur-debert/tidyup/pkg/config"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/output"
	"github.com/arthur-debert/tidyup/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootOptions holds the global flags shared by every command
type rootOptions struct {
	verbosity  int
	configFile string
	noColor    bool
	json       bool
	color      bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	ro := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:     "tidyup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(ro.verbosity)
			ro.color = !ro.noColor && style.ColorEnabled(os.Stdout)
			style.SetColor(ro.color)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&ro.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&ro.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().BoolVar(&ro.noColor, "no-color", false, MsgFlagNoColor)
	rootCmd.PersistentFlags().BoolVar(&ro.json, "json", false, MsgFlagJSON)
	_ = rootCmd.MarkPersistentFlagFilename("config", "toml")

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "inspect", Title: "INSPECT:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRunCmd(ro))
	rootCmd.AddCommand(newCheckCmd(ro))
	rootCmd.AddCommand(newRulesCmd(ro))
	rootCmd.AddCommand(newTrashCmd(ro))
	rootCmd.AddCommand(newHistoryCmd(ro))
	rootCmd.AddCommand(newGenConfigCmd(ro))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	initTopics(rootCmd)

	return rootCmd
}

// loadConfig loads the layered configuration, honoring --config
func (ro *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(config.LoadOptions{File: ro.configFile})
}

// renderer writes styled output to the command's stdout
func (ro *rootOptions) renderer(cmd *cobra.Command) (*output.Renderer, error) {
	return output.NewRenderer(cmd.OutOrStdout(), !ro.color)
}

// jsonRenderer writes machine-readable output to the command's stdout
func (ro *rootOptions) jsonRenderer(cmd *cobra.Command) *output.JSONRenderer {
	return output.NewJSON(cmd.OutOrStdout())
}

// ruleNamesCompletion completes --rule with the configured rule names
func (ro *rootOptions) ruleNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := ro.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		names = append(names, r.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
