package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/tidyup/pkg/config"
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/paths"
	"github.com/spf13/cobra"
)

func newGenConfigCmd(ro *rootOptions) *cobra.Command {
	var (
		effective bool
		write     bool
	)

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if effective {
				cfg, err := ro.loadConfig()
				if err != nil {
					return err
				}
				data, err := config.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.SampleContent())
				return err
			}

			target := ro.configFile
			if target == "" {
				target = paths.ConfigFile()
			}
			target = paths.ExpandHome(target)
			if _, err := os.Stat(target); err == nil {
				return errors.Newf(errors.ErrAlreadyExists, MsgErrConfigExists, target).
					WithDetail("path", target).
					WithDetail("hint", "remove it first or print the sample with `tidyup gen-config`")
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return errors.FromFS(err, errors.ErrDirCreate, filepath.Dir(target))
			}
			if err := os.WriteFile(target, []byte(config.SampleContent()), 0644); err != nil {
				return errors.FromFS(err, errors.ErrFileAccess, target)
			}

			r, err := ro.renderer(cmd)
			if err != nil {
				return err
			}
			return r.Message(MsgConfigWritten, paths.Collapse(target))
		},
	}

	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.MarkFlagsMutuallyExclusive("effective", "write")
	return cmd
}
