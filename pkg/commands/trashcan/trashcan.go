package trashcan

import (
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/paths"
	"github.com/arthur-debert/tidyup/pkg/trash"
	"github.com/spf13/afero"
)

// ListOptions defines the options for the TrashList command.
type ListOptions struct {
	TrashDir string
	FS       afero.Fs
}

// List returns the items in the trash, oldest first
func List(opts ListOptions) ([]trash.Item, error) {
	log := logging.GetLogger("commands.trash")
	log.Debug().Str("command", "TrashList").Str("dir", opts.TrashDir).Msg("Executing command")

	items, err := can(opts.FS, opts.TrashDir).List()
	if err != nil {
		return nil, err
	}
	log.Info().Str("command", "TrashList").Int("items", len(items)).Msg("Command finished")
	return items, nil
}

// RestoreOptions defines the options for the TrashRestore command.
type RestoreOptions struct {
	TrashDir string
	Name     string
	// To restores somewhere other than the original location
	To string
	// Root resolves a relative To; empty means the working directory
	Root string
	FS   afero.Fs
}

// Restore moves a trashed item back and returns where it landed. An
// occupied destination is an ALREADY_EXISTS error.
func Restore(opts RestoreOptions) (string, error) {
	log := logging.GetLogger("commands.trash")
	log.Debug().Str("command", "TrashRestore").Str("name", opts.Name).Msg("Executing command")

	dest := ""
	if opts.To != "" {
		resolved, err := paths.Resolve(opts.Root, opts.To)
		if err != nil {
			return "", err
		}
		dest = resolved
	}

	restored, err := can(opts.FS, opts.TrashDir).Restore(opts.Name, dest)
	if err != nil {
		return "", err
	}
	log.Info().Str("command", "TrashRestore").Str("path", restored).Msg("Command finished")
	return restored, nil
}

func can(fsys afero.Fs, dir string) *trash.Can {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	return trash.New(fsys, dir)
}
