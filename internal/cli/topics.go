package cli

import (
	"embed"
	"os"

	"github.com/arthur-debert/tidyup/pkg/cobrax/topics"
	"github.com/arthur-debert/tidyup/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicsFS embed.FS

// initTopics replaces cobra's help command with one that also serves the
// embedded help topics (tidyup help patterns)
func initTopics(rootCmd *cobra.Command) {
	opts := topics.Options{
		Extensions: []string{".md"},
		Renderer:   topics.NewGlamourRenderer(style.ColorEnabled(os.Stdout)),
	}
	if err := topics.InitializeWithOptions(rootCmd, topicsFS, "topics", opts); err != nil {
		log.Warn().Err(err).Msg("Failed to load help topics")
	}
	rootCmd.SetHelpCommandGroupID("misc")
}
