package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/tidyup/internal/cli"
)

// Writes the top-level man page to stdout; `tidyup man DIR` writes the
// full tree.
func main() {
	rootCmd := cli.NewRootCmd()

	if err := doc.GenMan(rootCmd, cli.ManHeader(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
