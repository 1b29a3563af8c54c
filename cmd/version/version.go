package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Printf("essnap %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}
