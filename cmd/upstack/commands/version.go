package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upstack-sh/upstack/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print version information",
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "upstack %s\n", version.Version)
			fmt.Fprintf(w, "  commit: %s\n", version.Commit)
			fmt.Fprintf(w, "  built:  %s\n", version.Date)
		},
	}
}
