package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/upstack-sh/upstack/pkg/flavor"
	"github.com/upstack-sh/upstack/pkg/output"
	"github.com/upstack-sh/upstack/pkg/stack"
)

func newFlavorsCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:     "flavors",
		Short:   MsgFlavorsShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			cur, err := flavor.Current()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", output.Sprint(output.HeaderStyle, "native:"), cur)
			fmt.Fprintf(w, "%s %s\n", output.Sprint(output.HeaderStyle, "fallbacks:"),
				strings.Join(flavor.Fallbacks(cur, false), " "))

			if root != "" {
				cached, err := resolveCached(root)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s %s\n", output.Sprint(output.HeaderStyle, "cached:"),
					strings.Join(cached, " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", MsgFlagRoot)

	return cmd
}

func resolveCached(root string) ([]string, error) {
	db, err := resolveReadableDB(root)
	if err != nil {
		return nil, err
	}
	return stack.CachedFlavors(db)
}
