package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/upstack-sh/upstack/pkg/output"
	"github.com/upstack-sh/upstack/pkg/stack"
)

func newListCmd() *cobra.Command {
	var (
		root       string
		flavorFlag string
	)

	cmd := &cobra.Command{
		Use:     "list [PRODUCT]",
		Short:   MsgListShort,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := resolveReadableDB(root)
			if err != nil {
				return err
			}
			flavors, err := loadFlavors(db, flavorFlag)
			if err != nil {
				return err
			}
			if len(flavors) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), output.Sprint(output.MutedStyle, MsgListEmpty))
				return nil
			}

			s, err := openStack(db, flavors, cfg)
			if err != nil {
				return err
			}

			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			count := printProducts(cmd, s, filter)
			if count == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), output.Sprint(output.MutedStyle, MsgListEmpty))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", MsgFlagRoot)
	cmd.Flags().StringVarP(&flavorFlag, "flavor", "f", "", MsgFlagFlavor)

	return cmd
}

func printProducts(cmd *cobra.Command, s *stack.Stack, filter string) int {
	w := cmd.OutOrStdout()
	count := 0
	for _, f := range s.Flavors() {
		for _, name := range s.ProductNames(f) {
			if filter != "" && name != filter {
				continue
			}
			for _, v := range s.Versions(name, f) {
				p, err := s.Product(name, v, f)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "%s %s %s",
					output.Sprint(output.ProductStyle, fmt.Sprintf("%-24s", name)),
					output.Sprint(output.VersionStyle, fmt.Sprintf("%-16s", v)),
					fmt.Sprintf("%-12s", f))
				if len(p.Tags) > 0 {
					fmt.Fprint(w, output.Sprint(output.TagStyle, strings.Join(p.Tags, " ")))
				}
				fmt.Fprintln(w)
				count++
			}
		}
	}
	return count
}
