package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upstack-sh/upstack/pkg/output"
)

func newTagsCmd() *cobra.Command {
	var (
		root       string
		flavorFlag string
	)

	cmd := &cobra.Command{
		Use:     "tags",
		Short:   MsgTagsShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
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

			w := cmd.OutOrStdout()
			if len(flavors) == 0 {
				fmt.Fprintln(w, output.Sprint(output.MutedStyle, MsgTagsEmpty))
				return nil
			}

			s, err := openStack(db, flavors, cfg)
			if err != nil {
				return err
			}

			tags := s.Tags(flavorFlag)
			if len(tags) == 0 {
				fmt.Fprintln(w, output.Sprint(output.MutedStyle, MsgTagsEmpty))
				return nil
			}
			for _, t := range tags {
				fmt.Fprintln(w, output.Sprint(output.TagStyle, t))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", MsgFlagRoot)
	cmd.Flags().StringVarP(&flavorFlag, "flavor", "f", "", MsgFlagFlavor)

	return cmd
}
