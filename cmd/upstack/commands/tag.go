package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/upstack-sh/upstack/pkg/errors"
)

func newTagCmd() *cobra.Command {
	var (
		root       string
		flavorFlag string
	)

	cmd := &cobra.Command{
		Use:     "tag TAG PRODUCT VERSION",
		Short:   MsgTagShort,
		Long: `tag assigns TAG to a declared version of PRODUCT. Without --flavor the
tag is assigned under every flavor declaring that version. Tags prefixed
with "` + "user." + `" are stored per user instead of in the stack database.`,
		GroupID: "core",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := resolveWritableDB(root)
			if err != nil {
				return err
			}
			flavors, err := loadFlavors(db, flavorFlag)
			if err != nil {
				return err
			}
			if len(flavors) == 0 {
				return errors.New(errors.ErrProductNotFound, MsgListEmpty)
			}

			s, err := openStack(db, flavors, cfg)
			if err != nil {
				return err
			}

			tag, name, version := args[0], args[1], args[2]
			var under []string
			if flavorFlag != "" {
				under = []string{flavorFlag}
			}
			if err := s.AssignTag(tag, name, version, under...); err != nil {
				return err
			}
			if !cfg.Stack.Autosave {
				if err := s.Save(); err != nil {
					return err
				}
			}

			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln(MsgTagged, name, version, tag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", MsgFlagRoot)
	cmd.Flags().StringVarP(&flavorFlag, "flavor", "f", "", MsgFlagFlavor)

	return cmd
}

func newUntagCmd() *cobra.Command {
	var (
		root       string
		flavorFlag string
	)

	cmd := &cobra.Command{
		Use:     "untag TAG PRODUCT",
		Short:   MsgUntagShort,
		GroupID: "core",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := resolveWritableDB(root)
			if err != nil {
				return err
			}
			flavors, err := loadFlavors(db, flavorFlag)
			if err != nil {
				return err
			}
			if len(flavors) == 0 {
				return errors.New(errors.ErrProductNotFound, MsgListEmpty)
			}

			s, err := openStack(db, flavors, cfg)
			if err != nil {
				return err
			}

			tag, name := args[0], args[1]
			var under []string
			if flavorFlag != "" {
				under = []string{flavorFlag}
			}
			removed, err := s.UnassignTag(tag, name, under...)
			if err != nil {
				return err
			}
			if !removed {
				return errors.Newf(errors.ErrTagNotFound, "tag %s not assigned to %s", tag, name)
			}
			if !cfg.Stack.Autosave {
				if err := s.Save(); err != nil {
					return err
				}
			}

			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln(MsgUntagged, tag, name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", MsgFlagRoot)
	cmd.Flags().StringVarP(&flavorFlag, "flavor", "f", "", MsgFlagFlavor)

	return cmd
}
