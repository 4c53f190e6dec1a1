package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/upstack-sh/upstack/pkg/errors"
)

func newUndeclareCmd() *cobra.Command {
	var (
		root       string
		flavorFlag string
	)

	cmd := &cobra.Command{
		Use:     "undeclare PRODUCT VERSION",
		Short:   MsgUndeclareShort,
		GroupID: "core",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flav, err := flavorOrCurrent(flavorFlag)
			if err != nil {
				return err
			}
			db, err := resolveWritableDB(root)
			if err != nil {
				return err
			}

			s, err := openStack(db, []string{flav}, cfg)
			if err != nil {
				return err
			}

			name, version := args[0], args[1]
			removed, err := s.RemoveProduct(name, flav, version)
			if err != nil {
				return err
			}
			if !removed {
				return errors.Newf(errors.ErrProductNotFound,
					"product %s %s not declared for flavor %s", name, version, flav)
			}
			if !cfg.Stack.Autosave {
				if err := s.Save(); err != nil {
					return err
				}
			}

			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln(MsgUndeclared, name, version, flav)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", MsgFlagRoot)
	cmd.Flags().StringVarP(&flavorFlag, "flavor", "f", "", MsgFlagFlavor)

	return cmd
}
