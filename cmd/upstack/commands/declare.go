package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/upstack-sh/upstack/pkg/product"
)

func newDeclareCmd() *cobra.Command {
	var (
		root       string
		flavorFlag string
		dir        string
		table      string
		tags       []string
	)

	cmd := &cobra.Command{
		Use:     "declare PRODUCT VERSION",
		Short:   MsgDeclareShort,
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

			if !product.IsRealFilename(table) {
				table = ""
			}
			p := &product.Product{
				Name:      args[0],
				Version:   args[1],
				Flavor:    flav,
				Dir:       dir,
				TableFile: table,
				Tags:      tags,
			}
			if err := s.AddProduct(p); err != nil {
				return err
			}
			if !cfg.Stack.Autosave {
				if err := s.Save(); err != nil {
					return err
				}
			}

			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln(MsgDeclared, p.Name, p.Version, flav)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", MsgFlagRoot)
	cmd.Flags().StringVarP(&flavorFlag, "flavor", "f", "", MsgFlagFlavor)
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory the product is installed in")
	cmd.Flags().StringVarP(&table, "table", "t", "", "Table file describing the product's environment")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag to assign to the declared version (repeatable)")

	return cmd
}
