package commands

import (
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/upstack-sh/upstack/internal/version"
	"github.com/upstack-sh/upstack/pkg/errors"
	"github.com/upstack-sh/upstack/pkg/logging"
	"github.com/upstack-sh/upstack/pkg/pathlist"
	"github.com/upstack-sh/upstack/pkg/shell"
)

func newMksetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "mksetup INSTALL_DIR CURRENT_PATH [SETUP_ALIAS:UNSETUP_ALIAS]",
		Short:   MsgMksetupShort,
		Long:    MsgMksetupLong,
		GroupID: "core",
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("mksetup")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			installDir := args[0]
			currentPath := args[1]

			setupAlias := cfg.Aliases.Setup
			unsetupAlias := cfg.Aliases.Unsetup
			if len(args) == 3 {
				setupAlias, unsetupAlias, err = splitAliasPair(args[2])
				if err != nil {
					return err
				}
			}

			binDir := filepath.Join(installDir, "bin")
			params := shell.Params{
				InstallDir:   installDir,
				PathEntries:  pathlist.Build(currentPath, binDir),
				SetupAlias:   setupAlias,
				UnsetupAlias: unsetupAlias,
				ToolVersion:  version.Version,
			}

			logger.Debug().
				Str("installDir", installDir).
				Strs("pathEntries", params.PathEntries).
				Msg("generating startup scripts")

			written, err := shell.WriteScripts(installDir, params)
			if err != nil {
				return err
			}

			success := pterm.Success.WithWriter(cmd.OutOrStdout())
			for _, path := range written {
				success.Printfln(MsgMksetupWrote, path)
			}
			return nil
		},
	}
}

// splitAliasPair parses a SETUP_ALIAS:UNSETUP_ALIAS argument. Both names
// must be present and non-empty.
func splitAliasPair(arg string) (string, string, error) {
	setup, unsetup, ok := strings.Cut(arg, ":")
	if !ok || setup == "" || unsetup == "" || strings.Contains(unsetup, ":") {
		return "", "", errors.Newf(errors.ErrUsage, "%s (got %q)", MsgErrAliasPair, arg)
	}
	return setup, unsetup, nil
}
