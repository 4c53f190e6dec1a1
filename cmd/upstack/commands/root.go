package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/upstack-sh/upstack/internal/version"
	"github.com/upstack-sh/upstack/pkg/config"
	"github.com/upstack-sh/upstack/pkg/flavor"
	"github.com/upstack-sh/upstack/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "upstack",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			// Show help but return an error to indicate incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.AddCommand(newMksetupCmd())
	rootCmd.AddCommand(newDeclareCmd())
	rootCmd.AddCommand(newUndeclareCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newTagCmd())
	rootCmd.AddCommand(newUntagCmd())
	rootCmd.AddCommand(newTagsCmd())
	rootCmd.AddCommand(newFlavorsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig loads the layered configuration and applies the configured
// flavor fallback chain before any command logic runs.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if len(cfg.Flavors.Fallbacks) > 0 {
		flavor.SetFallbacks("", cfg.Flavors.Fallbacks)
	}
	return cfg, nil
}
