package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/deckhandapp/deckhand/internal/cleanup"
	"github.com/deckhandapp/deckhand/internal/logger"
	"github.com/deckhandapp/deckhand/internal/version"
)

func execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "deckhand",
		Short: "Deckhand control-surface manager",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logger.LevelInfo
			if verbose {
				level = logger.LevelDebug
			}
			logger.Init(level, nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if hasAnyFlagSet(cmd) {
				_ = cmd.Usage()
				return fmt.Errorf("a subcommand is required")
			}
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newAboutCmd(),
		newDevicesCmd(),
		newLicensesCmd(),
		newProfilesCmd(),
		newStoreCmd(),
	)
	return cmd
}

func hasAnyFlagSet(cmd *cobra.Command) bool {
	found := false
	cmd.Flags().Visit(func(_ *pflag.Flag) {
		found = true
	})
	return found
}
