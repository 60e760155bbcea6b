package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "skirmish",
		Short: "Skirmish - headless RTS match simulator",
		Long: `Skirmish runs real-time strategy matches described by scenario files.
Units gather, fight and produce under a fixed-step simulation; events and
player snapshots are stored in the configured database.

Examples:
  skirmish simulate --scenario scenarios/skirmish.yaml
  skirmish simulate --scenario scenarios/skirmish.yaml --ticks 1200 --realtime
  skirmish events --run <run-id> --level WARNING
  skirmish snapshots --player 1
  skirmish config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs, /etc/skirmish)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewEventsCommand())
	rootCmd.AddCommand(NewSnapshotsCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
