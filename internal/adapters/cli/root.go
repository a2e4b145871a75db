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
		Use:   "economy-sim",
		Short: "NPC economy simulator - production, trade matching and fleet reconciliation",
		Long: `economy-sim drives a persistent space-trading economy: stations run their
production recipes, idle NPC fleets are matched to the most profitable
cross-station trade, and ship reports from the outside world advance each
fleet's command queue.

Examples:
  economy-sim validate --world configs/world.yaml
  economy-sim run --frames 600 --acceleration 60
  economy-sim run --resume --reports reports.jsonl
  economy-sim snapshot list
  economy-sim ledger list --corporation argon_federation`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml or ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewSnapshotCommand())
	rootCmd.AddCommand(NewLedgerCommand())
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
