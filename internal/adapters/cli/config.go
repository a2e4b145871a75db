package cli

import (
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/npc-economy/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the effective configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (SIM_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Example:
  economy-sim config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			displayConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

func displayConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Economy Simulator Configuration")
	fmt.Fprintln(out, "==============================")

	fmt.Fprintln(out, "\nSimulation:")
	fmt.Fprintf(out, "  Substep:          %gs\n", cfg.Simulation.SubstepSeconds)
	fmt.Fprintf(out, "  Acceleration:     %gx\n", cfg.Simulation.TimeAcceleration)
	fmt.Fprintf(out, "  Frame Rate:       %g/s\n", cfg.Simulation.FrameRate)
	fmt.Fprintf(out, "  Stall Threshold:  %gs\n", cfg.Simulation.StallThresholdSeconds)

	t := cfg.Simulation.Trading
	fmt.Fprintln(out, "\nTrade Matching:")
	fmt.Fprintf(out, "  Surplus Floor:    %d\n", t.SurplusFloor)
	fmt.Fprintf(out, "  Need Ceiling:     %d\n", t.NeedCeiling)
	fmt.Fprintf(out, "  Export Fraction:  %g\n", t.ExportFraction)
	fmt.Fprintf(out, "  Max Transfer:     %d\n", t.MaxTransfer)
	fmt.Fprintf(out, "  Min Batch:        %d\n", t.MinBatch)

	fmt.Fprintln(out, "\nWorld:")
	fmt.Fprintf(out, "  Definition:       %s\n", cfg.World.Path)

	fmt.Fprintln(out, "\nDatabase:")
	fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
	switch {
	case cfg.Database.Type == "sqlite":
		fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
	case cfg.Database.URL != "":
		fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
	default:
		fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
		fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
		fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
		fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
	}

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

	fmt.Fprintln(out, "\nMetrics:")
	if cfg.Metrics.Enabled {
		fmt.Fprintf(out, "  Endpoint:         http://%s%s\n", cfg.Metrics.Address(), cfg.Metrics.Path)
	} else {
		fmt.Fprintln(out, "  Endpoint:         (disabled)")
	}
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
