package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/npc-economy/internal/adapters/persistence"
	"github.com/andrescamacho/npc-economy/internal/application/simulation"
	"github.com/andrescamacho/npc-economy/internal/infrastructure/database"
)

// NewSnapshotCommand creates the snapshot command with subcommands
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect stored world snapshots",
		Long: `Inspect world snapshots written by "economy-sim run".

Examples:
  economy-sim snapshot list
  economy-sim snapshot list --world-name argon_sector --limit 5
  economy-sim snapshot show 42
  economy-sim snapshot prune --world-name argon_sector --keep 3`,
	}

	cmd.AddCommand(newSnapshotListCommand())
	cmd.AddCommand(newSnapshotShowCommand())
	cmd.AddCommand(newSnapshotPruneCommand())

	return cmd
}

func newSnapshotListCommand() *cobra.Command {
	var (
		worldName string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			summaries, err := persistence.NewGormSnapshotRepository(db).List(ctx, worldName, limit)
			if err != nil {
				return err
			}
			displaySnapshots(cmd.OutOrStdout(), summaries)
			return nil
		},
	}

	cmd.Flags().StringVar(&worldName, "world-name", "", "Only list snapshots of this world")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of snapshots to list")

	return cmd
}

func newSnapshotShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show stations and fleets of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			snap, err := persistence.NewGormSnapshotRepository(db).FindByID(ctx, id)
			if err != nil {
				return err
			}
			w, err := simulation.Restore(snap)
			if err != nil {
				return fmt.Errorf("snapshot %d does not restore: %w", id, err)
			}
			displaySnapshotWorld(cmd.OutOrStdout(), id, w)
			return nil
		},
	}
}

func newSnapshotPruneCommand() *cobra.Command {
	var (
		worldName string
		keep      int
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old snapshots of a world",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			removed, err := persistence.NewGormSnapshotRepository(db).Prune(cmd.Context(), worldName, keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d snapshots of %s\n", removed, worldName)
			return nil
		},
	}

	cmd.Flags().StringVar(&worldName, "world-name", "", "World to prune [required]")
	cmd.Flags().IntVar(&keep, "keep", 5, "Number of newest snapshots to keep")
	cmd.MarkFlagRequired("world-name")

	return cmd
}

func displaySnapshots(out io.Writer, summaries []persistence.SnapshotSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No snapshots found")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWorld\tSim Time\tStations\tFleets\tCreated")
	fmt.Fprintln(tw, "──\t─────\t────────\t────────\t──────\t───────")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n",
			s.ID,
			s.Name,
			formatSimTime(s.ElapsedSeconds),
			s.StationCount,
			s.FleetCount,
			s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		)
	}
	tw.Flush()
}

func displaySnapshotWorld(out io.Writer, id int, w *simulation.World) {
	fmt.Fprintf(out, "\nSNAPSHOT %d at %s simulated\n", id, formatSimTime(w.ElapsedSeconds))
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Station\tSector\tProgress\tStock")
	fmt.Fprintln(tw, "───────\t──────\t────────\t─────")
	for _, st := range w.Stations() {
		fmt.Fprintf(tw, "%s\t%s\t%.1fs\t%s\n", st.ID, st.SectorID, st.ProductionProgress, st.Inventory.String())
	}
	tw.Flush()

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Fleet\tState\tSector\tQueue\tOrder\tTrips\tProfit")
	fmt.Fprintln(tw, "─────\t─────\t──────\t─────\t─────\t─────\t──────")
	for _, f := range w.Fleets() {
		order := "-"
		if f.CurrentOrder != nil {
			order = f.CurrentOrder.Description()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\t%s\n",
			f.ID, f.State, f.CurrentSectorID, f.Queue.Len(), order, f.TripsCompleted, formatAmount(f.TotalProfit))
	}
	tw.Flush()
}
