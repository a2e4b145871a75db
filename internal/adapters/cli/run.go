package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/andrescamacho/npc-economy/internal/adapters/metrics"
	"github.com/andrescamacho/npc-economy/internal/adapters/persistence"
	"github.com/andrescamacho/npc-economy/internal/adapters/reports"
	"github.com/andrescamacho/npc-economy/internal/adapters/worlddef"
	"github.com/andrescamacho/npc-economy/internal/application/common"
	"github.com/andrescamacho/npc-economy/internal/application/simulation"
	"github.com/andrescamacho/npc-economy/internal/domain/events"
	"github.com/andrescamacho/npc-economy/internal/domain/trading"
	"github.com/andrescamacho/npc-economy/internal/infrastructure/config"
	"github.com/andrescamacho/npc-economy/internal/infrastructure/database"
)

// runOptions are the flags of the run command
type runOptions struct {
	worldPath     string
	worldName     string
	resume        bool
	frames        int
	acceleration  float64
	reportsPath   string
	snapshotEvery int
	keepSnapshots int
	noPersist     bool
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the economy",
		Long: `Run the economy loop: every frame advances simulated time in fixed substeps
(production, then trade assignment) and applies any ship reports received
since the previous frame.

Ship reports are read as newline-delimited JSON from --reports ("-" for stdin):
  {"type":"cargo-loaded","fleet_id":"trader-01","timestamp":120,"station_id":"spp-1","ware_id":"energy_cells","amount":360}

The world is snapshotted to the database every --snapshot-every frames and on
exit; settled trades are appended to the transactions table.

Examples:
  economy-sim run --frames 600
  economy-sim run --acceleration 60 --reports -
  economy-sim run --resume --world-name argon_sector`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runSimulation(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.worldPath, "world", "", "World definition file (overrides world.path)")
	cmd.Flags().StringVar(&opts.worldName, "world-name", "", "Name snapshots and transactions are stored under (default: the world's name)")
	cmd.Flags().BoolVar(&opts.resume, "resume", false, "Resume from the latest stored snapshot instead of the world file")
	cmd.Flags().IntVar(&opts.frames, "frames", 0, "Number of frames to run (0 = until interrupted)")
	cmd.Flags().Float64Var(&opts.acceleration, "acceleration", 0, "Time acceleration (overrides simulation.time_acceleration)")
	cmd.Flags().StringVar(&opts.reportsPath, "reports", "", "Newline-delimited JSON ship reports (\"-\" for stdin)")
	cmd.Flags().IntVar(&opts.snapshotEvery, "snapshot-every", 600, "Frames between snapshots (0 = only on exit)")
	cmd.Flags().IntVar(&opts.keepSnapshots, "keep-snapshots", 20, "Snapshots to retain per world (0 = keep all)")
	cmd.Flags().BoolVar(&opts.noPersist, "no-persist", false, "Do not touch the database")

	return cmd
}

func runSimulation(cmd *cobra.Command, cfg *config.Config, opts *runOptions) error {
	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = common.WithLogger(ctx, logger)

	if opts.acceleration > 0 {
		cfg.Simulation.TimeAcceleration = opts.acceleration
	}
	if opts.worldPath != "" {
		cfg.World.Path = opts.worldPath
	}

	var db *gorm.DB
	if !opts.noPersist {
		db, err = openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)
	} else if opts.resume {
		return fmt.Errorf("--resume needs the database; drop --no-persist")
	}

	world, name, err := loadWorld(ctx, db, cfg, opts)
	if err != nil {
		return err
	}

	engineOpts := []simulation.Option{
		simulation.WithLogger(logger),
		simulation.WithThresholds(thresholdsFrom(cfg.Simulation.Trading)),
	}

	var collector *metrics.SimulationMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		collector = metrics.NewSimulationMetricsCollector()
		if err := collector.Register(); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		engineOpts = append(engineOpts, simulation.WithMetrics(collector))

		srv := metrics.NewServer(cfg.Metrics.Address(), cfg.Metrics.Path)
		errCh := srv.Start()
		go func() {
			if err := <-errCh; err != nil {
				logger.Log(common.LevelError, "Metrics server stopped", map[string]interface{}{"error": err.Error()})
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Log(common.LevelInfo, "Metrics endpoint enabled", map[string]interface{}{
			"address": cfg.Metrics.Address(),
			"path":    cfg.Metrics.Path,
		})
	}

	engine := simulation.NewEngine(engineOpts...)
	runner, err := simulation.NewRunner(engine, simulation.RunnerConfig{
		SubstepSeconds:   cfg.Simulation.SubstepSeconds,
		TimeAcceleration: cfg.Simulation.TimeAcceleration,
		FrameRate:        cfg.Simulation.FrameRate,
	})
	if err != nil {
		return err
	}

	reportCh, closeReports, err := openReports(ctx, opts.reportsPath)
	if err != nil {
		return err
	}
	defer closeReports()

	var store *worldStore
	if db != nil {
		store = newWorldStore(db, name, len(world.Ledger()), opts.keepSnapshots)
	}

	stallCheckEvery := int(cfg.Simulation.FrameRate * 10)
	if stallCheckEvery < 1 {
		stallCheckEvery = 1
	}
	runner.OnFrame(func(w *simulation.World, frame int) {
		if collector != nil {
			collector.ObserveWorld(w)
		}
		// stall checks run on the world clock; report timestamps are not used
		if frame%stallCheckEvery == 0 {
			logStalledFleets(logger, w, cfg.Simulation.StallThresholdSeconds)
		}
		if store != nil && opts.snapshotEvery > 0 && frame%opts.snapshotEvery == 0 {
			if err := store.persist(ctx, w); err != nil {
				logger.Log(common.LevelError, "Failed to persist world", map[string]interface{}{"error": err.Error()})
			}
		}
	})

	logger.Log(common.LevelInfo, "Simulation starting", map[string]interface{}{
		"world":             name,
		"stations":          len(world.Stations()),
		"fleets":            len(world.Fleets()),
		"substep_seconds":   cfg.Simulation.SubstepSeconds,
		"time_acceleration": cfg.Simulation.TimeAcceleration,
		"frame_rate":        cfg.Simulation.FrameRate,
	})

	if err := runner.Run(ctx, world, opts.frames, reportCh); err != nil {
		return err
	}

	if store != nil {
		persistCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := store.persist(persistCtx, world); err != nil {
			return err
		}
	}

	printRunSummary(cmd.OutOrStdout(), name, world, runner.Stats())
	return nil
}

// loadWorld builds the world from the definition file or the latest snapshot
func loadWorld(ctx context.Context, db *gorm.DB, cfg *config.Config, opts *runOptions) (*simulation.World, string, error) {
	if opts.resume {
		name := opts.worldName
		if name == "" {
			def, err := worlddef.Load(cfg.World.Path)
			if err != nil {
				return nil, "", fmt.Errorf("--resume without --world-name needs the world file for its name: %w", err)
			}
			name = def.Name
		}

		snap, err := persistence.NewGormSnapshotRepository(db).Latest(ctx, name)
		if err != nil {
			return nil, "", err
		}
		w, err := simulation.Restore(snap)
		if err != nil {
			return nil, "", fmt.Errorf("failed to restore world %s: %w", name, err)
		}
		return w, name, nil
	}

	def, err := worlddef.Load(cfg.World.Path)
	if err != nil {
		return nil, "", err
	}
	w, err := def.Build()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build world %s: %w", def.Name, err)
	}

	name := opts.worldName
	if name == "" {
		name = def.Name
	}
	return w, name, nil
}

// openReports opens the report source; an empty path yields a nil channel
func openReports(ctx context.Context, path string) (<-chan events.Report, func(), error) {
	switch path {
	case "":
		return nil, func() {}, nil
	case "-":
		return reports.Stream(ctx, os.Stdin, 256), func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open reports file: %w", err)
	}
	return reports.Stream(ctx, f, 256), func() { f.Close() }, nil
}

func thresholdsFrom(cfg config.TradingConfig) trading.Thresholds {
	return trading.Thresholds{
		SurplusFloor:   cfg.SurplusFloor,
		NeedCeiling:    cfg.NeedCeiling,
		ExportFraction: cfg.ExportFraction,
		MaxTransfer:    cfg.MaxTransfer,
		MinBatch:       cfg.MinBatch,
	}
}

func logStalledFleets(logger common.Logger, w *simulation.World, threshold float64) {
	if threshold <= 0 {
		return
	}
	for _, s := range w.StalledFleets(w.ElapsedSeconds, threshold) {
		logger.Log(common.LevelWarn, "Fleet has not reported", map[string]interface{}{
			"fleet_id":        s.FleetID,
			"state":           string(s.State),
			"stalled_since":   s.StalledSince,
			"pending_command": string(s.PendingCommand),
			"pending_count":   s.PendingCount,
		})
	}
}

func printRunSummary(out io.Writer, name string, w *simulation.World, stats simulation.RunStats) {
	trips, profit := 0, 0
	for _, f := range w.Fleets() {
		trips += f.TripsCompleted
		profit += f.TotalProfit
	}

	fmt.Fprintf(out, "\nWorld %s stopped at %s simulated\n", name, formatSimTime(w.ElapsedSeconds))
	fmt.Fprintf(out, "  Stations:          %d (%d starved)\n", len(w.Stations()), len(w.StarvedStations()))
	fmt.Fprintf(out, "  Fleets:            %d\n", len(w.Fleets()))
	fmt.Fprintf(out, "  Trips completed:   %d\n", trips)
	fmt.Fprintf(out, "  Realised profit:   %s\n", formatAmount(profit))
	fmt.Fprintf(out, "  Ledger entries:    %d\n", len(w.Ledger()))
	fmt.Fprintf(out, "  Frames:            %d (%d slow, slowest %s)\n", stats.Frames, stats.Overruns, stats.SlowestFrame)
}
