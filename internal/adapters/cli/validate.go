package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/npc-economy/internal/adapters/worlddef"
	"github.com/andrescamacho/npc-economy/internal/application/simulation"
	"github.com/andrescamacho/npc-economy/internal/domain/trading"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	var worldPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a world definition file",
		Long: `Load a world definition, check every cross reference, seed starting
inventories and print the resulting stations together with the most
profitable opening trade.

Example:
  economy-sim validate --world configs/world.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if worldPath == "" {
				worldPath = cfg.World.Path
			}

			def, err := worlddef.Load(worldPath)
			if err != nil {
				return err
			}
			w, err := def.Build()
			if err != nil {
				return fmt.Errorf("world %s is inconsistent: %w", def.Name, err)
			}

			matcher := trading.NewMatcher(thresholdsFrom(cfg.Simulation.Trading))
			displayWorld(cmd.OutOrStdout(), def.Name, w, matcher)
			return nil
		},
	}

	cmd.Flags().StringVar(&worldPath, "world", "", "World definition file (default: world.path)")

	return cmd
}

func displayWorld(out io.Writer, name string, w *simulation.World, matcher *trading.Matcher) {
	fmt.Fprintf(out, "\nWORLD %s: %d wares, %d recipes, %d stations, %d corporations, %d fleets\n",
		name,
		len(w.Catalog.Wares()),
		len(w.Catalog.Recipes()),
		len(w.Stations()),
		len(w.Corporations()),
		len(w.Fleets()),
	)
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Station\tSector\tRecipe\tStock")
	fmt.Fprintln(tw, "───────\t──────\t──────\t─────")
	for _, st := range w.Stations() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", st.ID, st.SectorID, st.RecipeID, st.Inventory.String())
	}
	tw.Flush()

	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")
	best, ok := matcher.FindBest(w.Stations(), w.Catalog, w.Prices)
	if !ok {
		fmt.Fprintln(out, "No profitable trade at start")
		return
	}
	fmt.Fprintf(out, "Best opening trade: %d %s %s -> %s at %d/unit (score %s)\n",
		best.Amount, best.Ware.ID(), best.From.ID, best.To.ID, best.ProfitPerUnit, formatCredits(best.Score()))
}
