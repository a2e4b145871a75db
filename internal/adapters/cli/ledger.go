package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/npc-economy/internal/adapters/persistence"
	"github.com/andrescamacho/npc-economy/internal/domain/ledger"
	"github.com/andrescamacho/npc-economy/internal/infrastructure/database"
)

// NewLedgerCommand creates the ledger command with subcommands
func NewLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Settled trades and credit adjustments",
		Long: `View the credit movements recorded by "economy-sim run".

Transaction Types:
  TRADE_SETTLED      - Realised profit of a completed delivery
  CREDIT_ADJUSTMENT  - Credit change ordered by the corporate autopilot

Examples:
  economy-sim ledger list --world-name argon_sector
  economy-sim ledger list --corporation argon_federation --type TRADE_SETTLED --limit 20`,
	}

	cmd.AddCommand(newLedgerListCommand())

	return cmd
}

func newLedgerListCommand() *cobra.Command {
	var (
		worldName   string
		corporation string
		fleetID     string
		txType      string
		limit       int
		offset      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := persistence.TransactionQuery{
				CorporationID: corporation,
				FleetID:       fleetID,
				Limit:         limit,
				Offset:        offset,
			}
			if txType != "" {
				t, err := ledger.ParseTransactionType(txType)
				if err != nil {
					return err
				}
				q.TransactionType = &t
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

			repo := persistence.NewGormTransactionRepository(db)
			txs, err := repo.Find(ctx, worldName, q)
			if err != nil {
				return err
			}
			q.Limit, q.Offset = 0, 0
			total, err := repo.SumAmount(ctx, worldName, q)
			if err != nil {
				return err
			}

			displayTransactions(cmd.OutOrStdout(), txs, total)
			return nil
		},
	}

	cmd.Flags().StringVar(&worldName, "world-name", "", "World the transactions belong to [required]")
	cmd.Flags().StringVar(&corporation, "corporation", "", "Filter by corporation id")
	cmd.Flags().StringVar(&fleetID, "fleet", "", "Filter by fleet id")
	cmd.Flags().StringVar(&txType, "type", "", "Filter by transaction type")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of transactions to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of transactions to skip")
	cmd.MarkFlagRequired("world-name")

	return cmd
}

func displayTransactions(out io.Writer, txs []*ledger.Transaction, total int) {
	if len(txs) == 0 {
		fmt.Fprintln(out, "No transactions found")
		return
	}

	fmt.Fprintf(out, "\nTRANSACTIONS (Showing %d)\n", len(txs))
	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Sim Time\tType\tCorporation\tFleet\tWare\tQty\tAmount\tBalance")
	fmt.Fprintln(tw, "────────\t────\t───────────\t─────\t────\t───\t──────\t───────")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			formatSimTime(tx.Timestamp()),
			tx.TransactionType(),
			tx.CorporationID(),
			tx.FleetID(),
			tx.WareID(),
			tx.Quantity(),
			formatAmount(tx.Amount()),
			formatCredits(tx.BalanceAfter()),
		)
	}
	tw.Flush()

	fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────")
	fmt.Fprintf(out, "Net over all matching transactions: %s\n\n", formatAmount(total))
}
