package cli

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/npc-economy/internal/adapters/persistence"
	"github.com/andrescamacho/npc-economy/internal/application/common"
	"github.com/andrescamacho/npc-economy/internal/application/simulation"
)

// worldStore writes periodic snapshots and the ledger entries recorded since
// the previous write. It must be called from the goroutine that owns the world.
type worldStore struct {
	name      string
	snapshots *persistence.GormSnapshotRepository
	txs       *persistence.GormTransactionRepository
	ledgerPos int
	keep      int
}

func newWorldStore(db *gorm.DB, name string, ledgerPos, keep int) *worldStore {
	return &worldStore{
		name:      name,
		snapshots: persistence.NewGormSnapshotRepository(db),
		txs:       persistence.NewGormTransactionRepository(db),
		ledgerPos: ledgerPos,
		keep:      keep,
	}
}

func (s *worldStore) persist(ctx context.Context, w *simulation.World) error {
	logger := common.LoggerFromContext(ctx)

	pending := w.LedgerSince(s.ledgerPos)
	if err := s.txs.CreateBatch(ctx, s.name, pending); err != nil {
		return err
	}
	s.ledgerPos += len(pending)

	id, err := s.snapshots.Save(ctx, s.name, w.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to snapshot world %s: %w", s.name, err)
	}

	pruned := int64(0)
	if s.keep > 0 {
		pruned, err = s.snapshots.Prune(ctx, s.name, s.keep)
		if err != nil {
			return err
		}
	}

	logger.Log(common.LevelDebug, "World persisted", map[string]interface{}{
		"snapshot_id":     id,
		"transactions":    len(pending),
		"pruned":          pruned,
		"elapsed_seconds": w.ElapsedSeconds,
	})
	return nil
}
