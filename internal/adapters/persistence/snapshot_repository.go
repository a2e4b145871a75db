package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/npc-economy/internal/application/simulation"
)

// ErrSnapshotNotFound is returned when no snapshot matches a lookup
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotSummary describes a stored snapshot without its payload
type SnapshotSummary struct {
	ID             int
	Name           string
	ElapsedSeconds float64
	StationCount   int
	FleetCount     int
	CreatedAt      time.Time
}

// GormSnapshotRepository stores world snapshots as JSON payloads
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GORM snapshot repository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Save stores a snapshot under a world name and returns its id
func (r *GormSnapshotRepository) Save(ctx context.Context, name string, snap *simulation.Snapshot) (int, error) {
	if snap == nil {
		return 0, fmt.Errorf("snapshot is nil")
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	model := &WorldSnapshotModel{
		Name:           name,
		ElapsedSeconds: snap.ElapsedSeconds,
		StationCount:   len(snap.Stations),
		FleetCount:     len(snap.Fleets),
		Payload:        string(payload),
		CreatedAt:      time.Now().UTC(),
	}

	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", result.Error)
	}
	return model.ID, nil
}

// FindByID loads a snapshot by id
func (r *GormSnapshotRepository) FindByID(ctx context.Context, id int) (*simulation.Snapshot, error) {
	var model WorldSnapshotModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrSnapshotNotFound, id)
		}
		return nil, fmt.Errorf("failed to find snapshot: %w", result.Error)
	}
	return r.modelToSnapshot(&model)
}

// Latest loads the most recent snapshot of a world
func (r *GormSnapshotRepository) Latest(ctx context.Context, name string) (*simulation.Snapshot, error) {
	var model WorldSnapshotModel
	result := r.db.WithContext(ctx).
		Where("name = ?", name).
		Order("id DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: world %s", ErrSnapshotNotFound, name)
		}
		return nil, fmt.Errorf("failed to find latest snapshot: %w", result.Error)
	}
	return r.modelToSnapshot(&model)
}

// List returns snapshot summaries, newest first. An empty name lists all worlds.
func (r *GormSnapshotRepository) List(ctx context.Context, name string, limit int) ([]SnapshotSummary, error) {
	query := r.db.WithContext(ctx).
		Model(&WorldSnapshotModel{}).
		Select("id", "name", "elapsed_seconds", "station_count", "fleet_count", "created_at").
		Order("id DESC")
	if name != "" {
		query = query.Where("name = ?", name)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []WorldSnapshotModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", result.Error)
	}

	summaries := make([]SnapshotSummary, len(models))
	for i, m := range models {
		summaries[i] = SnapshotSummary{
			ID:             m.ID,
			Name:           m.Name,
			ElapsedSeconds: m.ElapsedSeconds,
			StationCount:   m.StationCount,
			FleetCount:     m.FleetCount,
			CreatedAt:      m.CreatedAt,
		}
	}
	return summaries, nil
}

// Prune deletes all but the newest keep snapshots of a world
func (r *GormSnapshotRepository) Prune(ctx context.Context, name string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	var ids []int
	result := r.db.WithContext(ctx).
		Model(&WorldSnapshotModel{}).
		Where("name = ?", name).
		Order("id DESC").
		Pluck("id", &ids)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to select snapshots to prune: %w", result.Error)
	}
	if len(ids) <= keep {
		return 0, nil
	}
	ids = ids[keep:]

	result = r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&WorldSnapshotModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormSnapshotRepository) modelToSnapshot(model *WorldSnapshotModel) (*simulation.Snapshot, error) {
	var snap simulation.Snapshot
	if err := json.Unmarshal([]byte(model.Payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %d: %w", model.ID, err)
	}
	return &snap, nil
}
