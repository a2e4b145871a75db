package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/npc-economy/internal/domain/ledger"
)

// TransactionQuery filters transaction lookups
type TransactionQuery struct {
	CorporationID   string
	FleetID         string
	TransactionType *ledger.TransactionType
	Since           *float64 // simulated seconds, inclusive
	Limit           int
	Offset          int
}

// GormTransactionRepository persists ledger transactions using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GORM transaction repository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create persists a new transaction
func (r *GormTransactionRepository) Create(ctx context.Context, worldName string, tx *ledger.Transaction) error {
	result := r.db.WithContext(ctx).Create(r.transactionToModel(worldName, tx))
	if result.Error != nil {
		return fmt.Errorf("failed to create transaction: %w", result.Error)
	}
	return nil
}

// CreateBatch persists several transactions in one database transaction
func (r *GormTransactionRepository) CreateBatch(ctx context.Context, worldName string, txs []*ledger.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	models := make([]*TransactionModel, len(txs))
	for i, tx := range txs {
		models[i] = r.transactionToModel(worldName, tx)
	}

	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return db.Create(&models).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create %d transactions: %w", len(txs), err)
	}
	return nil
}

// FindByID retrieves a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id ledger.TransactionID) (*ledger.Transaction, error) {
	var model TransactionModel
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &ledger.ErrTransactionNotFound{ID: id.String()}
		}
		return nil, fmt.Errorf("failed to find transaction: %w", result.Error)
	}

	return r.modelToTransaction(&model)
}

// Find retrieves the transactions of a world, newest first
func (r *GormTransactionRepository) Find(ctx context.Context, worldName string, q TransactionQuery) ([]*ledger.Transaction, error) {
	query := r.applyFilters(r.db.WithContext(ctx).Where("world_name = ?", worldName), q)
	query = query.Order("timestamp DESC").Order("recorded_at DESC")

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	var models []TransactionModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", result.Error)
	}

	transactions := make([]*ledger.Transaction, len(models))
	for i := range models {
		tx, err := r.modelToTransaction(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert transaction model: %w", err)
		}
		transactions[i] = tx
	}
	return transactions, nil
}

// SumAmount returns the total amount of the matching transactions
func (r *GormTransactionRepository) SumAmount(ctx context.Context, worldName string, q TransactionQuery) (int, error) {
	query := r.db.WithContext(ctx).Model(&TransactionModel{}).Where("world_name = ?", worldName)
	query = r.applyFilters(query, q)

	var total int64
	if result := query.Select("COALESCE(SUM(amount), 0)").Scan(&total); result.Error != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", result.Error)
	}
	return int(total), nil
}

// applyFilters applies query options to a GORM query
func (r *GormTransactionRepository) applyFilters(query *gorm.DB, q TransactionQuery) *gorm.DB {
	if q.CorporationID != "" {
		query = query.Where("corporation_id = ?", q.CorporationID)
	}
	if q.FleetID != "" {
		query = query.Where("fleet_id = ?", q.FleetID)
	}
	if q.TransactionType != nil {
		query = query.Where("transaction_type = ?", q.TransactionType.String())
	}
	if q.Since != nil {
		query = query.Where("timestamp >= ?", *q.Since)
	}
	return query
}

// modelToTransaction converts database model to domain entity
func (r *GormTransactionRepository) modelToTransaction(model *TransactionModel) (*ledger.Transaction, error) {
	id, err := ledger.NewTransactionIDFromString(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction ID in database: %w", err)
	}

	transactionType, err := ledger.ParseTransactionType(model.TransactionType)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction type in database: %w", err)
	}

	return ledger.ReconstructTransaction(id, ledger.Entry{
		Timestamp:     model.Timestamp,
		Type:          transactionType,
		CorporationID: model.CorporationID,
		FleetID:       model.FleetID,
		WareID:        model.WareID,
		Quantity:      model.Quantity,
		BuyPrice:      model.BuyPrice,
		SellPrice:     model.SellPrice,
		Amount:        model.Amount,
		BalanceBefore: model.BalanceBefore,
		Description:   model.Description,
	})
}

// transactionToModel converts domain entity to database model
func (r *GormTransactionRepository) transactionToModel(worldName string, tx *ledger.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:              tx.ID().String(),
		WorldName:       worldName,
		CorporationID:   tx.CorporationID(),
		FleetID:         tx.FleetID(),
		WareID:          tx.WareID(),
		Timestamp:       tx.Timestamp(),
		TransactionType: tx.TransactionType().String(),
		Quantity:        tx.Quantity(),
		BuyPrice:        tx.BuyPrice(),
		SellPrice:       tx.SellPrice(),
		Amount:          tx.Amount(),
		BalanceBefore:   tx.BalanceBefore(),
		BalanceAfter:    tx.BalanceAfter(),
		Description:     tx.Description(),
		RecordedAt:      time.Now().UTC(),
	}
}
