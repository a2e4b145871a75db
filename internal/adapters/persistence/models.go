package persistence

import (
	"time"
)

// WorldSnapshotModel represents the world_snapshots table
type WorldSnapshotModel struct {
	ID             int       `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string    `gorm:"column:name;not null;index"`
	ElapsedSeconds float64   `gorm:"column:elapsed_seconds;not null"`
	StationCount   int       `gorm:"column:station_count;not null;default:0"`
	FleetCount     int       `gorm:"column:fleet_count;not null;default:0"`
	Payload        string    `gorm:"column:payload;type:text;not null"` // JSON snapshot as text
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
}

func (WorldSnapshotModel) TableName() string {
	return "world_snapshots"
}

// TransactionModel represents the transactions table (settled trades and
// credit adjustments)
type TransactionModel struct {
	ID              string    `gorm:"column:id;primaryKey;not null"`
	WorldName       string    `gorm:"column:world_name;not null;index:idx_tx_world_corp"`
	CorporationID   string    `gorm:"column:corporation_id;index:idx_tx_world_corp"`
	FleetID         string    `gorm:"column:fleet_id;index"`
	WareID          string    `gorm:"column:ware_id"`
	Timestamp       float64   `gorm:"column:timestamp;not null"` // simulated seconds
	TransactionType string    `gorm:"column:transaction_type;not null"`
	Quantity        int       `gorm:"column:quantity;not null;default:0"`
	BuyPrice        int       `gorm:"column:buy_price;not null;default:0"`
	SellPrice       int       `gorm:"column:sell_price;not null;default:0"`
	Amount          int       `gorm:"column:amount;not null"`
	BalanceBefore   int       `gorm:"column:balance_before;not null"`
	BalanceAfter    int       `gorm:"column:balance_after;not null"`
	Description     string    `gorm:"column:description"`
	RecordedAt      time.Time `gorm:"column:recorded_at;not null"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}
