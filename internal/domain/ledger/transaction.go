package ledger

import (
	"fmt"
)

// Transaction is an immutable record of a credit movement for a corporation
// (or an unowned fleet). Timestamps are simulated seconds since world start.
type Transaction struct {
	id              TransactionID
	timestamp       float64
	transactionType TransactionType
	corporationID   string
	fleetID         string
	wareID          string
	quantity        int
	buyPrice        int
	sellPrice       int
	amount          int // positive for income, negative for expenses
	balanceBefore   int
	balanceAfter    int
	description     string
}

// Entry groups the inputs of NewTransaction
type Entry struct {
	Timestamp     float64
	Type          TransactionType
	CorporationID string
	FleetID       string
	WareID        string
	Quantity      int
	BuyPrice      int
	SellPrice     int
	Amount        int
	BalanceBefore int
	Description   string
}

// NewTransaction creates a transaction with a fresh id and validates it
func NewTransaction(e Entry) (*Transaction, error) {
	return build(NewTransactionID(), e)
}

// ReconstructTransaction rebuilds a persisted transaction under its stored id
func ReconstructTransaction(id TransactionID, e Entry) (*Transaction, error) {
	return build(id, e)
}

func build(id TransactionID, e Entry) (*Transaction, error) {
	if !e.Type.IsValid() {
		return nil, &ErrInvalidTransaction{
			Field:  "transaction_type",
			Reason: fmt.Sprintf("invalid transaction type: %s", e.Type),
		}
	}
	if e.CorporationID == "" && e.FleetID == "" {
		return nil, &ErrInvalidTransaction{
			Field:  "owner",
			Reason: "corporation_id or fleet_id required",
		}
	}

	t := &Transaction{
		id:              id,
		timestamp:       e.Timestamp,
		transactionType: e.Type,
		corporationID:   e.CorporationID,
		fleetID:         e.FleetID,
		wareID:          e.WareID,
		quantity:        e.Quantity,
		buyPrice:        e.BuyPrice,
		sellPrice:       e.SellPrice,
		amount:          e.Amount,
		balanceBefore:   e.BalanceBefore,
		balanceAfter:    e.BalanceBefore + e.Amount,
		description:     e.Description,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that the transaction satisfies all invariants
func (t *Transaction) Validate() error {
	if t.amount == 0 {
		return &ErrInvalidTransaction{
			Field:  "amount",
			Reason: "amount cannot be zero",
		}
	}

	// Balance invariant: balance_after must equal balance_before + amount
	expected := t.balanceBefore + t.amount
	if t.balanceAfter != expected {
		return &ErrBalanceInvariantViolation{
			BalanceBefore: t.balanceBefore,
			Amount:        t.amount,
			BalanceAfter:  t.balanceAfter,
			Expected:      expected,
		}
	}

	if t.timestamp < 0 {
		return &ErrInvalidTransaction{
			Field:  "timestamp",
			Reason: fmt.Sprintf("timestamp cannot be negative: %.2f", t.timestamp),
		}
	}

	return nil
}

// Getters (all fields are immutable)

func (t *Transaction) ID() TransactionID                { return t.id }
func (t *Transaction) Timestamp() float64               { return t.timestamp }
func (t *Transaction) TransactionType() TransactionType { return t.transactionType }
func (t *Transaction) CorporationID() string            { return t.corporationID }
func (t *Transaction) FleetID() string                  { return t.fleetID }
func (t *Transaction) WareID() string                   { return t.wareID }
func (t *Transaction) Quantity() int                    { return t.quantity }
func (t *Transaction) BuyPrice() int                    { return t.buyPrice }
func (t *Transaction) SellPrice() int                   { return t.sellPrice }
func (t *Transaction) Amount() int                      { return t.amount }
func (t *Transaction) BalanceBefore() int               { return t.balanceBefore }
func (t *Transaction) BalanceAfter() int                { return t.balanceAfter }
func (t *Transaction) Description() string              { return t.description }

// Entry returns the inputs needed to rebuild this transaction
func (t *Transaction) Entry() Entry {
	return Entry{
		Timestamp:     t.timestamp,
		Type:          t.transactionType,
		CorporationID: t.corporationID,
		FleetID:       t.fleetID,
		WareID:        t.wareID,
		Quantity:      t.quantity,
		BuyPrice:      t.buyPrice,
		SellPrice:     t.sellPrice,
		Amount:        t.amount,
		BalanceBefore: t.balanceBefore,
		Description:   t.description,
	}
}

func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{%s %s amount=%d balance=%d->%d}",
		t.id, t.transactionType, t.amount, t.balanceBefore, t.balanceAfter)
}
