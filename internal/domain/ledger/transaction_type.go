package ledger

// TransactionType represents the type of credit movement
type TransactionType string

const (
	// TransactionTypeTradeSettled is the realised profit of a completed delivery
	TransactionTypeTradeSettled TransactionType = "TRADE_SETTLED"

	// TransactionTypeCreditAdjustment is a credit change ordered from outside the core
	TransactionTypeCreditAdjustment TransactionType = "CREDIT_ADJUSTMENT"
)

// String returns the string representation of the TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeTradeSettled, TransactionTypeCreditAdjustment:
		return true
	default:
		return false
	}
}

// ParseTransactionType converts a stored string into a TransactionType
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.IsValid() {
		return "", &ErrInvalidTransaction{
			Field:  "transaction_type",
			Reason: "unknown transaction type: " + s,
		}
	}
	return t, nil
}
