package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// TransactionID is a value object representing a transaction's unique identifier
type TransactionID struct {
	value string
}

// NewTransactionID creates a new TransactionID with a generated UUID
func NewTransactionID() TransactionID {
	return TransactionID{value: uuid.New().String()}
}

// NewTransactionIDFromString creates a TransactionID from an existing UUID string
func NewTransactionIDFromString(id string) (TransactionID, error) {
	if id == "" {
		return TransactionID{}, fmt.Errorf("transaction_id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction_id format: %w", err)
	}
	return TransactionID{value: id}, nil
}

// String returns the string value of the TransactionID
func (t TransactionID) String() string {
	return t.value
}

// IsZero checks if the TransactionID is the zero value (uninitialized)
func (t TransactionID) IsZero() bool {
	return t.value == ""
}
