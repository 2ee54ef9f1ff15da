package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages the append-only transaction log with pagination support.
// Entries are never mutated or deleted once appended.
type Repository interface {
	Append(ctx context.Context, txn *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// QueryByParticipant returns transactions where the account appears as
	// either sender or recipient, newest-first.
	QueryByParticipant(ctx context.Context, accountID string, limit, offset int) ([]*Transaction, error)
	CountByParticipant(ctx context.Context, accountID string) (int64, error)
}

// ErrTransactionNotFound indicates a missing transaction record
type ErrTransactionNotFound struct {
	ID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	// An empty target ID matches any ErrTransactionNotFound
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}

// ErrDuplicateTransaction indicates transaction uniqueness violation
type ErrDuplicateTransaction struct {
	ID uuid.UUID
}

func (e ErrDuplicateTransaction) Error() string {
	return "duplicate transaction: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrDuplicateTransaction
func (e ErrDuplicateTransaction) Is(target error) bool {
	t, ok := target.(ErrDuplicateTransaction)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
