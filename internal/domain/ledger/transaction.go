package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pesawallet/wallet-ledger/internal/domain/shared"
)

// Validation failures surfaced by the ledger engine before any mutation.
var (
	ErrRecipientNotFound    = errors.New("recipient not found")
	ErrSelfTransferRejected = errors.New("cannot send money to yourself")
)

// Transaction is one immutable, append-only record of a balance-affecting
// event. FromAccountID/ToAccountID hold either an account ID or the
// shared.SystemParticipant sentinel. The phone fields are snapshots taken
// at transaction time, kept for historical display even if an account
// later changes its phone.
type Transaction struct {
	ID            uuid.UUID                `json:"id" bson:"transaction_id"`
	FromAccountID string                   `json:"from_account_id" bson:"from_account_id"`
	ToAccountID   string                   `json:"to_account_id" bson:"to_account_id"`
	FromPhone     string                   `json:"from_phone" bson:"from_phone"`
	ToPhone       string                   `json:"to_phone" bson:"to_phone"`
	Amount        int64                    `json:"amount" bson:"amount"` // Stored in cents/minor units, always unsigned
	Currency      string                   `json:"currency" bson:"currency"`
	Kind          shared.TransactionKind   `json:"kind" bson:"kind"`
	Status        shared.TransactionStatus `json:"status" bson:"status"`
	Description   string                   `json:"description,omitempty" bson:"description,omitempty"`
	CorrelationID string                   `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Timestamp     time.Time                `json:"timestamp" bson:"timestamp"`
}

// SignedAmount derives the display amount for a viewing account: negative
// when money left the viewer's wallet, positive otherwise. The sign is
// computed at presentation time and never persisted.
func (t *Transaction) SignedAmount(viewerAccountID string) int64 {
	if t.Kind == shared.TransactionKindWithdraw {
		return -t.Amount
	}
	if t.Kind == shared.TransactionKindSend && t.FromAccountID == viewerAccountID {
		return -t.Amount
	}
	return t.Amount
}

// FormatAmount renders a minor-unit amount as a display string, e.g. 4050 -> "$40.50".
func FormatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s$%d.%02d", sign, amount/100, amount%100)
}
