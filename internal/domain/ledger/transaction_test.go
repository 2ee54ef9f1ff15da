package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pesawallet/wallet-ledger/internal/domain/shared"
)

func TestTransaction_SignedAmount(t *testing.T) {
	sender := uuid.New().String()
	recipient := uuid.New().String()

	t.Run("SendIsNegativeForSender", func(t *testing.T) {
		txn := &Transaction{
			ID:            uuid.New(),
			FromAccountID: sender,
			ToAccountID:   recipient,
			Amount:        4050,
			Kind:          shared.TransactionKindSend,
			Timestamp:     time.Now(),
		}
		assert.Equal(t, int64(-4050), txn.SignedAmount(sender))
	})

	t.Run("SendIsPositiveForRecipient", func(t *testing.T) {
		txn := &Transaction{
			FromAccountID: sender,
			ToAccountID:   recipient,
			Amount:        4050,
			Kind:          shared.TransactionKindSend,
		}
		assert.Equal(t, int64(4050), txn.SignedAmount(recipient))
	})

	t.Run("DepositIsPositive", func(t *testing.T) {
		txn := &Transaction{
			FromAccountID: shared.SystemParticipant,
			ToAccountID:   recipient,
			Amount:        10000,
			Kind:          shared.TransactionKindDeposit,
		}
		assert.Equal(t, int64(10000), txn.SignedAmount(recipient))
	})

	t.Run("WithdrawIsNegative", func(t *testing.T) {
		txn := &Transaction{
			FromAccountID: sender,
			ToAccountID:   shared.SystemParticipant,
			Amount:        2500,
			Kind:          shared.TransactionKindWithdraw,
		}
		assert.Equal(t, int64(-2500), txn.SignedAmount(sender))
	})
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$40.50", FormatAmount(4050))
	assert.Equal(t, "$0.05", FormatAmount(5))
	assert.Equal(t, "$100.00", FormatAmount(10000))
	assert.Equal(t, "$0.00", FormatAmount(0))
	assert.Equal(t, "-$12.34", FormatAmount(-1234))
}

func TestErrTransactionNotFound_Is(t *testing.T) {
	id := uuid.New()
	err := ErrTransactionNotFound{ID: id}

	assert.ErrorIs(t, err, ErrTransactionNotFound{}, "Zero target should match any ID")
	assert.ErrorIs(t, err, ErrTransactionNotFound{ID: id})
	assert.NotErrorIs(t, err, ErrTransactionNotFound{ID: uuid.New()})
}

func TestErrDuplicateTransaction_Is(t *testing.T) {
	id := uuid.New()
	err := ErrDuplicateTransaction{ID: id}

	assert.ErrorIs(t, err, ErrDuplicateTransaction{})
	assert.ErrorIs(t, err, ErrDuplicateTransaction{ID: id})
	assert.NotErrorIs(t, err, ErrDuplicateTransaction{ID: uuid.New()})
}
