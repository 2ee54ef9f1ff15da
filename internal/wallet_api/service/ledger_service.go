package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pesawallet/wallet-ledger/internal/domain/account"
	"github.com/pesawallet/wallet-ledger/internal/domain/ledger"
	"github.com/pesawallet/wallet-ledger/internal/domain/outbox"
	"github.com/pesawallet/wallet-ledger/internal/domain/shared"
)

// ledgerService implements the LedgerService interface. Every
// balance-affecting operation runs inside a single database transaction:
// the row locks, the balance updates, and the outbox record commit or roll
// back together.
type ledgerService struct {
	logger      *slog.Logger
	db          TxBeginner
	accountRepo account.Repository
	ledgerRepo  ledger.Repository
	outboxRepo  outbox.Repository
}

// NewLedgerService creates a new ledger service instance
func NewLedgerService(
	logger *slog.Logger,
	db TxBeginner,
	accountRepo account.Repository,
	ledgerRepo ledger.Repository,
	outboxRepo outbox.Repository,
) LedgerService {
	return &ledgerService{
		logger:      logger,
		db:          db,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		outboxRepo:  outboxRepo,
	}
}

// Transfer moves amount from the authenticated sender to the account
// addressed by toPhone. Preconditions are evaluated in a fixed order so a
// request failing several checks always reports the same failure: recipient
// existence, self-transfer, amount, then balance.
func (s *ledgerService) Transfer(ctx context.Context, fromAccountID uuid.UUID, toPhone string, amount int64) (*OperationResult, error) {
	recipient, err := s.accountRepo.GetByPhone(ctx, toPhone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up recipient: %w", err)
	}
	if recipient == nil {
		return nil, ledger.ErrRecipientNotFound
	}
	if recipient.ID == fromAccountID {
		return nil, ledger.ErrSelfTransferRejected
	}
	if amount <= 0 {
		return nil, account.ErrInvalidAmount
	}

	var txn *ledger.Transaction
	err = s.executeTx(ctx, func(tx pgx.Tx) error {
		accountRepo := s.accountRepo.WithTx(tx)

		// Lock both rows in a fixed ID order so two opposing transfers
		// cannot deadlock on each other.
		first, second := fromAccountID, recipient.ID
		if second.String() < first.String() {
			first, second = second, first
		}
		if _, err := accountRepo.LockForUpdate(ctx, first); err != nil {
			return err
		}
		if _, err := accountRepo.LockForUpdate(ctx, second); err != nil {
			return err
		}

		sender, err := accountRepo.GetByID(ctx, fromAccountID)
		if err != nil {
			return err
		}
		receiver, err := accountRepo.GetByID(ctx, recipient.ID)
		if err != nil {
			return err
		}

		if err := sender.Debit(amount); err != nil {
			return err
		}
		if err := receiver.Credit(amount); err != nil {
			return err
		}

		if err := accountRepo.Update(ctx, sender); err != nil {
			return err
		}
		if err := accountRepo.Update(ctx, receiver); err != nil {
			return err
		}

		txn = &ledger.Transaction{
			ID:            uuid.New(),
			FromAccountID: sender.ID.String(),
			ToAccountID:   receiver.ID.String(),
			FromPhone:     sender.Phone,
			ToPhone:       receiver.Phone,
			Amount:        amount,
			Currency:      sender.Currency,
			Kind:          shared.TransactionKindSend,
			Status:        shared.TransactionStatusCompleted,
			Description:   fmt.Sprintf("Sent to %s", receiver.Name),
			CorrelationID: shared.CorrelationIDFromContext(ctx),
			Timestamp:     time.Now(),
		}
		return s.appendToOutbox(ctx, tx, txn)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transfer completed",
		"transaction_id", txn.ID.String(),
		"from_account_id", txn.FromAccountID,
		"to_account_id", txn.ToAccountID,
		"amount", amount,
	)

	return &OperationResult{
		Message:     fmt.Sprintf("Successfully sent %s to %s", ledger.FormatAmount(amount), recipient.Name),
		Transaction: txn,
	}, nil
}

// Deposit credits amount into the account from outside the ledger
func (s *ledgerService) Deposit(ctx context.Context, accountID uuid.UUID, amount int64) (*OperationResult, error) {
	if amount <= 0 {
		return nil, account.ErrInvalidAmount
	}

	var txn *ledger.Transaction
	err := s.executeTx(ctx, func(tx pgx.Tx) error {
		accountRepo := s.accountRepo.WithTx(tx)

		acc, err := accountRepo.LockForUpdate(ctx, accountID)
		if err != nil {
			return err
		}

		if err := acc.Credit(amount); err != nil {
			return err
		}
		if err := accountRepo.Update(ctx, acc); err != nil {
			return err
		}

		txn = &ledger.Transaction{
			ID:            uuid.New(),
			FromAccountID: shared.SystemParticipant,
			ToAccountID:   acc.ID.String(),
			ToPhone:       acc.Phone,
			Amount:        amount,
			Currency:      acc.Currency,
			Kind:          shared.TransactionKindDeposit,
			Status:        shared.TransactionStatusCompleted,
			Description:   "Wallet deposit",
			CorrelationID: shared.CorrelationIDFromContext(ctx),
			Timestamp:     time.Now(),
		}
		return s.appendToOutbox(ctx, tx, txn)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deposit completed",
		"transaction_id", txn.ID.String(),
		"account_id", txn.ToAccountID,
		"amount", amount,
	)

	return &OperationResult{
		Message:     fmt.Sprintf("Successfully deposited %s", ledger.FormatAmount(amount)),
		Transaction: txn,
	}, nil
}

// Withdraw debits amount out of the account. The balance never goes negative.
func (s *ledgerService) Withdraw(ctx context.Context, accountID uuid.UUID, amount int64) (*OperationResult, error) {
	if amount <= 0 {
		return nil, account.ErrInvalidAmount
	}

	var txn *ledger.Transaction
	err := s.executeTx(ctx, func(tx pgx.Tx) error {
		accountRepo := s.accountRepo.WithTx(tx)

		acc, err := accountRepo.LockForUpdate(ctx, accountID)
		if err != nil {
			return err
		}

		if err := acc.Debit(amount); err != nil {
			return err
		}
		if err := accountRepo.Update(ctx, acc); err != nil {
			return err
		}

		txn = &ledger.Transaction{
			ID:            uuid.New(),
			FromAccountID: acc.ID.String(),
			ToAccountID:   shared.SystemParticipant,
			FromPhone:     acc.Phone,
			Amount:        amount,
			Currency:      acc.Currency,
			Kind:          shared.TransactionKindWithdraw,
			Status:        shared.TransactionStatusCompleted,
			Description:   "Cash withdrawal",
			CorrelationID: shared.CorrelationIDFromContext(ctx),
			Timestamp:     time.Now(),
		}
		return s.appendToOutbox(ctx, tx, txn)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Withdrawal completed",
		"transaction_id", txn.ID.String(),
		"account_id", txn.FromAccountID,
		"amount", amount,
	)

	return &OperationResult{
		Message:     fmt.Sprintf("%s withdrawn from your wallet", ledger.FormatAmount(amount)),
		Transaction: txn,
	}, nil
}

// AccountHistory retrieves the account's transactions from the log,
// newest-first, with the total count for pagination.
func (s *ledgerService) AccountHistory(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	participant := accountID.String()
	txns, err := s.ledgerRepo.QueryByParticipant(ctx, participant, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transaction history: %w", err)
	}

	total, err := s.ledgerRepo.CountByParticipant(ctx, participant)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transaction history: %w", err)
	}

	return txns, total, nil
}

// appendToOutbox writes the transaction record to the outbox inside the
// caller's database transaction
func (s *ledgerService) appendToOutbox(ctx context.Context, tx pgx.Tx, txn *ledger.Transaction) error {
	msg, err := outbox.NewMessage(txn)
	if err != nil {
		return fmt.Errorf("failed to build outbox message: %w", err)
	}
	return s.outboxRepo.WithTx(tx).Create(ctx, msg)
}

// executeTx runs fn inside a database transaction, rolling back on error or panic
func (s *ledgerService) executeTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
			s.logger.Error("Failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
