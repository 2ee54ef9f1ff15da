package ledger_relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pesawallet/wallet-ledger/internal/domain/ledger"
	"github.com/pesawallet/wallet-ledger/internal/domain/outbox"
	"github.com/pesawallet/wallet-ledger/internal/domain/shared"
	"github.com/pesawallet/wallet-ledger/internal/platform/messaging/producers"
)

// Publisher materializes a committed outbox message: it appends the
// transaction to the durable log and announces it on the event stream.
type Publisher interface {
	PublishTransaction(ctx context.Context, message *outbox.Message) error
}

// TransactionPublisher implements Publisher
type TransactionPublisher struct {
	outboxRepo    outbox.Repository
	ledgerRepo    ledger.Repository
	eventProducer producers.MessagePublisher
	logger        *slog.Logger
}

// NewTransactionPublisher creates a new publisher
func NewTransactionPublisher(
	outboxRepo outbox.Repository,
	ledgerRepo ledger.Repository,
	eventProducer producers.MessagePublisher,
	logger *slog.Logger,
) Publisher {
	return &TransactionPublisher{
		outboxRepo:    outboxRepo,
		ledgerRepo:    ledgerRepo,
		eventProducer: eventProducer,
		logger:        logger,
	}
}

// PublishTransaction processes one outbox message. Each step tolerates a
// replay of an earlier partial run, so a message can safely be retried
// after a crash between the log append and the status update.
func (p *TransactionPublisher) PublishTransaction(ctx context.Context, message *outbox.Message) error {
	txn, err := message.Transaction()
	if err != nil {
		p.logger.Error("Failed to unmarshal transaction from outbox payload",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		// A corrupt payload will never succeed, park it immediately
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if txn.CorrelationID != "" {
		logger = p.logger.With("correlation_id", txn.CorrelationID)
	}

	logger.Info("Publishing outbox message to transaction log", "outbox_id", message.ID, "transaction_id", message.TransactionID)

	if err := p.ledgerRepo.Append(ctx, txn); err != nil {
		if errors.Is(err, ledger.ErrDuplicateTransaction{}) {
			logger.Info("Transaction already present in log, continuing", "transaction_id", txn.ID)
		} else {
			logger.Error("Failed to append transaction to log", "transaction_id", txn.ID, "error", err)
			return fmt.Errorf("failed to append transaction %s to log: %w", txn.ID, err)
		}
	}

	if err := p.eventProducer.Publish(ctx, txn.ID.String(), txn); err != nil {
		logger.Error("Failed to publish transaction event", "transaction_id", txn.ID, "error", err)
		return fmt.Errorf("failed to publish event for transaction %s: %w", txn.ID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		return fmt.Errorf("log write for %s OK, but failed to mark outbox %d as PROCESSED: %w", message.TransactionID, message.ID, err)
	}

	logger.Info("Outbox message successfully processed and marked as PROCESSED", "outbox_id", message.ID, "transaction_id", message.TransactionID)
	return nil
}
