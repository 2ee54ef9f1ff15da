package ledger_relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/pesawallet/wallet-ledger/internal/config"
	"github.com/pesawallet/wallet-ledger/internal/domain/outbox"
	"github.com/pesawallet/wallet-ledger/internal/domain/shared"
)

// Poller drains pending outbox messages on a fixed interval, dispatching
// each batch across a bounded worker pool
type Poller struct {
	outboxRepo       outbox.Repository
	publisher        Publisher
	pool             *ants.Pool
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	outboxCfg *config.OutboxConfig,
	relayCfg *config.RelayConfig,
	outboxRepo outbox.Repository,
	publisher Publisher,
	logger *slog.Logger,
) (*Poller, error) {
	pool, err := ants.NewPool(relayCfg.WorkerPoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create relay worker pool: %w", err)
	}

	return &Poller{
		outboxRepo:       outboxRepo,
		publisher:        publisher,
		pool:             pool,
		logger:           logger,
		pollInterval:     outboxCfg.PollingInterval,
		batchSize:        outboxCfg.BatchSize,
		maxRetryAttempts: outboxCfg.MaxRetryAttempts,
	}, nil
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting outbox poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
		"worker_pool_size", p.pool.Cap(),
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox poller stopping due to context cancellation")
			return
		case <-ticker.C:
			p.logger.Debug("Outbox poller tick: processing pending messages")
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Error during batch processing of pending outbox messages", "error", err)
			}
		}
	}
}

// Shutdown releases the worker pool
func (p *Poller) Shutdown() {
	p.logger.Info("Shutting down outbox poller worker pool", "running_workers", p.pool.Running())
	p.pool.Release()
}

// processPendingMessages fetches one batch and fans it out over the pool,
// waiting for the whole batch before the next tick can overlap with it
func (p *Poller) processPendingMessages(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}

	if len(messages) == 0 {
		p.logger.Debug("No pending outbox messages found")
		return nil
	}

	p.logger.Info("Fetched pending outbox messages", "count", len(messages))

	var wg sync.WaitGroup
	for _, msg := range messages {
		msg := msg
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			p.processMessage(ctx, msg)
		})
		if submitErr != nil {
			wg.Done()
			p.logger.Error("Failed to submit outbox message to worker pool", "outbox_id", msg.ID, "error", submitErr)
		}
	}
	wg.Wait()

	return nil
}

func (p *Poller) processMessage(ctx context.Context, msg *outbox.Message) {
	err := p.publisher.PublishTransaction(ctx, msg)
	if err == nil {
		return
	}

	p.logger.Error("Failed to publish outbox message",
		"outbox_id", msg.ID, "transaction_id", msg.TransactionID, "current_attempts", msg.Attempts, "error", err,
	)

	if errInc := p.outboxRepo.IncrementAttempts(ctx, msg.ID); errInc != nil {
		p.logger.Error("Failed to increment attempts for outbox message", "outbox_id", msg.ID, "error", errInc)
		return
	}

	if msg.Attempts+1 >= p.maxRetryAttempts {
		p.logger.Warn("Max retry attempts reached for outbox message, marking as FAILED_TO_PUBLISH",
			"outbox_id", msg.ID, "transaction_id", msg.TransactionID, "attempts_made", msg.Attempts+1,
		)
		if errUpdate := p.outboxRepo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusFailedToPublish); errUpdate != nil {
			p.logger.Error("Failed to update outbox status to FAILED_TO_PUBLISH after max retries", "outbox_id", msg.ID, "error", errUpdate)
		}
	}
}
