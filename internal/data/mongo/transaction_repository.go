package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pesawallet/wallet-ledger/internal/domain/ledger"
)

const (
	// TransactionCollectionName is the name of the transaction log collection in MongoDB
	TransactionCollectionName = "wallet_transactions"
)

// TransactionRepository implements the ledger.Repository interface for MongoDB
type TransactionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransactionRepository creates a new MongoDB transaction log repository
func NewTransactionRepository(logger *slog.Logger, db *mongo.Database) ledger.Repository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Append stores a new transaction after checking for duplicates.
// Returns ErrDuplicateTransaction if a record with the same ID exists,
// which makes relay replays safe.
func (r *TransactionRepository) Append(ctx context.Context, txn *ledger.Transaction) error {
	collection := r.db.Collection(TransactionCollectionName)

	existing, err := r.GetByID(ctx, txn.ID)
	if err != nil && !errors.Is(err, ledger.ErrTransactionNotFound{}) {
		r.logger.Error("Failed to check for existing transaction",
			"transaction_id", txn.ID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing transaction: %w", err)
	}

	if existing != nil {
		return ledger.ErrDuplicateTransaction{ID: txn.ID}
	}

	_, err = collection.InsertOne(ctx, txn)
	if err != nil {
		r.logger.Error("Failed to append transaction",
			"transaction_id", txn.ID.String(),
			"error", err)
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by its ID.
// Returns ErrTransactionNotFound if no record exists.
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"transaction_id": id}
	var txn ledger.Transaction
	err := collection.FindOne(ctx, filter).Decode(&txn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ledger.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction",
			"transaction_id", id.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &txn, nil
}

// QueryByParticipant retrieves paginated transactions where the account is
// either the sender or the recipient, newest-first.
func (r *TransactionRepository) QueryByParticipant(ctx context.Context, accountID string, limit, offset int) ([]*ledger.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := participantFilter(accountID)
	opts := options.Find().
		SetSort(bson.M{"timestamp": -1}). // Sort by timestamp in descending order
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to query transactions",
			"account_id", accountID,
			"error", err)
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txns []*ledger.Transaction
	if err := cursor.All(ctx, &txns); err != nil {
		r.logger.Error("Failed to decode transactions",
			"account_id", accountID,
			"error", err)
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	return txns, nil
}

// CountByParticipant counts the transactions the account took part in
func (r *TransactionRepository) CountByParticipant(ctx context.Context, accountID string) (int64, error) {
	collection := r.db.Collection(TransactionCollectionName)

	count, err := collection.CountDocuments(ctx, participantFilter(accountID))
	if err != nil {
		r.logger.Error("Failed to count transactions",
			"account_id", accountID,
			"error", err)
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}

// participantFilter matches records where the account is sender or recipient
func participantFilter(accountID string) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"from_account_id": accountID},
			bson.M{"to_account_id": accountID},
		},
	}
}
