package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pesawallet/wallet-ledger/internal/domain/account"
	"github.com/pesawallet/wallet-ledger/internal/domain/ledger"
)

// TxBeginner starts database transactions. Satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Ensure interfaces are satisfied (compile-time check)
var _ TxBeginner = (*pgxpool.Pool)(nil)

// AuthService defines the interface for registration and login
type AuthService interface {
	// Register creates a new wallet account keyed by phone and returns it
	// together with a session token.
	// Returns ErrDuplicatePhone if an account with the phone exists.
	Register(ctx context.Context, name string, phone string, pin string) (*account.Account, string, error)

	// Login verifies the phone/PIN pair and returns the account with a
	// fresh session token.
	// Returns account.ErrInvalidCredentials on any mismatch.
	Login(ctx context.Context, phone string, pin string) (*account.Account, string, error)

	// GetAccountByID retrieves an account by its ID
	// Returns ErrAccountNotFound if the account doesn't exist
	GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// OperationResult is the outcome of a successful balance-affecting operation
type OperationResult struct {
	Message     string
	Transaction *ledger.Transaction
}

// LedgerService is the single authority for validating and executing
// balance-affecting operations. Every operation either applies fully
// (balances and transaction record committed together) or not at all.
type LedgerService interface {
	// Transfer moves amount from the sender to the account addressed by
	// toPhone. Preconditions are checked in order: recipient exists,
	// recipient is not the sender, amount is positive, sender can cover it.
	Transfer(ctx context.Context, fromAccountID uuid.UUID, toPhone string, amount int64) (*OperationResult, error)

	// Deposit credits amount from outside the ledger
	Deposit(ctx context.Context, accountID uuid.UUID, amount int64) (*OperationResult, error)

	// Withdraw debits amount out of the ledger
	Withdraw(ctx context.Context, accountID uuid.UUID, amount int64) (*OperationResult, error)

	// AccountHistory retrieves paginated transactions the account took part
	// in, newest-first. Returns records, total count, and any error.
	AccountHistory(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error)
}
