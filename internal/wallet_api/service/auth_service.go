package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pesawallet/wallet-ledger/internal/domain/account"
)

// authService implements the AuthService interface
type authService struct {
	logger      *slog.Logger
	accountRepo account.Repository
	tokens      *TokenIssuer
	currency    string
}

// NewAuthService creates a new authentication service instance
func NewAuthService(logger *slog.Logger, accountRepo account.Repository, tokens *TokenIssuer, currency string) AuthService {
	return &authService{
		logger:      logger,
		accountRepo: accountRepo,
		tokens:      tokens,
		currency:    currency,
	}
}

// Register creates a new wallet account and issues a session token.
// The phone number must not already be registered.
func (s *authService) Register(ctx context.Context, name string, phone string, pin string) (*account.Account, string, error) {
	existing, err := s.accountRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check phone availability: %w", err)
	}
	if existing != nil {
		return nil, "", account.ErrDuplicatePhone{Phone: phone}
	}

	acc, err := account.NewAccount(name, phone, pin, s.currency)
	if err != nil {
		return nil, "", err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		s.logger.Error("Failed to create account",
			"phone", phone,
			"error", err,
		)
		return nil, "", fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.tokens.Issue(acc.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("Account registered",
		"account_id", acc.ID.String(),
		"phone", acc.Phone,
	)
	return acc, token, nil
}

// Login verifies the phone/PIN pair and issues a session token.
// An unknown phone and a wrong PIN both return ErrInvalidCredentials,
// so callers cannot probe which phones are registered.
func (s *authService) Login(ctx context.Context, phone string, pin string) (*account.Account, string, error) {
	acc, err := s.accountRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}
	if acc == nil {
		return nil, "", account.ErrInvalidCredentials
	}

	if err := acc.VerifyPIN(pin); err != nil {
		s.logger.Warn("Login rejected", "phone", phone)
		return nil, "", err
	}

	token, err := s.tokens.Issue(acc.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("Account logged in", "account_id", acc.ID.String())
	return acc, token, nil
}

// GetAccountByID retrieves an account by ID
func (s *authService) GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}
