package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Common errors
var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrEmptyName             = errors.New("holder name cannot be empty")
	ErrEmptyPhone            = errors.New("phone number cannot be empty")
	ErrPINTooShort           = errors.New("PIN must be at least 4 characters")
	ErrInvalidCredentials    = errors.New("invalid phone or PIN")
	ErrInvalidCurrencyFormat = errors.New("currency must be a 3-letter code")
)

const minPINLength = 4

// Account represents a registered wallet. The phone number is the key
// counterparties use to address it.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	PINHash   string    `json:"-"` // bcrypt hash, never the raw PIN
	Balance   int64     `json:"balance"` // Stored in cents/minor units
	Currency  string    `json:"currency"`
	Version   int       `json:"version"` // For optimistic locking
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccount creates a new wallet account with a zero balance.
// The PIN is stored only as a bcrypt hash.
func NewAccount(name string, phone string, pin string, currency string) (*Account, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if phone == "" {
		return nil, ErrEmptyPhone
	}
	if len(pin) < minPINLength {
		return nil, ErrPINTooShort
	}
	if len(currency) != 3 { // Basic validation for currency code length
		return nil, ErrInvalidCurrencyFormat
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Account{
		ID:        uuid.New(),
		Name:      name,
		Phone:     phone,
		PINHash:   string(hash),
		Balance:   0,
		Currency:  currency,
		Version:   1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// VerifyPIN compares the candidate PIN against the stored hash.
// bcrypt's comparison is constant-time on the digest.
func (a *Account) VerifyPIN(pin string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(a.PINHash), []byte(pin)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Credit adds the specified amount to the account balance
func (a *Account) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	a.Balance += amount
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

// Debit subtracts the specified amount from the account balance.
// The balance never goes negative.
func (a *Account) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if a.Balance < amount {
		return ErrInsufficientBalance
	}

	a.Balance -= amount
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

// CanDebit checks if the account has sufficient funds for a debit
func (a *Account) CanDebit(amount int64) bool {
	return a.Balance >= amount
}
