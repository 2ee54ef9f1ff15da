package handler

// RegisterRequest represents a request to register a new wallet account
type RegisterRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	PIN   string `json:"pin" binding:"required"`
}

// LoginRequest represents a login attempt with phone and PIN
type LoginRequest struct {
	Phone string `json:"phone" binding:"required"`
	PIN   string `json:"pin" binding:"required"`
}

// TransferRequest represents a request to send money to another wallet.
// Amount is in minor units (cents) and is validated by the ledger engine
// so a bad amount gets a typed failure code rather than a binding error.
type TransferRequest struct {
	ToPhone string `json:"to_phone" binding:"required"`
	Amount  int64  `json:"amount"`
}

// DepositRequest represents a request to add money from outside the ledger
type DepositRequest struct {
	Amount int64 `json:"amount"`
}

// WithdrawRequest represents a request to take money out of the ledger
type WithdrawRequest struct {
	Amount int64 `json:"amount"`
}

// AccountResponse represents a wallet account in API responses
type AccountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Balance   int64  `json:"balance"`
	Currency  string `json:"currency"`
	CreatedAt string `json:"created_at"`
}

// SessionResponse represents a registered or logged-in account with its token
type SessionResponse struct {
	Account AccountResponse `json:"account"`
	Token   string          `json:"token"`
}

// BalanceResponse represents the authenticated account's current balance
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	Currency  string `json:"currency"`
}

// TransactionResponse represents a ledger transaction in API responses.
// SignedAmount is computed for the viewing account: negative when money
// left the viewer's wallet.
type TransactionResponse struct {
	ID            string `json:"id"`
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	FromPhone     string `json:"from_phone,omitempty"`
	ToPhone       string `json:"to_phone,omitempty"`
	Amount        int64  `json:"amount"`
	SignedAmount  int64  `json:"signed_amount"`
	Currency      string `json:"currency"`
	Kind          string `json:"kind"`
	Status        string `json:"status"`
	Description   string `json:"description,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// OperationResponse represents the outcome of a balance-affecting operation
type OperationResponse struct {
	Message     string              `json:"message"`
	Transaction TransactionResponse `json:"transaction"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}
