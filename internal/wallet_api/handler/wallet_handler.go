package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pesawallet/wallet-ledger/internal/domain/account"
	"github.com/pesawallet/wallet-ledger/internal/domain/ledger"
	"github.com/pesawallet/wallet-ledger/internal/wallet_api/middleware"
	"github.com/pesawallet/wallet-ledger/internal/wallet_api/service"
)

// WalletHandler handles HTTP requests for balance-affecting operations and
// transaction history. All routes require an authenticated account.
type WalletHandler struct {
	authService   service.AuthService
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(logger *slog.Logger, authService service.AuthService, ledgerService service.LedgerService) *WalletHandler {
	return &WalletHandler{
		authService:   authService,
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Balance returns the authenticated account's current balance
func (h *WalletHandler) Balance(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	acc, err := h.authService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		var accNotFound account.ErrAccountNotFound
		if errors.As(err, &accNotFound) {
			RespondNotFound(c, "ACCOUNT_NOT_FOUND", "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "account_id", accountID.String(), "error", err)
		h.respondOperationError(c, err)
		return
	}

	RespondOK(c, BalanceResponse{
		AccountID: acc.ID.String(),
		Balance:   acc.Balance,
		Currency:  acc.Currency,
	})
}

// Transfer sends money from the authenticated account to the wallet
// addressed by phone number
func (h *WalletHandler) Transfer(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.ledgerService.Transfer(c.Request.Context(), accountID, req.ToPhone, req.Amount)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondCreated(c, mapOperationToResponse(result, accountID.String()))
}

// Deposit adds money to the authenticated account from outside the ledger
func (h *WalletHandler) Deposit(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.ledgerService.Deposit(c.Request.Context(), accountID, req.Amount)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondCreated(c, mapOperationToResponse(result, accountID.String()))
}

// Withdraw takes money out of the authenticated account
func (h *WalletHandler) Withdraw(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.ledgerService.Withdraw(c.Request.Context(), accountID, req.Amount)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}

	RespondCreated(c, mapOperationToResponse(result, accountID.String()))
}

// History returns the authenticated account's transactions, newest-first
func (h *WalletHandler) History(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	txns, total, err := h.ledgerService.AccountHistory(c.Request.Context(), accountID, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to get transaction history", "account_id", accountID.String(), "error", err)
		h.respondOperationError(c, err)
		return
	}

	viewer := accountID.String()
	responses := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		responses = append(responses, mapTransactionToResponse(txn, viewer))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}

// respondOperationError maps ledger engine failures to their HTTP
// representation. Validation failures keep their typed codes so clients can
// react to them without parsing messages.
func (h *WalletHandler) respondOperationError(c *gin.Context, err error) {
	var accNotFound account.ErrAccountNotFound
	switch {
	case errors.Is(err, ledger.ErrRecipientNotFound):
		RespondNotFound(c, "RECIPIENT_NOT_FOUND", "No account exists with this phone number")
	case errors.Is(err, ledger.ErrSelfTransferRejected):
		RespondValidationFailure(c, "SELF_TRANSFER_REJECTED", "Cannot send money to yourself")
	case errors.Is(err, account.ErrInvalidAmount):
		RespondValidationFailure(c, "INVALID_AMOUNT", "Amount must be a positive number")
	case errors.Is(err, account.ErrInsufficientBalance):
		RespondValidationFailure(c, "INSUFFICIENT_BALANCE", "Insufficient balance for this operation")
	case errors.As(err, &accNotFound):
		RespondNotFound(c, "ACCOUNT_NOT_FOUND", "Account not found")
	case isStoreUnavailable(err):
		h.logger.Error("Ledger store unavailable", "error", err)
		RespondStoreUnavailable(c)
	default:
		h.logger.Error("Ledger operation failed", "error", err)
		RespondInternalError(c)
	}
}

// isStoreUnavailable reports whether the error indicates the backing store
// could not be reached rather than a request-level failure
func isStoreUnavailable(err error) bool {
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr) || errors.Is(err, context.DeadlineExceeded)
}

// mapOperationToResponse maps an operation result to its response DTO
func mapOperationToResponse(result *service.OperationResult, viewerAccountID string) OperationResponse {
	return OperationResponse{
		Message:     result.Message,
		Transaction: mapTransactionToResponse(result.Transaction, viewerAccountID),
	}
}

// mapTransactionToResponse maps a transaction entity to a response DTO,
// deriving the signed amount for the viewing account
func mapTransactionToResponse(txn *ledger.Transaction, viewerAccountID string) TransactionResponse {
	return TransactionResponse{
		ID:            txn.ID.String(),
		FromAccountID: txn.FromAccountID,
		ToAccountID:   txn.ToAccountID,
		FromPhone:     txn.FromPhone,
		ToPhone:       txn.ToPhone,
		Amount:        txn.Amount,
		SignedAmount:  txn.SignedAmount(viewerAccountID),
		Currency:      txn.Currency,
		Kind:          string(txn.Kind),
		Status:        string(txn.Status),
		Description:   txn.Description,
		Timestamp:     txn.Timestamp.Format(time.RFC3339),
	}
}
