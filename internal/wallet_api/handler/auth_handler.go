package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pesawallet/wallet-ledger/internal/domain/account"
	"github.com/pesawallet/wallet-ledger/internal/wallet_api/service"
)

// AuthHandler handles HTTP requests for registration and login
type AuthHandler struct {
	authService service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(logger *slog.Logger, authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles creation of a new wallet account, rejecting duplicate
// phone numbers and weak PINs
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, token, err := h.authService.Register(c.Request.Context(), req.Name, req.Phone, req.PIN)
	if err != nil {
		var duplicatePhoneErr account.ErrDuplicatePhone
		switch {
		case errors.As(err, &duplicatePhoneErr):
			h.logger.Warn("Attempt to register duplicate phone", "phone", duplicatePhoneErr.Phone)
			RespondConflict(c, "An account with this phone number already exists")
		case errors.Is(err, account.ErrEmptyName),
			errors.Is(err, account.ErrEmptyPhone),
			errors.Is(err, account.ErrPINTooShort):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to register account", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, SessionResponse{
		Account: mapAccountToResponse(acc),
		Token:   token,
	})
}

// Login verifies the phone/PIN pair and returns a fresh session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, token, err := h.authService.Login(c.Request.Context(), req.Phone, req.PIN)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			RespondUnauthorized(c, "Invalid phone or PIN")
			return
		}
		h.logger.Error("Failed to log in", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, SessionResponse{
		Account: mapAccountToResponse(acc),
		Token:   token,
	})
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:        acc.ID.String(),
		Name:      acc.Name,
		Phone:     acc.Phone,
		Balance:   acc.Balance,
		Currency:  acc.Currency,
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
	}
}
