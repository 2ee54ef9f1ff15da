package wallet_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pesawallet/wallet-ledger/internal/wallet_api/handler"
	"github.com/pesawallet/wallet-ledger/internal/wallet_api/middleware"
	"github.com/pesawallet/wallet-ledger/internal/wallet_api/service"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	tokens *service.TokenIssuer,
	authHandler *handler.AuthHandler,
	walletHandler *handler.WalletHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Registration and login
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Wallet operations, all bound to the authenticated account
		wallet := v1.Group("/wallet")
		wallet.Use(middleware.Auth(tokens))
		{
			wallet.GET("/balance", walletHandler.Balance)
			wallet.POST("/transfers", walletHandler.Transfer)
			wallet.POST("/deposits", walletHandler.Deposit)
			wallet.POST("/withdrawals", walletHandler.Withdraw)
			wallet.GET("/transactions", walletHandler.History)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
