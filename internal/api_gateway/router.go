package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoice-ledger/internal/api_gateway/handler"
	"github.com/invoice-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	invoiceHandler *handler.InvoiceHandler,
	authHandler *handler.AuthHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Invoice operations
		invoices := v1.Group("/invoices")
		{
			invoices.POST("", invoiceHandler.Submit)
			invoices.POST("/verify", invoiceHandler.Verify)
			invoices.POST("/paid", invoiceHandler.MarkPaid)
		}

		// Account operations
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
