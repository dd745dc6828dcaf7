package handler

import (
	"github.com/dafibh/fortuna/famfin-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups the HTTP handlers mounted under /api/v1
type Handlers struct {
	CreditCard  *CreditCardHandler
	Transaction *TransactionHandler
	Commitment  *CommitmentHandler
	Dashboard   *DashboardHandler
	Family      *FamilyHandler
	Goal        *GoalHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1, every route authenticated and rate limited per user
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	if rateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	// Credit card routes
	cards := api.Group("/credit-cards")
	cards.GET("", h.CreditCard.GetCards)
	cards.POST("", h.CreditCard.CreateCard)
	cards.GET("/overview", h.CreditCard.GetOverview)
	cards.PUT("/:id", h.CreditCard.UpdateCard)
	cards.DELETE("/:id", h.CreditCard.DeleteCard)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)
	transactions.PATCH("/:id/payment-status", h.Transaction.SetPaymentStatus)

	api.GET("/commitments", h.Commitment.GetCommitments)
	api.GET("/dashboard/summary", h.Dashboard.GetSummary)

	// Family routes
	family := api.Group("/family")
	family.GET("", h.Family.GetFamily)
	family.POST("/members", h.Family.AddMember)
	family.PUT("/members/:email", h.Family.UpdateMember)
	family.DELETE("/members/:email", h.Family.RemoveMember)

	// Goal routes
	goals := api.Group("/goals")
	goals.GET("", h.Goal.GetGoals)
	goals.POST("", h.Goal.CreateGoal)
	goals.DELETE("/:id", h.Goal.DeleteGoal)
}
