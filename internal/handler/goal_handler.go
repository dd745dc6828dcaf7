package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/middleware"
	"github.com/dafibh/fortuna/famfin-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// GoalHandler handles monthly goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the create goal request body
type CreateGoalRequest struct {
	Month        string `json:"month"`
	Category     string `json:"category"`
	TargetAmount string `json:"targetAmount"`
}

// GoalResponse represents a monthly goal in API responses
type GoalResponse struct {
	ID           string `json:"id"`
	CreatedBy    string `json:"createdBy"`
	Month        string `json:"month"`
	Category     string `json:"category"`
	TargetAmount string `json:"targetAmount"`
	CreatedAt    string `json:"createdAt"`
}

func toGoalResponse(goal *domain.MonthlyGoal) GoalResponse {
	return GoalResponse{
		ID:           goal.ID.String(),
		CreatedBy:    goal.CreatedBy,
		Month:        goal.Month,
		Category:     goal.Category,
		TargetAmount: goal.TargetAmount.StringFixed(2),
		CreatedAt:    goal.CreatedAt.Format(time.RFC3339),
	}
}

// CreateGoal handles POST /api/v1/goals
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return NewValidationError(c, "Invalid target amount", []ValidationError{
			{Field: "targetAmount", Message: "Must be a valid decimal number"},
		})
	}

	goal, err := h.goalService.CreateGoal(userEmail, service.CreateGoalInput{
		Month:        req.Month,
		Category:     req.Category,
		TargetAmount: target,
	})
	if err != nil {
		return handleServiceError(c, err, "create goal")
	}
	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// GetGoals handles GET /api/v1/goals?month=YYYY-MM
func (h *GoalHandler) GetGoals(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	goals, err := h.goalService.GetGoals(userEmail, c.QueryParam("month"))
	if err != nil {
		return handleServiceError(c, err, "get goals")
	}

	response := make([]GoalResponse, len(goals))
	for i, goal := range goals {
		response[i] = toGoalResponse(goal)
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteGoal handles DELETE /api/v1/goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c)
	}

	if err := h.goalService.DeleteGoal(userEmail, id); err != nil {
		return handleServiceError(c, err, "delete goal")
	}
	return c.NoContent(http.StatusNoContent)
}
