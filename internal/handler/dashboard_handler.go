package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/middleware"
	"github.com/dafibh/fortuna/famfin-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	dates            dateParams
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService, clock Clock, location *time.Location) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		dates:            newDateParams(clock, location),
	}
}

// CategoryAmountResponse represents expense total for a category
type CategoryAmountResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// MonthBalanceResponse represents one point of the balance history
type MonthBalanceResponse struct {
	Month   string `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// CardUsageResponse represents card spending against the combined limit
type CardUsageResponse struct {
	Used       string `json:"used"`
	TotalLimit string `json:"totalLimit"`
	Percentage string `json:"percentage"`
}

// GoalProgressResponse represents spending against a monthly goal
type GoalProgressResponse struct {
	GoalID       string `json:"goalId"`
	Category     string `json:"category"`
	TargetAmount string `json:"targetAmount"`
	Spent        string `json:"spent"`
	Percentage   string `json:"percentage"`
	Exceeded     bool   `json:"exceeded"`
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	Month             string                   `json:"month"`
	Income            string                   `json:"income"`
	Expense           string                   `json:"expense"`
	Balance           string                   `json:"balance"`
	FutureCommitments string                   `json:"futureCommitments"`
	ByCategory        []CategoryAmountResponse `json:"byCategory"`
	BalanceHistory    []MonthBalanceResponse   `json:"balanceHistory"`
	CardUsage         CardUsageResponse        `json:"cardUsage"`
	Goals             []GoalProgressResponse   `json:"goals"`
}

func toDashboardSummaryResponse(summary *domain.DashboardSummary) DashboardSummaryResponse {
	resp := DashboardSummaryResponse{
		Month:             summary.Month,
		Income:            summary.Income.StringFixed(2),
		Expense:           summary.Expense.StringFixed(2),
		Balance:           summary.Balance.StringFixed(2),
		FutureCommitments: summary.FutureCommitments.StringFixed(2),
		ByCategory:        make([]CategoryAmountResponse, len(summary.ByCategory)),
		BalanceHistory:    make([]MonthBalanceResponse, len(summary.BalanceHistory)),
		CardUsage: CardUsageResponse{
			Used:       summary.CardUsage.Used.StringFixed(2),
			TotalLimit: summary.CardUsage.TotalLimit.StringFixed(2),
			Percentage: summary.CardUsage.Percentage.StringFixed(2),
		},
		Goals: make([]GoalProgressResponse, len(summary.Goals)),
	}
	for i, category := range summary.ByCategory {
		resp.ByCategory[i] = CategoryAmountResponse{Category: category.Category, Amount: category.Amount.StringFixed(2)}
	}
	for i, month := range summary.BalanceHistory {
		resp.BalanceHistory[i] = MonthBalanceResponse{
			Month:   month.Month,
			Income:  month.Income.StringFixed(2),
			Expense: month.Expense.StringFixed(2),
			Balance: month.Balance.StringFixed(2),
		}
	}
	for i, progress := range summary.Goals {
		resp.Goals[i] = GoalProgressResponse{
			GoalID:       progress.Goal.ID.String(),
			Category:     progress.Goal.Category,
			TargetAmount: progress.Goal.TargetAmount.StringFixed(2),
			Spent:        progress.Spent.StringFixed(2),
			Percentage:   progress.Percentage.StringFixed(2),
			Exceeded:     progress.Exceeded,
		}
	}
	return resp
}

// GetSummary handles GET /api/v1/dashboard/summary?date=YYYY-MM-DD
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	today, err := h.dates.today(c)
	if err != nil {
		return invalidDateError(c)
	}

	summary, err := h.dashboardService.GetSummary(userEmail, today)
	if err != nil {
		return handleServiceError(c, err, "get dashboard summary")
	}
	return c.JSON(http.StatusOK, toDashboardSummaryResponse(summary))
}
