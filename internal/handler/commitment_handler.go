package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/middleware"
	"github.com/dafibh/fortuna/famfin-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// CommitmentHandler serves the future commitments forecast
type CommitmentHandler struct {
	commitmentService *service.CommitmentService
	dates             dateParams
}

// NewCommitmentHandler creates a new CommitmentHandler
func NewCommitmentHandler(commitmentService *service.CommitmentService, clock Clock, location *time.Location) *CommitmentHandler {
	return &CommitmentHandler{
		commitmentService: commitmentService,
		dates:             newDateParams(clock, location),
	}
}

// CommitmentItemResponse represents one projected obligation
type CommitmentItemResponse struct {
	ID                  string `json:"id"`
	SourceTransactionID string `json:"sourceTransactionId"`
	Description         string `json:"description"`
	Amount              string `json:"amount"`
	Category            string `json:"category"`
	Kind                string `json:"kind"`
	InstallmentLabel    string `json:"installmentLabel,omitempty"`
}

// MonthlyCommitmentResponse represents one month of the forecast
type MonthlyCommitmentResponse struct {
	Month     string                   `json:"month"`
	MonthName string                   `json:"monthName"`
	Items     []CommitmentItemResponse `json:"items"`
	Total     string                   `json:"total"`
}

func toMonthlyCommitmentResponse(month domain.MonthlyCommitment) MonthlyCommitmentResponse {
	items := make([]CommitmentItemResponse, len(month.Items))
	for i, item := range month.Items {
		items[i] = CommitmentItemResponse{
			ID:                  item.ID,
			SourceTransactionID: item.SourceTransactionID.String(),
			Description:         item.Description,
			Amount:              item.Amount.StringFixed(2),
			Category:            item.Category,
			Kind:                string(item.Kind),
			InstallmentLabel:    item.InstallmentLabel,
		}
	}
	return MonthlyCommitmentResponse{
		Month:     month.Month,
		MonthName: month.MonthName,
		Items:     items,
		Total:     month.Total.StringFixed(2),
	}
}

// GetCommitments handles GET /api/v1/commitments?date=YYYY-MM-DD&nonEmpty=true
func (h *CommitmentHandler) GetCommitments(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	today, err := h.dates.today(c)
	if err != nil {
		return invalidDateError(c)
	}

	nonEmpty := false
	if raw := c.QueryParam("nonEmpty"); raw != "" {
		nonEmpty, err = strconv.ParseBool(raw)
		if err != nil {
			return NewValidationError(c, "Invalid nonEmpty flag", []ValidationError{
				{Field: "nonEmpty", Message: "Must be true or false"},
			})
		}
	}

	months, err := h.commitmentService.GetCommitments(userEmail, today, nonEmpty)
	if err != nil {
		return handleServiceError(c, err, "get commitments")
	}

	response := make([]MonthlyCommitmentResponse, len(months))
	for i, month := range months {
		response[i] = toMonthlyCommitmentResponse(month)
	}
	return c.JSON(http.StatusOK, response)
}
