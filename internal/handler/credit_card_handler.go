package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/middleware"
	"github.com/dafibh/fortuna/famfin-backend/internal/service"
	"github.com/dafibh/fortuna/famfin-backend/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// CreditCardHandler handles credit card HTTP requests
type CreditCardHandler struct {
	creditCardService *service.CreditCardService
	dates             dateParams
}

// NewCreditCardHandler creates a new CreditCardHandler
func NewCreditCardHandler(creditCardService *service.CreditCardService, clock Clock, location *time.Location) *CreditCardHandler {
	return &CreditCardHandler{
		creditCardService: creditCardService,
		dates:             newDateParams(clock, location),
	}
}

// CreditCardRequest represents the create/update credit card request body
type CreditCardRequest struct {
	Name       string `json:"name"`
	Color      string `json:"color"`
	Icon       string `json:"icon"`
	Limit      string `json:"limit"`
	ClosingDay int    `json:"closingDay"`
	DueDay     int    `json:"dueDay"`
}

// CreditCardResponse represents a credit card in API responses
type CreditCardResponse struct {
	ID         string `json:"id"`
	CreatedBy  string `json:"createdBy"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Icon       string `json:"icon"`
	Limit      string `json:"limit"`
	ClosingDay int    `json:"closingDay"`
	DueDay     int    `json:"dueDay"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// CardStatusResponse represents the resolved invoice status of a card
type CardStatusResponse struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
}

// CycleDatesResponse represents the next closing and due dates of a card
type CycleDatesResponse struct {
	ClosingDate string `json:"closingDate"`
	DueDate     string `json:"dueDate"`
}

// CardInvoiceResponse represents the current month's invoice summary
type CardInvoiceResponse struct {
	Spending string `json:"spending"`
	Paid     string `json:"paid"`
	Invoice  string `json:"invoice"`
}

// CardOverviewResponse represents one entry of the credit card overview
type CardOverviewResponse struct {
	Card    CreditCardResponse  `json:"card"`
	Status  CardStatusResponse  `json:"status"`
	Cycle   CycleDatesResponse  `json:"cycle"`
	Invoice CardInvoiceResponse `json:"invoice"`
}

func toCreditCardResponse(card *domain.CreditCard) CreditCardResponse {
	return CreditCardResponse{
		ID:         card.ID.String(),
		CreatedBy:  card.CreatedBy,
		Name:       card.Name,
		Color:      card.Color,
		Icon:       card.Icon,
		Limit:      card.Limit.StringFixed(2),
		ClosingDay: card.ClosingDay,
		DueDay:     card.DueDay,
		CreatedAt:  card.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  card.UpdatedAt.Format(time.RFC3339),
	}
}

func toCardOverviewResponse(overview domain.CardOverview) CardOverviewResponse {
	return CardOverviewResponse{
		Card: toCreditCardResponse(overview.Card),
		Status: CardStatusResponse{
			Label:    string(overview.Status.Label),
			Severity: string(overview.Status.Severity),
		},
		Cycle: CycleDatesResponse{
			ClosingDate: overview.Cycle.ClosingDate.Format(util.DateLayout),
			DueDate:     overview.Cycle.DueDate.Format(util.DateLayout),
		},
		Invoice: CardInvoiceResponse{
			Spending: overview.Invoice.Spending.StringFixed(2),
			Paid:     overview.Invoice.Paid.StringFixed(2),
			Invoice:  overview.Invoice.Invoice.StringFixed(2),
		},
	}
}

func (r *CreditCardRequest) toInput() (service.CreditCardInput, error) {
	limit := decimal.Zero
	if r.Limit != "" {
		parsed, err := decimal.NewFromString(r.Limit)
		if err != nil {
			return service.CreditCardInput{}, err
		}
		limit = parsed
	}
	return service.CreditCardInput{
		Name:       r.Name,
		Color:      r.Color,
		Icon:       r.Icon,
		Limit:      limit,
		ClosingDay: r.ClosingDay,
		DueDay:     r.DueDay,
	}, nil
}

// CreateCard handles POST /api/v1/credit-cards
func (h *CreditCardHandler) CreateCard(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreditCardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid limit", []ValidationError{
			{Field: "limit", Message: "Must be a valid decimal number"},
		})
	}

	card, err := h.creditCardService.CreateCard(userEmail, input)
	if err != nil {
		return handleServiceError(c, err, "create credit card")
	}
	return c.JSON(http.StatusCreated, toCreditCardResponse(card))
}

// GetCards handles GET /api/v1/credit-cards
func (h *CreditCardHandler) GetCards(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cards, err := h.creditCardService.GetCards(userEmail)
	if err != nil {
		return handleServiceError(c, err, "get credit cards")
	}

	response := make([]CreditCardResponse, len(cards))
	for i, card := range cards {
		response[i] = toCreditCardResponse(card)
	}
	return c.JSON(http.StatusOK, response)
}

// GetOverview handles GET /api/v1/credit-cards/overview?date=YYYY-MM-DD
func (h *CreditCardHandler) GetOverview(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	today, err := h.dates.today(c)
	if err != nil {
		return invalidDateError(c)
	}

	overviews, err := h.creditCardService.GetOverviews(userEmail, today)
	if err != nil {
		return handleServiceError(c, err, "get credit card overview")
	}

	response := make([]CardOverviewResponse, len(overviews))
	for i, overview := range overviews {
		response[i] = toCardOverviewResponse(overview)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateCard handles PUT /api/v1/credit-cards/:id
func (h *CreditCardHandler) UpdateCard(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c)
	}

	var req CreditCardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Invalid limit", []ValidationError{
			{Field: "limit", Message: "Must be a valid decimal number"},
		})
	}

	card, err := h.creditCardService.UpdateCard(userEmail, id, input)
	if err != nil {
		return handleServiceError(c, err, "update credit card")
	}
	return c.JSON(http.StatusOK, toCreditCardResponse(card))
}

// DeleteCard handles DELETE /api/v1/credit-cards/:id
func (h *CreditCardHandler) DeleteCard(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c)
	}

	if err := h.creditCardService.DeleteCard(userEmail, id); err != nil {
		return handleServiceError(c, err, "delete credit card")
	}
	return c.NoContent(http.StatusNoContent)
}
