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

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// InstallmentRequest represents an installment plan in request bodies
type InstallmentRequest struct {
	TotalInstallments  int     `json:"totalInstallments"`
	CurrentInstallment int     `json:"currentInstallment"`
	InstallmentAmount  *string `json:"installmentAmount,omitempty"`
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	Type           string              `json:"type"`
	Amount         string              `json:"amount"`
	Description    string              `json:"description"`
	Category       string              `json:"category"`
	Date           string              `json:"date"`
	ReferenceMonth string              `json:"referenceMonth"`
	PaymentStatus  string              `json:"paymentStatus"`
	PaymentMethod  string              `json:"paymentMethod"`
	Installment    *InstallmentRequest `json:"installment,omitempty"`
	IsRecurring    bool                `json:"isRecurring"`
	CreditCardID   *string             `json:"creditCardId,omitempty"`
}

// PaymentStatusRequest represents the payment status update request body
type PaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// InstallmentResponse represents an installment plan in API responses
type InstallmentResponse struct {
	TotalInstallments  int     `json:"totalInstallments"`
	CurrentInstallment int     `json:"currentInstallment"`
	InstallmentAmount  *string `json:"installmentAmount,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID             string               `json:"id"`
	CreatedBy      string               `json:"createdBy"`
	Type           string               `json:"type"`
	Amount         string               `json:"amount"`
	Description    string               `json:"description"`
	Category       string               `json:"category"`
	Date           string               `json:"date"`
	ReferenceMonth string               `json:"referenceMonth"`
	PaymentStatus  string               `json:"paymentStatus"`
	PaymentMethod  string               `json:"paymentMethod"`
	Installment    *InstallmentResponse `json:"installment,omitempty"`
	IsRecurring    bool                 `json:"isRecurring"`
	CreditCardID   *string              `json:"creditCardId,omitempty"`
	CreatedAt      string               `json:"createdAt"`
	UpdatedAt      string               `json:"updatedAt"`
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:             tx.ID.String(),
		CreatedBy:      tx.CreatedBy,
		Type:           string(tx.Type),
		Amount:         tx.Amount.StringFixed(2),
		Description:    tx.Description,
		Category:       tx.Category,
		Date:           tx.Date.Format(util.DateLayout),
		ReferenceMonth: tx.ReferenceMonth,
		PaymentStatus:  string(tx.PaymentStatus),
		PaymentMethod:  string(tx.PaymentMethod),
		IsRecurring:    tx.IsRecurring,
		CreatedAt:      tx.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      tx.UpdatedAt.Format(time.RFC3339),
	}
	if tx.Installment != nil {
		resp.Installment = &InstallmentResponse{
			TotalInstallments:  tx.Installment.TotalInstallments,
			CurrentInstallment: tx.Installment.CurrentInstallment,
		}
		if tx.Installment.InstallmentAmount != nil {
			amount := tx.Installment.InstallmentAmount.StringFixed(2)
			resp.Installment.InstallmentAmount = &amount
		}
	}
	if tx.CreditCardID != nil {
		id := tx.CreditCardID.String()
		resp.CreditCardID = &id
	}
	return resp
}

// toInput converts the request into service input, returning the field that failed to parse
func (r *TransactionRequest) toInput() (service.TransactionInput, *ValidationError) {
	input := service.TransactionInput{
		Type:           domain.TransactionType(r.Type),
		Description:    r.Description,
		Category:       r.Category,
		ReferenceMonth: r.ReferenceMonth,
		PaymentStatus:  domain.PaymentStatus(r.PaymentStatus),
		PaymentMethod:  domain.PaymentMethod(r.PaymentMethod),
		IsRecurring:    r.IsRecurring,
	}

	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return input, &ValidationError{Field: "amount", Message: "Must be a valid decimal number"}
	}
	input.Amount = amount

	if r.Date != "" {
		date, err := util.ParseDate(r.Date)
		if err != nil {
			return input, &ValidationError{Field: "date", Message: "Must be in YYYY-MM-DD format"}
		}
		input.Date = date
	}

	if r.Installment != nil {
		plan := &domain.InstallmentPlan{
			TotalInstallments:  r.Installment.TotalInstallments,
			CurrentInstallment: r.Installment.CurrentInstallment,
		}
		if r.Installment.InstallmentAmount != nil && *r.Installment.InstallmentAmount != "" {
			installmentAmount, err := decimal.NewFromString(*r.Installment.InstallmentAmount)
			if err != nil {
				return input, &ValidationError{Field: "installment.installmentAmount", Message: "Must be a valid decimal number"}
			}
			plan.InstallmentAmount = &installmentAmount
		}
		input.Installment = plan
	}

	if r.CreditCardID != nil && *r.CreditCardID != "" {
		cardID, err := uuid.Parse(*r.CreditCardID)
		if err != nil {
			return input, &ValidationError{Field: "creditCardId", Message: "Must be a valid UUID"}
		}
		input.CreditCardID = &cardID
	}

	return input, nil
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, fieldErr := req.toInput()
	if fieldErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*fieldErr})
	}

	tx, err := h.transactionService.CreateTransaction(userEmail, input)
	if err != nil {
		return handleServiceError(c, err, "create transaction")
	}
	return c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

// GetTransactions handles GET /api/v1/transactions?month=YYYY-MM
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	txs, err := h.transactionService.GetTransactions(userEmail, c.QueryParam("month"))
	if err != nil {
		return handleServiceError(c, err, "get transactions")
	}

	response := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		response[i] = toTransactionResponse(tx)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, fieldErr := req.toInput()
	if fieldErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*fieldErr})
	}

	tx, err := h.transactionService.UpdateTransaction(userEmail, id, input)
	if err != nil {
		return handleServiceError(c, err, "update transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// SetPaymentStatus handles PATCH /api/v1/transactions/:id/payment-status
func (h *TransactionHandler) SetPaymentStatus(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c)
	}

	var req PaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	tx, err := h.transactionService.SetPaymentStatus(userEmail, id, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return handleServiceError(c, err, "update payment status")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c)
	}

	if err := h.transactionService.DeleteTransaction(userEmail, id); err != nil {
		return handleServiceError(c, err, "delete transaction")
	}
	return c.NoContent(http.StatusNoContent)
}
