package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/service"
	"github.com/dafibh/fortuna/famfin-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func setupTransactionHandler() (*TransactionHandler, *testutil.MockTransactionRepository, *testutil.MockCreditCardRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	cardRepo := testutil.NewMockCreditCardRepository()
	transactionService := service.NewTransactionService(transactionRepo, cardRepo, testFamily())
	return NewTransactionHandler(transactionService), transactionRepo, cardRepo
}

func TestCreateTransaction_Success(t *testing.T) {
	handler, transactionRepo, _ := setupTransactionHandler()

	reqBody := `{"type": "expense", "amount": "150.5", "description": "Groceries", "category": "food",
		"date": "2024-03-10", "referenceMonth": "2024-03", "paymentStatus": "pending", "paymentMethod": "cash"}`
	c, rec := newRequest(http.MethodPost, "/api/v1/transactions", reqBody, ownerEmail)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != "150.50" {
		t.Errorf("Expected amount '150.50', got %s", response.Amount)
	}
	if response.Date != "2024-03-10" {
		t.Errorf("Expected date '2024-03-10', got %s", response.Date)
	}
	if response.Installment != nil {
		t.Error("Expected no installment plan")
	}
	if len(transactionRepo.Transactions) != 1 {
		t.Errorf("Expected 1 stored transaction, got %d", len(transactionRepo.Transactions))
	}
}

func TestCreateTransaction_WithInstallmentsOnCard(t *testing.T) {
	handler, _, cardRepo := setupTransactionHandler()
	card := &domain.CreditCard{Name: "Nubank", CreatedBy: ownerEmail, ClosingDay: 25, DueDay: 5}
	cardRepo.AddCard(card)

	reqBody := `{"type": "expense", "amount": "300", "description": "TV", "category": "home",
		"date": "2024-03-10", "referenceMonth": "2024-03", "paymentStatus": "pending", "paymentMethod": "card",
		"creditCardId": "` + card.ID.String() + `",
		"installment": {"totalInstallments": 3, "currentInstallment": 1, "installmentAmount": "100"}}`
	c, rec := newRequest(http.MethodPost, "/api/v1/transactions", reqBody, viewerEmail)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Installment == nil || response.Installment.TotalInstallments != 3 {
		t.Fatalf("Expected a 3 installment plan, got %+v", response.Installment)
	}
	if response.Installment.InstallmentAmount == nil || *response.Installment.InstallmentAmount != "100.00" {
		t.Errorf("Expected installment amount '100.00', got %v", response.Installment.InstallmentAmount)
	}
	if response.CreditCardID == nil || *response.CreditCardID != card.ID.String() {
		t.Errorf("Expected credit card %s, got %v", card.ID, response.CreditCardID)
	}
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	base := `"type": "expense", "description": "X", "referenceMonth": "2024-03", "paymentStatus": "pending"`
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unparseable amount", `{` + base + `, "amount": "ten", "date": "2024-03-10", "paymentMethod": "cash"}`, "amount"},
		{"unparseable date", `{` + base + `, "amount": "10", "date": "10/03/2024", "paymentMethod": "cash"}`, "date"},
		{"unparseable card id", `{` + base + `, "amount": "10", "date": "2024-03-10", "paymentMethod": "card", "creditCardId": "x"}`, "creditCardId"},
		{"unknown payment method", `{` + base + `, "amount": "10", "date": "2024-03-10", "paymentMethod": "cheque"}`, "paymentMethod"},
		{"zero amount", `{` + base + `, "amount": "0", "date": "2024-03-10", "paymentMethod": "cash"}`, "amount"},
		{"single installment", `{` + base + `, "amount": "10", "date": "2024-03-10", "paymentMethod": "cash",
			"installment": {"totalInstallments": 1, "currentInstallment": 1}}`, "installment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, _ := setupTransactionHandler()
			c, rec := newRequest(http.MethodPost, "/api/v1/transactions", tt.body, ownerEmail)

			if err := handler.CreateTransaction(c); err != nil {
				t.Fatalf("Expected JSON response, got error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rec.Code)
			}
			problem := decodeProblem(t, rec)
			if len(problem.Errors) != 1 || problem.Errors[0].Field != tt.field {
				t.Errorf("Expected error on field %s, got %+v", tt.field, problem.Errors)
			}
		})
	}
}

func TestCreateTransaction_CardOutsideFamily(t *testing.T) {
	handler, _, cardRepo := setupTransactionHandler()
	card := &domain.CreditCard{Name: "Foreign", CreatedBy: outsiderEmail, ClosingDay: 25, DueDay: 5}
	cardRepo.AddCard(card)

	reqBody := `{"type": "expense", "amount": "10", "date": "2024-03-10", "referenceMonth": "2024-03",
		"paymentStatus": "pending", "paymentMethod": "card", "creditCardId": "` + card.ID.String() + `"}`
	c, rec := newRequest(http.MethodPost, "/api/v1/transactions", reqBody, ownerEmail)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetTransactions(t *testing.T) {
	handler, transactionRepo, _ := setupTransactionHandler()
	transactionRepo.AddTransaction(&domain.Transaction{CreatedBy: ownerEmail, Amount: decimal.NewFromInt(10), ReferenceMonth: "2024-03"})
	transactionRepo.AddTransaction(&domain.Transaction{CreatedBy: viewerEmail, Amount: decimal.NewFromInt(20), ReferenceMonth: "2024-03"})
	transactionRepo.AddTransaction(&domain.Transaction{CreatedBy: outsiderEmail, Amount: decimal.NewFromInt(30), ReferenceMonth: "2024-03"})

	c, rec := newRequest(http.MethodGet, "/api/v1/transactions?month=2024-03", "", ownerEmail)

	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response []TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 2 {
		t.Errorf("Expected 2 family transactions, got %d", len(response))
	}
}

func TestGetTransactions_InvalidMonth(t *testing.T) {
	handler, _, _ := setupTransactionHandler()
	c, rec := newRequest(http.MethodGet, "/api/v1/transactions?month=March", "", ownerEmail)

	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestSetPaymentStatus(t *testing.T) {
	handler, transactionRepo, _ := setupTransactionHandler()
	tx := &domain.Transaction{CreatedBy: ownerEmail, PaymentStatus: domain.PaymentStatusPending}
	transactionRepo.AddTransaction(tx)

	tests := []struct {
		name     string
		email    string
		body     string
		wantCode int
	}{
		{"invalid status", ownerEmail, `{"paymentStatus": "late"}`, http.StatusBadRequest},
		{"view only member", viewerEmail, `{"paymentStatus": "paid"}`, http.StatusForbidden},
		{"owner", ownerEmail, `{"paymentStatus": "paid"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRequest(http.MethodPatch, "/api/v1/transactions/"+tx.ID.String()+"/payment-status", tt.body, tt.email)
			c.SetParamNames("id")
			c.SetParamValues(tx.ID.String())

			if err := handler.SetPaymentStatus(c); err != nil {
				t.Fatalf("Expected JSON response, got error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("Expected status %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}

	if transactionRepo.Transactions[tx.ID].PaymentStatus != domain.PaymentStatusPaid {
		t.Error("Expected transaction to be marked paid")
	}
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	handler, _, _ := setupTransactionHandler()
	id := uuid.New().String()

	reqBody := `{"type": "expense", "amount": "10", "date": "2024-03-10", "referenceMonth": "2024-03",
		"paymentStatus": "pending", "paymentMethod": "cash"}`
	c, rec := newRequest(http.MethodPut, "/api/v1/transactions/"+id, reqBody, ownerEmail)
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := handler.UpdateTransaction(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	handler, transactionRepo, _ := setupTransactionHandler()
	tx := &domain.Transaction{CreatedBy: viewerEmail}
	transactionRepo.AddTransaction(tx)

	c, rec := newRequest(http.MethodDelete, "/api/v1/transactions/"+tx.ID.String(), "", viewerEmail)
	c.SetParamNames("id")
	c.SetParamValues(tx.ID.String())

	if err := handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if _, ok := transactionRepo.Transactions[tx.ID]; ok {
		t.Error("Expected transaction to be deleted")
	}
}
