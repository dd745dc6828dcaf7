package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/service"
	"github.com/dafibh/fortuna/famfin-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCommitmentHandler() (*CommitmentHandler, *testutil.MockTransactionRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	commitmentService := service.NewCommitmentService(transactionRepo, testFamily())
	return NewCommitmentHandler(commitmentService, fixedClock, saoPaulo), transactionRepo
}

func addTV(transactionRepo *testutil.MockTransactionRepository, createdBy string) {
	installment := decimal.NewFromInt(100)
	transactionRepo.AddTransaction(&domain.Transaction{
		CreatedBy:      createdBy,
		Type:           domain.TransactionTypeExpense,
		Amount:         decimal.NewFromInt(300),
		Description:    "TV",
		Category:       "home",
		Date:           time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		ReferenceMonth: "2024-03",
		Installment:    &domain.InstallmentPlan{TotalInstallments: 3, CurrentInstallment: 1, InstallmentAmount: &installment},
	})
}

func TestGetCommitments(t *testing.T) {
	handler, transactionRepo := setupCommitmentHandler()
	addTV(transactionRepo, viewerEmail)
	addTV(transactionRepo, outsiderEmail)

	c, rec := newRequest(http.MethodGet, "/api/v1/commitments", "", ownerEmail)

	require.NoError(t, handler.GetCommitments(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response []MonthlyCommitmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, domain.CommitmentWindowMonths)

	assert.Equal(t, "2024-04", response[0].Month)
	assert.Equal(t, "100.00", response[0].Total)
	require.Len(t, response[0].Items, 1)
	assert.Equal(t, "2/3", response[0].Items[0].InstallmentLabel)
	assert.Equal(t, "installment", response[0].Items[0].Kind)
	assert.Equal(t, "3/3", response[1].Items[0].InstallmentLabel)
	assert.Equal(t, "0.00", response[2].Total)
	assert.Empty(t, response[2].Items)
}

func TestGetCommitments_NonEmpty(t *testing.T) {
	handler, transactionRepo := setupCommitmentHandler()
	addTV(transactionRepo, ownerEmail)

	c, rec := newRequest(http.MethodGet, "/api/v1/commitments?date=2024-03-20&nonEmpty=true", "", ownerEmail)

	require.NoError(t, handler.GetCommitments(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response []MonthlyCommitmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 2)
	assert.Equal(t, "2024-04", response[0].Month)
	assert.Equal(t, "2024-05", response[1].Month)
}

func TestGetCommitments_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
		field  string
	}{
		{"malformed date", "/api/v1/commitments?date=2024-4-1", "date"},
		{"malformed flag", "/api/v1/commitments?nonEmpty=maybe", "nonEmpty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := setupCommitmentHandler()
			c, rec := newRequest(http.MethodGet, tt.target, "", ownerEmail)

			require.NoError(t, handler.GetCommitments(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			problem := decodeProblem(t, rec)
			require.Len(t, problem.Errors, 1)
			assert.Equal(t, tt.field, problem.Errors[0].Field)
		})
	}
}
