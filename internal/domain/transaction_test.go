package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestInstallmentPlan_Remaining(t *testing.T) {
	tests := []struct {
		name     string
		plan     *InstallmentPlan
		expected int
	}{
		{"nil plan", nil, 0},
		{"single installment", &InstallmentPlan{TotalInstallments: 1, CurrentInstallment: 1}, 0},
		{"first of three", &InstallmentPlan{TotalInstallments: 3, CurrentInstallment: 1}, 2},
		{"last of ten", &InstallmentPlan{TotalInstallments: 10, CurrentInstallment: 10}, 0},
		{"missing current defaults to first", &InstallmentPlan{TotalInstallments: 4}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.plan.Remaining(); got != tt.expected {
				t.Errorf("Remaining() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestInstallmentPlan_AmountOrZero(t *testing.T) {
	var nilPlan *InstallmentPlan
	if !nilPlan.AmountOrZero().IsZero() {
		t.Errorf("Expected zero for nil plan")
	}

	plan := &InstallmentPlan{TotalInstallments: 3, CurrentInstallment: 1}
	if !plan.AmountOrZero().IsZero() {
		t.Errorf("Expected zero when installment amount is missing, got %s", plan.AmountOrZero())
	}

	amount := decimal.NewFromFloat(83.33)
	plan.InstallmentAmount = &amount
	if !plan.AmountOrZero().Equal(amount) {
		t.Errorf("Expected %s, got %s", amount, plan.AmountOrZero())
	}
}

func TestTransaction_IsChargedTo(t *testing.T) {
	cardID := uuid.New()
	otherID := uuid.New()

	tx := &Transaction{PaymentMethod: PaymentMethodCard, CreditCardID: &cardID}
	if !tx.IsChargedTo(cardID) {
		t.Error("Expected transaction to be charged to its card")
	}
	if tx.IsChargedTo(otherID) {
		t.Error("Expected transaction not to be charged to another card")
	}

	tx.PaymentMethod = PaymentMethodInstantTransfer
	if tx.IsChargedTo(cardID) {
		t.Error("Expected non-card payment not to count as a card charge")
	}
}

func TestCreditCard_IsNormalCycle(t *testing.T) {
	tests := []struct {
		closing, due int
		expected     bool
	}{
		{1, 10, true},
		{15, 25, true},
		{25, 5, false},
		{10, 10, false},
	}

	for _, tt := range tests {
		card := &CreditCard{ClosingDay: tt.closing, DueDay: tt.due}
		if got := card.IsNormalCycle(); got != tt.expected {
			t.Errorf("IsNormalCycle(closing=%d, due=%d) = %v, want %v", tt.closing, tt.due, got, tt.expected)
		}
	}
}
