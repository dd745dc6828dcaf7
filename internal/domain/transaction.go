package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

type PaymentMethod string

const (
	PaymentMethodCard            PaymentMethod = "card"
	PaymentMethodInstantTransfer PaymentMethod = "instant_transfer"
	PaymentMethodBillet          PaymentMethod = "billet"
	PaymentMethodCash            PaymentMethod = "cash"
	PaymentMethodDebit           PaymentMethod = "debit"
)

// ValidPaymentMethods is the closed set of accepted payment methods
var ValidPaymentMethods = map[PaymentMethod]bool{
	PaymentMethodCard:            true,
	PaymentMethodInstantTransfer: true,
	PaymentMethodBillet:          true,
	PaymentMethodCash:            true,
	PaymentMethodDebit:           true,
}

// InstallmentPlan describes a purchase split into monthly installments.
// TotalInstallments is always greater than 1 and CurrentInstallment never exceeds it.
type InstallmentPlan struct {
	TotalInstallments  int              `json:"totalInstallments"`
	CurrentInstallment int              `json:"currentInstallment"`
	InstallmentAmount  *decimal.Decimal `json:"installmentAmount,omitempty"`
}

// Remaining returns how many installments are still to come after the current one
func (p *InstallmentPlan) Remaining() int {
	if p == nil || p.TotalInstallments <= 1 {
		return 0
	}
	current := p.CurrentInstallment
	if current < 1 {
		current = 1
	}
	remaining := p.TotalInstallments - current
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AmountOrZero returns the per-installment amount, or zero when it was never recorded
func (p *InstallmentPlan) AmountOrZero() decimal.Decimal {
	if p == nil || p.InstallmentAmount == nil {
		return decimal.Zero
	}
	return *p.InstallmentAmount
}

type Transaction struct {
	ID             uuid.UUID        `json:"id"`
	CreatedBy      string           `json:"createdBy"`
	Type           TransactionType  `json:"type"`
	Amount         decimal.Decimal  `json:"amount"`
	Description    string           `json:"description"`
	Category       string           `json:"category"`
	Date           time.Time        `json:"date"`
	ReferenceMonth string           `json:"referenceMonth"`
	PaymentStatus  PaymentStatus    `json:"paymentStatus"`
	PaymentMethod  PaymentMethod    `json:"paymentMethod"`
	Installment    *InstallmentPlan `json:"installment,omitempty"`
	IsRecurring    bool             `json:"isRecurring"`
	CreditCardID   *uuid.UUID       `json:"creditCardId,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// HasInstallmentPlan reports whether the transaction is split into more than one installment
func (t *Transaction) HasInstallmentPlan() bool {
	return t.Installment != nil && t.Installment.TotalInstallments > 1
}

// IsChargedTo reports whether the transaction was paid with the given credit card
func (t *Transaction) IsChargedTo(cardID uuid.UUID) bool {
	return t.PaymentMethod == PaymentMethodCard && t.CreditCardID != nil && *t.CreditCardID == cardID
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(id uuid.UUID) (*Transaction, error)
	ListByCreators(emails []string) ([]*Transaction, error)
	Update(transaction *Transaction) (*Transaction, error)
	UpdatePaymentStatus(id uuid.UUID, status PaymentStatus) (*Transaction, error)
	Delete(id uuid.UUID) error
}
