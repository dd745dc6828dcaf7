package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreditCard struct {
	ID         uuid.UUID       `json:"id"`
	CreatedBy  string          `json:"createdBy"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Icon       string          `json:"icon"`
	Limit      decimal.Decimal `json:"limit"`
	ClosingDay int             `json:"closingDay"`
	DueDay     int             `json:"dueDay"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// IsNormalCycle reports whether the invoice closes and falls due in the same calendar month.
// A closing day on or after the due day makes the cycle cross-month.
func (c *CreditCard) IsNormalCycle() bool {
	return c.ClosingDay < c.DueDay
}

// CycleStatus is the state of a card's current invoice
type CycleStatus string

const (
	CycleStatusOpen    CycleStatus = "open"
	CycleStatusClosed  CycleStatus = "closed"
	CycleStatusOverdue CycleStatus = "overdue"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// CardStatus is the resolved invoice state shown for a card
type CardStatus struct {
	Label    CycleStatus `json:"label"`
	Severity Severity    `json:"severity"`
}

// CycleDates holds the next closing and due dates to display for a card
type CycleDates struct {
	ClosingDate time.Time `json:"closingDate"`
	DueDate     time.Time `json:"dueDate"`
}

// CardInvoice summarises the card's expenses dated in the current month
type CardInvoice struct {
	Spending decimal.Decimal `json:"spending"`
	Paid     decimal.Decimal `json:"paid"`
	Invoice  decimal.Decimal `json:"invoice"`
}

// CardOverview combines everything the card list needs for one card
type CardOverview struct {
	Card    *CreditCard `json:"card"`
	Status  CardStatus  `json:"status"`
	Cycle   CycleDates  `json:"cycle"`
	Invoice CardInvoice `json:"invoice"`
}

type CreditCardRepository interface {
	Create(card *CreditCard) (*CreditCard, error)
	GetByID(id uuid.UUID) (*CreditCard, error)
	ListByCreators(emails []string) ([]*CreditCard, error)
	ListAll() ([]*CreditCard, error)
	Update(card *CreditCard) (*CreditCard, error)
	Delete(id uuid.UUID) error
}
