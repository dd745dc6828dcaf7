package service

import (
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/util"
	"github.com/shopspring/decimal"
)

var statusSeverity = map[domain.CycleStatus]domain.Severity{
	domain.CycleStatusOpen:    domain.SeverityInfo,
	domain.CycleStatusClosed:  domain.SeverityWarning,
	domain.CycleStatusOverdue: domain.SeverityCritical,
}

func newCardStatus(label domain.CycleStatus) domain.CardStatus {
	return domain.CardStatus{Label: label, Severity: statusSeverity[label]}
}

// ResolveCardStatus classifies the card's current invoice as open, closed or overdue.
// Overdue is checked before closed, so a day that satisfies both reports overdue.
func ResolveCardStatus(today time.Time, card *domain.CreditCard, transactions []*domain.Transaction) domain.CardStatus {
	if card == nil {
		return newCardStatus(domain.CycleStatusOpen)
	}

	day := today.Day()
	normal := card.IsNormalCycle()

	if hasUnpaidPreviousInvoice(today, card, transactions) {
		if normal && day > card.DueDay {
			return newCardStatus(domain.CycleStatusOverdue)
		}
		if !normal && day > card.DueDay && day <= card.ClosingDay {
			return newCardStatus(domain.CycleStatusOverdue)
		}
	}

	if normal {
		if day > card.ClosingDay && day <= card.DueDay {
			return newCardStatus(domain.CycleStatusClosed)
		}
	} else if day > card.ClosingDay || day <= card.DueDay {
		return newCardStatus(domain.CycleStatusClosed)
	}

	return newCardStatus(domain.CycleStatusOpen)
}

// hasUnpaidPreviousInvoice reports whether any pending card expense is attributed to the month before today
func hasUnpaidPreviousInvoice(today time.Time, card *domain.CreditCard, transactions []*domain.Transaction) bool {
	previousMonth := util.PreviousMonthKey(today)
	for _, t := range transactions {
		if t == nil || !t.IsChargedTo(card.ID) {
			continue
		}
		if t.Type == domain.TransactionTypeExpense &&
			t.ReferenceMonth == previousMonth &&
			t.PaymentStatus == domain.PaymentStatusPending {
			return true
		}
	}
	return false
}

// NextCycleDates returns the closing and due dates to display for the card.
// Cross-month cycles close this month and fall due next month; normal cycles
// show this month's dates until the due day has passed, then the next cycle's.
func NextCycleDates(today time.Time, card *domain.CreditCard) domain.CycleDates {
	if !card.IsNormalCycle() {
		return domain.CycleDates{
			ClosingDate: util.DayInMonth(today, 0, card.ClosingDay),
			DueDate:     util.DayInMonth(today, 1, card.DueDay),
		}
	}

	offset := 0
	if today.Day() > card.DueDay {
		offset = 1
	}

	return domain.CycleDates{
		ClosingDate: util.DayInMonth(today, offset, card.ClosingDay),
		DueDate:     util.DayInMonth(today, offset, card.DueDay),
	}
}

// SummarizeCardInvoice totals the card's expenses dated in today's month,
// split into pending spending and already paid amounts. The invoice is the pending part.
func SummarizeCardInvoice(today time.Time, card *domain.CreditCard, transactions []*domain.Transaction) domain.CardInvoice {
	currentMonth := util.MonthKey(today)
	spending := decimal.Zero
	paid := decimal.Zero

	for _, t := range transactions {
		if t == nil || t.CreditCardID == nil || *t.CreditCardID != card.ID {
			continue
		}
		if t.Type != domain.TransactionTypeExpense || util.MonthKey(t.Date) != currentMonth {
			continue
		}
		switch t.PaymentStatus {
		case domain.PaymentStatusPending:
			spending = spending.Add(t.Amount)
		case domain.PaymentStatusPaid:
			paid = paid.Add(t.Amount)
		}
	}

	return domain.CardInvoice{
		Spending: spending,
		Paid:     paid,
		Invoice:  spending,
	}
}

// BuildCardOverview resolves status, cycle dates and invoice for a single card
func BuildCardOverview(today time.Time, card *domain.CreditCard, transactions []*domain.Transaction) domain.CardOverview {
	return domain.CardOverview{
		Card:    card,
		Status:  ResolveCardStatus(today, card, transactions),
		Cycle:   NextCycleDates(today, card),
		Invoice: SummarizeCardInvoice(today, card, transactions),
	}
}
