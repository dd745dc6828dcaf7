package service

import (
	"fmt"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/util"
	"github.com/shopspring/decimal"
)

// ProjectCommitments expands installment plans and recurring transactions into
// domain.CommitmentWindowMonths monthly buckets starting at today's month.
// Buckets are returned in chronological order, including empty ones.
//
// A transaction with an installment plan is projected only as installments,
// even when it is also flagged recurring.
func ProjectCommitments(today time.Time, transactions []*domain.Transaction) []domain.MonthlyCommitment {
	buckets := make([]domain.MonthlyCommitment, domain.CommitmentWindowMonths)
	index := make(map[string]int, domain.CommitmentWindowMonths)

	start := util.StartOfMonth(today)
	for i := range buckets {
		monthDate := start.AddDate(0, i, 0)
		key := util.MonthKey(monthDate)
		buckets[i] = domain.MonthlyCommitment{
			Month:     key,
			MonthName: util.MonthLabel(monthDate),
			Items:     []domain.CommitmentItem{},
			Total:     decimal.Zero,
		}
		index[key] = i
	}

	for _, tx := range transactions {
		if tx == nil {
			continue
		}
		if tx.HasInstallmentPlan() {
			addInstallments(buckets, index, tx)
			continue
		}
		if tx.IsRecurring {
			addRecurring(buckets, tx)
		}
	}

	return buckets
}

func addInstallments(buckets []domain.MonthlyCommitment, index map[string]int, tx *domain.Transaction) {
	plan := tx.Installment
	current := plan.CurrentInstallment
	if current < 1 {
		current = 1
	}
	amount := plan.AmountOrZero()

	for offset := 1; offset <= plan.Remaining(); offset++ {
		key := util.MonthKey(util.AddMonths(tx.Date, offset))
		i, ok := index[key]
		if !ok {
			continue
		}
		buckets[i].Items = append(buckets[i].Items, domain.CommitmentItem{
			ID:                  fmt.Sprintf("%s-%d", tx.ID, offset),
			SourceTransactionID: tx.ID,
			Description:         tx.Description,
			Amount:              amount,
			Category:            tx.Category,
			Kind:                domain.CommitmentKindInstallment,
			InstallmentLabel:    fmt.Sprintf("%d/%d", current+offset, plan.TotalInstallments),
		})
		buckets[i].Total = buckets[i].Total.Add(amount)
	}
}

// addRecurring adds the transaction to every bucket after its reference month.
// "YYYY-MM" keys order lexicographically the same as chronologically.
func addRecurring(buckets []domain.MonthlyCommitment, tx *domain.Transaction) {
	amount := tx.Amount
	if tx.Installment != nil && tx.Installment.InstallmentAmount != nil {
		amount = *tx.Installment.InstallmentAmount
	}

	for i := range buckets {
		if buckets[i].Month <= tx.ReferenceMonth {
			continue
		}
		buckets[i].Items = append(buckets[i].Items, domain.CommitmentItem{
			ID:                  fmt.Sprintf("%s-recurring-%s", tx.ID, buckets[i].Month),
			SourceTransactionID: tx.ID,
			Description:         tx.Description,
			Amount:              amount,
			Category:            tx.Category,
			Kind:                domain.CommitmentKindRecurring,
		})
		buckets[i].Total = buckets[i].Total.Add(amount)
	}
}

// NonEmptyCommitments drops buckets without items, keeping order
func NonEmptyCommitments(months []domain.MonthlyCommitment) []domain.MonthlyCommitment {
	result := make([]domain.MonthlyCommitment, 0, len(months))
	for _, m := range months {
		if len(m.Items) > 0 {
			result = append(result, m)
		}
	}
	return result
}
