package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func installmentPurchase(date time.Time, total, current int, amount *decimal.Decimal) *domain.Transaction {
	return &domain.Transaction{
		ID:             uuid.New(),
		CreatedBy:      "ana@example.com",
		Type:           domain.TransactionTypeExpense,
		Amount:         decimal.NewFromInt(300),
		Description:    "Television",
		Category:       "home",
		Date:           date,
		ReferenceMonth: date.Format("2006-01"),
		PaymentStatus:  domain.PaymentStatusPending,
		PaymentMethod:  domain.PaymentMethodCard,
		Installment: &domain.InstallmentPlan{
			TotalInstallments:  total,
			CurrentInstallment: current,
			InstallmentAmount:  amount,
		},
	}
}

func recurringExpense(referenceMonth string, amount int64) *domain.Transaction {
	return &domain.Transaction{
		ID:             uuid.New(),
		CreatedBy:      "ana@example.com",
		Type:           domain.TransactionTypeExpense,
		Amount:         decimal.NewFromInt(amount),
		Description:    "Streaming",
		Category:       "subscriptions",
		Date:           day(2024, time.January, 5),
		ReferenceMonth: referenceMonth,
		PaymentStatus:  domain.PaymentStatusPaid,
		PaymentMethod:  domain.PaymentMethodDebit,
		IsRecurring:    true,
	}
}

func bucketByMonth(t *testing.T, months []domain.MonthlyCommitment, key string) domain.MonthlyCommitment {
	t.Helper()
	for _, m := range months {
		if m.Month == key {
			return m
		}
	}
	require.Failf(t, "bucket not found", "month %s", key)
	return domain.MonthlyCommitment{}
}

func TestProjectCommitments_Window(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		first string
		last  string
	}{
		{"january", day(2024, time.January, 15), "2024-01", "2024-12"},
		{"mid year crosses into next year", day(2024, time.July, 31), "2024-07", "2025-06"},
		{"december", day(2024, time.December, 1), "2024-12", "2025-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			months := ProjectCommitments(tt.today, nil)

			require.Len(t, months, domain.CommitmentWindowMonths)
			assert.Equal(t, tt.first, months[0].Month)
			assert.Equal(t, tt.last, months[len(months)-1].Month)
			for i := 1; i < len(months); i++ {
				assert.Less(t, months[i-1].Month, months[i].Month)
			}
			for _, m := range months {
				assert.NotNil(t, m.Items)
				assert.Empty(t, m.Items)
				assert.True(t, m.Total.IsZero())
			}
		})
	}
}

func TestProjectCommitments_MonthName(t *testing.T) {
	months := ProjectCommitments(day(2024, time.November, 3), nil)

	assert.Equal(t, "November 2024", months[0].MonthName)
	assert.Equal(t, "January 2025", months[2].MonthName)
}

func TestProjectCommitments_InstallmentConservation(t *testing.T) {
	tx := installmentPurchase(day(2024, time.March, 10), 3, 1, decimalPtr(100))

	months := ProjectCommitments(day(2024, time.March, 20), []*domain.Transaction{tx})

	var items []domain.CommitmentItem
	for _, m := range months {
		items = append(items, m.Items...)
	}
	require.Len(t, items, 2)

	april := bucketByMonth(t, months, "2024-04")
	may := bucketByMonth(t, months, "2024-05")
	require.Len(t, april.Items, 1)
	require.Len(t, may.Items, 1)

	assert.Equal(t, "2/3", april.Items[0].InstallmentLabel)
	assert.Equal(t, "3/3", may.Items[0].InstallmentLabel)
	assert.True(t, decimal.NewFromInt(100).Equal(april.Items[0].Amount))
	assert.True(t, decimal.NewFromInt(100).Equal(may.Total))
	assert.Equal(t, domain.CommitmentKindInstallment, april.Items[0].Kind)
	assert.Equal(t, tx.ID, april.Items[0].SourceTransactionID)
	assert.Equal(t, fmt.Sprintf("%s-1", tx.ID), april.Items[0].ID)
	assert.Equal(t, "Television", april.Items[0].Description)
	assert.Equal(t, "home", april.Items[0].Category)
	assert.Empty(t, bucketByMonth(t, months, "2024-03").Items)
}

func TestProjectCommitments_InstallmentLabelsContinueFromCurrent(t *testing.T) {
	tx := installmentPurchase(day(2024, time.January, 5), 10, 7, decimalPtr(50))

	months := ProjectCommitments(day(2024, time.January, 5), []*domain.Transaction{tx})

	assert.Equal(t, "8/10", bucketByMonth(t, months, "2024-02").Items[0].InstallmentLabel)
	assert.Equal(t, "9/10", bucketByMonth(t, months, "2024-03").Items[0].InstallmentLabel)
	assert.Equal(t, "10/10", bucketByMonth(t, months, "2024-04").Items[0].InstallmentLabel)
	assert.Empty(t, bucketByMonth(t, months, "2024-05").Items)
}

func TestProjectCommitments_InstallmentOutsideWindowDropped(t *testing.T) {
	tx := installmentPurchase(day(2024, time.January, 15), 24, 1, decimalPtr(10))

	months := ProjectCommitments(day(2024, time.January, 15), []*domain.Transaction{tx})

	count := 0
	for _, m := range months {
		count += len(m.Items)
	}
	// February 2024 through December 2024
	assert.Equal(t, 11, count)
}

func TestProjectCommitments_PastInstallmentsOnlyFillWindow(t *testing.T) {
	tx := installmentPurchase(day(2023, time.November, 15), 6, 1, decimalPtr(25))

	months := ProjectCommitments(day(2024, time.February, 1), []*domain.Transaction{tx})

	// installments fall in Dec 2023..Apr 2024; only Feb..Apr are in the window
	assert.Equal(t, "4/6", months[0].Items[0].InstallmentLabel)
	assert.Equal(t, "5/6", months[1].Items[0].InstallmentLabel)
	assert.Equal(t, "6/6", months[2].Items[0].InstallmentLabel)
	assert.Empty(t, months[3].Items)
}

func TestProjectCommitments_MonthEndInstallmentsClamp(t *testing.T) {
	tx := installmentPurchase(day(2024, time.January, 31), 3, 1, decimalPtr(100))

	months := ProjectCommitments(day(2024, time.January, 31), []*domain.Transaction{tx})

	assert.Len(t, bucketByMonth(t, months, "2024-02").Items, 1)
	assert.Len(t, bucketByMonth(t, months, "2024-03").Items, 1)
}

func TestProjectCommitments_MissingInstallmentAmount(t *testing.T) {
	tx := installmentPurchase(day(2024, time.March, 10), 3, 1, nil)

	months := ProjectCommitments(day(2024, time.March, 10), []*domain.Transaction{tx})

	april := bucketByMonth(t, months, "2024-04")
	require.Len(t, april.Items, 1)
	assert.True(t, april.Items[0].Amount.IsZero())
	assert.True(t, april.Total.IsZero())
}

func TestProjectCommitments_SingleInstallmentIsNotAPlan(t *testing.T) {
	tx := installmentPurchase(day(2024, time.March, 10), 1, 1, decimalPtr(100))

	months := ProjectCommitments(day(2024, time.March, 10), []*domain.Transaction{tx})

	assert.Empty(t, NonEmptyCommitments(months))
}

func TestProjectCommitments_RecurringPropagation(t *testing.T) {
	tx := recurringExpense("2024-01", 50)

	months := ProjectCommitments(day(2024, time.January, 10), []*domain.Transaction{tx})

	assert.Empty(t, months[0].Items)
	for _, m := range months[1:] {
		require.Len(t, m.Items, 1, "month %s", m.Month)
		item := m.Items[0]
		assert.Equal(t, domain.CommitmentKindRecurring, item.Kind)
		assert.Empty(t, item.InstallmentLabel)
		assert.True(t, decimal.NewFromInt(50).Equal(item.Amount))
		assert.True(t, decimal.NewFromInt(50).Equal(m.Total))
		assert.Equal(t, fmt.Sprintf("%s-recurring-%s", tx.ID, m.Month), item.ID)
	}
	assert.Len(t, NonEmptyCommitments(months), 11)
}

func TestProjectCommitments_RecurringFromEarlierMonthFillsWholeWindow(t *testing.T) {
	tx := recurringExpense("2023-06", 80)

	months := ProjectCommitments(day(2024, time.January, 10), []*domain.Transaction{tx})

	for _, m := range months {
		assert.Len(t, m.Items, 1)
	}
}

func TestProjectCommitments_RecurringUsesInstallmentAmountWhenPresent(t *testing.T) {
	tx := recurringExpense("2024-01", 50)
	tx.Installment = &domain.InstallmentPlan{TotalInstallments: 1, CurrentInstallment: 1, InstallmentAmount: decimalPtr(45)}

	months := ProjectCommitments(day(2024, time.January, 10), []*domain.Transaction{tx})

	assert.True(t, decimal.NewFromInt(45).Equal(months[1].Total))
}

func TestProjectCommitments_InstallmentTakesPrecedenceOverRecurring(t *testing.T) {
	tx := installmentPurchase(day(2024, time.January, 10), 3, 1, decimalPtr(100))
	tx.IsRecurring = true

	months := ProjectCommitments(day(2024, time.January, 10), []*domain.Transaction{tx})

	nonEmpty := NonEmptyCommitments(months)
	require.Len(t, nonEmpty, 2)
	for _, m := range nonEmpty {
		require.Len(t, m.Items, 1)
		assert.Equal(t, domain.CommitmentKindInstallment, m.Items[0].Kind)
	}
}

func TestProjectCommitments_TotalsAggregate(t *testing.T) {
	txs := []*domain.Transaction{
		installmentPurchase(day(2024, time.January, 10), 3, 1, decimalPtr(100)),
		installmentPurchase(day(2024, time.January, 20), 2, 1, mustDecimal("33.33")),
		recurringExpense("2024-01", 50),
	}

	months := ProjectCommitments(day(2024, time.January, 10), txs)

	feb := bucketByMonth(t, months, "2024-02")
	assert.Len(t, feb.Items, 3)
	assert.Equal(t, "183.33", feb.Total.StringFixed(2))

	mar := bucketByMonth(t, months, "2024-03")
	assert.Len(t, mar.Items, 2)
	assert.Equal(t, "150.00", mar.Total.StringFixed(2))
}

func TestProjectCommitments_Idempotent(t *testing.T) {
	txs := []*domain.Transaction{
		installmentPurchase(day(2024, time.January, 10), 5, 2, decimalPtr(100)),
		recurringExpense("2023-12", 50),
		nil,
	}
	today := day(2024, time.January, 10)

	assert.Equal(t, ProjectCommitments(today, txs), ProjectCommitments(today, txs))
}

func TestProjectCommitments_EmptyInput(t *testing.T) {
	assert.Len(t, ProjectCommitments(day(2024, time.January, 10), []*domain.Transaction{}), 12)
}

func TestNonEmptyCommitments(t *testing.T) {
	months := ProjectCommitments(day(2024, time.January, 10), []*domain.Transaction{
		installmentPurchase(day(2024, time.January, 10), 2, 1, decimalPtr(10)),
	})

	nonEmpty := NonEmptyCommitments(months)
	require.Len(t, nonEmpty, 1)
	assert.Equal(t, "2024-02", nonEmpty[0].Month)
}

func mustDecimal(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
