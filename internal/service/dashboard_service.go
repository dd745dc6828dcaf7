package service

import (
	"sort"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/util"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DashboardService handles dashboard-related business logic
type DashboardService struct {
	transactionRepo domain.TransactionRepository
	cardRepo        domain.CreditCardRepository
	goalRepo        domain.GoalRepository
	familyService   *FamilyService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	transactionRepo domain.TransactionRepository,
	cardRepo domain.CreditCardRepository,
	goalRepo domain.GoalRepository,
	familyService *FamilyService,
) *DashboardService {
	return &DashboardService{
		transactionRepo: transactionRepo,
		cardRepo:        cardRepo,
		goalRepo:        goalRepo,
		familyService:   familyService,
	}
}

// GetSummary returns the dashboard metrics for today's reference month
func (s *DashboardService) GetSummary(userEmail string, today time.Time) (*domain.DashboardSummary, error) {
	emails, err := s.familyService.AuthorizedEmails(userEmail)
	if err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(s.cardRepo, s.transactionRepo, emails)
	if err != nil {
		return nil, err
	}

	month := util.MonthKey(today)
	goals, err := s.goalRepo.ListByMonth(emails, month)
	if err != nil {
		return nil, err
	}

	return BuildDashboardSummary(month, snap.transactions, snap.cards, goals), nil
}

// BuildDashboardSummary computes the dashboard for a reference month from an already fetched snapshot
func BuildDashboardSummary(month string, transactions []*domain.Transaction, cards []*domain.CreditCard, goals []*domain.MonthlyGoal) *domain.DashboardSummary {
	summary := &domain.DashboardSummary{
		Month:             month,
		Income:            decimal.Zero,
		Expense:           decimal.Zero,
		FutureCommitments: decimal.Zero,
	}

	byCategory := make(map[string]decimal.Decimal)
	cardExpenses := decimal.Zero

	for _, t := range transactions {
		if t.HasInstallmentPlan() {
			remaining := decimal.NewFromInt(int64(t.Installment.Remaining()))
			summary.FutureCommitments = summary.FutureCommitments.Add(t.Amount.Mul(remaining))
		}

		if t.ReferenceMonth != month {
			continue
		}
		switch t.Type {
		case domain.TransactionTypeIncome:
			summary.Income = summary.Income.Add(t.Amount)
		case domain.TransactionTypeExpense:
			summary.Expense = summary.Expense.Add(t.Amount)
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
			if t.PaymentMethod == domain.PaymentMethodCard {
				cardExpenses = cardExpenses.Add(t.Amount)
			}
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expense)

	summary.ByCategory = make([]domain.CategoryAmount, 0, len(byCategory))
	for category, amount := range byCategory {
		summary.ByCategory = append(summary.ByCategory, domain.CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		if !summary.ByCategory[i].Amount.Equal(summary.ByCategory[j].Amount) {
			return summary.ByCategory[i].Amount.GreaterThan(summary.ByCategory[j].Amount)
		}
		return summary.ByCategory[i].Category < summary.ByCategory[j].Category
	})

	summary.BalanceHistory = balanceHistory(transactions)
	summary.CardUsage = cardUsage(cardExpenses, cards)
	summary.Goals = goalProgress(goals, byCategory)

	return summary
}

// balanceHistory returns income/expense per reference month for the latest months that have data
func balanceHistory(transactions []*domain.Transaction) []domain.MonthBalance {
	byMonth := make(map[string]*domain.MonthBalance)
	for _, t := range transactions {
		if t.ReferenceMonth == "" {
			continue
		}
		mb, ok := byMonth[t.ReferenceMonth]
		if !ok {
			mb = &domain.MonthBalance{Month: t.ReferenceMonth, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[t.ReferenceMonth] = mb
		}
		if t.Type == domain.TransactionTypeIncome {
			mb.Income = mb.Income.Add(t.Amount)
		} else {
			mb.Expense = mb.Expense.Add(t.Amount)
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	if len(months) > domain.BalanceHistoryMonths {
		months = months[len(months)-domain.BalanceHistoryMonths:]
	}

	history := make([]domain.MonthBalance, 0, len(months))
	for _, m := range months {
		mb := byMonth[m]
		mb.Balance = mb.Income.Sub(mb.Expense)
		history = append(history, *mb)
	}
	return history
}

func cardUsage(used decimal.Decimal, cards []*domain.CreditCard) domain.CardUsage {
	totalLimit := decimal.Zero
	for _, c := range cards {
		totalLimit = totalLimit.Add(c.Limit)
	}

	percentage := decimal.Zero
	if totalLimit.IsPositive() {
		percentage = used.Div(totalLimit).Mul(hundred).Round(2)
	}

	return domain.CardUsage{Used: used, TotalLimit: totalLimit, Percentage: percentage}
}

func goalProgress(goals []*domain.MonthlyGoal, spentByCategory map[string]decimal.Decimal) []domain.GoalProgress {
	progress := make([]domain.GoalProgress, 0, len(goals))
	for _, g := range goals {
		spent := spentByCategory[g.Category]
		percentage := decimal.Zero
		if g.TargetAmount.IsPositive() {
			percentage = spent.Div(g.TargetAmount).Mul(hundred).Round(2)
		}
		progress = append(progress, domain.GoalProgress{
			Goal:       g,
			Spent:      spent,
			Percentage: percentage,
			Exceeded:   spent.GreaterThan(g.TargetAmount),
		})
	}
	return progress
}
