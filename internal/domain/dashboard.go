package domain

import "github.com/shopspring/decimal"

// BalanceHistoryMonths is how many reference months the balance chart shows
const BalanceHistoryMonths = 6

// CategoryAmount represents expense total for a category
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthBalance holds income and expense totals for a reference month
type MonthBalance struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// CardUsage compares this month's card expenses with the combined card limit
type CardUsage struct {
	Used       decimal.Decimal `json:"used"`
	TotalLimit decimal.Decimal `json:"totalLimit"`
	Percentage decimal.Decimal `json:"percentage"`
}

// GoalProgress tracks spending against a monthly category goal
type GoalProgress struct {
	Goal       *MonthlyGoal    `json:"goal"`
	Spent      decimal.Decimal `json:"spent"`
	Percentage decimal.Decimal `json:"percentage"`
	Exceeded   bool            `json:"exceeded"`
}

// DashboardSummary contains the main dashboard metrics for a reference month
type DashboardSummary struct {
	Month             string           `json:"month"`
	Income            decimal.Decimal  `json:"income"`
	Expense           decimal.Decimal  `json:"expense"`
	Balance           decimal.Decimal  `json:"balance"`
	FutureCommitments decimal.Decimal  `json:"futureCommitments"`
	ByCategory        []CategoryAmount `json:"byCategory"`
	BalanceHistory    []MonthBalance   `json:"balanceHistory"`
	CardUsage         CardUsage        `json:"cardUsage"`
	Goals             []GoalProgress   `json:"goals"`
}
