package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MonthlyGoal struct {
	ID           uuid.UUID       `json:"id"`
	CreatedBy    string          `json:"createdBy"`
	Month        string          `json:"month"`
	Category     string          `json:"category"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type GoalRepository interface {
	Create(goal *MonthlyGoal) (*MonthlyGoal, error)
	GetByID(id uuid.UUID) (*MonthlyGoal, error)
	ListByMonth(emails []string, month string) ([]*MonthlyGoal, error)
	Delete(id uuid.UUID) error
}
