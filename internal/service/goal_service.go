package service

import (
	"errors"
	"strings"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalService handles monthly spending goals
type GoalService struct {
	goalRepo      domain.GoalRepository
	familyService *FamilyService
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository, familyService *FamilyService) *GoalService {
	return &GoalService{goalRepo: goalRepo, familyService: familyService}
}

// CreateGoalInput holds the input for creating a goal
type CreateGoalInput struct {
	Month        string
	Category     string
	TargetAmount decimal.Decimal
}

// CreateGoal validates and stores a goal
func (s *GoalService) CreateGoal(userEmail string, input CreateGoalInput) (*domain.MonthlyGoal, error) {
	if !util.IsValidMonthKey(input.Month) {
		return nil, domain.ErrInvalidMonth
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrNameRequired
	}
	if len(category) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !input.TargetAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	return s.goalRepo.Create(&domain.MonthlyGoal{
		ID:           uuid.New(),
		CreatedBy:    userEmail,
		Month:        input.Month,
		Category:     category,
		TargetAmount: input.TargetAmount,
		CreatedAt:    time.Now().UTC(),
	})
}

// GetGoals returns the goals visible to the user for a month
func (s *GoalService) GetGoals(userEmail string, month string) ([]*domain.MonthlyGoal, error) {
	if !util.IsValidMonthKey(month) {
		return nil, domain.ErrInvalidMonth
	}
	emails, err := s.familyService.AuthorizedEmails(userEmail)
	if err != nil {
		return nil, err
	}
	return s.goalRepo.ListByMonth(emails, month)
}

// DeleteGoal removes a goal owned by someone in the user's family scope
func (s *GoalService) DeleteGoal(userEmail string, id uuid.UUID) error {
	goal, err := s.goalRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.familyService.CheckAccess(userEmail, goal.CreatedBy, true); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrGoalNotFound
		}
		return err
	}
	return s.goalRepo.Delete(id)
}
