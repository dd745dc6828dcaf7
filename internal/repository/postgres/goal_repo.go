package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const goalColumns = `id, created_by, month, category, target_amount, created_at`

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

// Create creates a new goal; a second goal for the same month and category is rejected
func (r *GoalRepository) Create(goal *domain.MonthlyGoal) (*domain.MonthlyGoal, error) {
	ctx := context.Background()

	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO monthly_goals (`+goalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+goalColumns,
		goal.ID, goal.CreatedBy, goal.Month, goal.Category, target, goal.CreatedAt,
	)
	created, err := scanGoal(row)
	if err != nil && isUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	return created, err
}

// GetByID retrieves a goal by its ID
func (r *GoalRepository) GetByID(id uuid.UUID) (*domain.MonthlyGoal, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM monthly_goals WHERE id = $1`, id)
	return scanGoal(row)
}

// ListByMonth retrieves the goals of a month created by any of the given emails
func (r *GoalRepository) ListByMonth(emails []string, month string) ([]*domain.MonthlyGoal, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+goalColumns+`
		FROM monthly_goals
		WHERE lower(created_by) = ANY($1) AND month = $2
		ORDER BY category, id`,
		lowerEmails(emails), month,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.MonthlyGoal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, goal)
	}
	return result, rows.Err()
}

// Delete removes a goal
func (r *GoalRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM monthly_goals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func scanGoal(row pgx.Row) (*domain.MonthlyGoal, error) {
	var (
		goal   domain.MonthlyGoal
		target pgtype.Numeric
	)

	err := row.Scan(&goal.ID, &goal.CreatedBy, &goal.Month, &goal.Category, &target, &goal.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}

	goal.TargetAmount = pgNumericToDecimal(target)
	return &goal, nil
}
