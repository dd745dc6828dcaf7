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

const creditCardColumns = `id, created_by, name, color, icon, credit_limit, closing_day, due_day, created_at, updated_at`

// CreditCardRepository implements domain.CreditCardRepository using PostgreSQL
type CreditCardRepository struct {
	pool *pgxpool.Pool
}

// NewCreditCardRepository creates a new CreditCardRepository
func NewCreditCardRepository(pool *pgxpool.Pool) *CreditCardRepository {
	return &CreditCardRepository{pool: pool}
}

// Create creates a new credit card
func (r *CreditCardRepository) Create(card *domain.CreditCard) (*domain.CreditCard, error) {
	ctx := context.Background()

	limit, err := decimalToPgNumeric(card.Limit)
	if err != nil {
		return nil, fmt.Errorf("invalid limit: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO credit_cards (`+creditCardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+creditCardColumns,
		card.ID, card.CreatedBy, card.Name, card.Color, card.Icon, limit,
		card.ClosingDay, card.DueDay, card.CreatedAt, card.UpdatedAt,
	)
	return scanCreditCard(row)
}

// GetByID retrieves a credit card by its ID
func (r *CreditCardRepository) GetByID(id uuid.UUID) (*domain.CreditCard, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+creditCardColumns+` FROM credit_cards WHERE id = $1`, id)
	return scanCreditCard(row)
}

// ListByCreators retrieves the cards created by any of the given emails, ordered by name
func (r *CreditCardRepository) ListByCreators(emails []string) ([]*domain.CreditCard, error) {
	return r.list(`
		SELECT `+creditCardColumns+`
		FROM credit_cards
		WHERE lower(created_by) = ANY($1)
		ORDER BY name, id`, lowerEmails(emails))
}

// ListAll retrieves every card, used by the background status sweep
func (r *CreditCardRepository) ListAll() ([]*domain.CreditCard, error) {
	return r.list(`SELECT ` + creditCardColumns + ` FROM credit_cards ORDER BY created_by, name, id`)
}

func (r *CreditCardRepository) list(query string, args ...any) ([]*domain.CreditCard, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.CreditCard, 0)
	for rows.Next() {
		card, err := scanCreditCard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, card)
	}
	return result, rows.Err()
}

// Update replaces the configuration of a credit card
func (r *CreditCardRepository) Update(card *domain.CreditCard) (*domain.CreditCard, error) {
	ctx := context.Background()

	limit, err := decimalToPgNumeric(card.Limit)
	if err != nil {
		return nil, fmt.Errorf("invalid limit: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE credit_cards SET
			name = $2, color = $3, icon = $4, credit_limit = $5, closing_day = $6, due_day = $7, updated_at = $8
		WHERE id = $1
		RETURNING `+creditCardColumns,
		card.ID, card.Name, card.Color, card.Icon, limit, card.ClosingDay, card.DueDay, card.UpdatedAt,
	)
	return scanCreditCard(row)
}

// Delete removes a credit card
func (r *CreditCardRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM credit_cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCreditCardNotFound
	}
	return nil
}

func scanCreditCard(row pgx.Row) (*domain.CreditCard, error) {
	var (
		card       domain.CreditCard
		limit      pgtype.Numeric
		closingDay int16
		dueDay     int16
	)

	err := row.Scan(
		&card.ID, &card.CreatedBy, &card.Name, &card.Color, &card.Icon, &limit,
		&closingDay, &dueDay, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCreditCardNotFound
		}
		return nil, err
	}

	card.Limit = pgNumericToDecimal(limit)
	card.ClosingDay = int(closingDay)
	card.DueDay = int(dueDay)
	return &card, nil
}
