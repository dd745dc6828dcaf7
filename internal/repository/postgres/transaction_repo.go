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

const transactionColumns = `id, created_by, type, amount, description, category, date, reference_month,
	payment_status, payment_method, total_installments, current_installment, installment_amount,
	is_recurring, credit_card_id, created_at, updated_at`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// transactionParams are the column values shared by insert and update
type transactionParams struct {
	amount             pgtype.Numeric
	installmentAmount  pgtype.Numeric
	totalInstallments  pgtype.Int4
	currentInstallment pgtype.Int4
	creditCardID       pgtype.UUID
}

func newTransactionParams(t *domain.Transaction) (*transactionParams, error) {
	amount, err := decimalToPgNumeric(t.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	p := &transactionParams{
		amount:       amount,
		creditCardID: optionalUUIDToPg(t.CreditCardID),
	}
	if t.Installment != nil {
		p.totalInstallments = pgtype.Int4{Int32: int32(t.Installment.TotalInstallments), Valid: true}
		p.currentInstallment = pgtype.Int4{Int32: int32(t.Installment.CurrentInstallment), Valid: true}
		p.installmentAmount, err = optionalDecimalToPgNumeric(t.Installment.InstallmentAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid installment amount: %w", err)
		}
	}
	return p, nil
}

// Create creates a new transaction
func (r *TransactionRepository) Create(t *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	p, err := newTransactionParams(t)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+transactionColumns,
		t.ID, t.CreatedBy, string(t.Type), p.amount, t.Description, t.Category, timeToPgDate(t.Date),
		t.ReferenceMonth, string(t.PaymentStatus), string(t.PaymentMethod), p.totalInstallments,
		p.currentInstallment, p.installmentAmount, t.IsRecurring, p.creditCardID, t.CreatedAt, t.UpdatedAt,
	)
	return scanTransaction(row)
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

// ListByCreators retrieves every transaction created by any of the given emails, oldest first
func (r *TransactionRepository) ListByCreators(emails []string) ([]*domain.Transaction, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE lower(created_by) = ANY($1)
		ORDER BY date, created_at, id`,
		lowerEmails(emails),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Update replaces the mutable fields of a transaction
func (r *TransactionRepository) Update(t *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	p, err := newTransactionParams(t)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions SET
			type = $2, amount = $3, description = $4, category = $5, date = $6, reference_month = $7,
			payment_status = $8, payment_method = $9, total_installments = $10, current_installment = $11,
			installment_amount = $12, is_recurring = $13, credit_card_id = $14, updated_at = $15
		WHERE id = $1
		RETURNING `+transactionColumns,
		t.ID, string(t.Type), p.amount, t.Description, t.Category, timeToPgDate(t.Date), t.ReferenceMonth,
		string(t.PaymentStatus), string(t.PaymentMethod), p.totalInstallments, p.currentInstallment,
		p.installmentAmount, t.IsRecurring, p.creditCardID, t.UpdatedAt,
	)
	return scanTransaction(row)
}

// UpdatePaymentStatus sets the payment status of a transaction
func (r *TransactionRepository) UpdatePaymentStatus(id uuid.UUID, status domain.PaymentStatus) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE transactions SET payment_status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+transactionColumns,
		id, string(status),
	)
	return scanTransaction(row)
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t                  domain.Transaction
		txType             string
		amount             pgtype.Numeric
		date               pgtype.Date
		status             string
		method             string
		totalInstallments  pgtype.Int4
		currentInstallment pgtype.Int4
		installmentAmount  pgtype.Numeric
		creditCardID       pgtype.UUID
	)

	err := row.Scan(
		&t.ID, &t.CreatedBy, &txType, &amount, &t.Description, &t.Category, &date, &t.ReferenceMonth,
		&status, &method, &totalInstallments, &currentInstallment, &installmentAmount,
		&t.IsRecurring, &creditCardID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	t.Type = domain.TransactionType(txType)
	t.Amount = pgNumericToDecimal(amount)
	t.Date = pgDateToTime(date)
	t.PaymentStatus = domain.PaymentStatus(status)
	t.PaymentMethod = domain.PaymentMethod(method)
	t.CreditCardID = pgUUIDToOptional(creditCardID)
	if totalInstallments.Valid {
		t.Installment = &domain.InstallmentPlan{
			TotalInstallments:  int(totalInstallments.Int32),
			CurrentInstallment: int(currentInstallment.Int32),
			InstallmentAmount:  pgNumericToOptionalDecimal(installmentAmount),
		}
	}
	return &t, nil
}
