package service

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/util"
	"github.com/dafibh/fortuna/famfin-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	cardRepo        domain.CreditCardRepository
	familyService   *FamilyService
	publisher       websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	cardRepo domain.CreditCardRepository,
	familyService *FamilyService,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		cardRepo:        cardRepo,
		familyService:   familyService,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// TransactionInput holds the input for creating or updating a transaction
type TransactionInput struct {
	Type           domain.TransactionType
	Amount         decimal.Decimal
	Description    string
	Category       string
	Date           time.Time
	ReferenceMonth string
	PaymentStatus  domain.PaymentStatus
	PaymentMethod  domain.PaymentMethod
	Installment    *domain.InstallmentPlan
	IsRecurring    bool
	CreditCardID   *uuid.UUID
}

func (in *TransactionInput) validate() error {
	if in.Type != domain.TransactionTypeIncome && in.Type != domain.TransactionTypeExpense {
		return domain.ErrInvalidTransactionType
	}
	if !in.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if len(strings.TrimSpace(in.Description)) > domain.MaxNameLength {
		return domain.ErrNameTooLong
	}
	if in.Date.IsZero() {
		return domain.ErrInvalidInput
	}
	if !util.IsValidMonthKey(in.ReferenceMonth) {
		return domain.ErrInvalidMonth
	}
	if in.PaymentStatus != domain.PaymentStatusPaid && in.PaymentStatus != domain.PaymentStatusPending {
		return domain.ErrInvalidPaymentStatus
	}
	if !domain.ValidPaymentMethods[in.PaymentMethod] {
		return domain.ErrInvalidPaymentMethod
	}
	if in.CreditCardID != nil && in.PaymentMethod != domain.PaymentMethodCard {
		return domain.ErrCardRequiresCardMethod
	}
	if p := in.Installment; p != nil {
		if p.TotalInstallments <= 1 || p.CurrentInstallment < 1 || p.CurrentInstallment > p.TotalInstallments {
			return domain.ErrInvalidInstallments
		}
		if p.InstallmentAmount != nil && p.InstallmentAmount.IsNegative() {
			return domain.ErrInvalidInstallments
		}
	}
	return nil
}

func (s *TransactionService) checkCard(userEmail string, cardID *uuid.UUID) error {
	if cardID == nil {
		return nil
	}
	card, err := s.cardRepo.GetByID(*cardID)
	if err != nil {
		return err
	}
	if err := s.familyService.CheckAccess(userEmail, card.CreatedBy, false); err != nil {
		return domain.ErrCreditCardNotFound
	}
	return nil
}

// CreateTransaction validates and stores a transaction owned by the user
func (s *TransactionService) CreateTransaction(userEmail string, input TransactionInput) (*domain.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.checkCard(userEmail, input.CreditCardID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tx := &domain.Transaction{
		ID:        uuid.New(),
		CreatedBy: userEmail,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyTransactionInput(tx, input)

	created, err := s.transactionRepo.Create(tx)
	if err != nil {
		return nil, err
	}

	publishToFamily(s.publisher, s.familyService, userEmail, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransactions returns the transactions visible to the user, newest first.
// An empty referenceMonth returns every month.
func (s *TransactionService) GetTransactions(userEmail string, referenceMonth string) ([]*domain.Transaction, error) {
	if referenceMonth != "" && !util.IsValidMonthKey(referenceMonth) {
		return nil, domain.ErrInvalidMonth
	}

	emails, err := s.familyService.AuthorizedEmails(userEmail)
	if err != nil {
		return nil, err
	}
	all, err := s.transactionRepo.ListByCreators(emails)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Transaction, 0, len(all))
	for _, t := range all {
		if referenceMonth == "" || t.ReferenceMonth == referenceMonth {
			result = append(result, t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

// UpdateTransaction replaces the transaction's fields
func (s *TransactionService) UpdateTransaction(userEmail string, id uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tx, err := s.getAccessibleTransaction(userEmail, id, true)
	if err != nil {
		return nil, err
	}
	if err := s.checkCard(userEmail, input.CreditCardID); err != nil {
		return nil, err
	}

	applyTransactionInput(tx, input)
	tx.UpdatedAt = time.Now().UTC()

	updated, err := s.transactionRepo.Update(tx)
	if err != nil {
		return nil, err
	}

	publishToFamily(s.publisher, s.familyService, userEmail, websocket.TransactionUpdated(updated))
	return updated, nil
}

// SetPaymentStatus marks a transaction as paid or pending
func (s *TransactionService) SetPaymentStatus(userEmail string, id uuid.UUID, status domain.PaymentStatus) (*domain.Transaction, error) {
	if status != domain.PaymentStatusPaid && status != domain.PaymentStatusPending {
		return nil, domain.ErrInvalidPaymentStatus
	}
	if _, err := s.getAccessibleTransaction(userEmail, id, true); err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.UpdatePaymentStatus(id, status)
	if err != nil {
		return nil, err
	}

	publishToFamily(s.publisher, s.familyService, userEmail, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes a transaction
func (s *TransactionService) DeleteTransaction(userEmail string, id uuid.UUID) error {
	if _, err := s.getAccessibleTransaction(userEmail, id, true); err != nil {
		return err
	}
	if err := s.transactionRepo.Delete(id); err != nil {
		return err
	}

	publishToFamily(s.publisher, s.familyService, userEmail, websocket.TransactionDeleted(map[string]interface{}{"id": id}))
	return nil
}

func (s *TransactionService) getAccessibleTransaction(userEmail string, id uuid.UUID, write bool) (*domain.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.familyService.CheckAccess(userEmail, tx.CreatedBy, write); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

func applyTransactionInput(tx *domain.Transaction, input TransactionInput) {
	tx.Type = input.Type
	tx.Amount = input.Amount
	tx.Description = strings.TrimSpace(input.Description)
	tx.Category = strings.TrimSpace(input.Category)
	tx.Date = util.DateOnly(input.Date)
	tx.ReferenceMonth = input.ReferenceMonth
	tx.PaymentStatus = input.PaymentStatus
	tx.PaymentMethod = input.PaymentMethod
	tx.Installment = input.Installment
	tx.IsRecurring = input.IsRecurring
	tx.CreditCardID = input.CreditCardID
}
