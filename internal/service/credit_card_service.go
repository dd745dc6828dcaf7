package service

import (
	"errors"
	"strings"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditCardService handles credit card configuration and billing cycle views
type CreditCardService struct {
	cardRepo        domain.CreditCardRepository
	transactionRepo domain.TransactionRepository
	familyService   *FamilyService
	publisher       websocket.EventPublisher
}

// NewCreditCardService creates a new CreditCardService
func NewCreditCardService(
	cardRepo domain.CreditCardRepository,
	transactionRepo domain.TransactionRepository,
	familyService *FamilyService,
) *CreditCardService {
	return &CreditCardService{
		cardRepo:        cardRepo,
		transactionRepo: transactionRepo,
		familyService:   familyService,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CreditCardService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// CreditCardInput holds the input for creating or updating a credit card
type CreditCardInput struct {
	Name       string
	Color      string
	Icon       string
	Limit      decimal.Decimal
	ClosingDay int
	DueDay     int
}

func (in *CreditCardInput) validate() (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}
	if in.Limit.IsNegative() {
		return "", domain.ErrInvalidLimit
	}
	if !validCycleDay(in.ClosingDay) || !validCycleDay(in.DueDay) {
		return "", domain.ErrInvalidDay
	}
	return name, nil
}

func validCycleDay(day int) bool {
	return day >= domain.MinCycleDay && day <= domain.MaxCycleDay
}

// CreateCard validates and stores a new card owned by the user
func (s *CreditCardService) CreateCard(userEmail string, input CreditCardInput) (*domain.CreditCard, error) {
	name, err := input.validate()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	card, err := s.cardRepo.Create(&domain.CreditCard{
		ID:         uuid.New(),
		CreatedBy:  userEmail,
		Name:       name,
		Color:      input.Color,
		Icon:       input.Icon,
		Limit:      input.Limit,
		ClosingDay: input.ClosingDay,
		DueDay:     input.DueDay,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	publishToFamily(s.publisher, s.familyService, userEmail, websocket.CreditCardCreated(card))
	return card, nil
}

// GetCards returns every card visible to the user
func (s *CreditCardService) GetCards(userEmail string) ([]*domain.CreditCard, error) {
	emails, err := s.familyService.AuthorizedEmails(userEmail)
	if err != nil {
		return nil, err
	}
	return s.cardRepo.ListByCreators(emails)
}

// UpdateCard replaces the card's configuration
func (s *CreditCardService) UpdateCard(userEmail string, id uuid.UUID, input CreditCardInput) (*domain.CreditCard, error) {
	name, err := input.validate()
	if err != nil {
		return nil, err
	}

	card, err := s.getAccessibleCard(userEmail, id, true)
	if err != nil {
		return nil, err
	}

	card.Name = name
	card.Color = input.Color
	card.Icon = input.Icon
	card.Limit = input.Limit
	card.ClosingDay = input.ClosingDay
	card.DueDay = input.DueDay
	card.UpdatedAt = time.Now().UTC()

	updated, err := s.cardRepo.Update(card)
	if err != nil {
		return nil, err
	}

	publishToFamily(s.publisher, s.familyService, userEmail, websocket.CreditCardUpdated(updated))
	return updated, nil
}

// DeleteCard removes a card; transactions keep their dangling back-reference
func (s *CreditCardService) DeleteCard(userEmail string, id uuid.UUID) error {
	if _, err := s.getAccessibleCard(userEmail, id, true); err != nil {
		return err
	}
	if err := s.cardRepo.Delete(id); err != nil {
		return err
	}

	publishToFamily(s.publisher, s.familyService, userEmail, websocket.CreditCardDeleted(map[string]interface{}{"id": id}))
	return nil
}

// GetOverviews resolves status, next cycle dates and current invoice for every visible card
func (s *CreditCardService) GetOverviews(userEmail string, today time.Time) ([]domain.CardOverview, error) {
	emails, err := s.familyService.AuthorizedEmails(userEmail)
	if err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(s.cardRepo, s.transactionRepo, emails)
	if err != nil {
		return nil, err
	}

	overviews := make([]domain.CardOverview, 0, len(snap.cards))
	for _, card := range snap.cards {
		overviews = append(overviews, BuildCardOverview(today, card, snap.transactions))
	}
	return overviews, nil
}

func (s *CreditCardService) getAccessibleCard(userEmail string, id uuid.UUID, write bool) (*domain.CreditCard, error) {
	card, err := s.cardRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.familyService.CheckAccess(userEmail, card.CreatedBy, write); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCreditCardNotFound
		}
		return nil, err
	}
	return card, nil
}
