package testutil

import (
	"sort"
	"strings"
	"sync"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/websocket"
	"github.com/google/uuid"
)

func containsEmail(emails []string, email string) bool {
	for _, e := range emails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions     map[uuid.UUID]*domain.Transaction
	CreateFn         func(transaction *domain.Transaction) (*domain.Transaction, error)
	ListByCreatorsFn func(emails []string) ([]*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	m.Transactions[transaction.ID] = transaction
}

// Create stores a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	m.AddTransaction(transaction)
	return transaction, nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(id uuid.UUID) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// ListByCreators returns the transactions created by any of the given emails, oldest first
func (m *MockTransactionRepository) ListByCreators(emails []string) ([]*domain.Transaction, error) {
	if m.ListByCreatorsFn != nil {
		return m.ListByCreatorsFn(emails)
	}
	result := make([]*domain.Transaction, 0)
	for _, t := range m.Transactions {
		if containsEmail(emails, t.CreatedBy) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

// Update replaces an existing transaction
func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	if _, ok := m.Transactions[transaction.ID]; !ok {
		return nil, domain.ErrTransactionNotFound
	}
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// UpdatePaymentStatus sets the payment status of a transaction
func (m *MockTransactionRepository) UpdatePaymentStatus(id uuid.UUID, status domain.PaymentStatus) (*domain.Transaction, error) {
	t, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	t.PaymentStatus = status
	return t, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// MockCreditCardRepository is a mock implementation of domain.CreditCardRepository
type MockCreditCardRepository struct {
	Cards     map[uuid.UUID]*domain.CreditCard
	ListAllFn func() ([]*domain.CreditCard, error)
}

// NewMockCreditCardRepository creates a new MockCreditCardRepository
func NewMockCreditCardRepository() *MockCreditCardRepository {
	return &MockCreditCardRepository{
		Cards: make(map[uuid.UUID]*domain.CreditCard),
	}
}

// AddCard adds a card to the mock repository (helper for tests)
func (m *MockCreditCardRepository) AddCard(card *domain.CreditCard) {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	m.Cards[card.ID] = card
}

// Create stores a new card
func (m *MockCreditCardRepository) Create(card *domain.CreditCard) (*domain.CreditCard, error) {
	m.AddCard(card)
	return card, nil
}

// GetByID retrieves a card by ID
func (m *MockCreditCardRepository) GetByID(id uuid.UUID) (*domain.CreditCard, error) {
	if c, ok := m.Cards[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCreditCardNotFound
}

// ListByCreators returns the cards created by any of the given emails, sorted by name
func (m *MockCreditCardRepository) ListByCreators(emails []string) ([]*domain.CreditCard, error) {
	result := make([]*domain.CreditCard, 0)
	for _, c := range m.Cards {
		if containsEmail(emails, c.CreatedBy) {
			result = append(result, c)
		}
	}
	sortCards(result)
	return result, nil
}

// ListAll returns every card
func (m *MockCreditCardRepository) ListAll() ([]*domain.CreditCard, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn()
	}
	result := make([]*domain.CreditCard, 0, len(m.Cards))
	for _, c := range m.Cards {
		result = append(result, c)
	}
	sortCards(result)
	return result, nil
}

// Update replaces an existing card
func (m *MockCreditCardRepository) Update(card *domain.CreditCard) (*domain.CreditCard, error) {
	if _, ok := m.Cards[card.ID]; !ok {
		return nil, domain.ErrCreditCardNotFound
	}
	m.Cards[card.ID] = card
	return card, nil
}

// Delete removes a card
func (m *MockCreditCardRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Cards[id]; !ok {
		return domain.ErrCreditCardNotFound
	}
	delete(m.Cards, id)
	return nil
}

func sortCards(cards []*domain.CreditCard) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Name != cards[j].Name {
			return cards[i].Name < cards[j].Name
		}
		return cards[i].ID.String() < cards[j].ID.String()
	})
}

// MockFamilyRepository is a mock implementation of domain.FamilyRepository.
// Families are keyed by owner email.
type MockFamilyRepository struct {
	Names        map[string]string
	Members      map[string][]*domain.FamilyMember
	GetContextFn func(userEmail string) (*domain.FamilyContext, error)
}

// NewMockFamilyRepository creates a new MockFamilyRepository
func NewMockFamilyRepository() *MockFamilyRepository {
	return &MockFamilyRepository{
		Names:   make(map[string]string),
		Members: make(map[string][]*domain.FamilyMember),
	}
}

// SetFamily creates a family owned by ownerEmail with the given active members (helper for tests)
func (m *MockFamilyRepository) SetFamily(ownerEmail, name string, members ...*domain.FamilyMember) {
	m.Names[ownerEmail] = name
	list := []*domain.FamilyMember{{
		Name:       ownerEmail,
		Email:      ownerEmail,
		Permission: domain.PermissionCanEdit,
		Role:       domain.MemberRoleOwner,
		Status:     domain.MemberStatusActive,
	}}
	m.Members[ownerEmail] = append(list, members...)
}

func (m *MockFamilyRepository) ownerOf(userEmail string) (string, bool) {
	if _, ok := m.Members[userEmail]; ok {
		return userEmail, true
	}
	for owner, members := range m.Members {
		for _, member := range members {
			if strings.EqualFold(member.Email, userEmail) {
				return owner, true
			}
		}
	}
	return "", false
}

// GetContext returns the family the user owns or belongs to, owner row included
func (m *MockFamilyRepository) GetContext(userEmail string) (*domain.FamilyContext, error) {
	if m.GetContextFn != nil {
		return m.GetContextFn(userEmail)
	}
	ctx := &domain.FamilyContext{UserEmail: userEmail, Members: []*domain.FamilyMember{}}
	owner, ok := m.ownerOf(userEmail)
	if !ok {
		return ctx, nil
	}
	ctx.HasFamily = true
	ctx.FamilyName = m.Names[owner]
	ctx.Members = append(ctx.Members, m.Members[owner]...)
	return ctx, nil
}

// AddMember appends a member to the owner's family, creating the family if needed
func (m *MockFamilyRepository) AddMember(ownerEmail string, member *domain.FamilyMember) (*domain.FamilyMember, error) {
	if _, ok := m.Members[ownerEmail]; !ok {
		m.SetFamily(ownerEmail, "")
	}
	m.Members[ownerEmail] = append(m.Members[ownerEmail], member)
	return member, nil
}

// UpdateMember replaces a member of the owner's family
func (m *MockFamilyRepository) UpdateMember(ownerEmail string, member *domain.FamilyMember) (*domain.FamilyMember, error) {
	for i, existing := range m.Members[ownerEmail] {
		if strings.EqualFold(existing.Email, member.Email) {
			m.Members[ownerEmail][i] = member
			return member, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

// RemoveMember removes a member from the owner's family
func (m *MockFamilyRepository) RemoveMember(ownerEmail string, memberEmail string) error {
	members := m.Members[ownerEmail]
	for i, existing := range members {
		if strings.EqualFold(existing.Email, memberEmail) {
			m.Members[ownerEmail] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return domain.ErrMemberNotFound
}

// MockGoalRepository is a mock implementation of domain.GoalRepository
type MockGoalRepository struct {
	Goals map[uuid.UUID]*domain.MonthlyGoal
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{
		Goals: make(map[uuid.UUID]*domain.MonthlyGoal),
	}
}

// Create stores a new goal, rejecting a second goal for the same creator, month and category
func (m *MockGoalRepository) Create(goal *domain.MonthlyGoal) (*domain.MonthlyGoal, error) {
	for _, g := range m.Goals {
		if strings.EqualFold(g.CreatedBy, goal.CreatedBy) && g.Month == goal.Month && g.Category == goal.Category {
			return nil, domain.ErrAlreadyExists
		}
	}
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	m.Goals[goal.ID] = goal
	return goal, nil
}

// GetByID retrieves a goal by ID
func (m *MockGoalRepository) GetByID(id uuid.UUID) (*domain.MonthlyGoal, error) {
	if g, ok := m.Goals[id]; ok {
		return g, nil
	}
	return nil, domain.ErrGoalNotFound
}

// ListByMonth returns the goals of the given month created by any of the emails, sorted by category
func (m *MockGoalRepository) ListByMonth(emails []string, month string) ([]*domain.MonthlyGoal, error) {
	result := make([]*domain.MonthlyGoal, 0)
	for _, g := range m.Goals {
		if g.Month == month && containsEmail(emails, g.CreatedBy) {
			result = append(result, g)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})
	return result, nil
}

// Delete removes a goal
func (m *MockGoalRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Goals[id]; !ok {
		return domain.ErrGoalNotFound
	}
	delete(m.Goals, id)
	return nil
}

// PublishedEvent is an event captured by MockEventPublisher
type PublishedEvent struct {
	UserEmail string
	Event     websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// Publish records the event
func (m *MockEventPublisher) Publish(userEmail string, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserEmail: userEmail, Event: event})
}

// Recipients returns the users that received an event of the given type
func (m *MockEventPublisher) Recipients(eventType string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var emails []string
	for _, e := range m.Events {
		if e.Event.Type == eventType {
			emails = append(emails, e.UserEmail)
		}
	}
	return emails
}
