package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/util"
	"github.com/dafibh/fortuna/famfin-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultCardStatusSchedule runs the sweep every day shortly after midnight
const DefaultCardStatusSchedule = "5 0 * * *"

// CardStatusWorker periodically resolves every card's status and notifies
// the card's family when an invoice becomes overdue
type CardStatusWorker struct {
	cardRepo        domain.CreditCardRepository
	transactionRepo domain.TransactionRepository
	familyService   *FamilyService
	publisher       websocket.EventPublisher
	logger          zerolog.Logger
	schedule        string
	location        *time.Location
	now             func() time.Time

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	// notified remembers the month a card was last reported overdue
	notified map[uuid.UUID]string
}

// CardStatusWorkerConfig holds configuration for the card status worker
type CardStatusWorkerConfig struct {
	Schedule string // Standard 5-field cron expression
	Location *time.Location
}

// DefaultCardStatusWorkerConfig returns sensible defaults
func DefaultCardStatusWorkerConfig() CardStatusWorkerConfig {
	return CardStatusWorkerConfig{
		Schedule: DefaultCardStatusSchedule,
		Location: time.UTC,
	}
}

// SweepResult summarizes one pass over all cards
type SweepResult struct {
	Checked  int
	Overdue  int
	Notified int
	Errors   int
}

// NewCardStatusWorker creates a new card status worker
func NewCardStatusWorker(
	cardRepo domain.CreditCardRepository,
	transactionRepo domain.TransactionRepository,
	familyService *FamilyService,
	publisher websocket.EventPublisher,
	logger zerolog.Logger,
	config CardStatusWorkerConfig,
) *CardStatusWorker {
	if config.Schedule == "" {
		config.Schedule = DefaultCardStatusSchedule
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}

	return &CardStatusWorker{
		cardRepo:        cardRepo,
		transactionRepo: transactionRepo,
		familyService:   familyService,
		publisher:       publisher,
		logger:          logger.With().Str("component", "card_status_worker").Logger(),
		schedule:        config.Schedule,
		location:        config.Location,
		now:             time.Now,
		notified:        make(map[uuid.UUID]string),
	}
}

// Start schedules the sweep. It returns an error when the schedule cannot be parsed.
func (w *CardStatusWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	c := cron.New(cron.WithLocation(w.location))
	if _, err := c.AddFunc(w.schedule, func() { w.Sweep(w.now().In(w.location)) }); err != nil {
		return fmt.Errorf("add card status sweep: %w", err)
	}
	c.Start()

	w.cron = c
	w.running = true
	w.logger.Info().
		Str("schedule", w.schedule).
		Str("timezone", w.location.String()).
		Msg("Starting card status worker")
	return nil
}

// Stop waits for a running sweep to finish and stops the scheduler
func (w *CardStatusWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	c := w.cron
	w.running = false
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping card status worker")
	<-c.Stop().Done()
	w.logger.Info().Msg("Card status worker stopped")
}

// IsRunning returns whether the worker is currently scheduled
func (w *CardStatusWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Sweep resolves the status of every card as of today and publishes
// credit_card.overdue once per card and month
func (w *CardStatusWorker) Sweep(today time.Time) SweepResult {
	startTime := time.Now()
	result := SweepResult{}

	cards, err := w.cardRepo.ListAll()
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to list cards for status sweep")
		result.Errors++
		return result
	}

	month := util.MonthKey(today)
	scopeTransactions := make(map[string][]*domain.Transaction)

	for _, card := range cards {
		result.Checked++

		transactions, ok := scopeTransactions[card.CreatedBy]
		if !ok {
			emails, err := w.familyService.AuthorizedEmails(card.CreatedBy)
			if err == nil {
				transactions, err = w.transactionRepo.ListByCreators(emails)
			}
			if err != nil {
				w.logger.Error().
					Err(err).
					Str("user_email", card.CreatedBy).
					Msg("Failed to load transactions for status sweep")
				result.Errors++
				continue
			}
			scopeTransactions[card.CreatedBy] = transactions
		}

		overview := BuildCardOverview(today, card, transactions)
		if overview.Status.Label != domain.CycleStatusOverdue {
			continue
		}
		result.Overdue++

		w.mu.Lock()
		alreadyNotified := w.notified[card.ID] == month
		w.notified[card.ID] = month
		w.mu.Unlock()
		if alreadyNotified {
			continue
		}

		publishToFamily(w.publisher, w.familyService, card.CreatedBy, websocket.CreditCardOverdue(overview))
		result.Notified++

		w.logger.Debug().
			Str("card_id", card.ID.String()).
			Str("user_email", card.CreatedBy).
			Msg("Card invoice overdue")
	}

	w.logger.Info().
		Int("cards", result.Checked).
		Int("overdue", result.Overdue).
		Int("notified", result.Notified).
		Int("errors", result.Errors).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed card status sweep")
	return result
}
