package service

import (
	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/websocket"
	"golang.org/x/sync/errgroup"
)

// snapshot is the read-only data a calculation runs over
type snapshot struct {
	cards        []*domain.CreditCard
	transactions []*domain.Transaction
}

// loadSnapshot fetches cards and transactions for the scope concurrently
func loadSnapshot(cardRepo domain.CreditCardRepository, transactionRepo domain.TransactionRepository, emails []string) (*snapshot, error) {
	var g errgroup.Group
	snap := &snapshot{}

	if cardRepo != nil {
		g.Go(func() error {
			cards, err := cardRepo.ListByCreators(emails)
			if err != nil {
				return err
			}
			snap.cards = cards
			return nil
		})
	}

	g.Go(func() error {
		transactions, err := transactionRepo.ListByCreators(emails)
		if err != nil {
			return err
		}
		snap.transactions = transactions
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// publishToFamily sends the event to every account that shares data with the actor
func publishToFamily(publisher websocket.EventPublisher, familyService *FamilyService, actorEmail string, event websocket.Event) {
	if publisher == nil {
		return
	}
	recipients, err := familyService.AuthorizedEmails(actorEmail)
	if err != nil {
		recipients = []string{actorEmail}
	}
	for _, email := range recipients {
		publisher.Publish(email, event)
	}
}
