package service

import (
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
)

// CommitmentService builds the future commitments forecast for a user's family scope
type CommitmentService struct {
	transactionRepo domain.TransactionRepository
	familyService   *FamilyService
}

// NewCommitmentService creates a new CommitmentService
func NewCommitmentService(transactionRepo domain.TransactionRepository, familyService *FamilyService) *CommitmentService {
	return &CommitmentService{
		transactionRepo: transactionRepo,
		familyService:   familyService,
	}
}

// GetCommitments projects installments and recurring transactions over the 12 months starting at today.
// With nonEmptyOnly set, months without commitments are left out.
func (s *CommitmentService) GetCommitments(userEmail string, today time.Time, nonEmptyOnly bool) ([]domain.MonthlyCommitment, error) {
	emails, err := s.familyService.AuthorizedEmails(userEmail)
	if err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(nil, s.transactionRepo, emails)
	if err != nil {
		return nil, err
	}

	months := ProjectCommitments(today, snap.transactions)
	if nonEmptyOnly {
		return NonEmptyCommitments(months), nil
	}
	return months, nil
}
