package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommitmentWindowMonths is the number of monthly buckets in a commitment forecast
const CommitmentWindowMonths = 12

type CommitmentKind string

const (
	CommitmentKindInstallment CommitmentKind = "installment"
	CommitmentKindRecurring   CommitmentKind = "recurring"
)

// CommitmentItem is one future obligation derived from an installment plan or a recurring flag
type CommitmentItem struct {
	ID                  string          `json:"id"`
	SourceTransactionID uuid.UUID       `json:"sourceTransactionId"`
	Description         string          `json:"description"`
	Amount              decimal.Decimal `json:"amount"`
	Category            string          `json:"category"`
	Kind                CommitmentKind  `json:"kind"`
	InstallmentLabel    string          `json:"installmentLabel,omitempty"`
}

// MonthlyCommitment is a forecast bucket for a single month
type MonthlyCommitment struct {
	Month     string           `json:"month"`
	MonthName string           `json:"monthName"`
	Items     []CommitmentItem `json:"items"`
	Total     decimal.Decimal  `json:"total"`
}
