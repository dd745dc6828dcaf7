package domain

import "errors"

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrAlreadyExists          = errors.New("resource already exists")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInternalError          = errors.New("internal error")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrCreditCardNotFound     = errors.New("credit card not found")
	ErrGoalNotFound           = errors.New("monthly goal not found")
	ErrMemberNotFound         = errors.New("family member not found")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidLimit           = errors.New("limit must not be negative")
	ErrInvalidDay             = errors.New("day must be between 1 and 31")
	ErrInvalidMonth           = errors.New("month must be in YYYY-MM format")
	ErrInvalidInstallments    = errors.New("invalid installment plan")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidPaymentMethod   = errors.New("invalid payment method")
	ErrInvalidPaymentStatus   = errors.New("invalid payment status")
	ErrCardRequiresCardMethod = errors.New("credit card can only be set for card payments")
	ErrInvalidPermission      = errors.New("invalid permission level")
	ErrCannotRemoveOwner      = errors.New("family owner cannot be removed")
)

// Validation constants
const (
	MaxNameLength = 255
	MinCycleDay   = 1
	MaxCycleDay   = 31
)
