package domain

import "errors"

var (
	// Loan errors
	ErrInvalidLoanTerms       = errors.New("invalid loan terms")
	ErrLoanNotFound           = errors.New("loan not found")
	ErrLoanNotFullyPaid       = errors.New("loan is not fully paid")
	ErrInvalidStateTransition = errors.New("invalid loan state transition")

	// Payment errors
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidPaymentMode    = errors.New("invalid payment mode")
	ErrInvalidReference      = errors.New("invalid payment reference")
	ErrNoPendingInstallments = errors.New("no pending installments")
	ErrPaymentNotFound       = errors.New("payment not found")
)
