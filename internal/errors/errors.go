// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidTradeType            = errors.New("invalid trade type")
	ErrInvalidQuantity             = errors.New("invalid quantity")
	ErrInvalidPrice                = errors.New("invalid price")
	ErrSearchExhausted             = errors.New("better-price search exhausted")
	ErrNoQualifyingPartialQuantity = errors.New("no qualifying partial quantity")
	ErrCollaboratorTimeout         = errors.New("collaborator timed out")
	ErrCollaboratorFailure         = errors.New("collaborator failed")
	ErrLedgerInconsistency         = errors.New("ledger append failed after order placement")
	ErrConfigInvalid               = errors.New("invalid configuration")
	ErrNotAuthenticated            = errors.New("not authenticated")
	ErrMarketClosed                = errors.New("market is closed")
)

// ValidationError represents a validation error on a trade request field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError wrapping the sentinel
// that identifies the failure kind.
func NewValidationError(field string, value interface{}, message string, sentinel error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     sentinel,
	}
}

// CollaboratorError represents a failure from an external collaborator
// (order gateway, market-trend advisor, trade ledger).
type CollaboratorError struct {
	Collaborator string
	Operation    string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator error [%s] %s: %v", e.Collaborator, e.Operation, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// NewCollaboratorError creates a new CollaboratorError.
func NewCollaboratorError(collaborator, operation string, err error) *CollaboratorError {
	return &CollaboratorError{
		Collaborator: collaborator,
		Operation:    operation,
		Err:          err,
	}
}

// SearchError represents a failed alternative-strategy search.
type SearchError struct {
	Strategy string
	Bound    string
	Err      error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search error [%s]: bound %s: %v", e.Strategy, e.Bound, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// NewSearchError creates a new SearchError.
func NewSearchError(strategy, bound string, err error) *SearchError {
	return &SearchError{
		Strategy: strategy,
		Bound:    bound,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
