package utils

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = errors.New("product not found in inventory")
	ErrPurchaseNotFound = errors.New("purchase not found")
)

// ValidationError marks malformed input rejected before any write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports an attempted over-sell. The message must
// carry requested vs available so the UI can surface both.
type InsufficientStockError struct {
	ProductName string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %s, available %s",
		e.ProductName, e.Requested, e.Available)
}

// CommitError wraps a store failure on the atomic batch. The batch is
// all-or-nothing, so no partial state is visible; callers may retry.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return "transaction commit failed: " + e.Err.Error()
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
