package errs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ValidationError marks a missing or malformed request field. Never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a missing ingredient, inventory row, or restaurant.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError rejects a removal that would drive quantity
// negative. The affected row is left unchanged.
type InsufficientStockError struct {
	IngredientID string
	Available    decimal.Decimal
	Requested    decimal.Decimal
	Unit         string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("cannot remove %s %s - only %s %s available",
		e.Requested.String(), e.Unit, e.Available.String(), e.Unit)
}

// DataAccessError wraps a failed store call. Fatal for the current request.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

func NewDataAccess(op string, err error) *DataAccessError {
	return &DataAccessError{Op: op, Err: err}
}

// HTTPStatus maps an error to the response status its class calls for.
func HTTPStatus(err error) int {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		insufficient *InsufficientStockError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &insufficient):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
