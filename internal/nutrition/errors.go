package nutrition

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInsufficientInput is matched by every *InsufficientInputError.
var ErrInsufficientInput = errors.New("insufficient profile data")

// InsufficientInputError reports which biometric fields were missing,
// non-numeric, or non-positive. Callers fall back to static defaults.
type InsufficientInputError struct {
	Missing []string
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("insufficient profile data: missing %s", strings.Join(e.Missing, ", "))
}

func (e *InsufficientInputError) Is(target error) bool {
	return target == ErrInsufficientInput
}

// ErrInvalidNumeric is matched by every *InvalidNumericError.
var ErrInvalidNumeric = errors.New("invalid numeric value")

// InvalidNumericError is returned when a submitted target is not a
// non-negative number.
type InvalidNumericError struct {
	Field string
	Value any
}

func (e *InvalidNumericError) Error() string {
	return fmt.Sprintf("%s: target must be a non-negative number, got %v", e.Field, e.Value)
}

func (e *InvalidNumericError) Is(target error) bool {
	return target == ErrInvalidNumeric
}

// ErrPlanVersionNotFound is returned when activating a version that was
// never stored.
var ErrPlanVersionNotFound = errors.New("plan version not found")
