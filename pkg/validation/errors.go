package validation

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"
)

var (
	// ErrInvalidInput marks a calculation input outside its valid domain.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDivisionByZero marks a ratio whose denominator is zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// InputError describes a single rejected input field.
type InputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s (got %v)", e.Field, e.Reason, e.Value)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// Finite rejects NaN and infinities.
func Finite(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &InputError{Field: field, Value: value, Reason: "must be a finite number"}
	}
	return nil
}

// Positive requires a finite value strictly greater than zero.
func Positive(field string, value float64) error {
	if err := Finite(field, value); err != nil {
		return err
	}
	if value <= 0 {
		return &InputError{Field: field, Value: value, Reason: "must be greater than zero"}
	}
	return nil
}

// NonNegative requires a finite value greater than or equal to zero.
func NonNegative(field string, value float64) error {
	if err := Finite(field, value); err != nil {
		return err
	}
	if value < 0 {
		return &InputError{Field: field, Value: value, Reason: "must not be negative"}
	}
	return nil
}

// PositiveInt requires an integer count of at least one.
func PositiveInt(field string, value int) error {
	if value <= 0 {
		return &InputError{Field: field, Value: float64(value), Reason: "must be at least 1"}
	}
	return nil
}

// ValidateQuoteInputs checks the amortized payment inputs and reports every
// violation at once.
func ValidateQuoteInputs(principal, annualRatePercent float64, termMonths int) error {
	return multierr.Combine(
		Positive("principal", principal),
		NonNegative("annualRatePercent", annualRatePercent),
		PositiveInt("termMonths", termMonths),
	)
}

// InputErrors flattens err into the InputErrors it carries, looking through
// any wrapping around the combined error.
func InputErrors(err error) []*InputError {
	errs := multierr.Errors(err)
	var group interface{ Errors() []error }
	if errors.As(err, &group) {
		errs = group.Errors()
	}

	var out []*InputError
	for _, e := range errs {
		var inputErr *InputError
		if errors.As(e, &inputErr) {
			out = append(out, inputErr)
		}
	}
	return out
}
