// Package eligibility derives collateral-backed loan limits and loan-to-value ratios.
package eligibility

import (
	"fmt"

	"github.com/iwvelando/loan-quote/pkg/constants"
	"github.com/iwvelando/loan-quote/pkg/mathutil"
	"github.com/iwvelando/loan-quote/pkg/validation"
	"go.uber.org/multierr"
)

// Assessment combines the ceiling and LTV derivations for one request.
type Assessment struct {
	PropertyValue   float64 `json:"propertyValue"`
	CeilingRatio    float64 `json:"ceilingRatio"`
	MaxLoanAmount   float64 `json:"maxLoanAmount"`
	RequestedAmount float64 `json:"requestedAmount"`
	LoanToValue     float64 `json:"loanToValue"`
	Eligible        bool    `json:"eligible"`
	Headroom        float64 `json:"headroom"`
}

// MaxLoanAmount returns the largest loan allowed against a property of the
// given value under ceilingRatio.
func MaxLoanAmount(propertyValue, ceilingRatio float64) (float64, error) {
	if err := multierr.Combine(
		validation.NonNegative("propertyValue", propertyValue),
		validation.NonNegative("ceilingRatio", ceilingRatio),
	); err != nil {
		return 0, fmt.Errorf("max loan amount: %w", err)
	}
	return propertyValue * ceilingRatio, nil
}

// LoanToValueRatio expresses requestedAmount as a percentage of propertyValue.
func LoanToValueRatio(requestedAmount, propertyValue float64) (float64, error) {
	if err := multierr.Combine(
		validation.NonNegative("requestedAmount", requestedAmount),
		validation.NonNegative("propertyValue", propertyValue),
	); err != nil {
		return 0, fmt.Errorf("loan-to-value ratio: %w", err)
	}
	if propertyValue == 0 {
		return 0, fmt.Errorf("loan-to-value ratio: property value is zero: %w", validation.ErrDivisionByZero)
	}
	return (requestedAmount / propertyValue) * constants.PercentageMultiplier, nil
}

// Assess derives both values for a request; a zero ceilingRatio selects the
// default 70% cap.
func Assess(requestedAmount, propertyValue, ceilingRatio float64) (Assessment, error) {
	if ceilingRatio == 0 {
		ceilingRatio = constants.DefaultCeilingRatio
	}

	maxLoan, err := MaxLoanAmount(propertyValue, ceilingRatio)
	if err != nil {
		return Assessment{}, err
	}
	ltv, err := LoanToValueRatio(requestedAmount, propertyValue)
	if err != nil {
		return Assessment{}, err
	}

	return Assessment{
		PropertyValue:   propertyValue,
		CeilingRatio:    ceilingRatio,
		MaxLoanAmount:   maxLoan,
		RequestedAmount: requestedAmount,
		LoanToValue:     ltv,
		Eligible:        mathutil.AtMost(requestedAmount, maxLoan),
		Headroom:        mathutil.Round(maxLoan - requestedAmount),
	}, nil
}
