// Package loans provides the amortized payment calculator and schedule generator.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/loan-quote/pkg/constants"
	"github.com/iwvelando/loan-quote/pkg/mathutil"
	"github.com/iwvelando/loan-quote/pkg/validation"
	"github.com/shopspring/decimal"
)

// LoanQuoteRequest holds the inputs of a single payment quote.
type LoanQuoteRequest struct {
	Principal         float64 `json:"principal" yaml:"principal"`
	AnnualRatePercent float64 `json:"annualRate" yaml:"annualRate"`
	TermMonths        int     `json:"termMonths" yaml:"termMonths"`
}

// Validate reports every input that falls outside the quote domain.
func (r LoanQuoteRequest) Validate() error {
	return validation.ValidateQuoteInputs(r.Principal, r.AnnualRatePercent, r.TermMonths)
}

// LoanQuoteResult holds a computed quote. MonthlyPayment is the unrounded
// formula value; the decimal fields are the same amounts rounded to cents.
type LoanQuoteResult struct {
	Request        LoanQuoteRequest `json:"request"`
	MonthlyPayment float64          `json:"monthlyPayment"`
	Payment        decimal.Decimal  `json:"payment"`
	TotalPayment   decimal.Decimal  `json:"totalPayment"`
	TotalInterest  decimal.Decimal  `json:"totalInterest"`
}

// MonthlyRate converts an annual nominal percentage into a monthly rate.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualRatePercent float64, termMonths int) (float64, error) {
	if err := validation.ValidateQuoteInputs(principal, annualRatePercent, termMonths); err != nil {
		return 0, fmt.Errorf("monthly payment: %w", err)
	}

	r := MonthlyRate(annualRatePercent)
	var payment float64
	if r == 0 {
		payment = principal / float64(termMonths)
	} else {
		// growth is (1+r)^N - 1, kept accurate for very small r.
		growth := math.Expm1(float64(termMonths) * math.Log1p(r))
		payment = principal * r * (1.00 + growth) / growth
	}

	// Extreme but finite inputs can still overflow or underflow float64.
	if math.IsInf(payment, 0) || math.IsNaN(payment) || payment <= 0 {
		return 0, fmt.Errorf("monthly payment: %w", &validation.InputError{
			Field:  "principal",
			Value:  principal,
			Reason: fmt.Sprintf("is out of range at %.4f%% over %d months", annualRatePercent, termMonths),
		})
	}
	return payment, nil
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualRatePercent float64) float64 {
	return remainingPrincipal * MonthlyRate(annualRatePercent)
}

// NewQuote computes the level payment for req along with the totals over the
// full term.
func NewQuote(req LoanQuoteRequest) (LoanQuoteResult, error) {
	payment, err := CalculateMonthlyPayment(req.Principal, req.AnnualRatePercent, req.TermMonths)
	if err != nil {
		return LoanQuoteResult{}, err
	}

	total := mathutil.Cents(payment * float64(req.TermMonths))
	return LoanQuoteResult{
		Request:        req,
		MonthlyPayment: payment,
		Payment:        mathutil.Cents(payment),
		TotalPayment:   total,
		TotalInterest:  total.Sub(mathutil.Cents(req.Principal)),
	}, nil
}
