package loans

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/loan-quote/pkg/validation"
)

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name              string
		principal         float64
		annualRatePercent float64
		termMonths        int
		expectedRange     []float64 // [min, max] expected range
	}{
		{
			name:              "Standard 30-year mortgage",
			principal:         240000,
			annualRatePercent: 6.0,
			termMonths:        360,
			expectedRange:     []float64{1438, 1440}, // Around $1438.92
		},
		{
			name:              "5-year car loan",
			principal:         20000,
			annualRatePercent: 4.0,
			termMonths:        60,
			expectedRange:     []float64{368, 369}, // Around $368.33
		},
		{
			name:              "Zero interest loan",
			principal:         10000,
			annualRatePercent: 0.0,
			termMonths:        60,
			expectedRange:     []float64{166.66, 166.67}, // Exactly 166.666...
		},
		{
			name:              "High interest loan",
			principal:         10000,
			annualRatePercent: 18.0,
			termMonths:        36,
			expectedRange:     []float64{361, 362}, // Around $361.52
		},
		{
			name:              "Property-backed loan in shillings",
			principal:         140000000,
			annualRatePercent: 13.0,
			termMonths:        72,
			expectedRange:     []float64{2805000, 2815000}, // Around 2,810,386
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateMonthlyPayment(tt.principal, tt.annualRatePercent, tt.termMonths)
			if err != nil {
				t.Fatalf("CalculateMonthlyPayment() error = %v", err)
			}

			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("CalculateMonthlyPayment() = %.2f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestCalculateMonthlyPaymentReferenceValue(t *testing.T) {
	// 100000 * 0.01 * 1.01^12 / (1.01^12 - 1)
	result, err := CalculateMonthlyPayment(100000, 12.0, 12)
	if err != nil {
		t.Fatalf("CalculateMonthlyPayment() error = %v", err)
	}
	if math.Round(result*100)/100 != 8884.88 {
		t.Errorf("CalculateMonthlyPayment() = %.4f, expected 8884.88", result)
	}
}

func TestCalculateMonthlyPaymentZeroRateIsExact(t *testing.T) {
	cases := []struct {
		principal float64
		term      int
	}{
		{1200, 12},
		{100, 3},
		{140000000, 72},
		{0.01, 7},
		{999999.99, 1},
	}

	for _, c := range cases {
		result, err := CalculateMonthlyPayment(c.principal, 0, c.term)
		if err != nil {
			t.Fatalf("CalculateMonthlyPayment(%v, 0, %d) error = %v", c.principal, c.term, err)
		}
		if result != c.principal/float64(c.term) {
			t.Errorf("CalculateMonthlyPayment(%v, 0, %d) = %v, expected %v",
				c.principal, c.term, result, c.principal/float64(c.term))
		}
	}
}

func TestCalculateMonthlyPaymentCoversPrincipal(t *testing.T) {
	for _, principal := range []float64{0.5, 1000, 175000, 140000000} {
		for _, rate := range []float64{0.001, 0.5, 4.5, 13, 36, 99} {
			for _, term := range []int{1, 2, 12, 72, 360, 600} {
				result, err := CalculateMonthlyPayment(principal, rate, term)
				if err != nil {
					t.Fatalf("CalculateMonthlyPayment(%v, %v, %d) error = %v", principal, rate, term, err)
				}
				if result <= 0 {
					t.Errorf("CalculateMonthlyPayment(%v, %v, %d) = %v, expected > 0", principal, rate, term, result)
				}
				if result*float64(term) <= principal {
					t.Errorf("CalculateMonthlyPayment(%v, %v, %d) * term = %v, expected > principal",
						principal, rate, term, result*float64(term))
				}
			}
		}
	}
}

func TestCalculateMonthlyPaymentSingleInstallment(t *testing.T) {
	result, err := CalculateMonthlyPayment(50000, 12, 1)
	if err != nil {
		t.Fatalf("CalculateMonthlyPayment() error = %v", err)
	}
	expected := 50000 * (1 + 0.01)
	if math.Abs(result-expected) > 1e-6 {
		t.Errorf("CalculateMonthlyPayment(50000, 12, 1) = %v, expected %v", result, expected)
	}

	result, err = CalculateMonthlyPayment(50000, 0, 1)
	if err != nil {
		t.Fatalf("CalculateMonthlyPayment() error = %v", err)
	}
	if result != 50000 {
		t.Errorf("CalculateMonthlyPayment(50000, 0, 1) = %v, expected 50000", result)
	}
}

func TestCalculateMonthlyPaymentIdempotent(t *testing.T) {
	first, err := CalculateMonthlyPayment(140000000, 13, 72)
	if err != nil {
		t.Fatalf("CalculateMonthlyPayment() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := CalculateMonthlyPayment(140000000, 13, 72)
		if err != nil {
			t.Fatalf("CalculateMonthlyPayment() error = %v", err)
		}
		if again != first {
			t.Fatalf("CalculateMonthlyPayment() call %d = %v, expected %v", i, again, first)
		}
	}
}

func TestCalculateMonthlyPaymentTinyRate(t *testing.T) {
	result, err := CalculateMonthlyPayment(1200, 1e-12, 12)
	if err != nil {
		t.Fatalf("CalculateMonthlyPayment() error = %v", err)
	}
	if math.Abs(result-100) > 1e-6 {
		t.Errorf("CalculateMonthlyPayment() = %v, expected about 100", result)
	}
}

func TestCalculateMonthlyPaymentInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		term      int
	}{
		{"Zero principal", 0, 5, 12},
		{"Negative principal", -1000, 5, 12},
		{"Negative rate", 1000, -0.01, 12},
		{"Zero term", 1000, 5, 0},
		{"Negative term", 1000, 5, -12},
		{"NaN principal", math.NaN(), 5, 12},
		{"Infinite principal", math.Inf(1), 5, 12},
		{"NaN rate", 1000, math.NaN(), 12},
		{"Overflowing growth", 1000, 1e6, 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CalculateMonthlyPayment(tt.principal, tt.rate, tt.term)
			if !errors.Is(err, validation.ErrInvalidInput) {
				t.Fatalf("CalculateMonthlyPayment() error = %v, expected ErrInvalidInput", err)
			}
			if result != 0 {
				t.Errorf("CalculateMonthlyPayment() = %v on error, expected 0", result)
			}
		})
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	tests := []struct {
		name               string
		remainingPrincipal float64
		annualRatePercent  float64
		expected           float64
	}{
		{"Standard mortgage interest", 200000, 6.0, 1000.0},
		{"Car loan interest", 15000, 4.5, 56.25},
		{"Zero interest", 10000, 0.0, 0.0},
		{"Monthly one percent", 100000, 12.0, 1000.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInterestPayment(tt.remainingPrincipal, tt.annualRatePercent)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("CalculateInterestPayment() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestNewQuote(t *testing.T) {
	quote, err := NewQuote(LoanQuoteRequest{Principal: 100000, AnnualRatePercent: 12, TermMonths: 12})
	if err != nil {
		t.Fatalf("NewQuote() error = %v", err)
	}

	if got := quote.Payment.StringFixed(2); got != "8884.88" {
		t.Errorf("Payment = %s, expected 8884.88", got)
	}
	if got := quote.TotalPayment.StringFixed(2); got != "106618.55" {
		t.Errorf("TotalPayment = %s, expected 106618.55", got)
	}
	if got := quote.TotalInterest.StringFixed(2); got != "6618.55" {
		t.Errorf("TotalInterest = %s, expected 6618.55", got)
	}
	if quote.Request.TermMonths != 12 {
		t.Errorf("Request not carried on result: %+v", quote.Request)
	}
}

func TestNewQuoteZeroRate(t *testing.T) {
	quote, err := NewQuote(LoanQuoteRequest{Principal: 1200, TermMonths: 12})
	if err != nil {
		t.Fatalf("NewQuote() error = %v", err)
	}
	if quote.MonthlyPayment != 100 {
		t.Errorf("MonthlyPayment = %v, expected 100", quote.MonthlyPayment)
	}
	if !quote.TotalInterest.IsZero() {
		t.Errorf("TotalInterest = %s, expected 0", quote.TotalInterest)
	}
}

func TestNewQuoteInvalid(t *testing.T) {
	_, err := NewQuote(LoanQuoteRequest{Principal: -1, AnnualRatePercent: -1, TermMonths: 0})
	if !errors.Is(err, validation.ErrInvalidInput) {
		t.Fatalf("NewQuote() error = %v, expected ErrInvalidInput", err)
	}
	if n := len(validation.InputErrors(err)); n != 3 {
		t.Errorf("expected 3 input errors, got %d", n)
	}
}

func TestLoanQuoteRequestValidate(t *testing.T) {
	if err := (LoanQuoteRequest{Principal: 1, TermMonths: 1}).Validate(); err != nil {
		t.Errorf("Validate() unexpected error = %v", err)
	}
	if err := (LoanQuoteRequest{Principal: 1}).Validate(); err == nil {
		t.Error("Validate() expected error for zero term")
	}
}
