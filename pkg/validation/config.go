package validation

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-quote/pkg/constants"
	"github.com/iwvelando/loan-quote/pkg/mathutil"
)

// ValidateStartDate checks that a schedule start date parses and returns a
// warning when the last installment falls due before the current month.
func ValidateStartDate(quoteName, startDate string, termMonths int, now time.Time) (string, error) {
	if startDate == "" {
		return "", nil
	}
	start, err := time.Parse(constants.DateTimeLayout, startDate)
	if err != nil {
		return "", fmt.Errorf("quote '%s' has invalid start date %q: %w", quoteName, startDate, err)
	}

	// The last installment falls due termMonths-1 months after the first.
	maturity := start.AddDate(0, termMonths-1, 0)
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if maturity.Before(currentMonth) {
		return fmt.Sprintf("Quote '%s' matures before today (%s) - schedule lies entirely in the past",
			quoteName, maturity.Format(constants.DateTimeLayout)), nil
	}
	return "", nil
}

// ValidateTerms flags quote terms that are valid but unusual.
func ValidateTerms(quoteName string, annualRate float64, termMonths int) []string {
	var warnings []string

	if termMonths > constants.MaxReasonableTermMonths {
		warnings = append(warnings, fmt.Sprintf("Quote '%s' term of %d months exceeds %d months",
			quoteName, termMonths, constants.MaxReasonableTermMonths))
	}
	if annualRate > constants.MaxReasonableAnnualRate {
		warnings = append(warnings, fmt.Sprintf("Quote '%s' annual rate %.2f%% exceeds %.2f%%",
			quoteName, annualRate, constants.MaxReasonableAnnualRate))
	}

	return warnings
}

// ConfigValidator collects warnings for a quote batch.
type ConfigValidator struct {
	CeilingRatio float64
	Quotes       []QuoteConfig
}

// QuoteConfig is the subset of a configured quote needed for validation.
type QuoteConfig struct {
	Name          string
	Active        bool
	Principal     float64
	AnnualRate    float64
	TermMonths    int
	PropertyValue float64
	StartDate     string
}

// ValidateAll validates the entire batch and returns warnings
func (cv *ConfigValidator) ValidateAll(now time.Time) []string {
	var warnings []string

	if cv.CeilingRatio <= 0 || cv.CeilingRatio > 1 {
		warnings = append(warnings, fmt.Sprintf("Ceiling ratio %.2f is outside (0, 1]", cv.CeilingRatio))
	}

	seen := make(map[string]struct{}, len(cv.Quotes))
	for i, quote := range cv.Quotes {
		name := quote.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			warnings = append(warnings, fmt.Sprintf("Quote %s has no name", name))
		}
		if _, dup := seen[name]; dup {
			warnings = append(warnings, fmt.Sprintf("Quote '%s' is defined more than once", name))
		}
		seen[name] = struct{}{}

		if !quote.Active {
			continue
		}

		if err := ValidateQuoteInputs(quote.Principal, quote.AnnualRate, quote.TermMonths); err != nil {
			for _, inputErr := range InputErrors(err) {
				warnings = append(warnings, fmt.Sprintf("Quote '%s' will fail: %s", name, inputErr.Error()))
			}
			continue
		}

		warnings = append(warnings, ValidateTerms(name, quote.AnnualRate, quote.TermMonths)...)

		if quote.PropertyValue > 0 && !mathutil.AtMost(quote.Principal, quote.PropertyValue*cv.CeilingRatio) {
			warnings = append(warnings, fmt.Sprintf("Quote '%s' requests more than %.0f%% of the property value",
				name, cv.CeilingRatio*constants.PercentageMultiplier))
		}

		warning, err := ValidateStartDate(name, quote.StartDate, quote.TermMonths, now)
		if err != nil {
			warnings = append(warnings, err.Error())
		} else if warning != "" {
			warnings = append(warnings, warning)
		}
	}

	return warnings
}
