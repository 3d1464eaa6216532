// Package output provides utilities for formatting and displaying quote results.
package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-quote/internal/quote"
	"github.com/iwvelando/loan-quote/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, results []quote.Result) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		fmt.Fprintf(w, "--- Results for quote %s ---\n", result.Name)
		if result.Err != nil {
			fmt.Fprintf(w, "Error: %v\n", result.Err)
		} else {
			fmt.Fprintf(w, "Monthly payment: %s\n", result.Display.Payment)
			fmt.Fprintf(w, "Total payment:   %s\n", result.Display.TotalPayment)
			fmt.Fprintf(w, "Total interest:  %s\n", result.Display.TotalInterest)
			if result.MaturityDate != "" {
				fmt.Fprintf(w, "Maturity:        %s\n", result.MaturityDate)
			}
			if a := result.Assessment; a != nil {
				fmt.Fprintf(w, "Max loan amount: %s\n", result.Display.MaxLoanAmount)
				_, _ = p.Fprintf(w, "Loan to value:   %.2f%%\n", a.LoanToValue)
				fmt.Fprintf(w, "Eligible:        %t\n", a.Eligible)
			}
			if s := result.Schedule; s != nil {
				fmt.Fprintf(w, "\nNo.  | Due     | Payment       | Principal     | Interest      | Remaining\n")
				fmt.Fprintf(w, "___  | ___     | _______       | _________     | ________      | _________\n")
				for _, inst := range s.Installments {
					_, _ = p.Fprintf(w, "%-4d | %s | %13.2f | %13.2f | %13.2f | %.2f\n",
						inst.Number, inst.DueDate,
						inst.Payment.InexactFloat64(), inst.Principal.InexactFloat64(),
						inst.Interest.InexactFloat64(), inst.RemainingPrincipal.InexactFloat64())
				}
			}
		}
		if i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat writes one comma-separated row per quote.
func CsvFormat(w io.Writer, results []quote.Result) {
	fmt.Fprintf(w, `"name","payment","total payment","total interest","max loan amount","loan to value","eligible","maturity","error"`)
	fmt.Fprintf(w, "\n")
	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(w, `%s,"","","","","","","",%s`, csvField(result.Name), csvField(result.Err.Error()))
			fmt.Fprintf(w, "\n")
			continue
		}
		maxLoan, ltv, eligible := "", "", ""
		if a := result.Assessment; a != nil {
			maxLoan = fmt.Sprintf("%.2f", a.MaxLoanAmount)
			ltv = fmt.Sprintf("%.2f", a.LoanToValue)
			eligible = fmt.Sprintf("%t", a.Eligible)
		}
		fmt.Fprintf(w, `%s,"%s","%s","%s","%s","%s","%s","%s",""`,
			csvField(result.Name),
			result.Quote.Payment.StringFixed(constants.CurrencyDecimalPlaces),
			result.Quote.TotalPayment.StringFixed(constants.CurrencyDecimalPlaces),
			result.Quote.TotalInterest.StringFixed(constants.CurrencyDecimalPlaces),
			maxLoan, ltv, eligible, result.MaturityDate,
		)
		fmt.Fprintf(w, "\n")
	}
}

// ScheduleCsvFormat writes the installments of every scheduled quote.
func ScheduleCsvFormat(w io.Writer, results []quote.Result) {
	fmt.Fprintf(w, `"name","number","due","payment","principal","interest","remaining"`)
	fmt.Fprintf(w, "\n")
	for _, result := range results {
		if result.Schedule == nil {
			continue
		}
		for _, inst := range result.Schedule.Installments {
			fmt.Fprintf(w, `%s,"%d","%s","%s","%s","%s","%s"`,
				csvField(result.Name), inst.Number, inst.DueDate,
				inst.Payment.StringFixed(constants.CurrencyDecimalPlaces),
				inst.Principal.StringFixed(constants.CurrencyDecimalPlaces),
				inst.Interest.StringFixed(constants.CurrencyDecimalPlaces),
				inst.RemainingPrincipal.StringFixed(constants.CurrencyDecimalPlaces),
			)
			fmt.Fprintf(w, "\n")
		}
	}
}

// csvField quotes free text, doubling embedded quotes.
func csvField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// CsvString returns the CsvFormat rendering of results.
func CsvString(results []quote.Result) string {
	var buf bytes.Buffer
	CsvFormat(&buf, results)
	return buf.String()
}

// Write renders results in the named format.
func Write(w io.Writer, outputFormat string, results []quote.Result) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		CsvFormat(w, results)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
	return nil
}
