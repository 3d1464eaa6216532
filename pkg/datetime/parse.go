// Package datetime provides month-granular date helpers for installment schedules.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-quote/pkg/constants"
)

const (
	// DateTimeLayout is the format of installment due dates.
	DateTimeLayout = constants.DateTimeLayout
)

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// Month formats t as a due-date month.
func Month(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// MonthSequence returns count consecutive months beginning at start.
func MonthSequence(start string, count int) ([]string, error) {
	first, err := time.Parse(DateTimeLayout, start)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start month %q: %w", start, err)
	}
	months := make([]string, 0, count)
	for i := 0; i < count; i++ {
		months = append(months, first.AddDate(0, i, 0).Format(DateTimeLayout))
	}
	return months, nil
}
