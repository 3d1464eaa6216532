package loans

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-quote/pkg/constants"
	"github.com/iwvelando/loan-quote/pkg/datetime"
	"github.com/iwvelando/loan-quote/pkg/mathutil"
	"github.com/iwvelando/loan-quote/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Installment holds the values for a given payment.
type Installment struct {
	Number             int             `json:"number"`
	DueDate            string          `json:"dueDate"`
	Payment            decimal.Decimal `json:"payment"`
	Principal          decimal.Decimal `json:"principal"`
	Interest           decimal.Decimal `json:"interest"`
	RemainingPrincipal decimal.Decimal `json:"remainingPrincipal"`
}

// Schedule is a complete amortization table in cents.
type Schedule struct {
	Installments  []Installment   `json:"installments"`
	TotalPayment  decimal.Decimal `json:"totalPayment"`
	TotalInterest decimal.Decimal `json:"totalInterest"`
	MaturityDate  string          `json:"maturityDate"`
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger, now: time.Now}
}

// GenerateSchedule creates a complete amortization schedule for a loan. The
// first installment falls due in startDate; an empty startDate means the
// current month. Every installment pays the cent-rounded level payment and
// the final one absorbs the rounding residue so the balance closes at zero.
func (g *AmortizationScheduleGenerator) GenerateSchedule(req LoanQuoteRequest, startDate string) (Schedule, error) {
	monthlyPayment, err := CalculateMonthlyPayment(req.Principal, req.AnnualRatePercent, req.TermMonths)
	if err != nil {
		return Schedule{}, err
	}
	if req.TermMonths > constants.MaxScheduleInstallments {
		return Schedule{}, fmt.Errorf("schedule: %w", &validation.InputError{
			Field:  "termMonths",
			Value:  float64(req.TermMonths),
			Reason: fmt.Sprintf("must not exceed %d months for a schedule", constants.MaxScheduleInstallments),
		})
	}

	payment := mathutil.Cents(monthlyPayment)
	if payment.IsZero() {
		return Schedule{}, fmt.Errorf("schedule: %w", &validation.InputError{
			Field:  "principal",
			Value:  req.Principal,
			Reason: fmt.Sprintf("is too small to schedule over %d months in whole cents", req.TermMonths),
		})
	}

	if startDate == "" {
		startDate = datetime.Month(g.now())
	}
	dueDates, err := datetime.MonthSequence(startDate, req.TermMonths)
	if err != nil {
		return Schedule{}, err
	}

	rate := decimal.NewFromFloat(req.AnnualRatePercent).
		Div(decimal.NewFromFloat(constants.PercentageMultiplier * constants.MonthsPerYear))
	balance := mathutil.Cents(req.Principal)

	schedule := Schedule{
		Installments: make([]Installment, 0, req.TermMonths),
		MaturityDate: dueDates[len(dueDates)-1],
	}

	for month := 1; month <= req.TermMonths; month++ {
		interest := balance.Mul(rate).Round(constants.CurrencyDecimalPlaces)
		principal := payment.Sub(interest)

		current := Installment{
			Number:   month,
			DueDate:  dueDates[month-1],
			Interest: interest,
		}

		if month == req.TermMonths || principal.GreaterThanOrEqual(balance) {
			// Close out the remaining balance; cent rounding leaves a residue
			// of a few cents on the last installment.
			current.Principal = balance
			current.Payment = balance.Add(interest)
			current.RemainingPrincipal = decimal.Zero
		} else {
			current.Principal = principal
			current.Payment = payment
			current.RemainingPrincipal = balance.Sub(principal)
		}

		balance = current.RemainingPrincipal
		schedule.Installments = append(schedule.Installments, current)
		schedule.TotalPayment = schedule.TotalPayment.Add(current.Payment)
		schedule.TotalInterest = schedule.TotalInterest.Add(current.Interest)

		if balance.IsZero() {
			break
		}
	}

	if last := schedule.Installments[len(schedule.Installments)-1]; last.DueDate != schedule.MaturityDate {
		g.logger.Debug(fmt.Sprintf("loan paid off early at installment %d of %d", last.Number, req.TermMonths),
			zap.String("op", "loans.GenerateSchedule"),
		)
		schedule.MaturityDate = last.DueDate
	}

	g.logger.Debug("generated amortization schedule",
		zap.String("op", "loans.GenerateSchedule"),
		zap.String("start", startDate),
		zap.String("maturity", schedule.MaturityDate),
		zap.Int("installments", len(schedule.Installments)),
		zap.String("payment", payment.StringFixed(constants.CurrencyDecimalPlaces)),
	)

	return schedule, nil
}

// RemainingBalance returns the balance outstanding after the given installment
// number; zero before the first installment returns the full principal.
func (s Schedule) RemainingBalance(afterInstallment int) (decimal.Decimal, error) {
	if afterInstallment < 0 || afterInstallment > len(s.Installments) {
		return decimal.Zero, fmt.Errorf("installment %d outside schedule of %d", afterInstallment, len(s.Installments))
	}
	if afterInstallment == 0 {
		if len(s.Installments) == 0 {
			return decimal.Zero, nil
		}
		first := s.Installments[0]
		return first.RemainingPrincipal.Add(first.Principal), nil
	}
	return s.Installments[afterInstallment-1].RemainingPrincipal, nil
}
