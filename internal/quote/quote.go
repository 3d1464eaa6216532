// Package quote evaluates quote batches: payment, eligibility, schedule and
// display strings for every active quote.
package quote

import (
	"fmt"

	"github.com/iwvelando/loan-quote/internal/config"
	"github.com/iwvelando/loan-quote/pkg/datetime"
	"github.com/iwvelando/loan-quote/pkg/eligibility"
	"github.com/iwvelando/loan-quote/pkg/format"
	"github.com/iwvelando/loan-quote/pkg/loans"
	"go.uber.org/zap"
)

// Result holds everything computed for one quote. Err is set when the quote
// itself was rejected; the other fields are then zero.
type Result struct {
	Name         string                  `json:"name"`
	Quote        loans.LoanQuoteResult   `json:"quote"`
	Assessment   *eligibility.Assessment `json:"assessment,omitempty"`
	Schedule     *loans.Schedule         `json:"schedule,omitempty"`
	MaturityDate string                  `json:"maturityDate,omitempty"`
	Display      Display                 `json:"display"`
	Err          error                   `json:"-"`
}

// Display holds the formatted amounts of a result.
type Display struct {
	Payment       string `json:"payment,omitempty"`
	TotalPayment  string `json:"totalPayment,omitempty"`
	TotalInterest string `json:"totalInterest,omitempty"`
	MaxLoanAmount string `json:"maxLoanAmount,omitempty"`
}

// Evaluator computes results under one currency profile and collateral policy.
type Evaluator struct {
	logger       *zap.Logger
	profile      format.Profile
	ceilingRatio float64
	generator    *loans.AmortizationScheduleGenerator
}

// NewEvaluator creates an evaluator; a nil logger is replaced by a no-op one.
func NewEvaluator(logger *zap.Logger, profile format.Profile, ceilingRatio float64) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		logger:       logger,
		profile:      profile,
		ceilingRatio: ceilingRatio,
		generator:    loans.NewAmortizationScheduleGenerator(logger),
	}
}

// Evaluate computes the result for a single quote.
func (e *Evaluator) Evaluate(q config.Quote) Result {
	result := Result{Name: q.Name}

	quoteResult, err := loans.NewQuote(q.Request())
	if err != nil {
		return e.fail(result, err)
	}
	result.Quote = quoteResult

	if q.PropertyValue > 0 {
		assessment, err := eligibility.Assess(q.Principal, q.PropertyValue, e.ceilingRatio)
		if err != nil {
			return e.fail(result, err)
		}
		result.Assessment = &assessment
	}

	if q.Schedule {
		schedule, err := e.generator.GenerateSchedule(q.Request(), q.StartDate)
		if err != nil {
			return e.fail(result, err)
		}
		result.Schedule = &schedule
		result.MaturityDate = schedule.MaturityDate
	} else if q.StartDate != "" {
		maturity, err := datetime.OffsetDate(q.StartDate, datetime.DateTimeLayout, q.TermMonths-1)
		if err != nil {
			return e.fail(result, fmt.Errorf("invalid start date %q: %w", q.StartDate, err))
		}
		result.MaturityDate = maturity
	}

	if err := e.display(&result); err != nil {
		return e.fail(result, err)
	}
	return result
}

func (e *Evaluator) display(result *Result) error {
	var err error
	if result.Display.Payment, err = format.FormatDecimal(result.Quote.Payment, e.profile); err != nil {
		return err
	}
	if result.Display.TotalPayment, err = format.FormatDecimal(result.Quote.TotalPayment, e.profile); err != nil {
		return err
	}
	if result.Display.TotalInterest, err = format.FormatDecimal(result.Quote.TotalInterest, e.profile); err != nil {
		return err
	}
	if result.Assessment != nil {
		if result.Display.MaxLoanAmount, err = format.FormatWithProfile(result.Assessment.MaxLoanAmount, e.profile); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) fail(result Result, err error) Result {
	e.logger.Warn(fmt.Sprintf("quote %s rejected", result.Name),
		zap.String("op", "quote.Evaluate"),
		zap.Error(err),
	)
	return Result{Name: result.Name, Err: err}
}

// Run processes every active quote in the configuration. A rejected quote is
// reported in its Result and never stops the batch.
func Run(logger *zap.Logger, conf config.Configuration) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	profile, err := format.ResolveProfile(conf.Currency.Locale, conf.Currency.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve currency profile: %w", err)
	}
	evaluator := NewEvaluator(logger, profile, conf.Eligibility.CeilingRatio)

	for _, q := range conf.Quotes {
		if !q.Active {
			logger.Debug(fmt.Sprintf("skipping quote %s because it is inactive", q.Name),
				zap.String("op", "quote.Run"),
			)
		}
	}

	var results []Result
	for _, q := range conf.ActiveQuotes() {
		results = append(results, evaluator.Evaluate(q))
	}

	logger.Info("quote batch evaluated",
		zap.String("op", "quote.Run"),
		zap.Int("quotes", len(results)),
		zap.Int("rejected", len(Failed(results))),
	)
	return results, nil
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
