// Package finance projects the return on an investment-project stake.
package finance

import (
	"fmt"

	"github.com/iwvelando/loan-quote/pkg/constants"
	"github.com/iwvelando/loan-quote/pkg/mathutil"
	"github.com/iwvelando/loan-quote/pkg/validation"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ProjectionInput describes a stake and how it grows.
type ProjectionInput struct {
	Name                string  `json:"name" yaml:"name"`
	Principal           float64 `json:"principal" yaml:"principal"`
	AnnualReturnRate    float64 `json:"annualReturnRate" yaml:"annualReturnRate"`
	TaxRate             float64 `json:"taxRate" yaml:"taxRate"`
	Months              int     `json:"months" yaml:"months"`
	MonthlyContribution float64 `json:"monthlyContribution" yaml:"monthlyContribution"`
}

// Validate reports every input outside its domain.
func (in ProjectionInput) Validate() error {
	return multierr.Combine(
		validation.NonNegative("principal", in.Principal),
		validation.Finite("annualReturnRate", in.AnnualReturnRate),
		validation.NonNegative("taxRate", in.TaxRate),
		validation.PositiveInt("months", in.Months),
		validation.NonNegative("monthlyContribution", in.MonthlyContribution),
	)
}

// ProjectionMonth captures the computed deltas for a single month.
type ProjectionMonth struct {
	Month           int     `json:"month"`
	Contribution    float64 `json:"contribution"`
	GrowthBeforeTax float64 `json:"growthBeforeTax"`
	Tax             float64 `json:"tax"`
	Growth          float64 `json:"growth"`
	Value           float64 `json:"value"`
}

// Projection is the month-by-month outcome of a stake.
type Projection struct {
	Name        string            `json:"name"`
	Months      []ProjectionMonth `json:"months"`
	Invested    float64           `json:"invested"`
	FinalValue  float64           `json:"finalValue"`
	TotalGrowth float64           `json:"totalGrowth"`
	TotalTax    float64           `json:"totalTax"`
	ROIPercent  float64           `json:"roiPercent"`
}

// ProjectionProcessor handles monthly projection computations.
type ProjectionProcessor struct {
	logger *zap.Logger
}

// NewProjectionProcessor creates a processor for projection calculations.
func NewProjectionProcessor(logger *zap.Logger) *ProjectionProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectionProcessor{logger: logger}
}

// Project compounds the stake monthly. Contributions land at the start of
// each month after the first and grow with it; tax only applies to gains.
func (pp *ProjectionProcessor) Project(in ProjectionInput) (Projection, error) {
	if err := in.Validate(); err != nil {
		return Projection{}, fmt.Errorf("projection %s: %w", in.Name, err)
	}

	monthlyRate := in.AnnualReturnRate / constants.PercentageMultiplier / constants.MonthsPerYear
	result := Projection{
		Name:     in.Name,
		Months:   make([]ProjectionMonth, 0, in.Months),
		Invested: in.Principal,
	}

	value := in.Principal
	for month := 1; month <= in.Months; month++ {
		var change ProjectionMonth
		change.Month = month

		if month > 1 && in.MonthlyContribution > 0 {
			change.Contribution = in.MonthlyContribution
			value += in.MonthlyContribution
			result.Invested += in.MonthlyContribution
		}

		change.GrowthBeforeTax = value * monthlyRate
		if change.GrowthBeforeTax > 0 && in.TaxRate > 0 {
			change.Tax = mathutil.ApplyPercentage(change.GrowthBeforeTax, in.TaxRate)
		}
		change.Growth = change.GrowthBeforeTax - change.Tax
		value += change.Growth
		change.Value = value

		result.TotalGrowth += change.Growth
		result.TotalTax += change.Tax
		result.Months = append(result.Months, change)
	}

	result.FinalValue = value
	if result.Invested > 0 {
		result.ROIPercent = (result.FinalValue - result.Invested) / result.Invested * constants.PercentageMultiplier
	}

	pp.logger.Debug(fmt.Sprintf("projected %s over %d months", in.Name, in.Months),
		zap.String("op", "finance.Project"),
		zap.Float64("finalValue", mathutil.Round(result.FinalValue)),
		zap.Float64("roiPercent", mathutil.Round(result.ROIPercent)),
	)

	return result, nil
}
