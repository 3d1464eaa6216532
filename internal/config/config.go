// Package config defines the data structures of a quote batch file and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/loan-quote/pkg/constants"
	"github.com/iwvelando/loan-quote/pkg/loans"
	"github.com/iwvelando/loan-quote/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for a quote batch.
type Configuration struct {
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
	Output      OutputConfig      `yaml:"output,omitempty"`
	Currency    CurrencyConfig    `yaml:"currency,omitempty"`
	Eligibility EligibilityConfig `yaml:"eligibility,omitempty"`
	Quotes      []Quote           `yaml:"quotes"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// CurrencyConfig selects the formatting profile for every amount in the batch.
type CurrencyConfig struct {
	Locale string `yaml:"locale,omitempty"`
	Code   string `yaml:"code,omitempty"`
}

// EligibilityConfig holds the collateral policy.
type EligibilityConfig struct {
	CeilingRatio float64 `yaml:"ceilingRatio,omitempty"`
}

// Quote is one loan to evaluate. PropertyValue is optional; without it no
// eligibility assessment is made.
type Quote struct {
	Name          string  `yaml:"name"`
	Active        bool    `yaml:"active"`
	Principal     float64 `yaml:"principal"`
	AnnualRate    float64 `yaml:"annualRate"`
	TermMonths    int     `yaml:"termMonths"`
	PropertyValue float64 `yaml:"propertyValue,omitempty"`
	StartDate     string  `yaml:"startDate,omitempty"`
	Schedule      bool    `yaml:"schedule,omitempty"`
}

// Request converts the quote into calculator input.
func (q Quote) Request() loans.LoanQuoteRequest {
	return loans.LoanQuoteRequest{
		Principal:         q.Principal,
		AnnualRatePercent: q.AnnualRate,
		TermMonths:        q.TermMonths,
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

// newViper returns an isolated instance so concurrent loads never share state.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix("LOAN_QUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("currency.locale", constants.DefaultLocale)
	v.SetDefault("currency.code", constants.DefaultCurrencyCode)
	v.SetDefault("eligibility.ceilingRatio", constants.DefaultCeilingRatio)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ActiveQuotes returns the quotes flagged active, in file order.
func (conf *Configuration) ActiveQuotes() []Quote {
	var active []Quote
	for _, q := range conf.Quotes {
		if q.Active {
			active = append(active, q)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	return conf.ValidateConfigurationAt(time.Now())
}

// ValidateConfigurationAt validates relative to a fixed time for testing.
func (conf *Configuration) ValidateConfigurationAt(now time.Time) []string {
	validator := validation.ConfigValidator{CeilingRatio: conf.Eligibility.CeilingRatio}
	for _, q := range conf.Quotes {
		validator.Quotes = append(validator.Quotes, validation.QuoteConfig{
			Name:          q.Name,
			Active:        q.Active,
			Principal:     q.Principal,
			AnnualRate:    q.AnnualRate,
			TermMonths:    q.TermMonths,
			PropertyValue: q.PropertyValue,
			StartDate:     q.StartDate,
		})
	}
	return validator.ValidateAll(now)
}
