// Package constants provides shared constants for the loan-quote application.
package constants

// DateTimeLayout is the format used for installment due dates in schedules
// and config files.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyDecimalPlaces is the number of places kept for cent-exact amounts
	CurrencyDecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Eligibility constants
const (
	// DefaultCeilingRatio caps property-backed loans at 70% of the collateral value.
	DefaultCeilingRatio = 0.70
)

// Bounds that trigger configuration warnings. They are not hard limits.
const (
	// MaxReasonableTermMonths is 50 years of monthly installments
	MaxReasonableTermMonths = 600

	// MaxReasonableAnnualRate is the annual rate percent above which a quote is flagged
	MaxReasonableAnnualRate = 100.0
)

// MaxScheduleInstallments is the hard limit on installments in a generated
// schedule; longer terms can still be quoted without one.
const MaxScheduleInstallments = MaxReasonableTermMonths

// Currency defaults
const (
	// DefaultLocale is the BCP 47 tag used when none is configured
	DefaultLocale = "en-TZ"

	// DefaultCurrencyCode is the ISO 4217 code used when none is configured
	DefaultCurrencyCode = "TZS"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default quote batch file name
	DefaultConfigFile = "quotes.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML batches (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultShutdownTimeoutSeconds bounds graceful shutdown of the HTTP server
	DefaultShutdownTimeoutSeconds = 10
)
