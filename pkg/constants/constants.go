// Package constants provides shared constants for the cgt-calculator application.
package constants

// DateLayout is the format expected in config files, on the command line and
// in API payloads. It is also the output date format.
const DateLayout = "2006-01-02"

// Tax constants
const (
	// DiscountThresholdDays is the holding period an asset must exceed to
	// qualify for the CGT discount. A fixed day count stands in for
	// "more than 12 months".
	DiscountThresholdDays = 365

	// DiscountRate is the fraction of a discounted gain that is taxable.
	DiscountRate = "0.5"

	// SecondsPerDay is used to turn calendar-day differences into whole days.
	SecondsPerDay = 24 * 60 * 60

	// CentsPlaces is the number of decimal places used for currency rounding.
	CentsPlaces = 2
	// MaxPriceIntegerDigits bounds the whole-dollar digits of a price.
	MaxPriceIntegerDigits = 15
	// MaxPriceDecimalPlaces bounds the fractional digits of a price.
	MaxPriceDecimalPlaces = 10
)

// Input defaults offered to users who do not supply a value.
const (
	// DefaultBuyPrice is the default purchase price.
	DefaultBuyPrice = 1000.0

	// DefaultSellPrice is the default sale price.
	DefaultSellPrice = 2500.0

	// DefaultBuyDate is the default purchase date. The default sell date is today.
	DefaultBuyDate = "2023-01-01"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML batches (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// MaxCalculateBodyBytes caps a single-disposal JSON request.
	MaxCalculateBodyBytes int64 = 16 * 1024

	// DefaultBatchConcurrency bounds how many scenarios are evaluated at once.
	DefaultBatchConcurrency = 8
)

// Messages shown to users alongside a result.
const (
	DiscountEligibleMessage  = "Eligible for 50% Discount (>12M)"
	NoDiscountMessage        = "No Discount (<12M)"
	CarryForwardMessage      = "This loss can be carried forward to offset future capital gains."
	BreakEvenMessage         = "Break even. No gain, no loss."
	InvalidDateOrderMessage  = "Sell date cannot be earlier than Buy date."
	Disclaimer               = "Disclaimer: This tool is for educational purposes only. Please consult a registered tax agent for official advice."
	AssessableIncomeTemplate = "This %s will be added to your assessable income for the financial year."
)
