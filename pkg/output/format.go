// Package output provides utilities for formatting and displaying CGT results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/cgt-calculator/internal/assessment"
	"github.com/iwvelando/cgt-calculator/internal/cgt"
	"github.com/iwvelando/cgt-calculator/pkg/constants"
	"github.com/iwvelando/cgt-calculator/pkg/datetime"
	"github.com/iwvelando/cgt-calculator/pkg/format"
	"github.com/iwvelando/cgt-calculator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Record is the serialisable view of one assessment.
type Record struct {
	Name      string      `json:"name,omitempty"`
	BuyPrice  float64     `json:"buyPrice"`
	BuyDate   string      `json:"buyDate"`
	SellPrice float64     `json:"sellPrice"`
	SellDate  string      `json:"sellDate"`
	Result    *ResultView `json:"result,omitempty"`
	Error     *ErrorView  `json:"error,omitempty"`
}

// ResultView is the serialisable view of a cgt.DisposalResult.
type ResultView struct {
	HeldDays           int         `json:"heldDays"`
	GrossProfit        float64     `json:"grossProfit"`
	Outcome            cgt.Outcome `json:"outcome"`
	IsDiscountEligible bool        `json:"isDiscountEligible"`
	TaxableIncome      float64     `json:"taxableIncome"`
	CapitalLoss        float64     `json:"capitalLoss"`
	DiscountStatus     string      `json:"discountStatus,omitempty"`
}

// ErrorView is the serialisable view of an engine rejection.
type ErrorView struct {
	ErrorKind string `json:"errorKind"`
	Message   string `json:"message"`
}

// NewResultView converts an engine result.
func NewResultView(result cgt.DisposalResult) *ResultView {
	return &ResultView{
		HeldDays:           result.HeldDays,
		GrossProfit:        mathutil.ToFloat(result.GrossProfit),
		Outcome:            result.Outcome,
		IsDiscountEligible: result.IsDiscountEligible,
		TaxableIncome:      mathutil.ToFloat(result.TaxableIncome),
		CapitalLoss:        mathutil.ToFloat(result.CapitalLoss),
		DiscountStatus:     result.DiscountStatus(),
	}
}

// NewErrorView converts an engine error. Errors that are not a
// cgt.ValidationError are reported with an empty kind.
func NewErrorView(err error) *ErrorView {
	view := &ErrorView{Message: err.Error()}
	var validationErr *cgt.ValidationError
	if errors.As(err, &validationErr) {
		view.ErrorKind = validationErr.Kind.String()
	}
	return view
}

// NewRecord converts an assessment into its serialisable view.
func NewRecord(a assessment.Assessment) Record {
	record := Record{
		Name:      a.Name,
		BuyPrice:  mathutil.ToFloat(a.Input.BuyPrice),
		BuyDate:   datetime.FormatDate(a.Input.BuyDate),
		SellPrice: mathutil.ToFloat(a.Input.SellPrice),
		SellDate:  datetime.FormatDate(a.Input.SellDate),
	}
	if a.Failed() {
		record.Error = NewErrorView(a.Err)
	} else {
		record.Result = NewResultView(a.Result)
	}
	return record
}

// NewRecords converts every assessment.
func NewRecords(results []assessment.Assessment) []Record {
	records := make([]Record, 0, len(results))
	for _, result := range results {
		records = append(records, NewRecord(result))
	}
	return records
}

// PrettyFormat writes a human-readable report for each assessment.
func PrettyFormat(w io.Writer, results []assessment.Assessment) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		if i > 0 {
			_, _ = fmt.Fprintf(w, "\n")
		}
		_, _ = fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)
		_, _ = fmt.Fprintf(w, "Bought: %s on %s\n", format.Currency(result.Input.BuyPrice), datetime.FormatDate(result.Input.BuyDate))
		_, _ = fmt.Fprintf(w, "Sold:   %s on %s\n", format.Currency(result.Input.SellPrice), datetime.FormatDate(result.Input.SellDate))

		if result.Failed() {
			_, _ = fmt.Fprintf(w, "Error: %s\n", errorText(result.Err))
			continue
		}

		r := result.Result
		_, _ = p.Fprintf(w, "Asset held for %d days\n", r.HeldDays)

		switch r.Outcome {
		case cgt.Gain:
			_, _ = fmt.Fprintf(w, "Gross Profit    | Discount Status                  | Taxable Income\n")
			_, _ = fmt.Fprintf(w, "____________    | _______________                  | ______________\n")
			_, _ = fmt.Fprintf(w, "%-15s | %-32s | %s\n",
				format.Currency(r.GrossProfit), r.DiscountStatus(), format.Currency(r.TaxableIncome))
			_, _ = fmt.Fprintf(w, constants.AssessableIncomeTemplate+"\n", format.Currency(r.TaxableIncome))
		case cgt.Loss:
			_, _ = fmt.Fprintf(w, "Capital Loss: %s\n", format.Currency(r.CapitalLoss))
			_, _ = fmt.Fprintf(w, "%s\n", constants.CarryForwardMessage)
		default:
			_, _ = fmt.Fprintf(w, "%s\n", constants.BreakEvenMessage)
		}
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", constants.Disclaimer)
}

func errorText(err error) string {
	var validationErr *cgt.ValidationError
	if errors.As(err, &validationErr) && validationErr.Kind == cgt.InvalidDateOrder {
		return constants.InvalidDateOrderMessage
	}
	return err.Error()
}

var csvHeader = []string{
	"name", "buy price", "buy date", "sell price", "sell date", "held days",
	"outcome", "gross profit", "discount eligible", "taxable income", "capital loss", "error",
}

// CsvFormat writes one comma-separated row per assessment.
func CsvFormat(w io.Writer, results []assessment.Assessment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, result := range results {
		row := []string{
			result.Name,
			format.NumericCurrency(result.Input.BuyPrice),
			datetime.FormatDate(result.Input.BuyDate),
			format.NumericCurrency(result.Input.SellPrice),
			datetime.FormatDate(result.Input.SellDate),
		}
		if result.Failed() {
			row = append(row, "", "", "", "", "", "", errorText(result.Err))
		} else {
			r := result.Result
			row = append(row,
				strconv.Itoa(r.HeldDays),
				r.Outcome.String(),
				format.NumericCurrency(r.GrossProfit),
				strconv.FormatBool(r.IsDiscountEligible),
				format.NumericCurrency(r.TaxableIncome),
				format.NumericCurrency(r.CapitalLoss),
				"",
			)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV rendering of results.
func CsvString(results []assessment.Assessment) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return ""
	}
	return buf.String()
}

// JSONFormat writes the assessments as an indented JSON array.
func JSONFormat(w io.Writer, results []assessment.Assessment) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewRecords(results))
}

// Write renders results in the named output format.
func Write(w io.Writer, outputFormat string, results []assessment.Assessment) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		PrettyFormat(w, results)
		return nil
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	default:
		return fmt.Errorf("unsupported output format %s", outputFormat)
	}
}
