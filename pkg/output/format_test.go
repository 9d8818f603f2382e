package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/cgt-calculator/internal/assessment"
	"github.com/iwvelando/cgt-calculator/internal/cgt"
	"github.com/iwvelando/cgt-calculator/pkg/constants"
	"github.com/iwvelando/cgt-calculator/pkg/datetime"
	"github.com/shopspring/decimal"
)

func assess(name, buyPrice, buyDate, sellPrice, sellDate string) assessment.Assessment {
	input := cgt.DisposalInput{
		BuyPrice:  decimal.RequireFromString(buyPrice),
		BuyDate:   datetime.MustParseTime(datetime.DateLayout, buyDate),
		SellPrice: decimal.RequireFromString(sellPrice),
		SellDate:  datetime.MustParseTime(datetime.DateLayout, sellDate),
	}
	return assessment.AssessOne(nil, name, input)
}

func sampleResults() []assessment.Assessment {
	return []assessment.Assessment{
		assess("Long Hold", "1000", "2023-01-01", "2500", "2024-01-02"),
		assess("Short Hold", "1000", "2023-01-01", "2500", "2023-06-01"),
		assess("Loss", "2000", "2023-01-01", "1500", "2023-06-01"),
		assess("Flat", "1000", "2023-01-01", "1000", "2023-06-01"),
		assess("Backwards", "1000", "2024-01-01", "1000", "2023-01-01"),
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, sampleResults())
	output := buf.String()

	expected := []string{
		"--- Results for scenario Long Hold ---",
		"Bought: $1,000.00 on 2023-01-01",
		"Sold:   $2,500.00 on 2024-01-02",
		"Asset held for 366 days",
		constants.DiscountEligibleMessage,
		"This $750.00 will be added to your assessable income for the financial year.",
		constants.NoDiscountMessage,
		"This $1,500.00 will be added to your assessable income for the financial year.",
		"Capital Loss: $500.00",
		constants.CarryForwardMessage,
		constants.BreakEvenMessage,
		"Error: " + constants.InvalidDateOrderMessage,
		constants.Disclaimer,
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat missing %q in output:\n%s", want, output)
		}
	}
}

func TestPrettyFormatThousandsOfDays(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, []assessment.Assessment{assess("Decades", "0", "1990-01-01", "1", "2030-01-01")})

	if !strings.Contains(buf.String(), "Asset held for 14,610 days") {
		t.Errorf("PrettyFormat did not group day count: %s", buf.String())
	}
}

func TestPrettyFormatEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, nil)

	if strings.Contains(buf.String(), "--- Results") {
		t.Errorf("PrettyFormat printed a scenario for empty results")
	}
	if !strings.Contains(buf.String(), constants.Disclaimer) {
		t.Errorf("PrettyFormat missing disclaimer")
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, sampleResults()); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("failed to read CSV back: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected header and 5 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("unexpected header %v", rows[0])
	}

	longHold := rows[1]
	if longHold[5] != "366" || longHold[6] != "Gain" || longHold[7] != "1,500.00" || longHold[8] != "true" || longHold[9] != "750.00" {
		t.Errorf("unexpected long hold row %v", longHold)
	}

	loss := rows[3]
	if loss[6] != "Loss" || loss[10] != "500.00" || loss[9] != "0.00" {
		t.Errorf("unexpected loss row %v", loss)
	}

	if rows[1][1] != "1,000.00" || rows[1][3] != "2,500.00" {
		t.Errorf("expected grouped amounts, got %v", rows[1])
	}

	backwards := rows[5]
	if backwards[5] != "" || backwards[11] != constants.InvalidDateOrderMessage {
		t.Errorf("unexpected error row %v", backwards)
	}
}

func TestCsvString(t *testing.T) {
	csvOutput := CsvString(sampleResults()[:1])
	if !strings.HasPrefix(csvOutput, "name,buy price,buy date") {
		t.Errorf("CsvString() missing header: %q", csvOutput)
	}
	if !strings.Contains(csvOutput, `Long Hold,"1,000.00",2023-01-01,"2,500.00",2024-01-02,366,Gain`) {
		t.Errorf("CsvString() missing data row: %q", csvOutput)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, sampleResults()); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var records []Record
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("failed to decode JSON output: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}

	first := records[0]
	if first.Result == nil || first.Error != nil {
		t.Fatalf("expected a result for the first record, got %+v", first)
	}
	if first.Result.TaxableIncome != 750 || !first.Result.IsDiscountEligible || first.Result.Outcome != cgt.Gain {
		t.Errorf("unexpected first result %+v", first.Result)
	}
	if first.Result.DiscountStatus != constants.DiscountEligibleMessage {
		t.Errorf("unexpected discount status %q", first.Result.DiscountStatus)
	}

	last := records[4]
	if last.Error == nil || last.Result != nil {
		t.Fatalf("expected an error for the last record, got %+v", last)
	}
	if last.Error.ErrorKind != "InvalidDateOrder" {
		t.Errorf("unexpected error kind %q", last.Error.ErrorKind)
	}
	if !strings.Contains(buf.String(), `"outcome": "Loss"`) {
		t.Errorf("expected outcome encoded by name, got %s", buf.String())
	}
}

func TestWrite(t *testing.T) {
	for _, format := range []string{constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON} {
		var buf bytes.Buffer
		if err := Write(&buf, format, sampleResults()); err != nil {
			t.Errorf("Write(%s) error = %v", format, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%s) produced no output", format)
		}
	}

	if err := Write(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Error("Write() expected error for unsupported format")
	}
}
