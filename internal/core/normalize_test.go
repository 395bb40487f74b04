package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestResolveIdentifier(t *testing.T) {
	cases := []struct {
		chain    string
		customer string
		want     string
	}{
		{"  Acme Corp  ", "Jane Doe", "Acme Corp"},
		{"", "Jane Doe", "Jane Doe"},
		{"SIN CADENA", "Jane Doe", "Jane Doe"},
		{"None", "Jane Doe", "Jane Doe"},
		{"nan", "Jane Doe", "Jane Doe"},
		{"NaN", "Jane Doe", "Jane Doe"},
		{"   ", "  Jane Doe  ", "Jane Doe"},
		{"Cadena Norte", "Jane Doe", "Cadena Norte"},
	}
	for i, tc := range cases {
		if got := ResolveIdentifier(tc.chain, tc.customer); got != tc.want {
			t.Errorf("case %d: ResolveIdentifier(%q, %q) = %q, want %q", i, tc.chain, tc.customer, got, tc.want)
		}
	}
}

func TestNormalizeDropsUnparseableDates(t *testing.T) {
	rows := []TransactionRow{
		{Date: "2025-03-01", Amount: "100", CustomerName: "X"},
		{Date: "not-a-date", Amount: "100", CustomerName: "X"},
		{Date: "", Amount: "100", CustomerName: "X"},
	}
	norm := Normalize(rows, ReportRequest{})
	if len(norm) != 1 {
		t.Fatalf("expected 1 normalized row, got %d", len(norm))
	}
	if norm[0].Year != 2025 || norm[0].Month != 3 {
		t.Fatalf("unexpected year/month: %d/%d", norm[0].Year, norm[0].Month)
	}
}

func TestNormalizeDropsYearsOutsideComparison(t *testing.T) {
	rows := []TransactionRow{
		{Date: "2024-03-01", Amount: "100", CustomerName: "X"},
		{Date: "2025-03-01", Amount: "100", CustomerName: "X"},
		{Date: "2026-03-01", Amount: "100", CustomerName: "X"},
		{Date: "2027-03-01", Amount: "100", CustomerName: "X"},
	}
	norm := Normalize(rows, ReportRequest{})
	if len(norm) != 2 {
		t.Fatalf("expected 2 normalized rows, got %d", len(norm))
	}
}

func TestNormalizeCoercesBadNumbers(t *testing.T) {
	rows := []TransactionRow{
		{Date: "2026-01-15", Amount: "abc", Quantity: "??", CustomerName: "X"},
		{Date: "2026-01-16", Amount: "12,5", Quantity: "3", CustomerName: "X"},
	}
	norm := Normalize(rows, ReportRequest{})
	if len(norm) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(norm))
	}
	if !norm[0].ActualAmount.IsZero() || !norm[0].ActualQuantity.IsZero() {
		t.Errorf("bad numbers should coerce to zero, got %s / %s", norm[0].ActualAmount, norm[0].ActualQuantity)
	}
	if !norm[1].ActualAmount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("comma decimal not parsed: got %s", norm[1].ActualAmount)
	}
}

// A thousands-grouped amount turns ambiguous once the comma swap runs, so it
// coerces to zero rather than being misread as a different number.
func TestNormalizeGroupedAmountCoercesToZero(t *testing.T) {
	rows := []TransactionRow{
		{Date: "2026-01-15", Amount: "1,234.56", Quantity: "1", CustomerName: "X"},
	}
	norm := Normalize(rows, ReportRequest{})
	if len(norm) != 1 {
		t.Fatalf("expected 1 row, got %d", len(norm))
	}
	if !norm[0].ActualAmount.IsZero() {
		t.Errorf("grouped amount should coerce to zero, got %s", norm[0].ActualAmount)
	}
	if !norm[0].ActualQuantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("quantity should survive on the same row, got %s", norm[0].ActualQuantity)
	}
}

func TestNormalizeObjectiveScaling(t *testing.T) {
	rows := []TransactionRow{
		{Date: "2025-03-01", Amount: "100", Quantity: "10", CustomerName: "X"},
		{Date: "2026-03-01", Amount: "150", Quantity: "12", CustomerName: "X"},
	}

	norm := Normalize(rows, ReportRequest{ObjectivePct: 20})
	if len(norm) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(norm))
	}

	base := norm[0]
	if !base.ObjectiveAmount.Equal(decimal.NewFromInt(120)) {
		t.Errorf("objective amount = %s, want 120", base.ObjectiveAmount)
	}
	if !base.ObjectiveQuantity.Equal(decimal.NewFromInt(12)) {
		t.Errorf("objective quantity = %s, want 12", base.ObjectiveQuantity)
	}
	if !base.ActualAmount.IsZero() {
		t.Errorf("base-year row must have zero actual amount, got %s", base.ActualAmount)
	}

	curr := norm[1]
	if !curr.ActualAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("actual amount = %s, want 150", curr.ActualAmount)
	}
	if !curr.ObjectiveAmount.IsZero() {
		t.Errorf("current-year row must have zero objective amount, got %s", curr.ObjectiveAmount)
	}
}

func TestNormalizeZeroPctIsExact(t *testing.T) {
	rows := []TransactionRow{{Date: "2025-07-01", Amount: "33.33", CustomerName: "X"}}
	norm := Normalize(rows, ReportRequest{ObjectivePct: 0})
	if len(norm) != 1 {
		t.Fatalf("expected 1 row, got %d", len(norm))
	}
	if !norm[0].ObjectiveAmount.Equal(decimal.RequireFromString("33.33")) {
		t.Errorf("pct 0 must reproduce the amount exactly, got %s", norm[0].ObjectiveAmount)
	}
}

func TestNormalizeMonthFilter(t *testing.T) {
	rows := []TransactionRow{
		{Date: "2026-03-01", Amount: "1", CustomerName: "X"},
		{Date: "2026-04-01", Amount: "1", CustomerName: "X"},
	}

	norm := Normalize(rows, ReportRequest{Months: []string{"Marzo"}})
	if len(norm) != 1 || norm[0].Month != 3 {
		t.Fatalf("expected only March to survive, got %d rows", len(norm))
	}

	// Unknown names are ignored; a known name alongside still filters.
	norm = Normalize(rows, ReportRequest{Months: []string{"Marzo", "NoEsUnMes"}})
	if len(norm) != 1 || norm[0].Month != 3 {
		t.Fatalf("unknown month name should be ignored, got %d rows", len(norm))
	}

	// A selection made entirely of unknown names behaves as unrestricted.
	norm = Normalize(rows, ReportRequest{Months: []string{"NoEsUnMes"}})
	if len(norm) != 2 {
		t.Fatalf("all-unknown selection should be unrestricted, got %d rows", len(norm))
	}

	// Case-insensitive matching.
	norm = Normalize(rows, ReportRequest{Months: []string{"abril"}})
	if len(norm) != 1 || norm[0].Month != 4 {
		t.Fatalf("month matching should be case-insensitive, got %d rows", len(norm))
	}
}

func TestMonthLabel(t *testing.T) {
	cases := []struct {
		month int
		want  string
	}{
		{1, "01 - Enero"},
		{3, "03 - Marzo"},
		{12, "12 - Diciembre"},
		{0, ""},
		{13, ""},
	}
	for _, tc := range cases {
		if got := MonthLabel(tc.month); got != tc.want {
			t.Errorf("MonthLabel(%d) = %q, want %q", tc.month, got, tc.want)
		}
	}
}
