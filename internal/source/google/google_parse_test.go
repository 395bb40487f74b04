package google

import "testing"

func TestParseValues(t *testing.T) {
	values := [][]any{
		{"2026-03-01", 150.5, 12, "Stock", 1, "Alfa", "Cliente Uno", "C01", "Norte", "Cadena Uno"},
		{"2025-03-01", "100,5", "10", "Stock", "1", "Beta", "Cliente Dos", "C02", "Sur"},
		{},                    // blank row
		{"", "50"},            // missing date
		{"2026-04-01", "200"}, // short row, padded
	}

	rows := parseValues(values)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	first := rows[0]
	if first.Date != "2026-03-01" || first.Amount != "150.5" || first.Quantity != "12" {
		t.Errorf("numeric cells should render as text: %+v", first)
	}
	if first.Chain != "Cadena Uno" {
		t.Errorf("Chain = %q", first.Chain)
	}

	// Comma decimals pass through untouched; normalization handles them.
	if rows[1].Amount != "100,5" {
		t.Errorf("Amount = %q, want 100,5", rows[1].Amount)
	}
	if rows[1].Chain != "" {
		t.Errorf("short row Chain = %q, want empty", rows[1].Chain)
	}

	short := rows[2]
	if short.Date != "2026-04-01" || short.Amount != "200" || short.Seller != "" {
		t.Errorf("short row wrong: %+v", short)
	}
}
