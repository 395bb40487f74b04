// Package core implements the sales comparison engine: normalization of raw
// transaction rows, multi-level aggregation, variance calculation, summary
// row synthesis, display formatting and portfolio KPIs.
//
// The engine is pure and stateless. It never mutates its input, performs no
// I/O and returns structurally valid (possibly empty) results for any input.
package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are the accepted wire formats for transaction dates, tried in
// order. Sources deliver ISO dates; spreadsheet imports occasionally carry a
// time component or a day-first format.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount parses a decimal wire value, accepting a comma as the decimal
// separator ("12,5" reads as 12.5). A thousands-grouped value like
// "1,234.56" becomes "1.234.56" under that swap and coerces to zero; the
// importer applies the same swap to importe and cantidad, so both layers
// treat grouped input the same way. Anything unparseable coerces to zero:
// malformed numbers exclude a value, never a row.
func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// objectiveFactor returns 1 + pct/100 as an exact decimal, so that a zero
// percentage reproduces base-year amounts bit for bit.
func objectiveFactor(pct float64) decimal.Decimal {
	return decimal.NewFromFloat(pct).Div(decimal.NewFromInt(100)).Add(decimal.NewFromInt(1))
}

// Normalize validates and derives one Row per input row that survives
// filtering:
//
//   - rows with an unparseable date are dropped,
//   - rows outside the base/current year pair are dropped,
//   - rows whose month is not in the selection are dropped (a destructive
//     filter: they do not reappear in any later stage),
//   - non-numeric amounts and quantities coerce to zero,
//   - the identifier is resolved from chain and customer name.
//
// Base-year amounts and quantities are scaled by (1 + ObjectivePct/100) into
// the objective fields; current-year values land in the actual fields. The
// input slice is never modified.
func Normalize(rows []TransactionRow, req ReportRequest) []Row {
	req = req.WithDefaults()
	months := monthSet(req.Months)
	factor := objectiveFactor(req.ObjectivePct)

	out := make([]Row, 0, len(rows))
	for _, tr := range rows {
		date, ok := parseDate(tr.Date)
		if !ok {
			continue
		}
		year := date.Year()
		if year != req.BaseYear && year != req.CurrentYear {
			continue
		}
		month := int(date.Month())
		if months != nil && !months[month] {
			continue
		}

		amount := parseAmount(tr.Amount)
		quantity := parseAmount(tr.Quantity)

		row := Row{
			Date:         date,
			Year:         year,
			Month:        month,
			Identifier:   ResolveIdentifier(tr.Chain, tr.CustomerName),
			Brand:        strings.TrimSpace(tr.Brand),
			Seller:       strings.TrimSpace(tr.Seller),
			CustomerName: strings.TrimSpace(tr.CustomerName),
			CustomerCode: strings.TrimSpace(tr.CustomerCode),
		}
		if year == req.BaseYear {
			row.ObjectiveAmount = amount.Mul(factor)
			row.ObjectiveQuantity = quantity.Mul(factor)
		} else {
			row.ActualAmount = amount
			row.ActualQuantity = quantity
		}
		out = append(out, row)
	}
	return out
}
