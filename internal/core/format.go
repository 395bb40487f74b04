package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a monetary sum for display: rounded to whole units
// and grouped in thousands with dots ("1.234.567"). Negative sums are
// clamped to "0" for presentation only; the numeric value on the row is
// untouched and reconciliation always happens before formatting.
func FormatAmount(d decimal.Decimal) string {
	if d.Sign() < 0 {
		return "0"
	}
	return groupThousands(d.Round(0).String())
}

// FormatVariance renders a percentage with an explicit sign and one decimal,
// e.g. "+25.0%" or "-100.0%".
func FormatVariance(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// formatted returns a copy of the line with its display twins filled in.
func (l Line) formatted() Line {
	l.ObjectiveAmountText = FormatAmount(l.ObjectiveAmount)
	l.ActualAmountText = FormatAmount(l.ActualAmount)
	l.VarianceText = FormatVariance(l.VariancePct)
	return l
}

func (q QtyLine) formatted() QtyLine {
	q.ObjectiveAmountText = FormatAmount(q.ObjectiveAmount)
	q.ActualAmountText = FormatAmount(q.ActualAmount)
	q.ObjectiveQuantityText = FormatAmount(q.ObjectiveQuantity)
	q.ActualQuantityText = FormatAmount(q.ActualQuantity)
	q.AmountVarianceText = FormatVariance(q.AmountVariancePct)
	q.QuantityVarianceText = FormatVariance(q.QuantityVariancePct)
	return q
}
