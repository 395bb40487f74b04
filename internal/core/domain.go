package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Default comparison years. The whole engine compares exactly two years:
// the base year (scaled by the objective percentage) and the current year.
const (
	DefaultBaseYear    = 2025
	DefaultCurrentYear = 2026
)

// Default objective increase applied to base-year figures.
const DefaultObjectivePct = 20.0

type (
	// TransactionRow is one raw sale line as delivered by a row source
	// (SQLite, Google Sheets, Excel import). Fields carry wire values;
	// Normalize is the single place where they are parsed and validated.
	TransactionRow struct {
		Date         string
		Amount       string
		Quantity     string
		Type         string
		CategoryID   string
		Brand        string
		CustomerName string
		CustomerCode string
		Seller       string
		Chain        string
	}

	// Row is a normalized transaction. Exactly one of the objective/actual
	// pairs is populated: objective fields hold the scaled base-year value,
	// actual fields hold the raw current-year value.
	Row struct {
		Date         time.Time
		Year         int
		Month        int // 1-12
		Identifier   string
		Brand        string
		Seller       string
		CustomerName string
		CustomerCode string

		ObjectiveAmount   decimal.Decimal
		ActualAmount      decimal.Decimal
		ObjectiveQuantity decimal.Decimal
		ActualQuantity    decimal.Decimal
	}

	// Filter holds the upstream predicates applied by the query collaborator
	// before rows ever reach the engine. The engine itself only consumes
	// ObjectivePct and Months from ReportRequest.
	Filter struct {
		Type          string
		Category      string
		Brands        []string
		Chains        []string
		Customers     []string
		CustomerCodes []string
		Sellers       []string
		From          time.Time
		To            time.Time
	}

	// ReportRequest is the explicit per-request configuration. There is no
	// ambient state: the same request against the same rows always yields
	// the same report.
	ReportRequest struct {
		Filter       Filter
		ObjectivePct float64
		// ObjectivePctSet records that ObjectivePct was given explicitly,
		// telling a deliberate zero apart from an absent value. Callers
		// that leave both unset get the configured default objective.
		ObjectivePctSet bool
		Months          []string
		BaseYear        int
		CurrentYear     int
	}

	// Options lists the distinct filterable dimension values known to a
	// row source, used to populate filter pickers.
	Options struct {
		Types         []string `json:"types"`
		Brands        []string `json:"brands"`
		Customers     []string `json:"customers"`
		CustomerCodes []string `json:"customer_codes"`
		Sellers       []string `json:"sellers"`
		Chains        []string `json:"chains"`
		Months        []string `json:"months"`
	}
)

// WithDefaults fills the zero years with the supported defaults.
func (r ReportRequest) WithDefaults() ReportRequest {
	if r.BaseYear == 0 {
		r.BaseYear = DefaultBaseYear
	}
	if r.CurrentYear == 0 {
		r.CurrentYear = DefaultCurrentYear
	}
	return r
}

// CategoryMap maps the upstream category labels to their ids.
var CategoryMap = map[string]string{
	"Stock":      "1",
	"Pre-Venta":  "2",
	"Programado": "3",
}

// monthNames are the filter names accepted in ReportRequest.Months.
var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthNames returns the twelve filterable month names in calendar order.
func MonthNames() []string {
	names := make([]string, len(monthNames))
	copy(names, monthNames[:])
	return names
}

// MonthLabel returns the display label for a month index, e.g. "03 - Marzo".
// Out-of-range indices yield an empty label.
func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return fmt.Sprintf("%02d - %s", month, monthNames[month-1])
}

// monthIndex maps a month name to its 1-12 index. Matching is
// case-insensitive and ignores surrounding whitespace.
func monthIndex(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, n := range monthNames {
		if strings.EqualFold(n, name) {
			return i + 1, true
		}
	}
	return 0, false
}

// monthSet converts the selected month names into a membership set.
// An empty selection (or one made entirely of unknown names) means
// unrestricted and yields nil.
func monthSet(names []string) map[int]bool {
	var set map[int]bool
	for _, name := range names {
		idx, ok := monthIndex(name)
		if !ok {
			continue // unknown names are silently ignored
		}
		if set == nil {
			set = make(map[int]bool, len(names))
		}
		set[idx] = true
	}
	return set
}

// chainSentinels are chain values that mean "no chain assigned". They come
// from upstream data entry conventions and must never leak into the
// identifier of a normalized row.
var chainSentinels = map[string]bool{
	"SIN CADENA": true,
	"None":       true,
	"nan":        true,
	"NaN":        true,
}

// ResolveIdentifier returns the canonical grouping key for a customer:
// the trimmed chain name when one is assigned, otherwise the trimmed
// customer name.
func ResolveIdentifier(chain, customerName string) string {
	c := strings.TrimSpace(chain)
	if c != "" && !chainSentinels[c] {
		return c
	}
	return strings.TrimSpace(customerName)
}
