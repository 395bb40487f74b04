package core

import "github.com/shopspring/decimal"

// RowKind tags every result row explicitly so renderers never have to sniff
// labels to tell a summary apart from a detail row.
type RowKind string

const (
	RowDetail        RowKind = "detail"
	RowSubSubtotal   RowKind = "sub_subtotal"
	RowGroupSubtotal RowKind = "group_subtotal"
	RowGrandTotal    RowKind = "grand_total"
)

// Line carries the amount columns shared by the four-column tables: the raw
// decimal sums, the variance, and the formatted twins filled by the
// formatter. Reconciliation always runs on the decimal members; the text
// members exist purely for presentation.
type Line struct {
	Kind                RowKind         `json:"kind"`
	ObjectiveAmount     decimal.Decimal `json:"objective_amount"`
	ActualAmount        decimal.Decimal `json:"actual_amount"`
	VariancePct         float64         `json:"variance_pct"`
	ObjectiveAmountText string          `json:"objective_amount_text"`
	ActualAmountText    string          `json:"actual_amount_text"`
	VarianceText        string          `json:"variance_text"`
}

// QtyLine extends Line's shape with quantity columns for the seller detail
// table, which reports amount and quantity variance side by side.
type QtyLine struct {
	Kind                  RowKind         `json:"kind"`
	ObjectiveAmount       decimal.Decimal `json:"objective_amount"`
	ActualAmount          decimal.Decimal `json:"actual_amount"`
	ObjectiveQuantity     decimal.Decimal `json:"objective_quantity"`
	ActualQuantity        decimal.Decimal `json:"actual_quantity"`
	AmountVariancePct     float64         `json:"amount_variance_pct"`
	QuantityVariancePct   float64         `json:"quantity_variance_pct"`
	ObjectiveAmountText   string          `json:"objective_amount_text"`
	ActualAmountText      string          `json:"actual_amount_text"`
	ObjectiveQuantityText string          `json:"objective_quantity_text"`
	ActualQuantityText    string          `json:"actual_quantity_text"`
	AmountVarianceText    string          `json:"amount_variance_text"`
	QuantityVarianceText  string          `json:"quantity_variance_text"`
}

// MonthlyRow is one row of the monthly evolution table, ordered by calendar
// month with a grand total at the end.
type MonthlyRow struct {
	Month string `json:"month"`
	Line
}

// SegmentRow is one row of a customer segmentation bucket, keyed by the
// canonical customer identifier.
type SegmentRow struct {
	Identifier string `json:"identifier"`
	Line
}

// CustomerSegments splits the portfolio by the sign of its variance.
type CustomerSegments struct {
	Growth     []SegmentRow `json:"growth"`
	Decline    []SegmentRow `json:"decline"`
	NoPurchase []SegmentRow `json:"no_purchase"`
}

// BrandSummaryRow is one row of the brand ranking table.
type BrandSummaryRow struct {
	Brand string `json:"brand"`
	Line
}

// BrandDetailRow is one row of the brand drill-down
// (brand > identifier > seller) with per-brand subtotals.
type BrandDetailRow struct {
	Brand      string `json:"brand"`
	Identifier string `json:"identifier"`
	Seller     string `json:"seller"`
	Line
}

// SellerSummaryRow is one row of the seller ranking table.
type SellerSummaryRow struct {
	Seller string `json:"seller"`
	Line
}

// SellerDetailRow is one row of the seller drill-down
// (seller > identifier > brand > month), the deepest hierarchy, with
// brand-level sub-subtotals, identifier subtotals and per-seller totals.
type SellerDetailRow struct {
	Seller     string `json:"seller"`
	Identifier string `json:"identifier"`
	Brand      string `json:"brand"`
	Month      string `json:"month"`
	QtyLine
}

// Report is the full result set for one request. Column names and ordering
// are the contract with downstream renderers and must stay stable.
type Report struct {
	Monthly       []MonthlyRow       `json:"monthly"`
	Customers     CustomerSegments   `json:"customers"`
	BrandSummary  []BrandSummaryRow  `json:"brand_summary"`
	BrandDetail   []BrandDetailRow   `json:"brand_detail"`
	SellerSummary []SellerSummaryRow `json:"seller_summary"`
	SellerDetail  []SellerDetailRow  `json:"seller_detail"`
	KPIs          KPIs               `json:"kpis"`
}
