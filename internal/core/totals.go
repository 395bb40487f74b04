package core

// Summary row labels. The == and Σ markers are part of the renderer
// contract inherited from the reporting UI; the RowKind tag is what code
// should dispatch on.
const (
	fillerLabel          = "---"
	totalGeneralLabel    = "== TOTAL GENERAL =="
	totalGrowthLabel     = "== TOTAL CRECIMIENTO =="
	totalDeclineLabel    = "== TOTAL DECRECIMIENTO =="
	totalNoPurchaseLabel = "== TOTAL SIN COMPRA =="
	totalBrandsLabel     = "== TOTAL MARCAS =="
	totalSellersLabel    = "== TOTAL VENDEDORES =="
)

func brandSubtotalLabel(brand string) string { return "Σ SUBTOTAL " + brand }

func brandSumLabel(brand string) string { return "Σ " + brand }

func identifierSubtotalLabel(id string) string { return "Σ CLIENTE " + id }

func sellerSubtotalLabel(seller string) string { return "Σ TOTAL " + seller }

// lineFrom synthesizes a result line of the given kind from raw sums. The
// variance is recomputed from the summed objective and actual, never by
// averaging child variances.
func lineFrom(kind RowKind, s sums) Line {
	return Line{
		Kind:            kind,
		ObjectiveAmount: s.ObjectiveAmount,
		ActualAmount:    s.ActualAmount,
		VariancePct:     s.amountVariance(),
	}
}

// qtyLineFrom is lineFrom for the quantity-bearing seller detail table.
func qtyLineFrom(kind RowKind, s sums) QtyLine {
	return QtyLine{
		Kind:                kind,
		ObjectiveAmount:     s.ObjectiveAmount,
		ActualAmount:        s.ActualAmount,
		ObjectiveQuantity:   s.ObjectiveQuantity,
		ActualQuantity:      s.ActualQuantity,
		AmountVariancePct:   s.amountVariance(),
		QuantityVariancePct: s.quantityVariance(),
	}
}

// sumGroups merges the sums of a set of aggregate nodes into one summary
// sum. Summaries are always derived from the numeric sums of the underlying
// nodes so that totals reconcile exactly with their detail rows, regardless
// of any formatting applied downstream.
func sumGroups[K comparable](groups []group[K]) sums {
	var total sums
	for _, g := range groups {
		total.merge(g.sums)
	}
	return total
}
