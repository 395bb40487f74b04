package core

import "sort"

// BuildReport runs the full pipeline (normalize, aggregate, variance,
// summary synthesis, formatting, KPIs) and returns the complete table set
// for one request. The call is pure: it holds no state, never mutates its
// input and returns well-typed empty tables when nothing survives
// normalization.
func BuildReport(rows []TransactionRow, req ReportRequest) Report {
	req = req.WithDefaults()
	norm := Normalize(rows, req)

	brandSummary, brandDetail := brandFrom(norm)
	sellerSummary, sellerDetail := sellerFrom(norm)

	return Report{
		Monthly:       monthlyFrom(norm),
		Customers:     segmentsFrom(norm),
		BrandSummary:  brandSummary,
		BrandDetail:   brandDetail,
		SellerSummary: sellerSummary,
		SellerDetail:  sellerDetail,
		KPIs:          kpisFrom(norm, req.BaseYear),
	}
}

// MonthlyReport builds only the monthly evolution table.
func MonthlyReport(rows []TransactionRow, req ReportRequest) []MonthlyRow {
	req = req.WithDefaults()
	return monthlyFrom(Normalize(rows, req))
}

// CustomerReport builds only the customer segmentation buckets.
func CustomerReport(rows []TransactionRow, req ReportRequest) CustomerSegments {
	req = req.WithDefaults()
	return segmentsFrom(Normalize(rows, req))
}

// BrandReport builds the brand ranking and the brand > customer > seller
// drill-down.
func BrandReport(rows []TransactionRow, req ReportRequest) ([]BrandSummaryRow, []BrandDetailRow) {
	req = req.WithDefaults()
	return brandFrom(Normalize(rows, req))
}

// SellerReport builds the seller ranking and the
// seller > customer > brand > month drill-down.
func SellerReport(rows []TransactionRow, req ReportRequest) ([]SellerSummaryRow, []SellerDetailRow) {
	req = req.WithDefaults()
	return sellerFrom(Normalize(rows, req))
}

// rankByActual orders nodes by actual amount descending. Ties fall back to
// the key ascending so equal performers come out in a stable, deterministic
// order rather than whatever the input happened to be.
func rankByActual(groups []group[string]) {
	sort.SliceStable(groups, func(i, j int) bool {
		c := groups[i].ActualAmount.Cmp(groups[j].ActualAmount)
		if c != 0 {
			return c > 0
		}
		return groups[i].Key < groups[j].Key
	})
}

// rankByVariance orders nodes by amount variance descending with the same
// label tie-break. Summary bodies and customer rows inside a drill-down
// block rank on performance, not volume.
func rankByVariance(groups []group[string]) {
	sort.SliceStable(groups, func(i, j int) bool {
		vi, vj := groups[i].amountVariance(), groups[j].amountVariance()
		if vi != vj {
			return vi > vj
		}
		return groups[i].Key < groups[j].Key
	})
}

func monthlyFrom(norm []Row) []MonthlyRow {
	groups := aggregate(norm, func(r Row) int { return r.Month })
	out := make([]MonthlyRow, 0, len(groups)+1)
	if len(groups) == 0 {
		return out
	}
	// Time series: calendar order, never performance order.
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	for _, g := range groups {
		out = append(out, MonthlyRow{
			Month: MonthLabel(g.Key),
			Line:  lineFrom(RowDetail, g.sums).formatted(),
		})
	}
	out = append(out, MonthlyRow{
		Month: totalGeneralLabel,
		Line:  lineFrom(RowGrandTotal, sumGroups(groups)).formatted(),
	})
	return out
}

func segmentsFrom(norm []Row) CustomerSegments {
	groups := aggregate(norm, func(r Row) string { return r.Identifier })

	var growth, decline, noPurchase []group[string]
	for _, g := range groups {
		switch {
		case g.ActualAmount.Sign() == 0 && g.ObjectiveAmount.Sign() > 0:
			noPurchase = append(noPurchase, g)
		case g.amountVariance() > 0:
			growth = append(growth, g)
		case g.ActualAmount.Sign() > 0:
			decline = append(decline, g)
		}
	}

	return CustomerSegments{
		Growth:     segmentTable(growth, totalGrowthLabel),
		Decline:    segmentTable(decline, totalDeclineLabel),
		NoPurchase: segmentTable(noPurchase, totalNoPurchaseLabel),
	}
}

func segmentTable(groups []group[string], totalLabel string) []SegmentRow {
	out := make([]SegmentRow, 0, len(groups)+1)
	if len(groups) == 0 {
		return out
	}
	rankByActual(groups)
	for _, g := range groups {
		out = append(out, SegmentRow{
			Identifier: g.Key,
			Line:       lineFrom(RowDetail, g.sums).formatted(),
		})
	}
	out = append(out, SegmentRow{
		Identifier: totalLabel,
		Line:       lineFrom(RowGrandTotal, sumGroups(groups)).formatted(),
	})
	return out
}

func brandFrom(norm []Row) ([]BrandSummaryRow, []BrandDetailRow) {
	gen := aggregate(norm, func(r Row) string { return r.Brand })

	summary := make([]BrandSummaryRow, 0, len(gen)+1)
	detail := make([]BrandDetailRow, 0)
	if len(gen) == 0 {
		return summary, detail
	}

	// The summary body ranks by performance, the drill-down blocks below
	// by volume. Two independent orderings over the same nodes.
	ranked := append([]group[string](nil), gen...)
	rankByVariance(ranked)
	for _, g := range ranked {
		summary = append(summary, BrandSummaryRow{
			Brand: g.Key,
			Line:  lineFrom(RowDetail, g.sums).formatted(),
		})
	}
	summary = append(summary, BrandSummaryRow{
		Brand: totalBrandsLabel,
		Line:  lineFrom(RowGrandTotal, sumGroups(gen)).formatted(),
	})
	rankByActual(gen)

	leaves := aggregate(norm, func(r Row) brandDetailKey {
		return brandDetailKey{Brand: r.Brand, Identifier: r.Identifier, Seller: r.Seller}
	})

	// Customer rows re-ranked by performance within each brand block.
	for _, bg := range gen {
		var inBrand []group[brandDetailKey]
		for _, l := range leaves {
			if l.Key.Brand == bg.Key {
				inBrand = append(inBrand, l)
			}
		}
		sort.SliceStable(inBrand, func(i, j int) bool {
			vi, vj := inBrand[i].amountVariance(), inBrand[j].amountVariance()
			if vi != vj {
				return vi > vj
			}
			if inBrand[i].Key.Identifier != inBrand[j].Key.Identifier {
				return inBrand[i].Key.Identifier < inBrand[j].Key.Identifier
			}
			return inBrand[i].Key.Seller < inBrand[j].Key.Seller
		})
		for _, l := range inBrand {
			detail = append(detail, BrandDetailRow{
				Brand:      l.Key.Brand,
				Identifier: l.Key.Identifier,
				Seller:     l.Key.Seller,
				Line:       lineFrom(RowDetail, l.sums).formatted(),
			})
		}
		detail = append(detail, BrandDetailRow{
			Brand:      brandSubtotalLabel(bg.Key),
			Identifier: fillerLabel,
			Seller:     fillerLabel,
			Line:       lineFrom(RowGroupSubtotal, bg.sums).formatted(),
		})
	}
	detail = append(detail, BrandDetailRow{
		Brand:      totalBrandsLabel,
		Identifier: fillerLabel,
		Seller:     fillerLabel,
		Line:       lineFrom(RowGrandTotal, sumGroups(gen)).formatted(),
	})

	return summary, detail
}

func sellerFrom(norm []Row) ([]SellerSummaryRow, []SellerDetailRow) {
	gen := aggregate(norm, func(r Row) string { return r.Seller })

	summary := make([]SellerSummaryRow, 0, len(gen)+1)
	detail := make([]SellerDetailRow, 0)
	if len(gen) == 0 {
		return summary, detail
	}

	ranked := append([]group[string](nil), gen...)
	rankByVariance(ranked)
	for _, g := range ranked {
		summary = append(summary, SellerSummaryRow{
			Seller: g.Key,
			Line:   lineFrom(RowDetail, g.sums).formatted(),
		})
	}
	summary = append(summary, SellerSummaryRow{
		Seller: totalSellersLabel,
		Line:   lineFrom(RowGrandTotal, sumGroups(gen)).formatted(),
	})
	rankByActual(gen)

	leaves := aggregate(norm, func(r Row) sellerDetailKey {
		return sellerDetailKey{Seller: r.Seller, Identifier: r.Identifier, Brand: r.Brand, Month: r.Month}
	})

	for _, sg := range gen {
		var inSeller []group[sellerDetailKey]
		for _, l := range leaves {
			if l.Key.Seller == sg.Key {
				inSeller = append(inSeller, l)
			}
		}

		// Customer blocks rank by performance, the brand groups inside
		// them by volume, the months in calendar order.
		ids := regroup(inSeller, func(k sellerDetailKey) string { return k.Identifier })
		rankByVariance(ids)
		for _, idg := range ids {
			var inID []group[sellerDetailKey]
			for _, l := range inSeller {
				if l.Key.Identifier == idg.Key {
					inID = append(inID, l)
				}
			}

			brands := regroup(inID, func(k sellerDetailKey) string { return k.Brand })
			rankByActual(brands)
			for _, bg := range brands {
				var months []group[sellerDetailKey]
				for _, l := range inID {
					if l.Key.Brand == bg.Key {
						months = append(months, l)
					}
				}
				sort.Slice(months, func(i, j int) bool { return months[i].Key.Month < months[j].Key.Month })
				for _, l := range months {
					detail = append(detail, SellerDetailRow{
						Seller:     sg.Key,
						Identifier: idg.Key,
						Brand:      bg.Key,
						Month:      MonthLabel(l.Key.Month),
						QtyLine:    qtyLineFrom(RowDetail, l.sums).formatted(),
					})
				}
				detail = append(detail, SellerDetailRow{
					Seller:     sg.Key,
					Identifier: idg.Key,
					Brand:      brandSumLabel(bg.Key),
					Month:      fillerLabel,
					QtyLine:    qtyLineFrom(RowSubSubtotal, bg.sums).formatted(),
				})
			}
			detail = append(detail, SellerDetailRow{
				Seller:     sg.Key,
				Identifier: identifierSubtotalLabel(idg.Key),
				Brand:      fillerLabel,
				Month:      fillerLabel,
				QtyLine:    qtyLineFrom(RowGroupSubtotal, idg.sums).formatted(),
			})
		}
		detail = append(detail, SellerDetailRow{
			Seller:     sellerSubtotalLabel(sg.Key),
			Identifier: fillerLabel,
			Brand:      fillerLabel,
			Month:      fillerLabel,
			QtyLine:    qtyLineFrom(RowGroupSubtotal, sg.sums).formatted(),
		})
	}
	detail = append(detail, SellerDetailRow{
		Seller:     totalSellersLabel,
		Identifier: fillerLabel,
		Brand:      fillerLabel,
		Month:      fillerLabel,
		QtyLine:    qtyLineFrom(RowGrandTotal, sumGroups(gen)).formatted(),
	})

	return summary, detail
}
