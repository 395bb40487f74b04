package core

// KPIs are the scalar portfolio metrics computed over the normalized rows,
// independent of the hierarchy pipeline. Customer counts are keyed by the
// canonical identifier; reach and retention are keyed by customer code.
type KPIs struct {
	BaseYearCustomers    int     `json:"base_year_customers"`
	CurrentYearCustomers int     `json:"current_year_customers"`
	BaseOnly             int     `json:"base_only"`
	CurrentOnly          int     `json:"current_only"`
	Overlap              int     `json:"overlap"`
	ReachCount           int     `json:"reach_count"`
	RetentionPct         float64 `json:"retention_pct"`
}

// KPIReport computes the KPI record for the raw rows under the request's
// normalization rules (month filter included).
func KPIReport(rows []TransactionRow, req ReportRequest) KPIs {
	req = req.WithDefaults()
	return kpisFrom(Normalize(rows, req), req.BaseYear)
}

func kpisFrom(norm []Row, baseYear int) KPIs {
	baseIDs := make(map[string]bool)
	currentIDs := make(map[string]bool)
	codes := make(map[string]bool)
	reached := make(map[string]bool)

	for _, r := range norm {
		if r.Identifier != "" {
			if r.Year == baseYear {
				baseIDs[r.Identifier] = true
			} else {
				currentIDs[r.Identifier] = true
			}
		}
		if r.CustomerCode != "" {
			codes[r.CustomerCode] = true
			if r.ActualAmount.Sign() != 0 {
				reached[r.CustomerCode] = true
			}
		}
	}

	overlap := 0
	for id := range baseIDs {
		if currentIDs[id] {
			overlap++
		}
	}

	k := KPIs{
		BaseYearCustomers:    len(baseIDs),
		CurrentYearCustomers: len(currentIDs),
		BaseOnly:             len(baseIDs) - overlap,
		CurrentOnly:          len(currentIDs) - overlap,
		Overlap:              overlap,
		ReachCount:           len(reached),
	}
	if len(codes) > 0 {
		k.RetentionPct = float64(len(reached)) / float64(len(codes)) * 100
	}
	return k
}
