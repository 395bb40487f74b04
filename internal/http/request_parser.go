// Package http exposes the report engine as a JSON API.
//
// This file parses report requests out of URL query parameters. List
// parameters accept both repeated keys and comma-separated values, so
// ?months=Enero&months=Febrero and ?months=Enero,Febrero are equivalent.
package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ventas/internal/core"
)

const dateLayout = "2006-01-02"

// ParseReportRequest extracts a report request from query parameters.
// Unknown parameters are ignored; malformed numeric or date values fail
// with an error naming the offending parameter.
func ParseReportRequest(query url.Values) (core.ReportRequest, error) {
	var req core.ReportRequest

	if v := strings.TrimSpace(query.Get("objective_pct")); v != "" {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return core.ReportRequest{}, fmt.Errorf("invalid objective_pct %q", v)
		}
		// An explicit objective_pct=0 means zero; only an absent parameter
		// falls back to the service default.
		req.ObjectivePct = pct
		req.ObjectivePctSet = true
	}

	baseYear, err := parseYearParam(query, "base_year")
	if err != nil {
		return core.ReportRequest{}, err
	}
	req.BaseYear = baseYear

	currentYear, err := parseYearParam(query, "current_year")
	if err != nil {
		return core.ReportRequest{}, err
	}
	req.CurrentYear = currentYear

	req.Months = parseListParam(query, "months")
	req.Filter = core.Filter{
		Type:          strings.TrimSpace(query.Get("type")),
		Category:      strings.TrimSpace(query.Get("category")),
		Brands:        parseListParam(query, "brands"),
		Chains:        parseListParam(query, "chains"),
		Customers:     parseListParam(query, "customers"),
		CustomerCodes: parseListParam(query, "customer_codes"),
		Sellers:       parseListParam(query, "sellers"),
	}

	from, err := parseDateParam(query, "from")
	if err != nil {
		return core.ReportRequest{}, err
	}
	to, err := parseDateParam(query, "to")
	if err != nil {
		return core.ReportRequest{}, err
	}
	if !from.IsZero() != !to.IsZero() {
		return core.ReportRequest{}, fmt.Errorf("date range requires both from and to")
	}
	req.Filter.From = from
	req.Filter.To = to

	return req, nil
}

// parseListParam collects the values of a list parameter, splitting each
// occurrence on commas and dropping blanks.
func parseListParam(query url.Values, key string) []string {
	var out []string
	for _, raw := range query[key] {
		for _, part := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(part); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseYearParam(query url.Values, key string) (int, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return year, nil
}

func parseDateParam(query url.Values, key string) (time.Time, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q, expected YYYY-MM-DD", key, v)
	}
	return t, nil
}
