// Package source defines the ports for row providers: anything that can
// deliver raw sale lines and filter options to the report engine.
package source

import (
	"context"
	"strings"
	"time"

	"ventas/internal/core"
)

type (
	// RowSource delivers raw sale lines matching a filter.
	RowSource interface {
		FetchRows(ctx context.Context, f core.Filter) ([]core.TransactionRow, error)
	}

	// OptionSource lists the distinct filterable dimension values.
	OptionSource interface {
		FilterOptions(ctx context.Context) (core.Options, error)
	}
)

// Matches reports whether a raw row passes the filter. Backends without a
// query engine of their own (memory, sheets) filter fetched rows with it.
func Matches(f core.Filter, r core.TransactionRow) bool {
	if f.Type != "" && strings.TrimSpace(r.Type) != f.Type {
		return false
	}
	if f.Category != "" && strings.TrimSpace(r.CategoryID) != f.Category {
		return false
	}
	if !inList(f.Brands, r.Brand) ||
		!inList(f.Chains, r.Chain) ||
		!inList(f.Customers, r.CustomerName) ||
		!inList(f.CustomerCodes, r.CustomerCode) ||
		!inList(f.Sellers, r.Seller) {
		return false
	}
	if !f.From.IsZero() && !f.To.IsZero() {
		d, err := time.Parse("2006-01-02", dateOnly(r.Date))
		if err != nil {
			return false
		}
		// Month-day window, so the same range selects the matching
		// stretch of both comparison years.
		md := d.Format("01-02")
		if md < f.From.Format("01-02") || md > f.To.Format("01-02") {
			return false
		}
	}
	return true
}

// OptionsFrom derives the distinct dimension values present in a row set,
// preserving first-seen order.
func OptionsFrom(rows []core.TransactionRow) core.Options {
	var types, brands, customers, codes, sellers, chains collector
	for _, r := range rows {
		types.add(r.Type)
		brands.add(r.Brand)
		customers.add(r.CustomerName)
		codes.add(r.CustomerCode)
		sellers.add(r.Seller)
		chains.add(r.Chain)
	}
	return core.Options{
		Types:         types.values,
		Brands:        brands.values,
		Customers:     customers.values,
		CustomerCodes: codes.values,
		Sellers:       sellers.values,
		Chains:        chains.values,
		Months:        core.MonthNames(),
	}
}

type collector struct {
	seen   map[string]bool
	values []string
}

func (c *collector) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" || c.seen[v] {
		return
	}
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	c.seen[v] = true
	c.values = append(c.values, v)
}

func inList(list []string, v string) bool {
	if len(list) == 0 {
		return true
	}
	v = strings.TrimSpace(v)
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func dateOnly(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
