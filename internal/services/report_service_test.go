package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ventas/internal/core"
	"ventas/internal/source/memory"
)

// countingSource wraps the memory store and counts fetches, so tests can
// tell cache hits from rebuilds.
type countingSource struct {
	store   *memory.Store
	fetches int64
	err     error
}

func (c *countingSource) FetchRows(ctx context.Context, f core.Filter) ([]core.TransactionRow, error) {
	if c.err != nil {
		return nil, c.err
	}
	atomic.AddInt64(&c.fetches, 1)
	return c.store.FetchRows(ctx, f)
}

func testRows() []core.TransactionRow {
	return []core.TransactionRow{
		{Date: "2025-03-01", Amount: "100", Quantity: "10", Brand: "Alfa", CustomerName: "Uno", CustomerCode: "C01", Seller: "Norte"},
		{Date: "2026-03-01", Amount: "150", Quantity: "12", Brand: "Alfa", CustomerName: "Uno", CustomerCode: "C01", Seller: "Norte"},
		{Date: "2026-04-05", Amount: "70", Quantity: "5", Brand: "Beta", CustomerName: "Dos", CustomerCode: "C02", Seller: "Sur"},
	}
}

func newTestService(t *testing.T) (*ReportService, *countingSource) {
	t.Helper()
	store := memory.New(testRows())
	src := &countingSource{store: store}
	svc := NewReportService(src, store, ReportServiceConfig{
		BaseYear:            2025,
		CurrentYear:         2026,
		DefaultObjectivePct: 20,
	}, nil)
	return svc, src
}

func TestBuildReportSections(t *testing.T) {
	svc, _ := newTestService(t)

	rep, err := svc.BuildReport(context.Background(), svc.DefaultRequest())
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}

	// March and April details plus the total row.
	if len(rep.Monthly) != 3 {
		t.Errorf("Monthly rows = %d, want 3", len(rep.Monthly))
	}
	if len(rep.BrandSummary) != 3 {
		t.Errorf("BrandSummary rows = %d, want 3", len(rep.BrandSummary))
	}
	if len(rep.SellerSummary) != 3 {
		t.Errorf("SellerSummary rows = %d, want 3", len(rep.SellerSummary))
	}
	if rep.KPIs.CurrentYearCustomers != 2 {
		t.Errorf("CurrentYearCustomers = %d, want 2", rep.KPIs.CurrentYearCustomers)
	}
}

func TestBuildReportCaching(t *testing.T) {
	svc, src := newTestService(t)
	ctx := context.Background()
	req := svc.DefaultRequest()

	if _, err := svc.BuildReport(ctx, req); err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if _, err := svc.BuildReport(ctx, req); err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if n := atomic.LoadInt64(&src.fetches); n != 1 {
		t.Errorf("fetches = %d, want 1 (second call must hit the cache)", n)
	}

	// A different objective is a different report.
	req.ObjectivePct = 35
	if _, err := svc.BuildReport(ctx, req); err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if n := atomic.LoadInt64(&src.fetches); n != 2 {
		t.Errorf("fetches = %d, want 2 after changed request", n)
	}
}

func TestInvalidateDropsCache(t *testing.T) {
	svc, src := newTestService(t)
	ctx := context.Background()

	if _, err := svc.BuildReport(ctx, svc.DefaultRequest()); err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	svc.Invalidate(ctx)
	if svc.CacheSize() != 0 {
		t.Errorf("CacheSize() = %d, want 0 after invalidate", svc.CacheSize())
	}

	if _, err := svc.BuildReport(ctx, svc.DefaultRequest()); err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if n := atomic.LoadInt64(&src.fetches); n != 2 {
		t.Errorf("fetches = %d, want 2 (rebuild after invalidate)", n)
	}
}

func TestWarmCachesDefaultReport(t *testing.T) {
	svc, src := newTestService(t)
	ctx := context.Background()

	if err := svc.Warm(ctx); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	if svc.CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", svc.CacheSize())
	}

	if _, err := svc.BuildReport(ctx, svc.DefaultRequest()); err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if n := atomic.LoadInt64(&src.fetches); n != 1 {
		t.Errorf("fetches = %d, want 1 (default request served by warm cache)", n)
	}
}

// TestBareRequestGetsDefaultObjective covers the unadorned GET path: a zero
// request must apply the configured objective and land on the entry Warm
// already cached, while an explicit zero objective stays zero.
func TestBareRequestGetsDefaultObjective(t *testing.T) {
	svc, src := newTestService(t)
	ctx := context.Background()

	if err := svc.Warm(ctx); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}

	rep, err := svc.BuildReport(ctx, core.ReportRequest{})
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	// 2025 March amount 100 scaled by the configured 20 percent.
	march := rep.Monthly[0]
	if !march.ObjectiveAmount.Equal(decimal.NewFromInt(120)) {
		t.Errorf("bare request objective = %s, want 120", march.ObjectiveAmount)
	}
	if n := atomic.LoadInt64(&src.fetches); n != 1 {
		t.Errorf("fetches = %d, want 1 (bare request must reuse the warmed entry)", n)
	}
	if svc.CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", svc.CacheSize())
	}

	rep, err = svc.BuildReport(ctx, core.ReportRequest{ObjectivePctSet: true})
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if !rep.Monthly[0].ObjectiveAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("explicit zero objective = %s, want 100", rep.Monthly[0].ObjectiveAmount)
	}
	if n := atomic.LoadInt64(&src.fetches); n != 2 {
		t.Errorf("fetches = %d, want 2 (explicit zero is a different report)", n)
	}
}

// TestCacheKeyCoversDateRange pins the fingerprint to the date bounds: a
// request differing only in its range must not share a cache entry.
func TestCacheKeyCoversDateRange(t *testing.T) {
	svc, src := newTestService(t)
	ctx := context.Background()

	req := svc.DefaultRequest()
	if _, err := svc.BuildReport(ctx, req); err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}

	req.Filter.To = time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	if _, err := svc.BuildReport(ctx, req); err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if n := atomic.LoadInt64(&src.fetches); n != 2 {
		t.Errorf("fetches = %d, want 2 (date-bounded request is a different report)", n)
	}
}

func TestBuildReportSourceError(t *testing.T) {
	svc, src := newTestService(t)
	src.err = errors.New("source down")

	if _, err := svc.BuildReport(context.Background(), svc.DefaultRequest()); err == nil {
		t.Fatal("expected source error to surface")
	}
}

func TestSectionAccessorsShareOneBuild(t *testing.T) {
	svc, src := newTestService(t)
	ctx := context.Background()
	req := svc.DefaultRequest()

	if _, err := svc.Monthly(ctx, req); err != nil {
		t.Fatalf("Monthly() error = %v", err)
	}
	if _, err := svc.Customers(ctx, req); err != nil {
		t.Fatalf("Customers() error = %v", err)
	}
	if _, _, err := svc.Brands(ctx, req); err != nil {
		t.Fatalf("Brands() error = %v", err)
	}
	if _, _, err := svc.Sellers(ctx, req); err != nil {
		t.Fatalf("Sellers() error = %v", err)
	}
	if _, err := svc.KPIs(ctx, req); err != nil {
		t.Fatalf("KPIs() error = %v", err)
	}

	if n := atomic.LoadInt64(&src.fetches); n != 1 {
		t.Errorf("fetches = %d, want 1 (sections share the cached report)", n)
	}
}

func TestOptions(t *testing.T) {
	svc, _ := newTestService(t)

	opts, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if len(opts.Brands) != 2 || len(opts.Sellers) != 2 {
		t.Errorf("options wrong: %+v", opts)
	}
	if len(opts.Months) != 12 {
		t.Errorf("Months = %v", opts.Months)
	}
}
