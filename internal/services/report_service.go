// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ventas/internal/cache"
	"ventas/internal/core"
	applog "ventas/internal/log"
	"ventas/internal/source"

	"golang.org/x/sync/errgroup"
)

// ReportService builds period comparison reports from a row source,
// caching complete reports per request fingerprint.
type ReportService struct {
	rows    source.RowSource
	options source.OptionSource
	cache   *cache.LRUCache[core.Report]
	logger  *applog.Logger

	baseYear    int
	currentYear int
	defaultPct  float64
}

// ReportServiceConfig carries the report defaults and cache sizing.
type ReportServiceConfig struct {
	BaseYear            int
	CurrentYear         int
	DefaultObjectivePct float64
	CacheSize           int
	CacheTTL            time.Duration
}

func NewReportService(rows source.RowSource, options source.OptionSource, cfg ReportServiceConfig, logger *applog.Logger) *ReportService {
	if cfg.BaseYear == 0 {
		cfg.BaseYear = core.DefaultBaseYear
	}
	if cfg.CurrentYear == 0 {
		cfg.CurrentYear = core.DefaultCurrentYear
	}
	if cfg.DefaultObjectivePct == 0 {
		cfg.DefaultObjectivePct = core.DefaultObjectivePct
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = 64
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	return &ReportService{
		rows:        rows,
		options:     options,
		cache:       cache.NewLRUCache[core.Report](cfg.CacheSize, cfg.CacheTTL),
		logger:      logger.WithComponent(applog.ComponentReport),
		baseYear:    cfg.BaseYear,
		currentYear: cfg.CurrentYear,
		defaultPct:  cfg.DefaultObjectivePct,
	}
}

// DefaultRequest returns the request served when a caller specifies
// nothing: configured years, configured objective, all months.
func (s *ReportService) DefaultRequest() core.ReportRequest {
	return core.ReportRequest{
		ObjectivePct:    s.defaultPct,
		ObjectivePctSet: true,
		BaseYear:        s.baseYear,
		CurrentYear:     s.currentYear,
	}
}

// BuildReport returns the complete table set for a request, from cache
// when possible. The five sections are built concurrently; each one
// normalizes the fetched rows independently.
func (s *ReportService) BuildReport(ctx context.Context, req core.ReportRequest) (core.Report, error) {
	req = s.withDefaults(req)
	key := cacheKey(req)

	if rep, ok := s.cache.Get(key); ok {
		s.logger.DebugContext(ctx, "Report served from cache", applog.FieldCacheHit, true)
		return rep, nil
	}

	start := time.Now()
	rows, err := s.rows.FetchRows(ctx, req.Filter)
	if err != nil {
		return core.Report{}, fmt.Errorf("fetch rows: %w", err)
	}

	var rep core.Report
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		rep.Monthly = core.MonthlyReport(rows, req)
		return nil
	})
	g.Go(func() error {
		rep.Customers = core.CustomerReport(rows, req)
		return nil
	})
	g.Go(func() error {
		rep.BrandSummary, rep.BrandDetail = core.BrandReport(rows, req)
		return nil
	})
	g.Go(func() error {
		rep.SellerSummary, rep.SellerDetail = core.SellerReport(rows, req)
		return nil
	})
	g.Go(func() error {
		rep.KPIs = core.KPIReport(rows, req)
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Report{}, err
	}

	s.cache.Set(key, rep)

	applog.NewStructuredLogger(s.logger).LogReportBuilt(ctx,
		req.ObjectivePct, req.BaseYear, req.CurrentYear, req.Months,
		len(rows), time.Since(start).Milliseconds())

	return rep, nil
}

// Monthly returns only the monthly evolution table.
func (s *ReportService) Monthly(ctx context.Context, req core.ReportRequest) ([]core.MonthlyRow, error) {
	rep, err := s.BuildReport(ctx, req)
	if err != nil {
		return nil, err
	}
	return rep.Monthly, nil
}

// Customers returns only the customer segmentation buckets.
func (s *ReportService) Customers(ctx context.Context, req core.ReportRequest) (core.CustomerSegments, error) {
	rep, err := s.BuildReport(ctx, req)
	if err != nil {
		return core.CustomerSegments{}, err
	}
	return rep.Customers, nil
}

// Brands returns the brand ranking and drill-down.
func (s *ReportService) Brands(ctx context.Context, req core.ReportRequest) ([]core.BrandSummaryRow, []core.BrandDetailRow, error) {
	rep, err := s.BuildReport(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return rep.BrandSummary, rep.BrandDetail, nil
}

// Sellers returns the seller ranking and drill-down.
func (s *ReportService) Sellers(ctx context.Context, req core.ReportRequest) ([]core.SellerSummaryRow, []core.SellerDetailRow, error) {
	rep, err := s.BuildReport(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return rep.SellerSummary, rep.SellerDetail, nil
}

// KPIs returns the customer base indicators for a request.
func (s *ReportService) KPIs(ctx context.Context, req core.ReportRequest) (core.KPIs, error) {
	rep, err := s.BuildReport(ctx, req)
	if err != nil {
		return core.KPIs{}, err
	}
	return rep.KPIs, nil
}

// Options lists the filterable dimension values.
func (s *ReportService) Options(ctx context.Context) (core.Options, error) {
	if s.options == nil {
		return core.Options{Months: core.MonthNames()}, nil
	}
	return s.options.FilterOptions(ctx)
}

// Invalidate drops every cached report. Called when imported data changes.
func (s *ReportService) Invalidate(ctx context.Context) {
	s.cache.Clear()
	s.logger.InfoContext(ctx, "Report cache invalidated", applog.FieldOperation, applog.OpInvalidate)
}

// Warm rebuilds and caches the default report.
func (s *ReportService) Warm(ctx context.Context) error {
	_, err := s.BuildReport(ctx, s.DefaultRequest())
	if err != nil {
		return fmt.Errorf("warm report cache: %w", err)
	}
	s.logger.InfoContext(ctx, "Report cache warmed", applog.FieldOperation, applog.OpWarm)
	return nil
}

// CacheSize reports the number of cached reports.
func (s *ReportService) CacheSize() int {
	return s.cache.Size()
}

func (s *ReportService) withDefaults(req core.ReportRequest) core.ReportRequest {
	if req.BaseYear == 0 {
		req.BaseYear = s.baseYear
	}
	if req.CurrentYear == 0 {
		req.CurrentYear = s.currentYear
	}
	// A zero objective counts as absent unless the caller marked it
	// explicit, so a bare request lands on the same cache entry Warm built.
	if req.ObjectivePct == 0 && !req.ObjectivePctSet {
		req.ObjectivePct = s.defaultPct
	}
	req.ObjectivePctSet = true
	return req
}

func cacheKey(req core.ReportRequest) string {
	f := req.Filter
	parts := []string{
		fmt.Sprintf("%d|%d|%.4f", req.BaseYear, req.CurrentYear, req.ObjectivePct),
		strings.Join(req.Months, ","),
		f.Type,
		f.Category,
		strings.Join(f.Brands, ","),
		strings.Join(f.Chains, ","),
		strings.Join(f.Customers, ","),
		strings.Join(f.CustomerCodes, ","),
		strings.Join(f.Sellers, ","),
	}
	// Either bound makes the range part of the fingerprint, even though the
	// HTTP parser only ever passes both or neither.
	if !f.From.IsZero() || !f.To.IsZero() {
		parts = append(parts, f.From.Format("2006-01-02"), f.To.Format("2006-01-02"))
	}
	return strings.Join(parts, "|")
}
