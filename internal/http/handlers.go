package http

import (
	"context"
	"net/http"
	"time"

	"ventas/internal/core"
	applog "ventas/internal/log"
)

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	OKResponse(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	}).Write(w)
}

// handleReady verifies the row source answers before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := s.reports.Options(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Readiness check failed", applog.FieldError, err.Error())
		ErrorResponse(http.StatusServiceUnavailable, "data source unavailable").Write(w)
		return
	}

	OKResponse(map[string]string{"status": "ready"}).Write(w)
}

// handleReport returns the full report with every section.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	req, errResp := s.parseRequest(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	report, err := s.reports.BuildReport(r.Context(), req)
	if err != nil {
		s.logError(r, "Report build failed", err)
		InternalServerError("failed to build report").Write(w)
		return
	}

	OKResponse(report).Write(w)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	req, errResp := s.parseRequest(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	rows, err := s.reports.Monthly(r.Context(), req)
	if err != nil {
		s.logError(r, "Monthly report failed", err)
		InternalServerError("failed to build monthly report").Write(w)
		return
	}

	OKResponse(map[string]any{"monthly": rows}).Write(w)
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	req, errResp := s.parseRequest(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	segments, err := s.reports.Customers(r.Context(), req)
	if err != nil {
		s.logError(r, "Customer report failed", err)
		InternalServerError("failed to build customer report").Write(w)
		return
	}

	OKResponse(segments).Write(w)
}

func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request) {
	req, errResp := s.parseRequest(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	summary, detail, err := s.reports.Brands(r.Context(), req)
	if err != nil {
		s.logError(r, "Brand report failed", err)
		InternalServerError("failed to build brand report").Write(w)
		return
	}

	OKResponse(map[string]any{"summary": summary, "detail": detail}).Write(w)
}

func (s *Server) handleSellers(w http.ResponseWriter, r *http.Request) {
	req, errResp := s.parseRequest(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	summary, detail, err := s.reports.Sellers(r.Context(), req)
	if err != nil {
		s.logError(r, "Seller report failed", err)
		InternalServerError("failed to build seller report").Write(w)
		return
	}

	OKResponse(map[string]any{"summary": summary, "detail": detail}).Write(w)
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	req, errResp := s.parseRequest(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	kpis, err := s.reports.KPIs(r.Context(), req)
	if err != nil {
		s.logError(r, "KPI report failed", err)
		InternalServerError("failed to build kpis").Write(w)
		return
	}

	OKResponse(kpis).Write(w)
}

// handleOptions returns the distinct filterable values for pickers.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		errResp.Write(w)
		return
	}

	opts, err := s.reports.Options(r.Context())
	if err != nil {
		s.logError(r, "Options lookup failed", err)
		InternalServerError("failed to list filter options").Write(w)
		return
	}

	OKResponse(opts).Write(w)
}

// handleInvalidate drops every cached report and rewarms the default one.
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodPost); errResp != nil {
		errResp.Write(w)
		return
	}

	s.reports.Invalidate(r.Context())
	if err := s.reports.Warm(r.Context()); err != nil {
		s.logError(r, "Cache rewarm failed", err)
		// The cache is already clean, the next request rebuilds lazily.
		OKResponse(map[string]string{"status": "invalidated"}).Write(w)
		return
	}

	OKResponse(map[string]string{"status": "invalidated and warmed"}).Write(w)
}

// parseRequest validates the method and query of a report endpoint.
func (s *Server) parseRequest(r *http.Request) (core.ReportRequest, *JSONResponseBuilder) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		return core.ReportRequest{}, errResp
	}

	req, err := ParseReportRequest(r.URL.Query())
	if err != nil {
		return core.ReportRequest{}, BadRequestError(err.Error())
	}
	return req, nil
}

func (s *Server) logError(r *http.Request, msg string, err error) {
	applog.FromContext(r.Context()).ErrorContext(r.Context(), msg,
		applog.FieldError, err.Error(),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
}
