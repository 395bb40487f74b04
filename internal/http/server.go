// Package http exposes the report engine as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ventas/internal/core"
	applog "ventas/internal/log"
	"ventas/internal/middleware/ratelimit"
	"ventas/internal/middleware/security"
	"ventas/internal/middleware/trace"
)

// ReportProvider is the slice of the report service the API needs.
type ReportProvider interface {
	BuildReport(ctx context.Context, req core.ReportRequest) (core.Report, error)
	Monthly(ctx context.Context, req core.ReportRequest) ([]core.MonthlyRow, error)
	Customers(ctx context.Context, req core.ReportRequest) (core.CustomerSegments, error)
	Brands(ctx context.Context, req core.ReportRequest) ([]core.BrandSummaryRow, []core.BrandDetailRow, error)
	Sellers(ctx context.Context, req core.ReportRequest) ([]core.SellerSummaryRow, []core.SellerDetailRow, error)
	KPIs(ctx context.Context, req core.ReportRequest) (core.KPIs, error)
	Options(ctx context.Context) (core.Options, error)
	Invalidate(ctx context.Context)
	Warm(ctx context.Context) error
}

type Server struct {
	http.Server

	reports  ReportProvider
	limiter  *ratelimit.Limiter
	detector *security.Detector
	logger   *applog.Logger

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, reports ReportProvider, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		reports:   reports,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:  security.NewDetector(),
		logger:    logger.WithComponent(applog.ComponentHTTP),
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/v1/report", s.handleReport)
	mux.HandleFunc("/api/v1/report/monthly", s.handleMonthly)
	mux.HandleFunc("/api/v1/report/customers", s.handleCustomers)
	mux.HandleFunc("/api/v1/report/brands", s.handleBrands)
	mux.HandleFunc("/api/v1/report/sellers", s.handleSellers)
	mux.HandleFunc("/api/v1/kpis", s.handleKPIs)
	mux.HandleFunc("/api/v1/options", s.handleOptions)
	mux.HandleFunc("/api/v1/cache/invalidate", s.handleInvalidate)

	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	// Handlers pull a request-scoped logger out of the context, tagged
	// with the id the trace middleware assigned.
	withLogger := applog.Middleware(s.logger)
	withRequestID := applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})

	handler := tracer.Middleware(
		headers.Middleware(
			withLogger(
				withRequestID(
					s.withRateLimit(mux)))))

	s.Server = http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// withRateLimit throttles per client IP before a request reaches the mux.
// Health probes are exempt so orchestrators are never throttled out.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := s.detector.ExtractClientIP(r)
		if s.detector.DetectSuspiciousRequest(r) {
			s.logger.WarnContext(r.Context(), "Suspicious request detected",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
		}
		if !s.limiter.Allow(clientIP) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			TooManyRequestsError("rate limit exceeded, retry later").Write(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the rate limiter cleanup goroutine and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
