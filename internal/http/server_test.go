package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ventas/internal/core"
	applog "ventas/internal/log"
	"ventas/internal/services"
	"ventas/internal/source/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	rows := []core.TransactionRow{
		{Date: "2025-03-01", Amount: "100", Quantity: "10", Type: "Stock", CategoryID: "1", Brand: "Alfa", CustomerName: "Uno", CustomerCode: "C1", Seller: "Sur"},
		{Date: "2026-03-01", Amount: "150", Quantity: "12", Type: "Stock", CategoryID: "1", Brand: "Alfa", CustomerName: "Uno", CustomerCode: "C1", Seller: "Sur"},
		{Date: "2026-05-10", Amount: "50", Quantity: "5", Type: "Pre-Venta", CategoryID: "2", Brand: "Beta", CustomerName: "Dos", CustomerCode: "C2", Seller: "Norte"},
	}

	store := memory.New(rows)
	svc := services.NewReportService(store, store, services.ReportServiceConfig{}, applog.New(applog.DefaultConfig()))
	return NewServer(":0", svc, nil)
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	rec := doRequest(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	data, ok := body.Data.(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Errorf("data = %v, want status ok", body.Data)
	}
}

func TestReportEndpoint(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	rec := doRequest(t, s, http.MethodGet, "/api/v1/report?objective_pct=20")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data core.Report `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	// Two active months plus the grand total row.
	if got := len(body.Data.Monthly); got != 3 {
		t.Errorf("monthly rows = %d, want 3", got)
	}
	last := body.Data.Monthly[len(body.Data.Monthly)-1]
	if last.Month != "== TOTAL GENERAL ==" {
		t.Errorf("last monthly row = %q, want grand total", last.Month)
	}
	if body.Data.KPIs.CurrentYearCustomers != 2 {
		t.Errorf("current year customers = %d, want 2", body.Data.KPIs.CurrentYearCustomers)
	}
}

func TestMonthlyEndpointWithFilter(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	rec := doRequest(t, s, http.MethodGet, "/api/v1/report/monthly?objective_pct=20&months=Marzo")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data struct {
			Monthly []core.MonthlyRow `json:"monthly"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	// One March row plus the grand total.
	if got := len(body.Data.Monthly); got != 2 {
		t.Fatalf("monthly rows = %d, want 2", got)
	}
	if body.Data.Monthly[0].Month != "03 - Marzo" {
		t.Errorf("month = %q, want 03 - Marzo", body.Data.Monthly[0].Month)
	}
}

func TestBrandsEndpoint(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	rec := doRequest(t, s, http.MethodGet, "/api/v1/report/brands?objective_pct=20")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Data struct {
			Summary []core.BrandSummaryRow `json:"summary"`
			Detail  []core.BrandDetailRow  `json:"detail"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Data.Summary) == 0 || len(body.Data.Detail) == 0 {
		t.Errorf("summary/detail = %d/%d rows, want both non-empty", len(body.Data.Summary), len(body.Data.Detail))
	}
}

func TestOptionsEndpoint(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	rec := doRequest(t, s, http.MethodGet, "/api/v1/options")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Data core.Options `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Data.Months) != 12 {
		t.Errorf("months = %d, want 12", len(body.Data.Months))
	}
	if len(body.Data.Brands) != 2 {
		t.Errorf("brands = %v, want 2 entries", body.Data.Brands)
	}
}

func TestReportEndpointBadQuery(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	rec := doRequest(t, s, http.MethodGet, "/api/v1/report?objective_pct=veinte")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error == "" {
		t.Error("expected error message in body")
	}
}

func TestReportEndpointRejectsPost(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	rec := doRequest(t, s, http.MethodPost, "/api/v1/report")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestInvalidateEndpoint(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	if rec := doRequest(t, s, http.MethodGet, "/api/v1/cache/invalidate"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d, want 405", rec.Code)
	}

	rec := doRequest(t, s, http.MethodPost, "/api/v1/cache/invalidate")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST status = %d", rec.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := newTestServer(t)
	defer s.limiter.Stop()

	rec := doRequest(t, s, http.MethodGet, "/api/v1/options")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}
