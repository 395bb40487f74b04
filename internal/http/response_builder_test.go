package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONResponseBuilderData(t *testing.T) {
	rec := httptest.NewRecorder()
	OKResponse(map[string]int{"rows": 3}).Write(rec)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Data  map[string]int `json:"data"`
		Error string         `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data["rows"] != 3 {
		t.Errorf("data.rows = %d, want 3", body.Data["rows"])
	}
	if body.Error != "" {
		t.Errorf("error = %q, want empty", body.Error)
	}
}

func TestJSONResponseBuilderError(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequestError("invalid objective_pct").Write(rec)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "invalid objective_pct" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestJSONResponseBuilderCustomHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	TooManyRequestsError("slow down").Header("Retry-After", "60").Write(rec)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
}

func TestRequireMethod(t *testing.T) {
	get := httptest.NewRequest(http.MethodGet, "/api/v1/report", nil)
	if resp := RequireMethod(get, http.MethodGet); resp != nil {
		t.Error("GET should be allowed")
	}

	post := httptest.NewRequest(http.MethodPost, "/api/v1/report", nil)
	resp := RequireMethod(post, http.MethodGet)
	if resp == nil {
		t.Fatal("POST should be rejected")
	}

	rec := httptest.NewRecorder()
	resp.Write(rec)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET" {
		t.Errorf("Allow = %q, want GET", allow)
	}
}
