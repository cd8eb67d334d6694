package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tristats-edge/internal/config"
)

func testRouter() http.Handler {
	return NewRouter(&config.Config{
		AnthropicKey: "k",
		TriathlonKey: "k",
		YouTubeKey:   "k",
	})
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if rr.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", rr.Body.String())
	}
}

func TestPreflight(t *testing.T) {
	tests := []struct {
		path        string
		wantMethods string
	}{
		{"/api/query", "POST, OPTIONS"},
		{"/api/triathlon", "GET"},
		{"/api/videos", "GET"},
		{"/api/youtube", "GET"},
	}

	router := testRouter()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, tt.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rr.Code)
			}
			if rr.Body.Len() != 0 {
				t.Errorf("preflight body = %q, want empty", rr.Body.String())
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("Allow-Origin = %q, want *", got)
			}
			if got := rr.Header().Get("Access-Control-Allow-Methods"); got != tt.wantMethods {
				t.Errorf("Allow-Methods = %q, want %q", got, tt.wantMethods)
			}
		})
	}
}

func TestQueryRejectsNonPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/query", nil)
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS headers must be present on errors, Allow-Origin = %q", got)
	}
}

func TestErrorsCarryCORSHeaders(t *testing.T) {
	// Missing endpoint parameter is a plain 400, but a browser caller still
	// needs to read it.
	req := httptest.NewRequest(http.MethodGet, "/api/triathlon", nil)
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}
