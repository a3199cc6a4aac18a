package server

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agbru/resofactor/internal/config"
	apperrors "github.com/agbru/resofactor/internal/errors"
	"github.com/agbru/resofactor/internal/logging"
	"github.com/agbru/resofactor/internal/search"
	"github.com/agbru/resofactor/internal/service"
)

// stubService returns canned results without running a real search.
type stubService struct {
	result search.FactorizationResult
	err    error
}

func (s stubService) Factor(ctx context.Context, n *big.Int) (search.FactorizationResult, error) {
	return s.result, s.err
}

func testServer(t *testing.T, svc service.Service) *Server {
	t.Helper()
	cfg := config.AppConfig{Port: "0", Timeout: time.Second}
	srv := NewServer(cfg,
		WithService(svc),
		WithLogger(logging.NewNopLogger()),
	)
	t.Cleanup(srv.rateLimiter.Stop)
	return srv
}

func successStub() stubService {
	return stubService{result: search.FactorizationResult{
		Status:           search.StatusSuccess,
		DivisorA:         big.NewInt(32749),
		DivisorB:         big.NewInt(32771),
		SamplesScored:    1000,
		CandidatesTested: 3,
		Precision:        320,
	}}
}

func TestHandleFactor_Success(t *testing.T) {
	srv := testServer(t, successStub())

	req := httptest.NewRequest(http.MethodGet, "/factor?n=1073217479", nil)
	rec := httptest.NewRecorder()
	srv.handleFactor(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "success" || resp.DivisorA != "32749" || resp.DivisorB != "32771" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleFactor_MissingParameter(t *testing.T) {
	srv := testServer(t, successStub())

	req := httptest.NewRequest(http.MethodGet, "/factor", nil)
	rec := httptest.NewRecorder()
	srv.handleFactor(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleFactor_InvalidParameter(t *testing.T) {
	srv := testServer(t, successStub())

	for _, n := range []string{"abc", "-5", "0", "12.5"} {
		req := httptest.NewRequest(http.MethodGet, "/factor?n="+n, nil)
		rec := httptest.NewRecorder()
		srv.handleFactor(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("n=%q: status = %d, want 400", n, rec.Code)
		}
	}
}

func TestHandleFactor_MaxBits(t *testing.T) {
	srv := testServer(t, stubService{err: service.ErrMaxBitsExceeded})

	req := httptest.NewRequest(http.MethodGet, "/factor?n=1073217479", nil)
	rec := httptest.NewRecorder()
	srv.handleFactor(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleFactor_DomainRejection(t *testing.T) {
	srv := testServer(t, stubService{err: apperrors.NewDomainError(big.NewInt(5), "below the accepted minimum")})

	req := httptest.NewRequest(http.MethodGet, "/factor?n=5", nil)
	rec := httptest.NewRecorder()
	srv.handleFactor(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestHandleFactor_MethodNotAllowed(t *testing.T) {
	srv := testServer(t, successStub())

	req := httptest.NewRequest(http.MethodPost, "/factor?n=1073217479", nil)
	rec := httptest.NewRecorder()
	srv.handleFactor(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t, successStub())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", body["status"])
	}
}

func TestHandleMetrics(t *testing.T) {
	srv := testServer(t, successStub())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.handleMetrics(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("metrics body should not be empty")
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 2})
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request in the window should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("a different client should not be limited")
	}
}

func TestSecurityMiddleware_Headers(t *testing.T) {
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr with port", "192.168.1.1:1234", nil, "192.168.1.1"},
		{"x-forwarded-for single", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "203.0.113.9"},
		{"x-forwarded-for list", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"}, "203.0.113.9"},
		{"x-real-ip", "10.0.0.1:80", map[string]string{"X-Real-IP": "203.0.113.7"}, "203.0.113.7"},
		{"ipv6", "[::1]:8080", nil, "::1"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tc.want {
				t.Errorf("getClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}
