package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agbru/numex/internal/config"
	"github.com/agbru/numex/internal/fibonacci"
	"github.com/agbru/numex/internal/logging"
	"github.com/agbru/numex/pkg/models"
)

// newSlowServer serves a single "slow" strategy that echoes n after delay.
func newSlowServer(delay time.Duration, opts ...Option) *Server {
	registry := map[string]fibonacci.Calculator{
		"slow": &fibonacci.MockCalculator{
			NameValue: "slow",
			Fn: func(ctx context.Context, n uint64) (uint64, error) {
				select {
				case <-time.After(delay):
					return n, nil
				case <-ctx.Done():
					return 0, ctx.Err()
				}
			},
		},
	}
	base := []Option{WithLogger(logging.NewLogger(io.Discard, "test"))}
	return NewServer(fibonacci.NewTestFactory(registry), config.AppConfig{Port: "0", Algo: "slow"}, append(base, opts...)...)
}

// TestServerConcurrentRequests tests that the server can handle multiple concurrent requests.
func TestServerConcurrentRequests(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping load test in short mode")
	}

	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 10000})
	srv := newSlowServer(10*time.Millisecond, WithRateLimiter(rl))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	const (
		numRequests   = 100
		numGoroutines = 10
	)

	var (
		successCount int64
		errorCount   int64
		wg           sync.WaitGroup
	)

	client := &http.Client{Timeout: 10 * time.Second}
	for w := range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range numRequests / numGoroutines {
				n := (w*numGoroutines + i) % 90
				resp, err := client.Get(fmt.Sprintf("%s/fibonacci?n=%d", ts.URL, n))
				if err != nil {
					atomic.AddInt64(&errorCount, 1)
					continue
				}
				var body models.FibonacciResponse
				decodeErr := json.NewDecoder(resp.Body).Decode(&body)
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK || decodeErr != nil || body.Result != uint64(n) {
					atomic.AddInt64(&errorCount, 1)
					continue
				}
				atomic.AddInt64(&successCount, 1)
			}
		}()
	}
	wg.Wait()

	if errorCount > 0 {
		t.Errorf("Expected no errors, got %d", errorCount)
	}
	if successCount != numRequests {
		t.Errorf("Expected %d successful requests, got %d", numRequests, successCount)
	}
}

// TestServerRequestTimeout verifies that a computation outliving the
// request timeout is reported as 504.
func TestServerRequestTimeout(t *testing.T) {
	t.Parallel()
	timeouts := DefaultServerTimeouts()
	timeouts.RequestTimeout = 20 * time.Millisecond
	srv := newSlowServer(time.Second, WithTimeouts(timeouts))

	rec := doRequest(t, srv, http.MethodGet, "/fibonacci?n=5", "")
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("Expected status 504, got %d (%s)", rec.Code, rec.Body.String())
	}
}

// TestServerRateLimiting tests that rate limiting works correctly.
func TestServerRateLimiting(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 5})
	srv := createTestServer(WithRateLimiter(rl))

	var rateLimitedCount int
	for range 10 {
		rec := doRequest(t, srv, http.MethodGet, "/leapyear?year=2024", "")
		if rec.Code == http.StatusTooManyRequests {
			rateLimitedCount++
			if rec.Header().Get("Retry-After") == "" {
				t.Error("Expected a Retry-After header")
			}
		}
	}

	if rateLimitedCount != 5 {
		t.Errorf("Expected 5 rate-limited requests, got %d", rateLimitedCount)
	}
}

// TestRateLimiterPerClient verifies that clients are limited independently.
func TestRateLimiterPerClient(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 2})

	for range 2 {
		if !rl.Allow("10.0.0.1") {
			t.Fatal("Expected request within the limit to be allowed")
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("Expected third request to be rejected")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("Expected another client to be allowed")
	}
	if rl.Clients() != 2 {
		t.Errorf("Expected 2 tracked clients, got %d", rl.Clients())
	}
}

// TestGetClientIP verifies the precedence of the client address sources.
func TestGetClientIP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"ForwardedFor", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "127.0.0.1:1234", "203.0.113.7"},
		{"RealIP", map[string]string{"X-Real-IP": " 198.51.100.2 "}, "127.0.0.1:1234", "198.51.100.2"},
		{"RemoteAddr", nil, "192.0.2.1:8080", "192.0.2.1"},
		{"IPv6", nil, "[::1]:8080", "::1"},
		{"NoPort", nil, "192.0.2.9", "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestServerSecurityHeaders tests that security headers are set correctly.
func TestServerSecurityHeaders(t *testing.T) {
	t.Parallel()
	srv := createTestServer()

	rec := doRequest(t, srv, http.MethodGet, "/health", "")

	expectedHeaders := map[string]string{
		"X-Content-Type-Options":      "nosniff",
		"X-Frame-Options":             "DENY",
		"Referrer-Policy":             "strict-origin-when-cross-origin",
		"Access-Control-Allow-Origin": "*",
	}
	for header, expected := range expectedHeaders {
		if actual := rec.Header().Get(header); actual != expected {
			t.Errorf("Header %s: expected %q, got %q", header, expected, actual)
		}
	}
}

// TestServerCORSPreflight verifies that OPTIONS requests are answered
// without reaching the handlers.
func TestServerCORSPreflight(t *testing.T) {
	t.Parallel()
	srv := createTestServer()

	rec := doRequest(t, srv, http.MethodOptions, "/histogram", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost) {
		t.Errorf("Expected POST to be allowed, got %q", rec.Header().Get("Access-Control-Allow-Methods"))
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), RequestIDHeader) {
		t.Error("Expected the request ID header to be allowed")
	}
}

// TestServerBodyLimit verifies that oversized bodies are rejected.
func TestServerBodyLimit(t *testing.T) {
	t.Parallel()
	sec := DefaultSecurityConfig()
	sec.MaxBodyBytes = 64
	srv := createTestServer(WithSecurityConfig(sec))

	body := `{"data":[` + strings.Repeat("1,", 100) + `1],"edges":[0,2]}`
	rec := doRequest(t, srv, http.MethodPost, "/histogram", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", rec.Code)
	}
}

// TestServerMaxNValidation tests that the maximum N value is enforced.
func TestServerMaxNValidation(t *testing.T) {
	t.Parallel()
	secConfig := DefaultSecurityConfig()
	secConfig.MaxNValue = 30
	srv := createTestServer(WithSecurityConfig(secConfig))

	rec := doRequest(t, srv, http.MethodGet, "/fibonacci?n=31", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	if resp := decodeBody[models.ErrorResponse](t, rec); !strings.Contains(resp.Message, "30") {
		t.Errorf("Expected error message to name the limit, got %q", resp.Message)
	}
}

// TestServerMetricsEndpoint tests that the /metrics endpoint exposes the HTTP series.
func TestServerMetricsEndpoint(t *testing.T) {
	t.Parallel()
	srv := createTestServer()

	doRequest(t, srv, http.MethodGet, "/fibonacci?n=10", "")
	rec := doRequest(t, srv, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") == "" {
		t.Error("Content-Type header is missing")
	}
	for _, series := range []string{"numex_http_requests_total", "numex_http_active_requests", "numex_exercise_requests_total"} {
		if !strings.Contains(rec.Body.String(), series) {
			t.Errorf("Expected series %s in /metrics output", series)
		}
	}
}

// BenchmarkServerFibonacci benchmarks the Fibonacci endpoint.
func BenchmarkServerFibonacci(b *testing.B) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 1 << 30})
	srv := createTestServer(WithRateLimiter(rl))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := &http.Client{}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			resp, err := client.Get(ts.URL + "/fibonacci?n=90&algo=iterative")
			if err != nil {
				b.Error(err)
				continue
			}
			resp.Body.Close()
		}
	})
}

// BenchmarkServerHistogram benchmarks the histogram endpoint.
func BenchmarkServerHistogram(b *testing.B) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 1 << 30})
	srv := createTestServer(WithRateLimiter(rl))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := &http.Client{}
	body := `{"data":[0.1,0.5,1.2,1.9,2.2,2.8],"edges":[0,1,2,3]}`

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			resp, err := client.Post(ts.URL+"/histogram", "application/json", strings.NewReader(body))
			if err != nil {
				b.Error(err)
				continue
			}
			resp.Body.Close()
		}
	})
}
