package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLimiter(t *testing.T) Limiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Limiter{Client: client, Prefix: "test:"}
}

func TestLimiterSlidingWindow(t *testing.T) {
	limiter := newLimiter(t)
	ctx := context.Background()
	window := 2 * time.Second
	max := 2

	for i := 0; i < max; i++ {
		allowed, remaining, _, err := limiter.Allow(ctx, "key", window, max)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !allowed {
			t.Fatalf("expected request %d to be allowed", i)
		}
		if remaining != max-(i+1) {
			t.Fatalf("unexpected remaining: %d", remaining)
		}
	}

	allowed, remaining, _, err := limiter.Allow(ctx, "key", window, max)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if allowed {
		t.Fatal("expected request above limit to be rejected")
	}
	if remaining != 0 {
		t.Fatalf("expected remaining 0, got %d", remaining)
	}
}

func TestLimiterIsolatesKeys(t *testing.T) {
	limiter := newLimiter(t)
	ctx := context.Background()

	if ok, _, _, _ := limiter.Allow(ctx, "a", time.Second, 1); !ok {
		t.Fatal("first request for key a must pass")
	}
	if ok, _, _, _ := limiter.Allow(ctx, "b", time.Second, 1); !ok {
		t.Fatal("key b must not be affected by key a")
	}
}

func TestMiddlewareEnforcesLimit(t *testing.T) {
	handler := Handler{
		Limiter: newLimiter(t),
		Config: Config{
			Key:    func(*http.Request) string { return "static" },
			Window: time.Second,
			Max:    1,
		},
	}
	counted := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	rr1 := httptest.NewRecorder()
	counted.ServeHTTP(rr1, req.Clone(req.Context()))
	if rr1.Code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", rr1.Code)
	}

	rr2 := httptest.NewRecorder()
	counted.ServeHTTP(rr2, req.Clone(req.Context()))
	if rr2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on second request, got %d", rr2.Code)
	}
	if rr2.Header().Get("X-RateLimit-Limit") != "1" {
		t.Fatalf("unexpected limit header: %q", rr2.Header().Get("X-RateLimit-Limit"))
	}
}

func TestMiddlewareFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer func() { _ = client.Close() }()

	called := false
	handler := Handler{
		Limiter: Limiter{Client: client, Prefix: "ratelimit:"},
		Config: Config{
			Key:    func(*http.Request) string { return "err" },
			Window: time.Second,
			Max:    1,
		},
		OnError: func(error) { called = true },
	}
	counted := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	rr := httptest.NewRecorder()
	counted.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected handler to proceed on error, got %d", rr.Code)
	}
	if !called {
		t.Fatal("expected OnError callback to be invoked")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:1234"
	if ip := ClientIP(req); ip != "10.0.0.7" {
		t.Fatalf("ip=%q", ip)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if ip := ClientIP(req); ip != "203.0.113.9" {
		t.Fatalf("forwarded ip=%q", ip)
	}
}
