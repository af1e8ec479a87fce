package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
)

func newIdem(t *testing.T) Idem {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Idem{R: client, TTL: time.Minute}
}

func TestIdemFirstRequestPasses(t *testing.T) {
	idem := newIdem(t)
	var hits int
	handler := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.Header.Set(IdempotencyHeader, "order-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated || hits != 1 {
		t.Fatalf("first request: code=%d hits=%d", rr.Code, hits)
	}
}

func TestIdemDuplicateRejected(t *testing.T) {
	idem := newIdem(t)
	var hits int
	handler := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		req.Header.Set(IdempotencyHeader, "order-1")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if i == 1 && rr.Code != http.StatusConflict {
			t.Fatalf("duplicate request: code=%d, want 409", rr.Code)
		}
	}
	if hits != 1 {
		t.Fatalf("handler ran %d times, want 1", hits)
	}
}

func TestIdemNoHeaderPassesThrough(t *testing.T) {
	idem := newIdem(t)
	var hits int
	handler := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
	}
	if hits != 3 {
		t.Fatalf("handler ran %d times, want 3", hits)
	}
}
