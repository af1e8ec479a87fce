package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jvitormendess/jaci-api/internal/common"
)

// Config describes how to derive a rate limit key and thresholds.
type Config struct {
	Key    func(*http.Request) string
	Window time.Duration
	Max    int
}

// Handler enforces rate limits before delegating to the next handler. Limiter
// errors fail open so a Redis outage does not take the endpoint down with it.
type Handler struct {
	Limiter Limiter
	Config  Config
	OnError func(error)
}

// Middleware implements the http.Handler middleware interface.
func (h Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Config.Key == nil || h.Config.Max <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		allowed, remaining, resetAt, err := h.Limiter.Allow(r.Context(), h.Config.Key(r), h.Config.Window, h.Config.Max)
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		h.writeHeaders(w, remaining, resetAt)
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(secondsUntil(resetAt)))
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h Handler) writeHeaders(w http.ResponseWriter, remaining int, resetAt time.Time) {
	hd := w.Header()
	hd.Set("X-RateLimit-Limit", strconv.Itoa(h.Config.Max))
	hd.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	hd.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}

func secondsUntil(t time.Time) int {
	s := int(time.Until(t).Seconds())
	if s < 0 {
		return 0
	}
	return s
}

// ClientIP derives the limiter key from the caller's address, honouring the
// first X-Forwarded-For hop when present.
func ClientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
