package common

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// IdempotencyHeader carries the client-chosen key for write deduplication.
const IdempotencyHeader = "Idempotency-Key"

// Idem deduplicates write requests through Redis. The first request
// carrying a given key reserves it; duplicates arriving while the
// reservation is alive are answered with 409.
type Idem struct {
	R   *redis.Client
	TTL time.Duration
}

// Middleware enforces idempotency for the wrapped endpoint. Requests
// without the header pass through untouched.
func (i Idem) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
		if header == "" || i.R == nil {
			next.ServeHTTP(w, r)
			return
		}
		fresh, err := i.reserve(r.Context(), header)
		if err != nil {
			JSONError(w, http.StatusInternalServerError, "INTERNAL", "idempotency store error", map[string]any{"error": err.Error()})
			return
		}
		if !fresh {
			JSONError(w, http.StatusConflict, "IDEMPOTENT_REPLAY", "duplicate request", nil)
			return
		}
		defer func() {
			_ = i.R.Expire(context.Background(), idemKey(header), i.TTL).Err()
		}()
		next.ServeHTTP(w, r)
	})
}

func (i Idem) reserve(ctx context.Context, header string) (bool, error) {
	return i.R.SetNX(ctx, idemKey(header), "locked", i.TTL).Result()
}

func idemKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "idem:" + hex.EncodeToString(sum[:])
}
