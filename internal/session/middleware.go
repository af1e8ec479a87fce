package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jvitormendess/jaci-api/internal/common"
)

// CookieName is the cookie carrying the storefront session identifier.
const CookieName = "jaci_session"

// HeaderName lets API clients pass the session identifier explicitly,
// taking precedence over the cookie.
const HeaderName = "X-Session-ID"

// Middleware resolves the session identifier for each request, minting
// a fresh one (and setting the cookie) when the client has none. The
// resolved id is stored on the request context.
type Middleware struct {
	CookieDomain string
	CookieSecure bool
	TTL          time.Duration
}

// Handler implements chi-style middleware.
func (m Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderName))
		if id == "" {
			if c, err := r.Cookie(CookieName); err == nil {
				id = strings.TrimSpace(c.Value)
			}
		}
		if id == "" {
			id = uuid.NewString()
			ttl := m.TTL
			if ttl <= 0 {
				ttl = 7 * 24 * time.Hour
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				Domain:   m.CookieDomain,
				MaxAge:   int(ttl / time.Second),
				HttpOnly: true,
				Secure:   m.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(common.WithSessionID(r.Context(), id)))
	})
}
