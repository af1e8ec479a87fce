package auth

import (
	"net/http"
	"strings"

	"github.com/jvitormendess/jaci-api/internal/common"
)

// Middleware guards admin-only routes.
type Middleware struct {
	Service *Service
}

// RequireAdmin enforces a valid admin token before executing the next handler.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Service == nil {
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth not configured", nil)
			return
		}
		token := extractToken(r)
		if token == "" {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
			return
		}
		if _, err := m.Service.ParseToken(token); err != nil {
			if appErr, ok := common.AsAppError(err); ok {
				appErr.WriteHTTP(w)
				return
			}
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(common.WithAdmin(r.Context())))
	})
}

func extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
