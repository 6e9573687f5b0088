package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/reactmeals-backend/pkg/logger"
)

const (
	CartSessionCookie = "rm_cart_session"
	CartSessionHeader = "X-Cart-Session"

	maxSessionIDLen = 64
)

// CartSessionOptions controls the session cookie.
type CartSessionOptions struct {
	Secure bool
	MaxAge time.Duration
}

// CartSession binds every request to a cart session. The id comes from the
// session cookie, then the X-Cart-Session header; otherwise a new one is
// minted. The cookie is written back on every response.
func CartSession(logg *logger.Logger, opts CartSessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionFromRequest(r)
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			// Re-issued on every request so the browser expiry slides with
			// the server-side idle TTL.
			http.SetCookie(w, &http.Cookie{
				Name:     CartSessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(opts.MaxAge / time.Second),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(CartSessionHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CartSessionCookie); err == nil {
		if id := cleanSessionID(c.Value); id != "" {
			return id
		}
	}
	return cleanSessionID(r.Header.Get(CartSessionHeader))
}

// cleanSessionID accepts short ids made of letters, digits, '-' and '_'.
// It also vets client supplied request ids.
func cleanSessionID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxSessionIDLen {
		return ""
	}
	for _, c := range id {
		if !(c == '-' || c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return ""
		}
	}
	return id
}
