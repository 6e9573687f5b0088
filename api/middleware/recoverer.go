package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/reactmeals-backend/api/responses"
	pkgerrors "github.com/angelmondragon/reactmeals-backend/pkg/errors"
	"github.com/angelmondragon/reactmeals-backend/pkg/logger"
)

// Recoverer turns handler panics into a 500 envelope and logs them with the
// request's cart session when one is bound.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						fields := map[string]any{"panic": rec, "method": r.Method, "path": r.URL.Path}
						if sessionID := SessionIDFromContext(ctx); sessionID != "" {
							fields["session_id"] = sessionID
						}
						ctx = logg.WithFields(ctx, fields)
						logg.Error(ctx, "panic.recovered", err)
					}
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
