package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/wishlist/pkg/logger"
)

// RequestLogger returns middleware that stores a request-scoped logger,
// tagged with the request method and path, in the request context.
// Handlers retrieve it with logger.FromContext(ctx) and log with the
// *Context methods so the correlation and trace ids are attached.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base.With(
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			next.ServeHTTP(w, r.WithContext(logger.NewContext(r.Context(), l)))
		})
	}
}
