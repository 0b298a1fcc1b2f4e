package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"domainverse/internal/auth"
	"domainverse/internal/logger"
)

// RequireEditor rejects requests without a valid editor bearer token.
// A nil manager lets every request through.
func RequireEditor(tokens *auth.TokenManager) Middleware {
	return func(next http.Handler) http.Handler {
		if tokens == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="domainverse"`)
				writeError(w, r, "Unauthorized", "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				writeError(w, r, "Unauthorized", err.Error(), http.StatusUnauthorized)
				return
			}
			if !claims.CanEdit() {
				writeError(w, r, "Forbidden", auth.ErrForbiddenRole.Error(), http.StatusForbidden)
				return
			}

			ctx := logger.WithFields(r.Context(), zap.String("editor", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
