package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireAdmin gates the product-management routes: an authenticated session
// without the admin role gets a 403 and never reaches the admin controller.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				RespondWithError(w, http.StatusForbidden, "esta conta não tem permissões de administrador")
				return
			}

			if role != "admin" {
				logger.Warn("Non-admin account attempted to access admin endpoint",
					zap.String("role", role),
				)
				RespondWithError(w, http.StatusForbidden, "esta conta não tem permissões de administrador")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
