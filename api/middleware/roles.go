package middleware

import (
	"net/http"

	"github.com/makersrow/makersrow-backend/api/responses"
	pkgAuth "github.com/makersrow/makersrow-backend/pkg/auth"
	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
	"github.com/makersrow/makersrow-backend/pkg/logger"
)

// RequireManufacturer gates fulfillment routes to manufacturer staff and
// admins. Runs after Auth, which seeds the role from the token claims.
func RequireManufacturer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role != string(pkgAuth.RoleManufacturer) && role != string(pkgAuth.RoleAdmin) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "manufacturer role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
