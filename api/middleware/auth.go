package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/makersrow/makersrow-backend/api/responses"
	pkgAuth "github.com/makersrow/makersrow-backend/pkg/auth"
	"github.com/makersrow/makersrow-backend/pkg/config"
	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
	"github.com/makersrow/makersrow-backend/pkg/logger"
)

// GuestSessionHeader carries the browser's anonymous cart key.
const GuestSessionHeader = "X-Guest-Session"

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(cfg, r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(seedClaims(r.Context(), claims, logg)))
		})
	}
}

// Shopper resolves the request's cart identity. A valid bearer token wins;
// otherwise the guest session header is used, minting a fresh key when the
// client has none yet. The active guest key is echoed back so browsers can
// persist it.
func Shopper(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if strings.TrimSpace(r.Header.Get("Authorization")) != "" {
				claims, err := claimsFromRequest(cfg, r)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				next.ServeHTTP(w, r.WithContext(seedClaims(ctx, claims, logg)))
				return
			}

			sessionID := strings.TrimSpace(r.Header.Get(GuestSessionHeader))
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			w.Header().Set(GuestSessionHeader, sessionID)

			ctx = WithGuestSession(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithGuestSession(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func seedClaims(ctx context.Context, claims *pkgAuth.AccessTokenClaims, logg *logger.Logger) context.Context {
	ctx = WithUserID(ctx, claims.UserID.String())
	ctx = WithRole(ctx, string(claims.Role))
	if claims.ManufacturerID != nil {
		ctx = WithManufacturerID(ctx, claims.ManufacturerID.String())
	}
	if logg != nil {
		ctx = logg.WithUserID(ctx, claims.UserID.String())
	}
	return ctx
}

func claimsFromRequest(cfg config.JWTConfig, r *http.Request) (*pkgAuth.AccessTokenClaims, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	return claims, nil
}
