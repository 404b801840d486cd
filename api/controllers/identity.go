package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/makersrow/makersrow-backend/api/middleware"
	"github.com/makersrow/makersrow-backend/internal/cart"
	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
)

// identityFromRequest maps the middleware-seeded context to a cart identity.
func identityFromRequest(r *http.Request) (cart.Identity, error) {
	if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
		parsed, err := uuid.Parse(userID)
		if err != nil {
			return cart.Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
		}
		return cart.UserIdentity(parsed), nil
	}
	if session := middleware.GuestSessionFromContext(r.Context()); session != "" {
		return cart.GuestIdentity(session), nil
	}
	return cart.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "no shopper identity")
}

// userIDFromRequest requires an authenticated identity.
func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return parsed, nil
}
