package controllers

import (
	"net/http"
	"strings"

	"github.com/makersrow/makersrow-backend/api/middleware"
	"github.com/makersrow/makersrow-backend/api/responses"
	"github.com/makersrow/makersrow-backend/api/validators"
	cartsvc "github.com/makersrow/makersrow-backend/internal/cart"
	checkoutsvc "github.com/makersrow/makersrow-backend/internal/checkout"
	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
	"github.com/makersrow/makersrow-backend/pkg/enums"
	"github.com/makersrow/makersrow-backend/pkg/logger"
)

type checkoutRequest struct {
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=card bank_transfer"`
	AccountName   *string `json:"account_name,omitempty" validate:"omitempty,min=1,max=120"`
}

// Checkout places the order for the signed-in shopper's cart, splitting it
// into one order per manufacturer.
func Checkout(cartService cartsvc.Service, checkoutService checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		// Keep any guest cart key attached so a shopper who signed in
		// mid-session has that cart cleared along with the remote rows.
		identity := cartsvc.UserIdentity(userID)
		identity.GuestSession = strings.TrimSpace(r.Header.Get(middleware.GuestSessionHeader))

		sess, err := cartService.Load(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := checkoutService.PlaceOrder(r.Context(), sess, checkoutsvc.PlaceOrderInput{
			PaymentMethod: method,
			AccountName:   payload.AccountName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
