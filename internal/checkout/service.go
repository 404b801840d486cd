package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/makersrow/makersrow-backend/internal/cart"
	"github.com/makersrow/makersrow-backend/internal/checkout/helpers"
	"github.com/makersrow/makersrow-backend/internal/orders"
	"github.com/makersrow/makersrow-backend/pkg/config"
	"github.com/makersrow/makersrow-backend/pkg/db/models"
	"github.com/makersrow/makersrow-backend/pkg/enums"
	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
	"github.com/makersrow/makersrow-backend/pkg/logger"
	"github.com/makersrow/makersrow-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartCleaner interface {
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type guestCleaner interface {
	Clear(ctx context.Context, sessionID string) error
}

type statsWriter interface {
	AddSales(ctx context.Context, manufacturerID uuid.UUID, itemsSold int, revenueCents int64) error
}

// PlaceOrderInput carries the shopper's payment selection.
type PlaceOrderInput struct {
	PaymentMethod enums.PaymentMethod
	AccountName   *string
}

// CreatedOrder summarizes one per-manufacturer order written at checkout.
type CreatedOrder struct {
	OrderID        uuid.UUID `json:"order_id"`
	ManufacturerID uuid.UUID `json:"manufacturer_id"`
	SubtotalCents  int       `json:"subtotal_cents"`
	ShippingCents  int       `json:"shipping_cents"`
	TotalCents     int       `json:"total_cents"`
	TransactionID  *string   `json:"transaction_id,omitempty"`
}

// PlaceOrderResult reports every order the checkout produced. FirstOrderID is
// the id shown on the confirmation page.
type PlaceOrderResult struct {
	FirstOrderID uuid.UUID      `json:"first_order_id"`
	Orders       []CreatedOrder `json:"orders"`
}

// Service turns a cart session into per-manufacturer orders.
type Service interface {
	PlaceOrder(ctx context.Context, sess *cart.Session, input PlaceOrderInput) (*PlaceOrderResult, error)
}

type service struct {
	tx       txRunner
	orders   orders.Repository
	cartRows cartCleaner
	guest    guestCleaner
	stats    statsWriter
	cfg      config.CheckoutConfig
	met      *metrics.CheckoutMetrics
	logg     *logger.Logger
}

// NewService builds the checkout engine.
func NewService(
	tx txRunner,
	ordersRepo orders.Repository,
	cartRows cartCleaner,
	guest guestCleaner,
	stats statsWriter,
	cfg config.CheckoutConfig,
	met *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRows == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if stats == nil {
		return nil, fmt.Errorf("manufacturer stats writer required")
	}
	return &service{
		tx:       tx,
		orders:   ordersRepo,
		cartRows: cartRows,
		guest:    guest,
		stats:    stats,
		cfg:      cfg,
		met:      met,
		logg:     logg,
	}, nil
}

// PlaceOrder splits the cart by manufacturer and writes one order per group,
// sequentially and each in its own transaction. A mid-sequence failure keeps
// the orders already written and reports them in the error details; there is
// no cross-group rollback. The cart is cleared only after every group
// succeeds.
func (s *service) PlaceOrder(ctx context.Context, sess *cart.Session, input PlaceOrderInput) (*PlaceOrderResult, error) {
	start := time.Now()
	result, err := s.placeOrder(ctx, sess, input)
	s.met.ObservePlaceOrderDuration(time.Since(start))
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeCheckout, err, "checkout failed")
		}
		s.met.IncCheckoutFailure(string(pkgerrors.CodeOf(err)))
		return nil, err
	}
	return result, nil
}

func (s *service) placeOrder(ctx context.Context, sess *cart.Session, input PlaceOrderInput) (*PlaceOrderResult, error) {
	if sess == nil || sess.Len() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	if !sess.Identity.IsAuthenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to place an order")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}
	if input.PaymentMethod == enums.PaymentMethodBankTransfer {
		if input.AccountName == nil || strings.TrimSpace(*input.AccountName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "account name is required for bank transfers")
		}
	}

	customerID := *sess.Identity.UserID
	groups := helpers.GroupByManufacturer(sess.Lines())
	shares := helpers.AllocateShipping(s.cfg.FlatShippingFeeCents, len(groups))
	status := enums.InitialOrderStatus(input.PaymentMethod)

	result := &PlaceOrderResult{}
	for i, group := range groups {
		order := s.buildOrder(customerID, group, shares[i], status, input)

		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			_, createErr := s.orders.WithTx(tx).Create(ctx, order)
			return createErr
		})
		if err != nil {
			return nil, s.orderCreationFailed(ctx, err, group.ManufacturerID, result)
		}

		result.Orders = append(result.Orders, CreatedOrder{
			OrderID:        order.ID,
			ManufacturerID: order.ManufacturerID,
			SubtotalCents:  order.SubtotalCents,
			ShippingCents:  order.ShippingCents,
			TotalCents:     order.TotalCents,
			TransactionID:  order.TransactionID,
		})
		if i == 0 {
			result.FirstOrderID = order.ID
		}
		s.met.IncOrderCreated(input.PaymentMethod.String())

		// Stats are telemetry, never a reason to fail a paid checkout.
		if err := s.stats.AddSales(ctx, group.ManufacturerID, group.ItemCount, int64(group.SubtotalCents)); err != nil {
			s.met.IncStatsWriteFailure()
			if s.logg != nil {
				s.logg.Warn(s.logg.WithManufacturerID(ctx, group.ManufacturerID.String()),
					fmt.Sprintf("manufacturer stats update failed: %v", err))
			}
		}
	}

	s.clearCart(ctx, sess, customerID)
	return result, nil
}

func (s *service) buildOrder(customerID uuid.UUID, group helpers.ManufacturerGroup, shippingCents int, status enums.OrderStatus, input PlaceOrderInput) *models.Order {
	items := make([]models.OrderItem, 0, len(group.Lines))
	for _, line := range group.Lines {
		productID := line.ProductID
		items = append(items, models.OrderItem{
			ProductID:      &productID,
			Name:           line.Name,
			Category:       line.Category,
			ImageURL:       line.ImageURL,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			LineTotalCents: line.SubtotalCents(),
		})
	}

	order := &models.Order{
		CustomerID:     customerID,
		ManufacturerID: group.ManufacturerID,
		Status:         status,
		PaymentMethod:  input.PaymentMethod,
		SubtotalCents:  group.SubtotalCents,
		ShippingCents:  shippingCents,
		TotalCents:     group.SubtotalCents + shippingCents,
		Items:          items,
	}
	if input.PaymentMethod == enums.PaymentMethodBankTransfer {
		order.AccountName = input.AccountName
		token := transferReference()
		order.TransactionID = &token
	}
	return order
}

// orderCreationFailed reports a mid-sequence create failure. Orders already
// written stay written; the details name them so support can reconcile.
func (s *service) orderCreationFailed(ctx context.Context, cause error, manufacturerID uuid.UUID, partial *PlaceOrderResult) error {
	createdIDs := make([]uuid.UUID, 0, len(partial.Orders))
	for _, created := range partial.Orders {
		createdIDs = append(createdIDs, created.OrderID)
	}
	if s.logg != nil {
		s.logg.Error(ctx, fmt.Sprintf("order creation failed after %d orders", len(createdIDs)), cause)
	}
	return pkgerrors.Wrap(pkgerrors.CodeOrderCreation, cause, "order creation failed mid-checkout").
		WithDetails(map[string]any{
			"created_order_ids":      createdIDs,
			"failed_manufacturer_id": manufacturerID,
		})
}

// clearCart empties the remote rows, the guest key if one is still attached,
// and the session view. Failures here are logged, not surfaced: the orders
// already exist and a stale cart is recoverable.
func (s *service) clearCart(ctx context.Context, sess *cart.Session, customerID uuid.UUID) {
	if err := s.cartRows.DeleteByUser(ctx, customerID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, customerID.String()),
			fmt.Sprintf("clearing cart after checkout: %v", err))
	}
	if s.guest != nil && sess.Identity.GuestSession != "" {
		if err := s.guest.Clear(ctx, sess.Identity.GuestSession); err != nil && s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("clearing guest cart after checkout: %v", err))
		}
	}
	sess.Clear()
}

// transferReference mints the display token the shopper quotes on their bank
// transfer.
func transferReference() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "MR-" + fragment[:12]
}
