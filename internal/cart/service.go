package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/makersrow/makersrow-backend/pkg/db/models"
	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
	"github.com/makersrow/makersrow-backend/pkg/logger"
)

type remoteStore interface {
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Create(ctx context.Context, row *models.CartItem) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error
}

type guestStore interface {
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Save(ctx context.Context, sessionID string, lines []Line) error
	Clear(ctx context.Context, sessionID string) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Service keeps the guest store, the remote store, and the session view
// consistent for whichever identity is active, and reconciles the two stores
// when a shopper signs in.
type Service interface {
	Load(ctx context.Context, identity Identity) (*Session, error)
	Add(ctx context.Context, sess *Session, productID uuid.UUID, delta int) error
	UpdateQuantity(ctx context.Context, sess *Session, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, sess *Session, productID uuid.UUID) error
	MigrateOnSignIn(ctx context.Context, guestSess *Session, userID uuid.UUID) (*Session, *MigrateResult, error)
}

type service struct {
	remote  remoteStore
	guest   guestStore
	catalog productLoader
	logg    *logger.Logger
}

// NewService builds the cart service backed by the provided stores.
func NewService(remote remoteStore, guest guestStore, catalog productLoader, logg *logger.Logger) (Service, error) {
	if remote == nil {
		return nil, fmt.Errorf("remote cart store required")
	}
	if guest == nil {
		return nil, fmt.Errorf("guest cart store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{remote: remote, guest: guest, catalog: catalog, logg: logg}, nil
}

// MigrateResult enumerates which guest lines reached the remote store so
// callers can surface partial migrations instead of guessing.
type MigrateResult struct {
	Migrated int          `json:"migrated"`
	Failed   []FailedLine `json:"failed,omitempty"`
}

// FailedLine records one guest line that could not be migrated.
type FailedLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Reason    string    `json:"reason"`
}

// Load hydrates the session view for the identity. Guest payloads that fail to
// parse come back empty; remote rows whose product no longer resolves are
// dropped, not errors.
func (s *service) Load(ctx context.Context, identity Identity) (*Session, error) {
	if !identity.IsAuthenticated() {
		lines, err := s.guest.Load(ctx, identity.GuestSession)
		if err != nil {
			return nil, err
		}
		return NewSession(identity, lines), nil
	}

	rows, err := s.remote.ListByUser(ctx, *identity.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read remote cart")
	}
	if len(rows) == 0 {
		return NewSession(identity, nil), nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "hydrate cart products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		product, ok := byID[row.ProductID]
		if !ok {
			// Stale reference: the product was delisted after the row was written.
			continue
		}
		lines = append(lines, LineFromProduct(product, row.Quantity))
	}
	return NewSession(identity, lines), nil
}

// Add increases the quantity of the product in the active store by delta,
// enforcing the stock ceiling. The session view is mutated only after the
// store write succeeds.
func (s *service) Add(ctx context.Context, sess *Session, productID uuid.UUID, delta int) error {
	if sess == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	if delta <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity delta must be positive")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.Stock <= 0 {
		return pkgerrors.New(pkgerrors.CodeOutOfStock, "product is out of stock").
			WithDetails(map[string]any{"product_id": product.ID})
	}

	newQuantity := sess.quantityOf(productID) + delta
	if newQuantity > product.Stock {
		return stockExceeded(product)
	}

	return s.writeQuantity(ctx, sess, product, newQuantity)
}

// UpdateQuantity overwrites the stored quantity. Anything below one delegates
// to Remove.
func (s *service) UpdateQuantity(ctx context.Context, sess *Session, productID uuid.UUID, quantity int) error {
	if sess == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	if quantity < 1 {
		return s.Remove(ctx, sess, productID)
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}
	if quantity > product.Stock {
		return stockExceeded(product)
	}

	return s.writeQuantity(ctx, sess, product, quantity)
}

// Remove deletes the line from the active store and the session view.
// Removing an absent line is a no-op success.
func (s *service) Remove(ctx context.Context, sess *Session, productID uuid.UUID) error {
	if sess == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}

	if !sess.Identity.IsAuthenticated() {
		updated := removeFrom(sess.Lines(), productID)
		if err := s.guest.Save(ctx, sess.Identity.GuestSession, updated); err != nil {
			return err
		}
		sess.replaceAll(updated)
		return nil
	}

	if err := s.remote.DeleteByUserAndProduct(ctx, *sess.Identity.UserID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart row")
	}
	sess.remove(productID)
	return nil
}

// MigrateOnSignIn replays every guest line into the authenticated cart, one
// line at a time. Per-line failures are logged and collected, never fatal to
// the sign-in; the guest key is cleared afterwards and a fresh authenticated
// load wins over any local drift.
func (s *service) MigrateOnSignIn(ctx context.Context, guestSess *Session, userID uuid.UUID) (*Session, *MigrateResult, error) {
	if guestSess == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "guest session is required")
	}
	if userID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign-in required before cart migration")
	}

	authSess, err := s.Load(ctx, UserIdentity(userID))
	if err != nil {
		return nil, nil, err
	}

	result := &MigrateResult{}
	var migrateErr error
	for _, line := range guestSess.Lines() {
		if err := s.Add(ctx, authSess, line.ProductID, line.Quantity); err != nil {
			migrateErr = multierr.Append(migrateErr, err)
			result.Failed = append(result.Failed, FailedLine{ProductID: line.ProductID, Reason: err.Error()})
			continue
		}
		result.Migrated++
	}
	if migrateErr != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, userID.String()),
			fmt.Sprintf("cart migration completed with %d failed lines: %v", len(result.Failed), migrateErr))
	}

	if guestSess.Identity.GuestSession != "" {
		if err := s.guest.Clear(ctx, guestSess.Identity.GuestSession); err != nil && s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("clearing guest cart after migration: %v", err))
		}
	}
	guestSess.Clear()

	fresh, err := s.Load(ctx, UserIdentity(userID))
	if err != nil {
		return nil, result, err
	}
	return fresh, result, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// writeQuantity persists the new quantity to whichever store is active, then
// mirrors it into the session view.
func (s *service) writeQuantity(ctx context.Context, sess *Session, product *models.Product, quantity int) error {
	line := LineFromProduct(product, quantity)

	if !sess.Identity.IsAuthenticated() {
		updated := upsertInto(sess.Lines(), line)
		if err := s.guest.Save(ctx, sess.Identity.GuestSession, updated); err != nil {
			return err
		}
		sess.replaceAll(updated)
		return nil
	}

	userID := *sess.Identity.UserID
	row, err := s.remote.FindByUserAndProduct(ctx, userID, product.ID)
	switch {
	case err == nil:
		if err := s.remote.UpdateQuantity(ctx, row.ID, quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart row")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if _, err := s.remote.Create(ctx, &models.CartItem{
			UserID:    userID,
			ProductID: product.ID,
			Quantity:  quantity,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart row")
		}
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart row")
	}

	sess.upsert(line)
	return nil
}

func stockExceeded(product *models.Product) error {
	return pkgerrors.New(pkgerrors.CodeStockExceeded, "requested quantity exceeds available stock").
		WithDetails(map[string]any{"product_id": product.ID, "max_allowed": product.Stock})
}

func upsertInto(lines []Line, line Line) []Line {
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i] = line
			return lines
		}
	}
	return append(lines, line)
}

func removeFrom(lines []Line, productID uuid.UUID) []Line {
	out := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			out = append(out, line)
		}
	}
	return out
}
