package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/makersrow/makersrow-backend/pkg/db/models"
	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
)

type stubRemoteStore struct {
	rows map[uuid.UUID]*models.CartItem

	createErr error
	findErr   error
	updateErr error
	deleteErr error
}

func newStubRemoteStore() *stubRemoteStore {
	return &stubRemoteStore{rows: map[uuid.UUID]*models.CartItem{}}
}

func (s *stubRemoteStore) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, row := range s.rows {
		if row.UserID == userID && row.ProductID == productID {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRemoteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, row := range s.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *stubRemoteStore) Create(ctx context.Context, row *models.CartItem) (*models.CartItem, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	s.rows[row.ID] = row
	return row, nil
}

func (s *stubRemoteStore) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	row, ok := s.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.Quantity = quantity
	return nil
}

func (s *stubRemoteStore) DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for id, row := range s.rows {
		if row.UserID == userID && row.ProductID == productID {
			delete(s.rows, id)
		}
	}
	return nil
}

type stubGuestStore struct {
	carts map[string][]Line

	loadErr  error
	saveErr  error
	clearErr error

	clearCalls []string
}

func newStubGuestStore() *stubGuestStore {
	return &stubGuestStore{carts: map[string][]Line{}}
}

func (s *stubGuestStore) Load(ctx context.Context, sessionID string) ([]Line, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.carts[sessionID], nil
}

func (s *stubGuestStore) Save(ctx context.Context, sessionID string, lines []Line) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.carts[sessionID] = lines
	return nil
}

func (s *stubGuestStore) Clear(ctx context.Context, sessionID string) error {
	s.clearCalls = append(s.clearCalls, sessionID)
	if s.clearErr != nil {
		return s.clearErr
	}
	delete(s.carts, sessionID)
	return nil
}

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
}

func newStubCatalog(products ...*models.Product) *stubCatalog {
	c := &stubCatalog{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (s *stubCatalog) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalog) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func newProduct(manufacturerID uuid.UUID, priceCents, stock int) *models.Product {
	return &models.Product{
		ID:             uuid.New(),
		ManufacturerID: manufacturerID,
		Name:           "widget",
		Category:       "hardware",
		PriceCents:     priceCents,
		Stock:          stock,
		IsActive:       true,
	}
}

func newTestService(t *testing.T, remote *stubRemoteStore, guest *stubGuestStore, catalog *stubCatalog) Service {
	t.Helper()
	svc, err := NewService(remote, guest, catalog, nil)
	require.NoError(t, err)
	return svc
}

func TestAddToGuestCartPersistsAndMirrors(t *testing.T) {
	guest := newStubGuestStore()
	product := newProduct(uuid.New(), 1500, 10)
	svc := newTestService(t, newStubRemoteStore(), guest, newStubCatalog(product))

	sess := NewSession(GuestIdentity("g-1"), nil)
	require.NoError(t, svc.Add(context.Background(), sess, product.ID, 2))

	require.Len(t, guest.carts["g-1"], 1)
	assert.Equal(t, 2, guest.carts["g-1"][0].Quantity)

	lines := sess.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 3000, sess.SubtotalCents())
}

func TestAddAccumulatesQuantity(t *testing.T) {
	guest := newStubGuestStore()
	product := newProduct(uuid.New(), 1000, 5)
	svc := newTestService(t, newStubRemoteStore(), guest, newStubCatalog(product))

	sess := NewSession(GuestIdentity("g-1"), nil)
	require.NoError(t, svc.Add(context.Background(), sess, product.ID, 2))
	require.NoError(t, svc.Add(context.Background(), sess, product.ID, 3))

	lines := sess.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddRejectsOutOfStockProduct(t *testing.T) {
	product := newProduct(uuid.New(), 1000, 0)
	svc := newTestService(t, newStubRemoteStore(), newStubGuestStore(), newStubCatalog(product))

	sess := NewSession(GuestIdentity("g-1"), nil)
	err := svc.Add(context.Background(), sess, product.ID, 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeOutOfStock))
	assert.Equal(t, 0, sess.Len())
}

func TestAddRejectsQuantityBeyondStock(t *testing.T) {
	product := newProduct(uuid.New(), 1000, 3)
	svc := newTestService(t, newStubRemoteStore(), newStubGuestStore(), newStubCatalog(product))

	sess := NewSession(GuestIdentity("g-1"), nil)
	require.NoError(t, svc.Add(context.Background(), sess, product.ID, 2))

	err := svc.Add(context.Background(), sess, product.ID, 2)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStockExceeded))

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3, details["max_allowed"])

	// View keeps the last successful write.
	lines := sess.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddRejectsNonPositiveDelta(t *testing.T) {
	product := newProduct(uuid.New(), 1000, 3)
	svc := newTestService(t, newStubRemoteStore(), newStubGuestStore(), newStubCatalog(product))

	sess := NewSession(GuestIdentity("g-1"), nil)
	err := svc.Add(context.Background(), sess, product.ID, 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestAddAuthenticatedCreatesThenUpdatesRow(t *testing.T) {
	remote := newStubRemoteStore()
	product := newProduct(uuid.New(), 1000, 10)
	svc := newTestService(t, remote, newStubGuestStore(), newStubCatalog(product))

	userID := uuid.New()
	sess := NewSession(UserIdentity(userID), nil)

	require.NoError(t, svc.Add(context.Background(), sess, product.ID, 1))
	require.Len(t, remote.rows, 1)

	require.NoError(t, svc.Add(context.Background(), sess, product.ID, 2))
	require.Len(t, remote.rows, 1)
	row, err := remote.FindByUserAndProduct(context.Background(), userID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, row.Quantity)
}

func TestAddDoesNotMutateViewOnStoreFailure(t *testing.T) {
	remote := newStubRemoteStore()
	remote.createErr = errors.New("insert refused")
	product := newProduct(uuid.New(), 1000, 10)
	svc := newTestService(t, remote, newStubGuestStore(), newStubCatalog(product))

	sess := NewSession(UserIdentity(uuid.New()), nil)
	err := svc.Add(context.Background(), sess, product.ID, 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, 0, sess.Len())
}

func TestUpdateQuantityBelowOneRemovesLine(t *testing.T) {
	guest := newStubGuestStore()
	product := newProduct(uuid.New(), 1000, 10)
	svc := newTestService(t, newStubRemoteStore(), guest, newStubCatalog(product))

	sess := NewSession(GuestIdentity("g-1"), nil)
	require.NoError(t, svc.Add(context.Background(), sess, product.ID, 2))
	require.NoError(t, svc.UpdateQuantity(context.Background(), sess, product.ID, 0))

	assert.Equal(t, 0, sess.Len())
	assert.Empty(t, guest.carts["g-1"])
}

func TestRemoveAbsentLineIsNoOp(t *testing.T) {
	svc := newTestService(t, newStubRemoteStore(), newStubGuestStore(), newStubCatalog())

	guestSess := NewSession(GuestIdentity("g-1"), nil)
	require.NoError(t, svc.Remove(context.Background(), guestSess, uuid.New()))

	authSess := NewSession(UserIdentity(uuid.New()), nil)
	require.NoError(t, svc.Remove(context.Background(), authSess, uuid.New()))
}

func TestLoadAuthenticatedDropsStaleProducts(t *testing.T) {
	remote := newStubRemoteStore()
	product := newProduct(uuid.New(), 1000, 10)
	catalog := newStubCatalog(product)
	svc := newTestService(t, remote, newStubGuestStore(), catalog)

	userID := uuid.New()
	_, err := remote.Create(context.Background(), &models.CartItem{UserID: userID, ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = remote.Create(context.Background(), &models.CartItem{UserID: userID, ProductID: uuid.New(), Quantity: 1})
	require.NoError(t, err)

	sess, err := svc.Load(context.Background(), UserIdentity(userID))
	require.NoError(t, err)
	require.Equal(t, 1, sess.Len())
	assert.Equal(t, product.ID, sess.Lines()[0].ProductID)
}

func TestMigrateOnSignInMovesGuestLines(t *testing.T) {
	remote := newStubRemoteStore()
	guest := newStubGuestStore()
	mfr := uuid.New()
	first := newProduct(mfr, 1000, 10)
	second := newProduct(mfr, 2500, 10)
	svc := newTestService(t, remote, guest, newStubCatalog(first, second))

	guest.carts["g-1"] = []Line{
		LineFromProduct(first, 2),
		LineFromProduct(second, 1),
	}
	guestSess := NewSession(GuestIdentity("g-1"), guest.carts["g-1"])

	userID := uuid.New()
	fresh, result, err := svc.MigrateOnSignIn(context.Background(), guestSess, userID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Migrated)
	assert.Empty(t, result.Failed)
	assert.Equal(t, 2, fresh.Len())
	assert.Equal(t, 4500, fresh.SubtotalCents())

	// Guest state is gone on both sides.
	assert.Equal(t, []string{"g-1"}, guest.clearCalls)
	assert.Equal(t, 0, guestSess.Len())
}

func TestMigrateOnSignInMergesWithExistingRemoteLines(t *testing.T) {
	remote := newStubRemoteStore()
	guest := newStubGuestStore()
	product := newProduct(uuid.New(), 1000, 10)
	svc := newTestService(t, remote, guest, newStubCatalog(product))

	userID := uuid.New()
	_, err := remote.Create(context.Background(), &models.CartItem{UserID: userID, ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	guestSess := NewSession(GuestIdentity("g-1"), []Line{LineFromProduct(product, 2)})

	fresh, result, err := svc.MigrateOnSignIn(context.Background(), guestSess, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Migrated)
	require.Equal(t, 1, fresh.Len())
	assert.Equal(t, 5, fresh.Lines()[0].Quantity)
}

func TestMigrateOnSignInCollectsPerLineFailures(t *testing.T) {
	remote := newStubRemoteStore()
	guest := newStubGuestStore()
	mfr := uuid.New()
	available := newProduct(mfr, 1000, 10)
	scarce := newProduct(mfr, 2000, 1)
	svc := newTestService(t, remote, guest, newStubCatalog(available, scarce))

	guestSess := NewSession(GuestIdentity("g-1"), []Line{
		LineFromProduct(available, 2),
		{ProductID: uuid.New(), Quantity: 1}, // delisted product
		LineFromProduct(scarce, 5),           // beyond stock
	})

	fresh, result, err := svc.MigrateOnSignIn(context.Background(), guestSess, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Migrated)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, 1, fresh.Len())
}

func TestMigrateOnSignInRequiresUser(t *testing.T) {
	svc := newTestService(t, newStubRemoteStore(), newStubGuestStore(), newStubCatalog())
	guestSess := NewSession(GuestIdentity("g-1"), nil)

	_, _, err := svc.MigrateOnSignIn(context.Background(), guestSess, uuid.Nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}
