package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/makersrow/makersrow-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	uniquePair := `
CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_user_product ON cart_items (user_id, product_id);`
	require.NoError(t, db.Exec(cartItems).Error)
	require.NoError(t, db.Exec(uniquePair).Error)
	return db
}

func seedCartRow(t *testing.T, repo *Repository, userID, productID uuid.UUID, quantity int) *models.CartItem {
	t.Helper()
	row, err := repo.Create(context.Background(), &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
	require.NoError(t, err)
	return row
}

func TestCartRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupCartTestDB(t))
	userID := uuid.New()
	productID := uuid.New()
	seedCartRow(t, repo, userID, productID, 2)

	row, err := repo.FindByUserAndProduct(context.Background(), userID, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, row.Quantity)
}

func TestCartRepositoryDuplicatePairRejected(t *testing.T) {
	repo := NewRepository(setupCartTestDB(t))
	userID := uuid.New()
	productID := uuid.New()
	seedCartRow(t, repo, userID, productID, 1)

	_, err := repo.Create(context.Background(), &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
	})
	assert.Error(t, err)
}

func TestCartRepositoryUpdateQuantity(t *testing.T) {
	repo := NewRepository(setupCartTestDB(t))
	row := seedCartRow(t, repo, uuid.New(), uuid.New(), 1)

	require.NoError(t, repo.UpdateQuantity(context.Background(), row.ID, 7))

	updated, err := repo.FindByUserAndProduct(context.Background(), row.UserID, row.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)
}

func TestCartRepositoryDeleteByUserAndProduct(t *testing.T) {
	repo := NewRepository(setupCartTestDB(t))
	userID := uuid.New()
	productID := uuid.New()
	seedCartRow(t, repo, userID, productID, 1)

	require.NoError(t, repo.DeleteByUserAndProduct(context.Background(), userID, productID))
	_, err := repo.FindByUserAndProduct(context.Background(), userID, productID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting again is still a success.
	require.NoError(t, repo.DeleteByUserAndProduct(context.Background(), userID, productID))
}

func TestCartRepositoryDeleteByUserClearsAllRows(t *testing.T) {
	repo := NewRepository(setupCartTestDB(t))
	userID := uuid.New()
	seedCartRow(t, repo, userID, uuid.New(), 1)
	seedCartRow(t, repo, userID, uuid.New(), 2)
	other := seedCartRow(t, repo, uuid.New(), uuid.New(), 3)

	require.NoError(t, repo.DeleteByUser(context.Background(), userID))

	rows, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	remaining, err := repo.ListByUser(context.Background(), other.UserID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
