package manufacturers

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

func setupManufacturersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	manufacturers := `
CREATE TABLE IF NOT EXISTS manufacturers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  logo_url TEXT,
  location TEXT,
  total_sales INTEGER NOT NULL DEFAULT 0,
  revenue_cents INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(manufacturers).Error)
	return db
}

func seedManufacturer(t *testing.T, db *gorm.DB, name string) *models.Manufacturer {
	t.Helper()
	row := &models.Manufacturer{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestAddSalesAccumulates(t *testing.T) {
	db := setupManufacturersTestDB(t)
	repo := NewRepository(db)
	mfr := seedManufacturer(t, db, "Marrow Manufacturing")

	require.NoError(t, repo.AddSales(context.Background(), mfr.ID, 2, 4500))
	require.NoError(t, repo.AddSales(context.Background(), mfr.ID, 1, 1500))

	updated, err := repo.FindByID(context.Background(), mfr.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.TotalSales)
	assert.Equal(t, int64(6000), updated.RevenueCents)
}

func TestAddSalesUnknownManufacturer(t *testing.T) {
	repo := NewRepository(setupManufacturersTestDB(t))

	err := repo.AddSales(context.Background(), uuid.New(), 1, 100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListOrdersByName(t *testing.T) {
	db := setupManufacturersTestDB(t)
	repo := NewRepository(db)
	seedManufacturer(t, db, "Zenith Works")
	seedManufacturer(t, db, "Atlas Goods")

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Atlas Goods", rows[0].Name)
	assert.Equal(t, "Zenith Works", rows[1].Name)
}
