package manufacturers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/makersrow/makersrow-backend/pkg/db/models"
)

// Repository exposes the manufacturer directory and the checkout-time stats
// accumulator.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a manufacturer repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID returns the manufacturer or gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Manufacturer, error) {
	var row models.Manufacturer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns the directory ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Manufacturer, error) {
	var rows []models.Manufacturer
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AddSales accumulates items sold and subtotal revenue onto the manufacturer
// row. This is a select-then-update with no concurrency token: two concurrent
// checkouts against the same manufacturer can lose one update. The stats are
// telemetry, not a ledger, and the checkout engine treats failures here as
// non-fatal.
func (r *Repository) AddSales(ctx context.Context, manufacturerID uuid.UUID, itemsSold int, revenueCents int64) error {
	row, err := r.FindByID(ctx, manufacturerID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.Manufacturer{}).
		Where("id = ?", manufacturerID).
		Updates(map[string]any{
			"total_sales":   row.TotalSales + itemsSold,
			"revenue_cents": row.RevenueCents + revenueCents,
		}).Error
}
