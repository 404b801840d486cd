package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a manufacturer listing in the catalog. The storefront
// treats this table as a read-only lookup authority for price and stock.
type Product struct {
	ID                         uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ManufacturerID             uuid.UUID      `gorm:"column:manufacturer_id;type:uuid;not null"`
	Name                       string         `gorm:"column:name;not null"`
	Description                *string        `gorm:"column:description"`
	Category                   string         `gorm:"column:category;not null"`
	ImageURL                   *string        `gorm:"column:image_url"`
	GalleryURLs                pq.StringArray `gorm:"column:gallery_urls;type:text[]"`
	PriceCents                 int            `gorm:"column:price_cents;not null"`
	RetailPriceEstimationCents *int           `gorm:"column:retail_price_estimation_cents"`
	Stock                      int            `gorm:"column:stock;not null;default:0"`
	IsActive                   bool           `gorm:"column:is_active;not null;default:true"`
	Manufacturer               *Manufacturer  `gorm:"foreignKey:ManufacturerID"`
	CreatedAt                  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
