package models

import (
	"time"

	"github.com/google/uuid"
)

// Manufacturer represents a vendor in the storefront directory.
// TotalSales and RevenueCents are cumulative checkout aggregates updated by
// the checkout engine; revenue excludes shipping.
type Manufacturer struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Description  *string   `gorm:"column:description"`
	LogoURL      *string   `gorm:"column:logo_url"`
	Location     *string   `gorm:"column:location"`
	TotalSales   int       `gorm:"column:total_sales;not null;default:0"`
	RevenueCents int64     `gorm:"column:revenue_cents;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
