package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/makersrow/makersrow-backend/pkg/enums"
)

// Order is one per-manufacturer order produced by splitting a checkout.
// TotalCents = SubtotalCents + ShippingCents; shipping is this order's share
// of the flat checkout fee.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID     uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	ManufacturerID uuid.UUID           `gorm:"column:manufacturer_id;type:uuid;not null"`
	Status         enums.OrderStatus   `gorm:"column:status;not null"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null"`
	AccountName    *string             `gorm:"column:account_name"`
	TransactionID  *string             `gorm:"column:transaction_id"`
	SubtotalCents  int                 `gorm:"column:subtotal_cents;not null"`
	ShippingCents  int                 `gorm:"column:shipping_cents;not null;default:0"`
	TotalCents     int                 `gorm:"column:total_cents;not null"`
	Items          []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
