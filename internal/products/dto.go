package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/makersrow/makersrow-backend/pkg/db/models"
)

// Summary is the storefront-facing product card.
type Summary struct {
	ID                         uuid.UUID `json:"id"`
	ManufacturerID             uuid.UUID `json:"manufacturer_id"`
	Name                       string    `json:"name"`
	Category                   string    `json:"category"`
	ImageURL                   *string   `json:"image_url,omitempty"`
	PriceCents                 int       `json:"price_cents"`
	RetailPriceEstimationCents *int      `json:"retail_price_estimation_cents,omitempty"`
	Stock                      int       `json:"stock"`
	EstimatedMarginPercent     *string   `json:"estimated_margin_percent,omitempty"`
}

// ToSummary maps a catalog row to the storefront card, computing the resale
// margin against the retail price estimation when one is listed.
func ToSummary(product models.Product) Summary {
	summary := Summary{
		ID:                         product.ID,
		ManufacturerID:             product.ManufacturerID,
		Name:                       product.Name,
		Category:                   product.Category,
		ImageURL:                   product.ImageURL,
		PriceCents:                 product.PriceCents,
		RetailPriceEstimationCents: product.RetailPriceEstimationCents,
		Stock:                      product.Stock,
	}
	if margin := estimatedMarginPercent(product); margin != nil {
		summary.EstimatedMarginPercent = margin
	}
	return summary
}

func estimatedMarginPercent(product models.Product) *string {
	if product.RetailPriceEstimationCents == nil || *product.RetailPriceEstimationCents <= 0 {
		return nil
	}
	retail := decimal.NewFromInt(int64(*product.RetailPriceEstimationCents))
	wholesale := decimal.NewFromInt(int64(product.PriceCents))
	if wholesale.GreaterThanOrEqual(retail) {
		return nil
	}
	margin := retail.Sub(wholesale).
		Div(retail).
		Mul(decimal.NewFromInt(100)).
		Round(1).
		String()
	return &margin
}
