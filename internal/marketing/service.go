package marketing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/makersrow/makersrow-backend/pkg/db/models"
	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
	"github.com/makersrow/makersrow-backend/pkg/logger"
	"github.com/makersrow/makersrow-backend/pkg/openai"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type completer interface {
	Complete(ctx context.Context, messages []openai.Message) (string, error)
}

// Blurb is generated storefront copy for one product.
type Blurb struct {
	ProductID uuid.UUID `json:"product_id"`
	Text      string    `json:"text"`
	Generated bool      `json:"generated"`
}

// Service produces short marketing copy for product cards. When no completion
// backend is configured, or the call fails, it falls back to a templated blurb
// so the storefront always has something to render.
type Service interface {
	ProductBlurb(ctx context.Context, productID uuid.UUID) (*Blurb, error)
}

type service struct {
	catalog productLoader
	ai      completer
	logg    *logger.Logger
}

// NewService builds the marketing service. ai may be nil; the service then
// always uses the fallback copy.
func NewService(catalog productLoader, ai completer, logg *logger.Logger) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{catalog: catalog, ai: ai, logg: logg}, nil
}

func (s *service) ProductBlurb(ctx context.Context, productID uuid.UUID) (*Blurb, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if s.ai != nil {
		text, err := s.ai.Complete(ctx, blurbPrompt(product))
		if err == nil && strings.TrimSpace(text) != "" {
			return &Blurb{ProductID: product.ID, Text: text, Generated: true}, nil
		}
		if err != nil && s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("blurb generation failed, using fallback copy: %v", err))
		}
	}

	return &Blurb{ProductID: product.ID, Text: fallbackBlurb(product), Generated: false}, nil
}

func blurbPrompt(product *models.Product) []openai.Message {
	manufacturer := "an independent manufacturer"
	if product.Manufacturer != nil && product.Manufacturer.Name != "" {
		manufacturer = product.Manufacturer.Name
	}
	description := "not provided"
	if product.Description != nil && *product.Description != "" {
		description = *product.Description
	}
	return []openai.Message{
		{
			Role:    "system",
			Content: "You write two-sentence product blurbs for a wholesale marketplace. Plain text, no emoji, no exclamation marks.",
		},
		{
			Role: "user",
			Content: fmt.Sprintf("Product: %s. Category: %s. Made by %s. Description: %s",
				product.Name, product.Category, manufacturer, description),
		},
	}
}

func fallbackBlurb(product *models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s from the %s collection.", product.Name, product.Category)
	if product.Manufacturer != nil && product.Manufacturer.Name != "" {
		fmt.Fprintf(&b, " Made by %s.", product.Manufacturer.Name)
	}
	return b.String()
}
