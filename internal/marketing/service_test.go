package marketing

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
	"github.com/makersrow/makersrow-backend/pkg/openai"
)

type stubCatalog struct {
	product *models.Product
}

func (s *stubCatalog) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.product == nil || s.product.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}

type stubCompleter struct {
	text string
	err  error

	messages []openai.Message
}

func (s *stubCompleter) Complete(ctx context.Context, messages []openai.Message) (string, error) {
	s.messages = messages
	return s.text, s.err
}

func testProduct() *models.Product {
	name := "Marrow Manufacturing"
	return &models.Product{
		ID:             uuid.New(),
		ManufacturerID: uuid.New(),
		Name:           "Canvas Tote",
		Category:       "bags",
		PriceCents:     1500,
		Manufacturer:   &models.Manufacturer{Name: name},
	}
}

func TestProductBlurbUsesGeneratedCopy(t *testing.T) {
	product := testProduct()
	ai := &stubCompleter{text: "A sturdy tote for everyday hauls. Built by Marrow Manufacturing."}
	svc, err := NewService(&stubCatalog{product: product}, ai, nil)
	require.NoError(t, err)

	blurb, err := svc.ProductBlurb(context.Background(), product.ID)
	require.NoError(t, err)
	assert.True(t, blurb.Generated)
	assert.Equal(t, ai.text, blurb.Text)
	assert.Equal(t, product.ID, blurb.ProductID)

	require.Len(t, ai.messages, 2)
	assert.Equal(t, "system", ai.messages[0].Role)
	assert.Contains(t, ai.messages[1].Content, "Canvas Tote")
	assert.Contains(t, ai.messages[1].Content, "Marrow Manufacturing")
}

func TestProductBlurbFallsBackOnCompletionError(t *testing.T) {
	product := testProduct()
	ai := &stubCompleter{err: errors.New("rate limited")}
	svc, err := NewService(&stubCatalog{product: product}, ai, nil)
	require.NoError(t, err)

	blurb, err := svc.ProductBlurb(context.Background(), product.ID)
	require.NoError(t, err)
	assert.False(t, blurb.Generated)
	assert.Contains(t, blurb.Text, "Canvas Tote")
	assert.Contains(t, blurb.Text, "Marrow Manufacturing")
}

func TestProductBlurbWithoutBackendUsesFallback(t *testing.T) {
	product := testProduct()
	svc, err := NewService(&stubCatalog{product: product}, nil, nil)
	require.NoError(t, err)

	blurb, err := svc.ProductBlurb(context.Background(), product.ID)
	require.NoError(t, err)
	assert.False(t, blurb.Generated)
	assert.NotEmpty(t, blurb.Text)
}

func TestProductBlurbUnknownProduct(t *testing.T) {
	svc, err := NewService(&stubCatalog{}, nil, nil)
	require.NoError(t, err)

	_, err = svc.ProductBlurb(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
