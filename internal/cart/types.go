package cart

import (
	"github.com/google/uuid"

	"github.com/makersrow/makersrow-backend/pkg/db/models"
)

// Line is one product's presence in a cart, carrying the denormalized product
// snapshot the storefront renders from.
type Line struct {
	ProductID                  uuid.UUID `json:"product_id"`
	Name                       string    `json:"name"`
	Category                   string    `json:"category"`
	ImageURL                   *string   `json:"image_url,omitempty"`
	ManufacturerID             uuid.UUID `json:"manufacturer_id"`
	UnitPriceCents             int       `json:"unit_price_cents"`
	RetailPriceEstimationCents *int      `json:"retail_price_estimation_cents,omitempty"`
	Stock                      int       `json:"stock"`
	Quantity                   int       `json:"quantity"`
}

// SubtotalCents returns price times quantity for the line.
func (l Line) SubtotalCents() int {
	return l.UnitPriceCents * l.Quantity
}

// LineFromProduct builds a Line snapshot from the catalog product.
func LineFromProduct(product *models.Product, quantity int) Line {
	return Line{
		ProductID:                  product.ID,
		Name:                       product.Name,
		Category:                   product.Category,
		ImageURL:                   product.ImageURL,
		ManufacturerID:             product.ManufacturerID,
		UnitPriceCents:             product.PriceCents,
		RetailPriceEstimationCents: product.RetailPriceEstimationCents,
		Stock:                      product.Stock,
		Quantity:                   quantity,
	}
}

// Identity scopes a cart to either a guest session or an authenticated user.
type Identity struct {
	UserID       *uuid.UUID
	GuestSession string
}

// GuestIdentity builds an anonymous identity bound to a guest session key.
func GuestIdentity(sessionID string) Identity {
	return Identity{GuestSession: sessionID}
}

// UserIdentity builds an authenticated identity.
func UserIdentity(userID uuid.UUID) Identity {
	return Identity{UserID: &userID}
}

// IsAuthenticated reports whether the identity is bound to a user.
func (i Identity) IsAuthenticated() bool {
	return i.UserID != nil && *i.UserID != uuid.Nil
}

// Session owns the in-memory cart view for one shopper. It is an explicit
// value passed to the engines, never process-wide state, so concurrent
// sessions stay independent. The view mirrors the active store and is only
// mutated after a successful store write.
type Session struct {
	Identity Identity
	lines    []Line
}

// NewSession builds a session holding the provided lines.
func NewSession(identity Identity, lines []Line) *Session {
	return &Session{Identity: identity, lines: lines}
}

// Lines returns a copy of the in-memory view.
func (s *Session) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of lines in the view.
func (s *Session) Len() int {
	return len(s.lines)
}

// SubtotalCents sums price times quantity across the view.
func (s *Session) SubtotalCents() int {
	var total int
	for _, line := range s.lines {
		total += line.SubtotalCents()
	}
	return total
}

func (s *Session) find(productID uuid.UUID) (int, bool) {
	for i, line := range s.lines {
		if line.ProductID == productID {
			return i, true
		}
	}
	return -1, false
}

func (s *Session) quantityOf(productID uuid.UUID) int {
	if i, ok := s.find(productID); ok {
		return s.lines[i].Quantity
	}
	return 0
}

func (s *Session) upsert(line Line) {
	if i, ok := s.find(line.ProductID); ok {
		s.lines[i] = line
		return
	}
	s.lines = append(s.lines, line)
}

func (s *Session) remove(productID uuid.UUID) {
	if i, ok := s.find(productID); ok {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
}

func (s *Session) replaceAll(lines []Line) {
	s.lines = lines
}

// Clear empties the in-memory view. Callers clear the backing store first.
func (s *Session) Clear() {
	s.lines = nil
}
