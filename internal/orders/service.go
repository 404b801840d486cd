package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/makersrow/makersrow-backend/pkg/db/models"
	"github.com/makersrow/makersrow-backend/pkg/enums"
	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
)

// Actor identifies who is driving a status change. Manufacturer tokens are
// bound to one manufacturer; admins may act on any order.
type Actor struct {
	ManufacturerID *uuid.UUID
	Admin          bool
}

// CanAct reports whether the actor may advance the given order.
func (a Actor) CanAct(order *models.Order) bool {
	if a.Admin {
		return true
	}
	return a.ManufacturerID != nil && *a.ManufacturerID == order.ManufacturerID
}

// Service exposes the order surfaces driven after checkout: listing and the
// forward-only status advancement performed by manufacturers and admins.
type Service interface {
	GetForCustomer(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	ListForManufacturer(ctx context.Context, manufacturerID uuid.UUID) ([]models.Order, error)
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actor Actor) (*models.Order, error)
}

type service struct {
	repo Repository
}

// NewService builds the orders service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetForCustomer(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	return rows, nil
}

func (s *service) ListForManufacturer(ctx context.Context, manufacturerID uuid.UUID) ([]models.Order, error) {
	if manufacturerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "manufacturer id is required")
	}
	rows, err := s.repo.ListByManufacturer(ctx, manufacturerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list manufacturer orders")
	}
	return rows, nil
}

// AdvanceStatus moves the order forward through the state machine. Only the
// order's manufacturer or an admin may drive it; terminal states and backward
// moves are rejected, so an order never revisits an earlier status.
func (s *service) AdvanceStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actor Actor) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", next))
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.CanAct(order) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another manufacturer")
	}

	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is in a terminal state").
			WithDetails(map[string]any{"status": order.Status})
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition disallowed").
			WithDetails(map[string]any{"from": order.Status, "to": next})
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = next
	return order, nil
}

func (s *service) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
