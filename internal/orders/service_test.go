package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/makersrow/makersrow-backend/pkg/db/models"
	"github.com/makersrow/makersrow-backend/pkg/enums"
	pkgerrors "github.com/makersrow/makersrow-backend/pkg/errors"
)

type stubRepo struct {
	order         *models.Order
	updatedStatus enums.OrderStatus
	updateErr     error
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	if s.order == nil {
		return nil, nil
	}
	return []models.Order{*s.order}, nil
}

func (s *stubRepo) ListByManufacturer(ctx context.Context, manufacturerID uuid.UUID) ([]models.Order, error) {
	if s.order == nil {
		return nil, nil
	}
	return []models.Order{*s.order}, nil
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedStatus = status
	return nil
}

func newOrder(status enums.OrderStatus) *models.Order {
	return &models.Order{
		ID:             uuid.New(),
		CustomerID:     uuid.New(),
		ManufacturerID: uuid.New(),
		Status:         status,
		PaymentMethod:  enums.PaymentMethodCard,
	}
}

func ownerActor(order *models.Order) Actor {
	return Actor{ManufacturerID: &order.ManufacturerID}
}

func TestAdvanceStatusMovesForward(t *testing.T) {
	repo := &stubRepo{order: newOrder(enums.OrderStatusProcessing)}
	svc, err := NewService(repo)
	require.NoError(t, err)

	updated, err := svc.AdvanceStatus(context.Background(), repo.order.ID, enums.OrderStatusShipped, ownerActor(repo.order))
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)
	assert.Equal(t, enums.OrderStatusShipped, repo.updatedStatus)
}

func TestAdvanceStatusBankTransferVerification(t *testing.T) {
	repo := &stubRepo{order: newOrder(enums.OrderStatusAwaitingVerification)}
	svc, err := NewService(repo)
	require.NoError(t, err)

	updated, err := svc.AdvanceStatus(context.Background(), repo.order.ID, enums.OrderStatusProcessing, ownerActor(repo.order))
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, updated.Status)
}

func TestAdvanceStatusRejectsBackwardMove(t *testing.T) {
	repo := &stubRepo{order: newOrder(enums.OrderStatusShipped)}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(context.Background(), repo.order.ID, enums.OrderStatusProcessing, ownerActor(repo.order))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestAdvanceStatusRejectsSkippingStates(t *testing.T) {
	repo := &stubRepo{order: newOrder(enums.OrderStatusProcessing)}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(context.Background(), repo.order.ID, enums.OrderStatusDelivered, ownerActor(repo.order))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestAdvanceStatusRejectsTerminalOrders(t *testing.T) {
	for _, status := range []enums.OrderStatus{
		enums.OrderStatusDelivered,
		enums.OrderStatusDeclined,
		enums.OrderStatusCancelled,
	} {
		repo := &stubRepo{order: newOrder(status)}
		svc, err := NewService(repo)
		require.NoError(t, err)

		_, err = svc.AdvanceStatus(context.Background(), repo.order.ID, enums.OrderStatusProcessing, ownerActor(repo.order))
		require.Error(t, err, "status %s", status)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
	}
}

func TestAdvanceStatusForbiddenForOtherManufacturer(t *testing.T) {
	repo := &stubRepo{order: newOrder(enums.OrderStatusProcessing)}
	svc, err := NewService(repo)
	require.NoError(t, err)

	other := uuid.New()
	_, err = svc.AdvanceStatus(context.Background(), repo.order.ID, enums.OrderStatusShipped, Actor{ManufacturerID: &other})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))
	assert.Empty(t, repo.updatedStatus)

	_, err = svc.AdvanceStatus(context.Background(), repo.order.ID, enums.OrderStatusShipped, Actor{})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))
}

func TestAdvanceStatusAdminActsOnAnyOrder(t *testing.T) {
	repo := &stubRepo{order: newOrder(enums.OrderStatusProcessing)}
	svc, err := NewService(repo)
	require.NoError(t, err)

	updated, err := svc.AdvanceStatus(context.Background(), repo.order.ID, enums.OrderStatusShipped, Actor{Admin: true})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)
}

func TestAdvanceStatusUnknownOrder(t *testing.T) {
	svc, err := NewService(&stubRepo{})
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(context.Background(), uuid.New(), enums.OrderStatusShipped, Actor{Admin: true})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestAdvanceStatusInvalidTarget(t *testing.T) {
	svc, err := NewService(&stubRepo{order: newOrder(enums.OrderStatusProcessing)})
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(context.Background(), uuid.New(), enums.OrderStatus("lost"), Actor{Admin: true})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestGetForCustomerHidesForeignOrders(t *testing.T) {
	repo := &stubRepo{order: newOrder(enums.OrderStatusProcessing)}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.GetForCustomer(context.Background(), repo.order.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	order, err := svc.GetForCustomer(context.Background(), repo.order.ID, repo.order.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, repo.order.ID, order.ID)
}
