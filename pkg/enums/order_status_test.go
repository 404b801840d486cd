package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitionsOnlyMoveForward(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusAwaitingVerification: {OrderStatusProcessing, OrderStatusDeclined},
		OrderStatusProcessing:           {OrderStatusShipped},
		OrderStatusShipped:              {OrderStatusOutForDelivery},
		OrderStatusOutForDelivery:       {OrderStatusDelivered},
		OrderStatusDelivered:            nil,
		OrderStatusDeclined:             nil,
		OrderStatusCancelled:            nil,
	}

	for from, targets := range allowed {
		for _, to := range validOrderStatuses {
			expect := false
			for _, target := range targets {
				if target == to {
					expect = true
				}
			}
			assert.Equal(t, expect, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatusTerminality(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusDeclined.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
	assert.False(t, OrderStatusAwaitingVerification.IsTerminal())
}

func TestInitialOrderStatusByPaymentMethod(t *testing.T) {
	assert.Equal(t, OrderStatusProcessing, InitialOrderStatus(PaymentMethodCard))
	assert.Equal(t, OrderStatusAwaitingVerification, InitialOrderStatus(PaymentMethodBankTransfer))
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	_, err = ParseOrderStatus("teleported")
	assert.Error(t, err)
}

func TestParsePaymentMethod(t *testing.T) {
	method, err := ParsePaymentMethod("bank_transfer")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodBankTransfer, method)

	_, err = ParsePaymentMethod("barter")
	assert.Error(t, err)
}
