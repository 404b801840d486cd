package enums

import "fmt"

// OrderStatus tracks the lifecycle of a per-manufacturer order.
type OrderStatus string

const (
	OrderStatusAwaitingVerification OrderStatus = "awaiting_verification"
	OrderStatusProcessing           OrderStatus = "processing"
	OrderStatusShipped              OrderStatus = "shipped"
	OrderStatusOutForDelivery       OrderStatus = "out_for_delivery"
	OrderStatusDelivered            OrderStatus = "delivered"
	OrderStatusDeclined             OrderStatus = "declined"
	OrderStatusCancelled            OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusAwaitingVerification,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusDeclined,
	OrderStatusCancelled,
}

// Transitions only move forward; no status ever returns to an earlier one.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusAwaitingVerification: {OrderStatusProcessing, OrderStatusDeclined},
	OrderStatusProcessing:           {OrderStatusShipped},
	OrderStatusShipped:              {OrderStatusOutForDelivery},
	OrderStatusOutForDelivery:       {OrderStatusDelivered},
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (o OrderStatus) IsTerminal() bool {
	switch o {
	case OrderStatusDelivered, OrderStatusDeclined, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the forward-only state machine allows moving
// from the receiver to next.
func (o OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderStatusTransitions[o] {
		if candidate == next {
			return true
		}
	}
	return false
}

// InitialOrderStatus returns the creation status implied by the payment method.
func InitialOrderStatus(method PaymentMethod) OrderStatus {
	if method == PaymentMethodBankTransfer {
		return OrderStatusAwaitingVerification
	}
	return OrderStatusProcessing
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
