package enums

import "fmt"

// OrderStatus tracks the purchase-order lifecycle.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusPOSent    OrderStatus = "po_sent"
	OrderStatusCompleted OrderStatus = "completed"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusCreated,
	OrderStatusPOSent,
	OrderStatusCompleted,
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo enforces the created → po_sent → completed machine.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusCreated:
		return next == OrderStatusPOSent
	case OrderStatusPOSent:
		return next == OrderStatusCompleted
	default:
		return false
	}
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
