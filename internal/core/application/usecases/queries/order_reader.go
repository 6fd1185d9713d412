// Package queries contains read-only operations over orders.
package queries

import (
	"context"

	"shopfloor/internal/core/domain/model/order"
)

// OrderReader is the read side of the order repository.
type OrderReader interface {
	List(ctx context.Context) ([]*order.Order, error)
	ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
