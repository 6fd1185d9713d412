// Package ports defines the contracts between the shop-floor core and its
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The stored document layout is the wire contract shared with existing data.
type OrderRepository interface {
	// Add persists a new order. A taken order number yields an
	// errs.ObjectAlreadyExistsError.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its unique order number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// GetByNumberForUpdate is GetByNumber that also locks the row until the
	// surrounding transaction ends. Stores without row locks fall back to a
	// plain read.
	GetByNumberForUpdate(ctx context.Context, number string) (*order.Order, error)

	// Delete removes an order by number and returns the removed aggregate.
	Delete(ctx context.Context, number string) (*order.Order, error)

	// List returns every order, newest first.
	List(ctx context.Context) ([]*order.Order, error)

	// ListByStatus returns the orders in one status, newest first.
	ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
