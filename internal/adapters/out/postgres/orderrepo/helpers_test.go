package orderrepo_test

import (
	"testing"
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)

func newItem(t *testing.T, quantity int) *order.Item {
	t.Helper()
	item, err := order.NewItem(order.NewItemID(), quantity, map[string]any{"color": "amber", "size_ml": float64(250)})
	require.NoError(t, err)
	return item
}

// newTestOrder builds an order with one glass item and one boxes item.
func newTestOrder(t *testing.T, number string, at time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), number, order.Details{
		order.GlassSection: {newItem(t, 10)},
		order.BoxesSection: {newItem(t, 2)},
	}, at)
	require.NoError(t, err)
	o.SetCustomerName("Acme Bottling", at)
	return o
}

func mustUpdate(t *testing.T, item *order.Item, qty int) order.ProgressUpdate {
	t.Helper()
	u, err := order.NewProgressUpdate(item.ID(), qty)
	require.NoError(t, err)
	return u
}
