package order_test

import (
	"testing"
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func mustItem(t *testing.T, quantity int) *order.Item {
	t.Helper()
	item, err := order.NewItem(order.NewItemID(), quantity, nil)
	require.NoError(t, err)
	return item
}

func mustOrder(t *testing.T, details order.Details) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-1", details, at)
	require.NoError(t, err)
	return o
}

func mustUpdate(t *testing.T, itemID order.ItemID, qty int) order.ProgressUpdate {
	t.Helper()
	u, err := order.NewProgressUpdate(itemID, qty)
	require.NoError(t, err)
	return u
}

func TestOrder_ApplyProgress(t *testing.T) {
	t.Run("should complete item when full quantity is reported at once", func(t *testing.T) {
		item := mustItem(t, 10)
		o := mustOrder(t, order.Details{order.GlassSection: {item}})

		result, err := o.ApplyProgress(order.GlassSection, []order.ProgressUpdate{mustUpdate(t, item.ID(), 10)}, at)

		require.NoError(t, err)
		got, ok := o.FindItem(order.GlassSection, item.ID())
		require.True(t, ok)
		assert.Equal(t, 10, got.Tracking().TotalCompleted())
		assert.Equal(t, order.Completed, got.Status())
		assert.Equal(t, order.Completed, o.Status())
		assert.Equal(t, order.Completed, result.OrderStatus)
		require.Len(t, result.Items, 1)
		assert.Equal(t, order.OutcomeApplied, result.Items[0].Outcome)
	})

	t.Run("should switch to completed only on the batch reaching the quantity", func(t *testing.T) {
		item := mustItem(t, 10)
		o := mustOrder(t, order.Details{order.CapsSection: {item}})

		_, err := o.ApplyProgress(order.CapsSection, []order.ProgressUpdate{mustUpdate(t, item.ID(), 6)}, at)
		require.NoError(t, err)
		got, _ := o.FindItem(order.CapsSection, item.ID())
		assert.Equal(t, order.Pending, got.Status())
		assert.Equal(t, order.Pending, o.Status())

		_, err = o.ApplyProgress(order.CapsSection, []order.ProgressUpdate{mustUpdate(t, item.ID(), 4)}, at.Add(time.Hour))
		require.NoError(t, err)
		got, _ = o.FindItem(order.CapsSection, item.ID())
		assert.Equal(t, order.Completed, got.Status())
		assert.Equal(t, 10, got.Tracking().TotalCompleted())
		require.Len(t, got.Tracking().Entries(), 2)
		assert.Equal(t, at.Add(time.Hour), got.Tracking().Entries()[1].Timestamp())
	})

	t.Run("should reject update exceeding remaining quantity without recording it", func(t *testing.T) {
		item := mustItem(t, 10)
		o := mustOrder(t, order.Details{order.BoxesSection: {item}})
		_, err := o.ApplyProgress(order.BoxesSection, []order.ProgressUpdate{mustUpdate(t, item.ID(), 8)}, at)
		require.NoError(t, err)

		_, err = o.ApplyProgress(order.BoxesSection, []order.ProgressUpdate{mustUpdate(t, item.ID(), 3)}, at)

		require.ErrorIs(t, err, order.ErrQuantityExceeded)
		var exceeded *order.QuantityExceededError
		require.ErrorAs(t, err, &exceeded)
		assert.Equal(t, 3, exceeded.Requested)
		assert.Equal(t, 2, exceeded.Allowed)
		got, _ := o.FindItem(order.BoxesSection, item.ID())
		assert.Equal(t, 8, got.Tracking().TotalCompleted())
		assert.Len(t, got.Tracking().Entries(), 1)
	})

	t.Run("should leave the order untouched when a later update in the batch fails", func(t *testing.T) {
		first := mustItem(t, 5)
		second := mustItem(t, 2)
		o := mustOrder(t, order.Details{order.PumpsSection: {first, second}})

		_, err := o.ApplyProgress(order.PumpsSection, []order.ProgressUpdate{
			mustUpdate(t, first.ID(), 5),
			mustUpdate(t, second.ID(), 3),
		}, at)

		require.ErrorIs(t, err, order.ErrQuantityExceeded)
		got, _ := o.FindItem(order.PumpsSection, first.ID())
		assert.False(t, got.IsTracked())
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should skip unknown items and keep applying the rest", func(t *testing.T) {
		item := mustItem(t, 4)
		o := mustOrder(t, order.Details{order.GlassSection: {item}})
		unknown := order.ItemID("64f1a2b3c4d5e6f708192a3b")

		result, err := o.ApplyProgress(order.GlassSection, []order.ProgressUpdate{
			mustUpdate(t, unknown, 1),
			mustUpdate(t, item.ID(), 2),
		}, at)

		require.NoError(t, err)
		assert.Equal(t, []order.ItemID{unknown}, result.Skipped())
		got, _ := o.FindItem(order.GlassSection, item.ID())
		assert.Equal(t, 2, got.Tracking().TotalCompleted())
	})

	t.Run("should not find items of another section", func(t *testing.T) {
		item := mustItem(t, 4)
		o := mustOrder(t, order.Details{order.GlassSection: {item}})

		result, err := o.ApplyProgress(order.CapsSection, []order.ProgressUpdate{mustUpdate(t, item.ID(), 1)}, at)

		require.NoError(t, err)
		assert.Equal(t, []order.ItemID{item.ID()}, result.Skipped())
	})

	t.Run("should reject unknown section", func(t *testing.T) {
		o := mustOrder(t, order.Details{order.GlassSection: {mustItem(t, 1)}})

		_, err := o.ApplyProgress(order.Section("labels"), nil, at)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should keep order pending while another section has untouched items", func(t *testing.T) {
		glass := mustItem(t, 3)
		caps := mustItem(t, 3)
		o := mustOrder(t, order.Details{order.GlassSection: {glass}, order.CapsSection: {caps}})

		_, err := o.ApplyProgress(order.GlassSection, []order.ProgressUpdate{mustUpdate(t, glass.ID(), 3)}, at)

		require.NoError(t, err)
		assert.Equal(t, order.Pending, o.Status())
	})
}

func TestNewProgressUpdate(t *testing.T) {
	t.Run("should reject empty item id", func(t *testing.T) {
		_, err := order.NewProgressUpdate(order.ItemID(""), 1)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		_, err := order.NewProgressUpdate(order.NewItemID(), 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
