package services_test

import (
	"testing"
	"time"

	"shopfloor/internal/core/domain/model/group"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, sections ...order.Section) *order.Order {
	t.Helper()
	details := order.Details{}
	for _, s := range sections {
		item, err := order.NewItem(order.NewItemID(), 5, nil)
		require.NoError(t, err)
		details[s] = []*order.Item{item}
	}
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-1", details, time.Now())
	require.NoError(t, err)
	return o
}

func TestTargetResolver_Resolve(t *testing.T) {
	resolver := services.NewTargetResolver()

	t.Run("should derive groups from populated sections", func(t *testing.T) {
		got := resolver.Resolve(newOrder(t, order.CapsSection), nil)

		assert.Equal(t, []group.Name{group.Caps}, got)
	})

	t.Run("should list several sections in catalog order", func(t *testing.T) {
		got := resolver.Resolve(newOrder(t, order.PumpsSection, order.GlassSection), nil)

		assert.Equal(t, []group.Name{group.Glass, group.Pumps}, got)
	})

	t.Run("should fall back to unassigned for an empty order", func(t *testing.T) {
		got := resolver.Resolve(newOrder(t), nil)

		assert.Equal(t, []group.Name{group.Unassigned}, got)
	})

	t.Run("should prefer explicit groups over sections", func(t *testing.T) {
		got := resolver.Resolve(newOrder(t, order.GlassSection), []string{" Box", "pumps", "boxes"})

		assert.Equal(t, []group.Name{group.Boxes, group.Pumps}, got)
	})

	t.Run("should ignore explicit groups that are all unknown", func(t *testing.T) {
		got := resolver.Resolve(newOrder(t, order.GlassSection), []string{"labels"})

		assert.Equal(t, []group.Name{group.Glass}, got)
	})

	t.Run("should accept a nil source", func(t *testing.T) {
		assert.Equal(t, []group.Name{group.Unassigned}, resolver.Resolve(nil, nil))
	})
}
