package commands_test

import (
	"testing"
	"time"

	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/pkg/errs"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedOrder(t *testing.T, quantity, completed int) (*order.Order, order.ItemID) {
	t.Helper()
	itemID := order.NewItemID()
	item, err := order.NewItem(itemID, quantity, nil)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-7", order.Details{order.GlassSection: {item}}, fixedNow)
	require.NoError(t, err)
	if completed > 0 {
		update, err := order.NewProgressUpdate(itemID, completed)
		require.NoError(t, err)
		_, err = o.ApplyProgress(order.GlassSection, []order.ProgressUpdate{update}, fixedNow)
		require.NoError(t, err)
	}
	return o, itemID
}

func TestUpdateOrderCommandHandler_Handle_MergesFields(t *testing.T) {
	ctx := t.Context()
	existing, itemID := storedOrder(t, 10, 4)

	edited, err := order.NewItem(itemID, 12, nil)
	require.NoError(t, err)
	customer := "Globex"
	cmd, err := commands.NewUpdateOrderCommand(existing.ID(), commands.OrderPatch{
		CustomerName: &customer,
		Sections:     order.Details{order.GlassSection: {edited}},
	})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, existing.ID()).Return(existing, nil).Once(),
		repo.On("Update", ctx, existing).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	later := fixedNow.Add(time.Hour)
	h := commands.NewUpdateOrderCommandHandler(factory, clockwork.NewFakeClockAt(later))
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "Globex", updated.CustomerName())
	assert.Equal(t, "ORD-7", updated.Number())
	item, ok := updated.FindItem(order.GlassSection, itemID)
	require.True(t, ok)
	assert.Equal(t, 12, item.Quantity())
	assert.Equal(t, 4, item.Tracking().TotalCompleted())
	assert.Equal(t, later, updated.UpdatedAt())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestUpdateOrderCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, err := commands.NewUpdateOrderCommand(id, commands.OrderPatch{})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateOrderCommandHandler(factory, clockwork.NewFakeClock())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateOrderCommandHandler_Handle_RejectsQuantityBelowProgress(t *testing.T) {
	ctx := t.Context()
	existing, itemID := storedOrder(t, 10, 8)
	shrunk, err := order.NewItem(itemID, 5, nil)
	require.NoError(t, err)
	cmd, err := commands.NewUpdateOrderCommand(existing.ID(), commands.OrderPatch{
		Sections: order.Details{order.GlassSection: {shrunk}},
	})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Get", ctx, existing.ID()).Return(existing, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateOrderCommandHandler(factory, clockwork.NewFakeClock())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestNewUpdateOrderCommand_InvalidID(t *testing.T) {
	_, err := commands.NewUpdateOrderCommand(kernel.UUID{}, commands.OrderPatch{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestOrderPatch_IsEmpty(t *testing.T) {
	name := "x"
	assert.True(t, commands.OrderPatch{}.IsEmpty())
	assert.False(t, commands.OrderPatch{DispatcherName: &name}.IsEmpty())
}
