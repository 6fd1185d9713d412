package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopfloor/internal/core/application/usecases/queries"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) List(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderReader) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func newOrder(t *testing.T, number string, sections ...order.Section) *order.Order {
	t.Helper()
	details := order.Details{}
	for _, s := range sections {
		item, err := order.NewItem(order.NewItemID(), 2, nil)
		require.NoError(t, err)
		details[s] = []*order.Item{item}
	}
	o, err := order.NewOrder(kernel.NewUUID(), number, details, time.Now())
	require.NoError(t, err)
	return o
}

func TestGetAllOrdersQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	orders := []*order.Order{newOrder(t, "ORD-2"), newOrder(t, "ORD-1")}
	reader := new(MockOrderReader)
	reader.On("List", ctx).Return(orders, nil).Once()

	got, err := queries.NewGetAllOrdersQueryHandler(reader).Handle(ctx, queries.NewGetAllOrdersQuery())

	require.NoError(t, err)
	assert.Equal(t, orders, got)
	reader.AssertExpectations(t)
}

func TestGetAllOrdersQueryHandler_Handle_NotConstructed(t *testing.T) {
	reader := new(MockOrderReader)

	_, err := queries.NewGetAllOrdersQueryHandler(reader).Handle(t.Context(), queries.GetAllOrdersQuery{})

	require.ErrorIs(t, err, queries.ErrGetAllOrdersQueryIsNotConstructed)
	reader.AssertNotCalled(t, "List", mock.Anything)
}

func TestGetOrdersByPhaseQueryHandler_Handle(t *testing.T) {
	glass := newOrder(t, "ORD-1", order.GlassSection)
	pumps := newOrder(t, "ORD-2", order.PumpsSection)
	both := newOrder(t, "ORD-3", order.GlassSection, order.PumpsSection)

	t.Run("should filter by team section", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("ListByStatus", ctx, order.Pending).Return([]*order.Order{glass, pumps, both}, nil).Once()
		query, err := queries.NewGetOrdersByPhaseQuery("Pending", "pump")
		require.NoError(t, err)

		got, err := queries.NewGetOrdersByPhaseQueryHandler(reader).Handle(ctx, query)

		require.NoError(t, err)
		assert.Equal(t, []*order.Order{pumps, both}, got)
	})

	t.Run("should return everything without team", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("ListByStatus", ctx, order.Completed).Return([]*order.Order{glass}, nil).Once()
		query, err := queries.NewGetOrdersByPhaseQuery("completed", "")
		require.NoError(t, err)

		got, err := queries.NewGetOrdersByPhaseQueryHandler(reader).Handle(ctx, query)

		require.NoError(t, err)
		assert.Equal(t, []*order.Order{glass}, got)
	})

	t.Run("should propagate store errors", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("ListByStatus", ctx, order.Pending).Return(nil, errors.New("db down")).Once()
		query, err := queries.NewGetOrdersByPhaseQuery("pending", "")
		require.NoError(t, err)

		_, err = queries.NewGetOrdersByPhaseQueryHandler(reader).Handle(ctx, query)

		require.EqualError(t, err, "db down")
	})
}

func TestNewGetOrdersByPhaseQuery_Invalid(t *testing.T) {
	_, err := queries.NewGetOrdersByPhaseQuery("archived", "")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = queries.NewGetOrdersByPhaseQuery("pending", "labels")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
