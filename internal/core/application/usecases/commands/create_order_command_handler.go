package commands

import (
	"context"

	"shopfloor/internal/core/domain/model/order"

	"github.com/jonboulle/clockwork"
)

// CreateOrderCommandHandler persists a new order in Pending state (or
// Completed when every item is already finished).
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clockwork.Clock
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, clock clockwork.Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle creates the order and returns it as stored. A duplicate order
// number surfaces as errs.ObjectAlreadyExistsError from the repository.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	created, err := order.NewOrder(cmd.OrderID(), cmd.Number(), cmd.Details(), h.clock.Now())
	if err != nil {
		return nil, err
	}
	created.SetCustomerName(cmd.CustomerName(), created.CreatedAt())
	created.SetDispatcherName(cmd.DispatcherName(), created.CreatedAt())

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}
