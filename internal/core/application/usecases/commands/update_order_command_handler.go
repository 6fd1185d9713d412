package commands

import (
	"context"
	"time"

	"shopfloor/internal/core/domain/model/order"

	"github.com/jonboulle/clockwork"
)

// UpdateOrderCommandHandler applies merge-updates. Provided scalar fields
// overwrite, provided sections replace the stored ones, and items that keep
// their identifier keep their progress.
type UpdateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clockwork.Clock
}

func NewUpdateOrderCommandHandler(uowFactory OrderUoWFactory, clock clockwork.Clock) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	existing, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = applyPatch(existing, cmd.Patch(), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return existing, nil
}

func applyPatch(o *order.Order, patch OrderPatch, at time.Time) error {
	if patch.Number != nil {
		if err := o.SetNumber(*patch.Number, at); err != nil {
			return err
		}
	}
	if patch.CustomerName != nil {
		o.SetCustomerName(*patch.CustomerName, at)
	}
	if patch.DispatcherName != nil {
		o.SetDispatcherName(*patch.DispatcherName, at)
	}
	for _, section := range order.Sections() {
		items, ok := patch.Sections[section]
		if !ok {
			continue
		}
		if err := o.ReplaceSection(section, items, at); err != nil {
			return err
		}
	}
	return nil
}
