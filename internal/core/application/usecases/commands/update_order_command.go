package commands

import (
	"errors"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// OrderPatch carries the fields a merge-update provides. Nil pointers and
// absent sections leave the stored value untouched.
type OrderPatch struct {
	Number         *string
	CustomerName   *string
	DispatcherName *string
	Sections       order.Details
}

// IsEmpty reports whether the patch changes nothing.
func (p OrderPatch) IsEmpty() bool {
	return p.Number == nil && p.CustomerName == nil && p.DispatcherName == nil && len(p.Sections) == 0
}

// UpdateOrderCommand merges a patch into the order with the given identifier.
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	patch   OrderPatch

	guard guard.ConstructorGuard
}

func NewUpdateOrderCommand(orderID kernel.UUID, patch OrderPatch) (UpdateOrderCommand, error) {
	cmd := UpdateOrderCommand{
		patch: patch,
		guard: guard.NewConstructorGuard(),
	}
	if err := cmd.setOrderID(orderID); err != nil {
		return UpdateOrderCommand{}, err
	}
	return cmd, nil
}

func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderCommand) Patch() OrderPatch {
	return c.patch
}

func (c *UpdateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}
