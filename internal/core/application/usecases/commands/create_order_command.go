package commands

import (
	"errors"
	"strings"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/pkg/errs"
	"shopfloor/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a new production order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "ORD-1001", "Acme", "Dana", details)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	number         string
	customerName   string
	dispatcherName string
	details        order.Details

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the identifier and order number. Item
// level validation happens when the aggregate is built.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	number, customerName, dispatcherName string,
	details order.Details,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		customerName:   customerName,
		dispatcherName: dispatcherName,
		details:        details,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setNumber(number),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Number() string {
	return c.number
}

func (c CreateOrderCommand) CustomerName() string {
	return c.customerName
}

func (c CreateOrderCommand) DispatcherName() string {
	return c.dispatcherName
}

func (c CreateOrderCommand) Details() order.Details {
	return c.details
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("order_number")
	}
	c.number = number
	return nil
}
