package commands

import (
	"errors"
	"strings"

	"shopfloor/internal/pkg/errs"
	"shopfloor/internal/pkg/guard"
)

var ErrDeleteOrderCommandIsNotConstructed = errors.New(
	"DeleteOrderCommand must be created via NewDeleteOrderCommand constructor",
)

// DeleteOrderCommand removes an order by its order number.
type DeleteOrderCommand struct { //nolint:recvcheck //using for validation
	number string

	guard guard.ConstructorGuard
}

func NewDeleteOrderCommand(number string) (DeleteOrderCommand, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return DeleteOrderCommand{}, errs.NewValueIsRequiredError("order_number")
	}
	return DeleteOrderCommand{number: number, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeleteOrderCommandIsNotConstructed)
}

func (c DeleteOrderCommand) Number() string {
	return c.number
}
