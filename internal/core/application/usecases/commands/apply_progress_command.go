package commands

import (
	"errors"
	"strings"

	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/pkg/errs"
	"shopfloor/internal/pkg/guard"
)

var ErrApplyProgressCommandIsNotConstructed = errors.New(
	"ApplyProgressCommand must be created via NewApplyProgressCommand constructor",
)

// ApplyProgressCommand reports finished quantities for items of one section.
//
// Example:
//
//	update, _ := order.NewProgressUpdate(itemID, 4)
//	cmd, err := NewApplyProgressCommand("ORD-1001", "glass", []order.ProgressUpdate{update})
type ApplyProgressCommand struct { //nolint:recvcheck //using for validation
	orderNumber string
	teamType    string
	updates     []order.ProgressUpdate

	guard guard.ConstructorGuard
}

func NewApplyProgressCommand(orderNumber, teamType string, updates []order.ProgressUpdate) (ApplyProgressCommand, error) {
	cmd := ApplyProgressCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderNumber(orderNumber),
		cmd.setTeamType(teamType),
		cmd.setUpdates(updates),
	); err != nil {
		return ApplyProgressCommand{}, err
	}

	return cmd, nil
}

func (c ApplyProgressCommand) Validate() error {
	return c.guard.Validate(ErrApplyProgressCommandIsNotConstructed)
}

func (c ApplyProgressCommand) OrderNumber() string {
	return c.orderNumber
}

// TeamType is the raw team name; it is resolved to a section only after the
// order has been found, so an unknown order reports NotFound first.
func (c ApplyProgressCommand) TeamType() string {
	return c.teamType
}

func (c ApplyProgressCommand) Section() (order.Section, error) {
	return order.ParseSection(c.teamType)
}

func (c ApplyProgressCommand) Updates() []order.ProgressUpdate {
	return c.updates
}

func (c *ApplyProgressCommand) setOrderNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("order_number")
	}
	c.orderNumber = number
	return nil
}

func (c *ApplyProgressCommand) setTeamType(teamType string) error {
	teamType = strings.TrimSpace(teamType)
	if teamType == "" {
		return errs.NewValueIsRequiredError("team_type")
	}
	c.teamType = teamType
	return nil
}

func (c *ApplyProgressCommand) setUpdates(updates []order.ProgressUpdate) error {
	if len(updates) == 0 {
		return errs.NewValueIsRequiredError("updates")
	}
	c.updates = updates
	return nil
}
