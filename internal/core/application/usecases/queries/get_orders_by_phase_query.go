package queries

import (
	"errors"
	"fmt"
	"strings"

	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/pkg/errs"
	"shopfloor/internal/pkg/guard"
)

var ErrGetOrdersByPhaseQueryIsNotConstructed = errors.New(
	"GetOrdersByPhaseQuery must be created via NewGetOrdersByPhaseQuery constructor",
)

var phases = map[string]order.Status{
	"pending":   order.Pending,
	"completed": order.Completed,
}

// GetOrdersByPhaseQuery lists the orders in one lifecycle phase, optionally
// narrowed to the orders that have work for one team.
//
// Example:
//
//	query, err := NewGetOrdersByPhaseQuery("pending", "glass")
type GetOrdersByPhaseQuery struct {
	status  order.Status
	section *order.Section

	guard guard.ConstructorGuard
}

// NewGetOrdersByPhaseQuery accepts "pending" or "completed" in any case.
// An empty team means no team filter.
func NewGetOrdersByPhaseQuery(phase, team string) (GetOrdersByPhaseQuery, error) {
	status, ok := phases[strings.ToLower(strings.TrimSpace(phase))]
	if !ok {
		return GetOrdersByPhaseQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"orderType",
			fmt.Errorf("%q is neither pending nor completed", phase),
		)
	}

	q := GetOrdersByPhaseQuery{status: status, guard: guard.NewConstructorGuard()}
	if strings.TrimSpace(team) != "" {
		section, err := order.ParseSection(team)
		if err != nil {
			return GetOrdersByPhaseQuery{}, err
		}
		q.section = &section
	}
	return q, nil
}

func (q GetOrdersByPhaseQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersByPhaseQueryIsNotConstructed)
}

func (q GetOrdersByPhaseQuery) Status() order.Status {
	return q.status
}

// Section returns the team filter, if any.
func (q GetOrdersByPhaseQuery) Section() (order.Section, bool) {
	if q.section == nil {
		return "", false
	}
	return *q.section, true
}
