package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned for an Order that did not come from
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Details maps each section to its items. Sections absent from the map are empty.
type Details map[Section][]*Item

// Order is the aggregate root for a production order.
//
// Order follows these invariants:
//   - It has a valid identifier and a non-blank order number
//   - Item identifiers are unique across all sections
//   - Its status is derived from the items (see the package documentation)
//   - It can only be created through NewOrder or RestoreOrder
type Order struct {
	id             kernel.UUID
	number         string
	status         Status
	customerName   string
	dispatcherName string
	details        Details
	createdAt      time.Time
	updatedAt      time.Time

	isConstructed bool
}

// NewOrder creates a Pending order. The status is recomputed from the items,
// so an order created with already-finished items starts Completed.
//
// Example:
//
//	item, _ := order.NewItem(order.NewItemID(), 500, map[string]any{"neck_size": "28mm"})
//	o, err := order.NewOrder(kernel.NewUUID(), "ORD-1001", order.Details{
//	    order.GlassSection: {item},
//	}, clock.Now())
func NewOrder(id kernel.UUID, number string, details Details, createdAt time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     createdAt,
		updatedAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setDetails(details),
	); err != nil {
		return nil, err
	}

	o.recomputeStatus()
	return o, nil
}

// RestoreOrder rehydrates an order from storage. The stored status is kept
// as-is so that documents written under older completion rules still load.
func RestoreOrder(
	id kernel.UUID,
	number string,
	status Status,
	customerName, dispatcherName string,
	details Details,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		customerName:   customerName,
		dispatcherName: dispatcherName,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		isConstructed:  true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setDetails(details),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	o.status = status
	return o, nil
}

// Validate ensures the order was built by a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the caller-assigned unique order number.
func (o *Order) Number() string {
	return o.number
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CustomerName() string {
	return o.customerName
}

func (o *Order) DispatcherName() string {
	return o.dispatcherName
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Items returns the items of a section. The slice is a copy; the items are not.
func (o *Order) Items(section Section) []*Item {
	return slices.Clone(o.details[section])
}

// HasItems reports whether the section holds at least one item.
func (o *Order) HasItems(section Section) bool {
	return len(o.details[section]) > 0
}

// PopulatedSections lists the non-empty sections in catalog order.
func (o *Order) PopulatedSections() []Section {
	var out []Section
	for _, s := range sections {
		if o.HasItems(s) {
			out = append(out, s)
		}
	}
	return out
}

// FindItem locates an item by identifier within one section.
func (o *Order) FindItem(section Section, itemID ItemID) (*Item, bool) {
	for _, item := range o.details[section] {
		if item.id == itemID {
			return item, true
		}
	}
	return nil, false
}

// SetNumber renames the order. Uniqueness is enforced by the store.
func (o *Order) SetNumber(number string, at time.Time) error {
	if err := o.setNumber(number); err != nil {
		return err
	}
	o.updatedAt = at
	return nil
}

// SetCustomerName overwrites the customer name.
func (o *Order) SetCustomerName(name string, at time.Time) {
	o.customerName = strings.TrimSpace(name)
	o.updatedAt = at
}

// SetDispatcherName overwrites the name of the dispatcher owning the order.
func (o *Order) SetDispatcherName(name string, at time.Time) {
	o.dispatcherName = strings.TrimSpace(name)
	o.updatedAt = at
}

// ReplaceSection swaps a section's items for a new list. An incoming item
// without tracking that reuses an existing identifier inherits that item's
// tracking, so edits do not wipe reported progress.
func (o *Order) ReplaceSection(section Section, items []*Item, at time.Time) error {
	if !slices.Contains(sections, section) {
		return errs.NewValueIsInvalidErrorWithCause("order_details", fmt.Errorf("%q is not a known section", section))
	}

	merged := make([]*Item, 0, len(items))
	for _, incoming := range items {
		next := incoming.clone()
		if existing, ok := o.FindItem(section, incoming.id); ok && next.tracking == nil {
			next.tracking = existing.tracking.clone()
		}
		if next.tracking.TotalCompleted() > next.quantity {
			return errs.NewValueIsInvalidErrorWithCause(
				"quantity",
				fmt.Errorf("item %s already has %d completed, cannot lower quantity to %d",
					next.id, next.tracking.TotalCompleted(), next.quantity),
			)
		}
		merged = append(merged, next)
	}

	candidate := o.cloneDetails()
	candidate[section] = merged
	if err := checkUniqueItems(candidate); err != nil {
		return err
	}

	o.details = candidate
	o.updatedAt = at
	o.recomputeStatus()
	return nil
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	c := *o
	c.details = o.cloneDetails()
	return &c
}

func (o *Order) cloneDetails() Details {
	out := make(Details, len(o.details))
	for section, items := range o.details {
		cloned := make([]*Item, len(items))
		for i, item := range items {
			cloned[i] = item.clone()
		}
		out[section] = cloned
	}
	return out
}

// recomputeStatus applies the order-level completion rule.
func (o *Order) recomputeStatus() {
	total := 0
	done := true
	for _, items := range o.details {
		for _, item := range items {
			total++
			if !item.isComplete() {
				done = false
			}
		}
	}
	o.status = statusFor(total > 0 && done)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("order_number")
	}
	o.number = number
	return nil
}

func (o *Order) setDetails(details Details) error {
	out := make(Details, len(sections))
	for section, items := range details {
		if !slices.Contains(sections, section) {
			return errs.NewValueIsInvalidErrorWithCause("order_details", fmt.Errorf("%q is not a known section", section))
		}
		cloned := make([]*Item, 0, len(items))
		for _, item := range items {
			if item == nil {
				return errs.NewValueIsRequiredError("order_details." + string(section) + " item")
			}
			cloned = append(cloned, item.clone())
		}
		out[section] = cloned
	}
	if err := checkUniqueItems(out); err != nil {
		return err
	}
	o.details = out
	return nil
}

func checkUniqueItems(details Details) error {
	seen := make(map[ItemID]struct{})
	for _, items := range details {
		for _, item := range items {
			if _, dup := seen[item.id]; dup {
				return errs.NewValueIsInvalidErrorWithCause("order_details", fmt.Errorf("duplicate item id %s", item.id))
			}
			seen[item.id] = struct{}{}
		}
	}
	return nil
}
