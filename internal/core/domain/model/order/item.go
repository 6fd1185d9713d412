package order

import (
	"fmt"
	"maps"
	"time"

	"shopfloor/internal/pkg/errs"
)

// Item is one line of an order section. Attributes carry the free-form
// product fields (size, colour, decoration, ...) and are never interpreted.
type Item struct {
	id         ItemID
	quantity   int
	attributes map[string]any
	tracking   *Tracking
}

// NewItem creates an untracked item.
func NewItem(id ItemID, quantity int, attributes map[string]any) (*Item, error) {
	return RestoreItem(id, quantity, attributes, nil)
}

// RestoreItem rebuilds an item, checking that tracking never exceeds quantity.
func RestoreItem(id ItemID, quantity int, attributes map[string]any, tracking *Tracking) (*Item, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, errs.NewValueIsOutOfRangeError("quantity", quantity, 0, "unbounded")
	}
	if tracking.TotalCompleted() > quantity {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"team_tracking",
			fmt.Errorf("item %s has %d completed of %d ordered", id, tracking.TotalCompleted(), quantity),
		)
	}
	return &Item{
		id:         id,
		quantity:   quantity,
		attributes: maps.Clone(attributes),
		tracking:   tracking.clone(),
	}, nil
}

func (i *Item) ID() ItemID {
	return i.id
}

func (i *Item) Quantity() int {
	return i.quantity
}

// Attributes returns a copy of the free-form item fields.
func (i *Item) Attributes() map[string]any {
	return maps.Clone(i.attributes)
}

// Tracking returns a copy of the ledger, or nil before the first progress update.
func (i *Item) Tracking() *Tracking {
	return i.tracking.clone()
}

// IsTracked reports whether any progress was ever recorded.
func (i *Item) IsTracked() bool {
	return i.tracking != nil
}

// Remaining is the quantity that can still be reported as completed.
func (i *Item) Remaining() int {
	return i.quantity - i.tracking.TotalCompleted()
}

// Status is Completed once the completed total reaches the ordered quantity.
func (i *Item) Status() Status {
	return statusFor(i.tracking.TotalCompleted() >= i.quantity)
}

// isComplete is the order-level view: an untracked item only counts when
// nothing was ordered.
func (i *Item) isComplete() bool {
	if i.tracking == nil {
		return i.quantity == 0
	}
	return i.Status() == Completed
}

// recordCompletion appends an entry after checking the quantity bound.
func (i *Item) recordCompletion(qty int, at time.Time) error {
	entry, err := NewCompletedEntry(qty, at)
	if err != nil {
		return err
	}
	if allowed := i.Remaining(); qty > allowed {
		return &QuantityExceededError{ItemID: i.id, Requested: qty, Allowed: allowed}
	}
	if i.tracking == nil {
		i.tracking = &Tracking{}
	}
	i.tracking.record(entry)
	return nil
}

func (i *Item) clone() *Item {
	return &Item{
		id:         i.id,
		quantity:   i.quantity,
		attributes: maps.Clone(i.attributes),
		tracking:   i.tracking.clone(),
	}
}
