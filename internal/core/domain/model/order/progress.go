package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"shopfloor/internal/pkg/errs"
)

// ErrQuantityExceeded is returned when a progress update would push an item's
// completed total past its ordered quantity.
var ErrQuantityExceeded = errors.New("completed quantity exceeds ordered quantity")

// QuantityExceededError details a rejected progress update.
type QuantityExceededError struct {
	ItemID    ItemID
	Requested int
	Allowed   int
}

func (e *QuantityExceededError) Error() string {
	return fmt.Sprintf("%s: item %s requested %d, at most %d allowed",
		ErrQuantityExceeded, e.ItemID, e.Requested, e.Allowed)
}

func (e *QuantityExceededError) Unwrap() error {
	return ErrQuantityExceeded
}

// ProgressUpdate reports qtyCompleted finished units of one item.
type ProgressUpdate struct {
	itemID       ItemID
	qtyCompleted int
}

// NewProgressUpdate validates the item identifier and a positive quantity.
func NewProgressUpdate(itemID ItemID, qtyCompleted int) (ProgressUpdate, error) {
	if err := itemID.Validate(); err != nil {
		return ProgressUpdate{}, err
	}
	if qtyCompleted <= 0 {
		return ProgressUpdate{}, errs.NewValueIsInvalidErrorWithCause(
			"qty_completed",
			fmt.Errorf("%d is not greater than 0", qtyCompleted),
		)
	}
	return ProgressUpdate{itemID: itemID, qtyCompleted: qtyCompleted}, nil
}

func (u ProgressUpdate) ItemID() ItemID {
	return u.itemID
}

func (u ProgressUpdate) QtyCompleted() int {
	return u.qtyCompleted
}

// Outcome tells what happened to a single update of a batch.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped"
)

// ItemResult is the per-update report of ApplyProgress.
type ItemResult struct {
	ItemID       ItemID
	QtyCompleted int
	Outcome      Outcome
	ItemStatus   Status
}

// ProgressResult summarizes an applied batch.
type ProgressResult struct {
	Items       []ItemResult
	OrderStatus Status
}

// Skipped returns the identifiers of updates whose item was not found.
func (r ProgressResult) Skipped() []ItemID {
	var out []ItemID
	for _, item := range r.Items {
		if item.Outcome == OutcomeSkipped {
			out = append(out, item.ItemID)
		}
	}
	return out
}

// ApplyProgress folds a batch of updates into one section, in order.
//
// Updates naming an item that is not in the section are skipped and reported.
// Every other update is checked against the item's remaining quantity before
// its entry is recorded. The batch is all-or-nothing: if any update fails the
// order is left exactly as it was and the error is returned.
//
// On success item statuses and the order status are recomputed.
func (o *Order) ApplyProgress(section Section, updates []ProgressUpdate, at time.Time) (ProgressResult, error) {
	if !slices.Contains(sections, section) {
		return ProgressResult{}, errs.NewValueIsInvalidErrorWithCause(
			"team_type",
			fmt.Errorf("%q is not a known section", section),
		)
	}

	working := o.cloneDetails()
	result := ProgressResult{Items: make([]ItemResult, 0, len(updates))}

	for _, update := range updates {
		item := findIn(working[section], update.itemID)
		if item == nil {
			result.Items = append(result.Items, ItemResult{
				ItemID:       update.itemID,
				QtyCompleted: update.qtyCompleted,
				Outcome:      OutcomeSkipped,
			})
			continue
		}

		if err := item.recordCompletion(update.qtyCompleted, at); err != nil {
			return ProgressResult{}, err
		}

		result.Items = append(result.Items, ItemResult{
			ItemID:       update.itemID,
			QtyCompleted: update.qtyCompleted,
			Outcome:      OutcomeApplied,
			ItemStatus:   item.Status(),
		})
	}

	o.details = working
	o.updatedAt = at
	o.recomputeStatus()
	result.OrderStatus = o.status
	return result, nil
}

func findIn(items []*Item, id ItemID) *Item {
	for _, item := range items {
		if item.id == id {
			return item
		}
	}
	return nil
}
