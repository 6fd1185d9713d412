package order

import (
	"fmt"
	"slices"
	"time"

	"shopfloor/internal/pkg/errs"
)

// CompletedEntry is one reported batch of finished units.
type CompletedEntry struct {
	qtyCompleted int
	timestamp    time.Time
}

// NewCompletedEntry validates that qtyCompleted is positive.
func NewCompletedEntry(qtyCompleted int, timestamp time.Time) (CompletedEntry, error) {
	if qtyCompleted <= 0 {
		return CompletedEntry{}, errs.NewValueIsInvalidErrorWithCause(
			"qty_completed",
			fmt.Errorf("%d is not greater than 0", qtyCompleted),
		)
	}
	return CompletedEntry{qtyCompleted: qtyCompleted, timestamp: timestamp}, nil
}

func (e CompletedEntry) QtyCompleted() int {
	return e.qtyCompleted
}

func (e CompletedEntry) Timestamp() time.Time {
	return e.timestamp
}

// Tracking is the completed-quantity ledger of an item. The total is always the
// sum of the entries; it is derived, not stored separately.
type Tracking struct {
	entries        []CompletedEntry
	totalCompleted int
}

// RestoreTracking rebuilds a ledger from persisted entries.
// storedTotal must match the sum of the entries.
func RestoreTracking(entries []CompletedEntry, storedTotal int) (*Tracking, error) {
	t := &Tracking{}
	for _, e := range entries {
		if e.qtyCompleted <= 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"completed_entries",
				fmt.Errorf("entry quantity %d is not greater than 0", e.qtyCompleted),
			)
		}
		t.entries = append(t.entries, e)
		t.totalCompleted += e.qtyCompleted
	}
	if t.totalCompleted != storedTotal {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"total_completed_qty",
			fmt.Errorf("stored total %d does not match entries sum %d", storedTotal, t.totalCompleted),
		)
	}
	return t, nil
}

// TotalCompleted returns the sum of all completed entries.
func (t *Tracking) TotalCompleted() int {
	if t == nil {
		return 0
	}
	return t.totalCompleted
}

// Entries returns a copy of the completed entries in recording order.
func (t *Tracking) Entries() []CompletedEntry {
	if t == nil {
		return nil
	}
	return slices.Clone(t.entries)
}

func (t *Tracking) record(e CompletedEntry) {
	t.entries = append(t.entries, e)
	t.totalCompleted += e.qtyCompleted
}

func (t *Tracking) clone() *Tracking {
	if t == nil {
		return nil
	}
	return &Tracking{entries: slices.Clone(t.entries), totalCompleted: t.totalCompleted}
}
