package order

import (
	"strings"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/pkg/errs"
)

// ItemID identifies an item within an order. It is an opaque string so that
// identifiers minted by other systems, such as 24-hex ObjectIds, survive
// unchanged; the zero value is invalid.
type ItemID string

// NewItemID mints an identifier for an item that arrived without one.
func NewItemID() ItemID {
	return ItemID(kernel.NewUUID().String())
}

// ParseItemID trims raw and rejects an empty identifier.
func ParseItemID(raw string) (ItemID, error) {
	id := ItemID(strings.TrimSpace(raw))
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

func (id ItemID) Validate() error {
	if id == "" {
		return errs.NewValueIsRequiredError("item_id")
	}
	return nil
}

func (id ItemID) String() string {
	return string(id)
}
