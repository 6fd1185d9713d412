// Package orderdoc is the order document exchanged over HTTP and the
// real-time channel.
package orderdoc

import (
	"encoding/json"
	"strings"
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/pkg/docfields"
	"shopfloor/internal/pkg/errs"
)

// Document is the JSON form of an order.
type Document struct {
	ID             string            `json:"_id,omitempty"`
	OrderNumber    string            `json:"order_number"`
	OrderStatus    string            `json:"order_status,omitempty"`
	CustomerName   string            `json:"customer_name,omitempty"`
	DispatcherName string            `json:"dispatcher_name,omitempty"`
	OrderDetails   map[string][]Item `json:"order_details"`
	CreatedAt      *time.Time        `json:"created_at,omitempty"`
	UpdatedAt      *time.Time        `json:"updated_at,omitempty"`
}

// Item is one line of a section. Every top-level key other than _id,
// quantity and team_tracking lands in Attributes and is written back at the
// top level.
type Item struct {
	ID           string         `json:"_id,omitempty"`
	Quantity     int            `json:"quantity"`
	TeamTracking *Tracking      `json:"team_tracking,omitempty"`
	Attributes   map[string]any `json:"-"`
}

var itemKeys = []string{"_id", "quantity", "team_tracking"}

type itemJSON Item

func (i *Item) UnmarshalJSON(data []byte) error {
	var fields itemJSON
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := docfields.Extra(data, itemKeys...)
	if err != nil {
		return err
	}
	*i = Item(fields)
	i.Attributes = extra
	return nil
}

func (i Item) MarshalJSON() ([]byte, error) {
	return docfields.Merge(itemJSON(i), i.Attributes, itemKeys...)
}

type Tracking struct {
	TotalCompletedQty int              `json:"total_completed_qty"`
	CompletedEntries  []CompletedEntry `json:"completed_entries"`
	Status            string           `json:"status"`
}

type CompletedEntry struct {
	QtyCompleted int       `json:"qty_completed"`
	Timestamp    time.Time `json:"timestamp"`
}

// FromDomain renders an aggregate. Every section key is present.
func FromDomain(o *order.Order) Document {
	createdAt, updatedAt := o.CreatedAt(), o.UpdatedAt()
	doc := Document{
		ID:             o.ID().String(),
		OrderNumber:    o.Number(),
		OrderStatus:    o.Status().String(),
		CustomerName:   o.CustomerName(),
		DispatcherName: o.DispatcherName(),
		OrderDetails:   make(map[string][]Item, len(order.Sections())),
		CreatedAt:      &createdAt,
		UpdatedAt:      &updatedAt,
	}
	for _, section := range order.Sections() {
		items := o.Items(section)
		out := make([]Item, 0, len(items))
		for _, item := range items {
			out = append(out, itemFromDomain(item))
		}
		doc.OrderDetails[section.String()] = out
	}
	return doc
}

// FromDomainAll renders a list, never returning nil.
func FromDomainAll(orders []*order.Order) []Document {
	out := make([]Document, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromDomain(o))
	}
	return out
}

func itemFromDomain(item *order.Item) Item {
	out := Item{
		ID:         item.ID().String(),
		Quantity:   item.Quantity(),
		Attributes: item.Attributes(),
	}
	if item.IsTracked() {
		tracking := item.Tracking()
		entries := make([]CompletedEntry, 0, len(tracking.Entries()))
		for _, e := range tracking.Entries() {
			entries = append(entries, CompletedEntry{QtyCompleted: e.QtyCompleted(), Timestamp: e.Timestamp()})
		}
		out.TeamTracking = &Tracking{
			TotalCompletedQty: tracking.TotalCompleted(),
			CompletedEntries:  entries,
			Status:            item.Status().String(),
		}
	}
	return out
}

// OrderID parses the document identifier. An empty identifier yields a new one.
func (d Document) OrderID() (kernel.UUID, error) {
	if strings.TrimSpace(d.ID) == "" {
		return kernel.NewUUID(), nil
	}
	id, err := kernel.UUIDFromString(d.ID)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("_id", err)
	}
	return id, nil
}

// Details converts the provided sections into untracked items. Identifiers are
// kept verbatim; items without one get a new one. Client-sent tracking is ignored.
func (d Document) Details() (order.Details, error) {
	details := make(order.Details, len(d.OrderDetails))
	for key, items := range d.OrderDetails {
		section, err := order.ParseSection(key)
		if err != nil {
			return nil, err
		}
		converted := make([]*order.Item, 0, len(items))
		for _, item := range items {
			id, err := order.ParseItemID(item.ID)
			if err != nil {
				id = order.NewItemID()
			}
			domainItem, err := order.NewItem(id, item.Quantity, item.Attributes)
			if err != nil {
				return nil, err
			}
			converted = append(converted, domainItem)
		}
		details[section] = append(details[section], converted...)
	}
	return details, nil
}
