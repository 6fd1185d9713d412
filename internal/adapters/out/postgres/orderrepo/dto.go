// Package orderrepo persists order aggregates with GORM. Order details keep
// their document layout inside a JSON column so existing order documents and
// the wire format stay interchangeable.
package orderrepo

import (
	"encoding/json"
	"time"

	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/pkg/docfields"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderDTO is the row layout of the orders table.
type OrderDTO struct {
	ID             uuid.UUID                      `gorm:"type:uuid;primaryKey"`
	OrderNumber    string                         `gorm:"uniqueIndex;not null"`
	OrderStatus    string                         `gorm:"index;not null"`
	CustomerName   string                         `gorm:"not null;default:''"`
	DispatcherName string                         `gorm:"not null;default:''"`
	OrderDetails   datatypes.JSONType[DetailsDTO] `gorm:"not null"`
	CreatedAt      time.Time                      `gorm:"index;autoCreateTime:false"`
	UpdatedAt      time.Time                      `gorm:"autoUpdateTime:false"`
}

// TableName keeps the collection name the order documents have always used.
func (OrderDTO) TableName() string {
	return "orders"
}

// DetailsDTO is the order_details document: one item list per section.
type DetailsDTO map[string][]ItemDTO

// ItemDTO is one item of a section. Attributes are stored as top-level keys
// of the item object, beside _id, quantity and team_tracking.
type ItemDTO struct {
	ID           string         `json:"_id"`
	Quantity     int            `json:"quantity"`
	TeamTracking *TrackingDTO   `json:"team_tracking,omitempty"`
	Attributes   map[string]any `json:"-"`
}

var itemKeys = []string{"_id", "quantity", "team_tracking"}

type itemRow ItemDTO

func (i *ItemDTO) UnmarshalJSON(data []byte) error {
	var row itemRow
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	extra, err := docfields.Extra(data, itemKeys...)
	if err != nil {
		return err
	}
	*i = ItemDTO(row)
	i.Attributes = extra
	return nil
}

func (i ItemDTO) MarshalJSON() ([]byte, error) {
	return docfields.Merge(itemRow(i), i.Attributes, itemKeys...)
}

// TrackingDTO is the completed-quantity ledger of an item.
type TrackingDTO struct {
	TotalCompletedQty int                 `json:"total_completed_qty"`
	CompletedEntries  []CompletedEntryDTO `json:"completed_entries"`
	Status            string              `json:"status"`
}

type CompletedEntryDTO struct {
	QtyCompleted int       `json:"qty_completed"`
	Timestamp    time.Time `json:"timestamp"`
}

func fromDomain(aggregate *order.Order) OrderDTO {
	details := make(DetailsDTO)
	for _, section := range order.Sections() {
		items := aggregate.Items(section)
		if len(items) == 0 {
			continue
		}
		dtos := make([]ItemDTO, 0, len(items))
		for _, item := range items {
			dtos = append(dtos, itemFromDomain(item))
		}
		details[section.String()] = dtos
	}

	return OrderDTO{
		ID:             aggregate.ID().Bytes(),
		OrderNumber:    aggregate.Number(),
		OrderStatus:    aggregate.Status().String(),
		CustomerName:   aggregate.CustomerName(),
		DispatcherName: aggregate.DispatcherName(),
		OrderDetails:   datatypes.NewJSONType(details),
		CreatedAt:      aggregate.CreatedAt().UTC(),
		UpdatedAt:      aggregate.UpdatedAt().UTC(),
	}
}

func itemFromDomain(item *order.Item) ItemDTO {
	dto := ItemDTO{
		ID:         item.ID().String(),
		Quantity:   item.Quantity(),
		Attributes: item.Attributes(),
	}
	if item.IsTracked() {
		tracking := item.Tracking()
		entries := make([]CompletedEntryDTO, 0, len(tracking.Entries()))
		for _, e := range tracking.Entries() {
			entries = append(entries, CompletedEntryDTO{QtyCompleted: e.QtyCompleted(), Timestamp: e.Timestamp().UTC()})
		}
		dto.TeamTracking = &TrackingDTO{
			TotalCompletedQty: tracking.TotalCompleted(),
			CompletedEntries:  entries,
			Status:            item.Status().String(),
		}
	}
	return dto
}

// toDomain rebuilds the aggregate with RestoreOrder. Unknown section keys in
// the stored document are ignored.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.OrderStatus)
	if err != nil {
		return nil, err
	}

	details := make(order.Details)
	for key, items := range dto.OrderDetails.Data() {
		section, sectionErr := order.ParseSection(key)
		if sectionErr != nil {
			continue
		}
		restored := make([]*order.Item, 0, len(items))
		for _, item := range items {
			i, itemErr := itemToDomain(item)
			if itemErr != nil {
				return nil, itemErr
			}
			restored = append(restored, i)
		}
		details[section] = restored
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		status,
		dto.CustomerName,
		dto.DispatcherName,
		details,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := order.ParseItemID(dto.ID)
	if err != nil {
		return nil, err
	}

	var tracking *order.Tracking
	if dto.TeamTracking != nil {
		entries := make([]order.CompletedEntry, 0, len(dto.TeamTracking.CompletedEntries))
		for _, e := range dto.TeamTracking.CompletedEntries {
			entry, entryErr := order.NewCompletedEntry(e.QtyCompleted, e.Timestamp)
			if entryErr != nil {
				return nil, entryErr
			}
			entries = append(entries, entry)
		}
		tracking, err = order.RestoreTracking(entries, dto.TeamTracking.TotalCompletedQty)
		if err != nil {
			return nil, err
		}
	}

	return order.RestoreItem(id, dto.Quantity, dto.Attributes, tracking)
}
