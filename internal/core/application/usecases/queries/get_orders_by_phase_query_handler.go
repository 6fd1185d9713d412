package queries

import (
	"context"

	"shopfloor/internal/core/domain/model/order"
)

type GetOrdersByPhaseQueryHandler struct {
	reader OrderReader
}

func NewGetOrdersByPhaseQueryHandler(reader OrderReader) GetOrdersByPhaseQueryHandler {
	return GetOrdersByPhaseQueryHandler{reader: reader}
}

// Handle keeps, when a team is given, only orders whose section for that
// team holds at least one item.
func (h GetOrdersByPhaseQueryHandler) Handle(ctx context.Context, query GetOrdersByPhaseQuery) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.ListByStatus(ctx, query.Status())
	if err != nil {
		return nil, err
	}

	section, ok := query.Section()
	if !ok {
		return orders, nil
	}

	filtered := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if o.HasItems(section) {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}
