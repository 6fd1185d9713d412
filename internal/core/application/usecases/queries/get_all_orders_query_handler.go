package queries

import (
	"context"

	"shopfloor/internal/core/domain/model/order"
)

type GetAllOrdersQueryHandler struct {
	reader OrderReader
}

func NewGetAllOrdersQueryHandler(reader OrderReader) GetAllOrdersQueryHandler {
	return GetAllOrdersQueryHandler{reader: reader}
}

func (h GetAllOrdersQueryHandler) Handle(ctx context.Context, query GetAllOrdersQuery) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.reader.List(ctx)
}
