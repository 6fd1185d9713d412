package http

import (
	"shopfloor/internal/adapters/in/orderdoc"
	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/domain/model/order"
)

// OrderPatchRequest is the body of PUT /orders/:id. Absent fields are left
// untouched.
type OrderPatchRequest struct {
	OrderNumber    *string                    `json:"order_number"`
	CustomerName   *string                    `json:"customer_name"`
	DispatcherName *string                    `json:"dispatcher_name"`
	OrderDetails   map[string][]orderdoc.Item `json:"order_details"`
}

func (r OrderPatchRequest) patch() (commands.OrderPatch, error) {
	sections, err := orderdoc.Document{OrderDetails: r.OrderDetails}.Details()
	if err != nil {
		return commands.OrderPatch{}, err
	}
	return commands.OrderPatch{
		Number:         r.OrderNumber,
		CustomerName:   r.CustomerName,
		DispatcherName: r.DispatcherName,
		Sections:       sections,
	}, nil
}

// ProgressRequest is the body of PATCH /orders/update-progress.
type ProgressRequest struct {
	OrderNumber string           `json:"order_number"`
	TeamType    string           `json:"team_type"`
	Updates     []ProgressUpdate `json:"updates"`
}

type ProgressUpdate struct {
	ItemID       string `json:"item_id"`
	QtyCompleted int    `json:"qty_completed"`
}

func (r ProgressRequest) command() (commands.ApplyProgressCommand, error) {
	updates := make([]order.ProgressUpdate, 0, len(r.Updates))
	for _, u := range r.Updates {
		itemID, err := order.ParseItemID(u.ItemID)
		if err != nil {
			return commands.ApplyProgressCommand{}, err
		}
		update, err := order.NewProgressUpdate(itemID, u.QtyCompleted)
		if err != nil {
			return commands.ApplyProgressCommand{}, err
		}
		updates = append(updates, update)
	}
	return commands.NewApplyProgressCommand(r.OrderNumber, r.TeamType, updates)
}

// ProgressResponse is the body returned by PATCH /orders/update-progress.
type ProgressResponse struct {
	Order       orderdoc.Document `json:"order"`
	OrderStatus string            `json:"order_status"`
	Results     []ItemResult      `json:"results"`
}

type ItemResult struct {
	ItemID       string `json:"item_id"`
	QtyCompleted int    `json:"qty_completed"`
	Outcome      string `json:"outcome"`
	ItemStatus   string `json:"item_status,omitempty"`
}

func progressResponse(result commands.ApplyProgressResult) ProgressResponse {
	results := make([]ItemResult, 0, len(result.Progress.Items))
	for _, item := range result.Progress.Items {
		out := ItemResult{
			ItemID:       item.ItemID.String(),
			QtyCompleted: item.QtyCompleted,
			Outcome:      string(item.Outcome),
		}
		if item.Outcome == order.OutcomeApplied {
			out.ItemStatus = item.ItemStatus.String()
		}
		results = append(results, out)
	}
	return ProgressResponse{
		Order:       orderdoc.FromDomain(result.Order),
		OrderStatus: result.Progress.OrderStatus.String(),
		Results:     results,
	}
}
