package orderdoc_test

import (
	"encoding/json"
	"testing"
	"time"

	"shopfloor/internal/adapters/in/orderdoc"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)

func TestFromDomain(t *testing.T) {
	item, err := order.NewItem(order.NewItemID(), 4, map[string]any{"finish": "matte"})
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-9", order.Details{order.CapsSection: {item}}, at)
	require.NoError(t, err)
	update, err := order.NewProgressUpdate(item.ID(), 4)
	require.NoError(t, err)
	_, err = o.ApplyProgress(order.CapsSection, []order.ProgressUpdate{update}, at.Add(time.Hour))
	require.NoError(t, err)

	doc := orderdoc.FromDomain(o)

	assert.Equal(t, o.ID().String(), doc.ID)
	assert.Equal(t, "Completed", doc.OrderStatus)
	assert.Len(t, doc.OrderDetails, 4)
	assert.Empty(t, doc.OrderDetails["glass"])
	require.Len(t, doc.OrderDetails["caps"], 1)
	caps := doc.OrderDetails["caps"][0]
	assert.Equal(t, "matte", caps.Attributes["finish"])
	require.NotNil(t, caps.TeamTracking)
	assert.Equal(t, 4, caps.TeamTracking.TotalCompletedQty)
	assert.Equal(t, "Completed", caps.TeamTracking.Status)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"order_number":"ORD-9"`)
	assert.Contains(t, string(raw), `"glass":[]`)
}

func TestDocument_Details(t *testing.T) {
	t.Run("should assign identifiers and accept aliases", func(t *testing.T) {
		keep := order.ItemID("64f1a2b3c4d5e6f708192a3b")
		doc := orderdoc.Document{OrderDetails: map[string][]orderdoc.Item{
			"box":  {{Quantity: 3}},
			"pump": {{ID: keep.String(), Quantity: 1, TeamTracking: &orderdoc.Tracking{TotalCompletedQty: 1}}},
		}}

		details, err := doc.Details()

		require.NoError(t, err)
		require.Len(t, details[order.BoxesSection], 1)
		assert.NotEmpty(t, details[order.BoxesSection][0].ID())
		require.Len(t, details[order.PumpsSection], 1)
		assert.Equal(t, keep, details[order.PumpsSection][0].ID())
		assert.False(t, details[order.PumpsSection][0].IsTracked())
	})

	t.Run("should reject an unknown section", func(t *testing.T) {
		doc := orderdoc.Document{OrderDetails: map[string][]orderdoc.Item{"paint": {{Quantity: 1}}}}

		_, err := doc.Details()

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should keep opaque item ids verbatim", func(t *testing.T) {
		doc := orderdoc.Document{OrderDetails: map[string][]orderdoc.Item{"glass": {{ID: "legacy-7", Quantity: 1}}}}

		details, err := doc.Details()

		require.NoError(t, err)
		assert.Equal(t, order.ItemID("legacy-7"), details[order.GlassSection][0].ID())
	})

	t.Run("should reject a negative quantity", func(t *testing.T) {
		doc := orderdoc.Document{OrderDetails: map[string][]orderdoc.Item{"glass": {{Quantity: -1}}}}

		_, err := doc.Details()

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestItem_JSON(t *testing.T) {
	raw := `{"_id":"64f1a2b3c4d5e6f708192a3b","quantity":120,"glass_name":"Flint 250","decoration":{"print":"silk"},` +
		`"team_tracking":{"total_completed_qty":20,"completed_entries":[],"status":"Pending"}}`

	var item orderdoc.Item
	require.NoError(t, json.Unmarshal([]byte(raw), &item))

	assert.Equal(t, "64f1a2b3c4d5e6f708192a3b", item.ID)
	assert.Equal(t, 120, item.Quantity)
	assert.Equal(t, "Flint 250", item.Attributes["glass_name"])
	assert.Equal(t, map[string]any{"print": "silk"}, item.Attributes["decoration"])
	assert.NotContains(t, item.Attributes, "team_tracking")
	require.NotNil(t, item.TeamTracking)
	assert.Equal(t, 20, item.TeamTracking.TotalCompletedQty)

	out, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestDocument_ItemFieldsSurviveDomainRoundTrip(t *testing.T) {
	var doc orderdoc.Document
	require.NoError(t, json.Unmarshal([]byte(`{
		"order_number": "ORD-12",
		"order_details": {"glass": [{"_id": "64f1a2b3c4d5e6f708192a3b", "quantity": 5, "glass_name": "Amber 500"}]}
	}`), &doc))
	details, err := doc.Details()
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), doc.OrderNumber, details, at)
	require.NoError(t, err)

	out, err := json.Marshal(orderdoc.FromDomain(o))

	require.NoError(t, err)
	var rendered struct {
		OrderDetails map[string][]map[string]any `json:"order_details"`
	}
	require.NoError(t, json.Unmarshal(out, &rendered))
	require.Len(t, rendered.OrderDetails["glass"], 1)
	glass := rendered.OrderDetails["glass"][0]
	assert.Equal(t, "64f1a2b3c4d5e6f708192a3b", glass["_id"])
	assert.Equal(t, "Amber 500", glass["glass_name"])
	assert.NotContains(t, glass, "attributes")
}

func TestDocument_OrderID(t *testing.T) {
	id, err := orderdoc.Document{}.OrderID()
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	_, err = orderdoc.Document{ID: "x"}.OrderID()
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestPayload(t *testing.T) {
	raw := json.RawMessage(`{"order_number":"ORD-3","priority":"rush","order_details":{"Caps":[{"quantity":2}],"glass":[]}}`)

	p, err := orderdoc.DecodePayload(raw)

	require.NoError(t, err)
	assert.Equal(t, "ORD-3", p.OrderNumber())
	assert.True(t, p.HasItems(order.CapsSection))
	assert.False(t, p.HasItems(order.GlassSection))
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(out))

	_, err = orderdoc.DecodePayload(json.RawMessage(`[1,2]`))
	require.Error(t, err)
}
