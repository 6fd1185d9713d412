package orderdoc

import (
	"encoding/json"

	"shopfloor/internal/core/domain/model/order"
)

// Payload adapts a document to the broadcast router. It marshals back to the
// exact bytes it was decoded from, so fields this service does not model
// reach other clients untouched.
type Payload struct {
	doc Document
	raw json.RawMessage
}

// NewPayload wraps a server-side document.
func NewPayload(doc Document) *Payload {
	return &Payload{doc: doc}
}

// DecodePayload reads an order sent by a client.
func DecodePayload(raw json.RawMessage) (*Payload, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &Payload{doc: doc, raw: append(json.RawMessage(nil), raw...)}, nil
}

func (p *Payload) Document() Document {
	return p.doc
}

// HasItems reports whether the section named by any accepted spelling has items.
func (p *Payload) HasItems(section order.Section) bool {
	for key, items := range p.doc.OrderDetails {
		if s, err := order.ParseSection(key); err == nil && s == section && len(items) > 0 {
			return true
		}
	}
	return false
}

func (p *Payload) OrderNumber() string {
	return p.doc.OrderNumber
}

func (p *Payload) OrderID() string {
	return p.doc.ID
}

func (p *Payload) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	return json.Marshal(p.doc)
}
