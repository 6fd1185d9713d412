package ws

import (
	"encoding/json"
	"strconv"
	"time"

	"shopfloor/internal/core/domain/model/session"
)

// inbound is a frame received from a client.
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	Ack   *int64          `json:"ack,omitempty"`
}

// outbound is a frame sent to a client.
type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	Ack   *int64 `json:"ack,omitempty"`
}

type registerData struct {
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	Team     string `json:"team"`
	TeamType string `json:"teamType"`
}

func (d registerData) identity() session.Identity {
	return session.Identity{
		ExternalUserID: d.UserID,
		Role:           d.Role,
		Team:           d.Team,
		TeamType:       d.TeamType,
	}
}

// lifecycleData is the body of create-order, order-update, edit-order and
// delete-order. order-update names a single teamType. Timestamp is either an
// RFC 3339 string or epoch milliseconds.
type lifecycleData struct {
	Order     json.RawMessage `json:"order"`
	TeamTypes []string        `json:"teamTypes"`
	TeamType  string          `json:"teamType"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// timestamp reports false when the client sent no usable timestamp.
func (d lifecycleData) timestamp() (time.Time, bool) {
	if !hasValue(d.Timestamp) {
		return time.Time{}, false
	}

	var text string
	if err := json.Unmarshal(d.Timestamp, &text); err == nil {
		if t, parseErr := time.Parse(time.RFC3339Nano, text); parseErr == nil {
			return t, true
		}
		if millis, parseErr := strconv.ParseInt(text, 10, 64); parseErr == nil {
			return time.UnixMilli(millis).UTC(), true
		}
		return time.Time{}, false
	}

	var millis float64
	if err := json.Unmarshal(d.Timestamp, &millis); err == nil {
		return time.UnixMilli(int64(millis)).UTC(), true
	}
	return time.Time{}, false
}

func (d lifecycleData) targets() []string {
	if len(d.TeamTypes) > 0 {
		return d.TeamTypes
	}
	if d.TeamType != "" {
		return []string{d.TeamType}
	}
	return nil
}

type ackStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type pingReply struct {
	Time time.Time `json:"time"`
}

func encodeFrame(event string, data any, ack *int64) ([]byte, error) {
	return json.Marshal(outbound{Event: event, Data: data, Ack: ack})
}
