package realtime

import (
	"time"

	"shopfloor/internal/core/domain/services"
)

// Inbound event names.
const (
	EventRegister    = "register"
	EventCreateOrder = "create-order"
	EventOrderUpdate = "order-update"
	EventEditOrder   = "edit-order"
	EventDeleteOrder = "delete-order"
	EventPing        = "ping"
)

// Outbound event names.
const (
	EventRegistered     = "registered"
	EventConnectedUsers = "connected-users"
	EventAck            = "ack"
	EventError          = "error"
)

// Sources of a lifecycle broadcast.
const (
	SourceClient = "client"
	SourceServer = "server"
)

// Lifecycle describes one order lifecycle event family: what is broadcast,
// what the originator receives, and whether explicit groups are mandatory.
type Lifecycle struct {
	Inbound        string
	Broadcast      string
	Confirmed      string
	Failed         string
	RequiresGroups bool
}

var (
	LifecycleCreate = Lifecycle{
		Inbound:   EventCreateOrder,
		Broadcast: "new-order",
		Confirmed: "order-create-confirmed",
		Failed:    "order-create-error",
	}
	LifecycleUpdate = Lifecycle{
		Inbound:   EventOrderUpdate,
		Broadcast: "order-updated",
		Confirmed: "order-update-confirmed",
		Failed:    "order-update-error",
	}
	LifecycleEdit = Lifecycle{
		Inbound:        EventEditOrder,
		Broadcast:      "order-edited",
		Confirmed:      "order-edit-confirmed",
		Failed:         "order-edit-error",
		RequiresGroups: true,
	}
	LifecycleDelete = Lifecycle{
		Inbound:   EventDeleteOrder,
		Broadcast: "order-deleted",
		Confirmed: "order-delete-confirmed",
		Failed:    "order-delete-error",
	}
)

// LifecycleFor maps an inbound event name to its lifecycle family.
func LifecycleFor(inbound string) (Lifecycle, bool) {
	for _, l := range []Lifecycle{LifecycleCreate, LifecycleUpdate, LifecycleEdit, LifecycleDelete} {
		if l.Inbound == inbound {
			return l, true
		}
	}
	return Lifecycle{}, false
}

// OrderPayload is the order carried by a lifecycle event. It is serialized
// as-is into the broadcast.
type OrderPayload interface {
	services.SectionSource
	OrderNumber() string
	OrderID() string
}

// Meta describes who emitted a broadcast and where it was routed.
type Meta struct {
	SenderID   string    `json:"senderId"`
	SenderRole string    `json:"senderRole"`
	TeamTypes  []string  `json:"teamTypes"`
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
}

// BroadcastPayload is the data of new-order, order-updated, order-edited and
// order-deleted.
type BroadcastPayload struct {
	Order any  `json:"order"`
	Meta  Meta `json:"_meta"`
}

// Confirmation is sent to the originator of a lifecycle event.
type Confirmation struct {
	OrderNumber string    `json:"orderNumber"`
	TargetTeams []string  `json:"targetTeams"`
	Status      string    `json:"status"`
	Recipients  int       `json:"recipients"`
	Timestamp   time.Time `json:"timestamp"`
}

// ErrorPayload is the data of every *-error event and of error.
type ErrorPayload struct {
	Message string `json:"message"`
	Event   string `json:"event,omitempty"`
}

// Registered is the reply to register.
type Registered struct {
	ConnectionID string    `json:"connectionId"`
	UserID       string    `json:"userId"`
	Role         string    `json:"role"`
	Team         string    `json:"team"`
	TeamType     string    `json:"teamType"`
	Groups       []string  `json:"groups"`
	Timestamp    time.Time `json:"timestamp"`
}

// Member is one entry of a presence list.
type Member struct {
	UserID     string    `json:"userId"`
	Team       string    `json:"team,omitempty"`
	Connected  bool      `json:"connected"`
	LastActive time.Time `json:"lastActive"`
}

// PresencePayload is the data of connected-users.
type PresencePayload struct {
	Group          string              `json:"group"`
	Dispatchers    []Member            `json:"dispatchers"`
	Teams          map[string][]Member `json:"teams"`
	AllTeamMembers []Member            `json:"all_team_members,omitempty"`
	Timestamp      time.Time           `json:"timestamp"`
}
