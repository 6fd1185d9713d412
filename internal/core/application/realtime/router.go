package realtime

import (
	"log/slog"
	"slices"
	"time"

	"shopfloor/internal/core/domain/model/group"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/services"

	"github.com/jonboulle/clockwork"
)

const confirmationStatusSent = "sent"

// LifecycleRequest is an order lifecycle event received from a client.
type LifecycleRequest struct {
	// Order is nil when the frame carried no readable order.
	Order     OrderPayload
	TeamTypes []string
	// Timestamp defaults to the current time when zero.
	Timestamp time.Time
}

// Router fans order lifecycle events out to their target groups. The
// dispatchers group receives every broadcast whatever the targets are.
type Router struct {
	registry *Registry
	resolver services.TargetResolver
	clock    clockwork.Clock
	observer Observer
	logger   *slog.Logger
}

// NewRouter creates a router that resolves order targets with resolver and
// delivers through the connections held by registry.
func NewRouter(
	registry *Registry,
	resolver services.TargetResolver,
	clock clockwork.Clock,
	observer Observer,
	logger *slog.Logger,
) *Router {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Router{
		registry: registry,
		resolver: resolver,
		clock:    clock,
		observer: observer,
		logger:   logger.With("component", "broadcast-router"),
	}
}

// Relay handles a lifecycle event emitted by the client on origin. A
// malformed request earns the originator the lifecycle's error event and
// nothing else; a valid one is broadcast and confirmed to the originator.
func (r *Router) Relay(origin kernel.UUID, l Lifecycle, req LifecycleRequest) {
	conn, ok := r.registry.Conn(origin)
	if !ok {
		r.logger.Warn("lifecycle event from unknown connection",
			"connection_id", origin.String(),
			"event", l.Inbound,
		)
		return
	}

	if msg := validateRequest(l, req); msg != "" {
		r.logger.Warn("lifecycle event rejected",
			"connection_id", origin.String(),
			"event", l.Inbound,
			"reason", msg,
		)
		r.reply(conn, l.Failed, ErrorPayload{Message: msg, Event: l.Inbound})
		return
	}

	targets := r.resolver.Resolve(req.Order, req.TeamTypes)
	sender, _ := r.registry.Session(origin)
	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = r.clock.Now()
	}

	recipients := r.Broadcast(l.Broadcast, req.Order, targets, Meta{
		SenderID:   sender.Identity.ExternalUserID,
		SenderRole: sender.Identity.Role,
		TeamTypes:  group.Strings(targets),
		Timestamp:  timestamp,
		Source:     SourceClient,
	})

	r.reply(conn, l.Confirmed, Confirmation{
		OrderNumber: orderNumberOf(req.Order),
		TargetTeams: group.Strings(targets),
		Status:      confirmationStatusSent,
		Recipients:  recipients,
		Timestamp:   r.clock.Now(),
	})
}

// Broadcast delivers event to every connection in targets and in the
// dispatchers group, once per connection. It returns how many connections
// accepted the event.
func (r *Router) Broadcast(event string, order any, targets []group.Name, meta Meta) int {
	names := targets
	if !slices.Contains(names, group.Dispatchers) {
		names = append(append([]group.Name{}, targets...), group.Dispatchers)
	}

	conns, sizes := r.registry.Recipients(names)
	for _, name := range targets {
		if sizes[name] == 0 {
			r.logger.Warn("no members in target group",
				"event", event,
				"group", name.String(),
				"order_number", orderNumberOf(order),
			)
		}
	}

	payload := BroadcastPayload{Order: order, Meta: meta}
	delivered := 0
	for _, conn := range conns {
		if err := conn.Send(event, payload); err != nil {
			r.logger.Warn("broadcast not delivered",
				"event", event,
				"connection_id", conn.ID().String(),
				"error", err,
			)
			continue
		}
		delivered++
	}

	r.observer.Broadcast(event, delivered)
	r.logger.Debug("order event broadcast",
		"event", event,
		"groups", group.Strings(names),
		"recipients", delivered,
	)
	return delivered
}

func (r *Router) reply(conn Conn, event string, data any) {
	if err := conn.Send(event, data); err != nil {
		r.logger.Warn("reply not delivered",
			"event", event,
			"connection_id", conn.ID().String(),
			"error", err,
		)
	}
}

func validateRequest(l Lifecycle, req LifecycleRequest) string {
	if req.Order == nil {
		return "order payload is required"
	}
	if req.Order.OrderNumber() == "" && req.Order.OrderID() == "" {
		return "order identifier is required"
	}
	if l.RequiresGroups && len(group.NormalizeAll(req.TeamTypes)) == 0 {
		return "teamTypes must name at least one known team"
	}
	return ""
}

func orderNumberOf(order any) string {
	if p, ok := order.(OrderPayload); ok && p != nil {
		if n := p.OrderNumber(); n != "" {
			return n
		}
		return p.OrderID()
	}
	return ""
}
