package realtime

import (
	"log/slog"

	"shopfloor/internal/core/domain/model/group"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/session"

	"github.com/jonboulle/clockwork"
)

// Hub is the entry point transports and the HTTP API use. It applies
// registry mutations and publishes presence after each of them.
type Hub struct {
	registry *Registry
	router   *Router
	presence *Presence
	clock    clockwork.Clock
	logger   *slog.Logger
}

// NewHub ties the registry, router and presence publisher together. The
// three parts must share the same registry.
//
// Example:
//
//	registry := realtime.NewRegistry(clock, observer, logger)
//	router := realtime.NewRouter(registry, services.NewTargetResolver(), clock, observer, logger)
//	presence := realtime.NewPresence(registry, clock, logger)
//	hub := realtime.NewHub(registry, router, presence, clock, logger)
func NewHub(registry *Registry, router *Router, presence *Presence, clock clockwork.Clock, logger *slog.Logger) *Hub {
	return &Hub{
		registry: registry,
		router:   router,
		presence: presence,
		clock:    clock,
		logger:   logger.With("component", "hub"),
	}
}

// Open admits a new connection. Claims given at connection time register the
// session immediately.
func (h *Hub) Open(conn Conn, claims session.Identity) error {
	change, err := h.registry.Connect(conn, claims)
	if err != nil {
		return err
	}
	if change.Session.Registered {
		h.sendRegistered(conn, change.Session)
		h.presence.Publish(change.Affected)
	}
	return nil
}

// Register applies a register event.
func (h *Hub) Register(connID kernel.UUID, identity session.Identity) error {
	change, err := h.registry.Register(connID, identity)
	if err != nil {
		return err
	}
	if conn, ok := h.registry.Conn(connID); ok {
		h.sendRegistered(conn, change.Session)
	}
	h.presence.Publish(change.Affected)
	return nil
}

// Close forgets a connection after the transport went away.
func (h *Hub) Close(connID kernel.UUID) {
	change, ok := h.registry.Disconnect(connID)
	if !ok {
		return
	}
	h.presence.Publish(change.Affected)
}

// Sweep evicts dead connections and returns how many were removed. Presence
// is republished to every group on each sweep, evictions or not, so clients
// see lastActive move even when nobody joins or leaves.
func (h *Hub) Sweep() int {
	changes := h.registry.SweepStale()
	h.presence.Publish([]group.Name{group.Dispatchers})
	return len(changes)
}

// Touch records activity on a connection.
func (h *Hub) Touch(connID kernel.UUID) {
	h.registry.Touch(connID)
}

// Relay handles an order lifecycle event sent by a client.
func (h *Hub) Relay(origin kernel.UUID, l Lifecycle, req LifecycleRequest) {
	h.registry.Touch(origin)
	h.router.Relay(origin, l, req)
}

// Announce broadcasts a lifecycle event produced by the server itself, such
// as a change persisted through the HTTP API.
func (h *Hub) Announce(l Lifecycle, order OrderPayload, explicit []string, senderID, senderRole string) int {
	targets := h.router.resolver.Resolve(order, explicit)
	return h.router.Broadcast(l.Broadcast, order, targets, Meta{
		SenderID:   senderID,
		SenderRole: senderRole,
		TeamTypes:  group.Strings(targets),
		Timestamp:  h.clock.Now(),
		Source:     SourceServer,
	})
}

// Presence returns the current presence snapshot.
func (h *Hub) Presence() PresenceSnapshot {
	return h.presence.Snapshot()
}

// CloseAll closes every connection and empties the registry.
func (h *Hub) CloseAll() {
	conns := h.registry.Conns()
	for _, conn := range conns {
		conn.Close()
	}
	for _, conn := range conns {
		h.registry.Disconnect(conn.ID())
	}
	h.logger.Info("all connections closed", "count", len(conns))
}

func (h *Hub) sendRegistered(conn Conn, view SessionView) {
	payload := Registered{
		ConnectionID: view.ConnectionID.String(),
		UserID:       view.Identity.ExternalUserID,
		Role:         view.Identity.Role,
		Team:         view.Identity.Team,
		TeamType:     view.Identity.TeamType,
		Groups:       group.Strings(view.Groups),
		Timestamp:    h.clock.Now(),
	}
	if err := conn.Send(EventRegistered, payload); err != nil {
		h.logger.Warn("registration reply not delivered",
			"connection_id", view.ConnectionID.String(),
			"error", err,
		)
	}
}
