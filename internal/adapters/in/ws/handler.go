package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"shopfloor/internal/adapters/in/orderdoc"
	"shopfloor/internal/adapters/metrics"
	"shopfloor/internal/core/application/realtime"
	"shopfloor/internal/core/domain/model/session"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	msgMalformedFrame = "malformed frame"
	msgRateLimited    = "rate limited"
	unknownEventLabel = "unknown"
)

// Config tunes the per-connection inbound limiter.
type Config struct {
	EventsPerSecond float64
	EventBurst      int
}

// Handler upgrades HTTP requests and runs the read pump of each connection.
type Handler struct {
	hub      *realtime.Hub
	clock    clockwork.Clock
	metrics  *metrics.WebSocketMetrics
	config   Config
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewHandler(
	hub *realtime.Hub,
	clock clockwork.Clock,
	m *metrics.WebSocketMetrics,
	config Config,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		hub:     hub,
		clock:   clock,
		metrics: m,
		config:  config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true // shop-floor terminals connect from any origin
			},
		},
		logger: logger.With("component", "ws"),
	}
}

// Serve is the echo handler for GET /ws. Query parameters userId, role, team
// and teamType register the connection on arrival.
func (h *Handler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	cl := newClient(conn, h.clock, h.metrics, h.logger)
	if err := h.hub.Open(cl, claimsFrom(c)); err != nil {
		h.logger.Error("failed to open session", "connection_id", cl.ID().String(), "error", err)
		cl.stopGraceful("session rejected")
		return nil
	}

	h.metrics.ActiveConnections.Inc()
	h.metrics.ConnectionsTotal.Inc()
	defer h.metrics.ActiveConnections.Dec()

	limiter := rate.NewLimiter(rate.Limit(h.config.EventsPerSecond), h.config.EventBurst)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		cl.updateReadDeadline()
		h.handleFrame(cl, limiter, msg)
	}

	h.hub.Close(cl.ID())
	cl.stop()
	return nil
}

func claimsFrom(c echo.Context) session.Identity {
	claims := session.Identity{
		ExternalUserID: c.QueryParam("userId"),
		Role:           c.QueryParam("role"),
		Team:           c.QueryParam("team"),
		TeamType:       c.QueryParam("teamType"),
	}
	if strings.TrimSpace(claims.Role) == "" && strings.TrimSpace(claims.Team) == "" &&
		strings.TrimSpace(claims.TeamType) == "" {
		return session.Identity{}
	}
	return claims
}

// handleFrame processes one frame. A panic is contained to the frame.
func (h *Handler) handleFrame(cl *client, limiter *rate.Limiter, msg []byte) {
	var frame inbound
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("event handler panicked",
				"connection_id", cl.ID().String(),
				"event", frame.Event,
				"panic", fmt.Sprint(r),
			)
			h.fail(cl, frame, "internal error")
		}
	}()

	if err := json.Unmarshal(msg, &frame); err != nil || frame.Event == "" {
		h.fail(cl, frame, msgMalformedFrame)
		return
	}

	if !limiter.Allow() {
		h.metrics.RateLimited.Inc()
		h.logger.Warn("inbound event rate limited", "connection_id", cl.ID().String(), "event", frame.Event)
		h.fail(cl, frame, msgRateLimited)
		return
	}

	h.dispatch(cl, frame)
}

func (h *Handler) dispatch(cl *client, frame inbound) {
	switch frame.Event {
	case realtime.EventRegister:
		h.metrics.InboundEvents.WithLabelValues(frame.Event).Inc()
		h.register(cl, frame)
	case realtime.EventPing:
		h.metrics.InboundEvents.WithLabelValues(frame.Event).Inc()
		h.hub.Touch(cl.ID())
		h.reply(cl, frame.Ack, pingReply{Time: h.clock.Now()})
	default:
		l, ok := realtime.LifecycleFor(frame.Event)
		if !ok {
			h.metrics.InboundEvents.WithLabelValues(unknownEventLabel).Inc()
			h.fail(cl, frame, fmt.Sprintf("unknown event %q", frame.Event))
			return
		}
		h.metrics.InboundEvents.WithLabelValues(frame.Event).Inc()
		h.relay(cl, l, frame)
	}
}

func (h *Handler) register(cl *client, frame inbound) {
	var data registerData
	if err := decodeData(frame.Data, &data); err != nil {
		h.fail(cl, frame, "register payload is malformed")
		return
	}
	if err := h.hub.Register(cl.ID(), data.identity()); err != nil {
		h.logger.Warn("register failed", "connection_id", cl.ID().String(), "error", err)
		h.fail(cl, frame, "registration failed")
		return
	}
	h.reply(cl, frame.Ack, ackStatus{Status: "ok"})
}

// relay hands a lifecycle event to the router. Payload problems are left to
// the router, which answers them with the lifecycle's error event.
func (h *Handler) relay(cl *client, l realtime.Lifecycle, frame inbound) {
	var data lifecycleData
	req := realtime.LifecycleRequest{}
	if err := decodeData(frame.Data, &data); err == nil {
		req.TeamTypes = data.targets()
		if ts, ok := data.timestamp(); ok {
			req.Timestamp = ts
		} else if hasValue(data.Timestamp) {
			h.logger.Debug("client timestamp ignored", "event", frame.Event, "timestamp", string(data.Timestamp))
		}
		if hasValue(data.Order) {
			if payload, decodeErr := orderdoc.DecodePayload(data.Order); decodeErr == nil {
				req.Order = payload
			}
		}
	}

	h.hub.Relay(cl.ID(), l, req)
	if frame.Ack != nil {
		h.reply(cl, frame.Ack, ackStatus{Status: "ok"})
	}
}

// fail answers a frame that could not be processed: through its ack when it
// has one, with an error event otherwise.
func (h *Handler) fail(cl *client, frame inbound, message string) {
	if frame.Ack != nil {
		h.reply(cl, frame.Ack, ackStatus{Status: "error", Message: message})
		return
	}
	payload := realtime.ErrorPayload{Message: message, Event: frame.Event}
	if err := cl.Send(realtime.EventError, payload); err != nil {
		h.logger.Debug("error event not delivered", "connection_id", cl.ID().String(), "error", err)
	}
}

func (h *Handler) reply(cl *client, ack *int64, data any) {
	if err := cl.sendFrame(realtime.EventAck, data, ack); err != nil {
		h.logger.Debug("ack not delivered", "connection_id", cl.ID().String(), "error", err)
	}
}

func decodeData(raw json.RawMessage, v any) error {
	if !hasValue(raw) {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func hasValue(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null"
}
