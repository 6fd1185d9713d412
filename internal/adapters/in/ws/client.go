package ws

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"shopfloor/internal/adapters/metrics"
	"shopfloor/internal/core/application/realtime"
	"shopfloor/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
)

const (
	writeDeadline   = 5 * time.Second
	pingInterval    = 25 * time.Second
	pongDeadline    = 60 * time.Second
	sendQueueSize   = 64
	maxMessageBytes = 1 << 20
)

var errSlowClient = errors.New("send queue full")

// client is one WebSocket connection seen by the realtime core.
type client struct {
	id         kernel.UUID
	connection *websocket.Conn
	clock      clockwork.Clock
	metrics    *metrics.WebSocketMetrics
	logger     *slog.Logger

	sendChannel chan []byte
	doneChannel chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	alive       atomic.Bool
}

func newClient(
	connection *websocket.Conn,
	clock clockwork.Clock,
	m *metrics.WebSocketMetrics,
	logger *slog.Logger,
) *client {
	c := &client{
		id:          kernel.NewUUID(),
		connection:  connection,
		clock:       clock,
		metrics:     m,
		sendChannel: make(chan []byte, sendQueueSize),
		doneChannel: make(chan struct{}),
	}
	c.logger = logger.With("connection_id", c.id.String())
	c.alive.Store(true)
	c.connection.SetReadLimit(maxMessageBytes)
	c.configurePongHandler()
	c.wg.Add(1)
	go c.run()
	return c
}

func (c *client) ID() kernel.UUID {
	return c.id
}

// Alive turns false once a write, a ping or the pong deadline has failed.
func (c *client) Alive() bool {
	return c.alive.Load()
}

// Send queues an event without blocking. A full queue evicts the client.
func (c *client) Send(event string, data any) error {
	return c.sendFrame(event, data, nil)
}

func (c *client) sendFrame(event string, data any, ack *int64) error {
	if !c.Alive() {
		return realtime.ErrConnClosed
	}
	frame, err := encodeFrame(event, data, ack)
	if err != nil {
		return err
	}

	select {
	case <-c.doneChannel:
		return realtime.ErrConnClosed
	case c.sendChannel <- frame:
		return nil
	default:
		c.logger.Warn("evicting slow client", "event", event)
		c.metrics.SlowClientsEvicted.Inc()
		c.alive.Store(false)
		go c.stop()
		return errSlowClient
	}
}

// Close sends a close frame and releases the connection.
func (c *client) Close() {
	c.stopGraceful("connection closed")
}

func (c *client) run() {
	ticker := c.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.wg.Done()

	for {
		select {
		case msg := <-c.sendChannel:
			c.updateWriteDeadline()
			if err := c.connection.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("write failed", "error", err)
				c.alive.Store(false)
				return
			}
		case <-ticker.Chan():
			c.updateWriteDeadline()
			if err := c.connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("ping failed", "error", err)
				c.alive.Store(false)
				return
			}
		case <-c.doneChannel:
			return
		}
	}
}

func (c *client) stop() {
	c.stopOnce.Do(func() {
		c.alive.Store(false)
		close(c.doneChannel)
		_ = c.connection.Close()
	})
	c.wg.Wait()
}

// stopGraceful sends a close frame with reason before closing. The writer
// goroutine exits first so the close frame is never written concurrently.
func (c *client) stopGraceful(reason string) {
	c.stopOnce.Do(func() {
		c.alive.Store(false)
		close(c.doneChannel)
		c.wg.Wait()

		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		c.updateWriteDeadline()
		_ = c.connection.WriteMessage(websocket.CloseMessage, closeMsg)
		_ = c.connection.Close()
	})
}

func (c *client) configurePongHandler() {
	c.updateReadDeadline()
	c.connection.SetPongHandler(func(string) error {
		c.updateReadDeadline()
		return nil
	})
}

func (c *client) updateWriteDeadline() {
	_ = c.connection.SetWriteDeadline(c.clock.Now().Add(writeDeadline))
}

func (c *client) updateReadDeadline() {
	_ = c.connection.SetReadDeadline(c.clock.Now().Add(pongDeadline))
}
