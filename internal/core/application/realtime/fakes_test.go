package realtime_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"shopfloor/internal/core/application/realtime"
	"shopfloor/internal/core/domain/model/group"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/core/domain/services"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

type sentEvent struct {
	Event string
	Data  any
}

type fakeConn struct {
	id kernel.UUID

	mu     sync.Mutex
	events []sentEvent
	alive  bool
	closed bool
	fail   error
}

func newFakeConn() *fakeConn {
	return &fakeConn{id: kernel.NewUUID(), alive: true}
}

func (c *fakeConn) ID() kernel.UUID { return c.id }

func (c *fakeConn) Send(event string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.events = append(c.events, sentEvent{Event: event, Data: data})
	return nil
}

func (c *fakeConn) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.alive = false
}

func (c *fakeConn) kill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alive = false
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// received returns the payloads sent under event, in order.
func (c *fakeConn) received(event string) []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []any
	for _, e := range c.events {
		if e.Event == event {
			out = append(out, e.Data)
		}
	}
	return out
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

// fakeOrder is a minimal order document.
type fakeOrder struct {
	Number   string                     `json:"order_number,omitempty"`
	ID       string                     `json:"_id,omitempty"`
	Sections map[order.Section][]string `json:"order_details"`
}

func (o *fakeOrder) HasItems(s order.Section) bool { return len(o.Sections[s]) > 0 }
func (o *fakeOrder) OrderNumber() string            { return o.Number }
func (o *fakeOrder) OrderID() string                { return o.ID }

type countingObserver struct {
	mu         sync.Mutex
	total      int
	sizes      map[group.Name]int
	broadcasts map[string]int
	evicted    int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{broadcasts: map[string]int{}}
}

func (o *countingObserver) SessionsChanged(total int, sizes map[group.Name]int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.total = total
	o.sizes = sizes
}

func (o *countingObserver) Broadcast(event string, recipients int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.broadcasts[event] += recipients
}

func (o *countingObserver) SweepEvicted(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evicted += n
}

type fixture struct {
	clock    *clockwork.FakeClock
	observer *countingObserver
	registry *realtime.Registry
	router   *realtime.Router
	presence *realtime.Presence
	hub      *realtime.Hub
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := clockwork.NewFakeClockAt(epoch)
	observer := newCountingObserver()
	registry := realtime.NewRegistry(clock, observer, logger)
	router := realtime.NewRouter(registry, services.NewTargetResolver(), clock, observer, logger)
	presence := realtime.NewPresence(registry, clock, logger)
	return &fixture{
		clock:    clock,
		observer: observer,
		registry: registry,
		router:   router,
		presence: presence,
		hub:      realtime.NewHub(registry, router, presence, clock, logger),
	}
}

// asJSON round-trips a payload the way a transport would serialize it.
func asJSON(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}
