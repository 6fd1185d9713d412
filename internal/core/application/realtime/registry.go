package realtime

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"time"

	"shopfloor/internal/core/domain/model/group"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/session"
	"shopfloor/internal/pkg/errs"

	"github.com/jonboulle/clockwork"
)

// SessionView is a read-only copy of one session.
type SessionView struct {
	ConnectionID kernel.UUID
	Identity     session.Identity
	Groups       []group.Name
	Registered   bool
	Dispatcher   bool
	ConnectedAt  time.Time
	LastActive   time.Time

	// Team is the canonical team group when team or team type names one,
	// otherwise the declared team as given.
	Team string
}

// Change is the outcome of a registry mutation.
type Change struct {
	Session SessionView
	// Affected lists every group whose member set changed.
	Affected []group.Name
}

type registryEntry struct {
	session *session.Session
	conn    Conn
}

// Registry is the in-memory table of live sessions and the group membership
// relation derived from them. Connection id is the identity key; the external
// user id index is latest-wins and only used for lookups.
type Registry struct {
	mu      sync.Mutex
	entries map[kernel.UUID]*registryEntry
	byUser  map[string]kernel.UUID
	members map[group.Name]map[kernel.UUID]struct{}

	clock    clockwork.Clock
	observer Observer
	logger   *slog.Logger
}

// NewRegistry creates an empty registry. A nil observer is replaced by one
// that records nothing.
//
// Example:
//
//	registry := realtime.NewRegistry(clockwork.NewRealClock(), metrics.NewRealtimeMetrics(reg), logger)
//	change, err := registry.Connect(conn, session.Identity{Role: "dispatcher"})
func NewRegistry(clock clockwork.Clock, observer Observer, logger *slog.Logger) *Registry {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Registry{
		entries:  make(map[kernel.UUID]*registryEntry),
		byUser:   make(map[string]kernel.UUID),
		members:  make(map[group.Name]map[kernel.UUID]struct{}),
		clock:    clock,
		observer: observer,
		logger:   logger.With("component", "session-registry"),
	}
}

// Connect adds a session for a new connection. Non-empty claims register it
// right away; otherwise the session stays bare until Register.
func (r *Registry) Connect(conn Conn, claims session.Identity) (Change, error) {
	id := conn.ID()
	r.mu.Lock()
	if _, exists := r.entries[id]; exists {
		r.mu.Unlock()
		return Change{}, errs.NewObjectAlreadyExistsError("connection", id.String())
	}

	s, err := session.NewSession(id, r.clock.Now())
	if err != nil {
		r.mu.Unlock()
		return Change{}, err
	}
	e := &registryEntry{session: s, conn: conn}
	r.entries[id] = e

	var affected []group.Name
	if !claims.IsEmpty() {
		affected = r.registerLocked(e, claims)
	}
	change := Change{Session: viewOf(e.session), Affected: affected}
	total, sizes := r.sizesLocked()
	r.mu.Unlock()

	r.observer.SessionsChanged(total, sizes)
	r.logger.Debug("session connected",
		"connection_id", id.String(),
		"registered", change.Session.Registered,
	)
	return change, nil
}

// Register replaces the identity of a connected session and recomputes its
// memberships from scratch.
func (r *Registry) Register(connID kernel.UUID, identity session.Identity) (Change, error) {
	r.mu.Lock()
	e, ok := r.entries[connID]
	if !ok {
		r.mu.Unlock()
		return Change{}, errs.NewObjectNotFoundError("connection", connID.String())
	}
	affected := r.registerLocked(e, identity)
	change := Change{Session: viewOf(e.session), Affected: affected}
	total, sizes := r.sizesLocked()
	r.mu.Unlock()

	r.observer.SessionsChanged(total, sizes)
	r.logger.Info("session registered",
		"connection_id", connID.String(),
		"user_id", change.Session.Identity.ExternalUserID,
		"role", change.Session.Identity.Role,
		"groups", group.Strings(change.Session.Groups),
	)
	return change, nil
}

// Disconnect removes a session and all of its memberships. It reports false
// when the connection was not registered.
func (r *Registry) Disconnect(connID kernel.UUID) (Change, bool) {
	r.mu.Lock()
	e, ok := r.entries[connID]
	if !ok {
		r.mu.Unlock()
		return Change{}, false
	}
	change := r.removeLocked(connID, e)
	total, sizes := r.sizesLocked()
	r.mu.Unlock()

	r.observer.SessionsChanged(total, sizes)
	r.logger.Info("session disconnected",
		"connection_id", connID.String(),
		"user_id", change.Session.Identity.ExternalUserID,
	)
	return change, true
}

// SweepStale disconnects every session whose transport is no longer alive
// and closes those transports. It is idempotent and safe to run next to
// ordinary mutations.
func (r *Registry) SweepStale() []Change {
	r.mu.Lock()
	candidates := make([]*registryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		candidates = append(candidates, e)
	}
	r.mu.Unlock()

	var dead []*registryEntry
	for _, e := range candidates {
		if !e.conn.Alive() {
			dead = append(dead, e)
		}
	}
	if len(dead) == 0 {
		return nil
	}

	r.mu.Lock()
	changes := make([]Change, 0, len(dead))
	removed := make([]Conn, 0, len(dead))
	for _, e := range dead {
		id := e.session.ConnectionID()
		if current, ok := r.entries[id]; !ok || current != e {
			continue
		}
		changes = append(changes, r.removeLocked(id, e))
		removed = append(removed, e.conn)
	}
	total, sizes := r.sizesLocked()
	r.mu.Unlock()

	for _, conn := range removed {
		conn.Close()
	}
	if len(changes) > 0 {
		r.observer.SessionsChanged(total, sizes)
		r.observer.SweepEvicted(len(changes))
		r.logger.Info("stale sessions swept", "evicted", len(changes), "remaining", total)
	}
	return changes
}

// Touch records client activity on a connection.
func (r *Registry) Touch(connID kernel.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[connID]; ok {
		e.session.Touch(r.clock.Now())
	}
}

// Conn returns the connection registered under connID.
func (r *Registry) Conn(connID kernel.UUID) (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[connID]
	if !ok {
		return nil, false
	}
	return e.conn, true
}

// Session returns a copy of the session registered under connID.
func (r *Registry) Session(connID kernel.UUID) (SessionView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[connID]
	if !ok {
		return SessionView{}, false
	}
	return viewOf(e.session), true
}

// LookupUser returns the connection most recently registered with the
// external user id.
func (r *Registry) LookupUser(externalUserID string) (kernel.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byUser[externalUserID]
	return id, ok
}

// Members returns the connection ids currently in a group.
func (r *Registry) Members(name group.Name) []kernel.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]kernel.UUID, 0, len(r.members[name]))
	for id := range r.members[name] {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b kernel.UUID) int { return cmp.Compare(a.String(), b.String()) })
	return out
}

// Recipients returns the distinct connections in any of the groups, together
// with the member count of each group.
func (r *Registry) Recipients(names []group.Name) ([]Conn, map[group.Name]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[kernel.UUID]struct{})
	sizes := make(map[group.Name]int, len(names))
	var out []Conn
	for _, name := range names {
		sizes[name] = len(r.members[name])
		for id := range r.members[name] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, r.entries[id].conn)
		}
	}
	return out, sizes
}

// Sessions returns every session ordered by connection time, then id.
func (r *Registry) Sessions() []SessionView {
	r.mu.Lock()
	out := make([]SessionView, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, viewOf(e.session))
	}
	r.mu.Unlock()

	sortViews(out)
	return out
}

// Conns returns every live connection.
func (r *Registry) Conns() []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Conn, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.conn)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) registerLocked(e *registryEntry, identity session.Identity) []group.Name {
	id := e.session.ConnectionID()
	previous := e.session.Groups()
	for _, name := range previous {
		r.leaveLocked(name, id)
	}

	previousUser := e.session.ExternalUserID()
	e.session.Register(identity, r.clock.Now())
	currentUser := e.session.ExternalUserID()
	if previousUser != "" && previousUser != currentUser && r.byUser[previousUser] == id {
		delete(r.byUser, previousUser)
	}
	if currentUser != "" {
		r.byUser[currentUser] = id
	}

	current := e.session.Groups()
	for _, name := range current {
		set, ok := r.members[name]
		if !ok {
			set = make(map[kernel.UUID]struct{})
			r.members[name] = set
		}
		set[id] = struct{}{}
	}

	return union(previous, current)
}

func (r *Registry) removeLocked(id kernel.UUID, e *registryEntry) Change {
	view := viewOf(e.session)
	for _, name := range view.Groups {
		r.leaveLocked(name, id)
	}
	if user := view.Identity.ExternalUserID; user != "" && r.byUser[user] == id {
		delete(r.byUser, user)
	}
	delete(r.entries, id)
	return Change{Session: view, Affected: view.Groups}
}

func (r *Registry) leaveLocked(name group.Name, id kernel.UUID) {
	set := r.members[name]
	delete(set, id)
	if len(set) == 0 {
		delete(r.members, name)
	}
}

func (r *Registry) sizesLocked() (int, map[group.Name]int) {
	sizes := make(map[group.Name]int, len(r.members))
	for name, set := range r.members {
		sizes[name] = len(set)
	}
	return len(r.entries), sizes
}

func viewOf(s *session.Session) SessionView {
	identity := s.Identity()
	team := identity.Team
	if name, ok := s.Team(); ok {
		team = name.String()
	}
	return SessionView{
		ConnectionID: s.ConnectionID(),
		Identity:     identity,
		Groups:       s.Groups(),
		Registered:   s.IsRegistered(),
		Dispatcher:   s.IsDispatcher(),
		ConnectedAt:  s.ConnectedAt(),
		LastActive:   s.LastActive(),
		Team:         team,
	}
}

func sortViews(views []SessionView) {
	slices.SortFunc(views, func(a, b SessionView) int {
		if c := a.ConnectedAt.Compare(b.ConnectedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ConnectionID.String(), b.ConnectionID.String())
	})
}

func union(a, b []group.Name) []group.Name {
	out := slices.Clone(a)
	for _, name := range b {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
