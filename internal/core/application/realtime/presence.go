package realtime

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"shopfloor/internal/core/domain/model/group"

	"github.com/jonboulle/clockwork"
)

// PresenceSnapshot is the connected-users view of every group.
type PresenceSnapshot struct {
	Dispatchers    []Member
	Teams          map[group.Name][]Member
	AllTeamMembers []Member
	Timestamp      time.Time
}

// Presence publishes connected-users. Dispatchers receive the full cross-team
// view; each team group receives its own members plus the dispatchers.
type Presence struct {
	registry *Registry
	clock    clockwork.Clock
	logger   *slog.Logger

	// publishMu orders publications: a snapshot is delivered before any
	// snapshot taken after it.
	publishMu sync.Mutex
}

// NewPresence creates a publisher reading member lists from registry.
func NewPresence(registry *Registry, clock clockwork.Clock, logger *slog.Logger) *Presence {
	return &Presence{
		registry: registry,
		clock:    clock,
		logger:   logger.With("component", "presence"),
	}
}

// Snapshot builds the per-group member lists from the registry.
func (p *Presence) Snapshot() PresenceSnapshot {
	snap := PresenceSnapshot{
		Dispatchers:    []Member{},
		Teams:          make(map[group.Name][]Member),
		AllTeamMembers: []Member{},
		Timestamp:      p.clock.Now(),
	}
	for _, team := range group.Teams() {
		snap.Teams[team] = []Member{}
	}

	for _, view := range p.registry.Sessions() {
		m := Member{
			UserID:     view.Identity.ExternalUserID,
			Team:       view.Team,
			Connected:  true,
			LastActive: view.LastActive,
		}
		inTeam := false
		for _, name := range view.Groups {
			switch {
			case name == group.Dispatchers:
				snap.Dispatchers = append(snap.Dispatchers, m)
			case name.IsTeam():
				snap.Teams[name] = append(snap.Teams[name], m)
				inTeam = true
			}
		}
		if inTeam {
			snap.AllTeamMembers = append(snap.AllTeamMembers, m)
		}
	}
	return snap
}

// Publish sends connected-users to the groups that can observe a change in
// affected. Dispatchers always receive it; a dispatcher change reaches every
// team because teams see the dispatcher list.
func (p *Presence) Publish(affected []group.Name) {
	p.publishMu.Lock()
	defer p.publishMu.Unlock()

	snap := p.Snapshot()

	targets := []group.Name{group.Dispatchers}
	if slices.Contains(affected, group.Dispatchers) {
		targets = append(targets, group.Teams()...)
	} else {
		for _, name := range affected {
			if name.IsTeam() && !slices.Contains(targets, name) {
				targets = append(targets, name)
			}
		}
	}

	for _, name := range targets {
		conns, _ := p.registry.Recipients([]group.Name{name})
		if len(conns) == 0 {
			continue
		}
		payload := p.payloadFor(name, snap)
		for _, conn := range conns {
			if err := conn.Send(EventConnectedUsers, payload); err != nil {
				p.logger.Debug("presence not delivered",
					"connection_id", conn.ID().String(),
					"group", name.String(),
					"error", err,
				)
			}
		}
	}
}

func (p *Presence) payloadFor(name group.Name, snap PresenceSnapshot) PresencePayload {
	payload := PresencePayload{
		Group:       name.String(),
		Dispatchers: snap.Dispatchers,
		Teams:       make(map[string][]Member),
		Timestamp:   snap.Timestamp,
	}
	if name == group.Dispatchers {
		for team, members := range snap.Teams {
			payload.Teams[team.String()] = members
		}
		payload.AllTeamMembers = snap.AllTeamMembers
		return payload
	}
	payload.Teams[name.String()] = snap.Teams[name]
	return payload
}
