// Package session models one live real-time connection and the identity its
// client declared. Group membership is derived from that identity and never
// stored on its own.
package session

import (
	"errors"
	"slices"
	"strings"
	"time"

	"shopfloor/internal/core/domain/model/group"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/pkg/guard"
)

// ErrSessionIsNotConstructed is returned for a Session that did not come from NewSession.
var ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession constructor")

// privilegedRoles are the roles that join the dispatchers group.
var privilegedRoles = []string{"admin", "dispatcher"}

// Identity is the caller-supplied claim set. Nothing in it is verified.
type Identity struct {
	ExternalUserID string
	Role           string
	Team           string
	TeamType       string
}

// Normalize trims every field and lower-cases role, team and team type.
func (i Identity) Normalize() Identity {
	return Identity{
		ExternalUserID: strings.TrimSpace(i.ExternalUserID),
		Role:           strings.ToLower(strings.TrimSpace(i.Role)),
		Team:           strings.ToLower(strings.TrimSpace(i.Team)),
		TeamType:       strings.ToLower(strings.TrimSpace(i.TeamType)),
	}
}

// IsEmpty reports whether the identity carries no claims at all.
func (i Identity) IsEmpty() bool {
	n := i.Normalize()
	return n.ExternalUserID == "" && n.Role == "" && n.Team == "" && n.TeamType == ""
}

// Session is the server-side record of one connection.
//
// A Session is bare until its first registration; a bare session belongs to
// no group. Registering again replaces the identity wholesale.
type Session struct {
	connectionID kernel.UUID
	identity     Identity
	registered   bool
	connectedAt  time.Time
	lastActive   time.Time

	guard guard.ConstructorGuard
}

// NewSession creates a bare session for a freshly opened connection.
func NewSession(connectionID kernel.UUID, connectedAt time.Time) (*Session, error) {
	if err := connectionID.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		connectionID: connectionID,
		connectedAt:  connectedAt,
		lastActive:   connectedAt,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (s *Session) Validate() error {
	if s == nil {
		return ErrSessionIsNotConstructed
	}
	return s.guard.Validate(ErrSessionIsNotConstructed)
}

func (s *Session) ConnectionID() kernel.UUID {
	return s.connectionID
}

// Identity returns the normalized identity of the last registration.
func (s *Session) Identity() Identity {
	return s.identity
}

func (s *Session) ExternalUserID() string {
	return s.identity.ExternalUserID
}

func (s *Session) IsRegistered() bool {
	return s.registered
}

func (s *Session) ConnectedAt() time.Time {
	return s.connectedAt
}

func (s *Session) LastActive() time.Time {
	return s.lastActive
}

// Register replaces the session's identity. The previous identity, and with
// it every membership it implied, is discarded.
func (s *Session) Register(identity Identity, at time.Time) {
	s.identity = identity.Normalize()
	s.registered = true
	s.lastActive = at
}

// Touch records client activity.
func (s *Session) Touch(at time.Time) {
	if at.After(s.lastActive) {
		s.lastActive = at
	}
}

// IsDispatcher reports whether the role is admin or dispatcher.
func (s *Session) IsDispatcher() bool {
	return slices.Contains(privilegedRoles, s.identity.Role)
}

// Team returns the team group the session watches, preferring team over team
// type, and false when neither names a production team.
func (s *Session) Team() (group.Name, bool) {
	for _, raw := range []string{s.identity.Team, s.identity.TeamType} {
		if name, ok := group.Normalize(raw); ok && name.IsTeam() {
			return name, true
		}
	}
	return "", false
}

// Groups derives the session's memberships from scratch:
// dispatchers for privileged roles, plus every production team named by team
// or team type.
func (s *Session) Groups() []group.Name {
	if !s.registered {
		return nil
	}
	var out []group.Name
	if s.IsDispatcher() {
		out = append(out, group.Dispatchers)
	}
	for _, name := range group.NormalizeAll([]string{s.identity.Team, s.identity.TeamType}) {
		if name.IsTeam() && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
