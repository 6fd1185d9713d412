// Package group is the catalog of broadcast groups: the dispatcher role class,
// the four production teams and the unassigned sentinel.
//
// Team group names double as the names of the order-detail sections, so an
// order's glass section is watched by the glass group.
package group

import (
	"slices"
	"strings"
)

// Name identifies a broadcast group.
type Name string

const (
	Dispatchers Name = "dispatchers"
	Glass       Name = "glass"
	Caps        Name = "caps"
	Boxes       Name = "boxes"
	Pumps       Name = "pumps"

	// Unassigned receives events whose target groups could not be resolved.
	Unassigned Name = "unassigned"
)

var teams = []Name{Glass, Caps, Boxes, Pumps}

var aliases = map[string]Name{
	"dispatchers": Dispatchers,
	"dispatcher":  Dispatchers,
	"glass":       Glass,
	"caps":        Caps,
	"cap":         Caps,
	"boxes":       Boxes,
	"box":         Boxes,
	"pumps":       Pumps,
	"pump":        Pumps,
	"unassigned":  Unassigned,
}

// Teams returns the production team groups in catalog order.
func Teams() []Name {
	return slices.Clone(teams)
}

// Normalize maps a caller-supplied group or team name onto its catalog entry.
// Matching ignores case and surrounding whitespace and accepts singular forms.
func Normalize(raw string) (Name, bool) {
	name, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]
	return name, ok
}

// NormalizeAll normalizes every entry, dropping unknown names and duplicates
// while keeping first-seen order.
func NormalizeAll(raw []string) []Name {
	out := make([]Name, 0, len(raw))
	for _, r := range raw {
		name, ok := Normalize(r)
		if !ok || slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// IsTeam reports whether n is one of the production team groups.
func (n Name) IsTeam() bool {
	return slices.Contains(teams, n)
}

func (n Name) String() string {
	return string(n)
}

// Strings converts names to plain strings for wire payloads.
func Strings(names []Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
