package services

import (
	"shopfloor/internal/core/domain/model/group"
	"shopfloor/internal/core/domain/model/order"
)

// SectionSource is anything that can tell which order sections hold items:
// the Order aggregate itself or an order document relayed by a client.
type SectionSource interface {
	HasItems(section order.Section) bool
}

// TargetResolver is a domain service that computes the broadcast groups of
// an order lifecycle event.
//
// Resolution rules, first match wins:
//   - Explicit groups, normalized, when at least one of them is recognized
//   - The team group of every section holding at least one item
//   - The unassigned group, so an event is never dropped without a trace
//
// The dispatchers group is not added here; the router always delivers to it.
//
// Example usage:
//
//	resolver := services.NewTargetResolver()
//	groups := resolver.Resolve(o, []string{"Box"}) // [boxes]
type TargetResolver struct{}

func NewTargetResolver() TargetResolver {
	return TargetResolver{}
}

// Resolve returns the target groups for src. src may be nil when only
// explicit groups are known.
func (TargetResolver) Resolve(src SectionSource, explicit []string) []group.Name {
	if named := group.NormalizeAll(explicit); len(named) > 0 {
		return named
	}

	var out []group.Name
	if src != nil {
		for _, section := range order.Sections() {
			if src.HasItems(section) {
				out = append(out, section.Group())
			}
		}
	}

	if len(out) == 0 {
		return []group.Name{group.Unassigned}
	}
	return out
}
