package order

import (
	"fmt"

	"shopfloor/internal/core/domain/model/group"
	"shopfloor/internal/pkg/errs"
)

// Section names one of the four order-detail sections.
type Section string

const (
	GlassSection Section = Section(group.Glass)
	CapsSection  Section = Section(group.Caps)
	BoxesSection Section = Section(group.Boxes)
	PumpsSection Section = Section(group.Pumps)
)

var sections = []Section{GlassSection, CapsSection, BoxesSection, PumpsSection}

// Sections returns every section in catalog order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// ParseSection accepts any spelling group.Normalize accepts for a team.
func ParseSection(raw string) (Section, error) {
	name, ok := group.Normalize(raw)
	if !ok || !name.IsTeam() {
		return "", errs.NewValueIsInvalidErrorWithCause("team_type", fmt.Errorf("%q is not a known section", raw))
	}
	return Section(name), nil
}

// SectionForGroup returns the section watched by a team group.
func SectionForGroup(name group.Name) (Section, bool) {
	if !name.IsTeam() {
		return "", false
	}
	return Section(name), true
}

// Group returns the team group that watches this section.
func (s Section) Group() group.Name {
	return group.Name(s)
}

func (s Section) String() string {
	return string(s)
}
