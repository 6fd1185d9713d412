package group_test

import (
	"testing"

	"shopfloor/internal/core/domain/model/group"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw    string
		want   group.Name
		wantOK bool
	}{
		{raw: "glass", want: group.Glass, wantOK: true},
		{raw: "Glass ", want: group.Glass, wantOK: true},
		{raw: "  CAPS", want: group.Caps, wantOK: true},
		{raw: "cap", want: group.Caps, wantOK: true},
		{raw: "box", want: group.Boxes, wantOK: true},
		{raw: "Boxes", want: group.Boxes, wantOK: true},
		{raw: "pump", want: group.Pumps, wantOK: true},
		{raw: "Dispatcher", want: group.Dispatchers, wantOK: true},
		{raw: "unassigned", want: group.Unassigned, wantOK: true},
		{raw: "labels", wantOK: false},
		{raw: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := group.Normalize(tt.raw)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	got := group.NormalizeAll([]string{"box", "Boxes", "glass", "paint", " pumps"})

	assert.Equal(t, []group.Name{group.Boxes, group.Glass, group.Pumps}, got)
}

func TestName_IsTeam(t *testing.T) {
	for _, team := range group.Teams() {
		assert.True(t, team.IsTeam(), team)
	}
	assert.False(t, group.Dispatchers.IsTeam())
	assert.False(t, group.Unassigned.IsTeam())
}

func TestTeams_ReturnsCopy(t *testing.T) {
	teams := group.Teams()
	teams[0] = group.Unassigned

	assert.Equal(t, group.Glass, group.Teams()[0])
}
