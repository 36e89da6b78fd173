package generation

import (
	"testing"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
)

var testRoster = []domain.Role{
	{ID: "r-dev", Name: "Software Developer"},
	{ID: "r-pm", Name: "Project Manager"},
	{ID: "Project Manager", Name: "Decoy"},
}

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name   string
		ref    RoleRef
		wantID string
		found  bool
	}{
		{"by id", RoleRef{RoleID: "r-dev"}, "r-dev", true},
		{"by name when id absent", RoleRef{RoleName: "Project Manager"}, "r-pm", true},
		{"id wins over name", RoleRef{RoleID: "r-dev", RoleName: "Project Manager"}, "r-dev", true},
		{"unknown id falls through to name", RoleRef{RoleID: "ghost", RoleName: "Software Developer"}, "r-dev", true},
		{"id match is exact", RoleRef{RoleID: "R-DEV"}, "", false},
		{"no partial name match", RoleRef{RoleName: "Developer"}, "", false},
		{"empty reference", RoleRef{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveRole(tt.ref, testRoster)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolveRole_EmptyRoster(t *testing.T) {
	_, ok := ResolveRole(RoleRef{RoleID: "r-dev", RoleName: "Software Developer"}, nil)
	assert.False(t, ok)
}
