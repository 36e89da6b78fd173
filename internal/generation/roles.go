package generation

import "github.com/CityFriends/truebid-calculator-sub000/internal/domain"

// RoleRef is a proposed reference to a roster role. Either field may be empty.
type RoleRef struct {
	RoleID   string
	RoleName string
}

// ResolveRole matches ref against the roster by exact id, then by exact
// name. There is no partial matching: an unknown reference is rejected.
func ResolveRole(ref RoleRef, roster []domain.Role) (domain.Role, bool) {
	if ref.RoleID != "" {
		for _, r := range roster {
			if r.ID == ref.RoleID {
				return r, true
			}
		}
	}
	if ref.RoleName != "" {
		for _, r := range roster {
			if r.Name == ref.RoleName {
				return r, true
			}
		}
	}
	return domain.Role{}, false
}
