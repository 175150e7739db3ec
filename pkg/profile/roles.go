package profile

import "github.com/dmitrymomot/sprayshop/pkg/authstate"

// CountByRole tallies profiles by normalized role. Both known roles are
// always present in the result.
func CountByRole(list []authstate.Profile) map[authstate.Role]int {
	counts := map[authstate.Role]int{
		authstate.RoleClient:        0,
		authstate.RoleAdministrator: 0,
	}
	for _, p := range list {
		counts[authstate.NormalizeRole(p.Role)]++
	}
	return counts
}
