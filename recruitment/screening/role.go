package screening

import "strings"

type Role string

const (
	RoleAccountant       Role = "Accountant"
	RoleChemicalEngineer Role = "Chemical Engineer"
)

const maxRoleLength = 100

func (r Role) String() string { return string(r) }

// ParseRoles trims and dedupes the selection, keeping the order given.
// Roles without rules are accepted and score 0%.
func ParseRoles(raw []string) ([]Role, error) {
	seen := make(map[Role]struct{}, len(raw))
	roles := make([]Role, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if len(r) > maxRoleLength {
			return nil, ErrInvalidRole().WithDetail("role", r[:maxRoleLength])
		}
		role := Role(r)
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		return nil, ErrNoRolesSelected()
	}
	return roles, nil
}

func RoleStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
