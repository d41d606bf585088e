package authroles

import (
	"strings"

	domainauth "github.com/target/refund-ui/internal/domain/auth"
)

// StaticRoleMapper maps provider groups onto refund roles.
// Manager wins when a user belongs to both groups. Matching is case-insensitive.
type StaticRoleMapper struct {
	ManagerGroup  string
	EmployeeGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	if hasGroup(groups, m.ManagerGroup) {
		return domainauth.RoleManager
	}
	if hasGroup(groups, m.EmployeeGroup) {
		return domainauth.RoleEmployee
	}
	return domainauth.RoleGuest
}

func hasGroup(groups []string, want string) bool {
	if want == "" {
		return false
	}
	for _, g := range groups {
		if strings.EqualFold(strings.TrimSpace(g), want) {
			return true
		}
	}
	return false
}
