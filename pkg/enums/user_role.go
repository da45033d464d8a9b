package enums

import "fmt"

// UserRole identifies what kind of tenant an account represents.
type UserRole string

const (
	UserRoleBusiness   UserRole = "business"
	UserRoleAccountant UserRole = "accountant"
	UserRoleAdmin      UserRole = "admin"
)

var validUserRoles = []UserRole{
	UserRoleBusiness,
	UserRoleAccountant,
	UserRoleAdmin,
}

// publicIDPrefixes maps each role to the prefix used when minting routable ids.
var publicIDPrefixes = map[UserRole]string{
	UserRoleBusiness:   "BIZ",
	UserRoleAccountant: "ACC",
	UserRoleAdmin:      "ADM",
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// PublicIDPrefix returns the human-readable prefix minted into public ids for the role.
func (r UserRole) PublicIDPrefix() string {
	if prefix, ok := publicIDPrefixes[r]; ok {
		return prefix
	}
	return "USR"
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
