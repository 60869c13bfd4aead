package enums

import "fmt"

// UserRole distinguishes storefront shoppers from seller-dashboard users.
type UserRole string

const (
	UserRoleShopper UserRole = "shopper"
	UserRoleSeller  UserRole = "seller"
)

var validUserRoles = []UserRole{
	UserRoleShopper,
	UserRoleSeller,
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

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
