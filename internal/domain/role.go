package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. Immutable after signup.
type Role string

const (
	RoleStudent      Role = "student"
	RoleProfessional Role = "professional"
	RoleCompany      Role = "company"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleProfessional:
		return RoleProfessional, nil
	case RoleCompany:
		return RoleCompany, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessional, RoleCompany:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }
