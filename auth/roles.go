// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import "strings"

// Role is the capability set a guest identity maps to
type Role int

const (
	RoleGuest Role = iota
	RoleBoardAdmin
)

// Guest is a resolved guest identity.
type Guest struct {
	Name string
	Role Role
}

func (g Guest) IsBoardAdmin() bool {
	return g.Role == RoleBoardAdmin
}

// Roles maps guest display names to roles. The reserved super admin name is
// compared once here instead of at every call site.
type Roles struct {
	superAdminKey string
}

func NewRoles(superAdminName string) Roles {
	return Roles{superAdminKey: nameKey(superAdminName)}
}

// Resolve trims and collapses the name and assigns its role
func (r Roles) Resolve(name string) Guest {
	name = strings.Join(strings.Fields(name), " ")
	role := RoleGuest
	if r.superAdminKey != "" && nameKey(name) == r.superAdminKey {
		role = RoleBoardAdmin
	}
	return Guest{Name: name, Role: role}
}

// IsReserved reports whether name belongs to the super admin
func (r Roles) IsReserved(name string) bool {
	return r.Resolve(name).IsBoardAdmin()
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
