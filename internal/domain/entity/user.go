package entity

import (
	"slices"
	"time"
)

// Roles válidos para User.
const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
	RoleEmployee   = "employee"
)

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string // único en toda la plataforma
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Roles        []string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole indica si el usuario tiene el rol dado.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// IsTenantRole indica si el rol puede asignarse desde la administración de una empresa.
func IsTenantRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}
