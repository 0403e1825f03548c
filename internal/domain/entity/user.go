package entity

import "time"

// Roles válidos para User.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// User representa un miembro de un hogar.
type User struct {
	ID           string
	HouseholdID  string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // owner, member
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
