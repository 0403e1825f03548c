package dto

import "time"

// RegisterHouseholdRequest alta de un hogar con su usuario propietario.
type RegisterHouseholdRequest struct {
	HouseholdName string `json:"household_name" validate:"required,min=1,max=120"`
	Currency      string `json:"currency" validate:"omitempty,len=3"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	Name          string `json:"name" validate:"omitempty,max=200"`
}

// RegisterMemberRequest alta de un miembro en el hogar del propietario autenticado.
type RegisterMemberRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=owner member"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"household_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// HouseholdResponse salida de un hogar.
type HouseholdResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateHouseholdRequest cambio de nombre o moneda del hogar.
type UpdateHouseholdRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	Currency *string `json:"currency" validate:"omitempty,len=3"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string            `json:"token"`
	User      UserResponse      `json:"user"`
	Household HouseholdResponse `json:"household"`
}
