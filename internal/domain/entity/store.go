package entity

import "time"

// Store representa un comercio donde el hogar compra.
type Store struct {
	ID          string
	HouseholdID string
	Name        string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
