package entity

import "time"

// Household representa un hogar (tenant). Todos los registros de la despensa le pertenecen.
type Household struct {
	ID        string
	Name      string
	Currency  string // ISO 4217, ej. COP, USD
	CreatedAt time.Time
	UpdatedAt time.Time
}
