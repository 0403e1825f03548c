package entity

import "time"

// Tipos de ubicación de almacenamiento.
const (
	LocationPantry  = "pantry"
	LocationFridge  = "fridge"
	LocationFreezer = "freezer"
	LocationOther   = "other"
)

// StorageLocation representa un lugar físico de la casa donde se guardan productos.
type StorageLocation struct {
	ID          string
	HouseholdID string
	Name        string
	Kind        string // pantry, fridge, freezer, other
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsValidLocationKind indica si kind es uno de los tipos soportados.
func IsValidLocationKind(kind string) bool {
	switch kind {
	case LocationPantry, LocationFridge, LocationFreezer, LocationOther:
		return true
	}
	return false
}
