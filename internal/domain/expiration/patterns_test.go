package expiration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
	"github.com/jhoicas/despensa-api/internal/domain/expiration"
)

func TestLookup_PalabraClaveGanaSobreCategoria(t *testing.T) {
	days, ok := expiration.Lookup("dry goods", "Leche entera", entity.LocationFridge)
	require.True(t, ok)
	assert.Equal(t, 7, days)
}

func TestLookup_IgnoraTildesYMayusculas(t *testing.T) {
	days, ok := expiration.Lookup("", "AZÚCAR morena", entity.LocationPantry)
	require.True(t, ok)
	assert.Equal(t, 365, days)
}

func TestLookup_NoCoincideDentroDePalabra(t *testing.T) {
	_, ok := expiration.Lookup("", "Empanada", entity.LocationPantry)
	assert.False(t, ok)
}

func TestLookup_PorCategoria(t *testing.T) {
	days, ok := expiration.Lookup("Poultry", "Muslos", entity.LocationFreezer)
	require.True(t, ok)
	assert.Equal(t, 270, days)
}

func TestLookup_NoAplicaEnUbicacion(t *testing.T) {
	_, ok := expiration.Lookup("", "Leche", entity.LocationPantry)
	assert.False(t, ok, "la leche fresca no tiene vida útil en despensa")
}

func TestEstimateExpiry_OverrideDelProducto(t *testing.T) {
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	days := 10
	p := &entity.Product{Name: "Leche", ShelfLifeDays: &days}

	got := expiration.EstimateExpiry(p, entity.LocationFridge, from)
	require.NotNil(t, got)
	assert.Equal(t, from.AddDate(0, 0, 10), *got)

	frozen := expiration.EstimateExpiry(p, entity.LocationFreezer, from)
	require.NotNil(t, frozen)
	assert.Equal(t, from.AddDate(0, 0, 60), *frozen)
}

func TestEstimateExpiry_Desconocido(t *testing.T) {
	p := &entity.Product{Name: "Pilas AA", Category: "hogar"}
	assert.Nil(t, expiration.EstimateExpiry(p, entity.LocationPantry, time.Now()))
	assert.Nil(t, expiration.EstimateExpiry(nil, entity.LocationPantry, time.Now()))
}

func TestLookup_PluralYSalsaNoEsSal(t *testing.T) {
	days, ok := expiration.Lookup("", "Huevos AA", entity.LocationFridge)
	require.True(t, ok)
	assert.Equal(t, 35, days)

	days, ok = expiration.Lookup("", "Salsa de tomate", entity.LocationFridge)
	require.True(t, ok)
	assert.Equal(t, 180, days)
}
