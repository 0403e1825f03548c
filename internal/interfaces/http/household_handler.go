package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/usecase"
)

// HouseholdHandler datos del hogar autenticado, sus tiendas y ubicaciones.
type HouseholdHandler struct {
	households *usecase.HouseholdUseCase
	users      *usecase.UserUseCase
	stores     *usecase.StoreUseCase
	locations  *usecase.LocationUseCase
}

// NewHouseholdHandler construye el handler.
func NewHouseholdHandler(
	households *usecase.HouseholdUseCase,
	users *usecase.UserUseCase,
	stores *usecase.StoreUseCase,
	locations *usecase.LocationUseCase,
) *HouseholdHandler {
	return &HouseholdHandler{households: households, users: users, stores: stores, locations: locations}
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         household
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Router       /api/me [get]
func (h *HouseholdHandler) Me(c *fiber.Ctx) error {
	householdID, userID, err := session(c)
	if err != nil {
		return err
	}
	out, err := h.users.GetByID(c.UserContext(), householdID, userID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Hogar del usuario autenticado
// @Tags         household
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.HouseholdResponse
// @Router       /api/household [get]
func (h *HouseholdHandler) Get(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	out, err := h.households.Get(c.UserContext(), householdID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar hogar (solo propietario)
// @Tags         household
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateHouseholdRequest  true  "nombre y moneda"
// @Success      200   {object}  dto.HouseholdResponse
// @Router       /api/household [put]
func (h *HouseholdHandler) Update(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var in dto.UpdateHouseholdRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.households.Update(c.UserContext(), householdID, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Members godoc
// @Summary      Miembros del hogar
// @Tags         household
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/household/members [get]
func (h *HouseholdHandler) Members(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	out, err := h.households.Members(c.UserContext(), householdID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ── Tiendas ───────────────────────────────────────────────────────────────────

// CreateStore godoc
// @Summary      Crear tienda
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequest  true  "nombre y dirección"
// @Success      201   {object}  dto.StoreResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stores [post]
func (h *HouseholdHandler) CreateStore(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var in dto.CreateStoreRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.stores.Create(c.UserContext(), householdID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListStores godoc
// @Summary      Listar tiendas
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StoreResponse
// @Router       /api/stores [get]
func (h *HouseholdHandler) ListStores(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	out, err := h.stores.List(c.UserContext(), householdID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetStore godoc
// @Summary      Obtener tienda
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.StoreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [get]
func (h *HouseholdHandler) GetStore(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.stores.GetByID(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateStore godoc
// @Summary      Actualizar tienda
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tienda"
// @Param        body  body  dto.UpdateStoreRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.StoreResponse
// @Router       /api/stores/{id} [put]
func (h *HouseholdHandler) UpdateStore(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateStoreRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.stores.Update(c.UserContext(), householdID, id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteStore godoc
// @Summary      Eliminar tienda
// @Tags         stores
// @Security     Bearer
// @Param        id   path  string  true  "ID de la tienda"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [delete]
func (h *HouseholdHandler) DeleteStore(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.stores.Delete(c.UserContext(), householdID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Ubicaciones ───────────────────────────────────────────────────────────────

// CreateLocation godoc
// @Summary      Crear ubicación (despensa, nevera, congelador)
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "nombre y tipo"
// @Success      201   {object}  dto.LocationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *HouseholdHandler) CreateLocation(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var in dto.CreateLocationRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.locations.Create(c.UserContext(), householdID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLocations godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations [get]
func (h *HouseholdHandler) ListLocations(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	out, err := h.locations.List(c.UserContext(), householdID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetLocation godoc
// @Summary      Obtener ubicación
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LocationResponse
// @Router       /api/locations/{id} [get]
func (h *HouseholdHandler) GetLocation(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.locations.GetByID(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateLocation godoc
// @Summary      Actualizar ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la ubicación"
// @Param        body  body  dto.UpdateLocationRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.LocationResponse
// @Router       /api/locations/{id} [put]
func (h *HouseholdHandler) UpdateLocation(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateLocationRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.locations.Update(c.UserContext(), householdID, id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteLocation godoc
// @Summary      Eliminar ubicación
// @Tags         locations
// @Security     Bearer
// @Param        id   path  string  true  "ID de la ubicación"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [delete]
func (h *HouseholdHandler) DeleteLocation(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.locations.Delete(c.UserContext(), householdID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
