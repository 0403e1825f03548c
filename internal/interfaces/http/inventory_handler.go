package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/inventory"
)

// InventoryHandler maneja movimientos, lotes, vencimientos y reposición (protegido).
type InventoryHandler struct {
	movements     *inventory.RegisterMovementUseCase
	items         *inventory.ItemUseCase
	expiration    *inventory.ExpirationUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	movements *inventory.RegisterMovementUseCase,
	items *inventory.ItemUseCase,
	expiration *inventory.ExpirationUseCase,
	replenishment *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{movements: movements, items: items, expiration: expiration, replenishment: replenishment}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  ADD crea un lote; CONSUME y DISCARD descuentan; ADJUST aplica un delta con signo; MOVE cambia de ubicación.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "type, product_id/item_id, location_id, quantity"
// @Success      201   {object}  dto.MovementResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	householdID, userID, err := session(c)
	if err != nil {
		return err
	}
	var in dto.RegisterMovementRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.movements.RegisterMovementFromRequest(c.UserContext(), householdID, userID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta, exclusivo (YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	from, err := optionalDate(c, "from")
	if err != nil {
		return err
	}
	to, err := optionalDate(c, "to")
	if err != nil {
		return err
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	out, err := h.items.ListAllMovements(c.UserContext(), householdID, from, to, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListItems godoc
// @Summary      Lotes en inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Ubicación"
// @Param        product_id   query  string  false  "Producto"
// @Param        status       query  string  false  "IN_STOCK, LOW_STOCK, EXPIRING_SOON, EXPIRED, OUT_OF_STOCK"
// @Success      200          {array}  dto.InventoryItemResponse
// @Router       /api/inventory/items [get]
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var f dto.InventoryItemFilter
	if err := bindQuery(c, &f); err != nil {
		return err
	}
	out, err := h.items.List(c.UserContext(), householdID, f)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetItem godoc
// @Summary      Detalle de un lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.InventoryItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.items.Get(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// OpenItem godoc
// @Summary      Marcar lote como abierto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.InventoryItemResponse
// @Router       /api/inventory/items/{id}/open [post]
func (h *InventoryHandler) OpenItem(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.items.MarkOpened(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ItemMovements godoc
// @Summary      Movimientos de un lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/items/{id}/movements [get]
func (h *InventoryHandler) ItemMovements(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.items.ListMovements(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Expiring godoc
// @Summary      Lotes por vencer
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días"  default(3)
// @Success      200   {array}  dto.ExpiringItemDTO
// @Router       /api/inventory/expiring [get]
func (h *InventoryHandler) Expiring(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	days := c.QueryInt("days", 3)
	if days < 0 || days > 365 {
		return badRequest("INVALID_DAYS", "days debe estar entre 0 y 365")
	}
	out, err := h.expiration.ListExpiring(c.UserContext(), householdID, days)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Expired godoc
// @Summary      Lotes vencidos con existencias
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ExpiringItemDTO
// @Router       /api/inventory/expired [get]
func (h *InventoryHandler) Expired(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	out, err := h.expiration.ListExpired(c.UserContext(), householdID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetRestockList godoc
// @Summary      Básicos por debajo del mínimo
// @Description  Cantidad sugerida, costo estimado con el precio promedio y prioridad por déficit relativo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/restock [get]
func (h *InventoryHandler) GetRestockList(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	out, err := h.replenishment.GenerateRestockList(c.UserContext(), householdID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RestockToList godoc
// @Summary      Agregar la reposición a una lista de compras
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddToListRequest  true  "lista y productos (vacío = todos)"
// @Success      200   {object}  dto.AddToListResult
// @Router       /api/inventory/restock/to-list [post]
func (h *InventoryHandler) RestockToList(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var in dto.AddToListRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.replenishment.AddToShoppingList(c.UserContext(), householdID, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// optionalDate fecha opcional de la query; nil si no viene.
func optionalDate(c *fiber.Ctx, key string) (*time.Time, error) {
	if c.Query(key) == "" {
		return nil, nil
	}
	t, err := queryDate(c, key, time.Time{})
	if err != nil {
		return nil, err
	}
	return &t, nil
}
