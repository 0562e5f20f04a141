package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AssetHandler struct {
	ledger      *service.Ledger
	catalog     service.CatalogService
	assignments service.AssignmentService
	queries     service.QueryService
	alerts      service.AlertService
}

func NewAssetHandler(
	ledger *service.Ledger,
	catalog service.CatalogService,
	assignments service.AssignmentService,
	queries service.QueryService,
	alerts service.AlertService,
) *AssetHandler {
	return &AssetHandler{ledger: ledger, catalog: catalog, assignments: assignments, queries: queries, alerts: alerts}
}

// GetAssets lists assets grouped by category, with the current stock alert.
// GET /api/v1/assets?search=
func (h *AssetHandler) GetAssets(c *fiber.Ctx) error {
	groups, err := h.queries.ListAssetsByCategory(c.UserContext(), c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	alert, err := h.alerts.ComputeStockAlert(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": groups, "alert": alert})
}

// GET /api/v1/assets/alerts
func (h *AssetHandler) GetStockAlert(c *fiber.Ctx) error {
	alert, err := h.alerts.ComputeStockAlert(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"alert": alert})
}

// GET /api/v1/assets/:id
func (h *AssetHandler) GetAsset(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid asset ID")
	}
	asset, err := h.ledger.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(asset)
}

// RegisterProduct creates one bulk asset or a set of serialized units.
// POST /api/v1/assets
func (h *AssetHandler) RegisterProduct(c *fiber.Ctx) error {
	var req service.RegisterProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.catalog.RegisterProduct(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product registered", "data": result})
}

// PUT /api/v1/assets/:id
func (h *AssetHandler) UpdateAsset(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid asset ID")
	}
	var req service.UpdateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.catalog.UpdateAsset(c.UserContext(), actorFrom(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Asset updated", "data": result})
}

// POST /api/v1/assets/:id/restock
func (h *AssetHandler) Restock(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid asset ID")
	}
	var req service.RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	asset, err := h.catalog.Restock(c.UserContext(), actorFrom(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Asset restocked", "data": asset})
}

// Adjust applies a signed stock correction.
// POST /api/v1/assets/:id/adjust
func (h *AssetHandler) Adjust(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid asset ID")
	}
	var req service.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	asset, err := h.catalog.AdjustStock(c.UserContext(), actorFrom(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": asset})
}

// DELETE /api/v1/assets/:id
func (h *AssetHandler) RemoveAsset(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid asset ID")
	}
	if err := h.catalog.RemoveAsset(c.UserContext(), actorFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Asset removed"})
}

// POST /api/v1/assets/:id/assign
func (h *AssetHandler) Assign(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid asset ID")
	}
	var req service.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	asset, err := h.assignments.Assign(c.UserContext(), actorFrom(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Asset assigned", "data": asset})
}

// POST /api/v1/assets/:id/return
func (h *AssetHandler) Return(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid asset ID")
	}

	asset, err := h.assignments.Return(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Asset returned", "data": asset})
}
