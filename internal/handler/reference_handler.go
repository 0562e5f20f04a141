package handler

import (
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReferenceHandler serves read-only lookup data for forms.
type ReferenceHandler struct {
	roles   repository.RoleRepository
	catalog service.CatalogService
}

func NewReferenceHandler(roles repository.RoleRepository, catalog service.CatalogService) *ReferenceHandler {
	return &ReferenceHandler{roles: roles, catalog: catalog}
}

// GET /api/v1/roles
func (h *ReferenceHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.roles.FindAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(roles)
}

// GET /api/v1/categories
func (h *ReferenceHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.Categories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// PUT /api/v1/categories/:id
func (h *ReferenceHandler) RenameCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}
	var req service.RenameCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	category, err := h.catalog.RenameCategory(c.UserContext(), actorFrom(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category renamed", "data": category})
}

// GET /api/v1/departments
func (h *ReferenceHandler) GetDepartments(c *fiber.Ctx) error {
	departments, err := h.catalog.Departments(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(departments)
}
