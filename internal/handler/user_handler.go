package handler

import (
	"errors"

	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService  service.UserService
	queryService service.QueryService
}

func NewUserHandler(userService service.UserService, queryService service.QueryService) *UserHandler {
	return &UserHandler{userService: userService, queryService: queryService}
}

// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	user, err := h.userService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.userService.Create(c.UserContext(), actorFrom(c), req)
	if errors.Is(err, service.ErrEmailTaken) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    user,
	})
}

// GetUserAssets lists assets currently assigned to a user.
// GET /api/v1/users/:id/assets
func (h *UserHandler) GetUserAssets(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	assets, err := h.queryService.ListAssignedAssets(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(assets)
}

// GetMyAssets lists assets assigned to the caller.
// GET /api/v1/me/assets
func (h *UserHandler) GetMyAssets(c *fiber.Ctx) error {
	assets, err := h.queryService.ListAssignedAssets(c.UserContext(), actorFrom(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(assets)
}
