package handler

import (
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	transactions service.TransactionService
	orders       service.OrderService
	queries      service.QueryService
}

func NewTransactionHandler(transactions service.TransactionService, orders service.OrderService, queries service.QueryService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, orders: orders, queries: queries}
}

// Sell records an admin-side sale.
// POST /api/v1/sales
func (h *TransactionHandler) Sell(c *fiber.Ctx) error {
	var req service.SellRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.transactions.Sell(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale recorded", "data": result})
}

// GET /api/v1/sales
func (h *TransactionHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.queries.ListSales(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}

// PlaceOrder reserves stock for the calling user.
// POST /api/v1/orders
func (h *TransactionHandler) PlaceOrder(c *fiber.Ctx) error {
	var req service.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	actor := actorFrom(c)
	req.UserID = actor.ID

	result, err := h.transactions.PlaceOrder(c.UserContext(), actor, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Order placed", "data": result})
}

// GetOrders lists the caller's orders. Callers with order:view_all may pass
// user_id to filter, or omit it to see every order.
// GET /api/v1/orders?user_id=
func (h *TransactionHandler) GetOrders(c *fiber.Ctx) error {
	userID, err := queryID(c, "user_id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	if !middleware.HasPrivilege(c, model.PrivOrderViewAll) {
		self := actorFrom(c).ID
		if userID != nil && *userID != self {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: requires '" + model.PrivOrderViewAll + "' privilege",
			})
		}
		userID = &self
	}

	orders, err := h.queries.ListOrders(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// PATCH /api/v1/orders/:id/confirm
func (h *TransactionHandler) ConfirmOrder(c *fiber.Ctx) error {
	return h.decide(c, model.DecisionConfirm)
}

// PATCH /api/v1/orders/:id/reject
func (h *TransactionHandler) RejectOrder(c *fiber.Ctx) error {
	return h.decide(c, model.DecisionReject)
}

func (h *TransactionHandler) decide(c *fiber.Ctx, decision model.OrderDecision) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid order ID")
	}

	order, err := h.orders.DecideOrder(c.UserContext(), actorFrom(c), id, decision)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order " + string(order.Status), "data": order})
}

// POST /api/v1/transfers
func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	var req service.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	record, err := h.transactions.Transfer(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Asset transferred", "data": record})
}

// GET /api/v1/transfers?asset_id=
func (h *TransactionHandler) GetTransfers(c *fiber.Ctx) error {
	assetID, err := queryID(c, "asset_id")
	if err != nil {
		return badRequest(c, "Invalid asset ID")
	}
	transfers, err := h.queries.ListTransfers(c.UserContext(), assetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transfers)
}
