package handlers

import (
	"storefront/internal/services"
	"storefront/pkg/pagination"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout and the caller's orders.
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes registers the order routes. Every route requires auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", h.HandleGetMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Patch("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Patch("/:id/confirm", h.HandleConfirmPayment)
}

// HandleCreateOrder checks out the caller's cart.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	res, err := h.orderService.CreateFromCart(c.UserContext(), userID)
	return respond(c, res, err)
}

// HandleGetMyOrders returns a page of the caller's orders, newest first.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var params pagination.Params
	if err := c.QueryParser(&params); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid pagination parameters")
	}
	res, err := h.orderService.GetMyOrders(c.UserContext(), userID, params)
	return respond(c, res, err)
}

// HandleGetOrder returns one of the caller's orders.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	orderID, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	res, err := h.orderService.GetByID(c.UserContext(), orderID, userID)
	return respond(c, res, err)
}

// HandleCancelOrder cancels a pending order.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	orderID, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	res, err := h.orderService.CancelOrder(c.UserContext(), orderID, userID)
	return respond(c, res, err)
}

// HandleConfirmPayment marks a pending order as paid.
func (h *OrderHandler) HandleConfirmPayment(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	orderID, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	res, err := h.orderService.ConfirmPayment(c.UserContext(), orderID, userID)
	return respond(c, res, err)
}
