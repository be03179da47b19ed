package handlers

import (
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the caller's cart.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the cart routes. Every route requires auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
	cartRoutes.Delete("/clear", h.HandleClearCart)
}

// AddToCartRequest represents the request body for adding a product.
type AddToCartRequest struct {
	ProductID uint `json:"product_id" validate:"gt=0"`
	Quantity  int  `json:"quantity" validate:"min=1,max=99"`
}

// UpdateQuantityRequest represents the request body for changing a line quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=1,max=99"`
}

// HandleGetCart returns the caller's cart, empty if it was never created.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	res, err := h.cartService.GetCart(c.UserContext(), userID)
	return respond(c, res, err)
}

// HandleAddItem adds a product to the caller's cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req AddToCartRequest
	if ok, err := bindBody(c, h.validate, &req); !ok {
		return err
	}
	res, err := h.cartService.AddItem(c.UserContext(), userID, req.ProductID, req.Quantity)
	return respond(c, res, err)
}

// HandleUpdateItem overwrites the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	itemID, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	var req UpdateQuantityRequest
	if ok, err := bindBody(c, h.validate, &req); !ok {
		return err
	}
	res, err := h.cartService.UpdateItemQuantity(c.UserContext(), userID, itemID, req.Quantity)
	return respond(c, res, err)
}

// HandleRemoveItem deletes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	itemID, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	res, err := h.cartService.RemoveItem(c.UserContext(), userID, itemID)
	return respond(c, messageResult(res), err)
}

// HandleClearCart deletes every line of the caller's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	res, err := h.cartService.ClearCart(c.UserContext(), userID)
	return respond(c, messageResult(res), err)
}
