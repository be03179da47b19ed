package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"
	"storefront/pkg/pagination"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       newValidator(),
	}
}

// RegisterRoutes registers the product routes. Reads are public, writes
// need an admin.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", auth, middleware.AdminOnly(), h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, middleware.AdminOnly(), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, middleware.AdminOnly(), h.HandleDeleteProduct)
}

// ProductRequest represents the request body for creating or updating a product.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	ImageURL    string          `json:"image_url" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	CategoryID  uint            `json:"category_id" validate:"gt=0"`
}

func (r ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
	}
}

// HandleGetProducts returns a page of products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var params pagination.Params
	if err := c.QueryParser(&params); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid pagination parameters")
	}
	res, err := h.productService.GetAll(c.UserContext(), params)
	return respond(c, res, err)
}

// HandleGetProduct returns a single product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	res, err := h.productService.GetByID(c.UserContext(), id)
	return respond(c, res, err)
}

// HandleCreateProduct adds a product to the catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if ok, err := bindBody(c, h.validate, &req); !ok {
		return err
	}
	res, err := h.productService.Create(c.UserContext(), req.input())
	return respond(c, res, err)
}

// HandleUpdateProduct overwrites a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	var req ProductRequest
	if ok, err := bindBody(c, h.validate, &req); !ok {
		return err
	}
	res, err := h.productService.Update(c.UserContext(), id, req.input())
	return respond(c, res, err)
}

// HandleDeleteProduct removes a product from the catalog.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	res, err := h.productService.Delete(c.UserContext(), id)
	return respond(c, res, err)
}
