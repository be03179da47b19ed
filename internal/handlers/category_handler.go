package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"
	"storefront/pkg/pagination"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for catalog categories.
type CategoryHandler struct {
	categoryService *services.CategoryService
	validate        *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validate:        newValidator(),
	}
}

// RegisterRoutes registers the category routes. Reads are public, writes
// need an admin.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategory)
	categoryRoutes.Post("/", auth, middleware.AdminOnly(), h.HandleCreateCategory)
	categoryRoutes.Put("/:id", auth, middleware.AdminOnly(), h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", auth, middleware.AdminOnly(), h.HandleDeleteCategory)
}

// CategoryRequest represents the request body for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// HandleGetCategories returns a page of categories.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	var params pagination.Params
	if err := c.QueryParser(&params); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid pagination parameters")
	}
	res, err := h.categoryService.GetAll(c.UserContext(), params)
	return respond(c, res, err)
}

// HandleGetCategory returns a single category.
func (h *CategoryHandler) HandleGetCategory(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	res, err := h.categoryService.GetByID(c.UserContext(), id)
	return respond(c, res, err)
}

// HandleCreateCategory adds a category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if ok, err := bindBody(c, h.validate, &req); !ok {
		return err
	}
	res, err := h.categoryService.Create(c.UserContext(), services.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	return respond(c, res, err)
}

// HandleUpdateCategory overwrites a category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	var req CategoryRequest
	if ok, err := bindBody(c, h.validate, &req); !ok {
		return err
	}
	res, err := h.categoryService.Update(c.UserContext(), id, services.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	return respond(c, res, err)
}

// HandleDeleteCategory removes a category without live products.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	res, err := h.categoryService.Delete(c.UserContext(), id)
	return respond(c, res, err)
}
