package handlers

import (
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	reviewService *services.ReviewService
	validate      *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validate:      newValidator(),
	}
}

// RegisterRoutes registers the review routes. Listing is public.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/products/:id/reviews", h.HandleGetReviews)
	router.Post("/products/:id/reviews", auth, h.HandleCreateReview)
	router.Delete("/reviews/:id", auth, h.HandleDeleteReview)
}

// ReviewRequest represents the request body for a new review.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=1000"`
}

// HandleGetReviews lists the approved reviews of a product.
func (h *ReviewHandler) HandleGetReviews(c *fiber.Ctx) error {
	productID, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	res, err := h.reviewService.GetByProduct(c.UserContext(), productID)
	return respond(c, res, err)
}

// HandleCreateReview publishes a review of a purchased product.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	productID, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	var req ReviewRequest
	if ok, err := bindBody(c, h.validate, &req); !ok {
		return err
	}
	res, err := h.reviewService.Create(c.UserContext(), userID, services.ReviewInput{
		ProductID: productID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	return respond(c, res, err)
}

// HandleDeleteReview removes one of the caller's reviews.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	userID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	reviewID, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	res, err := h.reviewService.Delete(c.UserContext(), userID, reviewID)
	return respond(c, res, err)
}
