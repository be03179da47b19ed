package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/result"

	"go.uber.org/zap"
)

// ReviewInput carries a new review.
type ReviewInput struct {
	ProductID uint
	Rating    int
	Comment   string
}

// ReviewService handles business logic for product reviews.
type ReviewService struct {
	reviews   repositories.ReviewRepository
	products  repositories.ProductRepository
	orders    repositories.OrderRepository
	users     repositories.UserRepository
	profanity ProfanityChecker
	uow       repositories.UnitOfWork
	log       *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	reviews repositories.ReviewRepository,
	products repositories.ProductRepository,
	orders repositories.OrderRepository,
	users repositories.UserRepository,
	profanity ProfanityChecker,
	uow repositories.UnitOfWork,
	log *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		products:  products,
		orders:    orders,
		users:     users,
		profanity: profanity,
		uow:       uow,
		log:       log,
	}
}

// GetByProduct lists the approved reviews of a product, newest first.
func (s *ReviewService) GetByProduct(ctx context.Context, productID uint) (result.Result[[]ReviewView], error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return result.NotFound[[]ReviewView](MsgProductNotFound), nil
		}
		return result.Result[[]ReviewView]{}, err
	}

	reviews, err := s.reviews.GetByProductID(ctx, productID, true)
	if err != nil {
		return result.Result[[]ReviewView]{}, err
	}
	views := make([]ReviewView, 0, len(reviews))
	for i := range reviews {
		views = append(views, toReviewView(&reviews[i]))
	}
	return result.Success(views), nil
}

// Create publishes a review. Only buyers of the product may review it, once.
func (s *ReviewService) Create(ctx context.Context, userID uint, in ReviewInput) (result.Result[ReviewView], error) {
	if _, err := s.products.GetByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return result.NotFound[ReviewView](MsgProductNotFound), nil
		}
		return result.Result[ReviewView]{}, err
	}

	reviewed, err := s.reviews.UserHasReviewedProduct(ctx, in.ProductID, userID)
	if err != nil {
		return result.Result[ReviewView]{}, err
	}
	if reviewed {
		return result.Duplicated[ReviewView](MsgAlreadyReviewed), nil
	}

	purchased, err := s.orders.UserHasPurchasedProduct(ctx, userID, in.ProductID)
	if err != nil {
		return result.Result[ReviewView]{}, err
	}
	if !purchased {
		return result.Failure[ReviewView](MsgMustPurchaseToReview), nil
	}

	if s.profanity.ContainsProfanity(in.Comment) {
		return result.Failure[ReviewView](MsgProfanityDetected), nil
	}

	review := &models.ProductReview{
		ProductID:  in.ProductID,
		UserID:     userID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		IsApproved: true,
	}
	if err := s.reviews.Add(ctx, review); err != nil {
		return result.Result[ReviewView]{}, err
	}
	if err := s.markFirstReview(ctx, userID); err != nil {
		return result.Result[ReviewView]{}, err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[ReviewView]{}, err
	}

	saved, err := s.reviews.GetByIDWithUser(ctx, review.ID)
	if err != nil {
		return result.Result[ReviewView]{}, fmt.Errorf("failed to reload review %d: %w", review.ID, err)
	}
	return result.Created(toReviewView(saved)), nil
}

func (s *ReviewService) markFirstReview(ctx context.Context, userID uint) error {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		s.log.Warn("review author not found", zap.Uint("user_id", userID))
		return nil
	}
	if err != nil {
		return err
	}
	if user.HasCompletedFirstPurchaseReview {
		return nil
	}
	user.HasCompletedFirstPurchaseReview = true
	return s.users.Update(ctx, user)
}

// Delete removes a review written by the user.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uint) (result.Result[ReviewView], error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if errors.Is(err, repositories.ErrNotFound) {
		return result.NotFound[ReviewView](MsgReviewNotFound), nil
	}
	if err != nil {
		return result.Result[ReviewView]{}, err
	}
	if review.UserID != userID {
		return result.Unauthorized[ReviewView](MsgAccessDenied), nil
	}

	if err := s.reviews.Delete(ctx, review); err != nil {
		return result.Result[ReviewView]{}, err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[ReviewView]{}, err
	}
	return result.NoContent[ReviewView](), nil
}
