package services

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/result"
	"storefront/pkg/pagination"

	"gorm.io/gorm/clause"
)

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryService handles business logic for catalog categories.
type CategoryService struct {
	categories repositories.CategoryRepository
	uow        repositories.UnitOfWork
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories repositories.CategoryRepository, uow repositories.UnitOfWork) *CategoryService {
	return &CategoryService{categories: categories, uow: uow}
}

// GetAll returns a page of categories sorted by name.
func (s *CategoryService) GetAll(ctx context.Context, params pagination.Params) (result.Result[pagination.PagedResult[CategoryView]], error) {
	page, err := s.categories.GetPage(ctx, params,
		repositories.WithOrder(clause.OrderByColumn{Column: clause.Column{Name: "name"}}))
	if err != nil {
		return result.Result[pagination.PagedResult[CategoryView]]{}, err
	}
	return result.Success(pagination.Map(page, func(c models.Category) CategoryView {
		return toCategoryView(&c)
	})), nil
}

// GetByID returns a single category.
func (s *CategoryService) GetByID(ctx context.Context, id uint) (result.Result[CategoryView], error) {
	category, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return result.NotFound[CategoryView](MsgCategoryNotFound), nil
	}
	if err != nil {
		return result.Result[CategoryView]{}, err
	}
	return result.Success(toCategoryView(category)), nil
}

// Create adds a category. Names are unique among live categories.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (result.Result[CategoryView], error) {
	taken, err := s.categories.ExistsByName(ctx, in.Name)
	if err != nil {
		return result.Result[CategoryView]{}, err
	}
	if taken {
		return result.Duplicated[CategoryView](MsgCategoryNameTaken), nil
	}

	category := &models.Category{Name: strings.TrimSpace(in.Name), Description: in.Description}
	if err := s.categories.Add(ctx, category); err != nil {
		return result.Result[CategoryView]{}, err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[CategoryView]{}, err
	}
	return result.Created(toCategoryView(category)), nil
}

// Update overwrites the writable fields of a category.
func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (result.Result[CategoryView], error) {
	category, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return result.NotFound[CategoryView](MsgCategoryNotFound), nil
	}
	if err != nil {
		return result.Result[CategoryView]{}, err
	}
	if !strings.EqualFold(strings.TrimSpace(category.Name), strings.TrimSpace(in.Name)) {
		taken, err := s.categories.ExistsByName(ctx, in.Name)
		if err != nil {
			return result.Result[CategoryView]{}, err
		}
		if taken {
			return result.Duplicated[CategoryView](MsgCategoryNameTaken), nil
		}
	}

	category.Name = strings.TrimSpace(in.Name)
	category.Description = in.Description
	if err := s.categories.Update(ctx, category); err != nil {
		return result.Result[CategoryView]{}, err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[CategoryView]{}, err
	}
	return result.Success(toCategoryView(category)), nil
}

// Delete soft deletes a category that no live product references.
func (s *CategoryService) Delete(ctx context.Context, id uint) (result.Result[CategoryView], error) {
	category, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return result.NotFound[CategoryView](MsgCategoryNotFound), nil
	}
	if err != nil {
		return result.Result[CategoryView]{}, err
	}
	// The foreign key only guards physical deletes; a soft delete is an update.
	inUse, err := s.categories.HasProducts(ctx, id)
	if err != nil {
		return result.Result[CategoryView]{}, err
	}
	if inUse {
		return result.Failure[CategoryView](MsgCategoryHasProducts), nil
	}

	if err := s.categories.Delete(ctx, category); err != nil {
		return result.Result[CategoryView]{}, err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[CategoryView]{}, err
	}
	return result.NoContent[CategoryView](), nil
}
