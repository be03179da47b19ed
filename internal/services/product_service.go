package services

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/result"
	"storefront/pkg/pagination"

	"github.com/shopspring/decimal"
)

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name        string
	Description string
	ImageURL    string
	Price       decimal.Decimal
	CategoryID  uint
}

// ProductService handles business logic for the product catalog.
type ProductService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	uow        repositories.UnitOfWork
}

// NewProductService creates a new ProductService.
func NewProductService(products repositories.ProductRepository, categories repositories.CategoryRepository, uow repositories.UnitOfWork) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		uow:        uow,
	}
}

// GetAll returns a page of products with their categories.
func (s *ProductService) GetAll(ctx context.Context, params pagination.Params) (result.Result[pagination.PagedResult[ProductView]], error) {
	page, err := s.products.GetPage(ctx, params, repositories.WithCategory())
	if err != nil {
		return result.Result[pagination.PagedResult[ProductView]]{}, err
	}
	return result.Success(pagination.Map(page, func(p models.Product) ProductView {
		return toProductView(&p)
	})), nil
}

// GetByID returns a single product.
func (s *ProductService) GetByID(ctx context.Context, id uint) (result.Result[ProductView], error) {
	product, err := s.products.GetByID(ctx, id, repositories.WithCategory())
	if errors.Is(err, repositories.ErrNotFound) {
		return result.NotFound[ProductView](MsgProductNotFound), nil
	}
	if err != nil {
		return result.Result[ProductView]{}, err
	}
	return result.Success(toProductView(product)), nil
}

// Create adds a product to an existing category. Names are unique among live products.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (result.Result[ProductView], error) {
	if res, ok, err := s.checkCategory(ctx, in.CategoryID); !ok {
		return res, err
	}
	taken, err := s.products.ExistsByName(ctx, in.Name)
	if err != nil {
		return result.Result[ProductView]{}, err
	}
	if taken {
		return result.Duplicated[ProductView](MsgProductNameTaken), nil
	}

	product := &models.Product{}
	applyProductInput(product, in)
	if err := s.products.Add(ctx, product); err != nil {
		return result.Result[ProductView]{}, err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[ProductView]{}, err
	}

	saved, err := s.products.GetByID(ctx, product.ID, repositories.WithCategory())
	if err != nil {
		return result.Result[ProductView]{}, err
	}
	return result.Created(toProductView(saved)), nil
}

// Update overwrites the writable fields of a product.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (result.Result[ProductView], error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return result.NotFound[ProductView](MsgProductNotFound), nil
	}
	if err != nil {
		return result.Result[ProductView]{}, err
	}

	if !strings.EqualFold(strings.TrimSpace(product.Name), strings.TrimSpace(in.Name)) {
		taken, err := s.products.ExistsByName(ctx, in.Name)
		if err != nil {
			return result.Result[ProductView]{}, err
		}
		if taken {
			return result.Duplicated[ProductView](MsgProductNameTaken), nil
		}
	}
	if in.CategoryID != product.CategoryID {
		if res, ok, err := s.checkCategory(ctx, in.CategoryID); !ok {
			return res, err
		}
	}

	applyProductInput(product, in)
	if err := s.products.Update(ctx, product); err != nil {
		return result.Result[ProductView]{}, err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[ProductView]{}, err
	}

	saved, err := s.products.GetByID(ctx, product.ID, repositories.WithCategory())
	if err != nil {
		return result.Result[ProductView]{}, err
	}
	return result.Success(toProductView(saved)), nil
}

// Delete soft deletes a product. Cart lines pointing at it stop resolving
// their product; existing orders keep their frozen prices.
func (s *ProductService) Delete(ctx context.Context, id uint) (result.Result[ProductView], error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return result.NotFound[ProductView](MsgProductNotFound), nil
	}
	if err != nil {
		return result.Result[ProductView]{}, err
	}
	if err := s.products.Delete(ctx, product); err != nil {
		return result.Result[ProductView]{}, err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[ProductView]{}, err
	}
	return result.NoContent[ProductView](), nil
}

func (s *ProductService) checkCategory(ctx context.Context, categoryID uint) (result.Result[ProductView], bool, error) {
	_, err := s.categories.GetByID(ctx, categoryID)
	if errors.Is(err, repositories.ErrNotFound) {
		return result.NotFound[ProductView](MsgCategoryNotFound), false, nil
	}
	if err != nil {
		return result.Result[ProductView]{}, false, err
	}
	return result.Result[ProductView]{}, true, nil
}

func applyProductInput(p *models.Product, in ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.ImageURL = in.ImageURL
	p.Price = in.Price
	p.CategoryID = in.CategoryID
}
