package services_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/database/dbtest"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

type fixture struct {
	db         *gorm.DB
	users      *repositories.GORMUserRepository
	categories *repositories.GORMCategoryRepository
	products   *repositories.GORMProductRepository
	carts      *repositories.GORMCartRepository
	orders     *repositories.GORMOrderRepository
	reviews    *repositories.GORMReviewRepository
	uow        repositories.UnitOfWork
	log        *zap.Logger
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	return &fixture{
		db:         db,
		users:      repositories.NewGORMUserRepository(db),
		categories: repositories.NewGORMCategoryRepository(db),
		products:   repositories.NewGORMProductRepository(db),
		carts:      repositories.NewGORMCartRepository(db),
		orders:     repositories.NewGORMOrderRepository(db),
		reviews:    repositories.NewGORMReviewRepository(db),
		uow:        repositories.NewUnitOfWork(),
		log:        zap.NewNop(),
		now:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ctx starts a new request scope, the way the session middleware does.
func (f *fixture) ctx() context.Context {
	return dbtest.Context(f.db, database.WithClock(f.clock))
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) cartService() *services.CartService {
	return services.NewCartService(f.carts, f.products, f.uow, f.log)
}

func (f *fixture) orderService(publisher services.EventPublisher, opts ...services.OrderServiceOption) *services.OrderService {
	opts = append([]services.OrderServiceOption{services.WithOrderClock(f.clock)}, opts...)
	return services.NewOrderService(f.orders, f.carts, f.uow, publisher, f.log, opts...)
}

func (f *fixture) productService() *services.ProductService {
	return services.NewProductService(f.products, f.categories, f.uow)
}

func (f *fixture) categoryService() *services.CategoryService {
	return services.NewCategoryService(f.categories, f.uow)
}

func (f *fixture) reviewService(profanity services.ProfanityChecker) *services.ReviewService {
	return services.NewReviewService(f.reviews, f.products, f.orders, f.users, profanity, f.uow, f.log)
}

func (f *fixture) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	ctx := f.ctx()
	user := &models.User{Username: username, PasswordHash: "hash", Role: models.RoleCommon}
	require.NoError(t, f.users.Add(ctx, user))
	_, err := f.uow.Commit(ctx)
	require.NoError(t, err)
	return user
}

func (f *fixture) seedCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	ctx := f.ctx()
	category := &models.Category{Name: name}
	require.NoError(t, f.categories.Add(ctx, category))
	_, err := f.uow.Commit(ctx)
	require.NoError(t, err)
	return category
}

func (f *fixture) seedProduct(t *testing.T, name string, price int64) *models.Product {
	t.Helper()
	category := f.seedCategory(t, name+" category")
	ctx := f.ctx()
	product := &models.Product{Name: name, Price: decimal.NewFromInt(price), CategoryID: category.ID}
	require.NoError(t, f.products.Add(ctx, product))
	_, err := f.uow.Commit(ctx)
	require.NoError(t, err)
	return product
}

func (f *fixture) setPrice(t *testing.T, productID uint, price int64) {
	t.Helper()
	ctx := f.ctx()
	product, err := f.products.GetByID(ctx, productID)
	require.NoError(t, err)
	product.Price = decimal.NewFromInt(price)
	require.NoError(t, f.products.Update(ctx, product))
	changed, err := f.uow.Commit(ctx)
	require.NoError(t, err)
	require.True(t, changed)
}

func (f *fixture) deleteProduct(t *testing.T, productID uint) {
	t.Helper()
	ctx := f.ctx()
	product, err := f.products.GetByID(ctx, productID)
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, product))
	_, err = f.uow.Commit(ctx)
	require.NoError(t, err)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func requireDecimal(t *testing.T, want decimal.Decimal, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, want.Equal(got), "want %s, got %s", want, got)
}
