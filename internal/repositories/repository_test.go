package repositories_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/database/dbtest"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/pagination"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func commit(t *testing.T, ctx context.Context) {
	t.Helper()
	_, err := repositories.NewUnitOfWork().Commit(ctx)
	require.NoError(t, err)
}

func seedProducts(t *testing.T, db *gorm.DB, names ...string) (*models.Category, []*models.Product) {
	t.Helper()
	ctx := dbtest.Context(db)
	categories := repositories.NewGORMCategoryRepository(db)
	products := repositories.NewGORMProductRepository(db)

	category := &models.Category{Name: "Seed"}
	require.NoError(t, categories.Add(ctx, category))
	commit(t, ctx)

	out := make([]*models.Product, 0, len(names))
	for i, name := range names {
		p := &models.Product{Name: name, Price: decimal.NewFromInt(int64(10 * (i + 1))), CategoryID: category.ID}
		require.NoError(t, products.Add(ctx, p))
		out = append(out, p)
	}
	commit(t, ctx)
	return category, out
}

func TestRepository_GetPage(t *testing.T) {
	db := dbtest.Open(t)
	_, seeded := seedProducts(t, db, "A", "B", "C", "D", "E")
	products := repositories.NewGORMProductRepository(db)
	ctx := dbtest.Context(db)

	page, err := products.GetPage(ctx, pagination.Params{PageNumber: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "C", page.Items[0].Name)
	assert.Equal(t, "D", page.Items[1].Name)

	page, err = products.GetPage(ctx, pagination.Params{PageNumber: 4, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, int64(5), page.TotalCount)
	assert.Equal(t, 4, page.CurrentPage)

	// A page number whose offset would overflow still lands past the end.
	page, err = products.GetPage(ctx, pagination.Params{PageNumber: 1<<60 + 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(5), page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, pagination.MaxPageNumber, page.CurrentPage)
	assert.False(t, page.HasNextPage())

	// Filters narrow the set before counting.
	page, err = products.GetPage(ctx, pagination.Params{PageSize: 2},
		repositories.WithWhere("price >= ?", 30),
		repositories.WithOrder("price DESC"),
		repositories.WithCategory(),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "E", page.Items[0].Name)
	require.NotNil(t, page.Items[0].Category)
	assert.Equal(t, "Seed", page.Items[0].Category.Name)

	// Deleted rows are neither counted nor returned.
	require.NoError(t, products.Delete(ctx, seeded[0]))
	commit(t, ctx)
	page, err = products.GetPage(dbtest.Context(db), pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.TotalCount)
	assert.Equal(t, "B", page.Items[0].Name)
}

func TestRepository_GetByIDAndFindOne(t *testing.T) {
	db := dbtest.Open(t)
	_, seeded := seedProducts(t, db, "Solo")
	products := repositories.NewGORMProductRepository(db)
	ctx := dbtest.Context(db)

	got, err := products.GetByID(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Solo", got.Name)

	_, err = products.GetByID(ctx, seeded[0].ID+1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = products.FindOne(ctx, repositories.WithWhere("name = ?", "Nobody"))
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	exists, err := products.ExistsByName(ctx, " solo ")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, products.Delete(ctx, got))
	commit(t, ctx)

	_, err = products.GetByID(dbtest.Context(db), seeded[0].ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	exists, err = products.ExistsByName(dbtest.Context(db), "Solo")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_WritesNeedSession(t *testing.T) {
	db := dbtest.Open(t)
	categories := repositories.NewGORMCategoryRepository(db)

	err := categories.Add(context.Background(), &models.Category{Name: "Loose"})
	assert.ErrorIs(t, err, database.ErrNoSession)

	_, err = repositories.NewUnitOfWork().Commit(context.Background())
	assert.ErrorIs(t, err, database.ErrNoSession)

	// Reads still work without a session.
	page, err := categories.GetPage(context.Background(), pagination.Params{})
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
}

func TestCategoryRepository_HasProducts(t *testing.T) {
	db := dbtest.Open(t)
	category, seeded := seedProducts(t, db, "Only")
	categories := repositories.NewGORMCategoryRepository(db)
	products := repositories.NewGORMProductRepository(db)
	ctx := dbtest.Context(db)

	inUse, err := categories.HasProducts(ctx, category.ID)
	require.NoError(t, err)
	assert.True(t, inUse)

	require.NoError(t, products.Delete(ctx, seeded[0]))
	commit(t, ctx)

	inUse, err = categories.HasProducts(dbtest.Context(db), category.ID)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestOrderRepository_Lookups(t *testing.T) {
	db := dbtest.Open(t)
	_, seeded := seedProducts(t, db, "Lamp", "Rug")
	orders := repositories.NewGORMOrderRepository(db)
	ctx := dbtest.Context(db)

	paid := &models.Order{
		UserID:      7,
		OrderNumber: "ORD-PAID",
		Status:      models.OrderStatusPaid,
		TotalAmount: decimal.NewFromInt(10),
		OrderDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Items:       []models.OrderItem{{ProductID: seeded[0].ID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
	}
	pending := &models.Order{
		UserID:      7,
		OrderNumber: "ORD-PENDING",
		Status:      models.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(20),
		OrderDate:   time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		Items:       []models.OrderItem{{ProductID: seeded[1].ID, Quantity: 1, UnitPrice: decimal.NewFromInt(20)}},
	}
	require.NoError(t, orders.Add(ctx, paid))
	require.NoError(t, orders.Add(ctx, pending))
	commit(t, ctx)

	got, err := orders.GetByOrderNumber(dbtest.Context(db), "ORD-PAID")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, "Lamp", got.Items[0].Product.Name)

	bought, err := orders.UserHasPurchasedProduct(ctx, 7, seeded[0].ID)
	require.NoError(t, err)
	assert.True(t, bought)
	bought, err = orders.UserHasPurchasedProduct(ctx, 7, seeded[1].ID)
	require.NoError(t, err)
	assert.False(t, bought, "pending orders do not count")
	bought, err = orders.UserHasPurchasedProduct(ctx, 8, seeded[0].ID)
	require.NoError(t, err)
	assert.False(t, bought)

	page, err := orders.GetByUserID(ctx, 7, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "ORD-PENDING", page.Items[0].OrderNumber)

	// Deleted orders still hold their number.
	require.NoError(t, orders.Delete(ctx, pending))
	commit(t, ctx)
	taken, err := orders.ExistsByOrderNumber(dbtest.Context(db), "ORD-PENDING")
	require.NoError(t, err)
	assert.True(t, taken)
	_, err = orders.GetByOrderNumber(dbtest.Context(db), "ORD-PENDING")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	taken, err = orders.ExistsByOrderNumber(dbtest.Context(db), "ORD-NEW")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestCartRepository_GetByUserIDWithItems(t *testing.T) {
	db := dbtest.Open(t)
	_, seeded := seedProducts(t, db, "Fork", "Knife")
	carts := repositories.NewGORMCartRepository(db)
	ctx := dbtest.Context(db)

	_, err := carts.GetByUserIDWithItems(ctx, 3)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	cart := &models.Cart{UserID: 3, Items: []models.CartItem{
		{ProductID: seeded[0].ID, Quantity: 1, UnitPrice: seeded[0].Price},
	}}
	require.NoError(t, carts.Add(ctx, cart))
	commit(t, ctx)

	ctx = dbtest.Context(db)
	loaded, err := carts.GetByUserIDWithItems(ctx, 3)
	require.NoError(t, err)
	require.NoError(t, carts.AddItem(ctx, &models.CartItem{CartID: loaded.ID, ProductID: seeded[1].ID, Quantity: 2, UnitPrice: seeded[1].Price}))
	require.NoError(t, carts.RemoveItem(ctx, &loaded.Items[0]))
	commit(t, ctx)

	loaded, err = carts.GetByUserIDWithItems(dbtest.Context(db), 3)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, seeded[1].ID, loaded.Items[0].ProductID)
	require.NotNil(t, loaded.Items[0].Product)
	assert.Equal(t, "Knife", loaded.Items[0].Product.Name)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, repositories.IsUniqueViolation(nil))
	assert.True(t, repositories.IsUniqueViolation(gorm.ErrDuplicatedKey))

	db := dbtest.Open(t)
	users := repositories.NewGORMUserRepository(db)
	ctx := dbtest.Context(db)
	require.NoError(t, users.Add(ctx, &models.User{Username: "dup", PasswordHash: "x", Role: models.RoleCommon}))
	commit(t, ctx)

	require.NoError(t, users.Add(ctx, &models.User{Username: "dup", PasswordHash: "y", Role: models.RoleCommon}))
	_, err := repositories.NewUnitOfWork().Commit(ctx)
	require.Error(t, err)
	assert.True(t, repositories.IsUniqueViolation(err))
}
