package services_test

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/result"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProfanityChecker is a mock implementation of services.ProfanityChecker
type MockProfanityChecker struct {
	mock.Mock
}

func (m *MockProfanityChecker) ContainsProfanity(text string) bool {
	args := m.Called(text)
	return args.Bool(0)
}

// buyer places and pays an order for product so the user may review it.
func buyer(t *testing.T, f *fixture, username string, productID uint) *models.User {
	t.Helper()
	user := f.seedUser(t, username)
	svc := f.orderService(nil)
	order := checkout(t, f, svc, user.ID, productID, 1)
	res, err := svc.ConfirmPayment(f.ctx(), order.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, result.KindSuccess, res.Kind)
	return user
}

func TestReviewService_Create(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "Headphones", 80)
	user := buyer(t, f, "reviewer", product.ID)
	svc := f.reviewService(services.NewWordListFilter())

	res, err := svc.Create(f.ctx(), user.ID, services.ReviewInput{ProductID: product.ID, Rating: 5, Comment: "Great sound"})
	require.NoError(t, err)
	require.Equal(t, result.KindCreated, res.Kind)
	assert.Equal(t, "reviewer", res.Data.Username)
	assert.Equal(t, 5, res.Data.Rating)

	var stored models.User
	require.NoError(t, f.db.First(&stored, user.ID).Error)
	assert.True(t, stored.HasCompletedFirstPurchaseReview)

	res, err = svc.Create(f.ctx(), user.ID, services.ReviewInput{ProductID: product.ID, Rating: 1, Comment: "Changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, result.KindDuplicated, res.Kind)
	assert.Equal(t, services.MsgAlreadyReviewed, res.Message)

	list, err := svc.GetByProduct(f.ctx(), product.ID)
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Great sound", list.Data[0].Comment)
}

func TestReviewService_CreateRequiresPurchase(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "Speaker", 40)
	user := f.seedUser(t, "browser")
	svc := f.reviewService(services.NewWordListFilter())

	res, err := svc.Create(f.ctx(), user.ID, services.ReviewInput{ProductID: product.ID, Rating: 4, Comment: "Looks nice"})
	require.NoError(t, err)
	assert.Equal(t, result.KindFailure, res.Kind)
	assert.Equal(t, services.MsgMustPurchaseToReview, res.Message)

	// A pending order is not a purchase yet.
	checkout(t, f, f.orderService(nil), user.ID, product.ID, 1)
	res, err = svc.Create(f.ctx(), user.ID, services.ReviewInput{ProductID: product.ID, Rating: 4, Comment: "Looks nice"})
	require.NoError(t, err)
	assert.Equal(t, result.KindFailure, res.Kind)
}

func TestReviewService_CreateRejectsProfanity(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "Blender", 70)
	user := buyer(t, f, "angry", product.ID)
	checker := new(MockProfanityChecker)
	checker.On("ContainsProfanity", "rubbish blender").Return(true).Once()
	svc := f.reviewService(checker)

	res, err := svc.Create(f.ctx(), user.ID, services.ReviewInput{ProductID: product.ID, Rating: 1, Comment: "rubbish blender"})
	require.NoError(t, err)
	assert.Equal(t, result.KindFailure, res.Kind)
	assert.Equal(t, services.MsgProfanityDetected, res.Message)
	checker.AssertExpectations(t)

	var reviews int64
	require.NoError(t, f.db.Model(&models.ProductReview{}).Count(&reviews).Error)
	assert.Zero(t, reviews)
}

func TestReviewService_CreateUnknownProduct(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "lost")

	res, err := f.reviewService(services.NewWordListFilter()).Create(f.ctx(), user.ID, services.ReviewInput{ProductID: 404, Rating: 3})
	require.NoError(t, err)
	assert.Equal(t, result.KindNotFound, res.Kind)

	list, err := f.reviewService(services.NewWordListFilter()).GetByProduct(f.ctx(), 404)
	require.NoError(t, err)
	assert.Equal(t, result.KindNotFound, list.Kind)
}

func TestReviewService_Delete(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "Kettle", 30)
	author := buyer(t, f, "author", product.ID)
	other := f.seedUser(t, "troll")
	svc := f.reviewService(services.NewWordListFilter())

	created, err := svc.Create(f.ctx(), author.ID, services.ReviewInput{ProductID: product.ID, Rating: 4, Comment: "Boils fast"})
	require.NoError(t, err)

	res, err := svc.Delete(f.ctx(), other.ID, created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, result.KindUnauthorized, res.Kind)

	res, err = svc.Delete(f.ctx(), author.ID, created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, result.KindNoContent, res.Kind)

	res, err = svc.Delete(f.ctx(), author.ID, created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, result.KindNotFound, res.Kind)

	list, err := svc.GetByProduct(f.ctx(), product.ID)
	require.NoError(t, err)
	assert.Empty(t, list.Data)
}
