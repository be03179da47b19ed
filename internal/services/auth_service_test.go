package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/result"
	"storefront/internal/services"
	"storefront/pkg/pagination"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint, opts ...repositories.QueryOption) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetPage(ctx context.Context, params pagination.Params, opts ...repositories.QueryOption) (pagination.PagedResult[models.User], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(pagination.PagedResult[models.User]), args.Error(1)
}

func (m *MockUserRepository) Add(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockUnitOfWork is a mock implementation of repositories.UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Commit(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

const testJWTSecret = "test_jwt_secret"

func newAuthService(repo *MockUserRepository, uow *MockUnitOfWork) *services.AuthService {
	return services.NewAuthService(repo, uow, zap.NewNop(), testJWTSecret, time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockUow := new(MockUnitOfWork)
	authService := newAuthService(mockRepo, mockUow)
	input := services.RegisterInput{Username: "testuser", Password: "password123", FirstName: "Test"}

	// Test successful registration
	mockRepo.On("ExistsByUsername", ctx, "testuser").Return(false, nil).Once()
	mockRepo.On("Add", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "testuser" &&
			u.Role == models.RoleCommon &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Return(nil).Once()
	mockUow.On("Commit", ctx).Return(true, nil).Once()

	res, err := authService.Register(ctx, input)
	assert.NoError(t, err)
	assert.Equal(t, result.KindCreated, res.Kind)
	assert.Equal(t, "testuser", res.Data.Username)
	assert.Equal(t, models.RoleCommon, res.Data.Role)
	mockRepo.AssertExpectations(t)
	mockUow.AssertExpectations(t)

	// Test username already taken
	mockRepo.On("ExistsByUsername", ctx, "testuser").Return(true, nil).Once()
	res, err = authService.Register(ctx, input)
	assert.NoError(t, err)
	assert.Equal(t, result.KindDuplicated, res.Kind)
	assert.Equal(t, services.MsgUsernameTaken, res.Message)
	mockRepo.AssertExpectations(t)

	// Test losing the race on the unique index
	mockRepo.On("ExistsByUsername", ctx, "testuser").Return(false, nil).Once()
	mockRepo.On("Add", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockUow.On("Commit", ctx).Return(false, fmt.Errorf("failed to commit changes: %w", errors.New("UNIQUE constraint failed: users.username"))).Once()
	res, err = authService.Register(ctx, input)
	assert.NoError(t, err)
	assert.Equal(t, result.KindDuplicated, res.Kind)
	mockUow.AssertExpectations(t)

	// Test infrastructure failure
	mockRepo.On("ExistsByUsername", ctx, "testuser").Return(false, errors.New("connection refused")).Once()
	_, err = authService.Register(ctx, input)
	assert.Error(t, err)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, new(MockUnitOfWork))

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Entity:       models.Entity{ID: 42},
		Username:     "testuser",
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin,
	}

	// Test successful login
	mockRepo.On("GetByUsername", ctx, user.Username).Return(user, nil).Once()
	res, err := authService.Login(ctx, "testuser", "password123")
	require.NoError(t, err)
	require.Equal(t, result.KindSuccess, res.Kind)
	assert.NotEmpty(t, res.Data.Token)
	assert.Equal(t, uint(42), res.Data.User.ID)

	parsedToken, err := jwt.Parse(res.Data.Token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	assert.Equal(t, string(models.RoleAdmin), claims["role"])
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByUsername", ctx, user.Username).Return(user, nil).Once()
	res, err = authService.Login(ctx, "testuser", "wrongpassword")
	assert.NoError(t, err)
	assert.Equal(t, result.KindUnauthorized, res.Kind)
	assert.Equal(t, services.MsgInvalidCredentials, res.Message)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByUsername", ctx, "nonexistentuser").Return(nil, repositories.ErrNotFound).Once()
	res, err = authService.Login(ctx, "nonexistentuser", "password123")
	assert.NoError(t, err)
	assert.Equal(t, result.KindUnauthorized, res.Kind)
	assert.Equal(t, services.MsgInvalidCredentials, res.Message)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockUow := new(MockUnitOfWork)
	authService := newAuthService(mockRepo, mockUow)

	mockRepo.On("ExistsByUsername", ctx, "admin").Return(false, nil).Once()
	mockRepo.On("Add", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleAdmin
	})).Return(nil).Once()
	mockUow.On("Commit", ctx).Return(true, nil).Once()
	assert.NoError(t, authService.EnsureAdmin(ctx, "admin", "s3cret"))

	// An existing account is left alone.
	mockRepo.On("ExistsByUsername", ctx, "admin").Return(true, nil).Once()
	assert.NoError(t, authService.EnsureAdmin(ctx, "admin", "s3cret"))

	mockRepo.AssertExpectations(t)
	mockUow.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService(new(MockUserRepository), new(MockUnitOfWork))

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  7,
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	// Test valid token
	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, float64(7), claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	// Test malformed token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test wrong secret
	forged, _ := token.SignedString([]byte("another_secret"))
	_, err = authService.ValidateToken(forged)
	assert.Error(t, err)

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  7,
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}
