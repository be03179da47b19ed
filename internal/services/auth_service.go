package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/result"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// TokenView is returned by a successful login.
type TokenView struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserView  `json:"user"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	uow        repositories.UnitOfWork
	log        *zap.Logger
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, uow repositories.UnitOfWork, log *zap.Logger, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		uow:        uow,
		log:        log,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
	}
}

// Register creates a Common user with a bcrypt hashed password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (result.Result[UserView], error) {
	taken, err := s.userRepo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return result.Result[UserView]{}, err
	}
	if taken {
		return result.Duplicated[UserView](MsgUsernameTaken), nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return result.Result[UserView]{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleCommon,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := s.userRepo.Add(ctx, user); err != nil {
		return result.Result[UserView]{}, err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		// Lost a race on the unique username index.
		if repositories.IsUniqueViolation(err) {
			return result.Duplicated[UserView](MsgUsernameTaken), nil
		}
		return result.Result[UserView]{}, fmt.Errorf("failed to register user: %w", err)
	}
	return result.Created(toUserView(user)), nil
}

// EnsureAdmin creates an Admin account with the given credentials unless
// the username is already taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.Add(ctx, &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin,
	}); err != nil {
		return err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	s.log.Info("admin user created", zap.String("username", username))
	return nil
}

// Login checks the credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (result.Result[TokenView], error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		// Unknown users and wrong passwords look the same to the caller.
		return result.Unauthorized[TokenView](MsgInvalidCredentials), nil
	}
	if err != nil {
		return result.Result[TokenView]{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return result.Unauthorized[TokenView](MsgInvalidCredentials), nil
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenDurat)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      expiresAt.Unix(),
		"iat":      now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return result.Result[TokenView]{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return result.Success(TokenView{
		Token:     tokenString,
		ExpiresAt: expiresAt,
		User:      toUserView(user),
	}), nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
