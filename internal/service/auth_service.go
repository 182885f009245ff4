package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ideaforge-be/internal/cache"
	"ideaforge-be/internal/common"
	"ideaforge-be/internal/jwt"
	"ideaforge-be/internal/logging"
	"ideaforge-be/internal/models"
	"ideaforge-be/internal/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *jwt.JWTService
	cache      cache.Cache
	logger     logging.Logger
}

// NewAuthService creates a new auth service. cacheClient may be nil, in which case logout
// only clears the client cookie and tokens stay valid until they expire.
func NewAuthService(userRepo repository.UserRepository, jwtService *jwt.JWTService, cacheClient cache.Cache, logger logging.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		cache:      cacheClient,
		logger:     logger,
	}
}

// NormalizeEmail is applied before every lookup and insert
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	email := NormalizeEmail(req.Email.String())

	// Check if user already exists
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, common.ErrAlreadyExists
	}
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// the unique index still catches a concurrent registration
	user, err := s.userRepo.Create(ctx, email, string(hashedPassword))
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	return &models.RegisterResponse{
		Message: "Registration successful! Please log in.",
		UserID:  user.ID,
		Email:   user.Email,
	}, nil
}

// Login authenticates a user and returns user info with a JWT token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(req.Email.String()))
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "user lookup failed", "error", err)
		}
		return nil, common.ErrInvalidCredentials
	}

	if !checkPassword(user.PasswordHash, req.Password) {
		return nil, common.ErrInvalidCredentials
	}

	token, claims, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// checkPassword never panics on a corrupt stored hash; anything that does not look like a
// modular-crypt hash is treated as a mismatch.
func checkPassword(hash, password string) bool {
	if strings.Count(hash, "$") < 2 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Logout revokes the token until it would have expired anyway
func (s *authService) Logout(ctx context.Context, token string) error {
	if s.cache == nil || token == "" {
		return nil
	}

	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		// already unusable
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.Set(ctx, revokedKey(claims.ID), "1", ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Info(ctx, "user logged out", "user_id", claims.UserID)
	return nil
}

// IsRevoked reports whether the token id was logged out. Cache errors count as not revoked.
func (s *authService) IsRevoked(ctx context.Context, tokenID string) bool {
	if s.cache == nil || tokenID == "" {
		return false
	}

	revoked, err := s.cache.Exists(ctx, revokedKey(tokenID))
	if err != nil {
		s.logger.Warn(ctx, "revocation check failed", "error", err)
		return false
	}
	return revoked
}

func revokedKey(tokenID string) string {
	return fmt.Sprintf("revoked:%s", tokenID)
}
