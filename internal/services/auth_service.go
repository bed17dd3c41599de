package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"storerate/internal/apperrors"
	"storerate/internal/models"
	"storerate/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is the lifetime of issued tokens.
const DefaultTokenTTL = time.Hour

// Claims is the payload of an issued token.
type Claims struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role"`
	jwt.StandardClaims
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo    repositories.UserRepository
	jwtSecret   []byte
	tokenDurat  time.Duration // Duration for which JWT is valid
	allowLegacy bool
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithTokenTTL overrides DefaultTokenTTL.
func WithTokenTTL(ttl time.Duration) AuthOption {
	return func(s *AuthService) { s.tokenDurat = ttl }
}

// WithLegacyPlaintext accepts stored plaintext passwords and rehashes them
// after a successful login.
func WithLegacyPlaintext(allow bool) AuthOption {
	return func(s *AuthService) { s.allowLegacy = allow }
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, opts ...AuthOption) *AuthService {
	s := &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: DefaultTokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// RegisterUser checks the email is free, hashes the password and stores the user.
// The existence check is advisory; the unique index on email decides races.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User, duplicateMsg string) error {
	if !user.Role.Valid() {
		return apperrors.Validation("Invalid role")
	}

	existing, err := s.userRepo.GetByEmail(ctx, user.Email)
	switch {
	case err == nil && existing != nil:
		return apperrors.Validation(duplicateMsg)
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return err
	}

	hashed, err := HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}
	log.WithFields(log.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")
	return nil
}

// LoginUser authenticates by email and returns a signed token and the user.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.Validation("User not found")
		}
		return "", nil, err
	}

	ok, legacy := s.checkPassword(user, password)
	if !ok {
		return "", nil, apperrors.Validation("Invalid credentials")
	}
	if legacy {
		s.migrateLegacyPassword(ctx, user, password)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken signs a token for user carrying its id and role.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID:   user.ID,
		Role: user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.tokenDurat).Unix(),
			IssuedAt:  now.Unix(),
		},
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthenticated, "invalid token", err)
	}
	if !token.Valid || claims.ID == "" || !claims.Role.Valid() {
		return nil, apperrors.New(apperrors.ErrUnauthenticated, "invalid token")
	}
	return claims, nil
}

// ChangePassword verifies current before storing the hash of next.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if ok, _ := s.checkPassword(user, current); !ok {
		return apperrors.Validation("Current password is incorrect")
	}

	hashed, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hashed)
}

// EnsureAdmin creates an admin account for email unless one exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	admin := &models.User{Username: username, Email: email, Password: password, Role: models.RoleAdmin}
	if err := s.RegisterUser(ctx, admin, "Email already in use"); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	log.WithField("email", email).Info("Seeded admin account")
	return nil
}

// checkPassword compares against the bcrypt hash, and when enabled against a
// legacy plaintext value. legacy reports which rule matched.
func (s *AuthService) checkPassword(user *models.User, password string) (ok, legacy bool) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err == nil {
		return true, false
	}
	if s.allowLegacy && subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) == 1 {
		return true, true
	}
	return false, false
}

func (s *AuthService) migrateLegacyPassword(ctx context.Context, user *models.User, password string) {
	hashed, err := HashPassword(password)
	if err == nil {
		err = s.userRepo.UpdatePassword(ctx, user.ID, hashed)
	}
	if err != nil {
		log.WithField("user_id", user.ID).Warnf("Failed to rehash legacy password: %v", err)
		return
	}
	log.WithField("user_id", user.ID).Info("Rehashed legacy plaintext password")
}
