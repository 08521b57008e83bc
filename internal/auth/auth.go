package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"artisan-market/internal/apperr"
	"artisan-market/pkg/model"
)

// AuthService handles authentication operations
type AuthService struct {
	db        *sqlx.DB
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(db *sqlx.DB, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPassword compares password with hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateJWT creates a signed token for an authenticated user
func GenerateJWT(secret []byte, userID, phone string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"phone":   phone,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// ParseJWT validates a token and returns the user id it was issued for
func ParseJWT(secret []byte, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("token has no user_id")
	}
	return userID, nil
}

// Login authenticates a user by phone or email and password
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	column, value := "phone", strings.TrimSpace(req.Phone)
	if value == "" {
		column, value = "email", strings.TrimSpace(req.Email)
	}
	if value == "" {
		return nil, "", apperr.NewBadRequest("phone or email is required")
	}

	// Secondary keys may be non-unique by configuration, so try each match
	var candidates []model.User
	err := s.db.SelectContext(ctx, &candidates, `
        SELECT id, name, email, phone, password_hash, created_at, updated_at
        FROM users
        WHERE `+column+` = $1 AND password_hash IS NOT NULL
        ORDER BY created_at
    `, value)
	if err != nil {
		return nil, "", apperr.Wrap(err, "Failed to log in")
	}

	for i := range candidates {
		user := &candidates[i]
		if !CheckPassword(req.Password, user.PasswordHash.String) {
			continue
		}
		token, err := GenerateJWT(s.jwtSecret, user.ID, user.Phone, s.tokenTTL)
		if err != nil {
			return nil, "", apperr.Wrap(err, "Failed to log in")
		}
		s.logger.Info("User logged in", zap.String("user_id", user.ID))
		return user, token, nil
	}

	s.logger.Info("Rejected login", zap.String("by", column))
	return nil, "", apperr.NewUnauthorized("invalid credentials")
}

// Secret exposes the signing key for the auth middleware
func (s *AuthService) Secret() []byte {
	return s.jwtSecret
}
