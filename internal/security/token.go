package security

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"renthub-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrMissingEmail = errors.New("token carries no verified email")
)

const (
	tokenIssuer   = "renthub"
	tokenAudience = "renthub-api"
)

// Verifier checks a bearer token and reports who it belongs to.
type Verifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

// UserClaims are the claims of tokens minted by TokenManager
type UserClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Role    string `json:"role,omitempty"` // requested role on first sign-in
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens for development and
// internal tooling.
type TokenManager interface {
	Verifier
	GenerateAccessToken(email, name string, role domain.UserRole, ttl time.Duration) (string, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
	}
}

func (m *tokenManager) GenerateAccessToken(email, name string, role domain.UserRole, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := UserClaims{
		Email: email,
		Name:  name,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.ToLower(email),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) Verify(ctx context.Context, tokenString string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, ErrMissingEmail
	}
	return &domain.Identity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		Picture:       claims.Picture,
		RequestedRole: domain.UserRole(claims.Role),
	}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
