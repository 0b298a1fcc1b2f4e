// Package auth issues and validates the tokens that guard domain edits.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrEmptySubject  = errors.New("subject cannot be empty")
	ErrInvalidRole   = errors.New("invalid role")
	ErrShortSecret   = errors.New("secret must be at least 32 characters")
	ErrForbiddenRole = errors.New("role not allowed to edit")
)

// Roles carried in the token
const (
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

const issuer = "domainverse"

// Claims are the token claims
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// CanEdit reports whether the claims allow renames and verb changes
func (c *Claims) CanEdit() bool {
	return c.Role == RoleEditor
}

// TokenManager signs and validates HS256 tokens
type TokenManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewTokenManager creates a token manager.
// Returns an error if the secret is shorter than 32 characters.
func NewTokenManager(secret string, tokenDuration time.Duration) (*TokenManager, error) {
	if len(secret) < 32 {
		return nil, ErrShortSecret
	}

	return &TokenManager{
		secretKey:     []byte(secret),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}, nil
}

// GenerateToken issues a token for subject with role
func (m *TokenManager) GenerateToken(subject, role string) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	if role != RoleEditor && role != RoleViewer {
		return "", fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	now := m.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token and returns its claims
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
