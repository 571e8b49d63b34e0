package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const purposePasswordReset = "password_reset"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrEmptySecret  = errors.New("token secret must not be empty")
)

// Claims is the payload of both access and password-reset tokens.
type Claims struct {
	Email   string `json:"email"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint64, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// TokenManager signs and verifies HS256 tokens. Access and reset tokens use
// different secrets so one can never be replayed as the other.
type TokenManager struct {
	secret      []byte
	resetSecret []byte
	ttl         time.Duration
	resetTTL    time.Duration
	now         func() time.Time
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(secret, resetSecret string, ttl, resetTTL time.Duration) (*TokenManager, error) {
	if secret == "" || resetSecret == "" {
		return nil, ErrEmptySecret
	}

	return &TokenManager{
		secret:      []byte(secret),
		resetSecret: []byte(resetSecret),
		ttl:         ttl,
		resetTTL:    resetTTL,
		now:         time.Now,
	}, nil
}

// Issue returns an access token for the user.
func (m *TokenManager) Issue(userID uint64, email, role string) (string, error) {
	now := m.now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// Parse verifies an access token.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString, m.secret)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueReset returns a short-lived token scoped to password reset.
// Every reset token carries a random id so two requests never collide.
func (m *TokenManager) IssueReset(userID uint64, email string) (string, error) {
	now := m.now()
	claims := Claims{
		Email:   email,
		Purpose: purposePasswordReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.resetTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.resetSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return token, nil
}

// ParseReset verifies a password-reset token.
func (m *TokenManager) ParseReset(tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString, m.resetSecret)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purposePasswordReset {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *TokenManager) parse(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
