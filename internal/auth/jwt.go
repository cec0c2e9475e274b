package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
)

// Identity is the resolved (user, role) pair behind a verified token. Every
// core operation takes it explicitly instead of reading ambient state.
type Identity struct {
	UserID uint
	Role   string
}

// TokenVerifier resolves a bearer credential into an Identity. A
// revocation-checking implementation can wrap JWTManager behind this
// interface without changing any caller.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}

	return &JWTManager{secret: []byte(secret), ttl: ttl}, nil
}

func (m *JWTManager) Issue(userID uint, role string) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature, signing method, and expiry against wall-clock time
// at call time. Anything short of a valid HMAC-signed unexpired token fails.
func (m *JWTManager) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, apperrors.Unauthenticated("token expired")
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Identity{}, apperrors.Unauthenticated("malformed token")
		default:
			return Identity{}, apperrors.Unauthenticated("invalid token signature")
		}
	}

	if !token.Valid {
		return Identity{}, apperrors.Unauthenticated("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return Identity{}, apperrors.Unauthenticated("invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		return Identity{}, apperrors.Unauthenticated("invalid user ID in token claims")
	}

	role, _ := claims["role"].(string)

	return Identity{UserID: uint(userIDFloat), Role: role}, nil
}
