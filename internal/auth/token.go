// Package auth implements the one auth-adjacent concern the engine
// depends on without owning signup/login business logic: verifying
// bearer tokens. Grounded on the teacher's api/crypto/jwt.go.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// TokenManager is the narrow interface the engine's HTTP edge depends
// on to turn a bearer token into a PlayerId.
type TokenManager interface {
	Generate(id string, now time.Time) (string, error)
	Verify(tokenString string) (string, error)
}

type jwtCustomClaims struct {
	Id string `json:"id"`
	jwt.RegisteredClaims
}

// JWTManager implements TokenManager with HS256, grounded on the
// teacher's JWTManager.
type JWTManager struct {
	secretKey []byte
	maxAge    time.Duration
}

func NewJWTManager(secretKey []byte, maxAge time.Duration) *JWTManager {
	return &JWTManager{secretKey: secretKey, maxAge: maxAge}
}

func (m *JWTManager) Generate(id string, now time.Time) (string, error) {
	claims := jwtCustomClaims{
		Id: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.UnexpectedTokenGenerationError, err)
	}
	return signed, nil
}

func (m *JWTManager) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidSigningAlg
		}
		return m.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSigningAlg):
			return "", err
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", domain.ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return "", domain.ErrInvalidTokenSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", domain.ErrCorruptedToken
		default:
			return "", fmt.Errorf("%w: %w", domain.UnexpectedTokenVerificationError, err)
		}
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return "", domain.ErrCorruptedToken
	}
	return claims.Id, nil
}
