// Package jwttoken creates and validates the bearer tokens callers present
// to the registrar. The token's identity claim is the authorization subject
// for lease operations.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

// Claims are the JWT claims for registrar access tokens.
type Claims struct {
	Identity string `json:"identity"`
	jwt.RegisteredClaims
}

// JWTService signs and validates tokens with a shared HS256 key.
type JWTService struct {
	signingKey []byte
	issuer     string
}

// NewJWTService constructs a JWTService.
func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{signingKey: []byte(signingKey), issuer: issuer}
}

// GenerateToken issues a token for the given identity.
func (s *JWTService) GenerateToken(identity domain.Identity, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Identity: identity.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return newToken.SignedString(s.signingKey)
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Identity == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token carries no identity")
	}
	return claims, nil
}
