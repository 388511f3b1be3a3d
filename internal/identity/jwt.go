// Package identity binds bearer tokens to opaque caller principals.
//
// The compliance core performs no cryptographic verification of its own; the
// hosting environment establishes who is calling. This package is that
// environment for the HTTP deployment: an HMAC-signed JWT whose subject is
// the principal token.
package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fairchain/pkg/domain"
	dErrors "fairchain/pkg/domain-errors"
)

const issuer = "fairchain"

// Service issues and validates principal tokens.
type Service struct {
	signingKey []byte
}

func New(signingKey string) *Service {
	return &Service{signingKey: []byte(signingKey)}
}

// Issue mints a token for the principal. Used by operators to provision
// credentials; the core never calls it.
func (s *Service) Issue(principal domain.Principal, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   principal.String(),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		ID:        uuid.NewString(),
	})
	return token.SignedString(s.signingKey)
}

// Validate checks the token signature and expiry and returns the principal.
func (s *Service) Validate(tokenString string) (domain.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return domain.Principal(claims.Subject), nil
}
