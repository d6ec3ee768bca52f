// Package auth verifies bearer tokens issued by an external identity
// provider. This service never issues tokens itself; it only checks the
// HS256 signature against the shared secret and extracts the caller.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/lexigen-backend/internal/domain"
	"github.com/heartmarshall/lexigen-backend/pkg/ctxutil"
)

// Verifier validates HS256 access tokens against a shared secret.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a token verifier. secret must be at least 32
// characters for HS256 security.
func NewVerifier(secret string, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// identityClaims extends standard JWT claims with the user's email.
type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Verify parses and validates a token and returns the caller identity.
// The user ID is the token subject; email is a custom claim.
func (v *Verifier) Verify(tokenString string) (ctxutil.Identity, error) {
	if tokenString == "" {
		return ctxutil.Identity{}, fmt.Errorf("token is empty: %w", domain.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return ctxutil.Identity{}, fmt.Errorf("parse token: %w", domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		return ctxutil.Identity{}, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return ctxutil.Identity{}, fmt.Errorf("invalid issuer %q: %w", claims.Issuer, domain.ErrUnauthorized)
	}

	if claims.Subject == "" {
		return ctxutil.Identity{}, fmt.Errorf("token has no subject: %w", domain.ErrUnauthorized)
	}

	return ctxutil.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
